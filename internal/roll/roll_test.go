package roll

import (
	"fmt"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/onepage/internal/errors"
	"github.com/tatianab/onepage/internal/testutils"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		notation string
		want     Notation
		wantErr  bool
	}{
		{notation: "1d8", want: Notation{Count: 1, Sides: 8}},
		{notation: "2D6", want: Notation{Count: 2, Sides: 6}},
		{notation: " 1d10 ", want: Notation{Count: 1, Sides: 10}},
		{notation: "d6", wantErr: true},
		{notation: "0d6", wantErr: true},
		{notation: "2d0", wantErr: true},
		{notation: "1d6+1", wantErr: true},
		{notation: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.notation, func(t *testing.T) {
			got, err := Parse(tc.notation)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidArgument(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, fmt.Sprintf("%dd%d", tc.want.Count, tc.want.Sides), got.String())
		})
	}
}

func TestNotationRoll(t *testing.T) {
	r := testutils.NewScriptedRoller(3, 4)
	total, err := Notation{Count: 2, Sides: 4}.Roll(r)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Equal(t, []int{4, 4}, r.Sizes())
}

func TestAbilityScoreDropsLowest(t *testing.T) {
	testCases := []struct {
		name  string
		faces []int
		want  int
	}{
		{name: "distinct", faces: []int{3, 6, 1, 5}, want: 14},
		{name: "duplicate lowest", faces: []int{2, 2, 6, 6}, want: 14},
		{name: "all ones", faces: []int{1, 1, 1, 1}, want: 3},
		{name: "all sixes", faces: []int{6, 6, 6, 6}, want: 18},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AbilityScore(testutils.NewScriptedRoller(tc.faces...))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAbilityScores(t *testing.T) {
	r := testutils.NewScriptedRoller(
		6, 6, 6, 1,
		1, 1, 1, 1,
		4, 4, 4, 4,
		2, 3, 4, 5,
		6, 5, 4, 3,
		1, 2, 3, 6,
	)
	scores, err := AbilityScores(r)
	require.NoError(t, err)
	assert.Equal(t, []int{18, 3, 12, 12, 15, 11}, scores)
	assert.Zero(t, r.Remaining())
}

func TestAbilityScoresRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		scores, err := AbilityScores(dice.DefaultRoller)
		require.NoError(t, err)
		require.Len(t, scores, AbilityCount)
		for _, s := range scores {
			assert.GreaterOrEqual(t, s, 3)
			assert.LessOrEqual(t, s, 18)
		}
	}
}

func TestAbilityScoreRollerFailure(t *testing.T) {
	_, err := AbilityScores(testutils.FailingRoller{Err: fmt.Errorf("entropy gone")})
	require.Error(t, err)
}

func TestIndex(t *testing.T) {
	got, err := Index(testutils.NewScriptedRoller(7), 7)
	require.NoError(t, err)
	assert.Equal(t, 6, got)

	_, err = Index(testutils.NewScriptedRoller(1), 0)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestSampleDistinct(t *testing.T) {
	// Roll(6)=6 swaps slot 0 with 5; Roll(5)=1 keeps slot 1.
	r := testutils.NewScriptedRoller(6, 1)
	got, err := SampleDistinct(r, 6, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 1}, got)
	assert.Equal(t, []int{6, 5}, r.Sizes())

	_, err = SampleDistinct(r, 2, 3)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestSampleDistinctNeverRepeats(t *testing.T) {
	for i := 0; i < 200; i++ {
		got, err := SampleDistinct(dice.DefaultRoller, 6, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.NotEqual(t, got[0], got[1])
		for _, idx := range got {
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, 6)
		}
	}
}

func TestTray(t *testing.T) {
	got, err := Tray(testutils.NewScriptedRoller(17), 20)
	require.NoError(t, err)
	assert.Equal(t, "Rolled d20: 17", got)

	_, err = Tray(testutils.NewScriptedRoller(1), 7)
	assert.True(t, errors.IsInvalidArgument(err))
}
