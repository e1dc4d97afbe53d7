package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tatianab/onepage/internal/errors"
	"github.com/tatianab/onepage/internal/models"
	"github.com/tatianab/onepage/internal/rules"
	"github.com/tatianab/onepage/internal/testutils"
)

func TestRollDice(t *testing.T) {
	testCases := []struct {
		name      string
		abilities bool
		args      []string
		script    []int
		want      string
	}{
		{
			name:   "defaults to d20",
			script: []int{5},
			want:   "Rolled d20: 5\n",
		},
		{
			name:   "tray dice and expressions",
			args:   []string{"d20", "2d4", "D6"},
			script: []int{14, 3, 4, 6},
			want:   "Rolled d20: 14\nRolled 2d4: 7\nRolled d6: 6\n",
		},
		{
			name:      "ability scores",
			abilities: true,
			script: []int{
				6, 6, 6, 1,
				5, 5, 5, 5,
				4, 4, 4, 1,
				3, 3, 3, 3,
				2, 2, 2, 1,
				1, 1, 1, 1,
			},
			want: "Ability scores: [18 15 12 9 6 3]\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			roller := testutils.NewScriptedRoller(tc.script...)
			var out bytes.Buffer

			err := rollDice(&out, roller, tc.abilities, tc.args)

			require.NoError(t, err)
			assert.Equal(t, tc.want, out.String())
			assert.Zero(t, roller.Remaining())
		})
	}
}

func TestRollDiceRejectsBadDice(t *testing.T) {
	for _, arg := range []string{"d7", "dx", "two d6", "0d6"} {
		t.Run(arg, func(t *testing.T) {
			roller := testutils.NewScriptedRoller()
			var out bytes.Buffer

			err := rollDice(&out, roller, false, []string{arg})

			assert.Error(t, err)
			assert.Empty(t, out.String())
		})
	}
}

func TestRollDiceTrayIsInvalidArgument(t *testing.T) {
	err := rollDice(&bytes.Buffer{}, testutils.NewScriptedRoller(), false, []string{"d3"})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestPrintRules(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printRules(&out, rules.Default()))

	tables, err := rules.Load(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, rules.Default().Weapons(), tables.Weapons())
	assert.Contains(t, out.String(), "random_events:")
	assert.Contains(t, out.String(), "encounter_size: 2d4")
}

func TestNewLoggerDiscardsWithoutFile(t *testing.T) {
	logger, closeLog, err := newLogger("", slog.LevelDebug)
	require.NoError(t, err)
	defer closeLog()

	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "onepage.log")
	logger, closeLog, err := newLogger(path, slog.LevelWarn)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("narrator failed", "session_id", "adv_1")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "narrator failed")
	assert.Contains(t, string(data), "session_id=adv_1")
}

func TestPrintCharacter(t *testing.T) {
	roller := testutils.NewScriptedRoller(1) // Fighter
	// 15, 14, 13, 12, 10, 8
	roller.Push(6, 6, 3, 1, 6, 6, 2, 1, 6, 6, 1, 1, 6, 5, 1, 1, 6, 3, 1, 1, 6, 1, 1, 1)
	roller.Push(60)
	var out bytes.Buffer

	require.NoError(t, printCharacter(&out, roller, "", "Brom"))

	var sheet models.Character
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &sheet))
	assert.Equal(t, "Brom", sheet.Name)
	assert.Equal(t, rules.Fighter, sheet.Archetype)
	assert.Equal(t, 17, sheet.Abilities[rules.STR])
	assert.Equal(t, 12, sheet.MaxHP)
	assert.Equal(t, 10, sheet.Gold)
	assert.Equal(t, []string{"Bow"}, sheet.WeaponNames())
	assert.Contains(t, out.String(), "archetype: Fighter")
	assert.Zero(t, roller.Remaining())
}

func TestPrintCharacterRejectsUnknownArchetype(t *testing.T) {
	var out bytes.Buffer
	err := printCharacter(&out, testutils.NewScriptedRoller(), "bard", "Brom")
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Empty(t, out.String())
}
