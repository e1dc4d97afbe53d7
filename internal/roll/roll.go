// Package roll implements the dice mechanics of the ruleset on top of an
// injected rpg-toolkit dice.Roller, so every random outcome in the game can
// be replaced by a scripted sequence in tests.
package roll

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/tatianab/onepage/internal/errors"
)

const (
	// AbilityDice is the number of d6 rolled per ability score.
	AbilityDice = 4
	// AbilityCount is the number of scores produced by one roll.
	AbilityCount = 6
)

// TraySides are the dice available in the dice tray.
var TraySides = []int{4, 6, 8, 10, 12, 20}

var notationRegex = regexp.MustCompile(`^(\d+)d(\d+)$`)

// Notation is a parsed "XdY" expression.
type Notation struct {
	Count int
	Sides int
}

// String renders the notation back to "XdY".
func (n Notation) String() string {
	return fmt.Sprintf("%dd%d", n.Count, n.Sides)
}

// Parse parses simple dice notation like "2d6" or "1d20".
func Parse(notation string) (Notation, error) {
	matches := notationRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(notation)))
	if len(matches) != 3 {
		return Notation{}, errors.InvalidArgumentf("invalid dice notation: %q (expected format: XdY)", notation)
	}

	count, err := strconv.Atoi(matches[1])
	if err != nil {
		return Notation{}, errors.InvalidArgumentf("invalid dice count in notation: %s", notation)
	}
	sides, err := strconv.Atoi(matches[2])
	if err != nil {
		return Notation{}, errors.InvalidArgumentf("invalid die size in notation: %s", notation)
	}
	if count <= 0 || sides <= 0 {
		return Notation{}, errors.InvalidArgumentf("dice count and size must be positive: %s", notation)
	}

	return Notation{Count: count, Sides: sides}, nil
}

// Roll sums Count dice of Sides faces.
func (n Notation) Roll(r dice.Roller) (int, error) {
	results, err := r.RollN(n.Count, n.Sides)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to roll %s", n)
	}
	total := 0
	for _, v := range results {
		total += v
	}
	return total, nil
}

// AbilityScore rolls four d6, drops the lowest and sums the remaining three.
func AbilityScore(r dice.Roller) (int, error) {
	results, err := r.RollN(AbilityDice, 6)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll ability score")
	}
	if len(results) != AbilityDice {
		return 0, errors.Internalf("roller returned %d dice, want %d", len(results), AbilityDice)
	}

	sorted := slices.Clone(results)
	slices.Sort(sorted)

	total := 0
	for _, v := range sorted[1:] {
		total += v
	}
	return total, nil
}

// AbilityScores rolls six independent ability scores.
func AbilityScores(r dice.Roller) ([]int, error) {
	scores := make([]int, AbilityCount)
	for i := range scores {
		score, err := AbilityScore(r)
		if err != nil {
			return nil, err
		}
		scores[i] = score
	}
	return scores, nil
}

// Index returns a uniform index in [0, n).
func Index(r dice.Roller, n int) (int, error) {
	if n <= 0 {
		return 0, errors.InvalidArgumentf("cannot pick from %d options", n)
	}
	v, err := r.Roll(n)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll index")
	}
	if v < 1 || v > n {
		return 0, errors.Internalf("roller returned %d for d%d", v, n)
	}
	return v - 1, nil
}

// SampleDistinct picks k distinct indexes from [0, n) uniformly without
// replacement. The result is in draw order.
func SampleDistinct(r dice.Roller, n, k int) ([]int, error) {
	if k < 0 || k > n {
		return nil, errors.InvalidArgumentf("cannot sample %d of %d", k, n)
	}

	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < k; i++ {
		j, err := Index(r, n-i)
		if err != nil {
			return nil, err
		}
		pool[i], pool[i+j] = pool[i+j], pool[i]
	}
	return pool[:k], nil
}

// Tray rolls a single die from the dice tray and formats it the way it is
// pasted into the player's next action.
func Tray(r dice.Roller, sides int) (string, error) {
	if !slices.Contains(TraySides, sides) {
		return "", errors.InvalidArgumentf("no d%d in the dice tray", sides)
	}
	v, err := r.Roll(sides)
	if err != nil {
		return "", errors.Wrapf(err, "failed to roll d%d", sides)
	}
	return fmt.Sprintf("Rolled d%d: %d", sides, v), nil
}
