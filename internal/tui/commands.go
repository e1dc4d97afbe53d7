package tui

import (
	"strconv"
	"strings"

	"github.com/tatianab/onepage/internal/errors"
)

// command is one line of player input split into a verb and its argument.
type command struct {
	name string
	arg  string
}

// parseCommand splits input on the first space. A leading slash is
// dropped and the verb is lowercased.
func parseCommand(input string) command {
	input = strings.TrimSpace(input)
	name, arg, _ := strings.Cut(input, " ")
	return command{
		name: strings.ToLower(strings.TrimPrefix(name, "/")),
		arg:  strings.TrimSpace(arg),
	}
}

// isSlashCommand reports whether play-mode input should be treated as a
// command rather than sent to the narrator.
func isSlashCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// parseDie accepts "d20", "D20" or "20".
func parseDie(arg string) (int, error) {
	s := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(arg)), "d")
	sides, err := strconv.Atoi(s)
	if err != nil || sides <= 0 {
		return 0, errors.InvalidArgumentf("not a die: %q", arg)
	}
	return sides, nil
}

// parseHPDelta accepts a signed amount such as "-3" or "+2".
func parseHPDelta(arg string) (int, error) {
	delta, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, errors.InvalidArgumentf("hp change must be a number like -3 or +2, got %q", arg)
	}
	return delta, nil
}

// parseSlot reads a 1-based rolled position.
func parseSlot(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, errors.InvalidArgumentf("slot must be a number, got %q", arg)
	}
	return n - 1, nil
}

// appendRoll adds a dice-tray result to whatever the player has typed.
func appendRoll(input, result string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return result
	}
	return input + " " + result
}
