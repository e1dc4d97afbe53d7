package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/spf13/cobra"

	"github.com/tatianab/onepage/internal/roll"
)

var rollAbilities bool

var rollCmd = &cobra.Command{
	Use:   "roll [dN | XdY]...",
	Short: "Roll dice without starting the game",
	Long: `Roll dice from the dice tray (d4, d6, d8, d10, d12, d20) or any XdY
expression. With --abilities, roll six ability scores (4d6, drop the lowest).`,
	Example: `  onepage roll d20
  onepage roll 2d4 d6
  onepage roll --abilities`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rollDice(cmd.OutOrStdout(), dice.DefaultRoller, rollAbilities, args)
	},
}

func init() {
	rollCmd.Flags().BoolVar(&rollAbilities, "abilities", false, "roll six ability scores")
}

func rollDice(w io.Writer, r dice.Roller, abilities bool, args []string) error {
	if abilities {
		scores, err := roll.AbilityScores(r)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Ability scores: %v\n", scores)
	}
	if !abilities && len(args) == 0 {
		args = []string{"d20"}
	}

	for _, arg := range args {
		line, err := rollOne(r, arg)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// rollOne rolls a single tray die ("d20") or a full expression ("2d4").
func rollOne(r dice.Roller, arg string) (string, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if sides, ok := strings.CutPrefix(arg, "d"); ok {
		n, err := strconv.Atoi(sides)
		if err != nil {
			return "", fmt.Errorf("invalid die %q", arg)
		}
		return roll.Tray(r, n)
	}

	n, err := roll.Parse(arg)
	if err != nil {
		return "", err
	}
	total, err := n.Roll(r)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Rolled %s: %d", n, total), nil
}
