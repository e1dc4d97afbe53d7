package main

import (
	"io"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tatianab/onepage/internal/builder"
	"github.com/tatianab/onepage/internal/roll"
	"github.com/tatianab/onepage/internal/rules"
)

var (
	characterArchetype string
	characterName      string
)

var characterCmd = &cobra.Command{
	Use:   "character",
	Short: "Roll up a ready-to-play character and print the sheet as YAML",
	Long: `Build a character without the UI: scores are placed in the archetype's
suggested order and the starting gold buys the best weapon it covers. The
archetype is picked at random unless --archetype is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCharacter(cmd.OutOrStdout(), dice.DefaultRoller, characterArchetype, characterName)
	},
}

func init() {
	characterCmd.Flags().StringVar(&characterArchetype, "archetype", "", "fighter, ranger or wizard (random when empty)")
	characterCmd.Flags().StringVar(&characterName, "name", "Hero", "character name")
}

func printCharacter(w io.Writer, r dice.Roller, archetype, name string) error {
	tables := rules.Default()

	var id rules.Archetype
	if archetype == "" {
		archetypes := tables.Archetypes()
		i, err := roll.Index(r, len(archetypes))
		if err != nil {
			return err
		}
		id = archetypes[i].ID
	} else {
		var err error
		if id, err = rules.ParseArchetype(archetype); err != nil {
			return err
		}
	}

	c, err := builder.QuickBuild(&builder.Config{Roller: r, Rules: tables}, id, name)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
