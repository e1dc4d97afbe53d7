package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "onepage",
	Short: "One Page 5e character builder and adventure",
	Long: `Build a One Page 5e character in three steps, then play through an
adventure narrated by a language model acting as Dungeon Master.`,
	SilenceUsage: true,
	RunE:         runPlay,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	addPlayFlags(rootCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(rollCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(characterCmd)
}
