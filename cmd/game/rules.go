package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/tatianab/onepage/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the rules tables as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRules(cmd.OutOrStdout(), rules.Default())
	},
}

func printRules(w io.Writer, tables *rules.Tables) error {
	doc, err := tables.Document()
	if err != nil {
		return err
	}
	_, err = w.Write(doc)
	return err
}
