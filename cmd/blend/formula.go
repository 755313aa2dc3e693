package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var formulaCmd = &cobra.Command{
	Use:   "formula",
	Short: "Parse formulas and browse the registry",
}

var formulaParseCmd = &cobra.Command{
	Use:   "parse <text>",
	Short: "Parse formula text against the registry",
	Args:  cobra.MinimumNArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		text := strings.Join(args, " ")
		res, err := e.app.Parse(cmd.Context(), text)
		if err != nil {
			return err
		}
		return e.printer.Parse(text, res)
	}),
}

var formulaSuggestCmd = &cobra.Command{
	Use:   "suggest [query]",
	Short: "List registry inputs whose name contains query",
	Args:  cobra.MaximumNArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		limit, _ := cmd.Flags().GetInt("limit")
		ids, err := e.app.Suggest(cmd.Context(), query, limit)
		if err != nil {
			return err
		}
		return e.printer.Identifiers(ids)
	}),
}

func init() {
	rootCmd.AddCommand(formulaCmd)
	formulaCmd.AddCommand(formulaParseCmd, formulaSuggestCmd)
	formulaSuggestCmd.Flags().IntP("limit", "n", 0, "Maximum suggestions (default from config)")
}
