package main

import (
	"fmt"
	"strconv"

	"github.com/aretw0/blend/pkg/formula"
	"github.com/spf13/cobra"
)

var combinationCmd = &cobra.Command{
	Use:     "combination",
	Aliases: []string{"comb", "c"},
	Short:   "Manage combinations",
}

var combinationLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List combinations in creation order",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		list, err := e.app.Combinations.List(cmd.Context())
		if err != nil {
			return err
		}
		return e.printer.Combinations(list)
	}),
}

var combinationAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a combination, optionally with a name and formula",
	Args:  cobra.MaximumNArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		c, err := e.app.Combinations.Add(ctx)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			if c, err = e.app.Combinations.SetName(ctx, c.ID, args[0]); err != nil {
				return err
			}
		}
		if text, _ := cmd.Flags().GetString("formula"); text != "" {
			res, err := e.app.SetFormula(ctx, c.ID, text)
			if err != nil {
				return err
			}
			if !res.Applied {
				fmt.Fprintln(cmd.ErrOrStderr(), "formula ignored: no mention resolved")
			}
			if c, err = e.app.Combinations.Get(ctx, c.ID); err != nil {
				return err
			}
		}
		return e.printer.Combination(c)
	}),
}

var combinationShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a combination",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		c, err := e.app.Combinations.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return e.printer.Combination(c)
	}),
}

var combinationRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a combination",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		if err := e.app.Combinations.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Combination '%s' deleted.\n", args[0])
		return nil
	}),
}

var combinationDupCmd = &cobra.Command{
	Use:   "dup <id>",
	Short: "Duplicate a combination",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		c, err := e.app.Combinations.Duplicate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return e.printer.Combination(c)
	}),
}

var combinationRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a combination",
	Args:  cobra.ExactArgs(2),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		c, err := e.app.Combinations.SetName(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return e.printer.Combination(c)
	}),
}

var combinationDescribeCmd = &cobra.Command{
	Use:   "describe <id> <description>",
	Short: "Set a combination's description",
	Args:  cobra.ExactArgs(2),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		c, err := e.app.Combinations.SetDescription(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return e.printer.Combination(c)
	}),
}

var combinationAddTermCmd = &cobra.Command{
	Use:   "add-term <id> <input-name>",
	Short: "Add an input with coefficient 1",
	Args:  cobra.ExactArgs(2),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		ids, err := e.app.Identifiers(ctx)
		if err != nil {
			return err
		}
		ident, ok := formula.Resolve(args[1], ids)
		if !ok {
			return fmt.Errorf("unknown input %q", args[1])
		}
		c, added, err := e.app.Combinations.AddTerm(ctx, args[0], ident)
		if err != nil {
			return err
		}
		if !added {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s is already a term\n", ident.Name)
		}
		return e.printer.Combination(c)
	}),
}

var combinationRmTermCmd = &cobra.Command{
	Use:   "rm-term <id> <input-id>",
	Short: "Remove the term referencing an input",
	Args:  cobra.ExactArgs(2),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		c, err := e.app.Combinations.RemoveTerm(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return e.printer.Combination(c)
	}),
}

var combinationSetCoefCmd = &cobra.Command{
	Use:   "set-coef <id> <input-id> <value>",
	Short: "Set the coefficient of a term",
	Args:  cobra.ExactArgs(3),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		value, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid coefficient %q: %w", args[2], err)
		}
		c, err := e.app.Combinations.SetCoefficient(cmd.Context(), args[0], args[1], value)
		if err != nil {
			return err
		}
		return e.printer.Combination(c)
	}),
}

var combinationSetFormulaCmd = &cobra.Command{
	Use:   "set-formula <id> <text>",
	Short: "Replace the terms from formula text",
	Long: `Runs a direct-entry session over the combination: the text is parsed
against the registry and replaces the terms when at least one mention resolves
(or the text is blank). Otherwise the terms are kept.`,
	Args: cobra.ExactArgs(2),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		res, err := e.app.SetFormula(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return e.printer.Exit(res)
	}),
}

func init() {
	rootCmd.AddCommand(combinationCmd)
	combinationCmd.AddCommand(
		combinationLsCmd,
		combinationAddCmd,
		combinationShowCmd,
		combinationRmCmd,
		combinationDupCmd,
		combinationRenameCmd,
		combinationDescribeCmd,
		combinationAddTermCmd,
		combinationRmTermCmd,
		combinationSetCoefCmd,
		combinationSetFormulaCmd,
	)
	combinationAddCmd.Flags().StringP("formula", "f", "", "Initial formula text")
}
