package main

import (
	"fmt"
	"os"

	"github.com/aretw0/blend"
	"github.com/aretw0/blend/internal/cli"
	"github.com/aretw0/blend/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blend",
	Short: "Blend edits linear combinations of formulation inputs",
	Long: `Blend manages combinations: weighted sums of registry inputs written as
"0.5*@Sugar + 2*@Butter". Combinations live in the configured store and can be
edited term by term or as formula text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "blend.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Print JSON instead of text")
}

// env is what every command gets from the persistent flags.
type env struct {
	cfg     config.Config
	app     *blend.App
	printer *cli.Printer
}

// openEnv loads the configuration and builds the App. The caller must close env.app.
func openEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger, err := cli.CreateLogger(debug, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:     cfg,
		app:     app,
		printer: cli.NewPrinter(cmd.OutOrStdout(), asJSON),
	}, nil
}

// withEnv adapts a command body that needs an open App.
func withEnv(fn func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.app.Close()
		return fn(cmd, args, e)
	}
}
