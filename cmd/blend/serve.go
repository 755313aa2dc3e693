package main

import (
	"context"
	"strings"

	"github.com/aretw0/blend"
	"github.com/aretw0/blend/internal/cli"
	"github.com/aretw0/blend/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Serves combinations, edit sessions, formula parsing and suggestions over HTTP, plus Prometheus metrics on /metrics.`,
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		addr := e.cfg.HTTP.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		tui.PrintBanner(cmd.ErrOrStderr(), strings.TrimSpace(blend.Version))

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.Serve(sigCtx, addr, e.app.Handler(), e.app.Logger(), nil)
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on (overrides http.addr)")
}
