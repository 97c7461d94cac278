package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gameshelf/internal/config"
	"gameshelf/internal/daemon"
	"gameshelf/internal/library"
	"gameshelf/internal/preflight"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the background daemon",
		Long: `Run gameshelf in the foreground as a daemon: the periodic refresh loop,
the read-only web API, and the import directory watcher. A file lock in
the data directory keeps a second instance from starting. Stop with
Ctrl-C or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			client, err := ctx.catalogClient()
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				printer := newStatusPrinter(cmd.OutOrStdout())
				results := preflight.RunAll(cmd.Context(), cfg)
				for _, result := range results {
					printResult(printer, result)
				}
				if preflight.Failed(results) {
					fmt.Fprintln(cmd.OutOrStdout(), "some checks failed; affected entries stay due and retry next cycle")
				}

				d, err := daemon.New(cfg, store, client, logger)
				if err != nil {
					return err
				}

				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				if err := d.Start(runCtx); err != nil {
					return err
				}
				defer d.Stop()

				status := d.Status()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "gameshelf daemon running (db %s)\n", status.DBPath)
				if status.APIAddr != "" {
					fmt.Fprintf(out, "web api on http://%s\n", status.APIAddr)
				}

				<-runCtx.Done()
				fmt.Fprintln(out, "shutting down")
				return nil
			})
		},
	}
}
