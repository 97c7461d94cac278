package main

import (
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"gameshelf/internal/config"
	"gameshelf/internal/library"
	"gameshelf/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show system health and reconciliation state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				printer := newStatusPrinter(cmd.OutOrStdout())

				printer.section("System")
				printResult(printer, preflight.Result{
					Name: "Daemon", Passed: true, Detail: daemonDetail(cfg),
				})
				probe := preflight.ProbeDatabase(cfg.DatabasePath())
				if probe.Exists {
					printer.ok("Database", probe.DatabaseDetail())
				} else {
					printer.warn("Database", probe.DatabaseDetail())
				}
				printResult(printer, preflight.CheckCatalogFromConfig(cfg))
				printResult(printer, preflight.CheckNotificationsFromConfig(cfg))
				printer.blank()

				printer.section("Catalog links")
				states, err := store.EntryStates(cmd.Context(), time.Now().UTC(), cfg.Cooldown())
				if err != nil {
					return err
				}
				counts := make(map[library.EntryState]int)
				for _, state := range states {
					counts[state.State]++
				}
				for _, state := range library.States() {
					printer.info(stateLabel(state), fmt.Sprintf("%d", counts[state]))
				}
				return nil
			})
		},
	}
}

// daemonDetail probes the instance lock. A held lock means a daemon owns the
// data directory right now.
func daemonDetail(cfg *config.Config) string {
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return "Unknown"
	}
	if !ok {
		return "Running"
	}
	_ = lock.Unlock()
	return "Not running"
}

func printResult(printer *statusPrinter, result preflight.Result) {
	if result.Passed {
		printer.ok(result.Name, result.Detail)
		return
	}
	printer.warn(result.Name, result.Detail)
}

func stateLabel(state library.EntryState) string {
	switch state {
	case library.StateUnlinked:
		return "Unlinked"
	case library.StateLinkedNoData:
		return "Linked, no data"
	case library.StateLinkedStale:
		return "Linked, stale"
	case library.StateLinkedFresh:
		return "Linked, fresh"
	default:
		return string(state)
	}
}
