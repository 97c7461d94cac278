package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gameshelf/internal/config"
	"gameshelf/internal/library"
	"gameshelf/internal/refresh"
	"gameshelf/internal/services"
)

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	var (
		limit        int
		cooldownDays int
		resolveFirst bool
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Run one price refresh cycle",
		Long: `Fetch current prices for every linked catalog entry that is due: never
observed, or last observed before the cooldown window. Failures are
isolated per entry; a failed entry stays due and is retried on the next
run.`,
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
				manager := refresh.NewManager(cfg, store, client, logger)

				out := cmd.OutOrStdout()
				opts := refresh.CycleOptions{
					Limit:        limit,
					ResolveFirst: resolveFirst,
					Progress: func(done, total int, entry *library.CatalogEntry) {
						fmt.Fprintf(out, "(%d/%d) %s [%s]\n", done, total, entry.Title, entry.Platform)
					},
				}
				if cooldownDays > 0 {
					opts.Cooldown = time.Duration(cooldownDays) * 24 * time.Hour
				}

				report, err := manager.RunCycle(cmd.Context(), opts)
				if err != nil {
					return err
				}
				printCycleReport(cmd, report)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Refresh at most this many entries (0 = configured cap)")
	cmd.Flags().IntVar(&cooldownDays, "cooldown", 0, "Override the cooldown window in days")
	cmd.Flags().BoolVar(&resolveFirst, "resolve", false, "Resolve unlinked games before refreshing")
	return cmd
}

func printCycleReport(cmd *cobra.Command, report refresh.CycleReport) {
	out := cmd.OutOrStdout()

	if report.Resolve != nil {
		fmt.Fprintf(out, "Resolve pass: %d linked, %d failed of %d\n",
			report.Resolve.Linked, report.Resolve.Failed, report.Resolve.Attempted)
	}
	if report.Attempted == 0 {
		fmt.Fprintln(out, "No entries due for refresh.")
		return
	}

	rows := make([][]string, 0, len(report.Outcomes))
	for _, outcome := range report.Outcomes {
		detail := ""
		switch {
		case outcome.Err != nil:
			detail = services.Reason(outcome.Err)
		case outcome.Status == refresh.EntryRecorded:
			detail = fmt.Sprintf("%d conditions", outcome.Conditions)
		case outcome.Status == refresh.EntryEmpty:
			detail = "no catalog prices"
		}
		rows = append(rows, []string{
			outcome.Entry.CatalogID,
			outcome.Entry.Title,
			string(outcome.Status),
			detail,
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Catalog ID", "Title", "Outcome", "Detail"}, rows))
	fmt.Fprintf(out, "Cycle %s: %d attempted, %d recorded, %d empty, %d failed in %s\n",
		report.CycleID, report.Attempted, report.Recorded, report.Empty, report.Failed,
		report.Duration.Round(time.Millisecond))
}
