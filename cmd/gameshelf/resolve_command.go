package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gameshelf/internal/config"
	"gameshelf/internal/library"
	"gameshelf/internal/resolve"
	"gameshelf/internal/services"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Link unresolved games to the external catalog",
		Long: `Search the catalog for every game without a catalog link. A game links
only when exactly one candidate matches its normalized title and
platform; ambiguous games are reported with their candidates so you can
correct the title or platform and rerun.`,
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
				games, err := store.UnresolvedGames(cmd.Context())
				if err != nil {
					return err
				}
				if len(games) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Every game is already linked.")
					return nil
				}
				if limit > 0 && len(games) > limit {
					games = games[:limit]
				}

				out := cmd.OutOrStdout()
				resolver := resolve.New(store, client, logger)
				report := resolver.ResolveBatch(cmd.Context(), games, func(index, total int, game library.Game) {
					fmt.Fprintf(out, "(%d/%d) %s [%s]\n", index+1, total, game.Title, game.Platform)
				})

				printResolveReport(cmd, report)
				if report.Failed > 0 {
					return fmt.Errorf("%d of %d games did not resolve", report.Failed, report.Attempted)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Resolve at most this many games (0 = all)")
	return cmd
}

func printResolveReport(cmd *cobra.Command, report resolve.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nResolved %d of %d (%d already linked, %d failed)\n",
		report.Linked, report.Attempted, report.AlreadyLinked, report.Failed)

	for _, outcome := range report.Outcomes {
		if outcome.Err == nil || errors.Is(outcome.Err, services.ErrAlreadyResolved) {
			continue
		}

		reason := services.Reason(outcome.Err)
		var match *resolve.MatchError
		if errors.As(outcome.Err, &match) {
			reason = match.Reason
		}
		fmt.Fprintf(out, "\n%s [%s]: %s\n", outcome.Game.Title, outcome.Game.Platform, reason)
		if match == nil || len(match.Candidates) == 0 {
			continue
		}

		rows := make([][]string, 0, len(match.Candidates))
		for _, candidate := range match.Candidates {
			rows = append(rows, []string{candidate.CatalogID, candidate.Title, candidate.Platform})
		}
		fmt.Fprintln(out, renderTable([]string{"Catalog ID", "Title", "Platform"}, rows))
		fmt.Fprintln(out, "Fix the title or platform with `gameshelf edit` and rerun, or import the mapping with `gameshelf import ids`.")
	}
}
