package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gameshelf/internal/config"
	"gameshelf/internal/library"
	"gameshelf/internal/pricing"
	"gameshelf/internal/services"
)

func newPricesCommand(ctx *commandContext) *cobra.Command {
	var (
		history bool
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "prices <id>",
		Short: "Show current catalog prices for a game",
		Long: `Show the latest price per condition for a game's linked catalog entry.
With --history the full observation log is printed newest first,
including empty markers from fetches that found no data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				game, err := store.Game(cmd.Context(), id)
				if err != nil {
					return err
				}
				if game == nil {
					return fmt.Errorf("%w: game %d", services.ErrNotFound, id)
				}
				_, entry, err := store.LinkForGame(cmd.Context(), id)
				if err != nil {
					return err
				}
				if entry == nil {
					return fmt.Errorf("game %d is not linked to the catalog; run `gameshelf resolve` first", id)
				}

				prices := pricing.NewService(store, nil)
				if history {
					return printPriceHistory(cmd, game, entry, prices, limit, jsonOut)
				}
				return printCurrentPrices(cmd, game, entry, prices, jsonOut)
			})
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "Show the observation history instead of current prices")
	cmd.Flags().IntVar(&limit, "limit", 0, "With --history, show at most this many observations (0 = all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func printCurrentPrices(cmd *cobra.Command, game *library.Game, entry *library.CatalogEntry, prices *pricing.Service, jsonOut bool) error {
	snapshot, err := prices.CurrentPrices(cmd.Context(), entry.CatalogID)
	if err != nil {
		return err
	}

	if jsonOut {
		return writeJSON(cmd, struct {
			ID         int64      `json:"id"`
			Title      string     `json:"title"`
			Platform   string     `json:"platform"`
			CatalogID  string     `json:"catalog_id"`
			Loose      *float64   `json:"loose,omitempty"`
			Complete   *float64   `json:"complete,omitempty"`
			New        *float64   `json:"new,omitempty"`
			ObservedAt *time.Time `json:"observed_at,omitempty"`
		}{game.ID, game.Title, game.Platform, entry.CatalogID,
			snapshot.Prices.Loose, snapshot.Prices.Complete, snapshot.Prices.New, snapshot.ObservedAt})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s [%s] - catalog %s\n", game.Title, game.Platform, entry.CatalogID)
	if snapshot.ObservedAt == nil {
		fmt.Fprintln(out, "Never observed. Run `gameshelf refresh` to fetch prices.")
		return nil
	}

	rows := [][]string{
		{"Loose", formatMoney(snapshot.Prices.Loose)},
		{"Complete", formatMoney(snapshot.Prices.Complete)},
		{"New", formatMoney(snapshot.Prices.New)},
	}
	fmt.Fprintln(out, renderTable([]string{"Condition", "Price"}, rows, alignLeft, alignRight))
	fmt.Fprintf(out, "Last observed %s\n", snapshot.ObservedAt.Format(time.RFC3339))
	return nil
}

func printPriceHistory(cmd *cobra.Command, game *library.Game, entry *library.CatalogEntry, prices *pricing.Service, limit int, jsonOut bool) error {
	observations, err := prices.History(cmd.Context(), entry.CatalogID, limit)
	if err != nil {
		return err
	}

	if jsonOut {
		type observationJSON struct {
			Condition  string   `json:"condition"`
			Price      *float64 `json:"price"`
			ObservedAt string   `json:"observed_at"`
		}
		out := make([]observationJSON, 0, len(observations))
		for _, obs := range observations {
			out = append(out, observationJSON{
				Condition:  string(obs.Condition),
				Price:      obs.Price,
				ObservedAt: obs.ObservedAt.Format(time.RFC3339),
			})
		}
		return writeJSON(cmd, out)
	}

	out := cmd.OutOrStdout()
	if len(observations) == 0 {
		fmt.Fprintf(out, "No observations for %s [%s] yet.\n", game.Title, game.Platform)
		return nil
	}

	rows := make([][]string, 0, len(observations))
	for _, obs := range observations {
		price := formatMoney(obs.Price)
		if obs.Price == nil {
			price = "(no data)"
		}
		rows = append(rows, []string{
			obs.ObservedAt.Format("2006-01-02 15:04"),
			formatCondition(obs.Condition),
			price,
		})
	}
	fmt.Fprintf(out, "%s [%s] - catalog %s\n", game.Title, game.Platform, entry.CatalogID)
	fmt.Fprintln(out, renderTable([]string{"Observed", "Condition", "Price"}, rows, alignLeft, alignLeft, alignRight))
	return nil
}
