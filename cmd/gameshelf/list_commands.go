package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gameshelf/internal/config"
	"gameshelf/internal/library"
)

// gameRowJSON is the --json shape shared by list and search output.
type gameRowJSON struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Platform        string     `json:"platform"`
	Source          string     `json:"source"`
	Condition       string     `json:"condition,omitempty"`
	PricePaid       *float64   `json:"price_paid,omitempty"`
	AcquisitionDate *time.Time `json:"acquisition_date,omitempty"`
	CatalogID       string     `json:"catalog_id,omitempty"`
	Loose           *float64   `json:"loose,omitempty"`
	Complete        *float64   `json:"complete,omitempty"`
	New             *float64   `json:"new,omitempty"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut  bool
		wishlist bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the collection with current prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				var (
					rows []library.CollectionRow
					err  error
				)
				if wishlist {
					rows, err = store.WishlistRows(cmd.Context())
				} else {
					rows, err = store.CollectionRows(cmd.Context())
				}
				if err != nil {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, reportRowsJSON(rows))
				}
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing here yet. Add games with `gameshelf add`.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderReportTable(rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	cmd.Flags().BoolVar(&wishlist, "wishlist", false, "List the wishlist instead of the collection")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search games by title or platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				games, err := store.SearchGames(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				if jsonOut {
					out := make([]gameRowJSON, 0, len(games))
					for _, game := range games {
						out = append(out, gameJSON(*game))
					}
					return writeJSON(cmd, out)
				}
				if len(games) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No games match %q\n", args[0])
					return nil
				}

				rows := make([][]string, 0, len(games))
				for _, game := range games {
					rows = append(rows, []string{
						fmt.Sprintf("%d", game.ID),
						game.Title,
						game.Platform,
						sourceLabel(game.Source),
						formatCondition(game.Condition),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Title", "Platform", "Source", "Condition"},
					rows,
					alignRight,
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func renderReportTable(rows []library.CollectionRow) string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			fmt.Sprintf("%d", row.ID),
			row.Title,
			row.Platform,
			formatCondition(row.Game.Condition),
			formatMoney(row.PricePaid),
			formatMoney(row.Prices.Loose),
			formatMoney(row.Prices.Complete),
			formatMoney(row.Prices.New),
		})
	}
	return renderTable(
		[]string{"ID", "Title", "Platform", "Condition", "Paid", "Loose", "Complete", "New"},
		out,
		alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight,
	)
}

func reportRowsJSON(rows []library.CollectionRow) []gameRowJSON {
	out := make([]gameRowJSON, 0, len(rows))
	for _, row := range rows {
		entry := gameJSON(row.Game)
		entry.CatalogID = row.CatalogID
		entry.Loose = row.Prices.Loose
		entry.Complete = row.Prices.Complete
		entry.New = row.Prices.New
		out = append(out, entry)
	}
	return out
}

func gameJSON(game library.Game) gameRowJSON {
	return gameRowJSON{
		ID:              game.ID,
		Title:           game.Title,
		Platform:        game.Platform,
		Source:          sourceLabel(game.Source),
		Condition:       string(game.Condition),
		PricePaid:       game.PricePaid,
		AcquisitionDate: game.AcquisitionDate,
	}
}
