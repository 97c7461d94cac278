package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gameshelf/internal/config"
	"gameshelf/internal/library"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show collection totals and estimated value",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, statsJSON(stats))
				}
				printStats(cmd, stats)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of tables")
	return cmd
}

func printStats(cmd *cobra.Command, stats library.Stats) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, renderTable([]string{"Metric", "Count"}, [][]string{
		{"Owned games", fmt.Sprintf("%d", stats.Owned)},
		{"Wishlist entries", fmt.Sprintf("%d", stats.Wanted)},
		{"Linked to catalog", fmt.Sprintf("%d", stats.Linked)},
		{"Unresolved", fmt.Sprintf("%d", stats.Unresolved)},
		{"Price observations", fmt.Sprintf("%d", stats.Observations)},
	}, alignLeft, alignRight))

	fmt.Fprintf(out, "\nEstimated value (%d of %d owned games priced):\n", stats.Value.Priced, stats.Owned)
	fmt.Fprintln(out, renderTable([]string{"Condition", "Total"}, [][]string{
		{"Loose", fmt.Sprintf("$%.2f", stats.Value.Loose)},
		{"Complete", fmt.Sprintf("$%.2f", stats.Value.Complete)},
		{"New", fmt.Sprintf("$%.2f", stats.Value.New)},
	}, alignLeft, alignRight))

	if len(stats.Platforms) > 0 {
		rows := make([][]string, 0, len(stats.Platforms))
		for _, platform := range stats.Platforms {
			rows = append(rows, []string{platform.Platform, fmt.Sprintf("%d", platform.Count)})
		}
		fmt.Fprintln(out, "\nBy platform:")
		fmt.Fprintln(out, renderTable([]string{"Platform", "Games"}, rows, alignLeft, alignRight))
	}

	if len(stats.Recent) > 0 {
		rows := make([][]string, 0, len(stats.Recent))
		for _, game := range stats.Recent {
			rows = append(rows, []string{
				game.Title,
				game.Platform,
				formatMoney(game.PricePaid),
				formatDate(game.AcquisitionDate),
			})
		}
		fmt.Fprintln(out, "\nRecent acquisitions:")
		fmt.Fprintln(out, renderTable([]string{"Title", "Platform", "Paid", "Acquired"}, rows,
			alignLeft, alignLeft, alignRight, alignLeft))
	}
}

type statsJSONView struct {
	Owned        int                 `json:"owned"`
	Wanted       int                 `json:"wanted"`
	Linked       int                 `json:"linked"`
	Unresolved   int                 `json:"unresolved"`
	Observations int                 `json:"observations"`
	Value        statsValueJSON      `json:"value"`
	Platforms    []statsPlatformJSON `json:"platforms,omitempty"`
	Recent       []gameRowJSON       `json:"recent,omitempty"`
}

type statsValueJSON struct {
	Loose    float64 `json:"loose"`
	Complete float64 `json:"complete"`
	New      float64 `json:"new"`
	Priced   int     `json:"priced"`
}

type statsPlatformJSON struct {
	Platform string `json:"platform"`
	Count    int    `json:"count"`
}

func statsJSON(stats library.Stats) statsJSONView {
	view := statsJSONView{
		Owned:        stats.Owned,
		Wanted:       stats.Wanted,
		Linked:       stats.Linked,
		Unresolved:   stats.Unresolved,
		Observations: stats.Observations,
		Value: statsValueJSON{
			Loose:    stats.Value.Loose,
			Complete: stats.Value.Complete,
			New:      stats.Value.New,
			Priced:   stats.Value.Priced,
		},
	}
	for _, platform := range stats.Platforms {
		view.Platforms = append(view.Platforms, statsPlatformJSON(platform))
	}
	for _, game := range stats.Recent {
		view.Recent = append(view.Recent, gameJSON(game))
	}
	return view
}
