package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gameshelf/internal/config"
	"gameshelf/internal/library"
	"gameshelf/internal/services"
)

func newEditCommand(ctx *commandContext) *cobra.Command {
	var (
		title     string
		platform  string
		price     float64
		condition string
		date      string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a game's title, platform, or purchase details",
		Long: `Edit a game. Title and platform changes propagate to the linked catalog
entry so the next resolve or refresh sees the corrected names. Only the
flags you pass change; everything else is kept.`,
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

				if cmd.Flags().Changed("title") {
					game.Title = title
				}
				if cmd.Flags().Changed("platform") {
					game.Platform = platform
				}
				if cmd.Flags().Changed("condition") {
					parsed, err := parseConditionFlag(condition)
					if err != nil {
						return err
					}
					game.Condition = parsed
				}
				if cmd.Flags().Changed("price") {
					if game.Source != library.SourceOwned {
						return fmt.Errorf("game %d is on the wishlist; it has no purchase price", id)
					}
					game.PricePaid = &price
				}
				if cmd.Flags().Changed("date") {
					if game.Source != library.SourceOwned {
						return fmt.Errorf("game %d is on the wishlist; it has no acquisition date", id)
					}
					acquired, err := parseDateFlag(date)
					if err != nil {
						return err
					}
					game.AcquisitionDate = acquired
				}

				if err := store.UpdateGame(cmd.Context(), game); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d %s (%s)\n", game.ID, game.Title, game.Platform)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&platform, "platform", "", "New platform")
	cmd.Flags().Float64Var(&price, "price", 0, "New purchase price in dollars")
	cmd.Flags().StringVar(&condition, "condition", "", "New condition: loose, complete, or new")
	cmd.Flags().StringVar(&date, "date", "", "New acquisition date (YYYY-MM-DD)")
	return cmd
}
