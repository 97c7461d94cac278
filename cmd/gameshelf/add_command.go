package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gameshelf/internal/config"
	"gameshelf/internal/library"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		title     string
		platform  string
		price     float64
		condition string
		date      string
		wishlist  bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a game to the collection or wishlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedCondition, err := parseConditionFlag(condition)
			if err != nil {
				return err
			}
			acquired, err := parseDateFlag(date)
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				game := library.Game{
					Title:     title,
					Platform:  platform,
					Condition: parsedCondition,
				}

				var stored *library.Game
				if wishlist {
					if cmd.Flags().Changed("price") || date != "" {
						return fmt.Errorf("wishlist entries have no purchase price or date")
					}
					stored, err = store.AddWanted(cmd.Context(), game)
				} else {
					if cmd.Flags().Changed("price") {
						game.PricePaid = &price
					}
					game.AcquisitionDate = acquired
					stored, err = store.AddGame(cmd.Context(), game)
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) as #%d to the %s\n",
					stored.Title, stored.Platform, stored.ID, sourceLabel(stored.Source))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Game title (required)")
	cmd.Flags().StringVar(&platform, "platform", "", "Platform name (required)")
	cmd.Flags().Float64Var(&price, "price", 0, "Purchase price in dollars")
	cmd.Flags().StringVar(&condition, "condition", "", "Condition: loose, complete, or new")
	cmd.Flags().StringVar(&date, "date", "", "Acquisition date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&wishlist, "wishlist", false, "Add to the wishlist instead of the collection")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}
