package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gameshelf/internal/config"
	"gameshelf/internal/library"
	"gameshelf/internal/services"
)

func newWishlistCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage the wishlist",
	}

	cmd.AddCommand(newWishlistAddCommand(ctx))
	cmd.AddCommand(newWishlistListCommand(ctx))
	cmd.AddCommand(newWishlistRemoveCommand(ctx))
	cmd.AddCommand(newWishlistPromoteCommand(ctx))
	return cmd
}

func newWishlistAddCommand(ctx *commandContext) *cobra.Command {
	var (
		title     string
		platform  string
		condition string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a game to the wishlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedCondition, err := parseConditionFlag(condition)
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				stored, err := store.AddWanted(cmd.Context(), library.Game{
					Title:     title,
					Platform:  platform,
					Condition: parsedCondition,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) as #%d to the wishlist\n",
					stored.Title, stored.Platform, stored.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Game title (required)")
	cmd.Flags().StringVar(&platform, "platform", "", "Platform name (required)")
	cmd.Flags().StringVar(&condition, "condition", "", "Condition wanted: loose, complete, or new")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("platform")
	return cmd
}

func newWishlistListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List wishlist entries with current prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				rows, err := store.WishlistRows(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, reportRowsJSON(rows))
				}
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "The wishlist is empty. Add entries with `gameshelf add --wishlist`.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderReportTable(rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newWishlistRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a wishlist entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				removed, err := store.RemoveWanted(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("%w: game %d is not on the wishlist", services.ErrNotFound, id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed #%d from the wishlist\n", id)
				return nil
			})
		},
	}
}

func newWishlistPromoteCommand(ctx *commandContext) *cobra.Command {
	var (
		price     float64
		condition string
		date      string
	)

	cmd := &cobra.Command{
		Use:   "promote <id>",
		Short: "Move a wishlist entry into the collection",
		Long: `Record the purchase of a wishlist entry. An existing catalog link is
kept, so price history continues uninterrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}
			parsedCondition, err := parseConditionFlag(condition)
			if err != nil {
				return err
			}
			acquired, err := parseDateFlag(date)
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				var pricePaid *float64
				if cmd.Flags().Changed("price") {
					pricePaid = &price
				}
				game, err := store.PromoteWanted(cmd.Context(), id, parsedCondition, pricePaid, acquired)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Promoted #%d %s (%s) into the collection\n",
					game.ID, game.Title, game.Platform)
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&price, "price", 0, "Purchase price in dollars")
	cmd.Flags().StringVar(&condition, "condition", "", "Condition: loose, complete, or new")
	cmd.Flags().StringVar(&date, "date", "", "Acquisition date (YYYY-MM-DD)")
	return cmd
}
