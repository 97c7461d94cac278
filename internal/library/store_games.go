package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

func validateGameInput(title, platform string, condition Condition) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title required")
	}
	if strings.TrimSpace(platform) == "" {
		return errors.New("platform required")
	}
	if condition != "" && !condition.Valid() {
		return fmt.Errorf("unknown condition %q", condition)
	}
	return nil
}

// AddGame inserts an owned game with optional purchase details and returns
// the stored record.
func (s *Store) AddGame(ctx context.Context, game Game) (*Game, error) {
	if err := validateGameInput(game.Title, game.Platform, game.Condition); err != nil {
		return nil, err
	}
	timestamp := timeText(time.Now())

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(
			ctx,
			`INSERT INTO physical_games (title, platform, created_at) VALUES (?, ?, ?)`,
			strings.TrimSpace(game.Title),
			strings.TrimSpace(game.Platform),
			timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert game: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO purchased_games (physical_game, acquisition_date, price, condition) VALUES (?, ?, ?, ?)`,
			id,
			nullableTime(game.AcquisitionDate),
			nullableFloat(game.PricePaid),
			nullableString(string(game.Condition)),
		); err != nil {
			return fmt.Errorf("insert purchase details: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Game(ctx, id)
}

// AddWanted inserts a wishlist game and returns the stored record.
func (s *Store) AddWanted(ctx context.Context, game Game) (*Game, error) {
	if err := validateGameInput(game.Title, game.Platform, game.Condition); err != nil {
		return nil, err
	}
	timestamp := timeText(time.Now())

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(
			ctx,
			`INSERT INTO physical_games (title, platform, created_at) VALUES (?, ?, ?)`,
			strings.TrimSpace(game.Title),
			strings.TrimSpace(game.Platform),
			timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert game: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO wanted_games (physical_game, condition) VALUES (?, ?)`,
			id,
			nullableString(string(game.Condition)),
		); err != nil {
			return fmt.Errorf("insert wishlist details: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Game(ctx, id)
}

// Game fetches a game by ID. Returns (nil, nil) when no row exists.
func (s *Store) Game(ctx context.Context, id int64) (*Game, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` `+gameJoins+` WHERE pg.id = ?`, id)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	return game, nil
}

// ListGames returns games filtered by source, ordered by title then id. An
// empty source returns everything.
func (s *Store) ListGames(ctx context.Context, source Source) ([]*Game, error) {
	query := `SELECT ` + gameColumns + ` ` + gameJoins
	switch source {
	case SourceOwned:
		query += ` WHERE pur.id IS NOT NULL`
	case SourceWanted:
		query += ` WHERE wg.id IS NOT NULL`
	}
	query += ` ORDER BY pg.title COLLATE NOCASE, pg.id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()
	return collectGames(rows)
}

// SearchGames matches the query against title and platform, case-insensitive
// substring match, owned and wanted alike.
func (s *Store) SearchGames(ctx context.Context, query string) ([]*Game, error) {
	pattern := "%" + strings.TrimSpace(query) + "%"
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+gameColumns+` `+gameJoins+`
		 WHERE pg.title LIKE ? OR pg.platform LIKE ?
		 ORDER BY pg.title COLLATE NOCASE, pg.id`,
		pattern,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("search games: %w", err)
	}
	defer rows.Close()
	return collectGames(rows)
}

// UnresolvedGames returns games with no catalog link, ordered by title then
// id.
func (s *Store) UnresolvedGames(ctx context.Context) ([]*Game, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+gameColumns+` `+gameJoins+`
		 LEFT JOIN game_catalog_links gcl ON gcl.physical_game = pg.id
		 WHERE gcl.id IS NULL
		 ORDER BY pg.title COLLATE NOCASE, pg.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list unresolved games: %w", err)
	}
	defer rows.Close()
	return collectGames(rows)
}

// UpdateGame persists title, platform, and detail-row edits. Title and
// platform changes propagate to a linked catalog entry so resolution and
// reporting keep seeing the same names.
func (s *Store) UpdateGame(ctx context.Context, game *Game) error {
	if game == nil {
		return errors.New("game is nil")
	}
	if err := validateGameInput(game.Title, game.Platform, game.Condition); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(
			ctx,
			`UPDATE physical_games SET title = ?, platform = ? WHERE id = ?`,
			strings.TrimSpace(game.Title),
			strings.TrimSpace(game.Platform),
			game.ID,
		)
		if err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("game %d not found", game.ID)
		}

		switch game.Source {
		case SourceOwned:
			if _, err := tx.ExecContext(
				ctx,
				`UPDATE purchased_games SET acquisition_date = ?, price = ?, condition = ? WHERE physical_game = ?`,
				nullableTime(game.AcquisitionDate),
				nullableFloat(game.PricePaid),
				nullableString(string(game.Condition)),
				game.ID,
			); err != nil {
				return fmt.Errorf("update purchase details: %w", err)
			}
		case SourceWanted:
			if _, err := tx.ExecContext(
				ctx,
				`UPDATE wanted_games SET condition = ? WHERE physical_game = ?`,
				nullableString(string(game.Condition)),
				game.ID,
			); err != nil {
				return fmt.Errorf("update wishlist details: %w", err)
			}
		}

		if _, err := tx.ExecContext(
			ctx,
			`UPDATE catalog_entries SET title = ?, platform = ?
			 WHERE id = (SELECT catalog_entry FROM game_catalog_links WHERE physical_game = ?)`,
			strings.TrimSpace(game.Title),
			strings.TrimSpace(game.Platform),
			game.ID,
		); err != nil {
			return fmt.Errorf("propagate edit to catalog entry: %w", err)
		}
		return nil
	})
}

// RemoveWanted deletes a wishlist game outright. Returns false when the id
// does not refer to a wanted game.
func (s *Store) RemoveWanted(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var wantedID int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM wanted_games WHERE physical_game = ?`, id).Scan(&wantedID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("find wishlist row: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM physical_games WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete game: %w", err)
		}
		removed = true
		return nil
	})
	return removed, err
}

// PromoteWanted moves a wishlist game into the collection, recording the
// purchase. An existing catalog link is kept so price history carries over.
func (s *Store) PromoteWanted(ctx context.Context, id int64, condition Condition, pricePaid *float64, acquiredAt *time.Time) (*Game, error) {
	if condition != "" && !condition.Valid() {
		return nil, fmt.Errorf("unknown condition %q", condition)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM wanted_games WHERE physical_game = ?`, id)
		if err != nil {
			return fmt.Errorf("delete wishlist row: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("game %d is not on the wishlist", id)
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO purchased_games (physical_game, acquisition_date, price, condition) VALUES (?, ?, ?, ?)`,
			id,
			nullableTime(acquiredAt),
			nullableFloat(pricePaid),
			nullableString(string(condition)),
		); err != nil {
			return fmt.Errorf("insert purchase details: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Game(ctx, id)
}

func collectGames(rows *sql.Rows) ([]*Game, error) {
	var games []*Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}
