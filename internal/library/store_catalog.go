package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CatalogEntryByCatalogID fetches an entry by its external identifier.
// Returns (nil, nil) when no row exists.
func (s *Store) CatalogEntryByCatalogID(ctx context.Context, catalogID string) (*CatalogEntry, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+entryColumns+` FROM catalog_entries WHERE catalog_id = ?`,
		catalogID,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get catalog entry: %w", err)
	}
	return entry, nil
}

// CatalogEntryByID fetches an entry by its internal row id. Returns
// (nil, nil) when no row exists.
func (s *Store) CatalogEntryByID(ctx context.Context, id int64) (*CatalogEntry, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+entryColumns+` FROM catalog_entries WHERE id = ?`,
		id,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get catalog entry: %w", err)
	}
	return entry, nil
}

// LinkForGame returns the active link and its catalog entry for a game.
// Returns (nil, nil, nil) when the game is unlinked.
func (s *Store) LinkForGame(ctx context.Context, gameID int64) (*Link, *CatalogEntry, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT gcl.id, gcl.physical_game, gcl.catalog_entry, gcl.created_at,
			ce.id, ce.catalog_id, ce.title, ce.platform, ce.url, ce.created_at
		 FROM game_catalog_links gcl
		 JOIN catalog_entries ce ON ce.id = gcl.catalog_entry
		 WHERE gcl.physical_game = ?`,
		gameID,
	)

	var (
		link           Link
		linkCreatedAt  string
		entry          CatalogEntry
		catalogID      sql.NullString
		url            sql.NullString
		entryCreatedAt string
	)
	err := row.Scan(
		&link.ID,
		&link.GameID,
		&link.CatalogEntry,
		&linkCreatedAt,
		&entry.ID,
		&catalogID,
		&entry.Title,
		&entry.Platform,
		&url,
		&entryCreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get link: %w", err)
	}

	link.CreatedAt = parseTimeString(linkCreatedAt)
	entry.CatalogID = catalogID.String
	entry.URL = url.String
	entry.CreatedAt = parseTimeString(entryCreatedAt)
	return &link, &entry, nil
}

// LinkGame records a resolution: the catalog entry (reused when the external
// id is already known, inserted otherwise) and the link, in one write
// transaction. The external id is written at insert and never updated.
func (s *Store) LinkGame(ctx context.Context, gameID int64, entry CatalogEntry) (*CatalogEntry, error) {
	if strings.TrimSpace(entry.CatalogID) == "" {
		return nil, errors.New("catalog id required")
	}
	if strings.TrimSpace(entry.Title) == "" || strings.TrimSpace(entry.Platform) == "" {
		return nil, errors.New("catalog entry title and platform required")
	}
	timestamp := timeText(time.Now())

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM physical_games WHERE id = ?`, gameID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("game %d not found", gameID)
		}
		if err != nil {
			return fmt.Errorf("check game: %w", err)
		}

		var entryID int64
		err = tx.QueryRowContext(ctx, `SELECT id FROM catalog_entries WHERE catalog_id = ?`, entry.CatalogID).Scan(&entryID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			res, insertErr := tx.ExecContext(
				ctx,
				`INSERT INTO catalog_entries (catalog_id, title, platform, url, created_at) VALUES (?, ?, ?, ?, ?)`,
				entry.CatalogID,
				strings.TrimSpace(entry.Title),
				strings.TrimSpace(entry.Platform),
				nullableString(entry.URL),
				timestamp,
			)
			if insertErr != nil {
				return fmt.Errorf("insert catalog entry: %w", insertErr)
			}
			entryID, insertErr = res.LastInsertId()
			if insertErr != nil {
				return fmt.Errorf("last insert id: %w", insertErr)
			}
		case err != nil:
			return fmt.Errorf("find catalog entry: %w", err)
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO game_catalog_links (physical_game, catalog_entry, created_at) VALUES (?, ?, ?)`,
			gameID,
			entryID,
			timestamp,
		); err != nil {
			return fmt.Errorf("insert link: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.CatalogEntryByCatalogID(ctx, entry.CatalogID)
}

// EntryStates computes the reconciliation state of every game in one query:
// unlinked, linked without observations, or linked with the newest
// observation older (stale) or newer (fresh) than the cooldown window.
// Ordered by title then id.
func (s *Store) EntryStates(ctx context.Context, now time.Time, cooldown time.Duration) ([]GameState, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+gameColumns+`, ce.catalog_id,
			(SELECT MAX(po.observed_at) FROM price_observations po WHERE po.catalog_id = ce.catalog_id)
		 `+gameJoins+`
		 LEFT JOIN game_catalog_links gcl ON gcl.physical_game = pg.id
		 LEFT JOIN catalog_entries ce ON ce.id = gcl.catalog_entry
		 ORDER BY pg.title COLLATE NOCASE, pg.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query entry states: %w", err)
	}
	defer rows.Close()

	threshold := now.Add(-cooldown)
	var states []GameState
	for rows.Next() {
		var (
			game            Game
			createdAt       string
			purchaseID      sql.NullInt64
			acquisitionDate sql.NullString
			pricePaid       sql.NullFloat64
			ownedCondition  sql.NullString
			wantedID        sql.NullInt64
			wantedCondition sql.NullString
			catalogID       sql.NullString
			lastObserved    sql.NullString
		)
		if err := rows.Scan(
			&game.ID,
			&game.Title,
			&game.Platform,
			&createdAt,
			&purchaseID,
			&acquisitionDate,
			&pricePaid,
			&ownedCondition,
			&wantedID,
			&wantedCondition,
			&catalogID,
			&lastObserved,
		); err != nil {
			return nil, fmt.Errorf("scan entry state: %w", err)
		}

		game.CreatedAt = parseTimeString(createdAt)
		switch {
		case purchaseID.Valid:
			game.Source = SourceOwned
			if acquisitionDate.Valid {
				when := parseTimeString(acquisitionDate.String)
				game.AcquisitionDate = &when
			}
			if pricePaid.Valid {
				paid := pricePaid.Float64
				game.PricePaid = &paid
			}
			if ownedCondition.Valid {
				game.Condition = Condition(ownedCondition.String)
			}
		case wantedID.Valid:
			game.Source = SourceWanted
			if wantedCondition.Valid {
				game.Condition = Condition(wantedCondition.String)
			}
		}

		state := GameState{Game: game, CatalogID: catalogID.String}
		switch {
		case !catalogID.Valid || catalogID.String == "":
			state.State = StateUnlinked
		case !lastObserved.Valid:
			state.State = StateLinkedNoData
		default:
			observed := parseTimeString(lastObserved.String)
			state.LastObserved = &observed
			if !observed.After(threshold) {
				state.State = StateLinkedStale
			} else {
				state.State = StateLinkedFresh
			}
		}
		states = append(states, state)
	}
	return states, rows.Err()
}
