package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// InsertObservation appends one price reading. Observations are never
// updated or deleted.
func (s *Store) InsertObservation(ctx context.Context, obs Observation) (*Observation, error) {
	if strings.TrimSpace(obs.CatalogID) == "" {
		return nil, errors.New("catalog id required")
	}
	if !obs.Condition.Valid() {
		return nil, fmt.Errorf("unknown condition %q", obs.Condition)
	}
	if obs.ObservedAt.IsZero() {
		return nil, errors.New("observation timestamp required")
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO price_observations (catalog_id, condition, price, observed_at) VALUES (?, ?, ?, ?)`,
		obs.CatalogID,
		string(obs.Condition),
		nullableFloat(obs.Price),
		timeText(obs.ObservedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert observation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+observationColumns+` FROM price_observations WHERE id = ?`, id)
	inserted, err := scanObservation(row)
	if err != nil {
		return nil, fmt.Errorf("get observation: %w", err)
	}
	return inserted, nil
}

// InsertObservationSet appends one reading set in a single transaction:
// either every observation lands or none do. Rows are validated up front so
// a bad reading rejects the set before anything is written.
func (s *Store) InsertObservationSet(ctx context.Context, observations []Observation) error {
	for _, obs := range observations {
		if strings.TrimSpace(obs.CatalogID) == "" {
			return errors.New("catalog id required")
		}
		if !obs.Condition.Valid() {
			return fmt.Errorf("unknown condition %q", obs.Condition)
		}
		if obs.ObservedAt.IsZero() {
			return errors.New("observation timestamp required")
		}
	}
	if len(observations) == 0 {
		return nil
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, obs := range observations {
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO price_observations (catalog_id, condition, price, observed_at) VALUES (?, ?, ?, ?)`,
				obs.CatalogID,
				string(obs.Condition),
				nullableFloat(obs.Price),
				timeText(obs.ObservedAt),
			); err != nil {
				return fmt.Errorf("insert observation: %w", err)
			}
		}
		return nil
	})
}

// LatestObservation returns the current reading for one catalog id and
// condition: newest observed_at, ties broken by the higher row id. Returns
// (nil, nil) when the pair was never observed.
func (s *Store) LatestObservation(ctx context.Context, catalogID string, condition Condition) (*Observation, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+observationColumns+` FROM price_observations
		 WHERE catalog_id = ? AND condition = ?
		 ORDER BY observed_at DESC, id DESC
		 LIMIT 1`,
		catalogID,
		string(condition),
	)
	obs, err := scanObservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest observation: %w", err)
	}
	return obs, nil
}

// LatestObservations returns the current reading per condition for one
// catalog id, in canonical condition order. Conditions never observed are
// omitted.
func (s *Store) LatestObservations(ctx context.Context, catalogID string) ([]*Observation, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+observationColumns+` FROM price_observations po
		 WHERE po.catalog_id = ? AND po.id = (
			SELECT po2.id FROM price_observations po2
			WHERE po2.catalog_id = po.catalog_id AND po2.condition = po.condition
			ORDER BY po2.observed_at DESC, po2.id DESC
			LIMIT 1
		 )`,
		catalogID,
	)
	if err != nil {
		return nil, fmt.Errorf("query latest observations: %w", err)
	}
	defer rows.Close()

	byCondition := make(map[Condition]*Observation, len(allConditions))
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		byCondition[obs.Condition] = obs
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ordered := make([]*Observation, 0, len(byCondition))
	for _, condition := range allConditions {
		if obs, ok := byCondition[condition]; ok {
			ordered = append(ordered, obs)
		}
	}
	return ordered, nil
}

// ObservationHistory returns readings for a catalog id newest first. A
// limit <= 0 returns everything.
func (s *Store) ObservationHistory(ctx context.Context, catalogID string, limit int) ([]*Observation, error) {
	query := `SELECT ` + observationColumns + ` FROM price_observations
		 WHERE catalog_id = ?
		 ORDER BY observed_at DESC, id DESC`
	args := []any{catalogID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query observation history: %w", err)
	}
	defer rows.Close()

	var history []*Observation
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		history = append(history, obs)
	}
	return history, rows.Err()
}

// DueEntries returns linked catalog entries whose newest observation (across
// all conditions, empty readings included) is at or before the cutoff, plus
// linked entries never observed at all. Ordered by title then id; a
// limit <= 0 returns the full set.
func (s *Store) DueEntries(ctx context.Context, cutoff time.Time, limit int) ([]*CatalogEntry, error) {
	query := `SELECT DISTINCT ce.id, ce.catalog_id, ce.title, ce.platform, ce.url, ce.created_at
		 FROM catalog_entries ce
		 JOIN game_catalog_links gcl ON gcl.catalog_entry = ce.id
		 WHERE ce.catalog_id IS NOT NULL
		   AND COALESCE((SELECT MAX(po.observed_at) FROM price_observations po WHERE po.catalog_id = ce.catalog_id), '') <= ?
		 ORDER BY ce.title COLLATE NOCASE, ce.id`
	args := []any{timeText(cutoff)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query due entries: %w", err)
	}
	defer rows.Close()

	var entries []*CatalogEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
