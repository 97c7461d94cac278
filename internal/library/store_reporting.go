package library

import (
	"context"
	"database/sql"
	"fmt"
)

const reportColumns = gameColumns + `,
	ce.catalog_id,
	lp_loose.price, lp_complete.price, lp_new.price`

const reportJoins = gameJoins + `
	LEFT JOIN game_catalog_links gcl ON gcl.physical_game = pg.id
	LEFT JOIN catalog_entries ce ON ce.id = gcl.catalog_entry
	LEFT JOIN latest_prices lp_loose ON lp_loose.catalog_id = ce.catalog_id AND lp_loose.condition = 'loose'
	LEFT JOIN latest_prices lp_complete ON lp_complete.catalog_id = ce.catalog_id AND lp_complete.condition = 'complete'
	LEFT JOIN latest_prices lp_new ON lp_new.catalog_id = ce.catalog_id AND lp_new.condition = 'new'`

// CollectionRows returns every owned game joined against its catalog link
// and current prices, ordered by title then id.
func (s *Store) CollectionRows(ctx context.Context) ([]CollectionRow, error) {
	return s.reportRows(ctx, SourceOwned)
}

// WishlistRows returns every wanted game joined against its catalog link and
// current prices, ordered by title then id.
func (s *Store) WishlistRows(ctx context.Context) ([]CollectionRow, error) {
	return s.reportRows(ctx, SourceWanted)
}

func (s *Store) reportRows(ctx context.Context, source Source) ([]CollectionRow, error) {
	query := `SELECT ` + reportColumns + ` ` + reportJoins
	switch source {
	case SourceOwned:
		query += ` WHERE pur.id IS NOT NULL`
	case SourceWanted:
		query += ` WHERE wg.id IS NOT NULL`
	}
	query += ` ORDER BY pg.title COLLATE NOCASE, pg.id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s rows: %w", source, err)
	}
	defer rows.Close()

	var report []CollectionRow
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
			loose           sql.NullFloat64
			complete        sql.NullFloat64
			sealed          sql.NullFloat64
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
			&loose,
			&complete,
			&sealed,
		); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", source, err)
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

		row := CollectionRow{Game: game, CatalogID: catalogID.String}
		if loose.Valid {
			value := loose.Float64
			row.Prices.Loose = &value
		}
		if complete.Valid {
			value := complete.Float64
			row.Prices.Complete = &value
		}
		if sealed.Valid {
			value := sealed.Float64
			row.Prices.New = &value
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

// Stats aggregates collection counts, value totals per condition, the
// per-platform distribution of owned games, and the five most recent
// additions.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(1) FROM purchased_games`, &stats.Owned},
		{`SELECT COUNT(1) FROM wanted_games`, &stats.Wanted},
		{`SELECT COUNT(1) FROM game_catalog_links`, &stats.Linked},
		{`SELECT COUNT(1) FROM physical_games pg
			LEFT JOIN game_catalog_links gcl ON gcl.physical_game = pg.id
			WHERE gcl.id IS NULL`, &stats.Unresolved},
		{`SELECT COUNT(1) FROM price_observations`, &stats.Observations},
	}
	for _, count := range counts {
		if err := s.db.QueryRowContext(ctx, count.query).Scan(count.dest); err != nil {
			return Stats{}, fmt.Errorf("collection stats: %w", err)
		}
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT lp.condition, SUM(lp.price)
		 FROM purchased_games pur
		 JOIN game_catalog_links gcl ON gcl.physical_game = pur.physical_game
		 JOIN catalog_entries ce ON ce.id = gcl.catalog_entry
		 JOIN latest_prices lp ON lp.catalog_id = ce.catalog_id
		 WHERE lp.price IS NOT NULL
		 GROUP BY lp.condition`,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("value totals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			condition Condition
			total     float64
		)
		if err := rows.Scan(&condition, &total); err != nil {
			return Stats{}, fmt.Errorf("scan value total: %w", err)
		}
		switch condition {
		case ConditionLoose:
			stats.Value.Loose = total
		case ConditionComplete:
			stats.Value.Complete = total
		case ConditionNew:
			stats.Value.New = total
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}

	if err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(DISTINCT pur.physical_game)
		 FROM purchased_games pur
		 JOIN game_catalog_links gcl ON gcl.physical_game = pur.physical_game
		 JOIN catalog_entries ce ON ce.id = gcl.catalog_entry
		 JOIN latest_prices lp ON lp.catalog_id = ce.catalog_id
		 WHERE lp.price IS NOT NULL`,
	).Scan(&stats.Value.Priced); err != nil {
		return Stats{}, fmt.Errorf("priced count: %w", err)
	}

	platformRows, err := s.db.QueryContext(
		ctx,
		`SELECT pg.platform, COUNT(1)
		 FROM physical_games pg
		 JOIN purchased_games pur ON pur.physical_game = pg.id
		 GROUP BY pg.platform
		 ORDER BY COUNT(1) DESC, pg.platform`,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("platform distribution: %w", err)
	}
	defer platformRows.Close()
	for platformRows.Next() {
		var bucket PlatformCount
		if err := platformRows.Scan(&bucket.Platform, &bucket.Count); err != nil {
			return Stats{}, fmt.Errorf("scan platform bucket: %w", err)
		}
		stats.Platforms = append(stats.Platforms, bucket)
	}
	if err := platformRows.Err(); err != nil {
		return Stats{}, err
	}

	recentRows, err := s.db.QueryContext(
		ctx,
		`SELECT `+gameColumns+` `+gameJoins+`
		 ORDER BY pg.created_at DESC, pg.id DESC
		 LIMIT 5`,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("recent additions: %w", err)
	}
	defer recentRows.Close()
	for recentRows.Next() {
		game, err := scanGame(recentRows)
		if err != nil {
			return Stats{}, fmt.Errorf("scan recent addition: %w", err)
		}
		stats.Recent = append(stats.Recent, *game)
	}
	if err := recentRows.Err(); err != nil {
		return Stats{}, err
	}

	return stats, nil
}
