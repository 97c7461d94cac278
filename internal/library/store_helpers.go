package library

import (
	"database/sql"
	"strings"
	"time"
)

// timeFormat is RFC3339 UTC with nanoseconds padded to fixed width so that
// lexicographic comparison of stored values matches chronological order. SQL
// queries compare observed_at directly.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func timeText(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTimeString(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	if ts, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
		return ts
	}
	if ts, err := time.Parse("2006-01-02", value); err == nil {
		return ts
	}
	return time.Time{}
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return timeText(*t)
}

// gameColumns is the SELECT list shared by every game query: the physical row
// joined against its purchase and wishlist detail rows.
const gameColumns = `pg.id, pg.title, pg.platform, pg.created_at,
	pur.id, pur.acquisition_date, pur.price, pur.condition,
	wg.id, wg.condition`

const gameJoins = `FROM physical_games pg
	LEFT JOIN purchased_games pur ON pur.physical_game = pg.id
	LEFT JOIN wanted_games wg ON wg.physical_game = pg.id`

func scanGame(scanner interface{ Scan(dest ...any) error }) (*Game, error) {
	var (
		game            Game
		createdAt       string
		purchaseID      sql.NullInt64
		acquisitionDate sql.NullString
		pricePaid       sql.NullFloat64
		ownedCondition  sql.NullString
		wantedID        sql.NullInt64
		wantedCondition sql.NullString
	)
	err := scanner.Scan(
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
	)
	if err != nil {
		return nil, err
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
	return &game, nil
}

const entryColumns = `id, catalog_id, title, platform, url, created_at`

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*CatalogEntry, error) {
	var (
		entry     CatalogEntry
		catalogID sql.NullString
		url       sql.NullString
		createdAt string
	)
	err := scanner.Scan(
		&entry.ID,
		&catalogID,
		&entry.Title,
		&entry.Platform,
		&url,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	entry.CatalogID = catalogID.String
	entry.URL = url.String
	entry.CreatedAt = parseTimeString(createdAt)
	return &entry, nil
}

const observationColumns = `id, catalog_id, condition, price, observed_at`

func scanObservation(scanner interface{ Scan(dest ...any) error }) (*Observation, error) {
	var (
		obs        Observation
		price      sql.NullFloat64
		observedAt string
	)
	err := scanner.Scan(
		&obs.ID,
		&obs.CatalogID,
		&obs.Condition,
		&price,
		&observedAt,
	)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		value := price.Float64
		obs.Price = &value
	}
	obs.ObservedAt = parseTimeString(observedAt)
	return &obs, nil
}
