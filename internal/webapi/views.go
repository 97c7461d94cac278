package webapi

import (
	"sort"
	"strings"
	"time"

	"gameshelf/internal/library"
)

// GameRow is the JSON shape of one collection or wishlist row.
type GameRow struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Platform        string     `json:"platform"`
	Condition       string     `json:"condition,omitempty"`
	PricePaid       *float64   `json:"price_paid,omitempty"`
	AcquisitionDate *time.Time `json:"acquisition_date,omitempty"`
	CatalogID       string     `json:"catalog_id,omitempty"`
	Prices          PriceView  `json:"prices"`
}

// PriceView is the current price per condition. Absent conditions are
// omitted rather than rendered as zero.
type PriceView struct {
	Loose    *float64 `json:"loose,omitempty"`
	Complete *float64 `json:"complete,omitempty"`
	New      *float64 `json:"new,omitempty"`
}

// StateCount is one bucket of the reconciliation-state breakdown.
type StateCount struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

// CycleView summarizes the most recent refresh cycle.
type CycleView struct {
	CycleID   string `json:"cycle_id"`
	Started   string `json:"started"`
	Duration  string `json:"duration"`
	Attempted int    `json:"attempted"`
	Recorded  int    `json:"recorded"`
	Empty     int    `json:"empty"`
	Failed    int    `json:"failed"`
}

// StatusResponse is the /api/status payload.
type StatusResponse struct {
	RefreshRunning bool         `json:"refresh_running"`
	LastError      string       `json:"last_error,omitempty"`
	LastCycle      *CycleView   `json:"last_cycle,omitempty"`
	States         []StateCount `json:"states"`
	DatabasePath   string       `json:"database_path"`
}

type listResponse struct {
	Items []GameRow `json:"items"`
}

func fromCollectionRow(row library.CollectionRow) GameRow {
	return GameRow{
		ID:              row.ID,
		Title:           row.Title,
		Platform:        row.Platform,
		Condition:       string(row.Game.Condition),
		PricePaid:       row.PricePaid,
		AcquisitionDate: row.AcquisitionDate,
		CatalogID:       row.CatalogID,
		Prices: PriceView{
			Loose:    row.Prices.Loose,
			Complete: row.Prices.Complete,
			New:      row.Prices.New,
		},
	}
}

// rowValue is the price used for value sorting: the current price for the
// row's own condition, falling back to the complete-in-box price.
func rowValue(row library.CollectionRow) *float64 {
	if price := row.Prices.ForCondition(row.Game.Condition); price != nil {
		return price
	}
	return row.Prices.Complete
}

var sortFields = map[string]struct{}{
	"title":    {},
	"platform": {},
	"value":    {},
}

// parseSort validates sort parameters against the whitelist. Unknown fields
// and orders fall back to the defaults instead of erroring.
func parseSort(field, order string) (string, bool) {
	field = strings.ToLower(strings.TrimSpace(field))
	if _, ok := sortFields[field]; !ok {
		field = "title"
	}
	descending := strings.EqualFold(strings.TrimSpace(order), "desc")
	return field, descending
}

func sortRows(rows []library.CollectionRow, field string, descending bool) {
	less := func(i, j int) bool {
		switch field {
		case "platform":
			left := strings.ToLower(rows[i].Platform)
			right := strings.ToLower(rows[j].Platform)
			if left != right {
				return left < right
			}
		case "value":
			left, right := rowValue(rows[i]), rowValue(rows[j])
			switch {
			case left == nil && right != nil:
				return false
			case left != nil && right == nil:
				return true
			case left != nil && right != nil && *left != *right:
				return *left < *right
			}
		}
		return strings.ToLower(rows[i].Title) < strings.ToLower(rows[j].Title)
	}
	if descending {
		sort.SliceStable(rows, func(i, j int) bool { return less(j, i) })
		return
	}
	sort.SliceStable(rows, less)
}
