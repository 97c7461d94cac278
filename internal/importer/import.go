package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"gameshelf/internal/catalog"
	"gameshelf/internal/library"
	"gameshelf/internal/logging"
	"gameshelf/internal/pricing"
	"gameshelf/internal/services"
	"gameshelf/internal/textutil"
)

// Importer loads resolution and price payloads into the collection store.
type Importer struct {
	store  *library.Store
	prices *pricing.Service
	logger *slog.Logger
}

// New creates an importer.
func New(store *library.Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Importer{
		store:  store,
		prices: pricing.NewService(store, logger),
		logger: logging.NewComponentLogger(logger, "importer"),
	}
}

// ResolutionRecord is one externally supplied resolution: a known mapping
// from a local title and platform to a catalog id.
type ResolutionRecord struct {
	Title     string `json:"title"`
	Platform  string `json:"platform"`
	CatalogID string `json:"catalog_id"`
	URL       string `json:"url,omitempty"`
}

// PriceRecord is one externally supplied price snapshot.
type PriceRecord struct {
	CatalogID  string     `json:"catalog_id"`
	ObservedAt *time.Time `json:"observed_at,omitempty"`
	Prices     struct {
		Loose    *float64 `json:"loose,omitempty"`
		Complete *float64 `json:"complete,omitempty"`
		New      *float64 `json:"new,omitempty"`
	} `json:"prices"`
}

// Report accumulates per-record outcomes of one import run.
type Report struct {
	Total    int
	Applied  int
	Skipped  int
	Failed   int
	Problems []string
}

func (r *Report) problem(format string, args ...any) {
	r.Failed++
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// ImportResolutions links unresolved games against the supplied mappings.
// Records that match no unresolved game are skipped, not failed; a record
// whose link cannot be written is failed and the run continues.
func (i *Importer) ImportResolutions(ctx context.Context, reader io.Reader) (Report, error) {
	var records []ResolutionRecord
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return Report{}, services.Wrap(services.ErrValidation, "importer", "resolutions", "parse payload", err)
	}

	unresolved, err := i.store.UnresolvedGames(ctx)
	if err != nil {
		return Report{}, services.Wrap(services.ErrUnavailable, "importer", "resolutions", "list unresolved games", err)
	}
	byKey := make(map[string]*library.Game, len(unresolved))
	for _, game := range unresolved {
		byKey[textutil.QueryKey(game.Title, game.Platform)] = game
	}

	report := Report{Total: len(records)}
	for _, record := range records {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if strings.TrimSpace(record.CatalogID) == "" || strings.TrimSpace(record.Title) == "" {
			report.problem("record %q/%q: title and catalog_id required", record.Title, record.Platform)
			continue
		}

		key := textutil.QueryKey(record.Title, record.Platform)
		game, ok := byKey[key]
		if !ok {
			report.Skipped++
			continue
		}

		if _, err := i.store.LinkGame(ctx, game.ID, library.CatalogEntry{
			CatalogID: record.CatalogID,
			Title:     record.Title,
			Platform:  record.Platform,
			URL:       record.URL,
		}); err != nil {
			report.problem("link %q/%q: %v", record.Title, record.Platform, err)
			continue
		}
		delete(byKey, key)
		report.Applied++
		i.logger.Info("imported resolution",
			logging.Int64(logging.FieldGameID, game.ID),
			logging.String(logging.FieldCatalogID, record.CatalogID))
	}
	return report, nil
}

// ImportPrices appends the supplied snapshots as observations. A record with
// no prices writes the empty marker, same as a live fetch that found
// nothing. Missing observed_at defaults to the current time.
func (i *Importer) ImportPrices(ctx context.Context, reader io.Reader) (Report, error) {
	var records []PriceRecord
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return Report{}, services.Wrap(services.ErrValidation, "importer", "prices", "parse payload", err)
	}

	now := time.Now().UTC()
	report := Report{Total: len(records)}
	for _, record := range records {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if strings.TrimSpace(record.CatalogID) == "" {
			report.problem("price record: catalog_id required")
			continue
		}

		observedAt := now
		if record.ObservedAt != nil && !record.ObservedAt.IsZero() {
			observedAt = record.ObservedAt.UTC()
		}
		snapshot := catalog.Prices{
			Loose:    record.Prices.Loose,
			Complete: record.Prices.Complete,
			New:      record.Prices.New,
		}
		if _, err := i.prices.RecordSnapshot(ctx, record.CatalogID, snapshot, observedAt); err != nil {
			report.problem("record %q: %v", record.CatalogID, err)
			continue
		}
		report.Applied++
	}
	return report, nil
}

// Kind identifies the payload type of an import file.
type Kind string

const (
	KindResolutions Kind = "resolutions"
	KindPrices      Kind = "prices"
)

// sniffKind classifies a JSON payload by its first record: resolution
// records carry a title, price records do not.
func sniffKind(payload []byte) (Kind, error) {
	var probe []struct {
		Title  *string          `json:"title"`
		Prices *json.RawMessage `json:"prices"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return "", fmt.Errorf("parse payload: %w", err)
	}
	if len(probe) == 0 {
		return "", fmt.Errorf("payload holds no records")
	}
	if probe[0].Title != nil {
		return KindResolutions, nil
	}
	if probe[0].Prices != nil {
		return KindPrices, nil
	}
	return "", fmt.Errorf("payload is neither resolutions nor prices")
}

// ImportPayload classifies and applies one JSON payload.
func (i *Importer) ImportPayload(ctx context.Context, payload []byte) (Kind, Report, error) {
	kind, err := sniffKind(payload)
	if err != nil {
		return "", Report{}, services.Wrap(services.ErrValidation, "importer", "classify", "unrecognized payload", err)
	}
	var report Report
	switch kind {
	case KindResolutions:
		report, err = i.ImportResolutions(ctx, bytes.NewReader(payload))
	case KindPrices:
		report, err = i.ImportPrices(ctx, bytes.NewReader(payload))
	}
	return kind, report, err
}
