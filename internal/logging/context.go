package logging

import (
	"context"
	"log/slog"

	"gameshelf/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldGameID is the standardized structured logging key for physical game identifiers.
	FieldGameID = "game_id"
	// FieldCatalogID is the standardized structured logging key for external catalog identifiers.
	FieldCatalogID = "catalog_id"
	// FieldCycleID is the standardized structured logging key for refresh cycle identifiers.
	FieldCycleID = "cycle_id"
	// FieldCondition is the standardized structured logging key for price condition tags.
	FieldCondition = "condition"
	// FieldEventType is the standardized structured logging key that classifies log events.
	FieldEventType = "event_type"
	// FieldErrorHint is the standardized structured logging key for operator guidance on errors.
	FieldErrorHint = "error_hint"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if id, ok := services.GameIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldGameID, id))
	}
	if id, ok := services.CatalogIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCatalogID, id))
	}
	if id, ok := services.CycleIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCycleID, id))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
