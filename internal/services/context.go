package services

import "context"

type contextKey string

const (
	gameIDKey    contextKey = "game_id"
	catalogIDKey contextKey = "catalog_id"
	cycleIDKey   contextKey = "cycle_id"
	requestIDKey contextKey = "request_id"
)

// WithGameID annotates context with the physical game identifier.
func WithGameID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, gameIDKey, id)
}

// GameIDFromContext extracts the physical game identifier if present.
func GameIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(gameIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithCatalogID annotates context with the external catalog identifier.
func WithCatalogID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, catalogIDKey, id)
}

// CatalogIDFromContext returns the external catalog identifier if present.
func CatalogIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(catalogIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithCycleID annotates context with the refresh cycle identifier.
func WithCycleID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, cycleIDKey, id)
}

// CycleIDFromContext returns the refresh cycle identifier if present.
func CycleIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(cycleIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
