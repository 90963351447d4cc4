package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	runIDKey   ctxKey = "run_id"
	chantIDKey ctxKey = "chant_id"
)

// WithRunID stores the batch run ID in the context.
func WithRunID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromCtx extracts the batch run ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func RunIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(runIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithChantID stores the ID of the chant being processed.
func WithChantID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, chantIDKey, id)
}

// ChantIDFromCtx extracts the chant ID from the context.
// Returns an empty string if absent.
func ChantIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(chantIDKey).(string)
	return id
}
