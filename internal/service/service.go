// Package service holds the application use cases. Services return
// *errorutil.DomainError values for every failure a caller can act on.
package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campus-aura/backend/internal/docstore"
	"github.com/campus-aura/backend/internal/events"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

// nowUTC matches the millisecond precision of stored timestamps.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// storeError translates docstore failures into domain errors.
func storeError(resource, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, docstore.ErrNotFound):
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	case errors.Is(err, docstore.ErrAlreadyExists):
		return apperrors.NewDuplicate(resource, id)
	default:
		var de *apperrors.DomainError
		if errors.As(err, &de) {
			return err
		}
		return apperrors.NewInternalError(err)
	}
}

// publish delivers a domain event; failures are logged and never fail the caller.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil && logger != nil {
		logger.Warn("publish domain event", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func required(fields map[string]string) error {
	missing := make([]string, 0)
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
