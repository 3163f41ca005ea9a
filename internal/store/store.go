// Package store persists variation completion records and seeds the
// skip-ahead logic with the set of already-completed variation ids.
package store

import (
	"context"
	"errors"

	"github.com/swoosh1337/chessmax-mobile-sub001/internal/domain"
)

// ErrNotFound is returned when a completion record does not exist.
var ErrNotFound = errors.New("store: not found")

// CompletionStore is the persistence surface the trainer core needs:
// writing one record per finished run and reading back the id set used
// for initial auto-advance.
type CompletionStore interface {
	SaveCompletion(ctx context.Context, rec domain.CompletionRecord) error
	CompletedVariationIDs(ctx context.Context, userID string) (map[string]bool, error)
	Completion(ctx context.Context, userID, variationID string) (*domain.CompletionRecord, error)
}
