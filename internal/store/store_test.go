package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/swoosh1337/chessmax-mobile-sub001/internal/domain"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	exerciseStore(t, NewRedisStore(newTestRedis(t)))
}

// exerciseStore runs the CompletionStore contract against an
// implementation.
func exerciseStore(t *testing.T, s CompletionStore) {
	t.Helper()
	ctx := context.Background()

	ids, err := s.CompletedVariationIDs(ctx, "u1")
	if err != nil {
		t.Fatalf("CompletedVariationIDs: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("fresh store returned %v", ids)
	}

	rec := domain.CompletionRecord{
		UserID:      "u1",
		VariationID: "ruy-lopez::Morphy Defense",
		Mode:        "drill",
		Errors:      1,
		HintsUsed:   2,
		TimeSeconds: 95,
		XPEarned:    45,
		CompletedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := s.SaveCompletion(ctx, rec); err != nil {
		t.Fatalf("SaveCompletion: %v", err)
	}
	second := rec
	second.VariationID = "ruy-lopez::Berlin Defense"
	second.Errors = 0
	second.XPEarned = 100
	if err := s.SaveCompletion(ctx, second); err != nil {
		t.Fatalf("SaveCompletion: %v", err)
	}

	ids, err = s.CompletedVariationIDs(ctx, "u1")
	if err != nil {
		t.Fatalf("CompletedVariationIDs: %v", err)
	}
	if len(ids) != 2 || !ids[rec.VariationID] || !ids[second.VariationID] {
		t.Fatalf("ids = %v", ids)
	}
	if other, err := s.CompletedVariationIDs(ctx, "u2"); err != nil || len(other) != 0 {
		t.Fatalf("u2 ids = %v err=%v", other, err)
	}

	got, err := s.Completion(ctx, "u1", rec.VariationID)
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}
	if got.Errors != 1 || got.HintsUsed != 2 || got.XPEarned != 45 || got.Mode != "drill" {
		t.Fatalf("record = %+v", got)
	}

	// Re-saving the same variation overwrites instead of duplicating.
	rec.Errors = 0
	rec.XPEarned = 100
	if err := s.SaveCompletion(ctx, rec); err != nil {
		t.Fatalf("SaveCompletion: %v", err)
	}
	ids, _ = s.CompletedVariationIDs(ctx, "u1")
	if len(ids) != 2 {
		t.Fatalf("ids after overwrite = %v", ids)
	}
	got, err = s.Completion(ctx, "u1", rec.VariationID)
	if err != nil || got.Errors != 0 || got.XPEarned != 100 {
		t.Fatalf("overwritten record = %+v err=%v", got, err)
	}

	if _, err := s.Completion(ctx, "u1", "nope::missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing record err = %v", err)
	}
	if err := s.SaveCompletion(ctx, domain.CompletionRecord{UserID: "u1"}); err == nil {
		t.Fatal("record without variation id should be rejected")
	}
}
