package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/swoosh1337/chessmax-mobile-sub001/internal/domain"
)

// RedisStore keeps completions in redis: a per-user set of completed
// variation ids plus one JSON record per completion.
type RedisStore struct{ rdb *redis.Client }

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func keyDone(user string) string { return "trainer:done:" + strings.TrimSpace(user) }

func keyCompletion(user, variationID string) string {
	return "trainer:completion:" + strings.TrimSpace(user) + ":" + variationID
}

// SaveCompletion records one finished run. Saving the same variation
// again overwrites the record; the id set keeps it a single entry.
func (s *RedisStore) SaveCompletion(ctx context.Context, rec domain.CompletionRecord) error {
	if strings.TrimSpace(rec.UserID) == "" || strings.TrimSpace(rec.VariationID) == "" {
		return fmt.Errorf("store: completion needs user and variation ids")
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, keyCompletion(rec.UserID, rec.VariationID), raw, 0).Err(); err != nil {
		return err
	}
	return s.rdb.SAdd(ctx, keyDone(rec.UserID), rec.VariationID).Err()
}

// CompletedVariationIDs returns the set of variation ids the user has
// finished at least once.
func (s *RedisStore) CompletedVariationIDs(ctx context.Context, userID string) (map[string]bool, error) {
	ids, err := s.rdb.SMembers(ctx, keyDone(userID)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// Completion loads one completion record.
func (s *RedisStore) Completion(ctx context.Context, userID, variationID string) (*domain.CompletionRecord, error) {
	raw, err := s.rdb.Get(ctx, keyCompletion(userID, variationID)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec domain.CompletionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
