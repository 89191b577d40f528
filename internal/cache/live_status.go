package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kle310/EV-ChargeMate/internal/models"
)

// LiveStatusStore caches computed live statuses in redis with a short TTL.
// LiveStatus is a view, never authoritative state, so expiry just forces a
// recompute from the sample store.
type LiveStatusStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLiveStatusStore returns the redis-backed cache.
func NewLiveStatusStore(client *redis.Client, ttl time.Duration) *LiveStatusStore {
	return &LiveStatusStore{client: client, ttl: ttl}
}

func (s *LiveStatusStore) key(stationID string) string {
	return fmt.Sprintf("status:live:%s", stationID)
}

// Save caches a live status.
func (s *LiveStatusStore) Save(ctx context.Context, stationID string, live models.LiveStatus) error {
	data, err := json.Marshal(live)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(stationID), data, s.ttl).Err()
}

// Get returns the cached live status, or redis.Nil when absent or expired.
func (s *LiveStatusStore) Get(ctx context.Context, stationID string) (*models.LiveStatus, error) {
	result, err := s.client.Get(ctx, s.key(stationID)).Result()
	if err != nil {
		return nil, err
	}
	var live models.LiveStatus
	if err := json.Unmarshal([]byte(result), &live); err != nil {
		return nil, err
	}
	return &live, nil
}

// Delete removes a cached live status.
func (s *LiveStatusStore) Delete(ctx context.Context, stationID string) error {
	return s.client.Del(ctx, s.key(stationID)).Err()
}
