package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"waitlist-system/models"
)

const (
	stateKey = "waitlist:state"
	dayKey   = "waitlist:last_day"
)

// StateStore persists the committed QueueState. The service is the only
// writer; observers never push state blobs through this interface, so a
// whole-snapshot write here cannot race another writer.
type StateStore interface {
	// Load returns the stored state, or (nil, nil) when nothing is stored yet.
	Load(ctx context.Context) (*models.QueueState, error)
	Save(ctx context.Context, state *models.QueueState) error
}

type RedisStateStore struct {
	Redis redis.Cmdable
}

func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{Redis: client}
}

func (s *RedisStateStore) Load(ctx context.Context) (*models.QueueState, error) {
	data, err := s.Redis.Get(ctx, stateKey).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	var state models.QueueState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if state.ActiveQueue == nil {
		state.ActiveQueue = []models.Guest{}
	}
	return &state, nil
}

func (s *RedisStateStore) Save(ctx context.Context, state *models.QueueState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	// Snapshot and day stamp go in one transaction so rollover detection
	// never observes a half-written pair.
	_, err = s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, stateKey, data, 0)
		pipe.Set(ctx, dayKey, state.BusinessDay, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
