package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"omiam-waitlist/internal/pkg/errs"
	"omiam-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "waitlist:idempotency:"

// RedisStore claims idempotency keys with SETNX so that concurrent replicas
// agree on which request owns a key.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Key(key string) string {
	return keyPrefix + key
}

// claimAttempts bounds the SETNX/GET cycle when the key expires in between.
const claimAttempts = 2

var ErrClaimRace = errs.New("idempotency key expired while being read")

func (s *RedisStore) Begin(ctx context.Context, key, requestHash string, ttl time.Duration) (*shared.IdempotencyRecord, error) {
	claim, err := json.Marshal(shared.IdempotencyRecord{
		Key:         key,
		Status:      shared.IdempotencyProcessing,
		RequestHash: requestHash,
	})
	if err != nil {
		return nil, err
	}

	for range claimAttempts {
		set, err := s.client.SetNX(ctx, s.Key(key), claim, ttl).Result()
		if err != nil {
			return nil, errs.Wrap(err, "claim idempotency key")
		}
		if set {
			return nil, nil
		}

		raw, err := s.client.Get(ctx, s.Key(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, errs.Wrap(err, "read idempotency key")
		}

		var rec shared.IdempotencyRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, errs.Wrap(err, "decode idempotency record")
		}
		return &rec, nil
	}
	return nil, errs.Wrapf(ErrClaimRace, "key %s after %d attempts", key, claimAttempts)
}

func (s *RedisStore) Complete(ctx context.Context, key, requestHash string, entryID uuid.UUID, ttl time.Duration) error {
	id := entryID
	payload, err := json.Marshal(shared.IdempotencyRecord{
		Key:         key,
		Status:      shared.IdempotencyCompleted,
		RequestHash: requestHash,
		EntryID:     &id,
	})
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.Key(key), payload, ttl).Err(); err != nil {
		return errs.Wrap(err, "complete idempotency key")
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.Key(key)).Err(); err != nil {
		return errs.Wrap(err, "release idempotency key")
	}
	return nil
}
