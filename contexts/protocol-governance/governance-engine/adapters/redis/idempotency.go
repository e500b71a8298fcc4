package redisadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	domainerrors "agora/contexts/protocol-governance/governance-engine/domain/errors"
	"agora/contexts/protocol-governance/governance-engine/ports"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "agora:governance:idem:"

type idempotencyPayload struct {
	RequestHash string `json:"request_hash"`
	Ref         string `json:"ref"`
}

// IdempotencyStore keeps replay records in Redis with server-side expiry, for
// deployments where API replicas share no process memory.
type IdempotencyStore struct {
	client *redis.Client
}

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string, _ time.Time) (ports.IdempotencyRecord, bool, error) {
	raw, err := s.client.Get(ctx, keyPrefix+strings.TrimSpace(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}
	var payload idempotencyPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return ports.IdempotencyRecord{}, false, err
	}
	return ports.IdempotencyRecord{
		Key:         strings.TrimSpace(key),
		RequestHash: payload.RequestHash,
		Ref:         payload.Ref,
	}, true, nil
}

func (s *IdempotencyStore) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	key := keyPrefix + strings.TrimSpace(record.Key)
	raw, err := json.Marshal(idempotencyPayload{
		RequestHash: strings.TrimSpace(record.RequestHash),
		Ref:         strings.TrimSpace(record.Ref),
	})
	if err != nil {
		return err
	}
	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Minute
	}

	stored, err := s.client.SetNX(ctx, key, raw, ttl).Result()
	if err != nil {
		return err
	}
	if stored {
		return nil
	}

	existing, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	var payload idempotencyPayload
	if err := json.Unmarshal([]byte(existing), &payload); err != nil {
		return err
	}
	if payload.RequestHash != strings.TrimSpace(record.RequestHash) || payload.Ref != strings.TrimSpace(record.Ref) {
		return domainerrors.ErrIdempotencyConflict
	}
	return nil
}
