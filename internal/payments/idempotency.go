package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rbeltranc/stitchmarket-backend/pkg/redis"
)

// IdempotencyGuard short-circuits redelivered gateway confirmations before
// they reach the database. The unique payment_confirmations key remains the
// authoritative check; this only saves a transaction on obvious replays.
type IdempotencyGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
	scope string
}

func NewIdempotencyGuard(store redis.IdempotencyStore, ttl time.Duration, scope string) (*IdempotencyGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	return &IdempotencyGuard{
		store: store,
		ttl:   ttl,
		scope: scope,
	}, nil
}

// CheckAndMark marks the confirmation as seen and reports whether it had
// already been processed.
func (g *IdempotencyGuard) CheckAndMark(ctx context.Context, confirmationID string) (bool, error) {
	if confirmationID == "" {
		return false, errors.New("confirmation id is required")
	}
	key := g.store.IdempotencyKey(g.scope, confirmationID)
	set, err := g.store.SetNX(ctx, key, "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("set idempotency key: %w", err)
	}
	return !set, nil
}

// Delete drops the mark so the gateway's retry can be processed after a
// transient failure on our side.
func (g *IdempotencyGuard) Delete(ctx context.Context, confirmationID string) error {
	if confirmationID == "" {
		return errors.New("confirmation id is required")
	}
	key := g.store.IdempotencyKey(g.scope, confirmationID)
	return g.store.Del(ctx, key)
}
