package idempotency

import (
	"context"
	"time"

	"github.com/dset/Cloud-Market/pkg/errors"
	"github.com/dset/Cloud-Market/pkg/redis"
	orderDomain "github.com/dset/Cloud-Market/services/venue/internal/domain/order"
)

const (
	keyPrefix = "idempotency:"
	pending   = "pending"

	// DefaultReservationTTL bounds how long a crashed submission can hold a key.
	DefaultReservationTTL = 30 * time.Second
)

// Store keeps submission keys in Redis. A reserved key holds a pending
// marker until the submission completes and replaces it with the order id.
type Store struct {
	client         redis.Client
	ttl            time.Duration
	reservationTTL time.Duration
}

var _ orderDomain.IdempotencyStore = (*Store)(nil)

// NewStore creates a store that keeps completed keys for ttl.
func NewStore(client redis.Client, ttl time.Duration) *Store {
	return &Store{
		client:         client,
		ttl:            ttl,
		reservationTTL: DefaultReservationTTL,
	}
}

func storeKey(owner, key string) string {
	return keyPrefix + owner + ":" + key
}

// Lookup returns the order id recorded for the key, or "" if there is none yet.
func (s *Store) Lookup(ctx context.Context, owner, key string) (string, error) {
	value, err := s.client.Get(ctx, storeKey(owner, key))
	if err != nil {
		return "", errors.TracerFromError(err)
	}

	if value == pending {
		return "", nil
	}
	return value, nil
}

// Reserve claims the key unless another submission already did.
func (s *Store) Reserve(ctx context.Context, owner, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, storeKey(owner, key), pending, s.reservationTTL)
	if err != nil {
		return false, errors.TracerFromError(err)
	}
	return ok, nil
}

// Complete replaces the reservation with the order id.
func (s *Store) Complete(ctx context.Context, owner, key, orderID string) error {
	if err := s.client.Set(ctx, storeKey(owner, key), orderID, s.ttl); err != nil {
		return errors.TracerFromError(err)
	}
	return nil
}

// Release drops the reservation so the key can be retried.
func (s *Store) Release(ctx context.Context, owner, key string) error {
	if _, err := s.client.Del(ctx, storeKey(owner, key)); err != nil {
		return errors.TracerFromError(err)
	}
	return nil
}
