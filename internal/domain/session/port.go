// Package session holds the contract of the refresh token store.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrTokenNotFound is returned by Get for unknown, deleted and expired tokens alike.
var ErrTokenNotFound = errors.New("refresh token not found")

var ErrInvalidTTL = errors.New("refresh token ttl must be positive")

// RefreshStore maps opaque refresh tokens to user ids. Expiry is enforced by
// the store: once ttl elapses the entry reads as absent.
type RefreshStore interface {
	Put(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	Get(ctx context.Context, token string) (uuid.UUID, error)
	Delete(ctx context.Context, token string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}
