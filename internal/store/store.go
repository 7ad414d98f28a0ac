// Package store defines the session cache interface and its backends.
package store

import (
	"context"
	"errors"

	"github.com/anoopsurendrananp/facebook-bot/internal/domain"
)

// ErrNotFound reports that no session is stored under a key. Absence is
// an expected case: it marks the sender's first interaction.
var ErrNotFound = errors.New("session not found")

// SessionStore is the key-value cache holding per-sender sessions.
// Put overwrites the whole record; there are no partial updates.
type SessionStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (*domain.Session, error)
	Put(ctx context.Context, key string, session *domain.Session) error

	// Flush wipes every stored session. Operational tool only, never
	// called during request handling.
	Flush(ctx context.Context) error

	Close() error
}
