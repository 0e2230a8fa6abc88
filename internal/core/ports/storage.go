// Package ports define contratos que conectam o domínio a implementações externas.
package ports

import (
	"context"
	"time"

	"github.com/gurulost/FitnessForge/internal/core/domain"
)

// CounterStorage guarda os contadores de janela fixa.
// Increment must be atomic per key: it either opens a new window
// (count 1, reset at now+window) or increments the current one.
type CounterStorage interface {
	Increment(ctx context.Context, key string, window time.Duration) (domain.Counter, error)
	SweepExpired(ctx context.Context) (int, error)
}

// TokenStorage guarda os tokens CSRF emitidos.
type TokenStorage interface {
	Save(ctx context.Context, record domain.TokenRecord) error
	// Get returns domain.ErrTokenNotFound when the token is unknown.
	Get(ctx context.Context, token string) (domain.TokenRecord, error)
	Delete(ctx context.Context, token string) error
	// MarkUsed flags the token as used and reports whether this call was the first to do so.
	MarkUsed(ctx context.Context, token string) (bool, error)
	// SweepExpired drops records older than ttl. A swept record should stay
	// readable through Get until the next sweep so it is rejected as expired.
	SweepExpired(ctx context.Context, ttl time.Duration) (int, error)
}
