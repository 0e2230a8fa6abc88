// Package redis disponibiliza a implementação do storage baseada em Redis,
// compartilhada entre instâncias da aplicação.
package redis

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type Storage struct {
	client *redis.Client
	now    func() time.Time
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) (*Storage, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewFromClient(client), nil
}

func NewFromClient(client *redis.Client) *Storage {
	return &Storage{client: client, now: time.Now}
}

func (s *Storage) Close() error {
	return s.client.Close()
}

// Counters devolve o storage de contadores do rate limiter.
func (s *Storage) Counters() *CounterStore {
	return &CounterStore{client: s.client, now: s.now}
}

// Tokens devolve o storage de tokens CSRF. Keys live for ttl+grace so an
// expired token is still found and reported as expired instead of unknown.
func (s *Storage) Tokens(ttl, grace time.Duration) *TokenStore {
	return &TokenStore{client: s.client, keyTTL: ttl + grace}
}
