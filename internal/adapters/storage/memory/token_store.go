package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gurulost/FitnessForge/internal/core/domain"
	"github.com/gurulost/FitnessForge/internal/core/ports"
)

// TokenStore guarda tokens CSRF em um map protegido por RWMutex.
//
// Records removed by the last sweep stay readable until the next one, so a
// client holding a swept token is told it expired instead of being unknown.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]domain.TokenRecord
	swept  map[string]domain.TokenRecord
	now    func() time.Time
}

var _ ports.TokenStorage = (*TokenStore)(nil)

func NewTokenStore(clock func() time.Time) *TokenStore {
	if clock == nil {
		clock = time.Now
	}
	return &TokenStore{
		tokens: make(map[string]domain.TokenRecord),
		swept:  make(map[string]domain.TokenRecord),
		now:    clock,
	}
}

func (s *TokenStore) Save(_ context.Context, record domain.TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[record.Token] = record
	return nil
}

func (s *TokenStore) Get(_ context.Context, token string) (domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if record, ok := s.tokens[token]; ok {
		return record, nil
	}
	if record, ok := s.swept[token]; ok {
		return record, nil
	}
	return domain.TokenRecord{}, domain.ErrTokenNotFound
}

func (s *TokenStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, token)
	delete(s.swept, token)
	return nil
}

func (s *TokenStore) MarkUsed(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.tokens[token]
	if !ok {
		return false, domain.ErrTokenNotFound
	}
	if record.Used {
		return false, nil
	}
	record.Used = true
	s.tokens[token] = record
	return true, nil
}

func (s *TokenStore) SweepExpired(_ context.Context, ttl time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	swept := make(map[string]domain.TokenRecord)
	for token, record := range s.tokens {
		if record.ExpiredAt(now, ttl) {
			swept[token] = record
			delete(s.tokens, token)
		}
	}
	s.swept = swept
	return len(swept), nil
}

// Len counts live tokens only.
func (s *TokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tokens)
}
