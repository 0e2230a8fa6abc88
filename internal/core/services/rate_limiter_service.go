package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gurulost/FitnessForge/internal/core/domain"
	"github.com/gurulost/FitnessForge/internal/core/ports"
)

const authKeyPrefix = "auth_"

// Config agrega os limites utilizados pelo serviço de rate limiting.
type Config struct {
	APIRule  domain.RateLimitRule
	AuthRule domain.RateLimitRule
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// RateLimiterService implementa a lógica central de rate limiting.
type RateLimiterService struct {
	storage ports.CounterStorage
	config  Config
}

var _ ports.RateLimiter = (*RateLimiterService)(nil)

// NewRateLimiterService cria uma nova instância do serviço.
func NewRateLimiterService(storage ports.CounterStorage, cfg Config) (*RateLimiterService, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if !cfg.APIRule.Valid() {
		return nil, fmt.Errorf("api rule must have positive values")
	}
	if !cfg.AuthRule.Valid() {
		return nil, fmt.Errorf("auth rule must have positive values")
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &RateLimiterService{storage: storage, config: cfg}, nil
}

// Allow avalia se a requisição pode prosseguir. Requisições de autenticação passam
// primeiro pela regra de auth e depois pela regra geral.
func (s *RateLimiterService) Allow(ctx context.Context, req domain.RateLimitRequest) (domain.Decision, error) {
	ip := strings.TrimSpace(req.IP)
	if ip == "" {
		return domain.Decision{}, fmt.Errorf("ip address is required")
	}

	if req.Auth {
		decision, err := s.check(ctx, authKeyPrefix+ip, s.config.AuthRule)
		if err != nil || !decision.Allowed {
			return decision, err
		}
	}

	return s.check(ctx, ip, s.config.APIRule)
}

func (s *RateLimiterService) check(ctx context.Context, key string, rule domain.RateLimitRule) (domain.Decision, error) {
	counter, err := s.storage.Increment(ctx, key, rule.Window)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("incrementing counter %q: %w", key, err)
	}

	decision := domain.Decision{
		Allowed:      true,
		Identifier:   key,
		AppliedRule:  rule,
		CurrentCount: counter.Count,
		ResetTime:    counter.ResetTime,
	}
	if counter.Count <= int64(rule.Requests) {
		return decision, nil
	}

	retryAfter := counter.ResetTime.Sub(s.config.Clock())
	if retryAfter < 0 {
		retryAfter = 0
	}
	decision.Allowed = false
	decision.RetryAfter = retryAfter
	return decision, &domain.RateLimitedError{Rule: rule, RetryAfter: retryAfter}
}
