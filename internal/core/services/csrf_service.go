package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/gurulost/FitnessForge/internal/core/domain"
	"github.com/gurulost/FitnessForge/internal/core/ports"
)

// tokenByteLength gives 256 bits of entropy.
const tokenByteLength = 32

var randomRead = rand.Read

// CSRFConfig controla o ciclo de vida dos tokens.
type CSRFConfig struct {
	TTL time.Duration
	// SingleUse rejects a token after its first successful validation.
	SingleUse bool
	Clock     func() time.Time
}

// CSRFService emite e valida tokens CSRF.
type CSRFService struct {
	storage ports.TokenStorage
	config  CSRFConfig
}

var _ ports.CSRFProtector = (*CSRFService)(nil)

func NewCSRFService(storage ports.TokenStorage, cfg CSRFConfig) (*CSRFService, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &CSRFService{storage: storage, config: cfg}, nil
}

func (s *CSRFService) TTL() time.Duration {
	return s.config.TTL
}

// Issue gera um token novo e o registra no storage.
func (s *CSRFService) Issue(ctx context.Context) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	record := domain.TokenRecord{Token: token, CreatedAt: s.config.Clock()}
	if err := s.storage.Save(ctx, record); err != nil {
		return "", fmt.Errorf("saving token: %w", err)
	}
	return token, nil
}

// Validate checks a token echoed back by the client. Rejections are one of the
// domain CSRF errors; any other error comes from the storage.
func (s *CSRFService) Validate(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrTokenMissing
	}

	record, err := s.storage.Get(ctx, token)
	if errors.Is(err, domain.ErrTokenNotFound) {
		return domain.ErrTokenInvalid
	}
	if err != nil {
		return fmt.Errorf("loading token: %w", err)
	}

	if record.ExpiredAt(s.config.Clock(), s.config.TTL) {
		if err := s.storage.Delete(ctx, token); err != nil {
			return fmt.Errorf("deleting expired token: %w", err)
		}
		return domain.ErrTokenExpired
	}

	if !s.config.SingleUse {
		return nil
	}

	first, err := s.storage.MarkUsed(ctx, token)
	if errors.Is(err, domain.ErrTokenNotFound) {
		// swept between Get and MarkUsed
		return domain.ErrTokenExpired
	}
	if err != nil {
		return fmt.Errorf("marking token used: %w", err)
	}
	if !first {
		return domain.ErrTokenUsed
	}
	return nil
}

// Sweep remove todos os tokens mais antigos que o TTL.
func (s *CSRFService) Sweep(ctx context.Context) (int, error) {
	return s.storage.SweepExpired(ctx, s.config.TTL)
}

func generateToken() (string, error) {
	randomBytes := make([]byte, tokenByteLength)
	if _, err := randomRead(randomBytes); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(randomBytes), nil
}
