package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/gurulost/FitnessForge/internal/core/domain"
	"github.com/gurulost/FitnessForge/internal/core/ports"
)

const (
	tokenKeyPrefix = "csrf:token:"

	fieldCreatedAt = "created_at"
	fieldUsed      = "used"
)

var markUsedScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
return redis.call('HINCRBY', KEYS[1], 'used', 1)
`)

type TokenStore struct {
	client *redis.Client
	keyTTL time.Duration
}

var _ ports.TokenStorage = (*TokenStore)(nil)

func (s *TokenStore) Save(ctx context.Context, record domain.TokenRecord) error {
	key := tokenKeyPrefix + record.Token
	used := 0
	if record.Used {
		used = 1
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, fieldCreatedAt, record.CreatedAt.UnixMilli(), fieldUsed, used)
	pipe.PExpire(ctx, key, s.keyTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *TokenStore) Get(ctx context.Context, token string) (domain.TokenRecord, error) {
	values, err := s.client.HGetAll(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		return domain.TokenRecord{}, err
	}
	if len(values) == 0 {
		return domain.TokenRecord{}, domain.ErrTokenNotFound
	}

	createdAtMillis, err := strconv.ParseInt(values[fieldCreatedAt], 10, 64)
	if err != nil {
		return domain.TokenRecord{}, fmt.Errorf("invalid %s for token: %w", fieldCreatedAt, err)
	}
	used, _ := strconv.Atoi(values[fieldUsed])

	return domain.TokenRecord{
		Token:     token,
		CreatedAt: time.UnixMilli(createdAtMillis),
		Used:      used > 0,
	}, nil
}

func (s *TokenStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, tokenKeyPrefix+token).Err()
}

func (s *TokenStore) MarkUsed(ctx context.Context, token string) (bool, error) {
	result, err := markUsedScript.Run(ctx, s.client, []string{tokenKeyPrefix + token}).Int64()
	if err != nil {
		return false, err
	}
	if result < 0 {
		return false, domain.ErrTokenNotFound
	}
	return result == 1, nil
}

// SweepExpired is a no-op: keys carry their own expiry.
func (s *TokenStore) SweepExpired(_ context.Context, _ time.Duration) (int, error) {
	return 0, nil
}
