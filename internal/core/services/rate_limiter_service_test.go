package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gurulost/FitnessForge/internal/core/domain"
)

var (
	testAPIRule = domain.RateLimitRule{
		Name:     "api",
		Requests: 100,
		Window:   15 * time.Minute,
	}
	testAuthRule = domain.RateLimitRule{
		Name:     "auth",
		Requests: 5,
		Window:   15 * time.Minute,
	}
)

func TestRateLimiter_AllowsUpToMax(t *testing.T) {
	clock := newFakeClock()
	storage := newMockCounterStorage(clock)
	service := newTestLimiter(t, storage, Config{
		APIRule:  domain.RateLimitRule{Name: "api", Requests: 3, Window: time.Minute},
		AuthRule: testAuthRule,
		Clock:    clock.Now,
	})

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		decision, err := service.Allow(ctx, domain.RateLimitRequest{IP: "192.168.1.1"})
		if err != nil {
			t.Fatalf("unexpected error at attempt %d: %v", i+1, err)
		}
		if !decision.Allowed {
			t.Fatalf("expected request %d to be allowed", i+1)
		}
	}
}

func TestRateLimiter_RejectsMaxPlusOne(t *testing.T) {
	clock := newFakeClock()
	storage := newMockCounterStorage(clock)
	service := newTestLimiter(t, storage, Config{
		APIRule:  testAPIRule,
		AuthRule: testAuthRule,
		Clock:    clock.Now,
	})

	ctx := context.Background()

	for i := 0; i < testAPIRule.Requests; i++ {
		if _, err := service.Allow(ctx, domain.RateLimitRequest{IP: "10.0.0.1"}); err != nil {
			t.Fatalf("unexpected error on request %d: %v", i+1, err)
		}
	}

	clock.Advance(time.Minute)
	decision, err := service.Allow(ctx, domain.RateLimitRequest{IP: "10.0.0.1"})
	if !domain.IsRateLimitedError(err) {
		t.Fatalf("expected rate limited error, got decision=%+v err=%v", decision, err)
	}
	if decision.Allowed {
		t.Fatalf("expected decision.Allowed=false after exceeding limit")
	}

	var limited *domain.RateLimitedError
	if !errors.As(err, &limited) {
		t.Fatalf("expected *RateLimitedError, got %T", err)
	}
	if got := limited.RetryAfterSeconds(); got != 14*60 {
		t.Fatalf("expected retryAfter of 840s, got %d", got)
	}
	if limited.RetryAfter > testAPIRule.Window {
		t.Fatalf("retryAfter %v exceeds the window", limited.RetryAfter)
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	clock := newFakeClock()
	storage := newMockCounterStorage(clock)
	service := newTestLimiter(t, storage, Config{
		APIRule:  domain.RateLimitRule{Name: "api", Requests: 1, Window: time.Minute},
		AuthRule: testAuthRule,
		Clock:    clock.Now,
	})

	ctx := context.Background()
	req := domain.RateLimitRequest{IP: "203.0.113.10"}

	if _, err := service.Allow(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Allow(ctx, req); !domain.IsRateLimitedError(err) {
		t.Fatalf("expected second request to be limited, got %v", err)
	}

	clock.Advance(time.Minute + time.Second)

	decision, err := service.Allow(ctx, req)
	if err != nil || !decision.Allowed {
		t.Fatalf("expected new window to allow, decision=%+v err=%v", decision, err)
	}
	if decision.CurrentCount != 1 {
		t.Fatalf("expected count to restart at 1, got %d", decision.CurrentCount)
	}
}

func TestRateLimiter_AuthRuleIsStricter(t *testing.T) {
	clock := newFakeClock()
	storage := newMockCounterStorage(clock)
	service := newTestLimiter(t, storage, Config{
		APIRule:  testAPIRule,
		AuthRule: testAuthRule,
		Clock:    clock.Now,
	})

	ctx := context.Background()
	req := domain.RateLimitRequest{IP: "198.51.100.5", Auth: true}

	for i := 0; i < testAuthRule.Requests; i++ {
		if decision, err := service.Allow(ctx, req); err != nil || !decision.Allowed {
			t.Fatalf("expected auth request %d to be allowed, decision=%+v err=%v", i+1, decision, err)
		}
	}

	decision, err := service.Allow(ctx, req)
	if !domain.IsRateLimitedError(err) {
		t.Fatalf("expected sixth auth request to be limited, got %v", err)
	}
	if decision.AppliedRule.Name != "auth" {
		t.Fatalf("expected auth rule to reject, got %q", decision.AppliedRule.Name)
	}
	if decision.Identifier != "auth_198.51.100.5" {
		t.Fatalf("unexpected identifier %q", decision.Identifier)
	}

	// the general policy for the same IP is still open
	if decision, err := service.Allow(ctx, domain.RateLimitRequest{IP: "198.51.100.5"}); err != nil || !decision.Allowed {
		t.Fatalf("expected general request to be allowed, decision=%+v err=%v", decision, err)
	}
}

func TestRateLimiter_RequiresIP(t *testing.T) {
	service := newTestLimiter(t, newMockCounterStorage(newFakeClock()), Config{
		APIRule:  testAPIRule,
		AuthRule: testAuthRule,
	})

	if _, err := service.Allow(context.Background(), domain.RateLimitRequest{IP: "  "}); err == nil {
		t.Fatalf("expected error for empty ip")
	}
}

func TestRateLimiter_StorageFailure(t *testing.T) {
	clock := newFakeClock()
	storage := newMockCounterStorage(clock)
	storage.err = errors.New("connection refused")
	service := newTestLimiter(t, storage, Config{
		APIRule:  testAPIRule,
		AuthRule: testAuthRule,
	})

	_, err := service.Allow(context.Background(), domain.RateLimitRequest{IP: "10.0.0.9"})
	if err == nil || domain.IsRateLimitedError(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestNewRateLimiterService_Validation(t *testing.T) {
	storage := newMockCounterStorage(newFakeClock())

	tests := []struct {
		name    string
		storage *mockCounterStorage
		cfg     Config
	}{
		{name: "nil storage", storage: nil, cfg: Config{APIRule: testAPIRule, AuthRule: testAuthRule}},
		{name: "empty api rule", storage: storage, cfg: Config{AuthRule: testAuthRule}},
		{name: "empty auth rule", storage: storage, cfg: Config{APIRule: testAPIRule}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.storage == nil {
				_, err = NewRateLimiterService(nil, tt.cfg)
			} else {
				_, err = NewRateLimiterService(tt.storage, tt.cfg)
			}
			if err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

// newTestLimiter is a helper that fails the test immediately if creation fails.
func newTestLimiter(t *testing.T, storage *mockCounterStorage, cfg Config) *RateLimiterService {
	t.Helper()
	service, err := NewRateLimiterService(storage, cfg)
	if err != nil {
		t.Fatalf("failed to create rate limiter service: %v", err)
	}
	return service
}

type mockCounterStorage struct {
	clock    *fakeClock
	counters map[string]domain.Counter
	err      error
}

func newMockCounterStorage(clock *fakeClock) *mockCounterStorage {
	return &mockCounterStorage{
		clock:    clock,
		counters: make(map[string]domain.Counter),
	}
}

func (m *mockCounterStorage) Increment(_ context.Context, key string, window time.Duration) (domain.Counter, error) {
	if m.err != nil {
		return domain.Counter{}, m.err
	}
	now := m.clock.Now()
	counter, ok := m.counters[key]
	if !ok || now.After(counter.ResetTime) {
		counter = domain.Counter{Count: 1, ResetTime: now.Add(window)}
	} else {
		counter.Count++
	}
	m.counters[key] = counter
	return counter, nil
}

func (m *mockCounterStorage) SweepExpired(_ context.Context) (int, error) {
	return 0, nil
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
