package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrTokenMissing = errors.New("CSRF token missing")
	ErrTokenInvalid = errors.New("Invalid CSRF token")
	ErrTokenExpired = errors.New("CSRF token expired")
	ErrTokenUsed    = errors.New("CSRF token already used")

	ErrTokenNotFound = errors.New("token not found")
)

// RateLimitedError descreve uma rejeição do limiter.
type RateLimitedError struct {
	Rule       RateLimitRule
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: policy %q, retry after %s", ErrRateLimited, e.Rule.Name, e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}

// RetryAfterSeconds rounds up, so a client never retries before the window resets.
func (e *RateLimitedError) RetryAfterSeconds() int {
	return RetryAfterSeconds(e.RetryAfter)
}

func RetryAfterSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

func IsRateLimitedError(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsCSRFError reports whether err is one of the token rejection reasons.
func IsCSRFError(err error) bool {
	return errors.Is(err, ErrTokenMissing) ||
		errors.Is(err, ErrTokenInvalid) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenUsed)
}
