// Package middleware disponibiliza middlewares HTTP específicos da aplicação.
package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/gurulost/FitnessForge/internal/adapters/http/presenter"
	"github.com/gurulost/FitnessForge/internal/core/domain"
	"github.com/gurulost/FitnessForge/internal/core/ports"
)

const rateLimitExceededMessage = "Too many requests, please try again later."

type RateLimiterOptions struct {
	TrustProxyHeaders bool
	// AuthPath selects the requests that are checked against the auth policy first.
	AuthPath PathMatcher
}

func NewRateLimiterMiddleware(limiter ports.RateLimiter, opts RateLimiterOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			req := domain.RateLimitRequest{
				IP:   ClientIP(r, opts.TrustProxyHeaders),
				Auth: opts.AuthPath != nil && opts.AuthPath(r.URL.Path),
			}

			decision, err := limiter.Allow(r.Context(), req)
			if err != nil {
				var limited *domain.RateLimitedError
				if errors.As(err, &limited) {
					writeTooManyRequests(w, r, limited.Rule.Message, limited.RetryAfterSeconds(), decision.Identifier)
					return
				}

				log.Ctx(r.Context()).Error().Err(err).Msg("rate limiter failed")
				presenter.InternalError(w, r)
				return
			}

			if !decision.Allowed {
				writeTooManyRequests(w, r, decision.AppliedRule.Message, domain.RetryAfterSeconds(decision.RetryAfter), decision.Identifier)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeTooManyRequests(w http.ResponseWriter, r *http.Request, message string, retryAfter int, identifier string) {
	if message == "" {
		message = rateLimitExceededMessage
	}

	log.Ctx(r.Context()).Debug().
		Str("identifier", identifier).
		Int("retry_after", retryAfter).
		Msg("ratelimit.rejected")

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	presenter.JSON(w, r, presenter.RateLimitResponse{Message: message, RetryAfter: retryAfter}, http.StatusTooManyRequests)
}
