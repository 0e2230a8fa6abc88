// Package router monta o pipeline HTTP: cabeçalhos de segurança, rate limiting,
// CSRF e por fim as rotas de negócio.
package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gurulost/FitnessForge/internal/adapters/http/cookie"
	"github.com/gurulost/FitnessForge/internal/adapters/http/handlers"
	"github.com/gurulost/FitnessForge/internal/adapters/http/middleware"
	"github.com/gurulost/FitnessForge/internal/core/ports"
)

type Deps struct {
	Limiter       ports.RateLimiter
	CSRF          ports.CSRFProtector
	Auth          ports.Authenticator
	CookieOptions cookie.Options

	Production        bool
	TrustProxyHeaders bool
	PublicHost        string

	// Mount registers business routes on the /api router, behind both protections.
	Mount func(api chi.Router)
}

// AuthPaths are checked against the stricter auth rate limit.
var AuthPaths = middleware.ExactPaths(LoginRoute, RegisterRoute)

// CSRFExemptPaths mutate state but cannot carry a token yet.
var CSRFExemptPaths = middleware.AnyOf(AuthPaths, middleware.PathPrefix(OAuthCallbackPrefix))

func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.SecurityHeaders)
	if d.Production {
		r.Use(middleware.NewHTTPSRedirect(d.PublicHost))
	}
	r.Use(middleware.CorrelationIDMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RecoverMiddleware)

	r.Get(HealthRoute, handlers.Health)

	r.Route(APIPrefix, func(api chi.Router) {
		api.Use(middleware.NewRateLimiterMiddleware(d.Limiter, middleware.RateLimiterOptions{
			TrustProxyHeaders: d.TrustProxyHeaders,
			AuthPath:          AuthPaths,
		}))
		api.Use(middleware.NewCSRFMiddleware(d.CSRF, CSRFExemptPaths))

		api.Get(relative(CSRFTokenRoute), handlers.CSRFToken(d.CSRF, d.CookieOptions))
		api.Get(relative(PingRoute), handlers.Ping)

		if d.Auth != nil {
			authHandler := handlers.NewAuthHandler(d.Auth)
			api.Post(relative(LoginRoute), authHandler.Login)
			api.Post(relative(RegisterRoute), authHandler.Register)
		}

		if d.Mount != nil {
			d.Mount(api)
		}
	})

	return r
}

func relative(route string) string {
	return strings.TrimPrefix(route, APIPrefix)
}
