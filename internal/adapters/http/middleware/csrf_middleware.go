package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gurulost/FitnessForge/internal/adapters/http/presenter"
	"github.com/gurulost/FitnessForge/internal/core/domain"
	"github.com/gurulost/FitnessForge/internal/core/ports"
)

const (
	CSRFCookieName = "XSRF-TOKEN"
	CSRFHeaderName = "X-XSRF-TOKEN"
)

// NewCSRFMiddleware rejects mutating requests that do not echo a valid token
// in the X-XSRF-TOKEN header. Safe methods and exempt paths pass through.
func NewCSRFMiddleware(protector ports.CSRFProtector, exempt PathMatcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) || (exempt != nil && exempt(r.URL.Path)) {
				next.ServeHTTP(w, r)
				return
			}

			err := protector.Validate(r.Context(), r.Header.Get(CSRFHeaderName))
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}

			if domain.IsCSRFError(err) {
				log.Ctx(r.Context()).Debug().Str("reason", err.Error()).Msg("csrf.rejected")
				presenter.Message(w, r, err.Error(), http.StatusForbidden)
				return
			}

			log.Ctx(r.Context()).Error().Err(err).Msg("csrf validation failed")
			presenter.InternalError(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
