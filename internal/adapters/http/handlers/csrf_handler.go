// Package handlers agrupa os handlers HTTP expostos pela aplicação.
package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gurulost/FitnessForge/internal/adapters/http/cookie"
	"github.com/gurulost/FitnessForge/internal/adapters/http/middleware"
	"github.com/gurulost/FitnessForge/internal/adapters/http/presenter"
	"github.com/gurulost/FitnessForge/internal/core/ports"
)

type CSRFTokenResponse struct {
	CSRFToken string `json:"csrfToken"`
}

// CSRFCookieOptions builds the XSRF-TOKEN cookie options: readable by script,
// SameSite=Lax and Secure only in production.
func CSRFCookieOptions(production bool, maxAge time.Duration) cookie.Options {
	return cookie.Options{
		HTTPOnly: false,
		Secure:   production,
		SameSite: cookie.SameSiteLax,
		MaxAge:   maxAge,
		Path:     "/",
	}
}

// CSRFToken emite um token novo, grava o cookie XSRF-TOKEN e devolve o token no corpo.
func CSRFToken(protector ports.CSRFProtector, opts cookie.Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := protector.Issue(r.Context())
		if err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("failed to issue csrf token")
			presenter.InternalError(w, r)
			return
		}

		cookie.Set(w, middleware.CSRFCookieName, token, opts)
		presenter.JSON(w, r, CSRFTokenResponse{CSRFToken: token}, http.StatusOK)
	}
}
