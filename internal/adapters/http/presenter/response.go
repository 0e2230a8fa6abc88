// Package presenter escreve as respostas JSON da API.
package presenter

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type RateLimitResponse struct {
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter"`
}

func JSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to write json response")
	}
}

func Message(w http.ResponseWriter, r *http.Request, msg string, status int) {
	JSON(w, r, MessageResponse{Message: msg}, status)
}

func InternalError(w http.ResponseWriter, r *http.Request) {
	Message(w, r, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
