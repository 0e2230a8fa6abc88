package handlers

import (
	"net/http"

	"github.com/gurulost/FitnessForge/internal/adapters/http/presenter"
)

func Health(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, map[string]string{"status": "ok"}, http.StatusOK)
}

// Ping responde com uma mensagem simples para verificar o pipeline de segurança.
func Ping(w http.ResponseWriter, r *http.Request) {
	presenter.Message(w, r, "Request successful", http.StatusOK)
}
