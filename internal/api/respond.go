package api

import (
	"encoding/json"
	"net/http"

	"github.com/gaspardpetit/larchmock/internal/logx"
)

func writeJSON(w http.ResponseWriter, status int, v any, what string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Log.Error().Err(err).Msg("encode " + what)
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code}, code)
}
