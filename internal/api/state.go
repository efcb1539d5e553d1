package api

import (
	"net/http"

	"github.com/gaspardpetit/larchmock/internal/inflight"
	"github.com/gaspardpetit/larchmock/internal/serverstate"
)

// HealthHandler handles GET /health. It always answers JSON null so clients
// can probe liveness regardless of the server state.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, nil, "health")
	}
}

type stateResponse struct {
	serverstate.State
	Inflight int64 `json:"inflight"`
}

// StateHandler handles GET /state.
func StateHandler(tracker *inflight.Counter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := stateResponse{State: serverstate.Load()}
		if tracker != nil {
			resp.Inflight = tracker.Load()
		}
		writeJSON(w, http.StatusOK, resp, "state")
	}
}
