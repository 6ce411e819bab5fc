// Package handlers contains the HTTP endpoints of the dashboard API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cyberport/seatrack/internal/core/ports"
)

// StatsHandler serves the aggregated and per-port rollups.
type StatsHandler struct {
	Fleet ports.FleetService
}

func NewStatsHandler(fleet ports.FleetService) *StatsHandler {
	return &StatsHandler{Fleet: fleet}
}

// HandleAggregated answers GET /api/stats. The payload is always a fully
// populated shape: an unavailable backend shows up in connectionStatus,
// never as an HTTP error.
func (h *StatsHandler) HandleAggregated(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Fleet.GetAggregatedStats())
}

// HandlePorts answers GET /api/ports with every configured port.
func (h *StatsHandler) HandlePorts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Fleet.GetPortStats())
}

// HandlePort answers GET /api/ports/{id}.
func (h *StatsHandler) HandlePort(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	stats, ok := h.Fleet.GetPortStats()[id]
	if !ok {
		http.Error(w, "Unknown port", http.StatusNotFound)
		return
	}
	writeJSON(w, stats)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
