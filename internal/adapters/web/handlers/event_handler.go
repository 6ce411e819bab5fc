package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cyberport/seatrack/internal/core/domain"
	"github.com/cyberport/seatrack/internal/core/services/audit"
)

const defaultEventLimit = 50

// EventHandler serves the connection audit trail.
type EventHandler struct {
	Audit *audit.AuditService
}

func NewEventHandler(svc *audit.AuditService) *EventHandler {
	return &EventHandler{Audit: svc}
}

// HandleEvents answers GET /api/events?limit=N.
func (h *EventHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	events, err := h.Audit.RecentEvents(r.Context(), limit)
	if err != nil {
		slog.Error("failed to load events", "error", err)
		http.Error(w, "Failed to load events", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []domain.ConnectionEvent{}
	}
	writeJSON(w, events)
}
