package handlers

import (
	"net/http"

	"github.com/cyberport/seatrack/internal/core/domain"
	"github.com/cyberport/seatrack/internal/core/ports"
)

// VesselHandler serves the live vessel list.
type VesselHandler struct {
	Fleet ports.FleetService
}

func NewVesselHandler(fleet ports.FleetService) *VesselHandler {
	return &VesselHandler{Fleet: fleet}
}

// HandleVessels answers GET /api/vessels. An optional ?port= filter
// restricts the list to vessels nearest that reference point.
func (h *VesselHandler) HandleVessels(w http.ResponseWriter, r *http.Request) {
	vessels := h.Fleet.GetLiveVessels()

	if port := r.URL.Query().Get("port"); port != "" {
		filtered := make([]domain.VesselRecord, 0, len(vessels))
		for _, v := range vessels {
			if v.NearestPort == port {
				filtered = append(filtered, v)
			}
		}
		vessels = filtered
	}

	if vessels == nil {
		vessels = []domain.VesselRecord{}
	}
	writeJSON(w, vessels)
}
