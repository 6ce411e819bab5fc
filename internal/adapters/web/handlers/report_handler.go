package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cyberport/seatrack/internal/adapters/reporting"
	"github.com/cyberport/seatrack/internal/core/ports"
)

// ReportHandler renders the port activity report.
type ReportHandler struct {
	Fleet       ports.FleetService
	PDFExporter *reporting.PDFExporter
}

func NewReportHandler(fleet ports.FleetService, exporter *reporting.PDFExporter) *ReportHandler {
	return &ReportHandler{Fleet: fleet, PDFExporter: exporter}
}

// HandlePortActivityPDF answers GET /api/reports/ports.pdf with a rendered
// snapshot of the current rollups.
func (h *ReportHandler) HandlePortActivityPDF(w http.ResponseWriter, r *http.Request) {
	out, err := h.PDFExporter.ExportPortActivity(
		h.Fleet.GetAggregatedStats(),
		h.Fleet.GetPortStats(),
		h.Fleet.ReferencePoints(),
	)
	if err != nil {
		slog.Error("report generation failed", "error", err)
		http.Error(w, "Failed to generate report", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("port-activity-%s.pdf", time.Now().UTC().Format("20060102-1504"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(out)
}
