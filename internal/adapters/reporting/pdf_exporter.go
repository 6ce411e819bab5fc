// Package reporting renders operational snapshots to PDF.
package reporting

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/cyberport/seatrack/internal/core/domain"
)

// PDFExporter exports port activity reports to PDF format.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ExportPortActivity generates a PDF summarizing the fleet rollup and the
// per-port activity table.
func (e *PDFExporter) ExportPortActivity(stats domain.AggregatedStats, portStats map[string]domain.PortStats, refs []domain.ReferencePoint) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf, stats)
	e.addFleetSummary(pdf, stats)
	e.addPortTable(pdf, portStats, refs)
	e.addFooter(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, stats domain.AggregatedStats) {
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 14, "Port Activity Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Data source: %s (connection: %s)", stats.DataSource, stats.ConnectionStatus), "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

func (e *PDFExporter) addFleetSummary(pdf *gofpdf.Fpdf, stats domain.AggregatedStats) {
	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 9, "Fleet Summary", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	rows := []struct {
		label string
		value string
	}{
		{"Active vessels", fmt.Sprintf("%d", stats.ActiveVessels)},
		{"Ports with traffic", fmt.Sprintf("%d", stats.PortsOnline)},
		{"Vessels in alert state", fmt.Sprintf("%d", stats.Alerts)},
		{"Average ETA (hours)", fmt.Sprintf("%.1f", stats.AvgETAHours)},
	}
	for _, row := range rows {
		pdf.CellFormat(60, 7, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, row.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

func (e *PDFExporter) addPortTable(pdf *gofpdf.Fpdf, portStats map[string]domain.PortStats, refs []domain.ReferencePoint) {
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 9, "Port Activity", "", 1, "L", false, 0, "")

	headers := []string{"Port", "Active", "Incoming", "Outgoing", "Docked", "Alerts", "Capacity"}
	widths := []float64{46, 24, 24, 24, 24, 24, 24}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(0, 51, 102)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// Stable row order regardless of map iteration.
	ids := make([]string, 0, len(portStats))
	for id := range portStats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	names := make(map[string]string, len(refs))
	for _, p := range refs {
		names[p.ID] = p.Name
	}

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	for _, id := range ids {
		ps := portStats[id]
		name := ps.Name
		if name == "" {
			name = names[id]
		}
		pdf.SetFillColor(240, 244, 248)
		pdf.CellFormat(widths[0], 7, name, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", ps.ActiveVessels), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%d", ps.Incoming), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%d", ps.Outgoing), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[4], 7, fmt.Sprintf("%d", ps.Docked), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[5], 7, fmt.Sprintf("%d", ps.Alerts), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[6], 7, fmt.Sprintf("%d%%", ps.Capacity), "1", 1, "C", fill, 0, "")
		fill = !fill
	}
	pdf.Ln(6)
}

func (e *PDFExporter) addFooter(pdf *gofpdf.Fpdf) {
	pdf.SetY(-20)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 6, "Generated by seatrack", "", 1, "C", false, 0, "")
}
