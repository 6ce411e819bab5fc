// Package server assembles the HTTP surface of the tracker.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/cyberport/seatrack/internal/adapters/reporting"
	"github.com/cyberport/seatrack/internal/adapters/web/handlers"
	"github.com/cyberport/seatrack/internal/adapters/web/middleware"
	"github.com/cyberport/seatrack/internal/adapters/web/websocket"
	"github.com/cyberport/seatrack/internal/core/ports"
	"github.com/cyberport/seatrack/internal/core/services/audit"
)

// Server handles HTTP and WebSocket connections.
type Server struct {
	Addr      string
	Fleet     ports.FleetService
	WSManager *websocket.WSManager

	StatsHandler  *handlers.StatsHandler
	VesselHandler *handlers.VesselHandler
	EventHandler  *handlers.EventHandler
	ReportHandler *handlers.ReportHandler

	reportLimiter *middleware.RateLimiter
	srv           *http.Server
}

// NewServer wires the handlers over the query services.
func NewServer(addr string, fleet ports.FleetService, auditSvc *audit.AuditService, exporter *reporting.PDFExporter) *Server {
	return &Server{
		Addr:          addr,
		Fleet:         fleet,
		WSManager:     websocket.NewWSManager(fleet),
		StatsHandler:  handlers.NewStatsHandler(fleet),
		VesselHandler: handlers.NewVesselHandler(fleet),
		EventHandler:  handlers.NewEventHandler(auditSvc),
		ReportHandler: handlers.NewReportHandler(fleet, exporter),
		// PDF rendering is the only expensive endpoint.
		reportLimiter: middleware.NewRateLimiter(5, 1*time.Minute),
	}
}

// Run starts the server and the stats broadcaster, blocking until the
// context ends or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	s.WSManager.Start(ctx)
	defer s.reportLimiter.Stop()

	handler := SetupRoutes(s)
	instrumentedHandler := otelhttp.NewHandler(handler, "seatrack-server")

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           instrumentedHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("web server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("web server shutdown error", "error", err)
		}
	}()

	slog.Info("web server listening", "addr", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
