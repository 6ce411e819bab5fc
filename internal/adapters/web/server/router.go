package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cyberport/seatrack/internal/adapters/web/middleware"
)

// SetupRoutes builds the router. Every data endpoint is a plain GET: the
// tracker has no mutating API surface.
func SetupRoutes(s *Server) http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stats", s.StatsHandler.HandleAggregated).Methods(http.MethodGet)
	api.HandleFunc("/ports", s.StatsHandler.HandlePorts).Methods(http.MethodGet)
	api.HandleFunc("/ports/{id}", s.StatsHandler.HandlePort).Methods(http.MethodGet)
	api.HandleFunc("/vessels", s.VesselHandler.HandleVessels).Methods(http.MethodGet)
	api.HandleFunc("/events", s.EventHandler.HandleEvents).Methods(http.MethodGet)
	api.Handle("/reports/ports.pdf",
		middleware.RateLimitMiddleware(s.reportLimiter)(http.HandlerFunc(s.ReportHandler.HandlePortActivityPDF))).
		Methods(http.MethodGet)

	r.HandleFunc("/ws", s.WSManager.HandleWebSocket)
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}
