// Package app wires the adapters and core services together and manages
// their lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cyberport/seatrack/internal/adapters/aisstream"
	"github.com/cyberport/seatrack/internal/adapters/reporting"
	"github.com/cyberport/seatrack/internal/adapters/secondary"
	"github.com/cyberport/seatrack/internal/adapters/storage"
	webserver "github.com/cyberport/seatrack/internal/adapters/web/server"
	"github.com/cyberport/seatrack/internal/config"
	"github.com/cyberport/seatrack/internal/core/domain"
	"github.com/cyberport/seatrack/internal/core/services/audit"
	"github.com/cyberport/seatrack/internal/core/services/fleet"
	"github.com/cyberport/seatrack/internal/core/services/registry"
	"github.com/cyberport/seatrack/internal/mock"
	"github.com/cyberport/seatrack/internal/telemetry"
)

const evictionInterval = 1 * time.Minute

// Application holds the core components of the tracker and acts as the
// composition root.
type Application struct {
	Config       *config.Config
	Registry     *registry.VesselRegistry
	FleetService *fleet.FleetService
	AuditService *audit.AuditService
	WebServer    *webserver.Server

	StreamClient    *aisstream.Client
	SecondaryClient *secondary.Client
	MockServer      *mock.StreamServer

	store *storage.SQLiteAdapter
}

// New creates an Application and bootstraps its components.
func New(cfg *config.Config) (*Application, error) {
	app := &Application{Config: cfg}
	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}
	return app, nil
}

func (app *Application) bootstrap() error {
	telemetry.InitMetrics()

	if err := app.initStorage(); err != nil {
		return err
	}
	// A typed nil adapter must not reach the interface, or the nil-repo
	// guard in the audit service stops working.
	if app.store != nil {
		app.AuditService = audit.NewAuditService(app.store)
	} else {
		app.AuditService = audit.NewAuditService(nil)
	}

	app.Registry = registry.New()
	app.FleetService = fleet.NewFleetService(app.Registry, app.Config.Ports, domain.DefaultClassifierPolicy())

	if err := app.initIngest(); err != nil {
		return err
	}

	app.WebServer = webserver.NewServer(app.Config.Addr, app.FleetService, app.AuditService, reporting.NewPDFExporter())
	return nil
}

func (app *Application) initStorage() error {
	if app.Config.DBPath == "" {
		slog.Info("audit persistence disabled")
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(app.Config.DBPath), 0o755); err != nil {
		return fmt.Errorf("failed to create DB directory: %w", err)
	}
	store, err := storage.NewSQLiteAdapter(app.Config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to init audit storage: %w", err)
	}
	app.store = store
	return nil
}

// initIngest decides which upstreams feed the registry. With no key and no
// mock flag the tracker still serves, reporting an unavailable connection.
func (app *Application) initIngest() error {
	streamURL := app.Config.StreamURL
	streamKey := app.Config.StreamKey

	if app.Config.MockMode {
		gen := mock.NewDataGenerator(app.Config.Ports, app.Config.BBox, 40)
		app.MockServer = mock.NewStreamServer(gen, 100*time.Millisecond)
		url, err := app.MockServer.Start()
		if err != nil {
			return fmt.Errorf("failed to start mock stream: %w", err)
		}
		streamURL = url
		streamKey = "mock"
		app.FleetService.SetDataSource("synthetic", false)
		slog.Info("mock mode active, serving synthetic traffic")
	} else if streamKey != "" {
		app.FleetService.SetDataSource("ais-stream", true)
	}

	if streamKey != "" {
		normalizer := aisstream.NewNormalizer(app.Registry, app.Config.Ports)
		app.StreamClient = aisstream.NewClient(streamURL, streamKey, app.Config.BBox, normalizer,
			func(eventType, detail string) {
				app.AuditService.Record(context.Background(), domain.SourceStream, eventType, detail)
			})
		app.FleetService.SetStreamStatus(app.StreamClient)
	} else {
		slog.Warn("no stream API key configured, primary feed disabled")
	}

	// Like the primary feed, the reconciler is gated on its API key; a
	// configured URL alone does not enable polling.
	if app.Config.SecondaryKey != "" && app.Config.SecondaryURL != "" && !app.Config.MockMode {
		app.SecondaryClient = secondary.NewClient(
			app.Config.SecondaryURL, app.Config.SecondaryKey, app.Config.BBox,
			app.Registry, app.Config.Ports,
			func(eventType, detail string) {
				app.AuditService.Record(context.Background(), domain.SourceSecondary, eventType, detail)
			})
		app.FleetService.SetSecondaryStatus(app.SecondaryClient)
		if app.StreamClient == nil {
			app.FleetService.SetDataSource("secondary", true)
		}
	} else if !app.Config.MockMode {
		slog.Info("no secondary API key configured, reconciler disabled")
	}

	return nil
}

// Run starts the application components and blocks until shutdown.
func (app *Application) Run(ctx context.Context) error {
	slog.Info("starting tracker components")

	app.FleetService.StartEvictionLoop(ctx, fleet.DefaultStaleAfter, evictionInterval)

	if app.StreamClient != nil {
		app.StreamClient.Connect(ctx)
	}
	if app.SecondaryClient != nil {
		app.SecondaryClient.Start(ctx)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := app.WebServer.Run(ctx); err != nil {
			errChan <- fmt.Errorf("web server error: %w", err)
		}
	}()

	slog.Info("tracker ready", "addr", app.Config.Addr)

	select {
	case <-ctx.Done():
		slog.Info("termination signal received")
	case err := <-errChan:
		app.cleanup()
		return err
	}

	return app.cleanup()
}

func (app *Application) cleanup() error {
	if app.StreamClient != nil {
		app.StreamClient.Disconnect()
	}
	if app.MockServer != nil {
		app.MockServer.Stop()
	}
	if app.store != nil {
		if err := app.store.Close(); err != nil {
			slog.Error("failed to close audit storage", "error", err)
		}
	}
	return nil
}
