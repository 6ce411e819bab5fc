package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cyberport/seatrack/internal/core/domain"
)

const (
	defaultStreamURL    = "wss://stream.aisstream.io/v0/stream"
	defaultSecondaryURL = "https://api.myshiptracking.com/v1/positions"
)

// Config holds all application configuration.
type Config struct {
	Addr string

	StreamURL string
	StreamKey string

	SecondaryURL string
	SecondaryKey string

	BBox  domain.BoundingBox
	Ports []domain.ReferencePoint

	DBPath   string
	MockMode bool
	Debug    bool
}

// Load parses command line flags and environment variables to populate
// Config. Flags take precedence over environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Addr = getEnv("SEATRACK_ADDR", ":8080")
	cfg.StreamURL = getEnv("SEATRACK_AIS_URL", defaultStreamURL)
	cfg.StreamKey = getEnv("SEATRACK_AIS_KEY", "")
	cfg.SecondaryURL = getEnv("SEATRACK_SECONDARY_URL", defaultSecondaryURL)
	cfg.SecondaryKey = getEnv("SEATRACK_SECONDARY_KEY", "")
	cfg.DBPath = getEnv("SEATRACK_DB", defaultDBPath())
	cfg.MockMode = getEnvBool("SEATRACK_MOCK", false)

	box := domain.DefaultBoundingBox()
	cfg.BBox.MinLat = getEnvFloat("SEATRACK_MIN_LAT", box.MinLat)
	cfg.BBox.MinLon = getEnvFloat("SEATRACK_MIN_LON", box.MinLon)
	cfg.BBox.MaxLat = getEnvFloat("SEATRACK_MAX_LAT", box.MaxLat)
	cfg.BBox.MaxLon = getEnvFloat("SEATRACK_MAX_LON", box.MaxLon)

	portsPath := getEnv("SEATRACK_PORTS", "")

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	flag.StringVar(&cfg.StreamURL, "ais-url", cfg.StreamURL, "AIS stream websocket URL")
	flag.StringVar(&cfg.StreamKey, "ais-key", cfg.StreamKey, "AIS stream API key (empty disables the primary feed)")
	flag.StringVar(&cfg.SecondaryURL, "secondary-url", cfg.SecondaryURL, "Secondary positions API URL")
	flag.StringVar(&cfg.SecondaryKey, "secondary-key", cfg.SecondaryKey, "Secondary positions API key (empty disables the reconciler)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to SQLite audit database (empty disables persistence)")
	flag.StringVar(&portsPath, "ports", portsPath, "Path to JSON file with reference ports (empty uses built-ins)")
	flag.BoolVar(&cfg.MockMode, "mock", cfg.MockMode, "Serve a synthetic feed instead of the live stream")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")
	flag.Float64Var(&cfg.BBox.MinLat, "min-lat", cfg.BBox.MinLat, "Bounding box south latitude")
	flag.Float64Var(&cfg.BBox.MinLon, "min-lon", cfg.BBox.MinLon, "Bounding box west longitude")
	flag.Float64Var(&cfg.BBox.MaxLat, "max-lat", cfg.BBox.MaxLat, "Bounding box north latitude")
	flag.Float64Var(&cfg.BBox.MaxLon, "max-lon", cfg.BBox.MaxLon, "Bounding box east longitude")

	flag.Parse()

	if cfg.BBox.MinLat >= cfg.BBox.MaxLat || cfg.BBox.MinLon >= cfg.BBox.MaxLon {
		return nil, fmt.Errorf("invalid bounding box: min must be south-west of max")
	}

	ports, err := loadPorts(portsPath)
	if err != nil {
		return nil, err
	}
	cfg.Ports = ports

	return cfg, nil
}

// loadPorts reads the reference set from a JSON file, falling back to the
// built-in Malaysian ports.
func loadPorts(path string) ([]domain.ReferencePoint, error) {
	if path == "" {
		return domain.DefaultPorts(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ports file: %w", err)
	}
	var ports []domain.ReferencePoint
	if err := json.Unmarshal(raw, &ports); err != nil {
		return nil, fmt.Errorf("parse ports file: %w", err)
	}
	if len(ports) == 0 {
		return nil, fmt.Errorf("ports file %s contains no entries", path)
	}
	for _, p := range ports {
		if p.ID == "" {
			return nil, fmt.Errorf("ports file %s: entry %q missing id", path, p.Name)
		}
	}
	return ports, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// defaultDBPath returns the audit database path in the user's home
// directory, creating the directory if needed.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("could not resolve home directory, using current dir", "error", err)
		return "seatrack.db"
	}
	dir := filepath.Join(home, ".seatrack")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Warn("could not create data directory, using current dir", "error", err)
		return "seatrack.db"
	}
	return filepath.Join(dir, "seatrack.db")
}
