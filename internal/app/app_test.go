package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberport/seatrack/internal/config"
	"github.com/cyberport/seatrack/internal/core/domain"
)

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Addr:   ":0",
		BBox:   domain.DefaultBoundingBox(),
		Ports:  domain.DefaultPorts(),
		DBPath: filepath.Join(t.TempDir(), "audit.db"),
	}
}

func TestNewWithoutIngest(t *testing.T) {
	application, err := New(baseConfig(t))
	require.NoError(t, err)
	defer application.cleanup()

	assert.Nil(t, application.StreamClient)
	assert.Nil(t, application.SecondaryClient)

	stats := application.FleetService.GetAggregatedStats()
	assert.Equal(t, domain.ConnStatusUnavailable, stats.ConnectionStatus)
	assert.Equal(t, "none", stats.DataSource)
	assert.False(t, stats.IsRealData)
}

func TestNewMockMode(t *testing.T) {
	cfg := baseConfig(t)
	cfg.MockMode = true

	application, err := New(cfg)
	require.NoError(t, err)
	defer application.cleanup()

	require.NotNil(t, application.MockServer)
	require.NotNil(t, application.StreamClient)

	stats := application.FleetService.GetAggregatedStats()
	assert.Equal(t, "synthetic", stats.DataSource)
	assert.False(t, stats.IsRealData)
}

func TestNewWithStreamKey(t *testing.T) {
	cfg := baseConfig(t)
	cfg.StreamURL = "wss://stream.example/v0/stream"
	cfg.StreamKey = "sk-test"
	cfg.SecondaryURL = "https://positions.example/api"
	cfg.SecondaryKey = "sk-secondary"

	application, err := New(cfg)
	require.NoError(t, err)
	defer application.cleanup()

	require.NotNil(t, application.StreamClient)
	require.NotNil(t, application.SecondaryClient)

	stats := application.FleetService.GetAggregatedStats()
	assert.Equal(t, "ais-stream", stats.DataSource)
	assert.True(t, stats.IsRealData)
	// Nothing has connected yet.
	assert.Equal(t, domain.ConnStatusDisconnected, stats.ConnectionStatus)
}

func TestSecondaryDisabledWithoutKey(t *testing.T) {
	cfg := baseConfig(t)
	cfg.StreamURL = "wss://stream.example/v0/stream"
	cfg.StreamKey = "sk-test"
	cfg.SecondaryURL = "https://positions.example/api"

	application, err := New(cfg)
	require.NoError(t, err)
	defer application.cleanup()

	assert.Nil(t, application.SecondaryClient, "a keyless secondary source must stay disabled")
}

func TestNewWithoutPersistence(t *testing.T) {
	cfg := baseConfig(t)
	cfg.DBPath = ""

	application, err := New(cfg)
	require.NoError(t, err)
	defer application.cleanup()

	events, err := application.AuditService.RecentEvents(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}
