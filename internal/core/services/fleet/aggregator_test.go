package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberport/seatrack/internal/core/domain"
)

var (
	testPorts  = domain.DefaultPorts()
	testPolicy = domain.DefaultClassifierPolicy()
)

func positioned(mmsi, nearest string, status int, speed float64) domain.VesselRecord {
	return domain.VesselRecord{
		MMSI:        mmsi,
		HasPosition: true,
		NearestPort: nearest,
		NavStatus:   status,
		Speed:       speed,
		LastUpdate:  time.Now(),
	}
}

func TestComputeAggregatedStatsEmptySnapshot(t *testing.T) {
	stats := ComputeAggregatedStats(nil, testPorts, testPolicy, false, false, time.Now())

	assert.Equal(t, 0, stats.ActiveVessels)
	assert.Equal(t, 0, stats.PortsOnline)
	assert.Equal(t, 0, stats.Alerts)
	assert.Equal(t, 0.0, stats.AvgETAHours)
	assert.Equal(t, domain.ConnStatusDisconnected, stats.ConnectionStatus)
}

func TestComputeAggregatedStatsCounts(t *testing.T) {
	now := time.Now()
	vessels := []domain.VesselRecord{
		positioned("1", "labuan", domain.StatusUnderWayEngine, 10),
		positioned("2", "labuan", domain.StatusMoored, 0),
		positioned("3", "penang", domain.StatusAground, 0),
		positioned("4", "kuching", domain.StatusAISSART, 2),
		{MMSI: "5", Name: "No Fix"}, // no position, excluded from derivations
	}

	stats := ComputeAggregatedStats(vessels, testPorts, testPolicy, true, false, now)

	assert.Equal(t, 5, stats.ActiveVessels)
	assert.Equal(t, 3, stats.PortsOnline)
	assert.Equal(t, 2, stats.Alerts)
	assert.Equal(t, domain.ConnStatusConnected, stats.ConnectionStatus)
}

func TestComputeAggregatedStatsAvgETA(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	inbound := func(mmsi, eta string) domain.VesselRecord {
		v := positioned(mmsi, "labuan", domain.StatusUnderWayEngine, 12)
		v.ETA = eta
		return v
	}

	vessels := []domain.VesselRecord{
		inbound("1", now.Add(4*time.Hour).Format(time.RFC3339)),
		inbound("2", now.Add(8*time.Hour).Format(time.RFC3339)),
		inbound("3", now.Add(-2*time.Hour).Format(time.RFC3339)),  // past, excluded
		inbound("4", now.Add(100*time.Hour).Format(time.RFC3339)), // beyond horizon, excluded
		inbound("5", "not-a-timestamp"),                           // unparseable, excluded
		inbound("6", ""),                                          // absent, excluded
	}
	// Moored vessel with a valid ETA does not count as inbound.
	moored := positioned("7", "labuan", domain.StatusMoored, 0)
	moored.ETA = now.Add(3 * time.Hour).Format(time.RFC3339)
	vessels = append(vessels, moored)

	stats := ComputeAggregatedStats(vessels, testPorts, testPolicy, true, false, now)
	assert.Equal(t, 6.0, stats.AvgETAHours)
}

func TestComputeAggregatedStatsAvgETAZeroWhenNoneQualify(t *testing.T) {
	now := time.Now()
	v := positioned("1", "labuan", domain.StatusUnderWayEngine, 12)
	v.ETA = now.Add(-1 * time.Hour).Format(time.RFC3339)

	stats := ComputeAggregatedStats([]domain.VesselRecord{v}, testPorts, testPolicy, true, false, now)
	assert.Equal(t, 0.0, stats.AvgETAHours, "averages stay numeric, never null")
}

func TestConnectionStatusFallback(t *testing.T) {
	now := time.Now()

	stats := ComputeAggregatedStats(nil, testPorts, testPolicy, false, true, now)
	assert.Equal(t, domain.ConnStatusStaleSecondary, stats.ConnectionStatus)

	stats = ComputeAggregatedStats(nil, testPorts, testPolicy, true, true, now)
	assert.Equal(t, domain.ConnStatusConnected, stats.ConnectionStatus)
}

func TestComputePortStatsAllPortsRepresented(t *testing.T) {
	result := ComputePortStats(nil, testPorts, testPolicy)
	require.Len(t, result, len(testPorts))
	for _, p := range testPorts {
		ps, ok := result[p.ID]
		require.True(t, ok)
		assert.Equal(t, p.Name, ps.Name)
		assert.Equal(t, 0, ps.ActiveVessels)
		assert.Equal(t, 0, ps.Capacity)
	}
}

func TestComputePortStatsClassification(t *testing.T) {
	vessels := []domain.VesselRecord{
		positioned("1", "labuan", domain.StatusUnderWayEngine, 11),  // incoming
		positioned("2", "labuan", domain.StatusMoored, 0),           // docked
		positioned("3", "labuan", domain.StatusAnchored, 5),         // outgoing (moving)
		positioned("4", "labuan", domain.StatusAnchored, 0.5),       // anchored but slow: unclassified
		positioned("5", "labuan", domain.StatusNotUnderCommand, 2),  // outgoing
		positioned("6", "labuan", domain.StatusAground, 0),          // alert, unclassified
		positioned("7", "port-klang", domain.StatusUnderWayEngine, 9),
	}

	result := ComputePortStats(vessels, testPorts, testPolicy)

	labuan := result["labuan"]
	assert.Equal(t, 6, labuan.ActiveVessels)
	assert.Equal(t, 1, labuan.Incoming)
	assert.Equal(t, 2, labuan.Outgoing)
	assert.Equal(t, 1, labuan.Docked)
	assert.Equal(t, 1, labuan.Alerts)
	// 4 classified out of 6 active.
	assert.Equal(t, 67, labuan.Capacity)

	klang := result["port-klang"]
	assert.Equal(t, 1, klang.ActiveVessels)
	assert.Equal(t, 1, klang.Incoming)
}

func TestComputePortStatsCapacityCap(t *testing.T) {
	vessels := []domain.VesselRecord{
		positioned("1", "labuan", domain.StatusMoored, 0),
		positioned("2", "labuan", domain.StatusMoored, 0),
	}
	result := ComputePortStats(vessels, testPorts, testPolicy)
	assert.Equal(t, 95, result["labuan"].Capacity, "fully classified ports cap at 95 percent")
}
