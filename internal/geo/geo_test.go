package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cyberport/seatrack/internal/core/domain"
)

func TestDistanceKm(t *testing.T) {
	// Labuan to Kota Kinabalu is roughly 110 km.
	d := DistanceKm(5.2831, 115.2309, 5.9804, 116.0735)
	assert.InDelta(t, 120, d, 15)

	// Zero distance for identical coordinates.
	assert.Equal(t, 0.0, DistanceKm(1.5, 103.0, 1.5, 103.0))

	// NaN propagates, it is not guarded.
	assert.True(t, math.IsNaN(DistanceKm(math.NaN(), 0, 0, 0)))
}

func TestNearestPort(t *testing.T) {
	ports := domain.DefaultPorts()

	// Just offshore of Labuan.
	assert.Equal(t, "labuan", NearestPort(5.30, 115.24, ports))

	// Strait of Malacca, close to Port Klang.
	assert.Equal(t, "port-klang", NearestPort(3.0, 101.2, ports))
}

func TestNearestPortEmptySet(t *testing.T) {
	assert.Equal(t, "", NearestPort(5.0, 115.0, nil))
}

func TestNearestPortTieBreak(t *testing.T) {
	// Two points equidistant from the query; the first in slice order wins
	// on every call.
	points := []domain.ReferencePoint{
		{ID: "west", Lat: 0, Lon: -1},
		{ID: "east", Lat: 0, Lon: 1},
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, "west", NearestPort(0, 0, points))
	}
}
