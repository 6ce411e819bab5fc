package aisstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberport/seatrack/internal/core/domain"
	"github.com/cyberport/seatrack/internal/core/services/registry"
)

func newNormalizer() (*Normalizer, *registry.VesselRegistry) {
	reg := registry.New()
	return NewNormalizer(reg, domain.DefaultPorts()), reg
}

func TestNormalizerRoutesPositionReport(t *testing.T) {
	n, reg := newNormalizer()

	n.Handle([]byte(`{
		"MessageType": "PositionReport",
		"MetaData": {"MMSI": 533000123},
		"Message": {"PositionReport": {
			"Latitude": 5.30, "Longitude": 115.24,
			"Sog": 0, "NavigationalStatus": 5
		}}
	}`))

	snap := reg.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "533000123", snap[0].MMSI)
	assert.True(t, snap[0].HasPosition)
	assert.Equal(t, domain.StatusMoored, snap[0].NavStatus)
	assert.Equal(t, "labuan", snap[0].NearestPort)
}

func TestNormalizerRoutesStaticData(t *testing.T) {
	n, reg := newNormalizer()

	n.Handle([]byte(`{
		"MessageType": "ShipStaticData",
		"MetaData": {"MMSI": 533000123},
		"Message": {"ShipStaticData": {"Name": "HARBOUR STAR", "Type": 70}}
	}`))

	snap := reg.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "HARBOUR STAR", snap[0].Name)
	assert.Equal(t, 70, snap[0].Type)
	assert.False(t, snap[0].HasPosition)
}

func TestNormalizerDropsBadFrames(t *testing.T) {
	n, reg := newNormalizer()

	n.Handle([]byte(`not json at all`))
	n.Handle([]byte(`{"MessageType": "PositionReport", "MetaData": {"MMSI": 1}, "Message": {}}`))
	n.Handle([]byte(`{"MessageType": "SomethingElse", "MetaData": {"MMSI": 1}}`))
	n.Handle([]byte(`{
		"MessageType": "PositionReport",
		"MetaData": {"MMSI": 0},
		"Message": {"PositionReport": {"Latitude": 1, "Longitude": 2}}
	}`))

	assert.Zero(t, reg.Count(), "no drop may leave partial state behind")
}

func TestNormalizerMergesAcrossFrames(t *testing.T) {
	n, reg := newNormalizer()

	n.Handle([]byte(`{
		"MessageType": "ShipStaticData",
		"MetaData": {"MMSI": 533000123},
		"Message": {"ShipStaticData": {"Name": "HARBOUR STAR"}}
	}`))
	n.Handle([]byte(`{
		"MessageType": "PositionReport",
		"MetaData": {"MMSI": 533000123},
		"Message": {"PositionReport": {"Latitude": 5.30, "Longitude": 115.24, "Sog": 11}}
	}`))

	snap := reg.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "HARBOUR STAR", snap[0].Name)
	assert.True(t, snap[0].HasPosition)
	assert.Equal(t, 11.0, snap[0].Speed)
}
