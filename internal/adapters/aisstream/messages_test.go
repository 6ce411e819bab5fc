package aisstream

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	return env
}

func TestPositionUpdateDecodes(t *testing.T) {
	env := decode(t, `{
		"MessageType": "PositionReport",
		"MetaData": {"MMSI": 533000123},
		"Message": {"PositionReport": {
			"Latitude": 5.2831, "Longitude": 115.2309,
			"Sog": 12.3, "Cog": 87.5, "TrueHeading": 88,
			"NavigationalStatus": 0
		}}
	}`)

	upd, err := env.positionUpdate()
	require.NoError(t, err)
	assert.Equal(t, "533000123", upd.MMSI)
	assert.Equal(t, 5.2831, upd.Lat)
	assert.Equal(t, 115.2309, upd.Lon)
	assert.Equal(t, 12.3, upd.Speed)
	assert.Equal(t, 88, upd.Heading)
	assert.Equal(t, 0, upd.NavStatus)
}

func TestPositionUpdateMissingCoordinates(t *testing.T) {
	env := decode(t, `{
		"MessageType": "PositionReport",
		"MetaData": {"MMSI": 533000123},
		"Message": {"PositionReport": {"Sog": 4}}
	}`)
	_, err := env.positionUpdate()
	assert.Error(t, err)
}

func TestPositionUpdateMissingMMSI(t *testing.T) {
	env := decode(t, `{
		"MessageType": "PositionReport",
		"MetaData": {"MMSI": 0},
		"Message": {"PositionReport": {"Latitude": 1, "Longitude": 2}}
	}`)
	_, err := env.positionUpdate()
	assert.Error(t, err)
}

func TestStaticUpdateDecodes(t *testing.T) {
	env := decode(t, `{
		"MessageType": "ShipStaticData",
		"MetaData": {"MMSI": 533000123},
		"Message": {"ShipStaticData": {
			"Name": "  HARBOUR STAR  ",
			"CallSign": "9MAB2",
			"Type": 70,
			"Destination": "MYLBU",
			"Eta": {"Month": 10, "Day": 2, "Hour": 6, "Minute": 30},
			"Dimension": {"A": 120, "B": 30, "C": 10, "D": 12}
		}}
	}`)

	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	upd, err := env.staticUpdate(now)
	require.NoError(t, err)
	assert.Equal(t, "HARBOUR STAR", upd.Name)
	assert.Equal(t, "9MAB2", upd.CallSign)
	assert.Equal(t, 70, upd.TypeCode)
	assert.Equal(t, "MYLBU", upd.Destination)
	assert.Equal(t, "2026-10-02T06:30:00Z", upd.ETA)
	assert.Equal(t, 150.0, upd.Length)
	assert.Equal(t, 22.0, upd.Width)
}

func TestStaticUpdateNoOptionalFields(t *testing.T) {
	env := decode(t, `{
		"MessageType": "ShipStaticData",
		"MetaData": {"MMSI": 533000123},
		"Message": {"ShipStaticData": {"Name": "BARE"}}
	}`)
	upd, err := env.staticUpdate(time.Now())
	require.NoError(t, err)
	assert.Empty(t, upd.ETA)
	assert.Zero(t, upd.Length)
	assert.Zero(t, upd.Width)
}

func TestFormatETA(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("future this year", func(t *testing.T) {
		assert.Equal(t, "2026-11-15T08:00:00Z", formatETA(11, 15, 8, 0, now))
	})
	t.Run("rolls into next year", func(t *testing.T) {
		assert.Equal(t, "2027-01-05T00:00:00Z", formatETA(1, 5, 0, 0, now))
	})
	t.Run("recent past stays this year", func(t *testing.T) {
		// Within a day in the past: the vessel is simply late.
		assert.Equal(t, "2026-09-01T06:00:00Z", formatETA(9, 1, 6, 0, now))
	})
	t.Run("unavailable markers", func(t *testing.T) {
		assert.Empty(t, formatETA(0, 0, 24, 60, now))
		assert.Empty(t, formatETA(13, 1, 0, 0, now))
		assert.Empty(t, formatETA(2, 30, 0, 0, now))
	})
}
