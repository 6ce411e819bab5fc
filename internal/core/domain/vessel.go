package domain

import (
	"fmt"
	"time"
)

// Data sources that can write into the fleet registry.
const (
	SourceStream    = "ais-stream"
	SourceSecondary = "secondary"
	SourceSynthetic = "synthetic"
)

// AIS navigational status codes (ITU-R M.1371). Only the codes the
// classifier cares about are named here.
const (
	StatusUnderWayEngine  = 0
	StatusAnchored        = 1
	StatusNotUnderCommand = 2
	StatusMoored          = 5
	StatusAground         = 6
	StatusAISSART         = 14
)

// VesselRecord represents one tracked vessel, keyed by MMSI.
//
// Position fields are only meaningful when HasPosition is set; a record
// created from static data alone carries no coordinates and is excluded
// from distance-based derivations and live queries.
type VesselRecord struct {
	MMSI        string  `json:"mmsi"`
	Name        string  `json:"name,omitempty"`
	CallSign    string  `json:"call_sign,omitempty"`
	Type        int     `json:"type,omitempty"`
	Destination string  `json:"destination,omitempty"`
	ETA         string  `json:"eta,omitempty"` // RFC3339, empty until voyage data arrives
	Length      float64 `json:"length,omitempty"`
	Width       float64 `json:"width,omitempty"`

	HasPosition bool    `json:"has_position"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lng"`
	Speed       float64 `json:"speed"`  // knots over ground
	Course      float64 `json:"course"` // degrees over ground
	Heading     int     `json:"heading"`
	NavStatus   int     `json:"status"`

	NearestPort string    `json:"nearest_port,omitempty"`
	Source      string    `json:"source"`
	FirstSeen   time.Time `json:"first_seen"`
	LastUpdate  time.Time `json:"last_update"`
}

// ExternalReport is one observation from a secondary source. Kinematic
// fields are pointers so a merge can tell "not supplied" from a
// legitimate zero (status 0 is under way, speed 0 is stopped).
type ExternalReport struct {
	MMSI        string
	Name        string
	CallSign    string
	Type        int
	Destination string
	ETA         string

	HasPosition bool
	Latitude    float64
	Longitude   float64
	Speed       *float64
	Course      *float64
	Heading     *int
	NavStatus   *int

	Source string
}

// PlaceholderName is the display name used while upstream static data
// carries an empty vessel name.
func PlaceholderName(mmsi string) string {
	return fmt.Sprintf("MMSI %s", mmsi)
}
