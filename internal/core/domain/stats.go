package domain

import (
	"time"
)

// Connection states reported to the dashboard.
const (
	ConnStatusConnected      = "connected"
	ConnStatusStaleSecondary = "stale-secondary"
	ConnStatusDisconnected   = "disconnected"
	ConnStatusUnavailable    = "unavailable"
)

// AggregatedStats is the fleet-wide rollup computed on each query.
// Ephemeral: recomputed from a snapshot every call, no identity across
// calls. Numeric fields are always populated, never null.
type AggregatedStats struct {
	ActiveVessels    int       `json:"activeVessels"`
	PortsOnline      int       `json:"portsOnline"`
	Alerts           int       `json:"alerts"`
	AvgETAHours      float64   `json:"avgETA"`
	ConnectionStatus string    `json:"connectionStatus"`
	DataSource       string    `json:"dataSource"`
	IsRealData       bool      `json:"isRealData"`
	LastUpdate       time.Time `json:"lastUpdate"`
}

// PortStats is the per-reference-point activity rollup.
type PortStats struct {
	Name          string `json:"name"`
	ActiveVessels int    `json:"activeVessels"`
	Incoming      int    `json:"incoming"`
	Outgoing      int    `json:"outgoing"`
	Docked        int    `json:"docked"`
	Alerts        int    `json:"alerts"`
	Capacity      int    `json:"capacity"` // percent, capped at 95
}

// ClassifierPolicy holds the thresholds used to bucket vessels into port
// activity classes. The defaults mirror the dashboard heuristics; they are
// policy, not protocol, and deployments may tune them.
type ClassifierPolicy struct {
	SpeedThresholdKnots float64
	IncomingStatuses    map[int]bool
	OutgoingStatuses    map[int]bool
	DockedStatuses      map[int]bool
	AlertStatuses       map[int]bool
	ETAHorizon          time.Duration
}

// DefaultClassifierPolicy returns the stock classification thresholds.
func DefaultClassifierPolicy() ClassifierPolicy {
	return ClassifierPolicy{
		SpeedThresholdKnots: 1,
		IncomingStatuses:    map[int]bool{StatusUnderWayEngine: true},
		OutgoingStatuses:    map[int]bool{StatusAnchored: true, StatusNotUnderCommand: true},
		DockedStatuses:      map[int]bool{StatusMoored: true},
		AlertStatuses:       map[int]bool{StatusAground: true, StatusAISSART: true},
		ETAHorizon:          72 * time.Hour,
	}
}

// IsIncoming reports whether the status counts as inbound traffic.
func (p ClassifierPolicy) IsIncoming(status int) bool {
	return p.IncomingStatuses[status]
}

// IsOutgoing reports whether the status and speed count as outbound traffic.
func (p ClassifierPolicy) IsOutgoing(status int, speedKnots float64) bool {
	return p.OutgoingStatuses[status] && speedKnots > p.SpeedThresholdKnots
}

// IsDocked reports whether the status counts as berthed.
func (p ClassifierPolicy) IsDocked(status int) bool {
	return p.DockedStatuses[status]
}

// IsAlert reports whether the status signals distress or grounding.
func (p ClassifierPolicy) IsAlert(status int) bool {
	return p.AlertStatuses[status]
}
