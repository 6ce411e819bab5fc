package domain

import "time"

// Connection event types recorded in the audit trail.
const (
	EventConnected    = "CONNECTED"
	EventSubscribed   = "SUBSCRIBED"
	EventDisconnected = "DISCONNECTED"
	EventGaveUp       = "RECONNECT_EXHAUSTED"
	EventFetchFailed  = "FETCH_FAILED"
)

// ConnectionEvent records one lifecycle transition of an upstream source.
// This is operational history, not vessel history: it exists so that a
// terminal reconnect-exhaustion state is visible to operators after the
// fact rather than only in scrollback.
type ConnectionEvent struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Source    string    `json:"source"` // ais-stream, secondary
	Type      string    `json:"type"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
}
