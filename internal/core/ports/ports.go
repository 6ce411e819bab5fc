// Package ports defines the interfaces between the core services and the
// adapters that feed or query them.
package ports

import (
	"context"
	"time"

	"github.com/cyberport/seatrack/internal/core/domain"
)

// VesselRegistry is the shared in-memory fleet state. Implementations must
// be safe for concurrent mutation, sweeping and snapshotting; a snapshot
// never observes a half-applied upsert.
type VesselRegistry interface {
	// UpsertPosition creates or merges a position report. First-seen is set
	// once on creation; the nearest reference point is recomputed from the
	// new coordinates on every call.
	UpsertPosition(mmsi string, lat, lon, sog, cog float64, heading, navStatus int, refs []domain.ReferencePoint)

	// UpsertStatic creates or merges vessel/voyage metadata. Never touches
	// position fields.
	UpsertStatic(mmsi, name, callSign string, typeCode int, destination, eta string, length, width float64)

	// MergeExternal merges an observation from a secondary source. Additive
	// only: fields the payload does not carry are left untouched.
	MergeExternal(v domain.ExternalReport, refs []domain.ReferencePoint)

	// Snapshot returns point-in-time copies of every record, ordered by
	// MMSI. Callers never receive live references.
	Snapshot() []domain.VesselRecord

	// PruneStale evicts records whose last update is older than maxAge and
	// returns the eviction count.
	PruneStale(maxAge time.Duration) int

	Count() int
}

// StreamStatus reports the primary feed lifecycle to the query layer.
type StreamStatus interface {
	Connected() bool
	// GaveUp reports the terminal state after the reconnection budget is
	// exhausted; recovery requires a process restart.
	GaveUp() bool
}

// SecondaryStatus reports secondary source freshness.
type SecondaryStatus interface {
	// LastSuccess returns the time of the last completed fetch, zero if the
	// source has never succeeded.
	LastSuccess() time.Time
}

// FleetService is the read-only query surface consumed by the web layer.
// All methods are side-effect free with respect to the registry.
type FleetService interface {
	GetAggregatedStats() domain.AggregatedStats
	GetPortStats() map[string]domain.PortStats
	GetLiveVessels() []domain.VesselRecord
	ReferencePoints() []domain.ReferencePoint
}

// AuditRepository persists connection lifecycle events.
type AuditRepository interface {
	SaveEvent(ctx context.Context, e domain.ConnectionEvent) error
	RecentEvents(ctx context.Context, limit int) ([]domain.ConnectionEvent, error)
}
