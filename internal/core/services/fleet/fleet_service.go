package fleet

import (
	"context"
	"log/slog"
	"time"

	"github.com/cyberport/seatrack/internal/core/domain"
	"github.com/cyberport/seatrack/internal/core/ports"
	"github.com/cyberport/seatrack/internal/telemetry"
)

// Vessels older than this are invisible to live queries and removed by the
// eviction sweep.
const DefaultStaleAfter = 30 * time.Minute

// FleetService owns the registry handle and answers dashboard queries.
// It is the only component that combines the vessel snapshot with the
// upstream connection lifecycle.
type FleetService struct {
	registry ports.VesselRegistry
	refs     []domain.ReferencePoint
	policy   domain.ClassifierPolicy

	stream       ports.StreamStatus    // nil when ingest is disabled
	secondary    ports.SecondaryStatus // nil when the secondary source is disabled
	secondaryTTL time.Duration

	dataSource string
	realData   bool

	now func() time.Time
}

// NewFleetService wires the query surface over a registry. Stream and
// secondary status providers attach later, once the adapters exist.
func NewFleetService(reg ports.VesselRegistry, refs []domain.ReferencePoint, policy domain.ClassifierPolicy) *FleetService {
	return &FleetService{
		registry:     reg,
		refs:         refs,
		policy:       policy,
		secondaryTTL: 5 * time.Minute,
		dataSource:   "none",
		now:          time.Now,
	}
}

// SetStreamStatus attaches the primary feed lifecycle.
func (s *FleetService) SetStreamStatus(st ports.StreamStatus) { s.stream = st }

// SetSecondaryStatus attaches the secondary source freshness provider.
func (s *FleetService) SetSecondaryStatus(st ports.SecondaryStatus) { s.secondary = st }

// SetDataSource labels the stats payloads so synthetic data is never
// mistaken for a live feed.
func (s *FleetService) SetDataSource(label string, real bool) {
	s.dataSource = label
	s.realData = real
}

// GetAggregatedStats recomputes the fleet rollup from a fresh snapshot.
func (s *FleetService) GetAggregatedStats() domain.AggregatedStats {
	now := s.now()
	snap := s.registry.Snapshot()

	primaryConnected := s.stream != nil && s.stream.Connected()
	secondaryFresh := false
	if s.secondary != nil {
		if last := s.secondary.LastSuccess(); !last.IsZero() {
			secondaryFresh = now.Sub(last) <= s.secondaryTTL
		}
	}

	stats := ComputeAggregatedStats(snap, s.refs, s.policy, primaryConnected, secondaryFresh, now)
	stats.DataSource = s.dataSource
	stats.IsRealData = s.realData

	// No ingestion core at all: report unavailable, not disconnected, so the
	// dashboard can distinguish "never started" from "lost".
	if s.stream == nil && s.secondary == nil {
		stats.ConnectionStatus = domain.ConnStatusUnavailable
	}

	telemetry.VesselsTracked.Set(float64(stats.ActiveVessels))
	return stats
}

// GetPortStats recomputes the per-port rollups from a fresh snapshot.
func (s *FleetService) GetPortStats() map[string]domain.PortStats {
	return ComputePortStats(s.registry.Snapshot(), s.refs, s.policy)
}

// GetLiveVessels returns the vessels with a resolved position updated
// within the staleness window.
func (s *FleetService) GetLiveVessels() []domain.VesselRecord {
	cutoff := s.now().Add(-DefaultStaleAfter)
	var live []domain.VesselRecord
	for _, v := range s.registry.Snapshot() {
		if v.HasPosition && v.LastUpdate.After(cutoff) {
			live = append(live, v)
		}
	}
	return live
}

// ReferencePoints returns a copy of the configured reference set.
func (s *FleetService) ReferencePoints() []domain.ReferencePoint {
	out := make([]domain.ReferencePoint, len(s.refs))
	copy(out, s.refs)
	return out
}

// StartEvictionLoop runs the staleness sweep until the context ends.
func (s *FleetService) StartEvictionLoop(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				telemetry.EvictionRuns.Inc()
				if evicted := s.registry.PruneStale(ttl); evicted > 0 {
					slog.Info("evicted stale vessels", "count", evicted, "remaining", s.registry.Count())
					telemetry.VesselsEvicted.Add(float64(evicted))
				}
			}
		}
	}()
}
