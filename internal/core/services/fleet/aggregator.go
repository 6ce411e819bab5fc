package fleet

import (
	"math"
	"time"

	"github.com/cyberport/seatrack/internal/core/domain"
)

// ComputeAggregatedStats derives the fleet-wide rollup from a snapshot.
// Pure function over copies; it never sees the live registry. All numeric
// outputs default to zero when no vessel qualifies, so callers never
// null-check the shape.
func ComputeAggregatedStats(vessels []domain.VesselRecord, refs []domain.ReferencePoint, policy domain.ClassifierPolicy, primaryConnected, secondaryFresh bool, now time.Time) domain.AggregatedStats {
	stats := domain.AggregatedStats{
		ActiveVessels: len(vessels),
		LastUpdate:    now,
	}

	portsWithTraffic := make(map[string]bool)
	etaSumHours := 0.0
	etaCount := 0

	for _, v := range vessels {
		if !v.HasPosition {
			continue
		}
		if v.NearestPort != "" {
			portsWithTraffic[v.NearestPort] = true
		}
		if policy.IsAlert(v.NavStatus) {
			stats.Alerts++
		}
		if policy.IsIncoming(v.NavStatus) {
			if hours, ok := etaHours(v.ETA, now, policy.ETAHorizon); ok {
				etaSumHours += hours
				etaCount++
			}
		}
	}

	for _, p := range refs {
		if portsWithTraffic[p.ID] {
			stats.PortsOnline++
		}
	}

	if etaCount > 0 {
		stats.AvgETAHours = math.Round(etaSumHours/float64(etaCount)*10) / 10
	}

	switch {
	case primaryConnected:
		stats.ConnectionStatus = domain.ConnStatusConnected
	case secondaryFresh:
		stats.ConnectionStatus = domain.ConnStatusStaleSecondary
	default:
		stats.ConnectionStatus = domain.ConnStatusDisconnected
	}

	return stats
}

// etaHours parses an RFC3339 ETA and returns the hours until arrival.
// Only forward-looking ETAs inside the horizon qualify; everything else is
// excluded from the average rather than dragging it negative.
func etaHours(eta string, now time.Time, horizon time.Duration) (float64, bool) {
	if eta == "" {
		return 0, false
	}
	t, err := time.Parse(time.RFC3339, eta)
	if err != nil {
		return 0, false
	}
	d := t.Sub(now)
	if d <= 0 || d > horizon {
		return 0, false
	}
	return d.Hours(), true
}

// ComputePortStats partitions the snapshot by nearest reference point.
// Every configured port is present in the result, zeroed when it has no
// traffic.
func ComputePortStats(vessels []domain.VesselRecord, refs []domain.ReferencePoint, policy domain.ClassifierPolicy) map[string]domain.PortStats {
	result := make(map[string]domain.PortStats, len(refs))
	for _, p := range refs {
		result[p.ID] = domain.PortStats{Name: p.Name}
	}

	for _, v := range vessels {
		if !v.HasPosition || v.NearestPort == "" {
			continue
		}
		ps, ok := result[v.NearestPort]
		if !ok {
			continue
		}
		ps.ActiveVessels++

		switch {
		case policy.IsIncoming(v.NavStatus):
			ps.Incoming++
		case policy.IsDocked(v.NavStatus):
			ps.Docked++
		case policy.IsOutgoing(v.NavStatus, v.Speed):
			ps.Outgoing++
		}
		if policy.IsAlert(v.NavStatus) {
			ps.Alerts++
		}

		result[v.NearestPort] = ps
	}

	for id, ps := range result {
		classified := ps.Incoming + ps.Outgoing + ps.Docked
		if ps.ActiveVessels > 0 {
			pct := int(math.Round(float64(classified) / float64(ps.ActiveVessels) * 100))
			if pct > 95 {
				pct = 95
			}
			ps.Capacity = pct
		}
		result[id] = ps
	}

	return result
}
