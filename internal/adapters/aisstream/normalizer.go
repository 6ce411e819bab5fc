package aisstream

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cyberport/seatrack/internal/core/domain"
	"github.com/cyberport/seatrack/internal/core/ports"
	"github.com/cyberport/seatrack/internal/telemetry"
)

// Normalizer decodes raw stream frames and applies them to the registry.
// Malformed frames are counted and dropped; a bad frame never disturbs the
// read loop or the state already accumulated.
type Normalizer struct {
	registry ports.VesselRegistry
	refs     []domain.ReferencePoint

	now func() time.Time
}

func NewNormalizer(reg ports.VesselRegistry, refs []domain.ReferencePoint) *Normalizer {
	return &Normalizer{registry: reg, refs: refs, now: time.Now}
}

// Handle processes one raw frame. It never returns an error: ingest keeps
// reading regardless of what a single frame contained.
func (n *Normalizer) Handle(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		telemetry.MessagesDropped.WithLabelValues("malformed").Inc()
		slog.Debug("dropped undecodable frame", "error", err)
		return
	}

	switch env.MessageType {
	case msgTypePosition:
		upd, err := env.positionUpdate()
		if err != nil {
			telemetry.MessagesDropped.WithLabelValues("invalid_position").Inc()
			slog.Debug("dropped position report", "error", err)
			return
		}
		n.registry.UpsertPosition(upd.MMSI, upd.Lat, upd.Lon, upd.Speed, upd.Course, upd.Heading, upd.NavStatus, n.refs)
		telemetry.MessagesReceived.WithLabelValues(msgTypePosition).Inc()

	case msgTypeStatic:
		upd, err := env.staticUpdate(n.now())
		if err != nil {
			telemetry.MessagesDropped.WithLabelValues("invalid_static").Inc()
			slog.Debug("dropped static data", "error", err)
			return
		}
		n.registry.UpsertStatic(upd.MMSI, upd.Name, upd.CallSign, upd.TypeCode, upd.Destination, upd.ETA, upd.Length, upd.Width)
		telemetry.MessagesReceived.WithLabelValues(msgTypeStatic).Inc()

	default:
		// The subscription filters to two types; anything else is upstream
		// noise.
		telemetry.MessagesDropped.WithLabelValues("unknown_type").Inc()
	}
}
