package registry

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cyberport/seatrack/internal/core/domain"
	"github.com/cyberport/seatrack/internal/geo"
)

const numShards = 16

type vesselShard struct {
	mu      sync.RWMutex
	vessels map[string]domain.VesselRecord
}

// VesselRegistry implements ports.VesselRegistry with a sharded map so the
// stream upsert path, the secondary merge path and the eviction sweep do
// not serialize on a single lock.
type VesselRegistry struct {
	shards [numShards]*vesselShard
	now    func() time.Time
}

// New creates an empty registry.
func New() *VesselRegistry {
	r := &VesselRegistry{now: time.Now}
	for i := range r.shards {
		r.shards[i] = &vesselShard{vessels: make(map[string]domain.VesselRecord)}
	}
	return r
}

func (r *VesselRegistry) getShard(mmsi string) *vesselShard {
	hash := uint32(0)
	for i := 0; i < len(mmsi); i++ {
		hash = hash*31 + uint32(mmsi[i])
	}
	return r.shards[hash%numShards]
}

// UpsertPosition creates or merges a position report. Records missing an
// identifier are dropped silently; that is the store contract, the message
// boundary has already counted them.
func (r *VesselRegistry) UpsertPosition(mmsi string, lat, lon, sog, cog float64, heading, navStatus int, refs []domain.ReferencePoint) {
	if mmsi == "" {
		return
	}
	now := r.now()
	shard := r.getShard(mmsi)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	v, ok := shard.vessels[mmsi]
	if !ok {
		v = domain.VesselRecord{MMSI: mmsi, FirstSeen: now}
	}
	v.HasPosition = true
	v.Latitude = lat
	v.Longitude = lon
	v.Speed = sog
	v.Course = cog
	v.Heading = heading
	v.NavStatus = navStatus
	v.NearestPort = geo.NearestPort(lat, lon, refs)
	v.Source = domain.SourceStream
	v.LastUpdate = now
	shard.vessels[mmsi] = v
}

// UpsertStatic creates or merges vessel/voyage metadata. Position fields are
// never touched, so a static frame can not erase a position report and vice
// versa.
func (r *VesselRegistry) UpsertStatic(mmsi, name, callSign string, typeCode int, destination, eta string, length, width float64) {
	if mmsi == "" {
		return
	}
	now := r.now()
	shard := r.getShard(mmsi)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	v, ok := shard.vessels[mmsi]
	if !ok {
		v = domain.VesselRecord{MMSI: mmsi, FirstSeen: now}
	}

	if name = strings.TrimSpace(name); name != "" {
		v.Name = name
	} else if v.Name == "" {
		v.Name = domain.PlaceholderName(mmsi)
	}
	if callSign != "" {
		v.CallSign = callSign
	}
	if typeCode > 0 {
		v.Type = typeCode
	}
	if destination = strings.TrimSpace(destination); destination != "" {
		v.Destination = destination
	}
	if eta != "" {
		v.ETA = eta
	}
	if length > 0 {
		v.Length = length
	}
	if width > 0 {
		v.Width = width
	}
	v.Source = domain.SourceStream
	v.LastUpdate = now
	shard.vessels[mmsi] = v
}

// MergeExternal merges a secondary-source observation. Only fields the
// payload actually supplies overwrite existing state; nil kinematics and
// empty strings leave what the stream populated untouched. Reports
// without identifier or coordinates are dropped.
func (r *VesselRegistry) MergeExternal(in domain.ExternalReport, refs []domain.ReferencePoint) {
	if in.MMSI == "" || !in.HasPosition {
		return
	}
	now := r.now()
	shard := r.getShard(in.MMSI)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	v, ok := shard.vessels[in.MMSI]
	if !ok {
		v = domain.VesselRecord{MMSI: in.MMSI, FirstSeen: now}
	}
	v.HasPosition = true
	v.Latitude = in.Latitude
	v.Longitude = in.Longitude
	if in.Speed != nil {
		v.Speed = *in.Speed
	}
	if in.Course != nil {
		v.Course = *in.Course
	}
	if in.Heading != nil {
		v.Heading = *in.Heading
	}
	if in.NavStatus != nil {
		v.NavStatus = *in.NavStatus
	}
	v.NearestPort = geo.NearestPort(in.Latitude, in.Longitude, refs)

	if name := strings.TrimSpace(in.Name); name != "" {
		v.Name = name
	}
	if in.CallSign != "" {
		v.CallSign = in.CallSign
	}
	if in.Type > 0 {
		v.Type = in.Type
	}
	if dest := strings.TrimSpace(in.Destination); dest != "" {
		v.Destination = dest
	}
	if in.ETA != "" {
		v.ETA = in.ETA
	}

	if in.Source != "" {
		v.Source = in.Source
	} else {
		v.Source = domain.SourceSecondary
	}
	v.LastUpdate = now
	shard.vessels[in.MMSI] = v
}

// Snapshot returns point-in-time copies of all records, sorted by MMSI.
func (r *VesselRegistry) Snapshot() []domain.VesselRecord {
	var all []domain.VesselRecord
	for _, shard := range r.shards {
		shard.mu.RLock()
		for _, v := range shard.vessels {
			all = append(all, v)
		}
		shard.mu.RUnlock()
	}
	sort.Slice(all, func(i, j int) bool { return all[i].MMSI < all[j].MMSI })
	return all
}

// PruneStale evicts records whose last update is older than maxAge and
// returns the number removed.
func (r *VesselRegistry) PruneStale(maxAge time.Duration) int {
	threshold := r.now().Add(-maxAge)
	deleted := 0
	for _, shard := range r.shards {
		shard.mu.Lock()
		for mmsi, v := range shard.vessels {
			if v.LastUpdate.Before(threshold) {
				delete(shard.vessels, mmsi)
				deleted++
			}
		}
		shard.mu.Unlock()
	}
	return deleted
}

// Count returns the number of tracked vessels.
func (r *VesselRegistry) Count() int {
	count := 0
	for _, shard := range r.shards {
		shard.mu.RLock()
		count += len(shard.vessels)
		shard.mu.RUnlock()
	}
	return count
}
