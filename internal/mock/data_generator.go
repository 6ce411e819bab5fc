// Package mock serves a synthetic vessel feed speaking the upstream wire
// format, for demos and development without an API key.
package mock

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cyberport/seatrack/internal/core/domain"
)

// Vessel name fragments for plausible traffic.
var vesselPrefixes = []string{
	"MV", "MT", "SS", "LNG", "OOCL", "MSC", "CMA CGM", "EVER",
}

var vesselNames = []string{
	"BORNEO TRADER", "SELAT MELAKA", "KINABALU PEARL", "SARAWAK GLORY",
	"HARBOUR STAR", "PACIFIC DAWN", "STRAIT EXPRESS", "LABUAN SPIRIT",
	"JADE HORIZON", "ORIENT FORTUNE", "SOUTH SEA LADY", "MALACCA QUEEN",
	"RAJANG RIVER", "TANJUNG ARU", "CORAL NAVIGATOR", "MONSOON WIND",
}

var destinations = []string{
	"MYLBU", "MYPKG", "MYPEN", "MYTPP", "MYKUA", "MYBTU", "MYBKI", "MYKCH",
	"SGSIN", "IDJKT", "THLCH", "VNSGN",
}

// Cargo and tanker type codes dominate real traffic in the region.
var shipTypes = []int{70, 71, 72, 74, 79, 80, 81, 82, 30, 52, 60}

// mockVessel is the evolving state behind the synthetic frames.
type mockVessel struct {
	mmsi        string
	name        string
	callSign    string
	shipType    int
	destination string
	lat, lon    float64
	speed       float64
	course      float64
	heading     int
	navStatus   int
	lengthA     float64
	lengthB     float64
	widthC      float64
	widthD      float64
	etaIn       time.Duration
}

// DataGenerator produces a drifting synthetic fleet clustered around the
// reference points.
type DataGenerator struct {
	rand    *rand.Rand
	refs    []domain.ReferencePoint
	bbox    domain.BoundingBox
	vessels []*mockVessel
}

// NewDataGenerator seeds count vessels near the given reference points.
func NewDataGenerator(refs []domain.ReferencePoint, bbox domain.BoundingBox, count int) *DataGenerator {
	g := &DataGenerator{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		refs: refs,
		bbox: bbox,
	}
	for i := 0; i < count; i++ {
		g.vessels = append(g.vessels, g.newVessel())
	}
	return g
}

func (g *DataGenerator) newVessel() *mockVessel {
	// Cluster around a port so nearest-port resolution has something to
	// chew on; a few vessels roam the open box.
	var lat, lon float64
	if len(g.refs) > 0 && g.rand.Float64() < 0.8 {
		p := g.refs[g.rand.Intn(len(g.refs))]
		lat = p.Lat + (g.rand.Float64()-0.5)*0.4
		lon = p.Lon + (g.rand.Float64()-0.5)*0.4
	} else {
		lat = g.bbox.MinLat + g.rand.Float64()*(g.bbox.MaxLat-g.bbox.MinLat)
		lon = g.bbox.MinLon + g.rand.Float64()*(g.bbox.MaxLon-g.bbox.MinLon)
	}
	lat = clamp(lat, g.bbox.MinLat, g.bbox.MaxLat)
	lon = clamp(lon, g.bbox.MinLon, g.bbox.MaxLon)

	// Weighted towards underway and moored, with the occasional distress
	// state so the alert counters move.
	statuses := []int{0, 0, 0, 0, 5, 5, 5, 1, 2, 6, 14}
	status := statuses[g.rand.Intn(len(statuses))]

	speed := 0.0
	if status == 0 || status == 1 || status == 2 {
		speed = 2 + g.rand.Float64()*16
	}

	v := &mockVessel{
		mmsi:        fmt.Sprintf("533%06d", g.rand.Intn(1000000)),
		name:        vesselPrefixes[g.rand.Intn(len(vesselPrefixes))] + " " + vesselNames[g.rand.Intn(len(vesselNames))],
		callSign:    fmt.Sprintf("9M%c%c%d", 'A'+rune(g.rand.Intn(26)), 'A'+rune(g.rand.Intn(26)), g.rand.Intn(10)),
		shipType:    shipTypes[g.rand.Intn(len(shipTypes))],
		destination: destinations[g.rand.Intn(len(destinations))],
		lat:         lat,
		lon:         lon,
		speed:       speed,
		course:      g.rand.Float64() * 360,
		heading:     g.rand.Intn(360),
		navStatus:   status,
		lengthA:     50 + g.rand.Float64()*200,
		lengthB:     10 + g.rand.Float64()*40,
		widthC:      5 + g.rand.Float64()*15,
		widthD:      5 + g.rand.Float64()*15,
		etaIn:       time.Duration(2+g.rand.Intn(46)) * time.Hour,
	}
	return v
}

// Advance drifts every vessel along its course.
func (g *DataGenerator) Advance() {
	for _, v := range g.vessels {
		if v.speed < 0.5 {
			continue
		}
		// Rough degrees-per-tick from speed; exact navigation is beside
		// the point here.
		step := v.speed * 0.0005
		v.lat = clamp(v.lat+step*(g.rand.Float64()-0.5)*2, g.bbox.MinLat, g.bbox.MaxLat)
		v.lon = clamp(v.lon+step*(g.rand.Float64()-0.5)*2, g.bbox.MinLon, g.bbox.MaxLon)
		v.speed = clamp(v.speed+(g.rand.Float64()-0.5)*2, 0, 22)
	}
}

// PositionFrame renders one vessel as an upstream position report.
func (g *DataGenerator) PositionFrame(i int) []byte {
	v := g.vessels[i%len(g.vessels)]
	return []byte(fmt.Sprintf(`{
		"MessageType": "PositionReport",
		"MetaData": {"MMSI": %s},
		"Message": {"PositionReport": {
			"Latitude": %.6f, "Longitude": %.6f,
			"Sog": %.1f, "Cog": %.1f,
			"TrueHeading": %d, "NavigationalStatus": %d
		}}
	}`, v.mmsi, v.lat, v.lon, v.speed, v.course, v.heading, v.navStatus))
}

// StaticFrame renders one vessel as an upstream static data report.
func (g *DataGenerator) StaticFrame(i int) []byte {
	v := g.vessels[i%len(g.vessels)]
	eta := time.Now().Add(v.etaIn).UTC()
	return []byte(fmt.Sprintf(`{
		"MessageType": "ShipStaticData",
		"MetaData": {"MMSI": %s},
		"Message": {"ShipStaticData": {
			"Name": %q, "CallSign": %q, "Type": %d, "Destination": %q,
			"Eta": {"Month": %d, "Day": %d, "Hour": %d, "Minute": %d},
			"Dimension": {"A": %.0f, "B": %.0f, "C": %.0f, "D": %.0f}
		}}
	}`, v.mmsi, v.name, v.callSign, v.shipType, v.destination,
		int(eta.Month()), eta.Day(), eta.Hour(), eta.Minute(),
		v.lengthA, v.lengthB, v.widthC, v.widthD))
}

// Count returns the fleet size.
func (g *DataGenerator) Count() int { return len(g.vessels) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
