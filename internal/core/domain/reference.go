package domain

// ReferencePoint is a fixed named location (a port) that vessels are
// classified against. Loaded from static configuration, never mutated.
type ReferencePoint struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// BoundingBox is the geographic subscription filter, min corner to max corner.
type BoundingBox struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// Contains reports whether the coordinate falls inside the box.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// DefaultBoundingBox covers Malaysian waters, matching the default port set.
func DefaultBoundingBox() BoundingBox {
	return BoundingBox{MinLat: 0.8, MinLon: 99.5, MaxLat: 7.5, MaxLon: 119.5}
}

// DefaultPorts returns the built-in Malaysian reference set.
func DefaultPorts() []ReferencePoint {
	return []ReferencePoint{
		{ID: "labuan", Name: "Labuan Port", Lat: 5.2831, Lon: 115.2309},
		{ID: "port-klang", Name: "Port Klang", Lat: 2.9988, Lon: 101.3939},
		{ID: "penang", Name: "Penang Port", Lat: 5.4164, Lon: 100.3327},
		{ID: "johor", Name: "Johor Port", Lat: 1.3639, Lon: 103.6088},
		{ID: "kuantan", Name: "Kuantan Port", Lat: 3.9667, Lon: 103.4333},
		{ID: "bintulu", Name: "Bintulu Port", Lat: 3.1667, Lon: 113.0333},
		{ID: "kota-kinabalu", Name: "Kota Kinabalu Port", Lat: 5.9804, Lon: 116.0735},
		{ID: "kuching", Name: "Kuching Port", Lat: 1.5535, Lon: 110.3493},
	}
}
