package aisstream

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Message types requested in the subscription filter.
const (
	msgTypePosition = "PositionReport"
	msgTypeStatic   = "ShipStaticData"
)

// subscribeRequest is the first frame written after the dial. BoundingBoxes
// is a list of [south-west, north-east] corner pairs, each [lat, lon].
type subscribeRequest struct {
	APIKey             string         `json:"APIKey"`
	BoundingBoxes      [][][2]float64 `json:"BoundingBoxes"`
	FilterMessageTypes []string       `json:"FilterMessageTypes"`
}

// envelope is the outer frame of every stream message. Only the branch
// named by MessageType is populated inside Message.
type envelope struct {
	MessageType string   `json:"MessageType"`
	MetaData    metaData `json:"MetaData"`
	Message     struct {
		PositionReport *positionReport `json:"PositionReport"`
		ShipStaticData *shipStaticData `json:"ShipStaticData"`
	} `json:"Message"`
}

type metaData struct {
	MMSI int64 `json:"MMSI"`
}

// positionReport carries the kinematic fields. Coordinates are pointers so
// a missing field is distinguishable from a real 0,0 fix off the Ghanaian
// coast.
type positionReport struct {
	Latitude           *float64 `json:"Latitude"`
	Longitude          *float64 `json:"Longitude"`
	Sog                float64  `json:"Sog"`
	Cog                float64  `json:"Cog"`
	TrueHeading        int      `json:"TrueHeading"`
	NavigationalStatus int      `json:"NavigationalStatus"`
}

type shipStaticData struct {
	Name        string `json:"Name"`
	CallSign    string `json:"CallSign"`
	Type        int    `json:"Type"`
	Destination string `json:"Destination"`
	Eta         *struct {
		Month  int `json:"Month"`
		Day    int `json:"Day"`
		Hour   int `json:"Hour"`
		Minute int `json:"Minute"`
	} `json:"Eta"`
	Dimension *struct {
		A float64 `json:"A"`
		B float64 `json:"B"`
		C float64 `json:"C"`
		D float64 `json:"D"`
	} `json:"Dimension"`
}

// PositionUpdate is a validated position report ready for the registry.
type PositionUpdate struct {
	MMSI      string
	Lat, Lon  float64
	Speed     float64
	Course    float64
	Heading   int
	NavStatus int
}

// StaticUpdate is a validated metadata report ready for the registry.
// ETA is RFC3339 or empty. Zero Length/Width mean not reported.
type StaticUpdate struct {
	MMSI        string
	Name        string
	CallSign    string
	TypeCode    int
	Destination string
	ETA         string
	Length      float64
	Width       float64
}

func mmsiString(m int64) string {
	if m <= 0 {
		return ""
	}
	return strconv.FormatInt(m, 10)
}

func (e *envelope) positionUpdate() (PositionUpdate, error) {
	pr := e.Message.PositionReport
	if pr == nil {
		return PositionUpdate{}, fmt.Errorf("position report missing body")
	}
	mmsi := mmsiString(e.MetaData.MMSI)
	if mmsi == "" {
		return PositionUpdate{}, fmt.Errorf("position report missing MMSI")
	}
	if pr.Latitude == nil || pr.Longitude == nil {
		return PositionUpdate{}, fmt.Errorf("position report for %s missing coordinates", mmsi)
	}
	return PositionUpdate{
		MMSI:      mmsi,
		Lat:       *pr.Latitude,
		Lon:       *pr.Longitude,
		Speed:     pr.Sog,
		Course:    pr.Cog,
		Heading:   pr.TrueHeading,
		NavStatus: pr.NavigationalStatus,
	}, nil
}

func (e *envelope) staticUpdate(now time.Time) (StaticUpdate, error) {
	sd := e.Message.ShipStaticData
	if sd == nil {
		return StaticUpdate{}, fmt.Errorf("static data missing body")
	}
	mmsi := mmsiString(e.MetaData.MMSI)
	if mmsi == "" {
		return StaticUpdate{}, fmt.Errorf("static data missing MMSI")
	}

	u := StaticUpdate{
		MMSI:        mmsi,
		Name:        strings.TrimSpace(sd.Name),
		CallSign:    strings.TrimSpace(sd.CallSign),
		TypeCode:    sd.Type,
		Destination: strings.TrimSpace(sd.Destination),
	}
	if sd.Eta != nil {
		u.ETA = formatETA(sd.Eta.Month, sd.Eta.Day, sd.Eta.Hour, sd.Eta.Minute, now)
	}
	if sd.Dimension != nil {
		// A+B is bow-to-stern, C+D is port-to-starboard of the reference
		// antenna.
		if l := sd.Dimension.A + sd.Dimension.B; l > 0 {
			u.Length = l
		}
		if w := sd.Dimension.C + sd.Dimension.D; w > 0 {
			u.Width = w
		}
	}
	return u, nil
}

// formatETA converts the AIS month/day/hour/minute quadruple to RFC3339.
// The transponder encodes "unavailable" as month 0, hour 24 or minute 60;
// those come back empty. AIS carries no year, so the nearest future year is
// inferred: an ETA more than a day in the past is assumed to mean next year.
func formatETA(month, day, hour, minute int, now time.Time) string {
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || hour < 0 || minute > 59 || minute < 0 {
		return ""
	}
	eta := time.Date(now.Year(), time.Month(month), day, hour, minute, 0, 0, time.UTC)
	if eta.Day() != day {
		// Impossible date for that month, e.g. Feb 30.
		return ""
	}
	if now.Sub(eta) > 24*time.Hour {
		eta = eta.AddDate(1, 0, 0)
	}
	return eta.Format(time.RFC3339)
}
