package model

import (
	"fmt"
	"strings"
)

// Coordinate is a position in degrees
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Site is a solar installation. The ID is assigned by the caller.
// Coordinate is nil if the position of the site is unknown.
type Site struct {
	ID         int64       `json:"id"`
	Panels     int64       `json:"panels"`
	Capacity   float64     `json:"capacity"`
	Address    string      `json:"address,omitempty"`
	City       string      `json:"city,omitempty"`
	State      string      `json:"state,omitempty"`
	PostalCode string      `json:"postalCode,omitempty"`
	Coordinate *Coordinate `json:"coordinate,omitempty"`
}

// HasCoordinate reports whether the position of the site is known
func (s Site) HasCoordinate() bool {
	return s.Coordinate != nil
}

// --------------------------------------------------------------------------
// Distance units
// --------------------------------------------------------------------------

// GeoUnit is a distance unit understood by the geo index
type GeoUnit string

const (
	GeoUnitKilometers GeoUnit = "km"
	GeoUnitMiles      GeoUnit = "mi"
)

// ParseGeoUnit normalizes a unit name (case-insensitive, long or short form)
func ParseGeoUnit(s string) (GeoUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "km", "kilometer", "kilometers":
		return GeoUnitKilometers, nil
	case "mi", "mile", "miles":
		return GeoUnitMiles, nil
	default:
		return "", fmt.Errorf("invalid distance unit %q (expected km or mi)", s)
	}
}

func (u GeoUnit) String() string {
	return string(u)
}
