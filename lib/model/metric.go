package model

import (
	"fmt"
	"time"
)

// MetricUnit identifies one of the time series recorded per site
type MetricUnit string

const (
	MetricUnitWHGenerated MetricUnit = "whG"
	MetricUnitWHUsed      MetricUnit = "whU"
	MetricUnitTempCelsius MetricUnit = "tempC"
)

// MetricUnits lists all known metric units
var MetricUnits = []MetricUnit{MetricUnitWHGenerated, MetricUnitWHUsed, MetricUnitTempCelsius}

// ParseMetricUnit checks that s names a known metric unit
func ParseMetricUnit(s string) (MetricUnit, error) {
	for _, u := range MetricUnits {
		if string(u) == s {
			return u, nil
		}
	}
	return "", fmt.Errorf("invalid metric unit %q (expected one of whG, whU, tempC)", s)
}

// MeterReading is a single reading reported by the meter of a site
type MeterReading struct {
	SiteID      int64     `json:"siteId"`
	Timestamp   time.Time `json:"timestamp"`
	WhUsed      float64   `json:"whUsed"`
	WhGenerated float64   `json:"whGenerated"`
	TempC       float64   `json:"tempC"`
}

// ExcessCapacity is the amount of energy generated but not used
func (r MeterReading) ExcessCapacity() float64 {
	return r.WhGenerated - r.WhUsed
}

// Measurement is a single value of a metric series. Timestamps have minute precision.
type Measurement struct {
	SiteID    int64      `json:"siteId"`
	Unit      MetricUnit `json:"unit"`
	Value     float64    `json:"value"`
	Timestamp time.Time  `json:"timestamp"`
}

// --------------------------------------------------------------------------
// Capacity
// --------------------------------------------------------------------------

// SiteCapacity is the entry of a site in the capacity ranking
type SiteCapacity struct {
	SiteID   int64   `json:"siteId"`
	Capacity float64 `json:"capacity"`
}

// CapacityReport lists the sites with the highest and the lowest excess capacity
type CapacityReport struct {
	HighestCapacity []SiteCapacity `json:"highestCapacity"`
	LowestCapacity  []SiteCapacity `json:"lowestCapacity"`
}
