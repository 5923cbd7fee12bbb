package model

import (
	"strings"
	"time"
)

// Status is the legal status category of a state.
type Status string

const (
	StatusLegal      Status = "Legal"
	StatusRestricted Status = "Restricted"
	StatusBanned     Status = "Banned"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusLegal, StatusRestricted, StatusBanned}

// Valid reports whether s is one of the closed status values.
func (s Status) Valid() bool {
	switch s {
	case StatusLegal, StatusRestricted, StatusBanned:
		return true
	}
	return false
}

// ParseStatus matches s case-insensitively against the closed status values.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// Region is the census-style grouping tag of a state.
type Region string

const (
	RegionNortheast Region = "northeast"
	RegionMidwest   Region = "midwest"
	RegionSouth     Region = "south"
	RegionWest      Region = "west"
)

// Regions lists every valid region.
var Regions = []Region{RegionNortheast, RegionMidwest, RegionSouth, RegionWest}

// Valid reports whether r is one of the closed region values.
func (r Region) Valid() bool {
	switch r {
	case RegionNortheast, RegionMidwest, RegionSouth, RegionWest:
		return true
	}
	return false
}

// ParseRegion matches s case-insensitively against the closed region values.
func ParseRegion(s string) (Region, bool) {
	for _, r := range Regions {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, true
		}
	}
	return "", false
}

// View is the metric lens that drives default ranking and map coloring.
type View string

const (
	ViewTotal      View = "total"
	ViewRate       View = "rate"
	ViewPercentage View = "percentage"
)

// Views lists every valid view.
var Views = []View{ViewTotal, ViewRate, ViewPercentage}

// RegionStat is one state's row in the dataset.
type RegionStat struct {
	ID     int     `json:"id" firestore:"id"`
	Key    string  `json:"stateId" firestore:"stateId"`
	Name   string  `json:"stateName" firestore:"stateName"`
	Count  int     `json:"count" firestore:"count"`
	Rate   float64 `json:"rate" firestore:"rate"`
	Change float64 `json:"change" firestore:"change"`
	Status Status  `json:"status" firestore:"status"`
	Region Region  `json:"region" firestore:"region"`
	Year   int     `json:"year" firestore:"year"`
}

// Metric returns the value shown for the given view.
func (r RegionStat) Metric(v View) float64 {
	switch v {
	case ViewRate:
		return r.Rate
	case ViewPercentage:
		return r.Change
	default:
		return float64(r.Count)
	}
}

// StatusShare is the count and raw percentage of states with one status.
type StatusShare struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// StatusBreakdown groups the per-status shares.
type StatusBreakdown struct {
	Legal      StatusShare `json:"legal"`
	Restricted StatusShare `json:"restricted"`
	Banned     StatusShare `json:"banned"`
}

// SummaryStatistics holds the national-level numbers shown in the summary panel.
type SummaryStatistics struct {
	TotalCount    int             `json:"totalCount"`
	AverageRate   float64         `json:"averageRate"`
	AverageChange float64         `json:"averageChange"`
	TopStates     []RegionStat    `json:"topStates"`
	LegalStatus   StatusBreakdown `json:"legalStatus"`
}

// Feature is one geographic shape as seen by the map pipeline: only its property bag matters.
type Feature struct {
	ID         string         `json:"id,omitempty"`
	Properties map[string]any `json:"properties"`
}

// Color is an indexed palette entry. Bucket is -1 for the neutral fill.
type Color struct {
	Bucket int    `json:"bucket"`
	Hex    string `json:"color"`
}

// FeatureFill is the computed appearance of one feature.
type FeatureFill struct {
	FeatureID string   `json:"featureId,omitempty"`
	Key       string   `json:"stateId,omitempty"`
	Resolved  bool     `json:"resolved"`
	Value     *float64 `json:"value,omitempty"`
	Color
}

// LegendEntry describes one bucket of a color scale. Max is nil for an open-ended top bucket.
type LegendEntry struct {
	Color string   `json:"color"`
	Label string   `json:"label"`
	Min   float64  `json:"min"`
	Max   *float64 `json:"max,omitempty"`
}

// Legend is the ordered bucket list for a view.
type Legend struct {
	View    View          `json:"view"`
	Entries []LegendEntry `json:"entries"`
}

// MapResponse is the full map payload for one render.
type MapResponse struct {
	View       View          `json:"view"`
	Fills      []FeatureFill `json:"fills"`
	Legend     Legend        `json:"legend"`
	Unresolved int           `json:"unresolved"`
}

// Page is one page of table rows.
type Page struct {
	Items      []RegionStat `json:"items"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
}

// DatasetMeta describes the dataset last written to Firestore by the seed tool.
type DatasetMeta struct {
	Records     int       `json:"records" firestore:"records"`
	Fingerprint string    `json:"fingerprint" firestore:"fingerprint"`
	Source      string    `json:"source" firestore:"source"`
	SeededAt    time.Time `json:"seededAt" firestore:"seededAt"`
}

// NormalizeKey canonicalizes a state key for lookups.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}
