// airspace/record.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package airspace defines the canonical airspace record entity and the
// operations over collections of records: validity filtering, similarity
// matching, consolidation of near-duplicate records, and spatial queries.
package airspace

import (
	gomath "math"
	"time"

	"github.com/mmp/openair/math"
)

// DefaultCeiling is assumed when no ceiling altitude can be parsed from
// the source text.
const DefaultCeiling = 18000

// Source identifies where a record came from; it prefixes record ids.
type Source string

const (
	SourceUS   Source = "US"
	SourceCA   Source = "CA"
	SourceUser Source = "USER"
)

type AltitudeBand struct {
	Floor   int `json:"floor"`   // feet
	Ceiling int `json:"ceiling"` // feet
}

// Metadata records the provenance of a record. It is attached late and is
// not part of geometric identity.
type Metadata struct {
	FileName string    `json:"fileName,omitempty"`
	FileSize int64     `json:"fileSize,omitempty"`
	Modified time.Time `json:"modified,omitempty"`
	Source   string    `json:"source,omitempty"`
}

// Record is the canonical airspace entity. Exactly one geometry kind is
// expected to be present: a polygon, a circle (coordinates+radius), or a
// bare representative coordinate as a degraded fallback; Kind reports
// which. Records are never mutated after creation--consolidation
// synthesizes new records rather than editing constituents.
type Record struct {
	ID          string `json:"id"`
	NotamNumber string `json:"notamNumber"`
	Location    string `json:"location"`
	Type        string `json:"type"`

	// Representative point: circle center, or first polygon vertex.
	Coordinates *math.Point2LL `json:"coordinates,omitempty"`
	// Nautical miles; present only for circular airspaces.
	RadiusNM float64 `json:"radius,omitempty"`
	// Closed vertex loop; present only for polygonal airspaces.
	Polygon []math.Point2LL `json:"polygon,omitempty"`

	Altitude *AltitudeBand `json:"altitude,omitempty"`

	// Derived bounding box, used purely as a fast-reject cache; must be
	// recomputed whenever geometry changes.
	Bounds *math.Extent2D `json:"bounds,omitempty"`

	Metadata *Metadata `json:"metadata,omitempty"`

	EffectiveStart time.Time `json:"effectiveStart,omitempty"`
	EffectiveEnd   time.Time `json:"effectiveEnd,omitempty"`

	// Human-readable summary, set when records are merged.
	Message string `json:"message,omitempty"`
}

type GeometryKind int

const (
	GeometryNone GeometryKind = iota
	GeometryPolygon
	GeometryCircle
	GeometryPoint
)

// Kind reports which geometry the record carries. A polygon wins over a
// circle if both are somehow present, matching how queries prioritize.
func (r *Record) Kind() GeometryKind {
	switch {
	case len(r.Polygon) > 0:
		return GeometryPolygon
	case r.Coordinates != nil && r.RadiusNM > 0:
		return GeometryCircle
	case r.Coordinates != nil:
		return GeometryPoint
	default:
		return GeometryNone
	}
}

// AltitudeBand returns the record's altitude band, substituting the
// documented defaults (floor 0, ceiling 18000) when absent.
func (r *Record) AltitudeBand() AltitudeBand {
	if r.Altitude == nil {
		return AltitudeBand{Floor: 0, Ceiling: DefaultCeiling}
	}
	return *r.Altitude
}

// ComputeBounds derives the record's bounding box from its geometry and
// caches it. Circles get a box that conservatively encloses the radius;
// point-only records get a degenerate box at the point.
func (r *Record) ComputeBounds() {
	switch r.Kind() {
	case GeometryPolygon:
		e := math.Extent2DFromP2LLs(r.Polygon)
		r.Bounds = &e

	case GeometryCircle:
		c := *r.Coordinates
		dLat := r.RadiusNM / math.NMPerLatitude
		nmPerLongitude := math.NMPerLatitude * gomath.Cos(math.Radians(c.Latitude()))
		dLon := dLat
		if nmPerLongitude > 1 {
			dLon = r.RadiusNM / nmPerLongitude
		}
		e := math.Extent2D{
			P0: [2]float64{c[0] - dLon, c[1] - dLat},
			P1: [2]float64{c[0] + dLon, c[1] + dLat}}
		r.Bounds = &e

	case GeometryPoint:
		c := *r.Coordinates
		e := math.Extent2D{P0: c, P1: c}
		r.Bounds = &e

	default:
		r.Bounds = nil
	}
}
