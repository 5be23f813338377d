// airspace/validate.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package airspace

import (
	"github.com/mmp/openair/log"
	"github.com/mmp/openair/math"
	"github.com/mmp/openair/util"
)

// MinPolygonSpan is the minimum bounding-box extent, in degrees, that a
// polygon must have in at least one axis. Rings smaller than this
// (roughly 100m) are degenerate re-digitization noise, not airspace.
const MinPolygonSpan = 0.0009

// IsValidPolygon reports whether the vertex loop describes usable
// airspace geometry: at least 3 vertices, every coordinate finite and in
// range, and a bounding box that spans at least MinPolygonSpan degrees in
// one axis.
func IsValidPolygon(pts []math.Point2LL) bool {
	if len(pts) < 3 {
		return false
	}
	for _, p := range pts {
		if !p.Valid() {
			return false
		}
	}

	e := math.Extent2DFromP2LLs(pts)
	return e.Width() >= MinPolygonSpan || e.Height() >= MinPolygonSpan
}

// validCircle reports whether the record carries a usable circle.
func validCircle(r *Record) bool {
	return r.Coordinates != nil && r.Coordinates.Valid() && r.RadiusNM > 0
}

// FilterValid drops records with no usable geometry. A record with an
// invalid polygon survives if it instead carries a valid circle, or, as a
// last resort, a bare valid coordinate; a record with nothing usable is
// dropped rather than surfaced as an error.
func FilterValid(recs []Record, lg *log.Logger) []Record {
	kept := util.FilterSlice(recs, func(r Record) bool {
		if IsValidPolygon(r.Polygon) {
			return true
		}
		if validCircle(&r) {
			return true
		}
		return r.Coordinates != nil && r.Coordinates.Valid()
	})

	if n := len(recs) - len(kept); n > 0 {
		lg.Debugf("dropped %d airspace records with no usable geometry", n)
	}
	return kept
}
