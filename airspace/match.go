// airspace/match.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package airspace

import (
	"github.com/mmp/openair/math"
)

// Similarity thresholds. OpenAir sources routinely re-digitize the same
// real-world boundary with slightly different vertex sampling, so these
// are deliberately approximate matches, not exact congruence tests.
const (
	// Maximum centroid/center separation in degrees (~0.5 NM).
	maxCenterDistance = 0.008
	// Maximum relative difference in polygon vertex counts.
	maxVertexCountRatio = 0.2
	// Maximum relative difference in bounding-box width/height.
	maxExtentRatio = 0.1
	// Maximum relative difference in circle radii.
	maxRadiusRatio = 0.05
)

// PolygonsMatch reports whether two polygons describe "the same shape":
// vertex counts within 20% of the larger, centroids within 0.008 degrees,
// and bounding-box width and height each within 10% relatively.
func PolygonsMatch(a, b []math.Point2LL) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	na, nb := float64(len(a)), float64(len(b))
	if math.Abs(na-nb)/max(na, nb) > maxVertexCountRatio {
		return false
	}

	if math.DegDistance2LL(math.Centroid2LL(a), math.Centroid2LL(b)) > maxCenterDistance {
		return false
	}

	ea, eb := math.Extent2DFromP2LLs(a), math.Extent2DFromP2LLs(b)
	if !relativeClose(ea.Width(), eb.Width(), maxExtentRatio) {
		return false
	}
	return relativeClose(ea.Height(), eb.Height(), maxExtentRatio)
}

// CirclesMatch reports whether two circles are near-identical: centers
// within 0.008 degrees and radii within 5% relatively.
func CirclesMatch(c0 math.Point2LL, r0 float64, c1 math.Point2LL, r1 float64) bool {
	if math.DegDistance2LL(c0, c1) > maxCenterDistance {
		return false
	}
	return relativeClose(r0, r1, maxRadiusRatio)
}

func relativeClose(a, b, maxRatio float64) bool {
	m := max(math.Abs(a), math.Abs(b))
	if m == 0 {
		return true
	}
	return math.Abs(a-b)/m < maxRatio
}

// Match reports whether two records describe the same real-world
// airspace: identical altitude floor and ceiling, and near-identical
// geometry of the same kind. Records carrying different geometry kinds
// never match.
func Match(a, b *Record) bool {
	if a.AltitudeBand() != b.AltitudeBand() {
		return false
	}

	ka, kb := a.Kind(), b.Kind()
	if ka != kb {
		return false
	}
	switch ka {
	case GeometryPolygon:
		return PolygonsMatch(a.Polygon, b.Polygon)
	case GeometryCircle:
		return CirclesMatch(*a.Coordinates, a.RadiusNM, *b.Coordinates, b.RadiusNM)
	default:
		return false
	}
}
