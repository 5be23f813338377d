// airspace/query.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package airspace

import (
	gomath "math"

	"github.com/mmp/openair/math"
	"github.com/mmp/openair/util"
)

// PointInPolygon reports whether the point lies inside the polygon,
// applying a bounding-box rejection test before the precise even-odd
// ray-casting test. Degenerate polygons never contain anything.
func PointInPolygon(p math.Point2LL, poly []math.Point2LL) bool {
	if !IsValidPolygon(poly) {
		return false
	}
	if !math.Extent2DFromP2LLs(poly).Inside(p) {
		return false
	}
	return math.PointInPolygon2LL(p, poly)
}

// PointInCircle reports whether the point is within radiusNM nautical
// miles of the center.
func PointInCircle(p math.Point2LL, center math.Point2LL, radiusNM float64) bool {
	return math.NMDistance2LL(p, center) <= radiusNM
}

// ContainsPoint reports whether the record's airspace contains the given
// point, preferring the cached bounds for O(1) rejection. An airspace
// with neither a polygon nor a circle never contains any point.
func (r *Record) ContainsPoint(p math.Point2LL) bool {
	if r.Bounds != nil && !r.Bounds.Inside(p) {
		return false
	}

	switch r.Kind() {
	case GeometryPolygon:
		return PointInPolygon(p, r.Polygon)
	case GeometryCircle:
		return PointInCircle(p, *r.Coordinates, r.RadiusNM)
	default:
		return false
	}
}

// FindAtPoint returns all airspaces containing the point. A point may be
// inside multiple overlapping airspaces, so every record is tested.
func FindAtPoint(p math.Point2LL, recs []Record) []Record {
	return util.FilterSlice(recs, func(r Record) bool { return r.ContainsPoint(p) })
}

// FindNearby returns airspaces within radiusKm of the point: exact
// containment hits, circular airspaces whose center is within the
// airspace radius plus the search radius, and polygonal airspaces whose
// bounding box falls within a degree buffer of the search radius. The
// polygon case is deliberately optimistic--a bounding-box proximity hit
// is accepted without a precise polygon-to-circle distance computation,
// trading false positives for speed, since it feeds informational
// displays rather than safety-critical decisions.
func FindNearby(p math.Point2LL, radiusKm float64, recs []Record) []Record {
	radiusNM := radiusKm * math.NMPerKM

	return util.FilterSlice(recs, func(r Record) bool {
		if r.ContainsPoint(p) {
			return true
		}

		switch r.Kind() {
		case GeometryCircle:
			return math.NMDistance2LL(p, *r.Coordinates) <= r.RadiusNM+radiusNM

		case GeometryPolygon:
			bounds := r.Bounds
			if bounds == nil {
				e := math.Extent2DFromP2LLs(r.Polygon)
				bounds = &e
			}
			dLat := radiusKm / math.KMPerLatitude
			kmPerLongitude := math.KMPerLatitude * gomath.Cos(math.Radians(p.Latitude()))
			dLon := dLat
			if kmPerLongitude > 1 {
				dLon = radiusKm / kmPerLongitude
			}
			return bounds.ExpandXY(dLon, dLat).Inside(p)

		default:
			return false
		}
	})
}

// PolygonIntersects reports whether the query polygon intersects the
// record's airspace. The polygon-polygon case is an approximate test:
// true if any vertex of either polygon lies inside the other. It can miss
// intersections where the boundaries cross without either polygon
// containing a vertex of the other; that approximation is accepted, not a
// bug to fix. For circles it tests whether the center lies inside the
// query polygon or any query vertex lies inside the circle.
func PolygonIntersects(query []math.Point2LL, r *Record) bool {
	if len(query) < 3 {
		return false
	}

	switch r.Kind() {
	case GeometryPolygon:
		for _, v := range r.Polygon {
			if PointInPolygon(v, query) {
				return true
			}
		}
		for _, v := range query {
			if PointInPolygon(v, r.Polygon) {
				return true
			}
		}
		return false

	case GeometryCircle:
		if PointInPolygon(*r.Coordinates, query) {
			return true
		}
		for _, v := range query {
			if PointInCircle(v, *r.Coordinates, r.RadiusNM) {
				return true
			}
		}
		return false

	case GeometryPoint:
		// Degraded fallback geometry: all we can do is test the
		// representative point.
		return PointInPolygon(*r.Coordinates, query)

	default:
		return false
	}
}

// FindInPolygon returns all airspaces that (approximately) intersect the
// query polygon.
func FindInPolygon(query []math.Point2LL, recs []Record) []Record {
	return util.FilterSlice(recs, func(r Record) bool { return PolygonIntersects(query, &r) })
}
