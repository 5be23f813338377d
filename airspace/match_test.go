// airspace/match_test.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package airspace

import (
	"testing"

	"github.com/mmp/openair/math"
)

// shifted returns the polygon translated by the given offsets in degrees.
func shifted(pts []math.Point2LL, dLon, dLat float64) []math.Point2LL {
	out := make([]math.Point2LL, len(pts))
	for i, p := range pts {
		out[i] = math.Point2LL{p[0] + dLon, p[1] + dLat}
	}
	return out
}

func TestPolygonsMatch(t *testing.T) {
	base := square(-100, 40, 0.1)

	for _, tc := range []struct {
		name  string
		a, b  []math.Point2LL
		match bool
	}{
		{"identical", base, base, true},
		{"slightly shifted", base, shifted(base, 0.001, 0.001), true},
		{"far apart", base, shifted(base, 1, 0), false},
		{"centroid just past threshold", base, shifted(base, 0.01, 0), false},
		{"very different size", base, square(-100, 40, 0.2), false},
		{"empty", base, nil, false},
		{"both empty", nil, nil, false},
	} {
		if got := PolygonsMatch(tc.a, tc.b); got != tc.match {
			t.Errorf("%s: PolygonsMatch = %v, expected %v", tc.name, got, tc.match)
		}
	}

	// Vertex counts differing by more than 20% don't match even with
	// identical footprints: resample the square's bottom edge heavily.
	dense := []math.Point2LL{}
	for i := 0; i <= 4; i++ {
		dense = append(dense, math.Point2LL{-100 + 0.025*float64(i), 40})
	}
	dense = append(dense, math.Point2LL{-99.9, 40.1}, math.Point2LL{-100, 40.1}, math.Point2LL{-100, 40})
	if PolygonsMatch(base, dense) {
		t.Errorf("polygons with %d vs %d vertices matched", len(base), len(dense))
	}
}

func TestCirclesMatch(t *testing.T) {
	c := math.Point2LL{-100, 40}

	for _, tc := range []struct {
		name   string
		c0, c1 math.Point2LL
		r0, r1 float64
		match  bool
	}{
		{"identical", c, c, 5, 5, true},
		{"slightly offset center", c, math.Point2LL{-100.001, 40.001}, 5, 5, true},
		{"radii within 5%", c, c, 5, 5.2, true},
		{"radii past 5%", c, c, 5, 5.5, false},
		{"centers far apart", c, math.Point2LL{-101, 40}, 5, 5, false},
	} {
		if got := CirclesMatch(tc.c0, tc.r0, tc.c1, tc.r1); got != tc.match {
			t.Errorf("%s: CirclesMatch = %v, expected %v", tc.name, got, tc.match)
		}
	}
}

func TestMatch(t *testing.T) {
	center := math.Point2LL{-100.05, 40.05}

	polyA := Record{
		Type:     "Restricted",
		Polygon:  square(-100, 40, 0.1),
		Altitude: &AltitudeBand{Floor: 0, Ceiling: 5000},
	}
	polyB := Record{
		Type:     "Restricted",
		Polygon:  shifted(polyA.Polygon, 0.001, 0),
		Altitude: &AltitudeBand{Floor: 0, Ceiling: 5000},
	}
	if !Match(&polyA, &polyB) {
		t.Errorf("near-identical polygons with equal altitudes should match")
	}

	// Any altitude difference prevents a match.
	higher := polyB
	higher.Altitude = &AltitudeBand{Floor: 0, Ceiling: 6000}
	if Match(&polyA, &higher) {
		t.Errorf("records with different ceilings matched")
	}

	// A missing altitude band means the defaults, which can still match
	// an explicit equal band.
	defaulted := polyB
	defaulted.Altitude = nil
	explicit := polyA
	explicit.Altitude = &AltitudeBand{Floor: 0, Ceiling: DefaultCeiling}
	if !Match(&explicit, &defaulted) {
		t.Errorf("default altitude band should equal explicit 0-18000")
	}

	// Different geometry kinds never match, even at the same location.
	circle := Record{
		Type:        "Restricted",
		Coordinates: &center,
		RadiusNM:    4,
		Altitude:    &AltitudeBand{Floor: 0, Ceiling: 5000},
	}
	if Match(&polyA, &circle) {
		t.Errorf("polygon matched against circle")
	}

	// Point-only records never match anything.
	pt := Record{Type: "Restricted", Coordinates: &center, Altitude: &AltitudeBand{Floor: 0, Ceiling: 5000}}
	if Match(&pt, &pt) {
		t.Errorf("point-only records should never match")
	}
}
