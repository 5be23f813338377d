// math/math.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package math provides geometry and latitude-longitude utilities for
// working with airspace definitions: coordinate parsing, great-circle
// distance/bearing/projection in nautical miles, bounding boxes, and
// point-in-polygon testing.
package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// EarthRadiusNM is the mean Earth radius expressed in nautical miles, the
// aviation-standard unit used throughout.
const EarthRadiusNM = 3440.065

const NMPerLatitude = 60

// KMPerLatitude is the approximate extent of one degree of latitude in
// kilometers, used for cheap degree-buffer computations.
const KMPerLatitude = 111

const NMPerKM = 1 / 1.852

///////////////////////////////////////////////////////////////////////////
// core math

// Degrees converts an angle expressed in radians to degrees.
func Degrees(r float64) float64 {
	return r * 180 / gomath.Pi
}

// Radians converts an angle expressed in degrees to radians.
func Radians(d float64) float64 {
	return d / 180 * gomath.Pi
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

func Lerp(x, a, b float64) float64 {
	return (1-x)*a + x*b
}

// NormalizeHeading reduces a heading in degrees to [0,360).
func NormalizeHeading(h float64) float64 {
	if h < 0 {
		return 360 - NormalizeHeading(-h)
	}
	return gomath.Mod(h, 360)
}

///////////////////////////////////////////////////////////////////////////
// Point2LL

// Point2LL represents a 2D point on the Earth in latitude-longitude.
// Important: 0 (x) is longitude, 1 (y) is latitude
type Point2LL [2]float64

func (p Point2LL) Longitude() float64 {
	return p[0]
}

func (p Point2LL) Latitude() float64 {
	return p[1]
}

func (p Point2LL) IsZero() bool {
	return p[0] == 0 && p[1] == 0
}

// Valid reports whether the point holds finite coordinates within the
// legal latitude-longitude ranges. NaN coordinates are invalid.
func (p Point2LL) Valid() bool {
	if gomath.IsNaN(p[0]) || gomath.IsNaN(p[1]) || gomath.IsInf(p[0], 0) || gomath.IsInf(p[1], 0) {
		return false
	}
	return Abs(p.Latitude()) <= 90 && Abs(p.Longitude()) <= 180
}

// NMDistance2LL returns the great-circle distance in nautical miles
// between two provided lat-long coordinates, via the haversine formula.
func NMDistance2LL(a Point2LL, b Point2LL) float64 {
	// https://www.movable-type.co.uk/scripts/latlong.html
	lat1, lon1 := Radians(a.Latitude()), Radians(a.Longitude())
	lat2, lon2 := Radians(b.Latitude()), Radians(b.Longitude())
	dlat, dlon := lat2-lat1, lon2-lon1

	x := Sqr(gomath.Sin(dlat/2)) + gomath.Cos(lat1)*gomath.Cos(lat2)*Sqr(gomath.Sin(dlon/2))
	c := 2 * gomath.Atan2(gomath.Sqrt(x), gomath.Sqrt(1-x))
	return EarthRadiusNM * c
}

// Bearing2LL returns the initial great-circle bearing in degrees [0,360)
// from the point |from| to the point |to|.
func Bearing2LL(from Point2LL, to Point2LL) float64 {
	lat1, lon1 := Radians(from.Latitude()), Radians(from.Longitude())
	lat2, lon2 := Radians(to.Latitude()), Radians(to.Longitude())
	dlon := lon2 - lon1

	y := gomath.Sin(dlon) * gomath.Cos(lat2)
	x := gomath.Cos(lat1)*gomath.Sin(lat2) - gomath.Sin(lat1)*gomath.Cos(lat2)*gomath.Cos(dlon)
	return NormalizeHeading(Degrees(gomath.Atan2(y, x)))
}

// Destination2LL projects the given point along the given bearing (in
// degrees) for the given distance (in nautical miles) and returns the
// resulting point.
func Destination2LL(p Point2LL, bearing float64, distanceNM float64) Point2LL {
	d := distanceNM / EarthRadiusNM // angular distance
	br := Radians(bearing)
	lat1, lon1 := Radians(p.Latitude()), Radians(p.Longitude())

	sinLat2 := gomath.Sin(lat1)*gomath.Cos(d) + gomath.Cos(lat1)*gomath.Sin(d)*gomath.Cos(br)
	lat2 := gomath.Asin(sinLat2)
	y := gomath.Sin(br) * gomath.Sin(d) * gomath.Cos(lat1)
	x := gomath.Cos(d) - gomath.Sin(lat1)*sinLat2
	lon2 := lon1 + gomath.Atan2(y, x)

	return Point2LL{Degrees(lon2), Degrees(lat2)}
}

// DegDistance2LL returns the Euclidean distance between two points
// measured directly in degrees; it is the cheap metric used by the
// similarity heuristics, not a geodesic.
func DegDistance2LL(a Point2LL, b Point2LL) float64 {
	return gomath.Hypot(a[0]-b[0], a[1]-b[1])
}
