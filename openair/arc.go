// openair/arc.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package openair

import (
	"github.com/mmp/openair/math"
)

// Default tessellation rates for arc-to-polyline conversion.
const (
	DefaultArcPoints      = 20
	DefaultArcAnglePoints = 30
)

// Arc describes a circular arc by its center and two boundary points; the
// radius is implied by the distance from the center to the start point.
type Arc struct {
	Center    math.Point2LL
	Start     math.Point2LL
	End       math.Point2LL
	Clockwise bool
}

// ArcToPolygonPoints approximates the arc with numPoints+1 points sampled
// evenly along its sweep (including both endpoints).
//
// The sweep angle normalization here is the crux of correct arc
// direction: for clockwise arcs a negative sweep gets 360 added so that
// it lies in [0,360); for counterclockwise arcs a positive sweep gets 360
// subtracted so that it lies in (-360,0]. Always taking the short way
// around instead produces visually wrong airspace shapes.
func ArcToPolygonPoints(a Arc, numPoints int) []math.Point2LL {
	if numPoints <= 0 {
		numPoints = DefaultArcPoints
	}

	radius := math.NMDistance2LL(a.Center, a.Start)
	start := math.Bearing2LL(a.Center, a.Start)
	end := math.Bearing2LL(a.Center, a.End)

	return sampleArc(a.Center, radius, start, end, a.Clockwise, numPoints)
}

// ArcByAngles approximates an arc given explicitly by its center, radius
// in nautical miles, and start/end compass angles in degrees, applying
// the same sweep normalization as ArcToPolygonPoints.
func ArcByAngles(center math.Point2LL, radiusNM, startAngle, endAngle float64, clockwise bool, numPoints int) []math.Point2LL {
	if numPoints <= 0 {
		numPoints = DefaultArcAnglePoints
	}
	return sampleArc(center, radiusNM, startAngle, endAngle, clockwise, numPoints)
}

func sampleArc(center math.Point2LL, radiusNM, start, end float64, clockwise bool, numPoints int) []math.Point2LL {
	sweep := end - start
	if clockwise {
		if sweep < 0 {
			sweep += 360
		}
	} else {
		if sweep > 0 {
			sweep -= 360
		}
	}

	pts := make([]math.Point2LL, 0, numPoints+1)
	for i := 0; i <= numPoints; i++ {
		bearing := start + sweep*float64(i)/float64(numPoints)
		pts = append(pts, math.Destination2LL(center, math.NormalizeHeading(bearing), radiusNM))
	}
	return pts
}
