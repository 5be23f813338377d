// math/latlong.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	"regexp"
	"strconv"
)

// OpenAir coordinates are sexagesimal with colon separators and a
// trailing hemisphere letter, e.g. "40:57:30 N" or "40:57:30.123 S". The
// seconds field may carry a decimal fraction; whitespace before the
// hemisphere letter is optional.
var (
	reCoordinate = regexp.MustCompile(`(\d{1,3}):(\d{1,2}):(\d{1,2}(?:\.\d+)?)\s*([NSEW])`)
	reCoordPair  = regexp.MustCompile(`(\d{1,3}):(\d{1,2}):(\d{1,2}(?:\.\d+)?)\s*([NS])[\s,]+(\d{1,3}):(\d{1,2}):(\d{1,2}(?:\.\d+)?)\s*([EW])`)
)

// ParseDMS parses a single "DD:MM:SS.S <dir>" token into signed decimal
// degrees; S and W hemispheres negate the magnitude.
func ParseDMS(token string) (float64, error) {
	m := reCoordinate.FindStringSubmatch(token)
	if m == nil {
		return 0, fmt.Errorf("%q: not a DD:MM:SS coordinate", token)
	}
	return dmsToDegrees(m[1], m[2], m[3], m[4])
}

func dmsToDegrees(deg, minutes, sec, hemisphere string) (float64, error) {
	d, err := strconv.Atoi(deg)
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, err
	}
	s, err := strconv.ParseFloat(sec, 64)
	if err != nil {
		return 0, err
	}

	v := float64(d) + float64(m)/60 + s/3600
	if hemisphere == "S" || hemisphere == "W" {
		v = -v
	}
	return v, nil
}

// ParseLatLong extracts a latitude-longitude pair from a free-form line
// containing two DMS tokens (latitude with N/S first, then longitude with
// E/W). The returned Boolean indicates whether a pair was found; callers
// treat absence as "no coordinate here" rather than an error, since
// OpenAir files mix strict and loose formatting.
func ParseLatLong(line string) (Point2LL, bool) {
	m := reCoordPair.FindStringSubmatch(line)
	if m == nil {
		return Point2LL{}, false
	}

	lat, err := dmsToDegrees(m[1], m[2], m[3], m[4])
	if err != nil {
		return Point2LL{}, false
	}
	lon, err := dmsToDegrees(m[5], m[6], m[7], m[8])
	if err != nil {
		return Point2LL{}, false
	}

	p := Point2LL{lon, lat}
	if !p.Valid() {
		return Point2LL{}, false
	}
	return p, true
}

// ParseLatLongs extracts all latitude-longitude pairs present in the
// line, in order. The OpenAir DB record carries two pairs separated by a
// comma.
func ParseLatLongs(line string) []Point2LL {
	var pts []Point2LL
	for _, m := range reCoordPair.FindAllStringSubmatch(line, -1) {
		lat, err := dmsToDegrees(m[1], m[2], m[3], m[4])
		if err != nil {
			continue
		}
		lon, err := dmsToDegrees(m[5], m[6], m[7], m[8])
		if err != nil {
			continue
		}
		if p := (Point2LL{lon, lat}); p.Valid() {
			pts = append(pts, p)
		}
	}
	return pts
}
