// openair/parser.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package openair parses airspace definitions in the OpenAir plain-text
// format, converting arc and circle commands into polyline geometry and
// emitting structured airspace records.
//
// The parser is deliberately best-effort: real-world OpenAir files mix
// strict and loose formatting, so malformed lines are skipped rather than
// failing the file, and strict validation is left to the airspace
// package's filters.
package openair

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mmp/openair/log"
	"github.com/mmp/openair/math"
)

// closeTolerance is how far apart, in degrees, the first and last polygon
// vertices may be before the loop is explicitly closed by re-appending
// the first vertex.
const closeTolerance = 0.0001

// Airspace is a single airspace definition as parsed from OpenAir text;
// altitude text is carried through raw and interpreted by the converter.
type Airspace struct {
	ID          string
	Name        string
	Class       string
	FloorText   string
	CeilingText string

	// Polygon is the accumulated boundary, closed (first vertex repeated
	// at the end) when non-empty.
	Polygon []math.Point2LL
	// Center is the arc/circle center from a V X record; valid only when
	// HasCenter is set.
	Center    math.Point2LL
	HasCenter bool
	// RadiusNM is nonzero for circular airspaces (DC records).
	RadiusNM float64
}

// classLabels maps OpenAir class codes to human-readable labels;
// unrecognized codes pass through verbatim.
var classLabels = map[string]string{
	"A": "Class A",
	"B": "Class B",
	"C": "Class C",
	"D": "Class D",
	"E": "Class E",
	"Q": "Class E",
	"G": "Class G",
	"R": "Restricted",
	"F": "Restricted",
	"P": "Prohibited",
	"W": "Warning",
}

func classLabel(code string) string {
	if label, ok := classLabels[code]; ok {
		return label
	}
	return code
}

// parser is the line-oriented state machine. State is reset each time an
// airspace is closed; the arc direction flag defaults to clockwise.
type parser struct {
	lg *log.Logger

	airspaces []Airspace

	current       *Airspace
	polygon       []math.Point2LL
	arcCenter     math.Point2LL
	haveArcCenter bool
	clockwise     bool

	seq     int
	skipped int
}

// Parse reads OpenAir text and returns the airspace definitions it
// describes. Malformed lines are skipped; airspaces with a name but no
// geometry are dropped at flush time. Empty input yields an empty result,
// never an error. The logger may be nil.
func Parse(text string, lg *log.Logger) []Airspace {
	p := &parser{lg: lg, clockwise: true}

	for _, line := range strings.Split(text, "\n") {
		p.parseLine(strings.TrimSpace(strings.TrimSuffix(line, "\r")))
	}
	p.flush()

	if p.skipped > 0 {
		lg.Debugf("skipped %d unparseable OpenAir lines", p.skipped)
	}
	return p.airspaces
}

func (p *parser) parseLine(line string) {
	switch {
	case line == "" || line == "*":
		// A blank line or a bare "*" ends the current airspace.
		if p.current != nil {
			p.flush()
		}

	case strings.HasPrefix(line, "*"):
		// Comment.

	case strings.HasPrefix(line, "AC "):
		p.flush()
		p.current = &Airspace{Class: classLabel(strings.TrimSpace(line[3:]))}

	case strings.HasPrefix(line, "AN "):
		if p.current != nil {
			p.current.Name = strings.TrimSpace(line[3:])
		}

	case strings.HasPrefix(line, "AL "):
		if p.current != nil {
			p.current.FloorText = strings.TrimSpace(line[3:])
		}

	case strings.HasPrefix(line, "AH "):
		if p.current != nil {
			p.current.CeilingText = strings.TrimSpace(line[3:])
		}

	case strings.HasPrefix(line, "V D="):
		p.clockwise = !strings.HasPrefix(line[4:], "-")

	case strings.HasPrefix(line, "V X="):
		if pt, ok := math.ParseLatLong(line[4:]); ok {
			p.arcCenter = pt
			p.haveArcCenter = true
			if p.current != nil && !p.current.HasCenter {
				p.current.Center = pt
				p.current.HasCenter = true
			}
		} else {
			p.skip(line)
		}

	case strings.HasPrefix(line, "DP "):
		if pt, ok := math.ParseLatLong(line[3:]); ok {
			p.polygon = append(p.polygon, pt)
		} else {
			p.skip(line)
		}

	case strings.HasPrefix(line, "DB "):
		p.parseArcBetween(line)

	case strings.HasPrefix(line, "DC "):
		if r, err := strconv.ParseFloat(strings.TrimSpace(line[3:]), 64); err == nil && p.current != nil {
			p.current.RadiusNM = r
		} else {
			p.skip(line)
		}

	case strings.HasPrefix(line, "DA "):
		p.parseArcByAngles(line)

	default:
		// Unrecognized records (SP, SB, AT, ...) are irrelevant to
		// geometry and silently ignored.
	}
}

// parseArcBetween handles "DB <coord1>,<coord2>": an arc around the
// current center between two boundary points. The arc's actual start is
// the last already-accumulated polygon point when one exists (falling
// back to coord1); the end is coord2.
func (p *parser) parseArcBetween(line string) {
	pts := math.ParseLatLongs(line[3:])
	if len(pts) < 2 || !p.haveArcCenter {
		p.skip(line)
		return
	}

	start := pts[0]
	if len(p.polygon) > 0 {
		start = p.polygon[len(p.polygon)-1]
	}

	seg := ArcToPolygonPoints(Arc{
		Center:    p.arcCenter,
		Start:     start,
		End:       pts[1],
		Clockwise: p.clockwise,
	}, DefaultArcAnglePoints)

	if len(p.polygon) > 0 {
		// The first sampled point duplicates the polygon's last vertex.
		seg = seg[1:]
	}
	p.polygon = append(p.polygon, seg...)
}

// parseArcByAngles handles "DA <radius>,<startAngle>,<endAngle>": an arc
// around the current center given by radius and compass angles.
func (p *parser) parseArcByAngles(line string) {
	fields := strings.Split(line[3:], ",")
	if len(fields) != 3 || !p.haveArcCenter {
		p.skip(line)
		return
	}

	var vals [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			p.skip(line)
			return
		}
		vals[i] = v
	}

	seg := ArcByAngles(p.arcCenter, vals[0], vals[1], vals[2], p.clockwise, DefaultArcAnglePoints)
	p.polygon = append(p.polygon, seg...)
}

func (p *parser) skip(line string) {
	p.skipped++
	p.lg.Debugf("skipping unparseable OpenAir line %q", line)
}

// flush closes out the current airspace, emitting it if it has both a
// name and some geometry (a polygon, or a center coordinate), and resets
// the parser state for the next one.
func (p *parser) flush() {
	if p.current != nil {
		a := *p.current
		a.Polygon = closeLoop(p.polygon)

		if a.Name != "" && (len(a.Polygon) > 0 || a.HasCenter) {
			a.ID = fmt.Sprintf("airspace-%d", p.seq)
			p.seq++
			p.airspaces = append(p.airspaces, a)
		}
	}

	p.current = nil
	p.polygon = nil
	p.haveArcCenter = false
	p.clockwise = true
}

// closeLoop re-appends the first vertex if the last vertex differs from
// it by more than closeTolerance in either axis.
func closeLoop(pts []math.Point2LL) []math.Point2LL {
	if len(pts) == 0 {
		return nil
	}

	first, last := pts[0], pts[len(pts)-1]
	if math.Abs(first[0]-last[0]) > closeTolerance || math.Abs(first[1]-last[1]) > closeTolerance {
		pts = append(pts, first)
	}
	return pts
}
