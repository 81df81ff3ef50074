package svg

import (
	"strings"
)

// HDir is the horizontal direction of travel along a track.
type HDir int

const (
	LTR HDir = iota
	RTL
)

func (d HDir) Invert() HDir {
	if d == LTR {
		return RTL
	}
	return LTR
}

func (d HDir) String() string {
	if d == RTL {
		return "rtl"
	}
	return "ltr"
}

// Arc is a quarter-circle turn, named by the heading before and after the
// turn: ArcEastSouth travels east and bends to head south.
type Arc int

const (
	ArcEastSouth Arc = iota
	ArcEastNorth
	ArcSouthEast
	ArcSouthWest
	ArcNorthEast
	ArcNorthWest
	ArcWestNorth
	ArcWestSouth
)

// ArrowThreshold is the minimum straight run that gets a direction chevron.
const ArrowThreshold = 50

// PathData builds the d attribute of a path. Long horizontal and vertical
// runs get a chevron pointing in the direction of travel.
type PathData struct {
	b   strings.Builder
	dir HDir
}

func NewPath(dir HDir) *PathData { return &PathData{dir: dir} }

func (p *PathData) String() string { return p.b.String() }

// Element returns a <path> element carrying the accumulated data.
func (p *PathData) Element() *Element { return New("path").Set("d", p.String()) }

func (p *PathData) cmd(op string, args ...float64) *PathData {
	p.b.WriteString(" ")
	p.b.WriteString(op)
	for _, a := range args {
		p.b.WriteString(" ")
		p.b.WriteString(Num(a))
	}
	return p
}

func (p *PathData) MoveTo(x, y float64) *PathData  { return p.cmd("M", x, y) }
func (p *PathData) MoveRel(x, y float64) *PathData { return p.cmd("m", x, y) }
func (p *PathData) LineRel(x, y float64) *PathData { return p.cmd("l", x, y) }

// Horizontal draws a horizontal run of length h (negative runs go west).
func (p *PathData) Horizontal(h float64) *PathData {
	p.cmd("h", h)
	back := h/2 - 3
	if p.dir == RTL {
		back = h/2 + 3
	}
	switch {
	case h > ArrowThreshold && p.dir == LTR:
		p.MoveRel(-back, 0).LineRel(-5, -5).MoveRel(0, 10).LineRel(5, -5).MoveRel(back, 0)
	case h > ArrowThreshold && p.dir == RTL:
		p.MoveRel(-back, 0).LineRel(5, -5).MoveRel(0, 10).LineRel(-5, -5).MoveRel(back, 0)
	case h < -ArrowThreshold && p.dir == LTR:
		p.MoveRel(-back, 0).LineRel(5, -5).MoveRel(0, 10).LineRel(-5, -5).MoveRel(back, 0)
	case h < -ArrowThreshold && p.dir == RTL:
		p.MoveRel(-back, 0).LineRel(-5, -5).MoveRel(0, 10).LineRel(5, -5).MoveRel(back, 0)
	}
	return p
}

// Vertical draws a vertical run of length v (negative runs go north).
func (p *PathData) Vertical(v float64) *PathData {
	p.cmd("v", v)
	back := v/2 - 3
	switch {
	case v > ArrowThreshold:
		p.MoveRel(0, -back).LineRel(-5, -5).MoveRel(10, 0).LineRel(-5, 5).MoveRel(0, back)
	case v < -ArrowThreshold:
		p.MoveRel(0, -back).LineRel(-5, 5).MoveRel(10, 0).LineRel(-5, -5).MoveRel(0, back)
	}
	return p
}

// Arrow draws a chevron at the current point without moving it, pointing
// along dir. It marks short runs that must still show their direction.
func (p *PathData) Arrow(dir HDir) *PathData {
	if dir == LTR {
		return p.LineRel(-5, -5).MoveRel(0, 10).LineRel(5, -5)
	}
	return p.LineRel(5, -5).MoveRel(0, 10).LineRel(-5, -5)
}

// VArrow is Arrow for vertical tracks: the chevron points north or south.
func (p *PathData) VArrow(north bool) *PathData {
	if north {
		return p.LineRel(-5, 5).MoveRel(10, 0).LineRel(-5, -5)
	}
	return p.LineRel(-5, -5).MoveRel(10, 0).LineRel(-5, 5)
}

// Arc draws a quarter circle of radius r.
func (p *PathData) Arc(r float64, kind Arc) *PathData {
	var sweep, dx, dy float64
	switch kind {
	case ArcEastSouth:
		sweep, dx, dy = 1, r, r
	case ArcEastNorth:
		sweep, dx, dy = 0, r, -r
	case ArcSouthEast:
		sweep, dx, dy = 0, r, r
	case ArcSouthWest:
		sweep, dx, dy = 1, -r, r
	case ArcNorthEast:
		sweep, dx, dy = 1, r, -r
	case ArcNorthWest:
		sweep, dx, dy = 0, -r, -r
	case ArcWestNorth:
		sweep, dx, dy = 1, -r, -r
	case ArcWestSouth:
		sweep, dx, dy = 0, -r, r
	}
	return p.cmd("a", r, r, 0, 0, sweep, dx, dy)
}
