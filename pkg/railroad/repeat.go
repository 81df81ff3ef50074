package railroad

import (
	"math"

	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/svg"
)

// RepeatSpacing is the vertical gap between the forward path and the
// loop-back path.
const RepeatSpacing = 10

// minIndicatorRun is the shortest free loop-back run that carries the
// loop's direction chevron. Shorter runs put it on the climb back to the
// forward path instead. Runs above svg.ArrowThreshold get one from
// Horizontal.
const minIndicatorRun = 10

// Repeat is a forward path with a loop-back path that leads from its exit
// back to its entry. The loop-back child is drawn right to left. The loop
// runs below the forward path unless [LoopAbove] is given.
type Repeat struct {
	attrs
	inner  Node
	repeat Node
	above  bool
	geo    memo
}

// RepeatOption configures a Repeat.
type RepeatOption func(*Repeat)

// LoopAbove routes the loop-back path above the forward path.
func LoopAbove() RepeatOption { return func(r *Repeat) { r.above = true } }

// NewRepeat returns inner with a loop-back path through repeat. Use an Empty
// repeat for a plain "one or more" loop.
func NewRepeat(inner, repeat Node, opts ...RepeatOption) (*Repeat, error) {
	if inner == nil || repeat == nil {
		return nil, errors.New(errors.ErrCodeInvalidStructure, "repeat needs both a forward and a loop-back branch")
	}
	r := &Repeat{inner: inner, repeat: repeat}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Repeat) Children() []Node { return []Node{r.inner, r.repeat} }

// LoopsAbove reports whether the loop-back path is routed above.
func (r *Repeat) LoopsAbove() bool { return r.above }

// between is the vertical distance from the forward connector to the
// loop-back connector.
func (r *Repeat) between() float64 {
	if r.above {
		return max(2*ArcRadius, r.inner.EntryHeight()+RepeatSpacing+HeightBelowEntry(r.repeat))
	}
	return max(2*ArcRadius, HeightBelowEntry(r.inner)+RepeatSpacing+r.repeat.EntryHeight())
}

func (r *Repeat) geometry() geometry {
	return r.geo.get(func() geometry {
		hb := r.between()
		w := 2*ArcRadius + max(r.inner.Width(), r.repeat.Width())
		if r.above {
			eh := r.repeat.EntryHeight() + hb
			return geometry{w: w, h: eh + HeightBelowEntry(r.inner), eh: eh}
		}
		eh := r.inner.EntryHeight()
		return geometry{w: w, h: eh + hb + HeightBelowEntry(r.repeat), eh: eh}
	})
}

func (r *Repeat) Width() float64       { return r.geometry().w }
func (r *Repeat) Height() float64      { return r.geometry().h }
func (r *Repeat) EntryHeight() float64 { return r.geometry().eh }

func (r *Repeat) Draw(x, y float64, pen Pen) *svg.Element {
	g := r.apply(svg.New("g"), "repeat")
	w, eh, hb := r.Width(), r.EntryHeight(), r.between()
	iw, rw := r.inner.Width(), r.repeat.Width()

	// Free run of the loop-back track left of the loop-back child.
	back := min(0, rw-iw)

	down, turn, rise, join := svg.ArcEastSouth, svg.ArcSouthWest, svg.ArcWestNorth, svg.ArcNorthEast
	sign := 1.0
	if r.above {
		down, turn, rise, join = svg.ArcEastNorth, svg.ArcNorthWest, svg.ArcWestSouth, svg.ArcSouthEast
		sign = -1
	}

	p := pen.path().
		MoveTo(x, y+eh).
		Horizontal(ArcRadius).
		MoveRel(iw, 0).
		Horizontal(max(ArcRadius, rw-iw+ArcRadius)).
		MoveRel(-ArcRadius, 0).
		Arc(ArcRadius, down).
		Vertical(sign * (hb - 2*ArcRadius)).
		Arc(ArcRadius, turn).
		MoveRel(-rw, 0).
		Horizontal(back)
	run := math.Abs(back)
	if run >= minIndicatorRun && run <= svg.ArrowThreshold {
		p.MoveRel(run/2, 0).Arrow(pen.Dir.Invert()).MoveRel(-run/2, 0)
	}
	climb := -sign * (hb - 2*ArcRadius)
	p.Arc(ArcRadius, rise).Vertical(climb)
	if run < minIndicatorRun && math.Abs(climb) <= svg.ArrowThreshold {
		// The loop-back track always shows its direction of travel.
		north := (pen.Dir == svg.LTR) != r.above
		p.MoveRel(0, -climb/2).VArrow(north).MoveRel(0, climb/2)
	}
	p.Arc(ArcRadius, join)
	g.Add(p.Element())

	rx := x + w - rw - ArcRadius
	if r.above {
		g.Add(r.repeat.Draw(rx, y, pen.Reversed()))
		g.Add(r.inner.Draw(x+ArcRadius, y+eh-r.inner.EntryHeight(), pen))
	} else {
		g.Add(r.repeat.Draw(rx, y+eh+hb-r.repeat.EntryHeight(), pen.Reversed()))
		g.Add(r.inner.Draw(x+ArcRadius, y, pen))
	}
	return frame(g, r, x, y, pen)
}
