package railroad

import (
	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/svg"
)

// Start marks the entry of a diagram with two vertical bars.
type Start struct{}

func NewStart() *Start { return &Start{} }

func (*Start) Width() float64       { return 20 }
func (*Start) Height() float64      { return 20 }
func (*Start) EntryHeight() float64 { return 10 }

func (s *Start) Draw(x, y float64, pen Pen) *svg.Element {
	el := pen.path().
		MoveTo(x, y).
		Vertical(20).
		MoveRel(10, -20).
		Vertical(20).
		MoveRel(-10, -10).
		Horizontal(20).
		Element()
	return frame(el, s, x, y, pen)
}

// End marks the exit of a diagram with two vertical bars.
type End struct{}

func NewEnd() *End { return &End{} }

func (*End) Width() float64       { return 20 }
func (*End) Height() float64      { return 20 }
func (*End) EntryHeight() float64 { return 10 }

func (e *End) Draw(x, y float64, pen Pen) *svg.Element {
	el := pen.path().
		MoveTo(x, y+10).
		Horizontal(20).
		MoveRel(-10, -10).
		Vertical(20).
		MoveRel(10, -20).
		Vertical(20).
		Element()
	return frame(el, e, x, y, pen)
}

// SimpleStart marks the entry of a diagram with a small circle.
type SimpleStart struct{}

func NewSimpleStart() *SimpleStart { return &SimpleStart{} }

func (*SimpleStart) Width() float64       { return 15 }
func (*SimpleStart) Height() float64      { return 10 }
func (*SimpleStart) EntryHeight() float64 { return 5 }

func (s *SimpleStart) Draw(x, y float64, pen Pen) *svg.Element {
	el := circle(pen.path().MoveTo(x, y+5)).
		MoveRel(10, 0).
		Horizontal(5).
		Element()
	return frame(el, s, x, y, pen)
}

// SimpleEnd marks the exit of a diagram with a small circle.
type SimpleEnd struct{}

func NewSimpleEnd() *SimpleEnd { return &SimpleEnd{} }

func (*SimpleEnd) Width() float64       { return 15 }
func (*SimpleEnd) Height() float64      { return 10 }
func (*SimpleEnd) EntryHeight() float64 { return 5 }

func (s *SimpleEnd) Draw(x, y float64, pen Pen) *svg.Element {
	el := circle(pen.path().MoveTo(x, y+5).Horizontal(5)).Element()
	return frame(el, s, x, y, pen)
}

// circle draws a closed circle of radius 5 whose leftmost point is the
// current point.
func circle(p *svg.PathData) *svg.PathData {
	return p.
		Arc(5, svg.ArcNorthEast).
		Arc(5, svg.ArcEastSouth).
		Arc(5, svg.ArcSouthWest).
		Arc(5, svg.ArcWestNorth)
}

// Empty has no size and draws nothing. It is the skip branch of an
// Optional, the default loop-back of a Repeat and the default box label.
type Empty struct{}

func NewEmpty() *Empty { return &Empty{} }

func (*Empty) Width() float64       { return 0 }
func (*Empty) Height() float64      { return 0 }
func (*Empty) EntryHeight() float64 { return 0 }

func (e *Empty) Draw(x, y float64, pen Pen) *svg.Element {
	return frame(svg.New("g"), e, x, y, pen)
}

// Debug is a plain rectangle of explicit size, for checking layouts.
type Debug struct {
	attrs
	w, h, eh float64
}

// NewDebug returns a rectangle w wide and h high with its connector eh below
// the top edge.
func NewDebug(w, h, eh float64) (*Debug, error) {
	for _, v := range []struct {
		what string
		v    float64
	}{{"debug width", w}, {"debug height", h}, {"debug entry height", eh}} {
		if err := errors.ValidateMeasure(v.what, v.v); err != nil {
			return nil, err
		}
	}
	if eh > h {
		return nil, errors.New(errors.ErrCodeGeometry, "debug entry height %v exceeds height %v", eh, h)
	}
	return &Debug{w: w, h: h, eh: eh}, nil
}

func (d *Debug) Width() float64       { return d.w }
func (d *Debug) Height() float64      { return d.h }
func (d *Debug) EntryHeight() float64 { return d.eh }

func (d *Debug) Draw(x, y float64, pen Pen) *svg.Element {
	el := svg.New("rect").
		SetNum("x", x).
		SetNum("y", y).
		SetNum("width", d.w).
		SetNum("height", d.h).
		Set("style", "fill: hsla(0, 100%, 90%, 0.9); stroke-width: 2; stroke: red")
	return frame(d.apply(el, "debug"), d, x, y, pen)
}
