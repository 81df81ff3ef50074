package railroad

import (
	"math"

	"github.com/matzehuels/railroad/pkg/svg"
)

// Stack breaks a long sequence into rows drawn top to bottom. The track
// leaves each row on the right, wraps around underneath it and enters the
// next row from the left; after the last row it climbs back up to exit at
// the first row's connector height.
type Stack struct {
	attrs
	children []Node
	geo      memo
}

const (
	stackSpacing      = ArcRadius
	stackLeftPadding  = 10
	stackRightPadding = 10
)

func NewStack(children ...Node) (*Stack, error) {
	if err := checkChildren("stack", children); err != nil {
		return nil, err
	}
	return &Stack{children: children}, nil
}

// Push appends a row.
func (s *Stack) Push(child Node) error {
	if err := checkPush(s, child); err != nil {
		return err
	}
	s.children = append(s.children, child)
	touch()
	return nil
}

func (s *Stack) Children() []Node { return s.children }

func (s *Stack) leftPadding() float64 {
	if len(s.children) > 1 {
		return max(stackLeftPadding, ArcRadius)
	}
	return 0
}

func (s *Stack) rightPadding() float64 {
	if len(s.children) > 1 {
		return max(stackRightPadding, 2*ArcRadius)
	}
	return 0
}

// rowHeight is the vertical room from the top of row c to the top of the
// row after it.
func rowHeight(c, next Node) float64 {
	return c.EntryHeight() +
		max(HeightBelowEntry(c)+stackSpacing, 2*ArcRadius) +
		ArcRadius +
		max(0, ArcRadius-next.EntryHeight())
}

func (s *Stack) geometry() geometry {
	return s.geo.get(func() geometry {
		n := len(s.children)
		if n == 0 {
			return geometry{}
		}
		last := s.children[n-1]

		var h float64
		for i := 0; i < n-1; i++ {
			h += rowHeight(s.children[i], s.children[i+1])
		}
		h += last.Height()

		w := s.leftPadding() + maxWidth(s.children) + s.rightPadding()
		// Keep the climbing track clear of the wrap arcs of rows at least
		// as wide as the last one.
		for _, c := range s.children[:n-1] {
			if c.Width() >= last.Width() {
				w += ArcRadius
				break
			}
		}
		return geometry{w: w, h: h, eh: s.children[0].EntryHeight()}
	})
}

func (s *Stack) Width() float64       { return s.geometry().w }
func (s *Stack) Height() float64      { return s.geometry().h }
func (s *Stack) EntryHeight() float64 { return s.geometry().eh }

func (s *Stack) Draw(x, y float64, pen Pen) *svg.Element {
	g := s.apply(svg.New("g"), "stack")
	n := len(s.children)
	if n == 0 {
		return frame(g, s, x, y, pen)
	}
	lp := s.leftPadding()
	g.Add(pen.path().MoveTo(x, y+s.EntryHeight()).Horizontal(lp).Element())

	top := y
	for i := 0; i < n-1; i++ {
		c, next := s.children[i], s.children[i+1]
		g.Add(pen.path().
			MoveTo(x+lp+c.Width(), top+c.EntryHeight()).
			Arc(ArcRadius, svg.ArcEastSouth).
			Vertical(max(0, HeightBelowEntry(c)+stackSpacing-2*ArcRadius)).
			Arc(ArcRadius, svg.ArcSouthWest).
			Horizontal(-c.Width()).
			Arc(ArcRadius, svg.ArcWestSouth).
			Vertical(max(0, next.EntryHeight()-ArcRadius)).
			Vertical(max(0, math.Ceil((stackSpacing-2*ArcRadius)/2.0))).
			Arc(ArcRadius, svg.ArcSouthEast).
			Horizontal(lp - ArcRadius).
			Element())
		g.Add(c.Draw(x+lp, top, pen))
		top += rowHeight(c, next)
	}

	last := s.children[n-1]
	if n > 1 {
		w, h := s.Width(), s.Height()
		g.Add(pen.path().
			MoveTo(x+lp+last.Width(), top+last.EntryHeight()).
			Horizontal(w - last.Width() - lp - 2*ArcRadius).
			Arc(ArcRadius, svg.ArcEastNorth).
			Vertical(-h + HeightBelowEntry(last) + 2*ArcRadius + s.EntryHeight()).
			Arc(ArcRadius, svg.ArcNorthEast).
			Element())
	}
	g.Add(last.Draw(x+lp, top, pen))
	return frame(g, s, x, y, pen)
}
