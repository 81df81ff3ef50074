package railroad

import (
	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/svg"
)

// SequenceSpacing is the length of the track between consecutive children.
const SequenceSpacing = 10

// Sequence lays its children out left to right on one straight track.
// Every child is shifted vertically so that its connector lines up with the
// tallest child's.
type Sequence struct {
	attrs
	children []Node
	geo      memo
}

// NewSequence returns a sequence of the given children. It may be empty.
func NewSequence(children ...Node) (*Sequence, error) {
	if err := checkChildren("sequence", children); err != nil {
		return nil, err
	}
	return &Sequence{children: children}, nil
}

// Push appends a child, invalidating cached geometry of the sequence and
// every composite that contains it.
func (s *Sequence) Push(child Node) error {
	if err := checkPush(s, child); err != nil {
		return err
	}
	s.children = append(s.children, child)
	touch()
	return nil
}

func (s *Sequence) Children() []Node { return s.children }

func (s *Sequence) geometry() geometry {
	return s.geo.get(func() geometry {
		var eh, below float64
		for _, c := range s.children {
			eh = max(eh, c.EntryHeight())
			below = max(below, HeightBelowEntry(c))
		}
		w := sumWidth(s.children)
		if n := len(s.children); n > 1 {
			w += float64(n-1) * SequenceSpacing
		}
		return geometry{w: w, h: eh + below, eh: eh}
	})
}

func (s *Sequence) Width() float64       { return s.geometry().w }
func (s *Sequence) Height() float64      { return s.geometry().h }
func (s *Sequence) EntryHeight() float64 { return s.geometry().eh }

func (s *Sequence) Draw(x, y float64, pen Pen) *svg.Element {
	g := s.apply(svg.New("g"), "sequence")
	eh := s.EntryHeight()

	if len(s.children) == 0 {
		g.Add(pen.path().MoveTo(x, y).Horizontal(0).Element())
		return frame(g, s, x, y, pen)
	}

	cx := x
	for i, c := range s.children {
		g.Add(c.Draw(cx, y+eh-c.EntryHeight(), pen))
		cx += c.Width()
		if i < len(s.children)-1 {
			g.Add(pen.path().MoveTo(cx, y+eh).Horizontal(SequenceSpacing).Element())
			cx += SequenceSpacing
		}
	}
	return frame(g, s, x, y, pen)
}

// checkPush rejects nil children and children that already contain parent,
// which would make the tree cyclic.
func checkPush(parent Node, child Node) error {
	if child == nil {
		return errors.New(errors.ErrCodeInvalidStructure, "cannot push nil child into %s", Kind(parent))
	}
	cyclic := false
	Walk(child, func(n Node, _ int) bool {
		if n == parent {
			cyclic = true
		}
		return !cyclic
	})
	if cyclic {
		return errors.New(errors.ErrCodeInvalidStructure, "pushing %s into itself would create a cycle", Kind(parent))
	}
	return nil
}
