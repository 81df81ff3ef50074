package railroad

import (
	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/svg"
)

// ChoiceSpacing is the vertical gap between alternative branches.
const ChoiceSpacing = 10

// Choice is a set of alternative branches, exactly one of which is taken.
//
// The through branch sits on the choice's own connector line; branches
// before it are routed above, branches after it below. Every branch is
// left-aligned after the entry arcs and padded with straight track up to the
// width of the widest branch.
type Choice struct {
	attrs
	children []Node
	through  int
	geo      memo
}

// NewChoice returns a choice whose first branch is the through branch.
func NewChoice(children ...Node) (*Choice, error) {
	return NewChoiceAt(0, children...)
}

// NewChoiceAt returns a choice whose through branch is children[through].
func NewChoiceAt(through int, children ...Node) (*Choice, error) {
	if len(children) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidStructure, "choice needs at least one branch")
	}
	if err := checkChildren("choice", children); err != nil {
		return nil, err
	}
	if through < 0 || through >= len(children) {
		return nil, errors.New(errors.ErrCodeInvalidStructure,
			"choice through index %d out of range [0, %d)", through, len(children))
	}
	return &Choice{children: children, through: through}, nil
}

// Push appends a branch below the existing ones.
func (c *Choice) Push(child Node) error {
	if err := checkPush(c, child); err != nil {
		return err
	}
	c.children = append(c.children, child)
	touch()
	return nil
}

func (c *Choice) Children() []Node { return c.children }

// Through returns the index of the branch on the main line.
func (c *Choice) Through() int { return c.through }

// paddedBelow is the vertical room a branch routed below takes, from the
// bar position where its arc starts to where the next branch's starts.
func paddedBelow(n Node) float64 {
	return max(ArcRadius, n.EntryHeight()) + HeightBelowEntry(n) + ChoiceSpacing
}

// paddedAbove mirrors paddedBelow for branches routed above.
func paddedAbove(n Node) float64 {
	return max(ArcRadius, HeightBelowEntry(n)) + n.EntryHeight() + ChoiceSpacing
}

// firstBelow is the distance from the connector to where the first branch
// below the through branch starts its arc.
func (c *Choice) firstBelow() float64 {
	return max(ArcRadius, ChoiceSpacing+HeightBelowEntry(c.children[c.through]))
}

// firstAbove mirrors firstBelow.
func (c *Choice) firstAbove() float64 {
	return max(ArcRadius, ChoiceSpacing+c.children[c.through].EntryHeight())
}

func (c *Choice) geometry() geometry {
	return c.geo.get(func() geometry {
		t := c.children[c.through]

		eh := t.EntryHeight()
		if c.through > 0 {
			eh = c.firstAbove() - ChoiceSpacing
			for _, b := range c.children[:c.through] {
				eh += paddedAbove(b)
			}
		}

		below := HeightBelowEntry(t)
		if c.through < len(c.children)-1 {
			below = c.firstBelow() - ChoiceSpacing
			for _, b := range c.children[c.through+1:] {
				below += paddedBelow(b)
			}
		}

		return geometry{
			w:  4*ArcRadius + maxWidth(c.children),
			h:  eh + below,
			eh: eh,
		}
	})
}

func (c *Choice) Width() float64       { return c.geometry().w }
func (c *Choice) Height() float64      { return c.geometry().h }
func (c *Choice) EntryHeight() float64 { return c.geometry().eh }

func (c *Choice) Draw(x, y float64, pen Pen) *svg.Element {
	g := c.apply(svg.New("g"), "choice")
	w, eh := c.Width(), c.EntryHeight()
	inner := maxWidth(c.children)
	t := c.children[c.through]

	// The main line through the through branch.
	g.Add(pen.path().
		MoveTo(x, y+eh).
		Horizontal(2 * ArcRadius).
		MoveRel(t.Width(), 0).
		Horizontal(w - 2*ArcRadius - t.Width()).
		Element())
	g.Add(t.Draw(x+2*ArcRadius, y+eh-t.EntryHeight(), pen))

	if c.through < len(c.children)-1 {
		c.drawBelow(g, x, y, pen, inner)
	}
	if c.through > 0 {
		c.drawAbove(g, x, y, pen, inner)
	}
	return frame(g, c, x, y, pen)
}

func (c *Choice) drawBelow(g *svg.Element, x, y float64, pen Pen, inner float64) {
	w, eh := c.Width(), c.EntryHeight()
	drop := max(0, c.firstBelow()-ArcRadius)

	g.Add(pen.path().
		MoveTo(x, y+eh).
		Arc(ArcRadius, svg.ArcEastSouth).
		Vertical(drop).
		MoveRel(w-2*ArcRadius, 0).
		Vertical(-drop).
		Arc(ArcRadius, svg.ArcNorthEast).
		Element())

	branches := c.children[c.through+1:]
	top := y + eh + c.firstBelow()
	for i, b := range branches {
		bend := max(0, b.EntryHeight()-ArcRadius)
		if i < len(branches)-1 {
			// The bars continue past this branch to the next one.
			run := paddedBelow(b) - bend
			g.Add(pen.path().
				MoveTo(x+ArcRadius, top+bend).
				Vertical(run).
				MoveRel(w-2*ArcRadius, 0).
				Vertical(-run).
				Element())
		}
		g.Add(pen.path().
			MoveTo(x+ArcRadius, top).
			Vertical(bend).
			Arc(ArcRadius, svg.ArcSouthEast).
			MoveRel(b.Width(), 0).
			Horizontal(inner - b.Width()).
			Arc(ArcRadius, svg.ArcEastNorth).
			Vertical(-bend).
			Element())
		g.Add(b.Draw(x+2*ArcRadius, top+max(0, ArcRadius-b.EntryHeight()), pen))
		top += paddedBelow(b)
	}
}

func (c *Choice) drawAbove(g *svg.Element, x, y float64, pen Pen, inner float64) {
	w, eh := c.Width(), c.EntryHeight()
	rise := max(0, c.firstAbove()-ArcRadius)

	g.Add(pen.path().
		MoveTo(x, y+eh).
		Arc(ArcRadius, svg.ArcEastNorth).
		Vertical(-rise).
		MoveRel(w-2*ArcRadius, 0).
		Vertical(rise).
		Arc(ArcRadius, svg.ArcSouthEast).
		Element())

	// Walk outwards from the through branch, nearest first.
	bottom := y + eh - c.firstAbove()
	for i := c.through - 1; i >= 0; i-- {
		b := c.children[i]
		bend := max(0, HeightBelowEntry(b)-ArcRadius)
		if i > 0 {
			run := paddedAbove(b) - bend
			g.Add(pen.path().
				MoveTo(x+ArcRadius, bottom-bend).
				Vertical(-run).
				MoveRel(w-2*ArcRadius, 0).
				Vertical(run).
				Element())
		}
		g.Add(pen.path().
			MoveTo(x+ArcRadius, bottom).
			Vertical(-bend).
			Arc(ArcRadius, svg.ArcNorthEast).
			MoveRel(b.Width(), 0).
			Horizontal(inner - b.Width()).
			Arc(ArcRadius, svg.ArcEastSouth).
			Vertical(bend).
			Element())
		g.Add(b.Draw(x+2*ArcRadius, bottom-max(ArcRadius, HeightBelowEntry(b))-b.EntryHeight(), pen))
		bottom -= paddedAbove(b)
	}
}

// Optional is a node that may be skipped. It is a Choice between the node
// and an Empty branch; the skip branch is drawn above the node unless
// [SkipBelow] is given. Both placements report the same size.
type Optional struct {
	attrs
	inner     Node
	choice    *Choice
	skipBelow bool
}

// OptionalOption configures an Optional.
type OptionalOption func(*Optional)

// SkipBelow draws the skip branch below the node.
func SkipBelow() OptionalOption { return func(o *Optional) { o.skipBelow = true } }

// SkipAbove draws the skip branch above the node (the default).
func SkipAbove() OptionalOption { return func(o *Optional) { o.skipBelow = false } }

func NewOptional(inner Node, opts ...OptionalOption) (*Optional, error) {
	if inner == nil {
		return nil, errors.New(errors.ErrCodeInvalidStructure, "optional child is nil")
	}
	o := &Optional{inner: inner}
	for _, opt := range opts {
		opt(o)
	}
	var err error
	if o.skipBelow {
		o.choice, err = NewChoiceAt(0, inner, NewEmpty())
	} else {
		o.choice, err = NewChoiceAt(1, NewEmpty(), inner)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Optional) Children() []Node { return []Node{o.inner} }

// SkipsBelow reports whether the skip branch is drawn below the node.
func (o *Optional) SkipsBelow() bool { return o.skipBelow }

func (o *Optional) EntryHeight() float64 {
	return ArcRadius + max(ArcRadius, ChoiceSpacing+o.inner.EntryHeight())
}

func (o *Optional) Height() float64 {
	return o.EntryHeight() + ArcRadius + max(ArcRadius, ChoiceSpacing+HeightBelowEntry(o.inner))
}

func (o *Optional) Width() float64 { return o.choice.Width() }

func (o *Optional) Draw(x, y float64, pen Pen) *svg.Element {
	g := o.apply(svg.New("g"), "optional")
	g.Add(o.choice.Draw(x, y+o.EntryHeight()-o.choice.EntryHeight(), pen))
	return frame(g, o, x, y, pen)
}
