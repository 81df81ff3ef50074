package railroad

import (
	"github.com/matzehuels/railroad/pkg/svg"
)

const gridSpacing = ArcRadius

// HorizontalGrid places unconnected nodes side by side, top-aligned. It is
// used to collect independent diagrams into one document.
type HorizontalGrid struct {
	attrs
	children []Node
	geo      memo
}

func NewHorizontalGrid(children ...Node) (*HorizontalGrid, error) {
	if err := checkChildren("horizontal grid", children); err != nil {
		return nil, err
	}
	return &HorizontalGrid{children: children}, nil
}

func (g *HorizontalGrid) Push(child Node) error {
	if err := checkPush(g, child); err != nil {
		return err
	}
	g.children = append(g.children, child)
	touch()
	return nil
}

func (g *HorizontalGrid) Children() []Node { return g.children }

func (g *HorizontalGrid) geometry() geometry {
	return g.geo.get(func() geometry {
		var h float64
		for _, c := range g.children {
			h = max(h, c.Height())
		}
		w := sumWidth(g.children)
		if n := len(g.children); n > 1 {
			w += float64(n-1) * gridSpacing
		}
		return geometry{w: w, h: h}
	})
}

func (g *HorizontalGrid) Width() float64       { return g.geometry().w }
func (g *HorizontalGrid) Height() float64      { return g.geometry().h }
func (g *HorizontalGrid) EntryHeight() float64 { return 0 }

func (g *HorizontalGrid) Draw(x, y float64, pen Pen) *svg.Element {
	el := g.apply(svg.New("g"), "horizontalgrid")
	cx := x
	for _, c := range g.children {
		el.Add(c.Draw(cx, y, pen))
		cx += c.Width() + gridSpacing
	}
	return frame(el, g, x, y, pen)
}

// VerticalGrid stacks unconnected nodes top to bottom, left-aligned.
type VerticalGrid struct {
	attrs
	children []Node
	geo      memo
}

func NewVerticalGrid(children ...Node) (*VerticalGrid, error) {
	if err := checkChildren("vertical grid", children); err != nil {
		return nil, err
	}
	return &VerticalGrid{children: children}, nil
}

func (g *VerticalGrid) Push(child Node) error {
	if err := checkPush(g, child); err != nil {
		return err
	}
	g.children = append(g.children, child)
	touch()
	return nil
}

func (g *VerticalGrid) Children() []Node { return g.children }

func (g *VerticalGrid) geometry() geometry {
	return g.geo.get(func() geometry {
		var h float64
		for _, c := range g.children {
			h += c.Height()
		}
		if n := len(g.children); n > 1 {
			h += float64(n-1) * gridSpacing
		}
		return geometry{w: maxWidth(g.children), h: h}
	})
}

func (g *VerticalGrid) Width() float64       { return g.geometry().w }
func (g *VerticalGrid) Height() float64      { return g.geometry().h }
func (g *VerticalGrid) EntryHeight() float64 { return 0 }

func (g *VerticalGrid) Draw(x, y float64, pen Pen) *svg.Element {
	el := g.apply(svg.New("g"), "verticalgrid")
	cy := y
	for _, c := range g.children {
		el.Add(c.Draw(x, cy, pen))
		cy += c.Height() + gridSpacing
	}
	return frame(el, g, x, y, pen)
}
