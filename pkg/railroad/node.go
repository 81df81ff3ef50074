package railroad

import (
	"maps"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/svg"
)

// ArcRadius is the radius of every rounded turn a track takes.
const ArcRadius = 12

// Node is the geometric contract every diagram element satisfies.
//
// Width, Height and EntryHeight depend only on the node's own content and
// children, never on where it is drawn. The connector enters the node at
// (0, EntryHeight) and leaves it at (Width, EntryHeight), relative to the
// node's top-left corner, with 0 <= EntryHeight <= Height.
//
// Draw renders the node with its top-left corner at (x, y). It does not
// mutate the node and may be called any number of times.
type Node interface {
	Width() float64
	Height() float64
	EntryHeight() float64
	Draw(x, y float64, pen Pen) *svg.Element
}

// Parent is implemented by nodes that own children.
type Parent interface {
	Node
	Children() []Node
}

// Pen carries drawing state from a composite down to its children.
type Pen struct {
	// Dir is the direction of travel along the track. Arrow indicators
	// point along it; loop-back paths draw their children reversed.
	Dir svg.HDir
	// Debug wraps every drawn node in a frame showing its bounding box and
	// connector line.
	Debug bool
}

// Reversed returns a pen travelling the opposite way.
func (p Pen) Reversed() Pen {
	p.Dir = p.Dir.Invert()
	return p
}

func (p Pen) path() *svg.PathData { return svg.NewPath(p.Dir) }

// HeightBelowEntry is the distance from a node's connector to its bottom edge.
func HeightBelowEntry(n Node) float64 { return n.Height() - n.EntryHeight() }

// Must panics if err is non-nil. It is intended for trees written out as
// literals, where a construction error is a programming mistake.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Kind returns the short type name of a node, as used in debug frames and
// tree listings.
func Kind(n Node) string {
	switch n.(type) {
	case *Start:
		return "Start"
	case *End:
		return "End"
	case *SimpleStart:
		return "SimpleStart"
	case *SimpleEnd:
		return "SimpleEnd"
	case *Terminal:
		return "Terminal"
	case *NonTerminal:
		return "NonTerminal"
	case *Comment:
		return "Comment"
	case *Empty:
		return "Empty"
	case *Debug:
		return "Debug"
	case *Sequence:
		return "Sequence"
	case *Choice:
		return "Choice"
	case *Optional:
		return "Optional"
	case *Repeat:
		return "Repeat"
	case *Stack:
		return "Stack"
	case *HorizontalGrid:
		return "HorizontalGrid"
	case *VerticalGrid:
		return "VerticalGrid"
	case *LabeledBox:
		return "LabeledBox"
	case *Link:
		return "Link"
	default:
		return "Node"
	}
}

// Walk visits n and its descendants depth-first. depth is 0 for n.
// Returning false from fn skips the node's children.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	if p, ok := n.(Parent); ok {
		for _, c := range p.Children() {
			walk(c, depth+1, fn)
		}
	}
}

// epoch counts tree mutations. Memoized geometry records the epoch it was
// computed at and is discarded once any node has been mutated since, which
// invalidates the mutated node and all of its ancestors without back
// references.
var epoch atomic.Uint64

func touch() { epoch.Add(1) }

type geometry struct {
	w, h, eh float64
}

// memo caches a composite's geometry.
type memo struct {
	mu    sync.Mutex
	valid bool
	at    uint64
	g     geometry
}

func (m *memo) get(compute func() geometry) geometry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := epoch.Load()
	if m.valid && m.at == e {
		return m.g
	}
	m.g, m.at, m.valid = compute(), e, true
	return m.g
}

// attrs holds the extra attributes set on a node's outermost element.
type attrs struct {
	class string
	extra map[string]string
}

// SetAttr sets an attribute on the node's outermost element. Setting
// "class" replaces the default class.
func (a *attrs) SetAttr(key, value string) {
	if a.extra == nil {
		a.extra = make(map[string]string)
	}
	a.extra[key] = value
}

// AddClass appends a CSS class to the node's default class.
func (a *attrs) AddClass(class string) error {
	if err := errors.ValidateClassName(class); err != nil {
		return err
	}
	if a.class == "" {
		a.class = class
	} else {
		a.class += " " + class
	}
	return nil
}

// Class returns the classes added with AddClass, space separated.
func (a *attrs) Class() string { return a.class }

func (a *attrs) apply(el *svg.Element, defaultClass string) *svg.Element {
	class := strings.TrimSpace(defaultClass + " " + a.class)
	if class != "" {
		el.Set("class", class)
	}
	if a.extra != nil {
		el.SetAll(maps.Clone(a.extra))
	}
	return el
}

// frame finishes a node's element: with a debug pen it is wrapped in a group
// that records the node's geometry and outlines its box and connector.
func frame(el *svg.Element, n Node, x, y float64, pen Pen) *svg.Element {
	if !pen.Debug {
		return el
	}
	kind := Kind(n)
	w, h, eh := n.Width(), n.Height(), n.EntryHeight()
	outline := svg.NewPath(svg.LTR).
		MoveTo(x, y).
		Horizontal(w).
		Vertical(5).
		MoveRel(-w, -5).
		Vertical(h).
		Horizontal(5).
		MoveRel(-5, -h).
		MoveRel(0, eh).
		Horizontal(10).
		Element().
		Set("class", "debug")
	return svg.New("g").
		Set("class", "debug-frame").
		Set("data-railroad-kind", kind).
		SetNum("data-railroad-x", x).
		SetNum("data-railroad-y", y).
		SetNum("data-railroad-width", w).
		SetNum("data-railroad-height", h).
		SetNum("data-railroad-entry-height", eh).
		Add(svg.New("title").Text(kind), el, outline)
}

func checkChildren(kind string, children []Node) error {
	for i, c := range children {
		if c == nil {
			return errors.New(errors.ErrCodeInvalidStructure, "%s child %d is nil", kind, i)
		}
	}
	return nil
}

func sumWidth(children []Node) float64 {
	var s float64
	for _, c := range children {
		s += c.Width()
	}
	return s
}

func maxWidth(children []Node) float64 {
	var m float64
	for _, c := range children {
		m = max(m, c.Width())
	}
	return m
}
