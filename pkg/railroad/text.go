package railroad

import (
	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/svg"
	"github.com/matzehuels/railroad/pkg/textwidth"
)

// Box sizing for labelled leaves, in user units per measured cell.
const (
	boxCellWidth     = 8
	boxPadding       = 20
	boxEntryHeight   = 11
	commentCellWidth = 7
	commentPadding   = 10
)

// LeafOption configures a Terminal, NonTerminal or Comment.
type LeafOption func(*leafConfig)

type leafConfig struct {
	measurer textwidth.Measurer
	classes  []string
	attrs    map[string]string
}

// WithMeasurer measures the label with m instead of [textwidth.Default].
func WithMeasurer(m textwidth.Measurer) LeafOption {
	return func(c *leafConfig) { c.measurer = m }
}

// WithClass adds a CSS class next to the node's default class.
func WithClass(class string) LeafOption {
	return func(c *leafConfig) { c.classes = append(c.classes, class) }
}

// WithAttr sets an attribute on the node's outermost element.
func WithAttr(key, value string) LeafOption {
	return func(c *leafConfig) {
		if c.attrs == nil {
			c.attrs = make(map[string]string)
		}
		c.attrs[key] = value
	}
}

// label is the shared state of text-bearing leaves.
type label struct {
	attrs
	text  string
	cells float64
}

func newLabel(text string, opts []LeafOption) (label, error) {
	var cfg leafConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := errors.ValidateLabel(text); err != nil {
		return label{}, err
	}
	cells, err := textwidth.Measure(cfg.measurer, text)
	if err != nil {
		return label{}, err
	}
	l := label{text: text, cells: cells}
	for _, c := range cfg.classes {
		if err := l.AddClass(c); err != nil {
			return label{}, err
		}
	}
	for k, v := range cfg.attrs {
		l.SetAttr(k, v)
	}
	return l, nil
}

// Label returns the node's text.
func (l *label) Label() string { return l.text }

// Terminal is a literal token, drawn as a rounded box.
type Terminal struct{ label }

func NewTerminal(text string, opts ...LeafOption) (*Terminal, error) {
	l, err := newLabel(text, opts)
	if err != nil {
		return nil, err
	}
	return &Terminal{l}, nil
}

func (t *Terminal) Width() float64       { return t.cells*boxCellWidth + boxPadding }
func (t *Terminal) Height() float64      { return 2 * boxEntryHeight }
func (t *Terminal) EntryHeight() float64 { return boxEntryHeight }

func (t *Terminal) Draw(x, y float64, pen Pen) *svg.Element {
	rect := boxRect(t, x, y).SetNum("rx", 10).SetNum("ry", 10)
	g := t.apply(svg.New("g"), "terminal").Add(rect, boxText(t, &t.label, x, y))
	return frame(g, t, x, y, pen)
}

// NonTerminal is a reference to another rule, drawn as a square box.
type NonTerminal struct{ label }

func NewNonTerminal(text string, opts ...LeafOption) (*NonTerminal, error) {
	l, err := newLabel(text, opts)
	if err != nil {
		return nil, err
	}
	return &NonTerminal{l}, nil
}

func (n *NonTerminal) Width() float64       { return n.cells*boxCellWidth + boxPadding }
func (n *NonTerminal) Height() float64      { return 2 * boxEntryHeight }
func (n *NonTerminal) EntryHeight() float64 { return boxEntryHeight }

func (n *NonTerminal) Draw(x, y float64, pen Pen) *svg.Element {
	g := n.apply(svg.New("g"), "nonterminal").Add(boxRect(n, x, y), boxText(n, &n.label, x, y))
	return frame(g, n, x, y, pen)
}

func boxRect(n Node, x, y float64) *svg.Element {
	return svg.New("rect").
		SetNum("x", x).
		SetNum("y", y).
		SetNum("width", n.Width()).
		SetNum("height", n.Height())
}

func boxText(n Node, l *label, x, y float64) *svg.Element {
	return svg.New("text").
		SetNum("x", x+n.Width()/2).
		SetNum("y", y+n.EntryHeight()+5).
		Text(l.text)
}

// Comment is unboxed text the track passes behind.
type Comment struct{ label }

func NewComment(text string, opts ...LeafOption) (*Comment, error) {
	l, err := newLabel(text, opts)
	if err != nil {
		return nil, err
	}
	return &Comment{l}, nil
}

func (c *Comment) Width() float64       { return c.cells*commentCellWidth + commentPadding }
func (c *Comment) Height() float64      { return 20 }
func (c *Comment) EntryHeight() float64 { return 10 }

func (c *Comment) Draw(x, y float64, pen Pen) *svg.Element {
	el := c.apply(svg.New("text"), "comment").
		SetNum("x", x+c.Width()/2).
		SetNum("y", y+15).
		Text(c.text)
	return frame(el, c, x, y, pen)
}
