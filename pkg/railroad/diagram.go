package railroad

import (
	"bytes"
	"fmt"
	"io"

	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/svg"
)

// DiagramMargin is the blank space around the root node.
const DiagramMargin = 10

// Diagram is the root of a rendering: a node with entry and exit markers,
// an outer margin and any extra top-level elements such as stylesheets.
type Diagram struct {
	root     Node
	attrs    map[string]string
	elements []*svg.Element
	debug    bool
}

// DiagramOption configures a Diagram.
type DiagramOption func(*diagramConfig)

type diagramConfig struct {
	noMarkers  bool
	simple     bool
	stylesheet Stylesheet
	embedFont  bool
	debug      bool
}

// WithoutImplicitMarkers leaves the root as given, without adding Start
// and End.
func WithoutImplicitMarkers() DiagramOption {
	return func(c *diagramConfig) { c.noMarkers = true }
}

// WithSimpleMarkers adds SimpleStart and SimpleEnd instead of Start and End.
func WithSimpleMarkers() DiagramOption {
	return func(c *diagramConfig) { c.simple = true }
}

// WithStylesheet adds a stylesheet as the first extra element.
func WithStylesheet(s Stylesheet) DiagramOption {
	return func(c *diagramConfig) { c.stylesheet = s }
}

// WithEmbeddedFont embeds the measuring font in the stylesheet.
func WithEmbeddedFont() DiagramOption {
	return func(c *diagramConfig) { c.embedFont = true }
}

// WithDebug draws every node with a frame showing its geometry.
func WithDebug() DiagramOption {
	return func(c *diagramConfig) { c.debug = true }
}

// NewDiagram wraps root. Unless [WithoutImplicitMarkers] is given, a Start
// is prepended and an End appended, except where root is a Sequence that
// already begins or ends with one.
func NewDiagram(root Node, opts ...DiagramOption) (*Diagram, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidStructure, "diagram root is nil")
	}
	var cfg diagramConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if !cfg.noMarkers {
		var err error
		if root, err = withMarkers(root, cfg.simple); err != nil {
			return nil, err
		}
	}

	d := &Diagram{root: root, attrs: make(map[string]string), debug: cfg.debug}
	if cfg.stylesheet != "" || cfg.embedFont {
		css := string(cfg.stylesheet)
		if cfg.embedFont {
			css = fontFaceCSS() + css
		}
		d.AddStylesheet(Stylesheet(css))
	}
	return d, nil
}

func withMarkers(root Node, simple bool) (Node, error) {
	var start, end Node = NewStart(), NewEnd()
	if simple {
		start, end = NewSimpleStart(), NewSimpleEnd()
	}

	children := []Node{root}
	if seq, ok := root.(*Sequence); ok {
		children = seq.Children()
	}
	hasStart := len(children) > 0 && isStart(children[0])
	hasEnd := len(children) > 0 && isEnd(children[len(children)-1])
	if hasStart && hasEnd {
		return root, nil
	}

	wrapped := make([]Node, 0, 3)
	if !hasStart {
		wrapped = append(wrapped, start)
	}
	wrapped = append(wrapped, root)
	if !hasEnd {
		wrapped = append(wrapped, end)
	}
	return NewSequence(wrapped...)
}

func isStart(n Node) bool {
	switch n.(type) {
	case *Start, *SimpleStart:
		return true
	}
	return false
}

func isEnd(n Node) bool {
	switch n.(type) {
	case *End, *SimpleEnd:
		return true
	}
	return false
}

// Root returns the node drawn inside the margin, including any markers
// the diagram added.
func (d *Diagram) Root() Node { return d.root }

// SetAttr sets an attribute on the <svg> element.
func (d *Diagram) SetAttr(key, value string) *Diagram {
	d.attrs[key] = value
	return d
}

// AddElement adds an element that is written before the diagram itself.
func (d *Diagram) AddElement(el *svg.Element) *Diagram {
	d.elements = append(d.elements, el)
	return d
}

// AddStylesheet adds a <style> element.
func (d *Diagram) AddStylesheet(s Stylesheet) *Diagram {
	return d.AddElement(s.Element())
}

// AddDefaultCSS adds the light stylesheet.
func (d *Diagram) AddDefaultCSS() *Diagram {
	return d.AddStylesheet(LightStylesheet)
}

func (d *Diagram) Width() float64  { return d.root.Width() + 2*DiagramMargin }
func (d *Diagram) Height() float64 { return d.root.Height() + 2*DiagramMargin }

// Document draws the diagram into a complete <svg> element.
func (d *Diagram) Document() *svg.Element {
	el := svg.New("svg").
		Set("xmlns", "http://www.w3.org/2000/svg").
		Set("xmlns:xlink", "http://www.w3.org/1999/xlink").
		Set("class", "railroad").
		Set("viewBox", fmt.Sprintf("0 0 %s %s", svg.Num(d.Width()), svg.Num(d.Height()))).
		SetAll(d.attrs)
	el.Add(d.elements...)
	el.Add(d.root.Draw(DiagramMargin, DiagramMargin, Pen{Dir: svg.LTR, Debug: d.debug}))
	return el
}

// WriteTo writes the SVG document.
func (d *Diagram) WriteTo(w io.Writer) (int64, error) {
	return d.Document().WriteTo(w)
}

func (d *Diagram) String() string {
	var buf bytes.Buffer
	d.WriteTo(&buf)
	return buf.String()
}

// Bytes returns the SVG document.
func (d *Diagram) Bytes() []byte {
	var buf bytes.Buffer
	d.WriteTo(&buf)
	return buf.Bytes()
}
