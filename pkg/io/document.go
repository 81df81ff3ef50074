package io

import (
	"fmt"
	"strings"

	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/railroad"
	"github.com/matzehuels/railroad/pkg/textwidth"
)

// Document is a diagram description: a node tree plus the diagram-level
// settings that go with it.
type Document struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Stylesheet string `json:"stylesheet,omitempty" yaml:"stylesheet,omitempty" toml:"stylesheet,omitempty"`
	Markers    *bool  `json:"markers,omitempty" yaml:"markers,omitempty" toml:"markers,omitempty"`
	Root       *Node  `json:"root" yaml:"root" toml:"root"`
}

// Node describes one diagram node. Which fields apply depends on Kind.
type Node struct {
	Kind     string  `json:"kind" yaml:"kind" toml:"kind"`
	Text     string  `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
	Class    string  `json:"class,omitempty" yaml:"class,omitempty" toml:"class,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
	Through  int     `json:"through,omitempty" yaml:"through,omitempty" toml:"through,omitempty"`
	Skip     string  `json:"skip,omitempty" yaml:"skip,omitempty" toml:"skip,omitempty"`
	Repeat   *Node   `json:"repeat,omitempty" yaml:"repeat,omitempty" toml:"repeat,omitempty"`
	Above    bool    `json:"above,omitempty" yaml:"above,omitempty" toml:"above,omitempty"`
	Label    *Node   `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Href     string  `json:"href,omitempty" yaml:"href,omitempty" toml:"href,omitempty"`
	Target   string  `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty"`
}

// Node kinds accepted in descriptions.
const (
	KindTerminal    = "terminal"
	KindNonTerminal = "nonterminal"
	KindComment     = "comment"
	KindEmpty       = "empty"
	KindStart       = "start"
	KindEnd         = "end"
	KindSimpleStart = "simplestart"
	KindSimpleEnd   = "simpleend"
	KindSequence    = "sequence"
	KindChoice      = "choice"
	KindOptional    = "optional"
	KindRepeat      = "repeat"
	KindStack       = "stack"
	KindHGrid       = "hgrid"
	KindVGrid       = "vgrid"
	KindBox         = "box"
	KindLink        = "link"
)

// Kinds lists every accepted kind, in documentation order.
var Kinds = []string{
	KindTerminal, KindNonTerminal, KindComment, KindEmpty,
	KindStart, KindEnd, KindSimpleStart, KindSimpleEnd,
	KindSequence, KindChoice, KindOptional, KindRepeat, KindStack,
	KindHGrid, KindVGrid, KindBox, KindLink,
}

// ShowsMarkers reports whether the diagram gets implicit Start and End
// markers. Unset means yes.
func (d *Document) ShowsMarkers() bool { return d.Markers == nil || *d.Markers }

// Build turns the description into a diagram. m measures labels; nil uses
// [textwidth.Default]. opts are applied after the document's own settings.
func (d *Document) Build(m textwidth.Measurer, opts ...railroad.DiagramOption) (*railroad.Diagram, error) {
	if d.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no root node")
	}
	root, err := d.Root.Build(m)
	if err != nil {
		return nil, err
	}

	style, err := railroad.ParseStylesheet(d.Stylesheet)
	if err != nil {
		return nil, err
	}
	var dopts []railroad.DiagramOption
	if style != "" {
		dopts = append(dopts, railroad.WithStylesheet(style))
	}
	if !d.ShowsMarkers() {
		dopts = append(dopts, railroad.WithoutImplicitMarkers())
	}
	return railroad.NewDiagram(root, append(dopts, opts...)...)
}

// Build turns the node description into a railroad node. Errors name the
// failing node by its path from the root, e.g. root.children[2].repeat.
func (n *Node) Build(m textwidth.Measurer) (railroad.Node, error) {
	return n.build(m, "root")
}

func (n *Node) build(m textwidth.Measurer, at string) (railroad.Node, error) {
	if n == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: node is empty", at)
	}
	kind := strings.ToLower(n.Kind)

	// Descendants report their own location, so their errors pass through.
	children := make([]railroad.Node, 0, len(n.Children))
	for i, c := range n.Children {
		child, err := c.build(m, fmt.Sprintf("%s.children[%d]", at, i))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	var loop, label railroad.Node
	var err error
	if n.Repeat != nil {
		if loop, err = n.Repeat.build(m, at+".repeat"); err != nil {
			return nil, err
		}
	}
	if n.Label != nil {
		if label, err = n.Label.build(m, at+".label"); err != nil {
			return nil, err
		}
	}

	node, err := n.construct(m, kind, children, loop, label)
	if err != nil {
		return nil, locate(at, err)
	}
	return node, nil
}

func (n *Node) construct(m textwidth.Measurer, kind string, children []railroad.Node, loop, label railroad.Node) (railroad.Node, error) {
	if isLeaf(kind) && len(children) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s does not take children", kind)
	}

	switch kind {
	case KindTerminal:
		return railroad.NewTerminal(n.Text, n.leafOptions(m)...)
	case KindNonTerminal:
		return railroad.NewNonTerminal(n.Text, n.leafOptions(m)...)
	case KindComment:
		return railroad.NewComment(n.Text, n.leafOptions(m)...)
	case KindEmpty:
		return railroad.NewEmpty(), nil
	case KindStart:
		return railroad.NewStart(), nil
	case KindEnd:
		return railroad.NewEnd(), nil
	case KindSimpleStart:
		return railroad.NewSimpleStart(), nil
	case KindSimpleEnd:
		return railroad.NewSimpleEnd(), nil
	case KindSequence:
		return railroad.NewSequence(children...)
	case KindChoice:
		return railroad.NewChoiceAt(n.Through, children...)
	case KindStack:
		return railroad.NewStack(children...)
	case KindHGrid:
		return railroad.NewHorizontalGrid(children...)
	case KindVGrid:
		return railroad.NewVerticalGrid(children...)
	case KindOptional:
		inner, err := single(kind, children)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(n.Skip) {
		case "", "above":
			return railroad.NewOptional(inner)
		case "below":
			return railroad.NewOptional(inner, railroad.SkipBelow())
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "skip must be above or below, got %q", n.Skip)
		}
	case KindRepeat:
		inner, err := single(kind, children)
		if err != nil {
			return nil, err
		}
		if loop == nil {
			loop = railroad.NewEmpty()
		}
		var opts []railroad.RepeatOption
		if n.Above {
			opts = append(opts, railroad.LoopAbove())
		}
		return railroad.NewRepeat(inner, loop, opts...)
	case KindBox:
		inner, err := single(kind, children)
		if err != nil {
			return nil, err
		}
		if label == nil && n.Text != "" {
			if label, err = railroad.NewComment(n.Text, railroad.WithMeasurer(m)); err != nil {
				return nil, err
			}
		}
		return railroad.NewLabeledBox(inner, label)
	case KindLink:
		inner, err := single(kind, children)
		if err != nil {
			return nil, err
		}
		target, err := railroad.ParseLinkTarget(n.Target)
		if err != nil {
			return nil, err
		}
		return railroad.NewLink(inner, n.Href, railroad.WithTarget(target))
	case "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "kind is required")
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown kind %q (want one of %s)",
			n.Kind, strings.Join(Kinds, ", "))
	}
}

func isLeaf(kind string) bool {
	switch kind {
	case KindTerminal, KindNonTerminal, KindComment, KindEmpty,
		KindStart, KindEnd, KindSimpleStart, KindSimpleEnd:
		return true
	}
	return false
}

func (n *Node) leafOptions(m textwidth.Measurer) []railroad.LeafOption {
	opts := []railroad.LeafOption{railroad.WithMeasurer(m)}
	for _, c := range strings.Fields(n.Class) {
		opts = append(opts, railroad.WithClass(c))
	}
	return opts
}

func single(kind string, children []railroad.Node) (railroad.Node, error) {
	if len(children) != 1 {
		return nil, errors.New(errors.ErrCodeInvalidStructure, "%s takes exactly one child, got %d", kind, len(children))
	}
	return children[0], nil
}

// locate prefixes err's message with the node path, keeping its code.
func locate(at string, err error) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInvalidInput
	}
	return errors.New(code, "%s: %s", at, errors.UserMessage(err))
}
