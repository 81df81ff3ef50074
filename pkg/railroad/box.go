package railroad

import (
	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/svg"
)

const (
	boxLabelSpacing = 8
	boxInnerPadding = 8
)

// LabeledBox draws a frame around a node with a label in its top-left
// corner. The track crosses the frame at the inner node's connector height.
type LabeledBox struct {
	attrs
	inner Node
	label Node
}

// NewLabeledBox frames inner with label above it. A nil label is Empty;
// use a Comment for plain text.
func NewLabeledBox(inner, label Node) (*LabeledBox, error) {
	if inner == nil {
		return nil, errors.New(errors.ErrCodeInvalidStructure, "labeled box child is nil")
	}
	if label == nil {
		label = NewEmpty()
	}
	return &LabeledBox{inner: inner, label: label}, nil
}

func (b *LabeledBox) Children() []Node { return []Node{b.label, b.inner} }

func (b *LabeledBox) spacing() float64 {
	if b.label.Height() > 0 {
		return boxLabelSpacing
	}
	return 0
}

func (b *LabeledBox) padding() float64 {
	if b.label.Height()+b.inner.Height()+b.label.Width()+b.inner.Width() > 0 {
		return boxInnerPadding
	}
	return 0
}

func (b *LabeledBox) EntryHeight() float64 {
	return b.padding() + b.label.Height() + b.spacing() + b.inner.EntryHeight()
}

func (b *LabeledBox) Height() float64 {
	return 2*b.padding() + b.label.Height() + b.spacing() + b.inner.Height()
}

func (b *LabeledBox) Width() float64 {
	return 2*b.padding() + max(b.inner.Width(), b.label.Width())
}

func (b *LabeledBox) Draw(x, y float64, pen Pen) *svg.Element {
	w, pad := b.Width(), b.padding()
	g := b.apply(svg.New("g"), "labeledbox").Add(
		svg.New("rect").
			SetNum("x", x).
			SetNum("y", y).
			SetNum("width", w).
			SetNum("height", b.Height()),
		pen.path().
			MoveTo(x, y+b.EntryHeight()).
			Horizontal(pad).
			MoveRel(b.inner.Width(), 0).
			Horizontal(w-b.inner.Width()-pad).
			Element(),
		b.label.Draw(x+pad, y+pad, pen),
		b.inner.Draw(x+pad, y+pad+b.label.Height()+b.spacing(), pen),
	)
	return frame(g, b, x, y, pen)
}

// LinkTarget is the browsing context a Link opens in.
type LinkTarget string

const (
	TargetNone   LinkTarget = ""
	TargetBlank  LinkTarget = "_blank"
	TargetParent LinkTarget = "_parent"
	TargetTop    LinkTarget = "_top"
)

// ParseLinkTarget accepts a target with or without its leading underscore.
func ParseLinkTarget(s string) (LinkTarget, error) {
	switch s {
	case "":
		return TargetNone, nil
	case "blank", "_blank":
		return TargetBlank, nil
	case "parent", "_parent":
		return TargetParent, nil
	case "top", "_top":
		return TargetTop, nil
	default:
		return TargetNone, errors.New(errors.ErrCodeInvalidInput, "unknown link target %q", s)
	}
}

// Link makes a node a hyperlink. It has exactly the geometry of the node.
type Link struct {
	attrs
	inner  Node
	href   string
	target LinkTarget
}

// LinkOption configures a Link.
type LinkOption func(*Link)

// WithTarget sets where the link opens.
func WithTarget(t LinkTarget) LinkOption { return func(l *Link) { l.target = t } }

func NewLink(inner Node, href string, opts ...LinkOption) (*Link, error) {
	if inner == nil {
		return nil, errors.New(errors.ErrCodeInvalidStructure, "link child is nil")
	}
	if err := errors.ValidateHref(href); err != nil {
		return nil, err
	}
	l := &Link{inner: inner, href: href}
	for _, opt := range opts {
		opt(l)
	}
	if _, err := ParseLinkTarget(string(l.target)); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Link) Children() []Node   { return []Node{l.inner} }
func (l *Link) Href() string       { return l.href }
func (l *Link) Target() LinkTarget { return l.target }

func (l *Link) Width() float64       { return l.inner.Width() }
func (l *Link) Height() float64      { return l.inner.Height() }
func (l *Link) EntryHeight() float64 { return l.inner.EntryHeight() }

func (l *Link) Draw(x, y float64, pen Pen) *svg.Element {
	a := svg.New("a").Set("xlink:href", l.href)
	if l.target != TargetNone {
		a.Set("target", string(l.target))
	}
	l.apply(a, "link").Add(l.inner.Draw(x, y, pen))
	return frame(a, l, x, y, pen)
}
