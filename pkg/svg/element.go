package svg

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"io"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Element is a generic markup node: a tag, its attributes, an optional text
// payload and an ordered list of children. It knows nothing about diagrams.
//
// Attributes are kept in a map and serialized in sorted key order, so two
// structurally equal trees always produce identical output.
type Element struct {
	name     string
	attrs    map[string]string
	text     string
	hasText  bool
	raw      bool
	children []*Element
}

// New returns an element with the given tag name.
func New(name string) *Element {
	return &Element{name: name, attrs: make(map[string]string)}
}

func (e *Element) Name() string             { return e.name }
func (e *Element) Children() []*Element     { return e.children }
func (e *Element) Attrs() map[string]string { return maps.Clone(e.attrs) }

// Attr returns the value of an attribute and whether it is set.
func (e *Element) Attr(key string) (string, bool) {
	v, ok := e.attrs[key]
	return v, ok
}

// Content returns the text payload as it was given (unescaped for Text,
// verbatim for RawText).
func (e *Element) Content() string { return e.text }

// Set sets an attribute, replacing any previous value.
func (e *Element) Set(key, value string) *Element {
	e.attrs[key] = value
	return e
}

// SetNum sets a numeric attribute formatted with [Num].
func (e *Element) SetNum(key string, v float64) *Element {
	return e.Set(key, Num(v))
}

// SetAll copies every entry of attrs onto the element.
func (e *Element) SetAll(attrs map[string]string) *Element {
	maps.Copy(e.attrs, attrs)
	return e
}

// Text sets a text payload that is escaped on output.
func (e *Element) Text(s string) *Element {
	e.text, e.hasText, e.raw = s, true, false
	return e
}

// RawText sets a text payload that is written verbatim (style and script
// blocks).
func (e *Element) RawText(s string) *Element {
	e.text, e.hasText, e.raw = s, true, true
	return e
}

// Add appends children. Nil children are skipped.
func (e *Element) Add(children ...*Element) *Element {
	for _, c := range children {
		if c != nil {
			e.children = append(e.children, c)
		}
	}
	return e
}

// Walk visits e and its descendants depth-first in document order. Returning
// false from fn skips the element's children.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.children {
		c.Walk(fn)
	}
}

// Find returns every descendant (including e) with the given tag name.
func (e *Element) Find(name string) []*Element {
	var out []*Element
	e.Walk(func(el *Element) bool {
		if el.name == name {
			out = append(out, el)
		}
		return true
	})
	return out
}

// WriteTo serializes the element tree.
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}
	e.write(cw)
	if cw.err == nil {
		cw.err = cw.w.Flush()
	}
	return cw.n, cw.err
}

func (e *Element) String() string {
	var buf bytes.Buffer
	e.WriteTo(&buf)
	return buf.String()
}

func (e *Element) write(w *countingWriter) {
	w.str("<" + e.name)
	for _, k := range slices.Sorted(maps.Keys(e.attrs)) {
		w.str(" " + k + `="` + EscapeXML(e.attrs[k]) + `"`)
	}
	if !e.hasText && len(e.children) == 0 {
		w.str("/>\n")
		return
	}
	w.str(">\n")
	if e.hasText {
		if e.raw {
			w.str(e.text)
		} else {
			w.str(EscapeXML(e.text))
		}
	}
	for _, c := range e.children {
		c.write(w)
	}
	w.str("</" + e.name + ">\n")
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) str(s string) {
	if c.err != nil {
		return
	}
	n, err := c.w.WriteString(s)
	c.n += int64(n)
	c.err = err
}

// EscapeXML escapes s for use in character data or a quoted attribute.
func EscapeXML(s string) string {
	if !strings.ContainsAny(s, `<>&'"`+"\t\n\r") {
		return s
	}
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Num formats a coordinate: rounded to two decimals, no trailing zeros and
// never "-0".
func Num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
