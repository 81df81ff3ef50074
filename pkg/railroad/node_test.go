package railroad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/svg"
	"github.com/matzehuels/railroad/pkg/textwidth"
)

func term(t *testing.T, s string) *Terminal {
	t.Helper()
	n, err := NewTerminal(s)
	require.NoError(t, err)
	return n
}

func nonTerm(t *testing.T, s string) *NonTerminal {
	t.Helper()
	n, err := NewNonTerminal(s)
	require.NoError(t, err)
	return n
}

func debugNode(t *testing.T, w, h, eh float64) *Debug {
	t.Helper()
	n, err := NewDebug(w, h, eh)
	require.NoError(t, err)
	return n
}

func assertGeometry(t *testing.T, n Node, w, h, eh float64) {
	t.Helper()
	assert.Equal(t, w, n.Width(), "width of %s", Kind(n))
	assert.Equal(t, h, n.Height(), "height of %s", Kind(n))
	assert.Equal(t, eh, n.EntryHeight(), "entry height of %s", Kind(n))
}

// zoo returns one of every node kind, nested a little.
func zoo(t *testing.T) []Node {
	t.Helper()
	a, b := term(t, "a"), nonTerm(t, "expression")
	tall := debugNode(t, 30, 60, 45)
	comment := Must(NewComment("note"))

	return []Node{
		NewStart(), NewEnd(), NewSimpleStart(), NewSimpleEnd(), NewEmpty(),
		a, b, comment, tall,
		Must(NewSequence()),
		Must(NewSequence(a, tall, b)),
		Must(NewChoice(a)),
		Must(NewChoice(a, tall, b)),
		Must(NewChoiceAt(1, a, tall, b)),
		Must(NewChoiceAt(2, tall, Must(NewSequence(a, b)), NewEmpty())),
		Must(NewOptional(tall)),
		Must(NewOptional(tall, SkipBelow())),
		Must(NewRepeat(a, NewEmpty())),
		Must(NewRepeat(tall, comment)),
		Must(NewRepeat(b, tall, LoopAbove())),
		Must(NewStack()),
		Must(NewStack(a)),
		Must(NewStack(b, tall, a)),
		Must(NewHorizontalGrid(a, tall)),
		Must(NewVerticalGrid(a, tall)),
		Must(NewLabeledBox(tall, comment)),
		Must(NewLabeledBox(NewEmpty(), nil)),
		Must(NewLink(b, "https://example.com/expr")),
	}
}

func TestEntryHeightWithinBounds(t *testing.T) {
	for _, n := range zoo(t) {
		t.Run(Kind(n), func(t *testing.T) {
			assert.GreaterOrEqual(t, n.Width(), 0.0)
			assert.GreaterOrEqual(t, n.EntryHeight(), 0.0)
			assert.LessOrEqual(t, n.EntryHeight(), n.Height())
		})
	}
}

func TestDrawIsIdempotent(t *testing.T) {
	for _, n := range zoo(t) {
		t.Run(Kind(n), func(t *testing.T) {
			w, h, eh := n.Width(), n.Height(), n.EntryHeight()
			first := n.Draw(3, 7, Pen{}).String()
			second := n.Draw(3, 7, Pen{}).String()
			assert.Equal(t, first, second)
			assertGeometry(t, n, w, h, eh)
		})
	}
}

func TestLeafGeometry(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		w, h, eh float64
	}{
		{"Start", NewStart(), 20, 20, 10},
		{"End", NewEnd(), 20, 20, 10},
		{"SimpleStart", NewSimpleStart(), 15, 10, 5},
		{"SimpleEnd", NewSimpleEnd(), 15, 10, 5},
		{"Empty", NewEmpty(), 0, 0, 0},
		{"Terminal", term(t, "BEGIN"), 60, 22, 11},
		{"NonTerminal", nonTerm(t, "syntax"), 68, 22, 11},
		{"Comment", Must(NewComment("note")), 38, 20, 10},
		{"Debug", debugNode(t, 7, 9, 3), 7, 9, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertGeometry(t, tt.node, tt.w, tt.h, tt.eh)
		})
	}
}

func TestLeafMeasurement(t *testing.T) {
	half := textwidth.MeasurerFunc(func(s string) float64 { return float64(len(s)) / 2 })
	n, err := NewTerminal("abcd", WithMeasurer(half))
	require.NoError(t, err)
	assert.Equal(t, 2*8+20.0, n.Width())
}

func TestLeafRejectsBadMeasurement(t *testing.T) {
	negative := textwidth.MeasurerFunc(func(string) float64 { return -3 })

	_, err := NewTerminal("x", WithMeasurer(negative))
	assert.True(t, errors.Is(err, errors.ErrCodeGeometry), "got %v", err)

	_, err = NewComment("x", WithMeasurer(negative))
	assert.True(t, errors.Is(err, errors.ErrCodeGeometry), "got %v", err)
}

func TestLeafRejectsBadLabel(t *testing.T) {
	_, err := NewNonTerminal("a\nb")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)

	_, err = NewTerminal("a", WithClass("not a class"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidStyle), "got %v", err)
}

func TestNewDebugValidates(t *testing.T) {
	_, err := NewDebug(10, 5, 6)
	assert.True(t, errors.Is(err, errors.ErrCodeGeometry))

	_, err = NewDebug(-1, 5, 2)
	assert.True(t, errors.Is(err, errors.ErrCodeGeometry))
}

func TestTerminalDraw(t *testing.T) {
	n, err := NewTerminal("a<b", WithClass("keyword"), WithAttr("data-rule", "cmp"))
	require.NoError(t, err)

	el := n.Draw(10, 20, Pen{})
	class, _ := el.Attr("class")
	assert.Equal(t, "terminal keyword", class)
	rule, _ := el.Attr("data-rule")
	assert.Equal(t, "cmp", rule)

	out := el.String()
	assert.Contains(t, out, `rx="10"`)
	assert.Contains(t, out, "a&lt;b")

	text := el.Find("text")[0]
	x, _ := text.Attr("x")
	y, _ := text.Attr("y")
	assert.Equal(t, svg.Num(10+n.Width()/2), x)
	assert.Equal(t, "36", y)
}

func TestNonTerminalHasSquareCorners(t *testing.T) {
	out := nonTerm(t, "expr").Draw(0, 0, Pen{}).String()
	assert.NotContains(t, out, "rx=")
	assert.Contains(t, out, `class="nonterminal"`)
}

func TestSetAttrReplacesClass(t *testing.T) {
	n := term(t, "a")
	n.SetAttr("class", "custom")
	class, _ := n.Draw(0, 0, Pen{}).Attr("class")
	assert.Equal(t, "custom", class)
}

func TestDebugPenFramesNodes(t *testing.T) {
	seq := Must(NewSequence(term(t, "a"), nonTerm(t, "b")))
	el := seq.Draw(0, 0, Pen{Debug: true})

	kind, ok := el.Attr("data-railroad-kind")
	require.True(t, ok)
	assert.Equal(t, "Sequence", kind)

	var kinds []string
	el.Walk(func(e *svg.Element) bool {
		if k, ok := e.Attr("data-railroad-kind"); ok {
			kinds = append(kinds, k)
		}
		return true
	})
	assert.Equal(t, []string{"Sequence", "Terminal", "NonTerminal"}, kinds)
}

func TestWalk(t *testing.T) {
	a, b := term(t, "a"), term(t, "b")
	root := Must(NewSequence(a, Must(NewOptional(b))))

	var got []string
	Walk(root, func(n Node, depth int) bool {
		got = append(got, Kind(n))
		return true
	})
	assert.Equal(t, []string{"Sequence", "Terminal", "Optional", "Terminal"}, got)
}

func TestMustPanics(t *testing.T) {
	assert.Panics(t, func() { Must(NewChoice()) })
}
