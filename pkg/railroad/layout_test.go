package railroad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/railroad/pkg/errors"
)

func TestStackGeometry(t *testing.T) {
	assertGeometry(t, Must(NewStack()), 0, 0, 0)

	a := term(t, "a")
	assertGeometry(t, Must(NewStack(a)), 28, 22, 11)

	// Two rows: 11 + max(11+12, 24) + 12 + 1 between row tops, padded both
	// sides plus room for the climbing track.
	assertGeometry(t, Must(NewStack(term(t, "a"), term(t, "a"))), 76, 70, 11)

	// A narrower first row does not need the extra clearance.
	assertGeometry(t, Must(NewStack(term(t, "a"), term(t, "abc"))), 12+44+24, 70, 11)
}

func TestStackPlacesRows(t *testing.T) {
	s := Must(NewStack(term(t, "a"), term(t, "b")))
	rects := s.Draw(0, 0, Pen{}).Find("rect")
	require.Len(t, rects, 2)

	for i, wantY := range []string{"0", "48"} {
		x, _ := rects[i].Attr("x")
		y, _ := rects[i].Attr("y")
		assert.Equal(t, "12", x)
		assert.Equal(t, wantY, y)
	}
}

func TestStackPush(t *testing.T) {
	s := Must(NewStack(term(t, "a")))
	require.NoError(t, s.Push(term(t, "a")))
	assertGeometry(t, s, 76, 70, 11)
}

func TestGridGeometry(t *testing.T) {
	a, tall := term(t, "a"), debugNode(t, 10, 40, 5)
	assertGeometry(t, Must(NewHorizontalGrid(a, tall)), 50, 40, 0)
	assertGeometry(t, Must(NewVerticalGrid(a, tall)), 28, 74, 0)
	assertGeometry(t, Must(NewHorizontalGrid()), 0, 0, 0)
}

func TestGridDrawsNoTrack(t *testing.T) {
	g := Must(NewVerticalGrid(term(t, "a"), term(t, "b")))
	el := g.Draw(0, 0, Pen{})
	assert.Empty(t, el.Find("path"))

	rects := el.Find("rect")
	require.Len(t, rects, 2)
	y, _ := rects[1].Attr("y")
	assert.Equal(t, "34", y)
}

func TestLabeledBoxGeometry(t *testing.T) {
	a := term(t, "a")
	assertGeometry(t, Must(NewLabeledBox(a, Must(NewComment("lbl")))), 47, 66, 47)
	assertGeometry(t, Must(NewLabeledBox(a, nil)), 44, 38, 19)
	assertGeometry(t, Must(NewLabeledBox(NewEmpty(), nil)), 0, 0, 0)
}

func TestLabeledBoxDraw(t *testing.T) {
	b := Must(NewLabeledBox(term(t, "a"), Must(NewComment("lbl"))))
	el := b.Draw(0, 0, Pen{})
	class, _ := el.Attr("class")
	assert.Equal(t, "labeledbox", class)

	rects := el.Find("rect")
	require.Len(t, rects, 2)
	w, _ := rects[0].Attr("width")
	assert.Equal(t, "47", w)
	iy, _ := rects[1].Attr("y")
	assert.Equal(t, "36", iy)
}

func TestLinkKeepsGeometry(t *testing.T) {
	inner := Must(NewChoice(term(t, "a"), term(t, "b")))
	l := Must(NewLink(inner, "#rule-a", WithTarget(TargetBlank)))
	assertGeometry(t, l, inner.Width(), inner.Height(), inner.EntryHeight())

	el := l.Draw(0, 0, Pen{})
	assert.Equal(t, "a", el.Name())
	href, _ := el.Attr("xlink:href")
	target, _ := el.Attr("target")
	assert.Equal(t, "#rule-a", href)
	assert.Equal(t, "_blank", target)
}

func TestLinkValidates(t *testing.T) {
	_, err := NewLink(term(t, "a"), "javascript:alert(1)")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)

	_, err = NewLink(term(t, "a"), "https://example.com", WithTarget("_self"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)

	_, err = NewLink(nil, "https://example.com")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidStructure), "got %v", err)
}

func TestParseLinkTarget(t *testing.T) {
	for in, want := range map[string]LinkTarget{
		"":        TargetNone,
		"blank":   TargetBlank,
		"_parent": TargetParent,
		"top":     TargetTop,
	} {
		got, err := ParseLinkTarget(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLinkTarget("window")
	assert.Error(t, err)
}
