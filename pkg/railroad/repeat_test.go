package railroad

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/svg"
)

func TestRepeatGeometry(t *testing.T) {
	tests := []struct {
		name     string
		inner    Node
		repeat   Node
		opts     []RepeatOption
		w, h, eh float64
	}{
		{"one or more", term(t, "a"), NewEmpty(), nil, 52, 35, 11},
		{"one or more above", term(t, "a"), NewEmpty(), []RepeatOption{LoopAbove()}, 52, 35, 24},
		{"separator", term(t, "a"), term(t, ","), nil, 52, 54, 11},
		{"separator above", term(t, "a"), term(t, ","), []RepeatOption{LoopAbove()}, 52, 54, 43},
		{"wide loop", term(t, "a"), term(t, "abcdefgh"), nil, 24 + 84, 54, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRepeat(tt.inner, tt.repeat, tt.opts...)
			require.NoError(t, err)
			assertGeometry(t, r, tt.w, tt.h, tt.eh)
		})
	}
}

func TestRepeatPlacesChildren(t *testing.T) {
	a, sep := term(t, "a"), term(t, ",")
	r := Must(NewRepeat(a, sep))

	rects := r.Draw(0, 0, Pen{}).Find("rect")
	require.Len(t, rects, 2)

	// Loop-back child is added first so the forward child paints on top.
	sx, _ := rects[0].Attr("x")
	sy, _ := rects[0].Attr("y")
	assert.Equal(t, "12", sx)
	assert.Equal(t, "32", sy)

	ax, _ := rects[1].Attr("x")
	ay, _ := rects[1].Attr("y")
	assert.Equal(t, "12", ax)
	assert.Equal(t, "0", ay)
}

func TestRepeatAbovePlacesChildren(t *testing.T) {
	a, sep := term(t, "a"), term(t, ",")
	r := Must(NewRepeat(a, sep, LoopAbove()))
	assert.True(t, r.LoopsAbove())

	rects := r.Draw(0, 0, Pen{}).Find("rect")
	require.Len(t, rects, 2)
	sy, _ := rects[0].Attr("y")
	ay, _ := rects[1].Attr("y")
	assert.Equal(t, "0", sy)
	assert.Equal(t, "32", ay)
}

func TestRepeatIndicatesShortLoopDirection(t *testing.T) {
	// The loop-back run left of an Empty repeat is as wide as the forward
	// child; between 10 and 50 units it gets a single reversed chevron.
	r := Must(NewRepeat(term(t, "abc"), NewEmpty()))
	d, _ := r.Draw(0, 0, Pen{}).Find("path")[0].Attr("d")
	assert.Contains(t, d, " h -44 m 22 0 l 5 -5 m 0 10 l -5 -5 m -22 0")
}

func TestRepeatLongLoopUsesRunArrow(t *testing.T) {
	r := Must(NewRepeat(term(t, "abcdefgh"), NewEmpty()))
	d, _ := r.Draw(0, 0, Pen{}).Find("path")[0].Attr("d")
	// Horizontal puts its own chevron on runs over the threshold.
	assert.Contains(t, d, " h -84 m 45 0 l 5 -5 m 0 10 l -5 -5 m -45 0")
	assert.NotContains(t, d, " h -84 m 42 0")
}

func TestRepeatIndicatesDirectionOnClimb(t *testing.T) {
	// Without a free run left of the loop-back child the chevron sits
	// halfway up the climb back to the forward path.
	r := Must(NewRepeat(term(t, "a"), term(t, "b")))
	d, _ := r.Draw(0, 0, Pen{}).Find("path")[0].Attr("d")
	assert.Contains(t, d, " v -8 m 0 4 l -5 5 m 10 0 l -5 -5 m 0 -4")
}

func TestRepeatAlwaysIndicatesLoopDirection(t *testing.T) {
	const (
		west  = "l 5 -5 m 0 10 l -5 -5"
		east  = "l -5 -5 m 0 10 l 5 -5"
		north = "l -5 5 m 10 0 l -5 -5"
		south = "l -5 -5 m 10 0 l -5 5"
	)
	tests := []struct {
		name        string
		inner, loop string
	}{
		{"equal widths", "a", "b"},
		{"wider loop", "a", "bbbb"},
		{"much wider loop", "a", "abcdefgh"},
		{"short free run", "ab", "a"},
		{"free run", "abc", "a"},
		{"long free run", "abcdefghij", "a"},
	}

	for _, tt := range tests {
		for _, above := range []bool{false, true} {
			for _, dir := range []svg.HDir{svg.LTR, svg.RTL} {
				var opts []RepeatOption
				if above {
					opts = append(opts, LoopAbove())
				}
				r := Must(NewRepeat(term(t, tt.inner), term(t, tt.loop), opts...))
				d, _ := r.Draw(0, 0, Pen{Dir: dir}).Find("path")[0].Attr("d")

				// Loop-back travel opposes the pen; the climb runs from the
				// loop towards the forward path.
				horizontal, vertical := west, north
				if dir == svg.RTL {
					horizontal = east
				}
				if (dir == svg.RTL) != above {
					vertical = south
				}
				assert.True(t, strings.Contains(d, horizontal) || strings.Contains(d, vertical),
					"%s above=%v dir=%v: no loop-back indicator in %q", tt.name, above, dir, d)
			}
		}
	}
}

func TestRepeatReversesLoopChild(t *testing.T) {
	inner := Must(NewRepeat(term(t, "abcdefgh"), NewEmpty()))
	outer := Must(NewRepeat(term(t, "x"), inner))

	// inner sits at (12, 32): right-aligned under the forward path.
	out := outer.Draw(0, 0, Pen{}).String()
	assert.Contains(t, out, inner.Draw(12, 32, Pen{Dir: svg.RTL}).String())
	assert.NotContains(t, out, inner.Draw(12, 32, Pen{Dir: svg.LTR}).String())
}

func TestRepeatRejectsNil(t *testing.T) {
	_, err := NewRepeat(nil, NewEmpty())
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidStructure))
	_, err = NewRepeat(term(t, "a"), nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidStructure))
}
