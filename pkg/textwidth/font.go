package textwidth

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/fonts"
)

// measurePPEM is the size glyph advances are read at. Widths are reported
// relative to the advance of '0', so the size only affects hinting.
const measurePPEM = 14

// Font measures text with the advances of a real font. One cell is the
// advance of the digit zero. Characters the font has no glyph for count as
// [FallbackWidth]. No allowance is added: the advances are exact.
//
// A Font is safe for concurrent use.
type Font struct {
	font *opentype.Font
	unit float64

	mu    sync.Mutex
	buf   sfnt.Buffer
	cache map[rune]float64
}

// NewFont builds a measurer from a parsed font.
func NewFont(f *opentype.Font) (*Font, error) {
	m := &Font{font: f, cache: make(map[rune]float64)}
	unit, ok, err := m.advance('0')
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGeometry, err, "read advance of '0'")
	}
	if !ok || unit <= 0 {
		return nil, errors.New(errors.ErrCodeGeometry, "font has no usable glyph for '0'")
	}
	m.unit = unit
	return m, nil
}

// NewMonoFont measures with the embedded Go Mono face.
func NewMonoFont() (*Font, error) {
	f, err := fonts.Mono()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse embedded font")
	}
	return NewFont(f)
}

// ParseFont measures with a TrueType or OpenType font file.
func ParseFont(data []byte) (*Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse font")
	}
	return NewFont(f)
}

func (m *Font) Width(s string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total float64
	for _, r := range s {
		if w, ok := m.cache[r]; ok {
			total += w
			continue
		}
		w := float64(FallbackWidth)
		if adv, ok, err := m.advance(r); err == nil && ok {
			w = adv / m.unit
		}
		m.cache[r] = w
		total += w
	}
	return total
}

// advance returns the glyph advance of r in pixels. Callers hold m.mu, or
// own m exclusively.
func (m *Font) advance(r rune) (float64, bool, error) {
	idx, err := m.font.GlyphIndex(&m.buf, r)
	if err != nil {
		return 0, false, err
	}
	if idx == 0 {
		return 0, false, nil
	}
	adv, err := m.font.GlyphAdvance(&m.buf, idx, fixed.Int26_6(measurePPEM*64), font.HintingNone)
	if err != nil {
		return 0, false, err
	}
	return fixedToFloat64(adv), true, nil
}

func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64
}
