package textwidth

import (
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/railroad/pkg/errors"
)

// Measurer reports the rendered width of a string in character cells, where
// one cell is the advance of a typical monospace glyph.
type Measurer interface {
	Width(s string) float64
}

// MeasurerFunc adapts a plain function to [Measurer].
type MeasurerFunc func(s string) float64

func (f MeasurerFunc) Width(s string) float64 { return f(s) }

// Default is the measurer used when a node is built without one.
var Default Measurer = NewTable()

// Measure runs m on s and rejects widths that layout cannot use.
// A nil m measures with [Default].
func Measure(m Measurer, s string) (float64, error) {
	if m == nil {
		m = Default
	}
	w := m.Width(s)
	if err := errors.ValidateMeasure("text width of "+quote(s), w); err != nil {
		return 0, err
	}
	return w, nil
}

func quote(s string) string {
	if utf8.RuneCountInString(s) > 32 {
		s = string([]rune(s)[:29]) + "..."
	}
	return `"` + s + `"`
}

// FallbackWidth is the cell width assumed for characters neither the table
// nor the Unicode width data can place.
const FallbackWidth = 1

// Table measures text with a per-rune override table, falling back to the
// Unicode East Asian Width data, then to [FallbackWidth]. The total gets a
// 5% allowance (one extra cell per twenty) because proportional fallback
// fonts rarely match the monospace grid exactly.
type Table struct {
	// Runes overrides the width of individual characters.
	Runes map[rune]float64
	// NoFudge disables the 5% allowance.
	NoFudge bool

	cond *runewidth.Condition
}

// TableOption configures a [Table].
type TableOption func(*Table)

// WithRune overrides the width of a single character.
func WithRune(r rune, cells float64) TableOption {
	return func(t *Table) { t.Runes[r] = cells }
}

// WithoutFudge disables the 5% allowance.
func WithoutFudge() TableOption { return func(t *Table) { t.NoFudge = true } }

// WithEastAsianAmbiguousWide counts ambiguous-width characters as two cells,
// as CJK terminals and fonts do.
func WithEastAsianAmbiguousWide() TableOption {
	return func(t *Table) { t.cond.EastAsianWidth = true }
}

func NewTable(opts ...TableOption) *Table {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	t := &Table{Runes: make(map[rune]float64), cond: cond}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Table) Width(s string) float64 {
	var total float64
	for _, r := range s {
		total += t.rune(r)
	}
	if t.NoFudge {
		return total
	}
	return total + float64(int(total/20))
}

func (t *Table) rune(r rune) float64 {
	if w, ok := t.Runes[r]; ok {
		return w
	}
	if w := t.cond.RuneWidth(r); w > 0 {
		return float64(w)
	}
	if unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf) {
		return 0
	}
	return FallbackWidth
}
