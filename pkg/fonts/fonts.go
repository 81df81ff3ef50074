// Package fonts provides the embedded fonts used to measure and rasterize
// diagram labels.
//
// The Go Mono family ships with golang.org/x/image, so the fonts are
// compiled into the binary and available without external dependencies.
// Diagram text is laid out on a monospace grid; measuring with the same face
// that the stylesheets request keeps boxes tight around their labels.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/opentype"
)

// MonoTTF returns the Go Mono TrueType data.
func MonoTTF() []byte {
	return gomono.TTF
}

// MonoBoldTTF returns the Go Mono Bold TrueType data.
func MonoBoldTTF() []byte {
	return gomonobold.TTF
}

// Parsed fonts (computed once on first access).
var (
	mono         *opentype.Font
	monoErr      error
	monoOnce     sync.Once
	monoBold     *opentype.Font
	monoBoldErr  error
	monoBoldOnce sync.Once
	monoIt       *opentype.Font
	monoItErr    error
	monoItOnce   sync.Once
)

// Mono returns the parsed Go Mono font. The result is cached after first
// parse and safe to share between goroutines.
func Mono() (*opentype.Font, error) {
	monoOnce.Do(func() {
		mono, monoErr = opentype.Parse(gomono.TTF)
	})
	return mono, monoErr
}

// MonoBold returns the parsed Go Mono Bold font.
func MonoBold() (*opentype.Font, error) {
	monoBoldOnce.Do(func() {
		monoBold, monoBoldErr = opentype.Parse(gomonobold.TTF)
	})
	return monoBold, monoBoldErr
}

// MonoItalic returns the parsed Go Mono Italic font, used for comments.
func MonoItalic() (*opentype.Font, error) {
	monoItOnce.Do(func() {
		monoIt, monoItErr = opentype.Parse(gomonoitalic.TTF)
	})
	return monoIt, monoItErr
}

// Cache for the base64-encoded font (computed once on first access).
var (
	monoBase64     string
	monoBase64Once sync.Once
)

// MonoTTFBase64 returns the Go Mono data as a base64 string, for embedding
// in an @font-face rule. The result is cached after first computation.
func MonoTTFBase64() string {
	monoBase64Once.Do(func() {
		monoBase64 = base64.StdEncoding.EncodeToString(gomono.TTF)
	})
	return monoBase64
}

// FontFamily is the CSS font-family name for the embedded font.
const FontFamily = "Go Mono"

// FallbackFontFamily provides fallback fonts for viewers without the embedded font.
const FallbackFontFamily = `'Go Mono', 'DejaVu Sans Mono', Menlo, Consolas, monospace`
