// Package pipeline turns diagram descriptions into rendered outputs.
//
// This package implements the build → render pipeline shared by the CLI
// commands and the HTTP endpoint, so both cache, log and report in the
// same way.
//
// # Stages
//
//  1. Build: turn an [io.Document] into a [railroad.Diagram]
//  2. Render: produce SVG, PNG and PDF bytes from the diagram
//
// Outputs are cached per format, keyed by a hash of the canonical
// description and every option that affects the output.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Render(ctx, doc, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("expr.svg", result.SVG, 0o644)
//
// [Runner.RenderAll] renders many documents concurrently.
package pipeline

import (
	"time"

	"github.com/matzehuels/railroad/pkg/cache"
	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/railroad"
	"github.com/matzehuels/railroad/pkg/textwidth"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultTTL is how long rendered outputs stay cached.
	DefaultTTL = 7 * 24 * time.Hour

	// DefaultMeasurer is the text measurer used when none is named.
	DefaultMeasurer = MeasurerTable
)

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// Measurer names.
const (
	// MeasurerTable counts Unicode cells with a small allowance.
	MeasurerTable = "table"
	// MeasurerFont reads glyph advances from the embedded Go Mono face.
	MeasurerFont = "font"
)

// ValidMeasurers is the set of supported measurer names.
var ValidMeasurers = map[string]bool{
	MeasurerTable: true,
	MeasurerFont:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one render. Zero values take the document's own
// settings or the package defaults.
type Options struct {
	Formats []string `json:"formats,omitempty"`

	// Stylesheet overrides the document's stylesheet: light, dark or none.
	Stylesheet string `json:"stylesheet,omitempty"`

	// NoMarkers suppresses implicit Start and End markers even when the
	// document asks for them.
	NoMarkers bool `json:"no_markers,omitempty"`

	// SimpleMarkers uses the small start and end markers.
	SimpleMarkers bool `json:"simple_markers,omitempty"`

	Debug     bool    `json:"debug,omitempty"`
	EmbedFont bool    `json:"embed_font,omitempty"`
	Measurer  string  `json:"measurer,omitempty"`
	Scale     float64 `json:"scale,omitempty"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	validated bool
}

// Result holds the outputs of one render. Only requested formats are set.
type Result struct {
	Name string
	SVG  []byte
	PNG  []byte
	PDF  []byte

	// CacheHit is true when every requested format came from the cache.
	CacheHit bool

	Stats Stats
}

// Stats contains render timing and size information.
type Stats struct {
	NodeCount  int
	Width      float64
	Height     float64
	BuildTime  time.Duration
	RenderTime time.Duration
}

// Artifact returns the output for format, or nil.
func (r *Result) Artifact(format string) []byte {
	switch format {
	case FormatSVG:
		return r.SVG
	case FormatPNG:
		return r.PNG
	case FormatPDF:
		return r.PDF
	}
	return nil
}

func (r *Result) set(format string, data []byte) {
	switch format {
	case FormatSVG:
		r.SVG = data
	case FormatPNG:
		r.PNG = data
	case FormatPDF:
		r.PDF = data
	}
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMeasurer checks that a measurer name is valid.
func ValidateMeasurer(name string) error {
	if !ValidMeasurers[name] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid measurer: %q (must be one of: table, font)", name)
	}
	return nil
}

// NewMeasurer returns the measurer with the given name.
func NewMeasurer(name string) (textwidth.Measurer, error) {
	switch name {
	case "", MeasurerTable:
		return textwidth.Default, nil
	case MeasurerFont:
		f, err := textwidth.NewMonoFont()
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return nil, ValidateMeasurer(name)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Stylesheet != "" {
		if _, err := railroad.ParseStylesheet(o.Stylesheet); err != nil {
			return err
		}
	}
	if o.Measurer == "" {
		o.Measurer = DefaultMeasurer
	}
	if err := ValidateMeasurer(o.Measurer); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if !(o.Scale > 0 && o.Scale <= 16) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid scale %v (must be in (0, 16])", o.Scale)
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one format of a document
// rendered with the given effective settings.
func (o *Options) ArtifactKeyOpts(format, stylesheet string, markers bool) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:        format,
		Stylesheet:    stylesheet,
		Markers:       markers,
		SimpleMarkers: markers && o.SimpleMarkers,
		Debug:         o.Debug,
		EmbedFont:     o.EmbedFont,
		Measurer:      o.Measurer,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
