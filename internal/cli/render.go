package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railroad/pkg/errors"
	rio "github.com/matzehuels/railroad/pkg/io"
	"github.com/matzehuels/railroad/pkg/pipeline"
)

// renderFlags holds the command-line flags for the render command. Unset
// flags fall back to the [render] section of the config file.
type renderFlags struct {
	output        string  // output file, base path (several formats) or directory (several inputs)
	formats       string  // comma-separated output formats
	stylesheet    string  // light, dark or none
	noMarkers     bool    // no implicit Start/End
	simpleMarkers bool    // small Start/End markers
	debug         bool    // geometry overlay
	embedFont     bool    // embed Go Mono in the SVG
	measurer      string  // table or font
	font          string  // font file to measure with
	scale         float64 // PNG scale
	noCache       bool    // disable the render cache
	refresh       bool    // ignore cached outputs
}

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render FILE...",
		Short: "Render diagram descriptions to SVG, PNG or PDF",
		Long: `Render one or more diagram descriptions (.json, .yaml, .yml or .toml).

Outputs are written next to each input unless -o is given. With several
inputs, -o names a directory; with several formats, -o is a base path
that gets one extension per format. -o - writes a single output to stdout.`,
		Example: `  railroad render expr.yaml
  railroad render expr.yaml -f svg,png --stylesheet dark
  railroad render grammar/*.yaml -o out/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, font, err := c.renderOptions(cmd, &f)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args, &f, opts, font)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file, base path or directory")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf (comma-separated)")
	cmd.Flags().StringVar(&f.stylesheet, "stylesheet", "", "stylesheet: light, dark or none (default: the document's)")
	cmd.Flags().BoolVar(&f.noMarkers, "no-markers", false, "do not add start and end markers")
	cmd.Flags().BoolVar(&f.simpleMarkers, "simple-markers", false, "use the small start and end markers")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "draw each node's bounding box and geometry")
	cmd.Flags().BoolVar(&f.embedFont, "embed-font", false, "embed the measuring font in the SVG")
	cmd.Flags().StringVar(&f.measurer, "measurer", "", "text measurer: table (default) or font")
	cmd.Flags().StringVar(&f.font, "font", "", "measure labels with this TrueType/OpenType font")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "PNG scale factor (default 2)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "re-render even when cached")
	cmd.MarkFlagsMutuallyExclusive("measurer", "font")

	return cmd
}

// renderOptions merges the config file's render defaults with the flags
// the user set.
func (c *CLI) renderOptions(cmd *cobra.Command, f *renderFlags) (pipeline.Options, string, error) {
	cfg := c.cfg().Render
	opts := pipeline.Options{
		Formats:       cfg.Formats,
		Stylesheet:    cfg.Stylesheet,
		NoMarkers:     cfg.Markers != nil && !*cfg.Markers,
		SimpleMarkers: cfg.SimpleMarkers,
		Debug:         cfg.Debug,
		EmbedFont:     cfg.EmbedFont,
		Measurer:      cfg.Measurer,
		Scale:         cfg.Scale,
	}
	font := cfg.Font

	set := cmd.Flags().Changed
	if set("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if set("stylesheet") {
		opts.Stylesheet = f.stylesheet
	}
	if set("no-markers") {
		opts.NoMarkers = f.noMarkers
	}
	if set("simple-markers") {
		opts.SimpleMarkers = f.simpleMarkers
	}
	if set("debug") {
		opts.Debug = f.debug
	}
	if set("embed-font") {
		opts.EmbedFont = f.embedFont
	}
	if set("measurer") {
		opts.Measurer, font = f.measurer, ""
	}
	if set("font") {
		font = f.font
	}
	if set("scale") {
		opts.Scale = f.scale
	}
	opts.Refresh = f.refresh

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, "", err
	}
	return opts, font, nil
}

// runRender loads every input, renders them concurrently and writes the
// outputs.
func (c *CLI) runRender(ctx context.Context, inputs []string, f *renderFlags, opts pipeline.Options, font string) error {
	logger := loggerFromContext(ctx)

	if f.output == "-" && (len(inputs) > 1 || len(opts.Formats) > 1) {
		return errors.New(errors.ErrCodeInvalidInput, "-o - needs a single input and a single format")
	}

	docs := make([]*rio.Document, len(inputs))
	for i, input := range inputs {
		doc, err := rio.Load(input)
		if err != nil {
			return err
		}
		docs[i] = doc
	}

	runner, err := c.newRunner(ctx, f.noCache, font)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	var spin *Spinner
	if len(docs) > 1 && logger.GetLevel() <= LogInfo {
		spin = newSpinnerWithContext(ctx, c.Err, fmt.Sprintf("Rendering %d diagrams...", len(docs)))
		spin.Start()
	}
	results, err := runner.RenderAll(ctx, docs, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	for i, res := range results {
		for _, format := range opts.Formats {
			data := res.Artifact(format)
			if f.output == "-" {
				if _, err := c.Out.Write(data); err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "write output")
				}
				continue
			}
			path := outputPath(f.output, inputs[i], format, len(inputs), len(opts.Formats))
			if err := writeOutput(path, data); err != nil {
				return err
			}
			printFile(c.Err, path)
		}
		printStats(c.Err, res.Stats.NodeCount, res.Stats.Width, res.Stats.Height, res.CacheHit)
	}

	prog.done(fmt.Sprintf("Rendered %d diagram(s)", len(results)))
	return nil
}

// outputPath decides where one output goes.
//
//   - no -o: next to the input, with the format's extension
//   - several inputs: -o is a directory
//   - several formats: -o is a base path (a known extension is stripped)
//   - otherwise: -o is the file
func outputPath(output, input, format string, inputs, formats int) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	switch {
	case output == "":
		return filepath.Join(filepath.Dir(input), base+"."+format)
	case inputs > 1:
		return filepath.Join(output, base+"."+format)
	case formats > 1:
		return basePath(output) + "." + format
	default:
		return output
	}
}

// basePath strips a known format extension from an output path.
func basePath(output string) string {
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
