// Package pkg provides the core libraries for railroad syntax diagrams.
//
// # Overview
//
// Railroad lays out syntax diagrams (the boxes-and-tracks pictures used to
// document grammars) from a tree of nodes and writes them as SVG. The pkg
// directory is organized into four main areas:
//
//  1. [railroad] - Domain logic (node types, geometry, drawing)
//  2. [io] - Diagram descriptions in JSON, YAML and TOML
//  3. [render] - Conversion to PNG and PDF, plus a structure view
//  4. [pipeline] - Orchestration (build → render → cache)
//
// # Architecture
//
// The typical data flow:
//
//	Description file (.json/.yaml/.toml)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [railroad] package (node tree + layout)
//	         ↓
//	    [svg] package (element tree → markup)
//	         ↓
//	    [render] package (PNG/PDF)
//
// # Quick Start
//
// Build and write a diagram in code:
//
//	import "github.com/matzehuels/railroad/pkg/railroad"
//
//	root := railroad.Must(railroad.NewSequence(
//	    railroad.Must(railroad.NewTerminal("BEGIN")),
//	    railroad.Must(railroad.NewNonTerminal("syntax")),
//	))
//	d, _ := railroad.NewDiagram(root, railroad.WithStylesheet(railroad.LightStylesheet))
//	d.WriteTo(os.Stdout)
//
// Or render a description file with caching:
//
//	doc, _ := io.Load("expr.yaml")
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, _ := runner.Render(ctx, doc, pipeline.Options{Formats: []string{"svg", "png"}})
//
// # Main Packages
//
// ## Domain
//
// [railroad] - Node types (Terminal, NonTerminal, Sequence, Choice, Repeat,
// Stack, grids, boxes, links), their memoized geometry and their drawing.
//
// [textwidth] - Label measurement: a Unicode cell table by default, or
// glyph advances from a font.
//
// [svg] - A small element tree with deterministic serialization and a path
// builder for tracks and arcs.
//
// [fonts] - The embedded Go Mono faces used for measuring, rasterizing and
// optional font embedding.
//
// ## Formats
//
// [io] - Description documents: decode, encode and convert between JSON,
// YAML and TOML; build diagrams from them.
//
// [render] - SVG to PNG (librsvg or pure Go) and PDF (librsvg), and a
// Graphviz view of a node tree.
//
// ## Infrastructure
//
// [pipeline] - Build and render with caching, used by the CLI and the HTTP
// endpoint alike.
//
// [cache] - Render caches: file, Redis and null backends with scoped keys.
//
// [observability] - Hooks for build, render, cache and HTTP events.
//
// [errors] - Coded errors and input validators.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/railroad/...    # Specific package
//	go test -run Example ./pkg/...
//
// [railroad]: https://pkg.go.dev/github.com/matzehuels/railroad/pkg/railroad
// [io]: https://pkg.go.dev/github.com/matzehuels/railroad/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/railroad/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/railroad/pkg/pipeline
// [textwidth]: https://pkg.go.dev/github.com/matzehuels/railroad/pkg/textwidth
// [svg]: https://pkg.go.dev/github.com/matzehuels/railroad/pkg/svg
// [fonts]: https://pkg.go.dev/github.com/matzehuels/railroad/pkg/fonts
// [cache]: https://pkg.go.dev/github.com/matzehuels/railroad/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/railroad/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/railroad/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/railroad/pkg/buildinfo
package pkg
