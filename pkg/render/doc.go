// Package render converts railroad diagrams to raster and print formats and
// draws the structure of a node tree.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG with the external rsvg-convert tool
// (from librsvg), which honors the diagram stylesheet and fonts exactly.
//
//	pdf, err := render.ToPDF(d.Bytes())
//	png, err := render.ToPNG(d.Bytes(), 2.0) // 2x scale
//
// [Rasterize] needs no external tools: it paints the document's shapes with
// oksvg and rasterx and draws labels with the embedded Go Mono faces. It
// does not read stylesheets, so colors come from a [Palette].
// [DiagramPNG] picks rsvg-convert when it is installed and Rasterize
// otherwise.
//
// # Structure View
//
// [Structure] lays out the node tree itself with Graphviz, one box per node,
// which helps when debugging a large description:
//
//	out, err := render.Structure(ctx, d.Root(), render.StructureOptions{Detailed: true})
package render
