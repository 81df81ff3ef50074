// Package svg is a minimal builder for SVG documents.
//
// An [Element] is a tag with attributes, children and optional text. It
// carries no drawing semantics of its own; callers assemble trees and
// serialize them with [Element.WriteTo]. Output is deterministic: attributes
// are written in sorted order and numbers are formatted by [Num].
//
// [PathData] builds path data strings from relative moves, straight runs and
// quarter-circle arcs:
//
//	d := svg.NewPath(svg.LTR).
//		MoveTo(0, 10).
//		Horizontal(20).
//		Arc(12, svg.ArcEastSouth)
//	el := d.Element().Set("class", "track")
package svg
