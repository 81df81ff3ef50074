// Package textwidth measures label text for diagram layout.
//
// Layout works in character cells: a label measured at n cells gets a box n
// grid steps wide. Two measurers ship with the package:
//
//   - [Table]: a rune table backed by the Unicode East Asian Width data
//     (github.com/mattn/go-runewidth). Fast, font independent, and the default.
//   - [Font]: exact advances from a TrueType font, normalized so that one
//     cell is the width of '0'. [NewMonoFont] uses the embedded Go Mono face.
//
// Any function can be adapted with [MeasurerFunc]. Widths pass through
// [Measure] before layout uses them; negative or non-finite widths are
// rejected with a GEOMETRY_ERROR.
package textwidth
