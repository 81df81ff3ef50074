// Package railroad lays out and draws railroad (syntax) diagrams as SVG.
//
// # Overview
//
// A diagram is a tree of [Node] values. Leaves are tokens and markers
// ([Terminal], [NonTerminal], [Comment], [Start], [End], [Empty]);
// composites arrange their children and draw the connecting track
// ([Sequence], [Choice], [Optional], [Repeat], [Stack], [LabeledBox],
// [Link], [HorizontalGrid], [VerticalGrid]). Every node reports the same
// three numbers:
//
//   - Width and Height of its bounding box
//   - EntryHeight: how far below the top edge the track enters and leaves
//
// Composites compute their geometry bottom-up from their children only, so
// any tree can be assembled by composition without a global layout pass.
// Geometry is memoized and recomputed after a Push anywhere in the program.
//
// # Building a diagram
//
//	seq := railroad.Must(railroad.NewSequence(
//		railroad.Must(railroad.NewTerminal("SELECT")),
//		railroad.Must(railroad.NewChoice(
//			railroad.Must(railroad.NewTerminal("*")),
//			railroad.Must(railroad.NewNonTerminal("columns")),
//		)),
//	))
//	d, err := railroad.NewDiagram(seq, railroad.WithStylesheet(railroad.LightStylesheet))
//	if err != nil {
//		return err
//	}
//	d.WriteTo(os.Stdout)
//
// # Errors
//
// Malformed trees are rejected when they are built: a Choice without
// branches or a nil child fails with INVALID_STRUCTURE, and a label whose
// measured width is negative or not finite fails with GEOMETRY_ERROR.
// Geometry queries and Draw never fail.
//
// # Text width
//
// Labelled leaves size themselves by measuring their text in character
// cells (see package textwidth). Pass [WithMeasurer] to use exact font
// metrics instead of the default table.
//
// # Concurrency
//
// Drawing never mutates a tree, and independent trees can be drawn from
// separate goroutines. Do not Push into a tree while it is being drawn.
package railroad
