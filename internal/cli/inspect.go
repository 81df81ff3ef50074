package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	rio "github.com/matzehuels/railroad/pkg/io"
	"github.com/matzehuels/railroad/pkg/railroad"
	"github.com/matzehuels/railroad/pkg/render"
	"github.com/matzehuels/railroad/pkg/svg"
	"github.com/matzehuels/railroad/pkg/textwidth"
)

type inspectFlags struct {
	graph     string
	detailed  bool
	noMarkers bool
	font      string
}

// inspectCommand creates the inspect command, which prints a description's
// node tree with the geometry of every node.
func (c *CLI) inspectCommand() *cobra.Command {
	var f inspectFlags

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the node tree of a description with its geometry",
		Example: `  railroad inspect expr.yaml
  railroad inspect expr.yaml --graph expr-tree.svg --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := rio.Load(args[0])
			if err != nil {
				return err
			}

			var m textwidth.Measurer = textwidth.Default
			if f.font != "" {
				if m, _, err = loadFont(f.font); err != nil {
					return err
				}
			}
			var opts []railroad.DiagramOption
			if f.noMarkers {
				opts = append(opts, railroad.WithoutImplicitMarkers())
			}
			d, err := doc.Build(m, opts...)
			if err != nil {
				return err
			}

			if name := doc.Name; name != "" {
				fmt.Fprintln(c.Out, StyleTitle.Render(name))
			}
			printTree(c.Out, d.Root())
			fmt.Fprintf(c.Out, "%s %s × %s\n", StyleDim.Render("diagram"),
				StyleNumber.Render(svg.Num(d.Width())), StyleNumber.Render(svg.Num(d.Height())))

			if f.graph == "" {
				return nil
			}
			out, err := render.Structure(cmd.Context(), d.Root(), render.StructureOptions{Detailed: f.detailed})
			if err != nil {
				return err
			}
			if err := writeOutput(f.graph, out); err != nil {
				return err
			}
			printFile(c.Err, f.graph)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.graph, "graph", "", "also write the node tree as an SVG graph")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "include geometry in the graph's boxes")
	cmd.Flags().BoolVar(&f.noMarkers, "no-markers", false, "do not add start and end markers")
	cmd.Flags().StringVar(&f.font, "font", "", "measure labels with this TrueType/OpenType font")

	return cmd
}

// printTree writes one line per node, indented by depth:
//
//	Sequence  w=218 h=22 eh=11
//	  Terminal "BEGIN"  w=76 h=22 eh=11
func printTree(w io.Writer, root railroad.Node) {
	railroad.Walk(root, func(n railroad.Node, depth int) bool {
		var line strings.Builder
		line.WriteString(strings.Repeat("  ", depth))
		line.WriteString(styleKind.Render(railroad.Kind(n)))
		if l, ok := n.(interface{ Label() string }); ok {
			line.WriteString(" " + styleLabel.Render(strconv.Quote(l.Label())))
		}
		line.WriteString("  " + StyleDim.Render(fmt.Sprintf("w=%s h=%s eh=%s",
			svg.Num(n.Width()), svg.Num(n.Height()), svg.Num(n.EntryHeight()))))
		fmt.Fprintln(w, line.String())
		return true
	})
}
