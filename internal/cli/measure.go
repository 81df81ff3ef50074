package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railroad/pkg/pipeline"
	"github.com/matzehuels/railroad/pkg/railroad"
	"github.com/matzehuels/railroad/pkg/svg"
	"github.com/matzehuels/railroad/pkg/textwidth"
)

// measureCommand creates the measure command, which prints how wide labels
// come out: their width in character cells and the width of a terminal box
// holding them.
func (c *CLI) measureCommand() *cobra.Command {
	var measurer, font string

	cmd := &cobra.Command{
		Use:   "measure TEXT...",
		Short: "Print the measured width of labels",
		Example: `  railroad measure BEGIN syntax
  railroad measure "日本語" --measurer font`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("measurer") {
				measurer = c.cfg().Render.Measurer
			}
			var m textwidth.Measurer
			var err error
			if font != "" {
				m, _, err = loadFont(font)
			} else {
				m, err = pipeline.NewMeasurer(measurer)
			}
			if err != nil {
				return err
			}

			for _, text := range args {
				t, err := railroad.NewTerminal(text, railroad.WithMeasurer(m))
				if err != nil {
					return err
				}
				cells, _ := textwidth.Measure(m, text)
				fmt.Fprintf(c.Out, "%s  %s cells  %s wide\n",
					styleLabel.Render(strconv.Quote(text)),
					StyleNumber.Render(svg.Num(cells)),
					StyleNumber.Render(svg.Num(t.Width())))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&measurer, "measurer", pipeline.DefaultMeasurer, "text measurer: table or font")
	cmd.Flags().StringVar(&font, "font", "", "measure with this TrueType/OpenType font")
	cmd.MarkFlagsMutuallyExclusive("measurer", "font")

	return cmd
}
