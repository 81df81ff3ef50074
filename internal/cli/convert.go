package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/railroad/pkg/errors"
	rio "github.com/matzehuels/railroad/pkg/io"
)

// convertCommand creates the convert command, which re-encodes a
// description in another format.
func (c *CLI) convertCommand() *cobra.Command {
	var to, output string

	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Re-encode a description as JSON, YAML or TOML",
		Example: `  railroad convert expr.json -t yaml
  railroad convert expr.json -o expr.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := rio.Load(args[0])
			if err != nil {
				return err
			}
			// Decoding validated the kinds; building validates the rest.
			if _, err := doc.Build(nil); err != nil {
				return err
			}

			if output != "" {
				if to != "" {
					want, err := rio.ParseFormat(to)
					if err != nil {
						return err
					}
					if got, err := rio.FormatFromPath(output); err != nil || got != want {
						return errors.New(errors.ErrCodeInvalidInput, "output %s does not match format %s", output, want)
					}
				}
				if err := rio.Export(doc, output); err != nil {
					return err
				}
				printFile(c.Err, output)
				return nil
			}

			if to == "" {
				return errors.New(errors.ErrCodeInvalidInput, "convert needs -t or -o")
			}
			format, err := rio.ParseFormat(to)
			if err != nil {
				return err
			}
			return rio.Encode(c.Out, doc, format)
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", "target format: json, yaml or toml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (format from its extension)")

	return cmd
}
