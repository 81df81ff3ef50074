package pipeline

import (
	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/railroad"
	"github.com/matzehuels/railroad/pkg/render"
)

// renderFormat produces one output format of a built diagram.
func renderFormat(d *railroad.Diagram, format string, scale float64, p render.Palette) ([]byte, error) {
	switch format {
	case FormatSVG:
		return d.Bytes(), nil
	case FormatPNG:
		return render.DiagramPNG(d, scale, p)
	case FormatPDF:
		return render.ToPDF(d.Bytes())
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
}
