package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/fonts"
	"github.com/matzehuels/railroad/pkg/railroad"
	"github.com/matzehuels/railroad/pkg/svg"
)

// Palette holds the colors the rasterizer paints with. The SVG renderers in
// browsers and librsvg take colors from the stylesheet instead.
type Palette struct {
	Background color.Color // nil leaves the image transparent
	Track      color.Color
	Fill       color.Color
	Text       color.Color
	Frame      color.Color // labeled box outline
	Debug      color.Color
}

// LightPalette matches [railroad.LightStylesheet].
var LightPalette = Palette{
	Background: color.RGBA{245, 242, 237, 255},
	Track:      color.Black,
	Fill:       color.RGBA{241, 247, 212, 255},
	Text:       color.Black,
	Frame:      color.RGBA{128, 128, 128, 255},
	Debug:      color.RGBA{255, 0, 0, 255},
}

// DarkPalette matches [railroad.DarkStylesheet].
var DarkPalette = Palette{
	Background: color.RGBA{30, 34, 41, 255},
	Track:      color.RGBA{211, 215, 222, 255},
	Fill:       color.RGBA{45, 57, 83, 255},
	Text:       color.RGBA{232, 234, 238, 255},
	Frame:      color.RGBA{133, 140, 153, 255},
	Debug:      color.RGBA{245, 92, 92, 255},
}

// PaletteFor picks the palette that matches a stylesheet.
func PaletteFor(s railroad.Stylesheet) Palette {
	if s == railroad.DarkStylesheet {
		return DarkPalette
	}
	return LightPalette
}

// complete fills unset colors from LightPalette. Background stays as given.
func (p Palette) complete() Palette {
	for _, c := range []struct {
		dst *color.Color
		def color.Color
	}{
		{&p.Track, LightPalette.Track},
		{&p.Fill, LightPalette.Fill},
		{&p.Text, LightPalette.Text},
		{&p.Frame, LightPalette.Frame},
		{&p.Debug, LightPalette.Debug},
	} {
		if *c.dst == nil {
			*c.dst = c.def
		}
	}
	return p
}

// Text sizes in user units, as set by the stylesheets.
const (
	labelSize   = 14
	commentSize = 12
)

type textStyle int

const (
	styleRegular textStyle = iota
	styleBold
	styleItalic
)

// label is a text element lifted out of the document; oksvg draws shapes
// only.
type label struct {
	x, y  float64
	text  string
	style textStyle
}

// Rasterize draws a diagram document to PNG without external tools. Shapes
// are painted by oksvg; labels are drawn with the embedded Go Mono faces.
func Rasterize(doc *svg.Element, scale float64, p Palette) ([]byte, error) {
	img, err := RasterizeImage(doc, scale, p)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// RasterizeImage is Rasterize without the PNG encoding.
func RasterizeImage(doc *svg.Element, scale float64, p Palette) (*image.RGBA, error) {
	if doc == nil || doc.Name() != "svg" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "rasterize: not an svg document")
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "rasterize: invalid scale %v", scale)
	}
	vw, vh, err := viewBox(doc)
	if err != nil {
		return nil, err
	}
	w := max(1, int(math.Ceil(vw*scale)))
	h := max(1, int(math.Ceil(vh*scale)))

	p = p.complete()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if p.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(p.Background), image.Point{}, draw.Src)
	}

	shapes, labels := flatten(doc, p)
	var buf bytes.Buffer
	if _, err := shapes.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rasterize")
	}
	icon, err := oksvg.ReadIconStream(&buf, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse flattened svg")
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	if err := drawLabels(img, labels, scale, p.Text); err != nil {
		return nil, err
	}
	return img, nil
}

func viewBox(doc *svg.Element) (float64, float64, error) {
	vb, _ := doc.Attr("viewBox")
	parts := strings.Fields(vb)
	if len(parts) != 4 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "rasterize: bad viewBox %q", vb)
	}
	w, errW := strconv.ParseFloat(parts[2], 64)
	h, errH := strconv.ParseFloat(parts[3], 64)
	if errW != nil || errH != nil || w < 0 || h < 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "rasterize: bad viewBox %q", vb)
	}
	return w, h, nil
}

// flatten copies the drawable shapes of doc with presentation attributes
// inlined, since oksvg does not apply stylesheets, and collects the labels.
func flatten(doc *svg.Element, p Palette) (*svg.Element, []label) {
	vb, _ := doc.Attr("viewBox")
	out := svg.New("svg").
		Set("xmlns", "http://www.w3.org/2000/svg").
		Set("viewBox", vb)

	var labels []label
	var visit func(src, dst *svg.Element, groupClass []string)
	visit = func(src, dst *svg.Element, groupClass []string) {
		for _, c := range src.Children() {
			class := classes(c)
			switch c.Name() {
			case "path":
				stroke, width := p.Track, 3.0
				if slices.Contains(class, "debug") {
					stroke, width = p.Debug, 1
				}
				d, _ := c.Attr("d")
				dst.Add(svg.New("path").
					Set("d", d).
					Set("fill", "none").
					Set("stroke", hex(stroke)).
					SetNum("stroke-width", width))
			case "rect":
				dst.Add(flatRect(c, class, groupClass, p))
			case "text":
				labels = append(labels, textLabel(c, class, groupClass))
			case "g", "a":
				g := svg.New("g")
				dst.Add(g)
				visit(c, g, class)
			}
		}
	}
	visit(doc, out, nil)
	return out, labels
}

func flatRect(c *svg.Element, class, groupClass []string, p Palette) *svg.Element {
	r := svg.New("rect")
	for _, k := range []string{"x", "y", "width", "height", "rx", "ry"} {
		if v, ok := c.Attr(k); ok {
			r.Set(k, v)
		}
	}
	switch {
	case slices.Contains(groupClass, "labeledbox"):
		r.Set("fill", "none").Set("stroke", hex(p.Frame)).Set("stroke-width", "1")
	case slices.Contains(class, "debug"):
		r.Set("fill", "none").Set("stroke", hex(p.Debug)).Set("stroke-width", "2")
	default:
		r.Set("fill", hex(p.Fill)).Set("stroke", hex(p.Track)).Set("stroke-width", "3")
	}
	return r
}

func textLabel(c *svg.Element, class, groupClass []string) label {
	xs, _ := c.Attr("x")
	ys, _ := c.Attr("y")
	x, _ := strconv.ParseFloat(xs, 64)
	y, _ := strconv.ParseFloat(ys, 64)
	l := label{x: x, y: y, text: c.Content()}
	switch {
	case slices.Contains(class, "comment"):
		l.style = styleItalic
	case slices.Contains(groupClass, "nonterminal"):
		l.style = styleBold
	}
	return l
}

func drawLabels(img *image.RGBA, labels []label, scale float64, c color.Color) error {
	if len(labels) == 0 {
		return nil
	}
	faces := make(map[textStyle]font.Face)
	defer func() {
		for _, f := range faces {
			f.Close()
		}
	}()

	d := &font.Drawer{Dst: img, Src: image.NewUniform(c)}
	for _, l := range labels {
		face, ok := faces[l.style]
		if !ok {
			var err error
			if face, err = newFace(l.style, scale); err != nil {
				return err
			}
			faces[l.style] = face
		}
		d.Face = face
		// Labels are anchored at their horizontal middle.
		adv := d.MeasureString(l.text)
		d.Dot = fixed.Point26_6{
			X: fixed.Int26_6(l.x*scale*64) - adv/2,
			Y: fixed.Int26_6(l.y * scale * 64),
		}
		d.DrawString(l.text)
	}
	return nil
}

func newFace(style textStyle, scale float64) (font.Face, error) {
	load, size := fonts.Mono, float64(labelSize)
	switch style {
	case styleBold:
		load = fonts.MonoBold
	case styleItalic:
		load, size = fonts.MonoItalic, commentSize
	}
	f, err := load()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font")
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font face")
	}
	return face, nil
}

func classes(e *svg.Element) []string {
	c, _ := e.Attr("class")
	return strings.Fields(c)
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
