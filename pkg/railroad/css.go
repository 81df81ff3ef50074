package railroad

import (
	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/fonts"
	"github.com/matzehuels/railroad/pkg/svg"
)

// Stylesheet is a CSS block for styling rendered diagrams.
type Stylesheet string

// LightStylesheet draws black tracks on a light paper grid.
const LightStylesheet Stylesheet = `
    svg.railroad {
        background-color: hsl(30, 20%, 95%);
        background-size: 15px 15px;
        background-image: linear-gradient(to right, rgba(30, 30, 30, .05) 1px, transparent 1px),
                          linear-gradient(to bottom, rgba(30, 30, 30, .05) 1px, transparent 1px);
    }

    svg.railroad path {
        stroke-width: 3px;
        stroke: black;
        fill: transparent;
    }

    svg.railroad .debug {
        stroke-width: 1px;
        stroke: red;
    }

    svg.railroad text {
        font: 14px ` + fonts.FallbackFontFamily + `;
        text-anchor: middle;
    }

    svg.railroad .nonterminal text {
        font-weight: bold;
    }

    svg.railroad text.comment {
        font: italic 12px ` + fonts.FallbackFontFamily + `;
    }

    svg.railroad rect {
        stroke-width: 3px;
        stroke: black;
        fill: hsl(70, 70%, 90%);
    }

    svg.railroad g.labeledbox > rect {
        stroke-width: 1px;
        stroke: grey;
        stroke-dasharray: 5px;
        fill: rgba(90, 90, 150, .1);
    }`

// DarkStylesheet draws light tracks on a dark background.
const DarkStylesheet Stylesheet = `
    svg.railroad {
        background-color: hsl(220, 15%, 14%);
        background-size: 15px 15px;
        background-image: linear-gradient(to right, rgba(220, 220, 220, .05) 1px, transparent 1px),
                          linear-gradient(to bottom, rgba(220, 220, 220, .05) 1px, transparent 1px);
    }

    svg.railroad path {
        stroke-width: 3px;
        stroke: hsl(220, 15%, 85%);
        fill: transparent;
    }

    svg.railroad .debug {
        stroke-width: 1px;
        stroke: hsl(0, 90%, 65%);
    }

    svg.railroad text {
        font: 14px ` + fonts.FallbackFontFamily + `;
        text-anchor: middle;
        fill: hsl(220, 15%, 92%);
    }

    svg.railroad .nonterminal text {
        font-weight: bold;
    }

    svg.railroad text.comment {
        font: italic 12px ` + fonts.FallbackFontFamily + `;
    }

    svg.railroad rect {
        stroke-width: 3px;
        stroke: hsl(220, 15%, 85%);
        fill: hsl(220, 30%, 25%);
    }

    svg.railroad g.labeledbox > rect {
        stroke-width: 1px;
        stroke: hsl(220, 10%, 55%);
        stroke-dasharray: 5px;
        fill: rgba(150, 150, 220, .08);
    }`

// ParseStylesheet maps a stylesheet name to its CSS. "none" and "" map to
// an empty stylesheet.
func ParseStylesheet(name string) (Stylesheet, error) {
	switch name {
	case "", "none":
		return "", nil
	case "light", "default":
		return LightStylesheet, nil
	case "dark":
		return DarkStylesheet, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidStyle, "unknown stylesheet %q (want light, dark or none)", name)
	}
}

// Element returns the stylesheet as a <style> element.
func (s Stylesheet) Element() *svg.Element {
	return svg.New("style").Set("type", "text/css").RawText(string(s))
}

// fontFaceCSS embeds the measuring font so viewers draw labels with the
// exact advances layout assumed.
func fontFaceCSS() string {
	return `
    @font-face {
        font-family: '` + fonts.FontFamily + `';
        src: url(data:font/ttf;base64,` + fonts.MonoTTFBase64() + `) format('truetype');
    }`
}
