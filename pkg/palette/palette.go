// Package palette provides the three-color output palettes used by the
// posterizer: a closed named set, custom hex-parsed palettes, and a
// palette suggestion derived from image content.
package palette

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette maps the three posterization zones to output colors.
type Palette struct {
	Background color.NRGBA
	Midtone    color.NRGBA
	Highlight  color.NRGBA
}

func rgb(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Original is the classic look: black, deep pink, gold.
func Original() Palette {
	return Palette{Background: rgb(0, 0, 0), Midtone: rgb(255, 20, 147), Highlight: rgb(255, 215, 0)}
}

// Burgundy is dark burgundy with white highlights.
func Burgundy() Palette {
	return Palette{Background: rgb(0, 0, 0), Midtone: rgb(114, 5, 70), Highlight: rgb(255, 255, 255)}
}

// BurgundyTeal is a deep burgundy duo with a teal complement.
func BurgundyTeal() Palette {
	return Palette{Background: rgb(88, 4, 55), Midtone: rgb(114, 5, 70), Highlight: rgb(0, 210, 190)}
}

// BurgundyGold is burgundy with warm gold.
func BurgundyGold() Palette {
	return Palette{Background: rgb(0, 0, 0), Midtone: rgb(88, 4, 55), Highlight: rgb(255, 200, 50)}
}

// Rose is monochrome burgundy: dark background, rose midtone, light pink.
func Rose() Palette {
	return Palette{Background: rgb(88, 4, 55), Midtone: rgb(180, 30, 100), Highlight: rgb(255, 220, 230)}
}

// CMYK is print-inspired cyan and magenta on black.
func CMYK() Palette {
	return Palette{Background: rgb(0, 0, 0), Midtone: rgb(0, 180, 220), Highlight: rgb(230, 0, 120)}
}

// FromName looks up a named palette. The palette set is closed.
func FromName(name string) (Palette, bool) {
	switch name {
	case "original":
		return Original(), true
	case "burgundy":
		return Burgundy(), true
	case "burgundy_teal":
		return BurgundyTeal(), true
	case "burgundy_gold":
		return BurgundyGold(), true
	case "rose":
		return Rose(), true
	case "cmyk":
		return CMYK(), true
	}
	return Palette{}, false
}

// Names lists all named palettes.
func Names() []string {
	return []string{"original", "burgundy", "burgundy_teal", "burgundy_gold", "rose", "cmyk"}
}

// ParseHex builds a custom palette from three hex strings like "#720546"
// (the leading '#' is optional).
func ParseHex(background, midtone, highlight string) (Palette, error) {
	bg, err := parseHexColor(background)
	if err != nil {
		return Palette{}, err
	}
	mid, err := parseHexColor(midtone)
	if err != nil {
		return Palette{}, err
	}
	hi, err := parseHexColor(highlight)
	if err != nil {
		return Palette{}, err
	}
	return Palette{Background: bg, Midtone: mid, Highlight: hi}, nil
}

func parseHexColor(s string) (color.NRGBA, error) {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// luma returns linear-light brightness for palette ordering.
func luma(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
