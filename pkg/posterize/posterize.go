// Package posterize buckets a luminance plane into three flat zones and
// renders them through a color palette, with optional comic-style
// outline overlays from Sobel edge detection.
//
// Zone assignment and palette rendering are deliberately separate: the
// same zone map can be re-rendered under different palettes without
// rerunning the threshold or edge logic.
package posterize

import (
	"image"

	"github.com/razemify/razemify/pkg/palette"
)

// Zone identifiers. Every pixel belongs to exactly one zone.
const (
	ZoneBackground uint8 = 0
	ZoneMidtone    uint8 = 1
	ZoneHighlight  uint8 = 2
)

// alphaEpsilon: pixels at or below this alpha are background regardless
// of luminance.
const alphaEpsilon = 10

// ZoneMap tags every pixel of a w×h plane with its zone id.
type ZoneMap struct {
	Zones []uint8
	W, H  int
}

// Zones buckets luminance into the three zones. Transparent-enough
// pixels (alpha <= 10) are forced into the background zone.
func Zones(gray, alpha []uint8, w, h int, threshLow, threshHigh uint8) ZoneMap {
	zones := make([]uint8, w*h)
	for i := range zones {
		switch {
		case alpha[i] <= alphaEpsilon:
			zones[i] = ZoneBackground
		case gray[i] < threshLow:
			zones[i] = ZoneBackground
		case gray[i] < threshHigh:
			zones[i] = ZoneMidtone
		default:
			zones[i] = ZoneHighlight
		}
	}
	return ZoneMap{Zones: zones, W: w, H: h}
}

// Render maps a zone map through a palette into an NRGBA raster,
// copying the alpha plane unchanged. A pure O(pixels) lookup: palette
// changes alone are cheap to re-render from a cached zone map.
func Render(zm ZoneMap, pal palette.Palette, alpha []uint8) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, zm.W, zm.H))
	colors := [3][3]uint8{
		{pal.Background.R, pal.Background.G, pal.Background.B},
		{pal.Midtone.R, pal.Midtone.G, pal.Midtone.B},
		{pal.Highlight.R, pal.Highlight.G, pal.Highlight.B},
	}

	for y := 0; y < zm.H; y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+zm.W*4]
		for x := 0; x < zm.W; x++ {
			c := colors[zm.Zones[y*zm.W+x]]
			row[x*4] = c[0]
			row[x*4+1] = c[1]
			row[x*4+2] = c[2]
			row[x*4+3] = alpha[y*zm.W+x]
		}
	}
	return out
}
