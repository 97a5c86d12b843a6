package palette

import (
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// FromImage derives a three-color palette from image content by
// clustering pixel colors and ordering the centers darkest to
// brightest: darkest becomes the background, brightest the highlight.
// Falls back to dominant-color extraction when clustering yields
// fewer than three usable centers.
func FromImage(img image.Image) Palette {
	cols := kmeansColors(img, 3)
	if len(cols) < 3 {
		cols = dominantColors(img, 3)
	}
	for len(cols) < 3 {
		// Degenerate inputs (flat or near-flat images) may collapse to a
		// single center; pad with the last color so the palette stays valid.
		cols = append(cols, cols[len(cols)-1])
	}

	slices.SortFunc(cols, func(a, b colorful.Color) int {
		la, lb := luma(a), luma(b)
		if la < lb {
			return -1
		}
		if la > lb {
			return 1
		}
		return 0
	})

	return Palette{
		Background: toNRGBA(cols[0]),
		Midtone:    toNRGBA(cols[1]),
		Highlight:  toNRGBA(cols[2]),
	}
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func kmeansColors(img image.Image, k int) []colorful.Color {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	// Subsample to keep clustering tractable on large images.
	const maxSamples = 10000
	step := 1
	if w*h > maxSamples {
		step = int(math.Sqrt(float64(w*h)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, maxSamples)
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r16) / 65535.0,
				float64(g16) / 65535.0,
				float64(b16) / 65535.0,
			})
		}
	}
	if len(dataset) < k {
		return nil
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil {
		return nil
	}

	out := make([]colorful.Color, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		out = append(out, colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped())
	}
	return out
}

func dominantColors(img image.Image, k int) []colorful.Color {
	cands := dominantcolor.FindWeight(img, max(8, k*4))
	if len(cands) == 0 {
		return []colorful.Color{{R: 0.5, G: 0.5, B: 0.5}}
	}
	out := make([]colorful.Color, 0, k)
	for _, c := range cands {
		col, _ := colorful.MakeColor(c.RGBA)
		out = append(out, col.Clamped())
		if len(out) == k {
			break
		}
	}
	return out
}
