package rembg

import (
	"fmt"
	"image"

	"github.com/razemify/razemify/pkg/types"
)

// ApplyMask rewrites the raster's alpha channel from a probability
// mask: alpha becomes 255 where the mask value is strictly greater than
// ratio*255, 0 otherwise. A hard binary cutoff with no blending; RGB is
// untouched.
func ApplyMask(img *image.NRGBA, mask *image.Gray, ratio float64) error {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	mb := mask.Bounds()
	if mb.Dx() != w || mb.Dy() != h {
		return fmt.Errorf("%w: mask %dx%d, raster %dx%d",
			types.ErrDimensionMismatch, mb.Dx(), mb.Dy(), w, h)
	}

	threshold := ratio * 255.0
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		maskRow := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x := 0; x < w; x++ {
			if float64(maskRow[x]) > threshold {
				row[x*4+3] = 255
			} else {
				row[x*4+3] = 0
			}
		}
	}
	return nil
}
