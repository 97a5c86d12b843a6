// Package clahe implements contrast-limited adaptive histogram
// equalization over a luminance plane.
//
// The image is split into a tileGrid x tileGrid grid; each tile gets a
// clip-limited, redistribution-corrected histogram equalization lookup
// table, and every pixel is mapped through a bilinear blend of the four
// nearest tile tables to avoid visible tile seams.
package clahe

import (
	"image"
	"math"
)

// Equalize returns the equalized luminance plane. The input plane is
// not modified. clipLimit is the contrast clamp (>= 1.0), tileGrid the
// number of tiles along each axis; edge tiles shrink when the image
// does not divide evenly.
func Equalize(gray []uint8, w, h int, clipLimit float64, tileGrid int) []uint8 {
	if w <= 0 || h <= 0 {
		return nil
	}

	tilesX, tilesY := tileGrid, tileGrid
	tileW := (w + tilesX - 1) / tilesX
	tileH := (h + tilesY - 1) / tilesY

	luts := make([][256]uint8, tilesX*tilesY)

	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := min(x0+tileW, w), min(y0+tileH, h)
			tilePixels := (x1 - x0) * (y1 - y0)

			var hist [256]uint32
			nonzero := 0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					if hist[gray[y*w+x]] == 0 {
						nonzero++
					}
					hist[gray[y*w+x]]++
				}
			}

			// A single-bin tile has no spread to equalize; clipping
			// redistribution would shift its value, so map it through
			// the identity instead.
			if nonzero <= 1 {
				lut := &luts[ty*tilesX+tx]
				for i := range lut {
					lut[i] = uint8(i)
				}
				continue
			}

			limit := uint32(clipLimit * float64(tilePixels) / 256.0)
			if limit < 1 {
				limit = 1
			}
			clipHistogram(&hist, limit)

			buildLUT(&luts[ty*tilesX+tx], &hist)
		}
	}

	// Map every pixel through a bilinear blend of the four nearest tile
	// LUTs, positioned relative to tile centers.
	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		fy := (float64(y) - float64(tileH)/2.0) / float64(tileH)
		ty0 := clampInt(int(math.Floor(fy)), 0, tilesY-1)
		ty1 := min(ty0+1, tilesY-1)
		ay := clampF(fy-float64(ty0), 0, 1)

		for x := 0; x < w; x++ {
			fx := (float64(x) - float64(tileW)/2.0) / float64(tileW)
			tx0 := clampInt(int(math.Floor(fx)), 0, tilesX-1)
			tx1 := min(tx0+1, tilesX-1)
			ax := clampF(fx-float64(tx0), 0, 1)

			v := gray[y*w+x]
			tl := float64(luts[ty0*tilesX+tx0][v])
			tr := float64(luts[ty0*tilesX+tx1][v])
			bl := float64(luts[ty1*tilesX+tx0][v])
			br := float64(luts[ty1*tilesX+tx1][v])

			top := tl*(1-ax) + tr*ax
			bottom := bl*(1-ax) + br*ax
			out[y*w+x] = uint8(clampF(top*(1-ay)+bottom*ay+0.5, 0, 255))
		}
	}
	return out
}

// buildLUT turns a clipped histogram into a CDF-scaled lookup table.
// An empty tile maps to the identity.
func buildLUT(lut *[256]uint8, hist *[256]uint32) {
	var cdf [256]uint32
	cdf[0] = hist[0]
	for i := 1; i < 256; i++ {
		cdf[i] = cdf[i-1] + hist[i]
	}

	total := cdf[255]
	if total == 0 {
		for i := range lut {
			lut[i] = uint8(i)
		}
		return
	}
	for i := 0; i < 256; i++ {
		v := uint32(float64(cdf[i])*255.0/float64(total) + 0.5)
		if v > 255 {
			v = 255
		}
		lut[i] = uint8(v)
	}
}

// clipHistogram caps every bin at limit and redistributes the clipped
// mass uniformly. Redistribution can push bins over the limit again, so
// it iterates; the pass count is capped to guarantee termination.
func clipHistogram(hist *[256]uint32, limit uint32) {
	for pass := 0; pass < 256; pass++ {
		var excess uint32
		for i := range hist {
			if hist[i] > limit {
				excess += hist[i] - limit
				hist[i] = limit
			}
		}
		if excess == 0 {
			return
		}

		avgInc := excess / 256
		remainder := int(excess % 256)

		if avgInc > 0 {
			for i := range hist {
				hist[i] = min(hist[i]+avgInc, limit)
			}
		}
		for i := 0; i < 256 && remainder > 0; i++ {
			if hist[i] < limit {
				hist[i]++
				remainder--
			}
		}
	}
}

// EnhanceImage equalizes the luminance of an NRGBA raster in place,
// preserving the chrominance relationship and leaving alpha untouched.
// Each pixel's RGB is rescaled by the ratio of equalized to original
// luminance.
func EnhanceImage(img *image.NRGBA, clipLimit float64, tileGrid int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}

	gray := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			r := uint32(row[x*4])
			g := uint32(row[x*4+1])
			bb := uint32(row[x*4+2])
			v := (r*4899 + g*9617 + bb*1868 + 8192) >> 14
			if v > 255 {
				v = 255
			}
			gray[y*w+x] = uint8(v)
		}
	}

	enhanced := Equalize(gray, w, h, clipLimit, tileGrid)

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			before := gray[y*w+x]
			after := enhanced[y*w+x]
			if before == after {
				continue
			}
			scale := 1.0
			if before > 0 {
				scale = float64(after) / float64(before)
			}
			for c := 0; c < 3; c++ {
				row[x*4+c] = uint8(clampF(float64(row[x*4+c])*scale+0.5, 0, 255))
			}
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
