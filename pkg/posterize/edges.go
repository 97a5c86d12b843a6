package posterize

import "image"

// reflect101 mirrors an out-of-range index without repeating the border
// pixel (dcb|abcdefg|fed).
func reflect101(idx, size int) int {
	if idx < 0 {
		return -idx
	}
	if idx >= size {
		return 2*(size-1) - idx
	}
	return idx
}

// SobelMagnitude computes the gradient magnitude of a luminance plane,
// normalized to 0-255. Uses the |gx|+|gy| approximation.
func SobelMagnitude(gray []uint8, w, h int) []uint8 {
	raw := make([]int, w*h)
	maxVal := 0

	for y := 0; y < h; y++ {
		ym1 := reflect101(y-1, h)
		yp1 := reflect101(y+1, h)
		for x := 0; x < w; x++ {
			xm1 := reflect101(x-1, w)
			xp1 := reflect101(x+1, w)

			tl := int(gray[ym1*w+xm1])
			tc := int(gray[ym1*w+x])
			tr := int(gray[ym1*w+xp1])
			ml := int(gray[y*w+xm1])
			mr := int(gray[y*w+xp1])
			bl := int(gray[yp1*w+xm1])
			bc := int(gray[yp1*w+x])
			br := int(gray[yp1*w+xp1])

			gx := -tl + tr - 2*ml + 2*mr - bl + br
			gy := -tl - 2*tc - tr + bl + 2*bc + br

			if gx < 0 {
				gx = -gx
			}
			if gy < 0 {
				gy = -gy
			}
			mag := gx + gy
			raw[y*w+x] = mag
			if mag > maxVal {
				maxVal = mag
			}
		}
	}

	out := make([]uint8, w*h)
	if maxVal == 0 {
		return out
	}
	for i, v := range raw {
		out[i] = uint8(min(v*255/maxVal, 255))
	}
	return out
}

// ThresholdDilate turns a magnitude plane into a binary edge map.
// Magnitudes >= threshold become edges; edgeWidth > 1 dilates each edge
// pixel by a square of radius edgeWidth-1.
func ThresholdDilate(magnitudes []uint8, threshold, edgeWidth uint8, w, h int) []bool {
	edges := make([]bool, w*h)
	for i, v := range magnitudes {
		edges[i] = v >= threshold
	}
	if edgeWidth <= 1 {
		return edges
	}

	radius := int(edgeWidth) - 1
	dilated := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !edges[y*w+x] {
				continue
			}
			for dy := -radius; dy <= radius; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					nx := x + dx
					if nx >= 0 && nx < w {
						dilated[ny*w+nx] = true
					}
				}
			}
		}
	}
	return dilated
}

// OverlayEdges blends edge pixels of an NRGBA raster toward the outline
// color by opacity (0..1); 1.0 fully replaces the pixel color. Alpha is
// left untouched.
func OverlayEdges(img *image.NRGBA, edges []bool, opacity float64, outline [3]uint8) {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	inv := 1 - opacity

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			if !edges[y*w+x] {
				continue
			}
			for c := 0; c < 3; c++ {
				row[x*4+c] = uint8(float64(outline[c])*opacity + float64(row[x*4+c])*inv + 0.5)
			}
		}
	}
}
