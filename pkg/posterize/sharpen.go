package posterize

// Sharpen applies a 3x3 sharpening convolution to a luminance plane:
//
//	 0 -1  0
//	-1  5 -1
//	 0 -1  0
//
// with reflect-101 borders. Used by the detailed variant to recover
// edge definition before zone bucketing.
func Sharpen(gray []uint8, w, h int) []uint8 {
	out := make([]uint8, w*h)

	for y := 0; y < h; y++ {
		ym1 := reflect101(y-1, h)
		yp1 := reflect101(y+1, h)
		for x := 0; x < w; x++ {
			xm1 := reflect101(x-1, w)
			xp1 := reflect101(x+1, w)

			center := int(gray[y*w+x])
			top := int(gray[ym1*w+x])
			bottom := int(gray[yp1*w+x])
			left := int(gray[y*w+xm1])
			right := int(gray[y*w+xp1])

			v := 5*center - top - bottom - left - right
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			out[y*w+x] = uint8(v)
		}
	}
	return out
}
