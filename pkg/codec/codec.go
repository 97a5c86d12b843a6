// Package codec converts between image bytes and in-memory rasters.
//
// Decoding accepts PNG, JPEG, WebP, BMP and GIF input; encoding always
// produces PNG. The package also extracts the two per-pixel planes the
// posterization pipeline consumes: BT.601 luminance and alpha.
package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/razemify/razemify/pkg/types"
)

// Decode decodes image bytes into an NRGBA raster. The second return
// value reports whether the source format carried an alpha channel.
func Decode(data []byte) (*image.NRGBA, bool, error) {
	img, err := decodeFromBytes(data)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", types.ErrDecode, err)
	}
	return imaging.Clone(img), hasAlphaChannel(img), nil
}

// decodeFromBytes tries the registered decoders first, then falls back
// to an explicit WebP decode for streams the standard chain rejects.
func decodeFromBytes(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("unknown or unsupported image format")
}

// hasAlphaChannel reports whether the decoded image's native color model
// carries alpha. Formats without alpha are treated as fully opaque.
func hasAlphaChannel(img image.Image) bool {
	switch img.ColorModel() {
	case color.NRGBAModel, color.RGBAModel, color.NRGBA64Model, color.RGBA64Model, color.NYCbCrAModel, color.AlphaModel, color.Alpha16Model:
		return true
	}
	if p, ok := img.ColorModel().(color.Palette); ok {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a < 0xffff {
				return true
			}
		}
	}
	return false
}

// EncodePNG encodes a raster to PNG bytes. Fully opaque rasters come out
// without an alpha channel; the encoder checks opaqueness itself.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// Luminance extracts the BT.601 luminance plane using the integer
// formula gray = (R*4899 + G*9617 + B*1868 + 8192) >> 14.
func Luminance(img *image.NRGBA) []uint8 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
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
	return gray
}

// Alpha extracts the alpha plane. Callers that decoded an alpha-free
// format get a fully opaque plane.
func Alpha(img *image.NRGBA) []uint8 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	alpha := make([]uint8, w*h)

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			alpha[y*w+x] = row[x*4+3]
		}
	}
	return alpha
}

// OpaqueAlpha returns a fully opaque alpha plane for a w×h raster.
func OpaqueAlpha(w, h int) []uint8 {
	alpha := make([]uint8, w*h)
	for i := range alpha {
		alpha[i] = 255
	}
	return alpha
}
