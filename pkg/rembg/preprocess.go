package rembg

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/ollama/ollama/model/imageproc"

	"github.com/razemify/razemify/pkg/types"
)

// ImageNet normalization constants, shared by BiRefNet and ISNet.
var (
	imageNetMean = [3]float32{0.485, 0.456, 0.406}
	imageNetSTD  = [3]float32{0.229, 0.224, 0.225}
)

// Preprocess resamples a raster to size×size and packs it into a
// [1, 3, size, size] channel-first float tensor. Alpha is ignored;
// each channel is divided by 255 and then normalized per the scheme.
func Preprocess(img image.Image, size int, scheme types.Normalization) (*types.Tensor, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: model input resolution %d must be positive", types.ErrInvalidParameters, size)
	}

	// Resize an opaque copy: premultiplied pixel reads would scale RGB
	// by alpha, but inference must see the color content of transparent
	// pixels too.
	opaque := imaging.Clone(img)
	for i := 3; i < len(opaque.Pix); i += 4 {
		opaque.Pix[i] = 255
	}

	resized := imageproc.Resize(opaque, image.Point{X: size, Y: size}, imageproc.ResizeBilinear)

	var mean, std [3]float32
	switch scheme {
	case types.NormImageNet:
		mean, std = imageNetMean, imageNetSTD
	case types.NormZeroCenter:
		mean = [3]float32{0.5, 0.5, 0.5}
		std = [3]float32{1, 1, 1}
	default:
		mean = [3]float32{0, 0, 0}
		std = [3]float32{1, 1, 1}
	}

	t := types.NewTensor(1, 3, size, size)
	bounds := resized.Bounds()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			t.Set(0, 0, y, x, (float32(r>>8)/255.0-mean[0])/std[0])
			t.Set(0, 1, y, x, (float32(g>>8)/255.0-mean[1])/std[1])
			t.Set(0, 2, y, x, (float32(b>>8)/255.0-mean[2])/std[2])
		}
	}
	return t, nil
}
