package rembg

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/floats"

	"github.com/razemify/razemify/pkg/types"
)

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Postprocess converts a raw [1, 1, H', W'] activation tensor into an
// 8-bit probability mask at targetW×targetH.
//
// Sigmoid is applied elementwise; MaskNormalize additionally min-max
// rescales the sigmoid values. A perfectly flat activation map has
// range below 1e-6, which is treated as 1.0 — every rescaled value is
// then (s-min)/1.0 = 0, so the fallback mask is uniformly 0.
func Postprocess(activations *types.Tensor, mode types.MaskMode, targetW, targetH int) (*image.Gray, error) {
	if err := activations.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInference, err)
	}
	if activations.Shape[0] != 1 || activations.Shape[1] != 1 {
		return nil, fmt.Errorf("%w: activation shape %v, want [1 1 H W]",
			types.ErrInference, activations.Shape)
	}

	nativeH := activations.Shape[2]
	nativeW := activations.Shape[3]

	probs := make([]float64, nativeW*nativeH)
	for i, v := range activations.Data {
		probs[i] = sigmoid(float64(v))
	}

	if mode == types.MaskNormalize {
		minVal := floats.Min(probs)
		maxVal := floats.Max(probs)
		rng := maxVal - minVal
		if rng < 1e-6 {
			rng = 1.0
		}
		for i := range probs {
			probs[i] = (probs[i] - minVal) / rng
		}
	}

	mask := image.NewGray(image.Rect(0, 0, nativeW, nativeH))
	for y := 0; y < nativeH; y++ {
		for x := 0; x < nativeW; x++ {
			v := math.Round(probs[y*nativeW+x] * 255.0)
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			mask.Pix[y*mask.Stride+x] = uint8(v)
		}
	}

	if nativeW == targetW && nativeH == targetH {
		return mask, nil
	}
	return resizeMask(mask, targetW, targetH), nil
}

// resizeMask resamples bilinearly; anything sharper would ring near
// mask edges and flip thresholded pixels.
func resizeMask(mask *image.Gray, w, h int) *image.Gray {
	resized := imaging.Resize(mask, w, h, imaging.Linear)

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[y*out.Stride+x] = resized.Pix[y*resized.Stride+x*4]
		}
	}
	return out
}
