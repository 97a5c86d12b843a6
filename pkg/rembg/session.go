// Package rembg implements the background-removal stages around an
// opaque neural inference session: tensor preprocessing, mask
// postprocessing, and alpha compositing.
//
// The inference call itself is a black box supplied by the caller. The
// package never loads, caches or selects models, and never retries a
// failed inference; retry policy belongs to the host's model-loading
// subsystem.
package rembg

import (
	"context"
	"fmt"
	"image"

	"github.com/razemify/razemify/pkg/types"
)

// Session is the capability interface for one loaded model. Backend
// selection (GPU, CPU, remote) is entirely hidden behind it. Run blocks
// until inference completes or fails; callers needing cancellation race
// the context.
type Session interface {
	Run(ctx context.Context, input *types.Tensor) (*types.Tensor, error)
}

// Config selects the model contract and the mask cutoff for one request.
type Config struct {
	Model types.ModelType
	// MaskThresholdRatio is the binary alpha cutoff in [0.30, 0.80];
	// mask values strictly above ratio*255 become opaque.
	MaskThresholdRatio float64
}

// Validate checks the config invariants.
func (c Config) Validate() error {
	if c.MaskThresholdRatio < 0.30 || c.MaskThresholdRatio > 0.80 {
		return fmt.Errorf("%w: mask threshold ratio %.2f outside [0.30, 0.80]",
			types.ErrInvalidParameters, c.MaskThresholdRatio)
	}
	return nil
}

// Remove runs the full background-removal chain against a session and
// rewrites the raster's alpha channel in place: preprocess to the
// model's input tensor, infer, postprocess the activation map into a
// probability mask at the raster's resolution, then apply the binary
// cutoff. RGB values are untouched.
func Remove(ctx context.Context, sess Session, img *image.NRGBA, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	desc := cfg.Model.Descriptor()

	input, err := Preprocess(img, desc.InputSize, desc.Normalization)
	if err != nil {
		return err
	}

	output, err := sess.Run(ctx, input)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrInference, err)
	}

	b := img.Bounds()
	mask, err := Postprocess(output, desc.MaskMode, b.Dx(), b.Dy())
	if err != nil {
		return err
	}

	return ApplyMask(img, mask, cfg.MaskThresholdRatio)
}
