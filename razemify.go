// Package razemify provides detail-preserving posterization with
// optional neural background removal.
//
// An image is reduced to three flat luminance zones — background,
// midtone, highlight — after contrast-limited adaptive histogram
// equalization (CLAHE) shapes the luminance distribution. The detailed
// variant sharpens before bucketing; the comic variant composites bold
// Sobel outlines instead. Zone colors come from a selectable
// three-color palette.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//		"os"
//
//		"github.com/razemify/razemify"
//		"github.com/razemify/razemify/pkg/palette"
//		"github.com/razemify/razemify/pkg/params"
//	)
//
//	func main() {
//		input, err := os.ReadFile("photo.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		p, _ := params.FromPreset("detailed_standard")
//		pal, _ := palette.FromName("original")
//
//		out, err := razemify.Process(context.Background(), input, p, pal, nil)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		if err := os.WriteFile("photo_posterized.png", out, 0o644); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// Background removal plugs in through rembg.Session, an opaque
// inference handle owned by the caller: the package never loads,
// caches or fetches model files.
//
// The pipeline is synchronous and CPU-bound per image, with no shared
// mutable state: concurrent requests each own their buffers, and
// parameters and palettes are immutable value objects safe to share.
package razemify

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/razemify/razemify/pkg/clahe"
	"github.com/razemify/razemify/pkg/codec"
	"github.com/razemify/razemify/pkg/palette"
	"github.com/razemify/razemify/pkg/params"
	"github.com/razemify/razemify/pkg/posterize"
	"github.com/razemify/razemify/pkg/rembg"
	"github.com/razemify/razemify/pkg/types"
)

// Version of the razemify library
const Version = "1.0.0"

// RembgOptions enables background removal for one request. The session
// is a caller-owned handle to an already-loaded model.
type RembgOptions struct {
	Session rembg.Session
	Config  rembg.Config
}

// Process decodes image bytes, runs the posterization pipeline and
// returns PNG bytes. With opts set, background removal rewrites the
// alpha channel before posterization; a removal failure is surfaced,
// never silently skipped. The output carries alpha only when the input
// had an alpha channel or background removal ran.
func Process(ctx context.Context, imageBytes []byte, p params.Params, pal palette.Palette, opts *RembgOptions) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	img, hasAlpha, err := codec.Decode(imageBytes)
	if err != nil {
		return nil, err
	}

	out, err := ProcessImage(ctx, img, hasAlpha, p, pal, opts)
	if err != nil {
		return nil, err
	}
	return codec.EncodePNG(out)
}

// ProcessImage runs the pipeline on an already-decoded raster.
// hasAlpha tells the pipeline whether the source format carried an
// alpha channel; without it (and without background removal) the
// output is fully opaque.
func ProcessImage(ctx context.Context, img *image.NRGBA, hasAlpha bool, p params.Params, pal palette.Palette, opts *RembgOptions) (*image.NRGBA, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: empty image", types.ErrDecode)
	}

	removed := false
	if opts != nil {
		if opts.Session == nil {
			return nil, fmt.Errorf("%w: no inference session", types.ErrInference)
		}
		if err := rembg.Remove(ctx, opts.Session, img, opts.Config); err != nil {
			return nil, err
		}
		removed = true
	}

	var alpha []uint8
	if hasAlpha || removed {
		alpha = codec.Alpha(img)
	} else {
		alpha = codec.OpaqueAlpha(w, h)
	}

	gray := codec.Luminance(img)
	enhanced := clahe.Equalize(gray, w, h, p.ClipLimit, p.TileGrid)

	var zones posterize.ZoneMap
	switch p.Variant {
	case params.Comic:
		zones = posterize.Zones(enhanced, alpha, w, h, p.ThreshLow, p.ThreshHigh)
	default:
		sharpened := posterize.Sharpen(enhanced, w, h)
		zones = posterize.Zones(sharpened, alpha, w, h, p.ThreshLow, p.ThreshHigh)
	}

	out := posterize.Render(zones, pal, alpha)

	if p.Variant == params.Comic {
		magnitudes := posterize.SobelMagnitude(enhanced, w, h)
		edges := posterize.ThresholdDilate(magnitudes, p.EdgeThreshold, p.EdgeWidth, w, h)
		posterize.OverlayEdges(out, edges, 1.0, [3]uint8{pal.Background.R, pal.Background.G, pal.Background.B})
	}

	return out, nil
}

// IsRetryable reports whether an error came from the inference
// boundary, where a retry or backend reconfiguration may help. Decode,
// encode and parameter errors are terminal.
func IsRetryable(err error) bool {
	return errors.Is(err, types.ErrInference)
}
