package rembg

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/razemify/razemify/pkg/types"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestPreprocessShape(t *testing.T) {
	img := solidImage(7, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	tensor, err := Preprocess(img, 8, types.NormIdentity)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	want := [4]int{1, 3, 8, 8}
	if tensor.Shape != want {
		t.Errorf("shape %v, want %v", tensor.Shape, want)
	}
	if len(tensor.Data) != 3*8*8 {
		t.Errorf("data length %d, want %d", len(tensor.Data), 3*8*8)
	}
}

func TestPreprocessNormalization(t *testing.T) {
	img := solidImage(4, 4, color.NRGBA{R: 255, G: 0, B: 255, A: 255})

	tests := []struct {
		name   string
		scheme types.Normalization
		wantR  float32
		wantG  float32
	}{
		{"identity", types.NormIdentity, 1.0, 0.0},
		{"imagenet", types.NormImageNet, (1.0 - 0.485) / 0.229, (0.0 - 0.456) / 0.224},
		{"zero-center", types.NormZeroCenter, 0.5, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tensor, err := Preprocess(img, 4, tt.scheme)
			if err != nil {
				t.Fatalf("Preprocess failed: %v", err)
			}
			if got := tensor.At(0, 0, 2, 2); !approxEqual(got, tt.wantR) {
				t.Errorf("red channel: got %f, want %f", got, tt.wantR)
			}
			if got := tensor.At(0, 1, 2, 2); !approxEqual(got, tt.wantG) {
				t.Errorf("green channel: got %f, want %f", got, tt.wantG)
			}
		})
	}
}

func TestPreprocessIgnoresAlpha(t *testing.T) {
	// A fully transparent red pixel still carries red for inference;
	// only the mask decides what becomes background.
	img := solidImage(2, 2, color.NRGBA{R: 255, A: 0})

	tensor, err := Preprocess(img, 2, types.NormIdentity)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	if got := tensor.At(0, 0, 0, 0); !approxEqual(got, 1.0) {
		t.Errorf("red channel under zero alpha: got %f, want 1.0", got)
	}
	if got := tensor.At(0, 1, 0, 0); !approxEqual(got, 0.0) {
		t.Errorf("green channel under zero alpha: got %f, want 0.0", got)
	}
}

func TestPreprocessRejectsNonPositiveResolution(t *testing.T) {
	img := solidImage(2, 2, color.NRGBA{A: 255})

	for _, size := range []int{0, -320} {
		if _, err := Preprocess(img, size, types.NormIdentity); !errors.Is(err, types.ErrInvalidParameters) {
			t.Errorf("size %d: got %v, want ErrInvalidParameters", size, err)
		}
	}
}

func TestPostprocessPlainMode(t *testing.T) {
	// Zero activation sigmoids to 0.5, which rounds to 128.
	activations := types.NewTensor(1, 1, 4, 4)

	mask, err := Postprocess(activations, types.MaskPlain, 4, 4)
	if err != nil {
		t.Fatalf("Postprocess failed: %v", err)
	}

	for i, v := range mask.Pix {
		if v != 128 {
			t.Fatalf("pixel %d: got %d, want 128", i, v)
		}
	}
}

func TestPostprocessNormalizeStretchesRange(t *testing.T) {
	activations := types.NewTensor(1, 1, 1, 2)
	activations.Data[0] = -10
	activations.Data[1] = 10

	mask, err := Postprocess(activations, types.MaskNormalize, 2, 1)
	if err != nil {
		t.Fatalf("Postprocess failed: %v", err)
	}

	if mask.Pix[0] != 0 {
		t.Errorf("minimum activation: got %d, want 0", mask.Pix[0])
	}
	if mask.Pix[1] != 255 {
		t.Errorf("maximum activation: got %d, want 255", mask.Pix[1])
	}
}

func TestPostprocessNormalizeUniformActivations(t *testing.T) {
	// Flat activation maps have no range to stretch; the mask collapses
	// to zero rather than dividing by a near-zero range.
	activations := types.NewTensor(1, 1, 3, 3)
	for i := range activations.Data {
		activations.Data[i] = 5.0
	}

	mask, err := Postprocess(activations, types.MaskNormalize, 3, 3)
	if err != nil {
		t.Fatalf("Postprocess failed: %v", err)
	}

	for i, v := range mask.Pix {
		if v != 0 {
			t.Fatalf("pixel %d: got %d, want 0", i, v)
		}
	}
}

func TestPostprocessResizesToTarget(t *testing.T) {
	activations := types.NewTensor(1, 1, 8, 8)
	for i := range activations.Data {
		activations.Data[i] = 10
	}

	mask, err := Postprocess(activations, types.MaskPlain, 5, 3)
	if err != nil {
		t.Fatalf("Postprocess failed: %v", err)
	}

	b := mask.Bounds()
	if b.Dx() != 5 || b.Dy() != 3 {
		t.Fatalf("mask %dx%d, want 5x3", b.Dx(), b.Dy())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			if mask.Pix[y*mask.Stride+x] != 255 {
				t.Errorf("pixel (%d,%d): got %d, want 255", x, y, mask.Pix[y*mask.Stride+x])
			}
		}
	}
}

func TestPostprocessRejectsBadShape(t *testing.T) {
	activations := types.NewTensor(1, 3, 4, 4)

	if _, err := Postprocess(activations, types.MaskPlain, 4, 4); !errors.Is(err, types.ErrInference) {
		t.Errorf("got %v, want ErrInference", err)
	}
}

func TestApplyMaskThresholdBoundary(t *testing.T) {
	// Ratio 0.5 puts the cutoff at 127.5: 127 is background, 128 is
	// foreground.
	img := solidImage(2, 1, color.NRGBA{R: 50, G: 60, B: 70, A: 255})
	mask := image.NewGray(image.Rect(0, 0, 2, 1))
	mask.Pix[0] = 127
	mask.Pix[1] = 128

	if err := ApplyMask(img, mask, 0.5); err != nil {
		t.Fatalf("ApplyMask failed: %v", err)
	}

	if img.Pix[3] != 0 {
		t.Errorf("mask 127: alpha %d, want 0", img.Pix[3])
	}
	if img.Pix[7] != 255 {
		t.Errorf("mask 128: alpha %d, want 255", img.Pix[7])
	}
	if img.Pix[0] != 50 || img.Pix[4] != 50 {
		t.Error("RGB modified by masking")
	}
}

func TestApplyMaskDimensionMismatch(t *testing.T) {
	img := solidImage(4, 4, color.NRGBA{A: 255})
	mask := image.NewGray(image.Rect(0, 0, 3, 4))

	if err := ApplyMask(img, mask, 0.5); !errors.Is(err, types.ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		ratio float64
		ok    bool
	}{
		{0.29, false},
		{0.30, true},
		{0.50, true},
		{0.80, true},
		{0.81, false},
	}
	for _, tt := range tests {
		cfg := Config{Model: types.U2Net, MaskThresholdRatio: tt.ratio}
		err := cfg.Validate()
		if tt.ok && err != nil {
			t.Errorf("ratio %.2f: unexpected error %v", tt.ratio, err)
		}
		if !tt.ok && !errors.Is(err, types.ErrInvalidParameters) {
			t.Errorf("ratio %.2f: got %v, want ErrInvalidParameters", tt.ratio, err)
		}
	}
}

// constSession answers every inference with a fixed activation value at
// the model's native resolution.
type constSession struct {
	value float32
	size  int
}

func (s *constSession) Run(_ context.Context, _ *types.Tensor) (*types.Tensor, error) {
	out := types.NewTensor(1, 1, s.size, s.size)
	for i := range out.Data {
		out.Data[i] = s.value
	}
	return out, nil
}

type failingSession struct{}

func (failingSession) Run(context.Context, *types.Tensor) (*types.Tensor, error) {
	return nil, fmt.Errorf("backend unavailable")
}

func TestRemoveForegroundKept(t *testing.T) {
	img := solidImage(6, 6, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	sess := &constSession{value: 10, size: 320}
	cfg := Config{Model: types.U2Net, MaskThresholdRatio: 0.5}

	if err := Remove(context.Background(), sess, img, cfg); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			if a := img.Pix[y*img.Stride+x*4+3]; a != 255 {
				t.Fatalf("pixel (%d,%d): alpha %d, want 255", x, y, a)
			}
		}
	}
	if img.Pix[0] != 200 || img.Pix[1] != 100 || img.Pix[2] != 50 {
		t.Error("RGB modified by removal")
	}
}

func TestRemoveBackgroundCleared(t *testing.T) {
	img := solidImage(6, 6, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	sess := &constSession{value: -10, size: 320}
	cfg := Config{Model: types.U2Net, MaskThresholdRatio: 0.5}

	if err := Remove(context.Background(), sess, img, cfg); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			if a := img.Pix[y*img.Stride+x*4+3]; a != 0 {
				t.Fatalf("pixel (%d,%d): alpha %d, want 0", x, y, a)
			}
		}
	}
}

func TestRemoveInferenceFailure(t *testing.T) {
	img := solidImage(4, 4, color.NRGBA{A: 255})
	cfg := Config{Model: types.U2Net, MaskThresholdRatio: 0.5}

	err := Remove(context.Background(), failingSession{}, img, cfg)
	if !errors.Is(err, types.ErrInference) {
		t.Errorf("got %v, want ErrInference", err)
	}
}

func TestRemoveInvalidConfig(t *testing.T) {
	img := solidImage(4, 4, color.NRGBA{A: 255})
	cfg := Config{Model: types.U2Net, MaskThresholdRatio: 0.1}

	err := Remove(context.Background(), &constSession{value: 0, size: 320}, img, cfg)
	if !errors.Is(err, types.ErrInvalidParameters) {
		t.Errorf("got %v, want ErrInvalidParameters", err)
	}
}
