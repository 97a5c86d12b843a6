package params

import (
	"errors"
	"testing"

	"github.com/razemify/razemify/pkg/types"
)

func TestPresetsAreValid(t *testing.T) {
	for _, name := range PresetNames() {
		p, ok := FromPreset(name)
		if !ok {
			t.Fatalf("preset %q missing from catalogue", name)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
}

func TestFromPresetUnknown(t *testing.T) {
	if _, ok := FromPreset("watercolor"); ok {
		t.Error("unknown preset accepted")
	}
}

func TestPresetValues(t *testing.T) {
	p := DetailedStandard()
	if p.ThreshLow != 80 || p.ThreshHigh != 160 || p.ClipLimit != 3.0 || p.TileGrid != 8 {
		t.Errorf("detailed_standard: got %+v", p)
	}
	if p.Variant != Detailed {
		t.Error("detailed_standard is not a detailed variant")
	}

	c := ComicBold()
	if c.Variant != Comic || c.EdgeThreshold != 40 || c.EdgeWidth != 3 {
		t.Errorf("comic_bold: got %+v", c)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		ok   bool
	}{
		{"valid detailed", DetailedStandard(), true},
		{"thresholds equal", Params{ThreshLow: 100, ThreshHigh: 100, ClipLimit: 2, TileGrid: 8}, false},
		{"thresholds inverted", Params{ThreshLow: 160, ThreshHigh: 80, ClipLimit: 2, TileGrid: 8}, false},
		{"clip limit below one", Params{ThreshLow: 80, ThreshHigh: 160, ClipLimit: 0.5, TileGrid: 8}, false},
		{"clip limit exactly one", Params{ThreshLow: 80, ThreshHigh: 160, ClipLimit: 1.0, TileGrid: 8}, true},
		{"zero tile grid", Params{ThreshLow: 80, ThreshHigh: 160, ClipLimit: 2, TileGrid: 0}, false},
		{"comic without edge width", Params{ThreshLow: 80, ThreshHigh: 160, ClipLimit: 2, TileGrid: 8, Variant: Comic, EdgeThreshold: 40}, false},
		{"detailed ignores edge width", Params{ThreshLow: 80, ThreshHigh: 160, ClipLimit: 2, TileGrid: 8}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, types.ErrInvalidParameters) {
				t.Errorf("got %v, want ErrInvalidParameters", err)
			}
		})
	}
}
