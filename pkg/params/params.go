// Package params defines the immutable processing parameters for the
// posterization pipeline, plus the named preset catalogue.
package params

import (
	"fmt"

	"github.com/razemify/razemify/pkg/types"
)

// Variant selects the rendering style of the pipeline.
type Variant int

const (
	// Detailed runs grayscale -> CLAHE -> sharpen -> posterize.
	Detailed Variant = iota
	// Comic skips sharpening and composites bold Sobel outlines instead.
	Comic
)

// Params holds the processing parameters for one request. Constructed
// once (from a preset or custom values), validated, then consumed
// read-only by the pipeline.
type Params struct {
	// ThreshLow and ThreshHigh split luminance into the three zones:
	// background below ThreshLow, midtone up to ThreshHigh, highlight above.
	ThreshLow  uint8
	ThreshHigh uint8
	// ClipLimit is the CLAHE contrast clamp, >= 1.0.
	ClipLimit float64
	// TileGrid is the number of CLAHE tiles along each axis; 8 means an
	// 8x8 grid. Edge tiles shrink when the image does not divide evenly.
	TileGrid int

	Variant Variant
	// EdgeThreshold and EdgeWidth only apply to the Comic variant:
	// Sobel magnitudes >= EdgeThreshold become outline pixels, dilated
	// to EdgeWidth (1 = single pixel, 3 = thick comic stroke).
	EdgeThreshold uint8
	EdgeWidth     uint8
}

// Validate checks the parameter invariants.
func (p Params) Validate() error {
	if p.ThreshLow >= p.ThreshHigh {
		return fmt.Errorf("%w: thresh_low %d must be below thresh_high %d",
			types.ErrInvalidParameters, p.ThreshLow, p.ThreshHigh)
	}
	if p.ClipLimit < 1.0 {
		return fmt.Errorf("%w: clip_limit %.2f must be >= 1.0", types.ErrInvalidParameters, p.ClipLimit)
	}
	if p.TileGrid <= 0 {
		return fmt.Errorf("%w: tile_grid %d must be positive", types.ErrInvalidParameters, p.TileGrid)
	}
	if p.Variant == Comic && p.EdgeWidth == 0 {
		return fmt.Errorf("%w: comic variant needs edge_width >= 1", types.ErrInvalidParameters)
	}
	return nil
}

// DetailedStandard is the balanced default preset.
func DetailedStandard() Params {
	return Params{ThreshLow: 80, ThreshHigh: 160, ClipLimit: 3.0, TileGrid: 8}
}

// DetailedStrong boosts contrast for flat source material.
func DetailedStrong() Params {
	return Params{ThreshLow: 70, ThreshHigh: 150, ClipLimit: 4.0, TileGrid: 8}
}

// DetailedFine uses a denser tile grid to keep small features.
func DetailedFine() Params {
	return Params{ThreshLow: 80, ThreshHigh: 160, ClipLimit: 2.5, TileGrid: 4}
}

// ComicBold is the classic comic look: thick outlines, moderate contrast.
func ComicBold() Params {
	return Params{ThreshLow: 80, ThreshHigh: 160, ClipLimit: 3.0, TileGrid: 8,
		Variant: Comic, EdgeThreshold: 40, EdgeWidth: 3}
}

// ComicFine is a pen-and-ink style: thin lines, lower threshold for detail.
func ComicFine() Params {
	return Params{ThreshLow: 80, ThreshHigh: 160, ClipLimit: 3.0, TileGrid: 8,
		Variant: Comic, EdgeThreshold: 25, EdgeWidth: 1}
}

// ComicHeavy is a gritty high-contrast look with medium edges.
func ComicHeavy() Params {
	return Params{ThreshLow: 70, ThreshHigh: 150, ClipLimit: 4.5, TileGrid: 8,
		Variant: Comic, EdgeThreshold: 50, EdgeWidth: 2}
}

// FromPreset looks up a preset by name. The preset set is closed.
func FromPreset(name string) (Params, bool) {
	switch name {
	case "detailed_standard":
		return DetailedStandard(), true
	case "detailed_strong":
		return DetailedStrong(), true
	case "detailed_fine":
		return DetailedFine(), true
	case "comic_bold":
		return ComicBold(), true
	case "comic_fine":
		return ComicFine(), true
	case "comic_heavy":
		return ComicHeavy(), true
	}
	return Params{}, false
}

// PresetNames lists all preset names in catalogue order.
func PresetNames() []string {
	return []string{
		"detailed_standard",
		"detailed_strong",
		"detailed_fine",
		"comic_bold",
		"comic_fine",
		"comic_heavy",
	}
}
