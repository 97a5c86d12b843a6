package palette

import (
	"image"
	"image/color"
	"testing"
)

func TestFromNameCoversCatalogue(t *testing.T) {
	for _, name := range Names() {
		if _, ok := FromName(name); !ok {
			t.Errorf("named palette %q not found", name)
		}
	}
	if _, ok := FromName("neon"); ok {
		t.Error("unknown palette name accepted")
	}
}

func TestNamedPaletteColors(t *testing.T) {
	tests := []struct {
		name string
		want Palette
	}{
		{"original", Palette{rgb(0, 0, 0), rgb(255, 20, 147), rgb(255, 215, 0)}},
		{"burgundy", Palette{rgb(0, 0, 0), rgb(114, 5, 70), rgb(255, 255, 255)}},
		{"burgundy_teal", Palette{rgb(88, 4, 55), rgb(114, 5, 70), rgb(0, 210, 190)}},
		{"cmyk", Palette{rgb(0, 0, 0), rgb(0, 180, 220), rgb(230, 0, 120)}},
	}
	for _, tt := range tests {
		got, ok := FromName(tt.name)
		if !ok {
			t.Fatalf("palette %q missing", tt.name)
		}
		if got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestParseHex(t *testing.T) {
	pal, err := ParseHex("#720546", "FF1493", "#ffd700")
	if err != nil {
		t.Fatalf("ParseHex failed: %v", err)
	}

	if pal.Background != rgb(114, 5, 70) {
		t.Errorf("background: got %+v", pal.Background)
	}
	if pal.Midtone != rgb(255, 20, 147) {
		t.Errorf("midtone: got %+v", pal.Midtone)
	}
	if pal.Highlight != rgb(255, 215, 0) {
		t.Errorf("highlight: got %+v", pal.Highlight)
	}
}

func TestParseHexInvalid(t *testing.T) {
	for _, bad := range []string{"nothex", "#12345", "#gg0000", ""} {
		if _, err := ParseHex(bad, "#000000", "#ffffff"); err == nil {
			t.Errorf("hex %q accepted", bad)
		}
	}
}

func TestFromImageOrdersByBrightness(t *testing.T) {
	// Three distinct bands: near-black, mid gray, near-white.
	img := image.NewNRGBA(image.Rect(0, 0, 30, 30))
	bands := []color.NRGBA{
		{R: 10, G: 10, B: 10, A: 255},
		{R: 128, G: 128, B: 128, A: 255},
		{R: 245, G: 245, B: 245, A: 255},
	}
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			img.SetNRGBA(x, y, bands[y/10])
		}
	}

	pal := FromImage(img)

	bg := int(pal.Background.R) + int(pal.Background.G) + int(pal.Background.B)
	mid := int(pal.Midtone.R) + int(pal.Midtone.G) + int(pal.Midtone.B)
	hi := int(pal.Highlight.R) + int(pal.Highlight.G) + int(pal.Highlight.B)

	if !(bg < mid && mid < hi) {
		t.Errorf("palette not ordered dark to bright: bg=%d mid=%d hi=%d", bg, mid, hi)
	}
}

func TestFromImageFlatInputStaysValid(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 200
	}

	pal := FromImage(img)

	if pal.Background.A != 255 || pal.Midtone.A != 255 || pal.Highlight.A != 255 {
		t.Error("suggested palette has transparent entries")
	}
}
