package render

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// stripes is 2x2: top row red/green, bottom row blue/white.
func stripes() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, ColorRed)
	img.SetRGBA(1, 0, ColorGreen)
	img.SetRGBA(0, 1, ColorBlue)
	img.SetRGBA(1, 1, ColorWhite)
	return img
}

func TestTextureFromImageFlips(t *testing.T) {
	tex := TextureFromImage(stripes())

	// v = 0 is the bottom of the source image.
	if got := tex.Sample(0.25, 0.25); got != ColorBlue {
		t.Errorf("bottom-left = %v, want blue", got)
	}
	if got := tex.Sample(0.75, 0.75); got != ColorGreen {
		t.Errorf("top-right = %v, want green", got)
	}
}

func TestTextureSample(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 1, ColorWhite, ColorBlack)

	tests := []struct {
		name string
		wrap WrapMode
		u, v float64
		want Color
	}{
		{"origin", WrapRepeat, 0, 0, ColorWhite},
		{"nearest, no blending", WrapRepeat, 0.3, 0, ColorBlack},
		{"repeat past 1", WrapRepeat, 1.3, 0, ColorBlack},
		{"repeat negative", WrapRepeat, -0.7, 0, ColorBlack},
		{"clamp past 1", WrapClamp, 1.3, 0, ColorBlack},
		{"clamp negative", WrapClamp, -5, -5, ColorWhite},
		{"nan", WrapRepeat, math.NaN(), 0, ColorWhite},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tex.WrapU, tex.WrapV = tc.wrap, tc.wrap
			if got := tex.Sample(tc.u, tc.v); got != tc.want {
				t.Errorf("Sample(%v, %v) = %v, want %v", tc.u, tc.v, got, tc.want)
			}
		})
	}
}

func TestLoadTexture(t *testing.T) {
	if _, err := LoadTexture("/nonexistent/tex.png"); err == nil {
		t.Error("Expected error for nonexistent file")
	}

	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, stripes()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tex, err := LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if tex.Width != 2 || tex.Height != 2 {
		t.Fatalf("size = %dx%d, want 2x2", tex.Width, tex.Height)
	}
	if got := tex.GetPixel(1, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("texel (1,0) = %v, want white (bottom-right of image)", got)
	}
}
