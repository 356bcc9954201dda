package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Width != 800 || cfg.Height != 800 {
		t.Errorf("size = %dx%d, want 800x800", cfg.Width, cfg.Height)
	}
	if cfg.Depth != 255 {
		t.Errorf("depth = %v, want 255", cfg.Depth)
	}
	if cfg.Mode != ModeGouraud {
		t.Errorf("mode = %v, want gouraud", cfg.Mode)
	}

	// Everything but the mesh is usable as is.
	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) || !strings.Contains(err.Error(), "no mesh") {
		t.Errorf("Validate() = %v, want missing mesh", err)
	}
	cfg.Mesh = "head.obj"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "scene.yaml", `
width: 320
height: 240
mesh: models/head.obj
eye: "0,0,4"
light: [0, 0, 2]
mode: Wireframe
background: 30,30,40
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Width != 320 || cfg.Height != 240 {
		t.Errorf("size = %dx%d, want 320x240", cfg.Width, cfg.Height)
	}
	if cfg.Eye != (Vec{0, 0, 4}) {
		t.Errorf("eye = %v, want 0,0,4", cfg.Eye)
	}
	if cfg.Light != (Vec{0, 0, 1}) {
		t.Errorf("light = %v, want normalized 0,0,1", cfg.Light)
	}
	if cfg.Mode != ModeWireframe {
		t.Errorf("mode = %v, want wireframe", cfg.Mode)
	}
	if cfg.Depth != 255 || cfg.Up != (Vec{0, 1, 0}) {
		t.Errorf("unset fields lost their defaults: depth %v, up %v", cfg.Depth, cfg.Up)
	}

	wantMesh := filepath.Join(filepath.Dir(path), "models", "head.obj")
	if cfg.Mesh != wantMesh {
		t.Errorf("mesh = %q, want %q", cfg.Mesh, wantMesh)
	}
	if got := cfg.BackgroundColor(); got != (color.RGBA{30, 30, 40, 255}) {
		t.Errorf("background = %v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{"bad yaml", "width: [", false},
		{"short vector", "mesh: a.obj\neye: [1, 2]\n", true},
		{"bad mode", "mesh: a.obj\nmode: phong\n", true},
		{"zero size", "mesh: a.obj\nwidth: 0\n", true},
		{"eye on center", "mesh: a.obj\neye: [0, 0, 0]\n", true},
		{"up parallel", "mesh: a.obj\neye: [0, 3, 0]\n", true},
		{"zero light", "mesh: a.obj\nlight: [0, 0, 0]\n", true},
		{"bad background", "mesh: a.obj\nbackground: red\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "scene.yaml", tt.content))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if got := errors.Is(err, ErrInvalidConfig); got != tt.invalid {
				t.Errorf("errors.Is(ErrInvalidConfig) = %v, want %v (err %v)", got, tt.invalid, err)
			}
		})
	}
}

func TestReadSkipsValidation(t *testing.T) {
	path := writeFile(t, "scene.yaml", "width: 64\n")

	cfg, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if cfg.Width != 64 || cfg.Mesh != "" {
		t.Errorf("Read() = %+v", cfg)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig for missing mesh", err)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want not exist", err)
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Width = -1
	cfg.Background = "x"

	err := cfg.Validate()
	msg := err.Error()
	for _, want := range []string{"size", "no mesh", "color"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Mesh = filepath.Join(dir, "head.obj")
	cfg.Output = filepath.Join(dir, "out.png")
	cfg.Eye = Vec{0.5, -1, 2.25}
	cfg.Mode = ModeFlat

	path := filepath.Join(dir, "scene.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "mode: flat") {
		t.Errorf("saved file does not name the mode:\n%s", data)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != cfg {
		t.Errorf("round trip changed config:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"gouraud", ModeGouraud, false},
		{"FLAT", ModeFlat, false},
		{" wireframe ", ModeWireframe, false},
		{"phong", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestModeNext(t *testing.T) {
	m := ModeGouraud
	seen := map[Mode]bool{}
	for range 3 {
		seen[m] = true
		m = m.Next()
	}
	if m != ModeGouraud || len(seen) != 3 {
		t.Errorf("Next() did not cycle through all modes: %v", seen)
	}
}

func TestParseVec(t *testing.T) {
	tests := []struct {
		in      string
		want    Vec
		wantErr bool
	}{
		{"1,1,3", Vec{1, 1, 3}, false},
		{" -0.5, 2 ,1e2", Vec{-0.5, 2, 100}, false},
		{"1,2", Vec{}, true},
		{"1,2,3,4", Vec{}, true},
		{"a,b,c", Vec{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVec(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVec(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseVec(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"30,30,40", color.RGBA{30, 30, 40, 255}, false},
		{"255, 0, 128", color.RGBA{255, 0, 128, 255}, false},
		{"256,0,0", color.RGBA{}, true},
		{"-1,0,0", color.RGBA{}, true},
		{"1,2", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
