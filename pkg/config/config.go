// Package config holds render settings: defaults, YAML scene files and the
// small parsers the command line flags share with them.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Mode selects how faces are drawn.
type Mode int

const (
	ModeGouraud   Mode = iota // Per-vertex lighting, textured when a texture is present
	ModeFlat                  // One intensity per face, back faces culled
	ModeWireframe             // Edges only
)

var modeNames = [...]string{"gouraud", "flat", "wireframe"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
	return modeNames[m]
}

// Next cycles through the modes.
func (m Mode) Next() Mode {
	return (m + 1) % Mode(len(modeNames))
}

// ParseMode accepts a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown mode %q (want gouraud, flat or wireframe)", ErrInvalidConfig, s)
}

// Set implements flag.Value.
func (m *Mode) Set(s string) error {
	v, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalYAML writes the mode by name.
func (m Mode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// UnmarshalYAML reads a mode name.
func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return m.Set(s)
}

// Vec is a 3-vector in config files, written either as a sequence
// `[1, 1, 3]` or as a string `"1,1,3"`.
type Vec [3]float64

// V converts a math3d vector.
func V(v math3d.Vec3) Vec {
	return Vec{v.X, v.Y, v.Z}
}

// Vec3 returns the value as a math3d vector.
func (v Vec) Vec3() math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

// ParseVec parses "x,y,z".
func ParseVec(s string) (Vec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Vec{}, fmt.Errorf("%w: vector %q needs three comma-separated values", ErrInvalidConfig, s)
	}
	var v Vec
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Vec{}, fmt.Errorf("%w: vector %q: %v", ErrInvalidConfig, s, err)
		}
		v[i] = f
	}
	return v, nil
}

func (v Vec) String() string {
	return strconv.FormatFloat(v[0], 'g', -1, 64) + "," +
		strconv.FormatFloat(v[1], 'g', -1, 64) + "," +
		strconv.FormatFloat(v[2], 'g', -1, 64)
}

// Set implements flag.Value.
func (v *Vec) Set(s string) error {
	parsed, err := ParseVec(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML writes the vector as a flow sequence.
func (v Vec) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, f := range v {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: strconv.FormatFloat(f, 'g', -1, 64),
		})
	}
	return node, nil
}

// UnmarshalYAML accepts a three element sequence or an "x,y,z" string.
func (v *Vec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return v.Set(value.Value)
	case yaml.SequenceNode:
		var fs []float64
		if err := value.Decode(&fs); err != nil {
			return err
		}
		if len(fs) != 3 {
			return fmt.Errorf("%w: line %d: vector needs 3 values, got %d", ErrInvalidConfig, value.Line, len(fs))
		}
		*v = Vec{fs[0], fs[1], fs[2]}
		return nil
	default:
		return fmt.Errorf("%w: line %d: expected vector", ErrInvalidConfig, value.Line)
	}
}

// ParseColor parses "r,g,b" with channels in 0..255.
func ParseColor(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("%w: color %q needs r,g,b", ErrInvalidConfig, s)
	}
	var ch [3]uint8
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: color %q: %v", ErrInvalidConfig, s, err)
		}
		ch[i] = uint8(n)
	}
	return color.RGBA{ch[0], ch[1], ch[2], 255}, nil
}

// Config describes one render.
type Config struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Depth      float64 `yaml:"depth"`
	Light      Vec     `yaml:"light"` // Direction toward the light
	Eye        Vec     `yaml:"eye"`
	Center     Vec     `yaml:"center"`
	Up         Vec     `yaml:"up"`
	Mesh       string  `yaml:"mesh"`
	Texture    string  `yaml:"texture,omitempty"`
	Output     string  `yaml:"output"`
	ZBuffer    string  `yaml:"zbuffer,omitempty"`
	Mode       Mode    `yaml:"mode"`
	Scale      int     `yaml:"scale"`
	Background string  `yaml:"background"`
	Normalize  bool    `yaml:"normalize"` // Recentre and fit the mesh into [-1, 1]
}

// Default returns the settings of the classic 800x800 head render.
func Default() Config {
	return Config{
		Width:      800,
		Height:     800,
		Depth:      255,
		Light:      Vec{0, 0, 1},
		Eye:        Vec{1, 1, 3},
		Center:     Vec{0, 0, 0},
		Up:         Vec{0, 1, 0},
		Output:     "output.png",
		Mode:       ModeGouraud,
		Scale:      1,
		Background: "0,0,0",
	}
}

// Read decodes a YAML scene file over Default without validating it, so
// callers can fill in the rest (a mesh from the command line) first.
// Relative mesh, texture and output paths are resolved against the file's
// directory.
func Read(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.resolve(filepath.Dir(path))
	cfg.normalize()
	return cfg, nil
}

// Load reads and validates a YAML scene file.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func (c Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func (c *Config) resolve(dir string) {
	for _, p := range []*string{&c.Mesh, &c.Texture, &c.Output, &c.ZBuffer} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

func (c *Config) normalize() {
	if c.Scale < 1 {
		c.Scale = 1
	}
	if c.Up == (Vec{}) {
		c.Up = Vec{0, 1, 0}
	}
	if c.Output == "" {
		c.Output = "output.png"
	}
	if c.Background == "" {
		c.Background = "0,0,0"
	}
	c.Light = V(c.Light.Vec3().Normalize())
}

// Normalized returns c with defaults filled in and the light made unit
// length, for configs assembled from flags.
func (c Config) Normalized() Config {
	c.normalize()
	return c
}

// Validate reports every problem at once. Each one wraps ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Width <= 0 || c.Height <= 0 {
		fail("size %dx%d must be positive", c.Width, c.Height)
	}
	if !(c.Depth > 0) {
		fail("depth %v must be positive", c.Depth)
	}
	if c.Mesh == "" {
		fail("no mesh given")
	}
	if c.Mode < 0 || int(c.Mode) >= len(modeNames) {
		fail("unknown mode %d", int(c.Mode))
	}
	if c.Light.Vec3().LenSq() == 0 {
		fail("light direction is zero")
	}
	if _, err := math3d.LookAt(c.Eye.Vec3(), c.Center.Vec3(), c.Up.Vec3()); err != nil {
		fail("camera eye %v, center %v, up %v: %v", c.Eye, c.Center, c.Up, err)
	}
	if _, err := ParseColor(c.Background); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// BackgroundColor returns the parsed background, black if it is malformed.
func (c Config) BackgroundColor() color.RGBA {
	bg, err := ParseColor(c.Background)
	if err != nil {
		return color.RGBA{0, 0, 0, 255}
	}
	return bg
}
