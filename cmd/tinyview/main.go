// tinyview - Software Rasterizer in a Window
// Draws a mesh with the CPU rasterizer and shows each frame in an ebiten
// window.
//
// Controls:
//
//	Arrows/WASD - Orbit the camera
//	+/-         - Zoom
//	Space       - Toggle model spin
//	T           - Toggle light sweep
//	L           - Next light direction
//	M           - Next mode (gouraud, flat, wireframe)
//	R           - Reset view
//	F1          - Toggle help text
//	Esc         - Quit
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/font/basicfont"

	"github.com/taigrr/tinyrender/pkg/config"
	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/orbit"
	"github.com/taigrr/tinyrender/pkg/render"
	"github.com/taigrr/tinyrender/pkg/scene"
)

var (
	configPath  = flag.String("config", "", "YAML scene file")
	verbose     = flag.Bool("v", false, "Debug logging")
	width       = flag.Int("width", 640, "Framebuffer width")
	height      = flag.Int("height", 640, "Framebuffer height")
	texturePath = flag.String("texture", "", "Diffuse texture")
	normalize   = flag.Bool("normalize", true, "Recentre and fit the mesh into [-1, 1]")

	mode = config.Default().Mode
	eye  = config.Default().Eye
)

func init() {
	flag.Var(&mode, "mode", "Shading: gouraud, flat or wireframe")
	flag.Var(&eye, "eye", "Camera position (x,y,z)")
}

const (
	sweepSeconds = 3
	spinSpeed    = 0.01 // radians per tick
	orbitSpeed   = 0.03
)

// Game draws the scene with the software renderer every frame and blits
// the result.
type Game struct {
	Width, Height int

	scene  *scene.Scene
	fb     *render.Framebuffer
	rd     *render.Renderer
	camera *render.Camera
	view   *orbit.Orbit

	img    *image.RGBA
	screen *ebiten.Image

	spin     bool
	angle    float64
	sweep    *gween.Tween
	sweepDir float32
	showText bool
}

// NewGame prepares the renderer for cfg.
func NewGame(cfg config.Config, s *scene.Scene) *Game {
	fb := render.NewFramebuffer(cfg.Width, cfg.Height)
	camera := render.NewCamera(cfg.Eye.Vec3(), cfg.Center.Vec3())
	camera.Up = cfg.Up.Vec3()

	return &Game{
		Width:    cfg.Width,
		Height:   cfg.Height,
		scene:    s,
		fb:       fb,
		rd:       render.NewRenderer(render.NewRasterizer(fb), camera, cfg.Depth),
		camera:   camera,
		view:     orbit.New(camera.Eye, camera.Center, ebiten.TPS()),
		img:      image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
		screen:   ebiten.NewImage(cfg.Width, cfg.Height),
		spin:     true,
		sweepDir: 1,
		showText: true,
	}
}

// startSweep tweens the light across the front of the model, alternating
// direction each time it finishes.
func (g *Game) startSweep() {
	g.sweep = gween.New(-g.sweepDir, g.sweepDir, sweepSeconds, ease.InOutSine)
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	switch {
	case ebiten.IsKeyPressed(ebiten.KeyLeft), ebiten.IsKeyPressed(ebiten.KeyA):
		g.view.Rotate(-orbitSpeed, 0)
	case ebiten.IsKeyPressed(ebiten.KeyRight), ebiten.IsKeyPressed(ebiten.KeyD):
		g.view.Rotate(orbitSpeed, 0)
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyUp), ebiten.IsKeyPressed(ebiten.KeyW):
		g.view.Rotate(0, orbitSpeed)
	case ebiten.IsKeyPressed(ebiten.KeyDown), ebiten.IsKeyPressed(ebiten.KeyS):
		g.view.Rotate(0, -orbitSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyEqual) || ebiten.IsKeyPressed(ebiten.KeyNumpadAdd) {
		g.view.Zoom(0.98)
	}
	if ebiten.IsKeyPressed(ebiten.KeyMinus) || ebiten.IsKeyPressed(ebiten.KeyNumpadSubtract) {
		g.view.Zoom(1 / 0.98)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.spin = !g.spin
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.view.Reset()
		g.angle = 0
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.sweep = nil
		g.scene.NextLight()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		if g.sweep == nil {
			g.startSweep()
		} else {
			g.sweep = nil
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.scene.NextMode()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showText = !g.showText
	}

	if g.sweep != nil {
		x, done := g.sweep.Update(float32(1 / float64(ebiten.TPS())))
		g.scene.Light = math3d.V3(float64(x), 0.5, 1).Normalize()
		if done {
			g.sweepDir = -g.sweepDir
			g.startSweep()
		}
	}

	if g.spin {
		g.angle = math.Mod(g.angle+spinSpeed, 2*math.Pi)
	}
	g.rd.Model = math3d.RotateY(g.angle)

	g.view.Update()
	g.camera.SetPosition(g.view.Eye())
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if err := g.scene.Draw(g.fb, g.rd); err != nil {
		slog.Warn("draw frame", "error", err)
	}
	g.fb.CopyTo(g.img)
	g.screen.WritePixels(g.img.Pix)
	screen.DrawImage(g.screen, nil)

	if g.showText {
		st := g.rd.Rasterizer.Stats
		txt := fmt.Sprintf("%s  %d tris  %d drawn  %.0f FPS\nmode %s (M)  light L/T  spin Space\narrows orbit  +/- zoom  R reset  F1 hide",
			g.scene.Name, st.Triangles, st.Drawn, ebiten.ActualFPS(), g.scene.Mode)
		text.Draw(screen, txt, basicfont.Face7x13, 8, 16, color.RGBA{220, 220, 220, 255})
	}
}

func (g *Game) Layout(w, h int) (int, int) {
	return g.Width, g.Height
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	cfg.Width, cfg.Height = *width, *height
	cfg.Normalize = *normalize
	if *configPath != "" {
		var err error
		cfg, err = config.Read(*configPath)
		if err != nil {
			return cfg, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "texture":
			cfg.Texture = *texturePath
		case "normalize":
			cfg.Normalize = *normalize
		case "mode":
			cfg.Mode = mode
		case "eye":
			cfg.Eye = eye
		}
	})
	if flag.NArg() > 0 {
		cfg.Mesh = flag.Arg(0)
	}

	cfg = cfg.Normalized()
	return cfg, cfg.Validate()
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := scene.Load(cfg)
	if err != nil {
		return err
	}

	ebiten.SetWindowTitle("tinyview - " + s.Name)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(NewGame(cfg, s)); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tinyview - Software Rasterizer in a Window\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tinyview [options] <model.obj|model.glb>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(); err != nil {
		slog.Error("tinyview failed", "error", err)
		os.Exit(1)
	}
}
