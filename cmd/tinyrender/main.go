// tinyrender - Software Rasterizer
// Renders OBJ and GLB meshes with a z-buffered triangle rasterizer, either to
// an image file or live in the terminal.
//
// Terminal controls (-i):
//
//	Arrows/WASD - Orbit the camera
//	+/-         - Zoom
//	L           - Next light direction
//	M           - Next mode (gouraud, flat, wireframe)
//	R           - Reset view
//	?           - Toggle status line
//	Esc/Q       - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/taigrr/tinyrender/pkg/config"
	"github.com/taigrr/tinyrender/pkg/render"
	"github.com/taigrr/tinyrender/pkg/scene"
)

var (
	configPath   = flag.String("config", "", "YAML scene file")
	verbose      = flag.Bool("v", false, "Debug logging")
	showProgress = flag.Bool("progress", false, "Show a progress bar while rendering")
	interactive  = flag.Bool("i", false, "View in the terminal instead of writing a file")
	logPath      = flag.String("log", "", "Log file for the terminal viewer")
	targetFPS    = flag.Int("fps", 30, "Target FPS for the terminal viewer")
	writeConfig  = flag.String("write-config", "", "Write the effective config as YAML and exit")

	// Scene overrides. Only flags given on the command line replace values
	// from -config.
	width       = flag.Int("width", 800, "Image width")
	height      = flag.Int("height", 800, "Image height")
	depth       = flag.Float64("depth", 255, "Depth range of the z-buffer")
	outputPath  = flag.String("o", "output.png", "Output image (.png, .jpg, .bmp, .tif)")
	texturePath = flag.String("texture", "", "Diffuse texture (PNG/JPG/BMP/TIFF/WebP)")
	zbufferPath = flag.String("zbuffer", "", "Also write the depth buffer as a grayscale image")
	scale       = flag.Int("scale", 1, "Integer upscale of written images")
	bgColor     = flag.String("bg", "0,0,0", "Background color (R,G,B)")
	normalize   = flag.Bool("normalize", false, "Recentre and fit the mesh into [-1, 1]")

	mode   = config.Default().Mode
	eye    = config.Default().Eye
	center = config.Default().Center
	up     = config.Default().Up
	light  = config.Default().Light
)

func init() {
	flag.Var(&mode, "mode", "Shading: gouraud, flat or wireframe")
	flag.Var(&eye, "eye", "Camera position (x,y,z)")
	flag.Var(&center, "center", "Point the camera looks at (x,y,z)")
	flag.Var(&up, "up", "Camera up vector (x,y,z)")
	flag.Var(&light, "light", "Direction toward the light (x,y,z)")
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tinyrender - Software Rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tinyrender [options] <model.obj|model.glb>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nTerminal controls (-i):\n")
		fmt.Fprintf(os.Stderr, "  Arrows/WASD - Orbit the camera\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Zoom\n")
		fmt.Fprintf(os.Stderr, "  L           - Next light direction\n")
		fmt.Fprintf(os.Stderr, "  M           - Next mode\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle status line\n")
		fmt.Fprintf(os.Stderr, "  Esc/Q       - Quit\n")
	}
	flag.Parse()

	closeLog, err := setupLogging()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(); err != nil {
		slog.Error("tinyrender failed", "error", err)
		closeLog()
		os.Exit(1)
	}
}

// setupLogging sends slog to stderr, or in the terminal viewer (where
// stderr is the screen) to -log or nowhere.
func setupLogging() (closeFn func(), err error) {
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closeFn = func() {}
	switch {
	case *logPath != "":
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closeFn, fmt.Errorf("open log: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case *interactive:
		w = io.Discard
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closeFn, nil
}

// loadConfig reads -config if given and applies the flags that were set
// explicitly, plus the mesh argument.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
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
		case "depth":
			cfg.Depth = *depth
		case "o":
			cfg.Output = *outputPath
		case "texture":
			cfg.Texture = *texturePath
		case "zbuffer":
			cfg.ZBuffer = *zbufferPath
		case "scale":
			cfg.Scale = *scale
		case "bg":
			cfg.Background = *bgColor
		case "normalize":
			cfg.Normalize = *normalize
		case "mode":
			cfg.Mode = mode
		case "eye":
			cfg.Eye = eye
		case "center":
			cfg.Center = center
		case "up":
			cfg.Up = up
		case "light":
			cfg.Light = light
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
		if flag.NArg() == 0 && *configPath == "" {
			flag.Usage()
		}
		return err
	}
	slog.Debug("config", "config", fmt.Sprintf("%+v", cfg))

	if *writeConfig != "" {
		if err := cfg.Save(*writeConfig); err != nil {
			return err
		}
		slog.Info("wrote config", "path", *writeConfig)
		return nil
	}

	if *interactive {
		// Context for clean shutdown
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runInteractive(ctx, cfg, *targetFPS)
	}
	return renderStill(cfg)
}

// renderStill draws one frame and writes it, and optionally the depth
// buffer, to disk.
func renderStill(cfg config.Config) error {
	s, err := scene.Load(cfg)
	if err != nil {
		return err
	}

	fb := render.NewFramebuffer(cfg.Width, cfg.Height)
	rast := render.NewRasterizer(fb)
	camera := render.NewCamera(cfg.Eye.Vec3(), cfg.Center.Vec3())
	camera.Up = cfg.Up.Vec3()
	rd := render.NewRenderer(rast, camera, cfg.Depth)

	if m, err := camera.Transform(cfg.Width, cfg.Height, cfg.Depth); err == nil {
		slog.Debug("screen transform", "matrix", m.Matrix().String())
	}

	if *showProgress {
		bar := progressbar.Default(int64(s.Mesh.TriangleCount()), "rendering")
		defer bar.Close()
		rd.OnFace = func(int) { _ = bar.Add(1) }
	}

	start := time.Now()
	if err := s.Draw(fb, rd); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	st := rast.Stats
	slog.Info("rendered",
		"mode", s.Mode,
		"triangles", st.Triangles,
		"drawn", st.Drawn,
		"culled", st.Culled,
		"degenerate", st.Degenerate,
		"fragments", st.Fragments,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if err := fb.Save(cfg.Output, cfg.Scale); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	slog.Info("wrote image", "path", cfg.Output, "width", cfg.Width*cfg.Scale, "height", cfg.Height*cfg.Scale)

	if cfg.ZBuffer != "" {
		if err := render.SaveImage(cfg.ZBuffer, rast.Depth().Image(), cfg.Scale); err != nil {
			return fmt.Errorf("save z-buffer: %w", err)
		}
		slog.Info("wrote z-buffer", "path", cfg.ZBuffer)
	}
	return nil
}
