package main

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/tinyrender/pkg/config"
	"github.com/taigrr/tinyrender/pkg/orbit"
	"github.com/taigrr/tinyrender/pkg/render"
	"github.com/taigrr/tinyrender/pkg/scene"
)

const (
	rotateStep = 0.15 // radians per key press
	zoomStep   = 1.15
)

// HUD is the status line drawn over the top row.
type HUD struct {
	filename  string
	polyCount int
	show      bool
	fps       float64
	fpsFrames int
	fpsTime   time.Time

	mode  config.Mode
	stats render.Stats
}

// NewHUD creates a visible HUD.
func NewHUD(filename string, polyCount int) *HUD {
	return &HUD{
		filename:  filename,
		polyCount: polyCount,
		show:      true,
		fpsTime:   time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Toggle shows or hides the status line.
func (h *HUD) Toggle() {
	h.show = !h.show
}

// Draw writes the status line into the first row of area.
func (h *HUD) Draw(scr uv.Screen, area uv.Rectangle) {
	if !h.show || area.Min.Y >= area.Max.Y {
		return
	}
	line := fmt.Sprintf(" %s | %d polys | %d drawn | %.0f FPS | %s | L light  M mode  ? hide ",
		h.filename, h.polyCount, h.stats.Drawn, h.fps, h.mode)

	style := uv.Style{
		Fg: color.RGBA{255, 255, 255, 255},
		Bg: color.RGBA{0, 0, 0, 255},
	}
	x := area.Min.X
	for _, r := range line {
		if x >= area.Max.X {
			break
		}
		scr.SetCell(x, area.Min.Y, &uv.Cell{Content: string(r), Width: 1, Style: style})
		x++
	}
}

// frame is what the loop redraws: the framebuffer, its rasterizer and the
// renderer bound to them. Only the frame loop touches it.
type frame struct {
	fb *render.Framebuffer
	rd *render.Renderer
}

func newFrame(cols, rows int, camera *render.Camera, depth float64) *frame {
	// Two pixel rows per terminal cell.
	fb := render.NewFramebuffer(cols, rows*2)
	return &frame{
		fb: fb,
		rd: render.NewRenderer(render.NewRasterizer(fb), camera, depth),
	}
}

func runInteractive(ctx context.Context, cfg config.Config, fps int) error {
	if fps <= 0 {
		fps = 30
	}

	s, err := scene.Load(cfg)
	if err != nil {
		return err
	}

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	camera := render.NewCamera(cfg.Eye.Vec3(), cfg.Center.Vec3())
	camera.Up = cfg.Up.Vec3()
	view := orbit.New(camera.Eye, camera.Center, fps)
	cur := newFrame(width, height, camera, cfg.Depth)
	hud := NewHUD(s.Name, s.Mesh.TriangleCount())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The event goroutine only talks to the orbit (which locks) and sends
	// everything else to the frame loop.
	actions := make(chan func(), 16)
	send := func(fn func()) {
		select {
		case actions <- fn:
		case <-ctx.Done():
		}
	}

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				w, h := ev.Width, ev.Height
				send(func() {
					width, height = w, h
					term.Erase()
					term.Resize(width, height)
					cur = newFrame(width, height, camera, cfg.Depth)
					slog.Debug("resized", "cols", width, "rows", height)
				})

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "q", "ctrl+c"):
					cancel()
					return
				case ev.MatchString("a", "left"):
					view.Rotate(-rotateStep, 0)
				case ev.MatchString("d", "right"):
					view.Rotate(rotateStep, 0)
				case ev.MatchString("w", "up"):
					view.Rotate(0, rotateStep)
				case ev.MatchString("s", "down"):
					view.Rotate(0, -rotateStep)
				case ev.MatchString("+", "="):
					view.Zoom(1 / zoomStep)
				case ev.MatchString("-", "_"):
					view.Zoom(zoomStep)
				case ev.MatchString("r"):
					view.Reset()
				case ev.MatchString("l"):
					send(s.NextLight)
				case ev.MatchString("m"):
					send(s.NextMode)
				case ev.MatchString("?", "shift+/"):
					send(hud.Toggle)
				}
			}
		}
	}()

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		case fn := <-actions:
			fn()
			continue
		case <-ticker.C:
		}

		view.Update()
		camera.SetPosition(view.Eye())

		if err := s.Draw(cur.fb, cur.rd); err != nil {
			// The orbit keeps the camera valid; log and keep the last frame.
			slog.Warn("draw frame", "error", err)
		}
		hud.mode = s.Mode
		hud.stats = cur.rd.Rasterizer.Stats
		hud.UpdateFPS()

		term.Draw(cur.fb)
		term.Draw(hud)
		if err := term.Display(); err != nil {
			cleanup()
			return fmt.Errorf("display: %w", err)
		}
	}
}
