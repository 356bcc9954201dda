// Package scene turns a config.Config into something drawable: the mesh,
// its texture, the light and the pass for the current mode. The still
// renderer and both viewers share it.
package scene

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/taigrr/tinyrender/pkg/config"
	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/models"
	"github.com/taigrr/tinyrender/pkg/render"
)

// Lights are the directions the viewers cycle through, starting with the
// configured one.
var Lights = []math3d.Vec3{
	math3d.V3(0, 0, 1),
	math3d.V3(1, 1, 1).Normalize(),
	math3d.V3(-1, 0.5, 0.5).Normalize(),
	math3d.V3(0, 1, 0.2).Normalize(),
	math3d.V3(0.3, -0.5, 1).Normalize(),
}

var (
	BaseColor = render.RGB(255, 255, 255)
	WireColor = render.RGB(0, 255, 128)
)

// Scene is everything needed to draw one model.
type Scene struct {
	Name       string
	Mesh       *models.Mesh
	Texture    *render.Texture // nil draws BaseColor
	Light      math3d.Vec3     // Direction toward the light, unit length
	Mode       config.Mode
	Background render.Color

	light int // Index into Lights once cycling starts, -1 before
}

// Load reads the mesh and texture named by cfg. A texture file wins over
// one embedded in a GLB; a mesh with UVs and no texture gets a checker.
func Load(cfg config.Config) (*Scene, error) {
	mesh, embedded, err := models.Load(cfg.Mesh)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if cfg.Normalize {
		mesh.Normalize()
	}
	slog.Info("loaded mesh", "path", cfg.Mesh, "vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount())

	var tex *render.Texture
	switch {
	case cfg.Texture != "":
		tex, err = render.LoadTexture(cfg.Texture)
		if err != nil {
			return nil, fmt.Errorf("load texture: %w", err)
		}
		slog.Info("loaded texture", "path", cfg.Texture, "width", tex.Width, "height", tex.Height)
	case embedded != nil:
		tex = render.TextureFromImage(embedded)
		slog.Info("using embedded texture", "width", tex.Width, "height", tex.Height)
	case len(mesh.TexCoords) > 0:
		tex = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
		slog.Debug("no texture, using checker")
	}

	return &Scene{
		Name:       filepath.Base(cfg.Mesh),
		Mesh:       mesh,
		Texture:    tex,
		Light:      cfg.Light.Vec3().Normalize(),
		Mode:       cfg.Mode,
		Background: cfg.BackgroundColor(),
		light:      -1,
	}, nil
}

// Pass returns the drawing strategy for the current mode.
func (s *Scene) Pass() render.Pass {
	switch s.Mode {
	case config.ModeWireframe:
		return render.Wireframe{Color: WireColor}
	case config.ModeFlat:
		return render.Fill{Material: render.FlatMaterial{Light: s.Light, Color: BaseColor}}
	default:
		return render.Fill{Material: render.GouraudMaterial{Light: s.Light, Texture: s.Texture, Color: BaseColor}}
	}
}

// NextLight moves the light to the next preset.
func (s *Scene) NextLight() {
	s.light = (s.light + 1) % len(Lights)
	s.Light = Lights[s.light]
}

// NextMode cycles gouraud, flat and wireframe.
func (s *Scene) NextMode() {
	s.Mode = s.Mode.Next()
}

// Draw clears fb and the depth buffer, then draws the mesh with rd.
// rd's rasterizer must target fb.
func (s *Scene) Draw(fb *render.Framebuffer, rd *render.Renderer) error {
	fb.Clear(s.Background)
	rd.Rasterizer.ClearDepth()
	rd.Rasterizer.ResetStats()
	return rd.DrawMesh(s.Mesh, s.Pass())
}
