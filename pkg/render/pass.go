package render

import (
	"math"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// Pass decides how a projected face is drawn.
type Pass interface {
	DrawFace(r *Rasterizer, screen [3]math3d.Vec3, face [3]VertexAttrs)
}

// Fill rasterizes faces with the shader its Material builds.
type Fill struct {
	Material Material
}

// DrawFace runs the vertex stage and, unless it culls, the pixel loop.
func (p Fill) DrawFace(r *Rasterizer, screen [3]math3d.Vec3, face [3]VertexAttrs) {
	sh := p.Material.Shader(face)
	if sh == nil {
		r.Stats.Triangles++
		r.Stats.Culled++
		return
	}
	r.DrawTriangle(screen, sh)
}

// Wireframe draws the three edges of each face. Depth is ignored.
type Wireframe struct {
	Color Color
}

// DrawFace draws the edges with Line.
func (p Wireframe) DrawFace(r *Rasterizer, screen [3]math3d.Vec3, _ [3]VertexAttrs) {
	r.Stats.Triangles++

	w, h := r.Size()
	// Endpoints far off screen would make Bresenham walk millions of pixels.
	limit := float64(8 * max(w, h, 1))
	for _, p := range screen {
		if !p.IsFinite() || math.Abs(p.X) > limit || math.Abs(p.Y) > limit {
			r.Stats.Degenerate++
			return
		}
	}

	r.Stats.Drawn++
	for i := range 3 {
		a, b := screen[i], screen[(i+1)%3]
		Line(r.Target(), int(a.X), int(a.Y), int(b.X), int(b.Y), p.Color)
	}
}
