package render

import (
	"fmt"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// MeshRenderer interface allows drawing meshes without importing models package.
type MeshRenderer interface {
	TriangleCount() int
	Corner(face, n int) (pos, normal math3d.Vec3, uv math3d.Vec2)
}

// Renderer projects meshes through a camera and hands each face to a Pass.
type Renderer struct {
	Rasterizer *Rasterizer
	Camera     *Camera
	Depth      float64     // Screen depth range [0, Depth]
	Model      math3d.Mat4 // Applied to positions before the camera

	// OnFace, if set, is called after each face with its index.
	OnFace func(face int)
}

// NewRenderer creates a renderer with an identity model transform.
func NewRenderer(r *Rasterizer, camera *Camera, depth float64) *Renderer {
	return &Renderer{
		Rasterizer: r,
		Camera:     camera,
		Depth:      depth,
		Model:      math3d.Identity(),
	}
}

// DrawMesh draws every face of mesh with pass. It fails only when the
// camera cannot build its matrices; faces that cannot be projected are
// counted as degenerate and skipped.
func (rd *Renderer) DrawMesh(mesh MeshRenderer, pass Pass) error {
	w, h := rd.Rasterizer.Size()
	view, err := rd.Camera.Transform(w, h, rd.Depth)
	if err != nil {
		return fmt.Errorf("camera transform: %w", err)
	}
	mvp := view.Mul(rd.Model)

	transformNormals := rd.Model != math3d.Identity()
	normalMat := rd.Model
	if inv, err := rd.Model.Inverse(); err == nil {
		normalMat = inv.Transpose()
	}

	for i := range mesh.TriangleCount() {
		var screen [3]math3d.Vec3
		var face [3]VertexAttrs
		ok := true

		for n := range 3 {
			pos, normal, uv := mesh.Corner(i, n)
			if transformNormals {
				normal = normalMat.MulVec3Dir(normal).Normalize()
			}
			face[n] = VertexAttrs{Position: rd.Model.MulVec3(pos), Normal: normal, UV: uv}

			p, err := mvp.MulVec4(math3d.V4FromV3(pos, 1)).Cartesian()
			if err != nil {
				ok = false
				break
			}
			screen[n] = p
		}

		if ok {
			pass.DrawFace(rd.Rasterizer, screen, face)
		} else {
			rd.Rasterizer.Stats.Triangles++
			rd.Rasterizer.Stats.Degenerate++
		}
		if rd.OnFace != nil {
			rd.OnFace(i)
		}
	}
	return nil
}
