package render

import (
	"math"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// VertexAttrs are the per-corner inputs of a face after the model
// transform.
type VertexAttrs struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Shader colors one pixel from its barycentric weights.
type Shader interface {
	Fragment(bar math3d.Vec3) Color
}

// ShaderFunc adapts a function to the Shader interface.
type ShaderFunc func(bar math3d.Vec3) Color

// Fragment calls f(bar).
func (f ShaderFunc) Fragment(bar math3d.Vec3) Color {
	return f(bar)
}

// Material is the per-triangle vertex stage: it captures the varyings of a
// face and returns the Shader for its pixels, or nil to cull the face.
type Material interface {
	Shader(face [3]VertexAttrs) Shader
}

// SolidShader paints every pixel the same color. It is also a Material.
type SolidShader struct {
	Color Color
}

// Fragment returns the constant color.
func (s SolidShader) Fragment(math3d.Vec3) Color {
	return s.Color
}

// Shader returns s for every face.
func (s SolidShader) Shader([3]VertexAttrs) Shader {
	return s
}

// GouraudMaterial lights each vertex by its normal and interpolates the
// intensity across the face. Light points toward the light source.
// Texture is optional; without it Color is used.
type GouraudMaterial struct {
	Light   math3d.Vec3
	Texture *Texture
	Color   Color
}

// Shader captures per-vertex intensity and UV.
func (m GouraudMaterial) Shader(face [3]VertexAttrs) Shader {
	s := &GouraudShader{Texture: m.Texture, Color: m.Color}
	for i, v := range face {
		s.Intensity[i] = math.Max(0, v.Normal.Dot(m.Light))
		s.UV[i] = v.UV
	}
	return s
}

// GouraudShader holds the varyings of one triangle.
type GouraudShader struct {
	Intensity [3]float64
	UV        [3]math3d.Vec2
	Texture   *Texture
	Color     Color
}

// Fragment interpolates intensity and UV, samples the texture and scales
// the result, clamped to [0, 255].
func (s *GouraudShader) Fragment(bar math3d.Vec3) Color {
	intensity := bar.Dot(math3d.V3(s.Intensity[0], s.Intensity[1], s.Intensity[2]))
	base := s.Color
	if s.Texture != nil {
		uv := s.UV[0].Scale(bar.X).Add(s.UV[1].Scale(bar.Y)).Add(s.UV[2].Scale(bar.Z))
		base = s.Texture.Sample(uv.X, uv.Y)
	}
	return MultiplyColor(base, intensity)
}

// FlatMaterial lights a whole face by its geometric normal. Faces turned
// away from the light are culled.
type FlatMaterial struct {
	Light math3d.Vec3
	Color Color
}

// Shader returns a SolidShader, or nil when the face is unlit or has no
// area.
func (m FlatMaterial) Shader(face [3]VertexAttrs) Shader {
	p0, p1, p2 := face[0].Position, face[1].Position, face[2].Position
	n, err := p1.Sub(p0).Cross(p2.Sub(p0)).NormalizeChecked()
	if err != nil {
		return nil
	}
	intensity := n.Dot(m.Light)
	if intensity <= 0 {
		return nil
	}
	return SolidShader{MultiplyColor(m.Color, intensity)}
}
