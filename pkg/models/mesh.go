// Package models provides mesh loading and representation for the renderer.
package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

var (
	// ErrIndexOutOfRange is returned when a face references an attribute
	// that does not exist.
	ErrIndexOutOfRange = errors.New("models: face index out of range")
	// ErrMalformedRecord is returned for unparsable mesh records.
	ErrMalformedRecord = errors.New("models: malformed record")
	// ErrUnsupportedFormat is returned by Load for unknown file extensions.
	ErrUnsupportedFormat = errors.New("models: unsupported format")
)

// Mesh is an indexed triangle mesh. Positions, texture coordinates and
// normals are indexed independently by each face corner.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3
	TexCoords []math3d.Vec2
	Normals   []math3d.Vec3
	Faces     []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Corner is one vertex of a face: 0-based indices into the mesh's
// position, texture coordinate and normal arrays.
type Corner struct {
	Position, TexCoord, Normal int
}

// Face is a triangle.
type Face [3]Corner

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// Validate checks every face index against its attribute array.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		for n, c := range f {
			switch {
			case c.Position < 0 || c.Position >= len(m.Positions):
				return fmt.Errorf("%w: face %d corner %d position %d (have %d)", ErrIndexOutOfRange, i, n, c.Position, len(m.Positions))
			case c.TexCoord < 0 || c.TexCoord >= len(m.TexCoords):
				return fmt.Errorf("%w: face %d corner %d texcoord %d (have %d)", ErrIndexOutOfRange, i, n, c.TexCoord, len(m.TexCoords))
			case c.Normal < 0 || c.Normal >= len(m.Normals):
				return fmt.Errorf("%w: face %d corner %d normal %d (have %d)", ErrIndexOutOfRange, i, n, c.Normal, len(m.Normals))
			}
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Positions) == 0 {
		return
	}

	m.BoundsMin = m.Positions[0]
	m.BoundsMax = m.Positions[0]

	for _, p := range m.Positions[1:] {
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// Normalize recenters the mesh on the origin and scales it uniformly so
// its largest dimension spans [-1, 1].
func (m *Mesh) Normalize() {
	m.CalculateBounds()
	size := m.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim == 0 {
		return
	}
	s := 2 / maxDim
	m.Transform(math3d.ScaleUniform(s).Mul(math3d.Translate(m.Center().Negate())))
}

// Transform applies mat to all positions and its inverse transpose to all
// normals.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Positions {
		m.Positions[i] = mat.MulVec3(m.Positions[i])
	}
	nm := mat
	if inv, err := mat.Inverse(); err == nil {
		nm = inv.Transpose()
	}
	for i := range m.Normals {
		m.Normals[i] = nm.MulVec3Dir(m.Normals[i]).Normalize()
	}
	m.CalculateBounds()
}

// CalculateSmoothNormals replaces the normal array with one averaged
// normal per position and points every face corner at it.
func (m *Mesh) CalculateSmoothNormals() {
	m.Normals = make([]math3d.Vec3, len(m.Positions))

	for _, f := range m.Faces {
		p0 := m.Positions[f[0].Position]
		p1 := m.Positions[f[1].Position]
		p2 := m.Positions[f[2].Position]

		// area-weighted, normalized below
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, c := range f {
			m.Normals[c.Position] = m.Normals[c.Position].Add(n)
		}
	}

	for i := range m.Normals {
		m.Normals[i] = m.Normals[i].Normalize()
	}
	for i := range m.Faces {
		for n := range m.Faces[i] {
			m.Faces[i][n].Normal = m.Faces[i][n].Position
		}
	}
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Name:      m.Name,
		Positions: append([]math3d.Vec3(nil), m.Positions...),
		TexCoords: append([]math3d.Vec2(nil), m.TexCoords...),
		Normals:   append([]math3d.Vec3(nil), m.Normals...),
		Faces:     append([]Face(nil), m.Faces...),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of positions.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// Corner returns the attributes of corner n of face i.
// Implements render.MeshRenderer interface.
func (m *Mesh) Corner(i, n int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	c := m.Faces[i][n]
	return m.Positions[c.Position], m.Normals[c.Normal], m.TexCoords[c.TexCoord]
}
