package render

import (
	"math"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// Stats counts what the rasterizer did since the last ResetStats.
type Stats struct {
	Triangles  int // DrawTriangle calls and culled faces
	Drawn      int // Triangles that reached the pixel loop
	Degenerate int // Rejected for near-zero area or non-finite vertices
	Culled     int // Rejected by a Material before rasterization
	Fragments  int // Pixels that passed the depth test
}

// Rasterizer fills screen-space triangles into a Target with depth testing.
type Rasterizer struct {
	target Target
	depth  *DepthBuffer
	Stats  Stats
}

// NewRasterizer creates a rasterizer with a depth buffer sized to target.
func NewRasterizer(target Target) *Rasterizer {
	r := &Rasterizer{target: target}
	r.Resize()
	return r
}

// Resize reallocates the depth buffer to match the target.
func (r *Rasterizer) Resize() {
	w, h := r.target.Size()
	r.depth = NewDepthBuffer(w, h)
}

// Target returns the target being drawn into.
func (r *Rasterizer) Target() Target {
	return r.target
}

// Depth returns the depth buffer.
func (r *Rasterizer) Depth() *DepthBuffer {
	return r.depth
}

// Size returns the raster dimensions.
func (r *Rasterizer) Size() (width, height int) {
	return r.depth.Size()
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	r.depth.Clear()
}

// ResetStats zeroes the statistics (call once per frame).
func (r *Rasterizer) ResetStats() {
	r.Stats = Stats{}
}

// Barycentric returns the weights of p relative to triangle abc, in vertex
// order, summing to 1. When the triangle's doubled area is below one pixel
// it returns (-1, 1, 1), which every caller treats as outside.
func Barycentric(a, b, c, p math3d.Vec2) math3d.Vec3 {
	u := math3d.V3(c.X-a.X, b.X-a.X, a.X-p.X).Cross(math3d.V3(c.Y-a.Y, b.Y-a.Y, a.Y-p.Y))
	if math.Abs(u.Z) < 1 {
		return math3d.V3(-1, 1, 1)
	}
	return math3d.V3(1-(u.X+u.Y)/u.Z, u.Y/u.Z, u.X/u.Z)
}

// DrawTriangle rasterizes a screen-space triangle. Every integer pixel in
// the clamped bounding box with non-negative weights is depth tested with
// z > stored; survivors are colored by sh. Degenerate or non-finite
// triangles are skipped whole. It reports whether the pixel loop ran.
func (r *Rasterizer) DrawTriangle(pts [3]math3d.Vec3, sh Shader) bool {
	r.Stats.Triangles++

	for _, p := range pts {
		if !p.IsFinite() {
			r.Stats.Degenerate++
			return false
		}
	}
	a, b, c := pts[0].XY(), pts[1].XY(), pts[2].XY()
	if math.Abs((c.X-a.X)*(b.Y-a.Y)-(b.X-a.X)*(c.Y-a.Y)) < 1 {
		r.Stats.Degenerate++
		return false
	}

	// Clamp in float64: converting a far-off coordinate to int first is
	// implementation-defined and can wrap.
	w, h := r.depth.width, r.depth.height
	fx0, fx1 := math.Floor(min3(a.X, b.X, c.X)), math.Ceil(max3(a.X, b.X, c.X))
	fy0, fy1 := math.Floor(min3(a.Y, b.Y, c.Y)), math.Ceil(max3(a.Y, b.Y, c.Y))
	if fx0 > float64(w-1) || fx1 < 0 || fy0 > float64(h-1) || fy1 < 0 {
		return false
	}
	minX, maxX := int(math.Max(0, fx0)), int(math.Min(float64(w-1), fx1))
	minY, maxY := int(math.Max(0, fy0)), int(math.Min(float64(h-1), fy1))
	r.Stats.Drawn++

	// The bbox is inside [0,w-1]x[0,h-1], so the index needs no check.
	zbuf := r.depth.data
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			bar := Barycentric(a, b, c, math3d.V2(float64(x), float64(y)))
			if bar.X < 0 || bar.Y < 0 || bar.Z < 0 {
				continue
			}
			z := bar.X*pts[0].Z + bar.Y*pts[1].Z + bar.Z*pts[2].Z
			i := x + y*w
			if z <= zbuf[i] {
				continue
			}
			zbuf[i] = z
			r.target.SetPixel(x, y, sh.Fragment(bar))
			r.Stats.Fragments++
		}
	}
	return true
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
