package render

import (
	"math"
	"testing"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// createTestRasterizer creates a rasterizer for testing.
func createTestRasterizer(width, height int) (*Rasterizer, *Framebuffer) {
	fb := NewFramebuffer(width, height)
	return NewRasterizer(fb), fb
}

func TestBarycentric(t *testing.T) {
	// Triangle: (0,0), (10,0), (0,10)
	a, b, c := math3d.V2(0, 0), math3d.V2(10, 0), math3d.V2(0, 10)

	tests := []struct {
		name     string
		p        math3d.Vec2
		expected math3d.Vec3
	}{
		{"vertex 0", math3d.V2(0, 0), math3d.V3(1, 0, 0)},
		{"vertex 1", math3d.V2(10, 0), math3d.V3(0, 1, 0)},
		{"vertex 2", math3d.V2(0, 10), math3d.V3(0, 0, 1)},
		{"centroid", math3d.V2(10.0/3, 10.0/3), math3d.V3(1.0/3, 1.0/3, 1.0/3)},
		{"hypotenuse midpoint", math3d.V2(5, 5), math3d.V3(0, 0.5, 0.5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bc := Barycentric(a, b, c, tc.p)

			if math.Abs(bc.X-tc.expected.X) > 1e-9 ||
				math.Abs(bc.Y-tc.expected.Y) > 1e-9 ||
				math.Abs(bc.Z-tc.expected.Z) > 1e-9 {
				t.Errorf("Barycentric(%v) = %v, want %v", tc.p, bc, tc.expected)
			}
		})
	}

	t.Run("outside triangle", func(t *testing.T) {
		bc := Barycentric(a, b, c, math3d.V2(-1, -1))
		if bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0 {
			t.Error("point outside triangle should have negative barycentric coordinate")
		}
	})

	t.Run("degenerate", func(t *testing.T) {
		bc := Barycentric(a, math3d.V2(5, 0), b, math3d.V2(5, 0))
		if bc != math3d.V3(-1, 1, 1) {
			t.Errorf("collinear triangle = %v, want sentinel (-1,1,1)", bc)
		}
	})
}

func TestBarycentricRoundTrip(t *testing.T) {
	triangles := [][3]math3d.Vec2{
		{{0, 0}, {10, 0}, {0, 10}},
		{{13, 20}, {80, 40}, {40, 90}},
		{{100.5, 3.25}, {-20, 60}, {7, -45}},
		{{0, 0}, {0, 10}, {10, 0}}, // clockwise
	}
	weights := []math3d.Vec3{
		{1.0 / 3, 1.0 / 3, 1.0 / 3},
		{0.5, 0.25, 0.25},
		{0.1, 0.7, 0.2},
		{0, 0.5, 0.5},
		{1, 0, 0},
	}

	for _, tri := range triangles {
		for _, w := range weights {
			p := tri[0].Scale(w.X).Add(tri[1].Scale(w.Y)).Add(tri[2].Scale(w.Z))
			got := Barycentric(tri[0], tri[1], tri[2], p)
			if math.Abs(got.X-w.X) > 1e-9 || math.Abs(got.Y-w.Y) > 1e-9 || math.Abs(got.Z-w.Z) > 1e-9 {
				t.Errorf("triangle %v, weights %v: got %v", tri, w, got)
			}
		}
	}
}

func TestDrawTriangleCoverage(t *testing.T) {
	r, fb := createTestRasterizer(20, 20)
	fb.Clear(ColorBlack)

	pts := [3]math3d.Vec3{{0, 0, 1}, {10, 0, 2}, {0, 10, 3}}
	if !r.DrawTriangle(pts, SolidShader{ColorWhite}) {
		t.Fatal("DrawTriangle reported nothing drawn")
	}

	written := 0
	for y := range fb.Height {
		for x := range fb.Width {
			inside := x+y <= 10
			got := fb.GetPixel(x, y) == ColorWhite
			if got != inside {
				t.Errorf("pixel (%d,%d): written=%v, want %v", x, y, got, inside)
			}
			if got {
				written++
			}
		}
	}
	if r.Stats.Fragments != written {
		t.Errorf("Stats.Fragments = %d, pixels written = %d", r.Stats.Fragments, written)
	}
}

func TestDrawTriangleInterpolatesDepth(t *testing.T) {
	r, _ := createTestRasterizer(20, 20)
	pts := [3]math3d.Vec3{{0, 0, 1}, {10, 0, 2}, {0, 10, 3}}
	r.DrawTriangle(pts, SolidShader{ColorWhite})

	tests := []struct {
		x, y int
		want float64
	}{
		{0, 0, 1},
		{10, 0, 2},
		{0, 10, 3},
		{5, 5, 2.5},
	}
	for _, tc := range tests {
		z, ok := r.Depth().At(tc.x, tc.y)
		if !ok || math.Abs(z-tc.want) > 1e-9 {
			t.Errorf("depth(%d,%d) = %v, want %v", tc.x, tc.y, z, tc.want)
		}
	}
	if z, _ := r.Depth().At(15, 15); !math.IsInf(z, -1) {
		t.Errorf("untouched depth = %v, want -Inf", z)
	}
}

func TestDrawTriangleDepthOrder(t *testing.T) {
	near := [3]math3d.Vec3{{0, 0, 10}, {15, 0, 10}, {0, 15, 10}}
	far := [3]math3d.Vec3{{2, 2, 5}, {19, 2, 5}, {2, 19, 5}}

	orders := []struct {
		name   string
		first  [3]math3d.Vec3
		second [3]math3d.Vec3
		c1, c2 Color
	}{
		{"near first", near, far, ColorRed, ColorGreen},
		{"far first", far, near, ColorGreen, ColorRed},
	}

	for _, tc := range orders {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(20, 20)
			r.DrawTriangle(tc.first, SolidShader{tc.c1})
			r.DrawTriangle(tc.second, SolidShader{tc.c2})

			// overlap: nearer triangle wins
			if got := fb.GetPixel(4, 4); got != ColorRed {
				t.Errorf("overlap pixel = %v, want red", got)
			}
			// far triangle only
			if got := fb.GetPixel(12, 6); got != ColorGreen {
				t.Errorf("far-only pixel = %v, want green", got)
			}
		})
	}
}

func TestDrawTriangleDegenerate(t *testing.T) {
	tests := []struct {
		name string
		pts  [3]math3d.Vec3
	}{
		{"collinear", [3]math3d.Vec3{{0, 5, 0}, {10, 5, 0}, {19, 5, 0}}},
		{"tiny", [3]math3d.Vec3{{5, 5, 0}, {5.5, 5, 0}, {5, 5.5, 0}}},
		{"nan", [3]math3d.Vec3{{0, 0, 0}, {10, 0, math.NaN()}, {0, 10, 0}}},
		{"inf", [3]math3d.Vec3{{0, 0, 0}, {math.Inf(1), 0, 0}, {0, 10, 0}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(20, 20)
			fb.Clear(ColorBlack)

			if r.DrawTriangle(tc.pts, SolidShader{ColorWhite}) {
				t.Error("degenerate triangle reported as drawn")
			}
			if r.Stats.Degenerate != 1 || r.Stats.Fragments != 0 {
				t.Errorf("stats = %+v", r.Stats)
			}
			for _, p := range fb.Pixels {
				if p != ColorBlack {
					t.Fatal("degenerate triangle wrote pixels")
				}
			}
		})
	}
}

func TestDrawTriangleClampsToTarget(t *testing.T) {
	r, fb := createTestRasterizer(16, 8)
	pts := [3]math3d.Vec3{{-100, -100, 0}, {500, -100, 0}, {-100, 500, 0}}

	if !r.DrawTriangle(pts, SolidShader{ColorWhite}) {
		t.Fatal("oversized triangle was not drawn")
	}
	if r.Stats.Fragments != 16*8 {
		t.Errorf("Fragments = %d, want %d", r.Stats.Fragments, 16*8)
	}
	for i, p := range fb.Pixels {
		if p != ColorWhite {
			t.Fatalf("pixel %d not covered", i)
		}
	}

	r.ResetStats()
	if r.DrawTriangle([3]math3d.Vec3{{100, 100, 0}, {120, 100, 0}, {100, 120, 0}}, SolidShader{ColorRed}) {
		t.Error("off-screen triangle reported as drawn")
	}
}

func TestDrawTriangleFarOffScreen(t *testing.T) {
	// Finite coordinates past the int64 range must not reach the pixel loop.
	tests := []struct {
		name string
		pts  [3]math3d.Vec3
	}{
		{"right", [3]math3d.Vec3{{1e19, 5, 1}, {2e19, 5, 1}, {1e19, 1e19, 1}}},
		{"above", [3]math3d.Vec3{{5, 1e19, 1}, {1e19, 1e19, 1}, {5, 2e19, 1}}},
		{"left", [3]math3d.Vec3{{-2e19, 5, 1}, {-1e19, 5, 1}, {-1e19, 1e19, 1}}},
		{"below", [3]math3d.Vec3{{5, -2e19, 1}, {1e19, -2e19, 1}, {5, -1e19, 1}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(16, 8)
			fb.Clear(ColorBlack)

			if r.DrawTriangle(tc.pts, SolidShader{ColorWhite}) {
				t.Error("far-off triangle reported as drawn")
			}
			if r.Stats.Drawn != 0 || r.Stats.Fragments != 0 {
				t.Errorf("stats = %+v", r.Stats)
			}
		})
	}
}

func TestDrawTriangleShaderWeights(t *testing.T) {
	r, fb := createTestRasterizer(20, 20)
	// Color each pixel by its dominant weight.
	sh := ShaderFunc(func(bar math3d.Vec3) Color {
		switch {
		case bar.X >= bar.Y && bar.X >= bar.Z:
			return ColorRed
		case bar.Y >= bar.Z:
			return ColorGreen
		default:
			return ColorBlue
		}
	})
	r.DrawTriangle([3]math3d.Vec3{{0, 0, 0}, {18, 0, 0}, {0, 18, 0}}, sh)

	if fb.GetPixel(1, 1) != ColorRed || fb.GetPixel(16, 1) != ColorGreen || fb.GetPixel(1, 16) != ColorBlue {
		t.Error("weights are not in vertex order")
	}
}

// Benchmark tests
func BenchmarkDrawTriangle(b *testing.B) {
	r, _ := createTestRasterizer(200, 200)
	pts := [3]math3d.Vec3{{20, 20, 0}, {180, 40, 10}, {90, 180, 5}}
	sh := SolidShader{ColorWhite}

	for b.Loop() {
		r.ClearDepth()
		r.DrawTriangle(pts, sh)
	}
}

func BenchmarkDrawTriangleGouraud(b *testing.B) {
	r, _ := createTestRasterizer(200, 200)
	pts := [3]math3d.Vec3{{20, 20, 0}, {180, 40, 10}, {90, 180, 5}}
	face := [3]VertexAttrs{
		{Normal: math3d.V3(0, 0, 1), UV: math3d.V2(0, 0)},
		{Normal: math3d.V3(0.5, 0, 0.866), UV: math3d.V2(1, 0)},
		{Normal: math3d.V3(0, 0.5, 0.866), UV: math3d.V2(0.5, 1)},
	}
	mat := GouraudMaterial{
		Light:   math3d.V3(0, 0, 1),
		Texture: NewCheckerTexture(64, 64, 8, ColorWhite, ColorGray),
	}

	for b.Loop() {
		r.ClearDepth()
		r.DrawTriangle(pts, mat.Shader(face))
	}
}
