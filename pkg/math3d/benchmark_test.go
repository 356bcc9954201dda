package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V4(1, 2, 3, 1)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkMat4Inverse(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(Scale(V3(2, 2, 2)))

	for b.Loop() {
		_, _ = m.Inverse()
	}
}

func BenchmarkMatrixMul(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Matrix()
	v := HomogeneousFromVec3(V3(4, 5, 6))

	for b.Loop() {
		_, _ = m.Mul(v)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}

func BenchmarkLookAt(b *testing.B) {
	eye := V3(1, 1, 3)
	center := V3(0, 0, 0)
	up := V3(0, 1, 0)

	for b.Loop() {
		_, _ = LookAt(eye, center, up)
	}
}

func BenchmarkScreenTransform(b *testing.B) {
	// viewport · projection · modelview, built once per frame by the renderer
	eye := V3(1, 1, 3)
	center := V3(0, 0, 0)
	mv, _ := LookAt(eye, center, Up())
	proj, _ := Projection(eye, center)
	vp := Viewport(100, 100, 600, 600, 255)

	for b.Loop() {
		_ = vp.Mul(proj).Mul(mv)
	}
}
