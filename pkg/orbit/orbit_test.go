package orbit

import (
	"math"
	"sync"
	"testing"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

const epsilon = 1e-6

func vecNear(a, b math3d.Vec3, eps float64) bool {
	return a.Sub(b).Len() < eps
}

// settle runs the springs long enough to reach their targets.
func settle(o *Orbit) {
	for range 600 {
		o.Update()
	}
}

func TestNewKeepsEye(t *testing.T) {
	tests := []struct {
		name        string
		eye, center math3d.Vec3
	}{
		{"default", math3d.V3(1, 1, 3), math3d.Zero3()},
		{"offset center", math3d.V3(2, 0, -1), math3d.V3(1, 1, 1)},
		{"on axis", math3d.V3(0, 0, 3), math3d.Zero3()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(tt.eye, tt.center, 60)
			if got := o.Eye(); !vecNear(got, tt.eye, epsilon) {
				t.Errorf("Eye() = %v, want %v", got, tt.eye)
			}
			if !o.Settled() {
				t.Error("new orbit should be at rest")
			}
		})
	}
}

func TestRotate(t *testing.T) {
	o := New(math3d.V3(0, 0, 3), math3d.Zero3(), 60)
	o.Rotate(math.Pi/2, 0)

	o.Update()
	if o.Settled() {
		t.Fatal("orbit settled after a single frame")
	}

	settle(o)
	if !o.Settled() {
		t.Fatal("orbit did not settle")
	}
	// A quarter turn about +y takes +z to +x.
	if got := o.Eye(); !vecNear(got, math3d.V3(3, 0, 0), 1e-3) {
		t.Errorf("Eye() = %v, want (3, 0, 0)", got)
	}
}

func TestPitchClamped(t *testing.T) {
	for _, dp := range []float64{10, -10} {
		o := New(math3d.V3(0, 0, 3), math3d.Zero3(), 60)
		o.Rotate(0, dp)
		settle(o)

		_, pitch, _ := o.Angles()
		if math.Abs(pitch) > MaxPitch+1e-9 {
			t.Errorf("Rotate(0, %v): pitch = %v, want within %v", dp, pitch, MaxPitch)
		}
		// The eye must stay usable as a look-at camera with +y up.
		if _, err := math3d.LookAt(o.Eye(), o.Center(), math3d.Up()); err != nil {
			t.Errorf("Rotate(0, %v): LookAt at clamped pitch: %v", dp, err)
		}
	}
}

func TestZoom(t *testing.T) {
	o := New(math3d.V3(0, 0, 4), math3d.Zero3(), 60)

	o.Zoom(0.5)
	settle(o)
	if _, _, d := o.Angles(); math.Abs(d-2) > 1e-3 {
		t.Errorf("distance = %v, want 2", d)
	}

	o.Zoom(0.001)
	settle(o)
	if _, _, d := o.Angles(); math.Abs(d-MinDistance) > 1e-3 {
		t.Errorf("distance = %v, want clamped to %v", d, MinDistance)
	}

	o.Zoom(0)
	o.Zoom(-1)
	settle(o)
	if _, _, d := o.Angles(); math.Abs(d-MinDistance) > 1e-3 {
		t.Errorf("non-positive zoom changed distance to %v", d)
	}
}

func TestReset(t *testing.T) {
	eye := math3d.V3(1, 1, 3)
	o := New(eye, math3d.Zero3(), 30)
	o.Rotate(1, 0.5)
	o.Zoom(2)
	settle(o)

	o.Reset()
	settle(o)
	if got := o.Eye(); !vecNear(got, eye, 1e-3) {
		t.Errorf("Eye() after Reset = %v, want %v", got, eye)
	}
}

func TestConcurrentInput(t *testing.T) {
	o := New(math3d.V3(0, 0, 3), math3d.Zero3(), 60)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 100 {
			o.Rotate(0.01, 0.005)
			o.Zoom(1.01)
		}
	}()
	go func() {
		defer wg.Done()
		for range 100 {
			o.Update()
			_ = o.Eye()
		}
	}()
	wg.Wait()

	settle(o)
	yaw, pitch, _ := o.Angles()
	if math.Abs(yaw-1) > 1e-3 || math.Abs(pitch-0.5) > 1e-3 {
		t.Errorf("angles = (%v, %v), want (1, 0.5)", yaw, pitch)
	}
}
