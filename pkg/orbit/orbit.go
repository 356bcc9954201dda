// Package orbit moves a camera eye around a fixed center. Input sets
// targets for yaw, pitch and distance; harmonica springs ease the eye
// toward them one frame at a time.
package orbit

import (
	"math"
	"sync"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/tinyrender/pkg/math3d"
)

// Limits on the orbit. Pitch is measured from the xz plane and stops short
// of the poles so the eye never lines up with +y. That keeps LookAt valid
// only for a camera whose up vector is +y; with another up the view can
// still degenerate at some angles.
const (
	MaxPitch    = math.Pi/2 - 0.05
	MinDistance = 0.5
	MaxDistance = 50.0
)

// axis is one spring-driven coordinate.
type axis struct {
	pos, vel, target float64
	spring           harmonica.Spring
}

func newAxis(fps int, v float64) axis {
	return axis{
		pos:    v,
		target: v,
		// Frequency 6, critically damped: quick without overshoot.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

func (a *axis) update() {
	a.pos, a.vel = a.spring.Update(a.pos, a.vel, a.target)
}

func (a *axis) settled() bool {
	return math.Abs(a.pos-a.target) < 1e-4 && math.Abs(a.vel) < 1e-4
}

// Orbit is safe for concurrent use: an input goroutine may call Rotate and
// Zoom while the frame loop calls Update and Eye.
type Orbit struct {
	mu     sync.Mutex
	fps    int
	center math3d.Vec3

	yaw, pitch, dist axis

	home [3]float64 // yaw, pitch, distance restored by Reset
}

// New creates an orbit whose eye starts at eye, looking at center, stepped
// at fps frames per second.
func New(eye, center math3d.Vec3, fps int) *Orbit {
	if fps <= 0 {
		fps = 60
	}
	yaw, pitch, dist := spherical(eye.Sub(center))

	o := &Orbit{fps: fps, center: center, home: [3]float64{yaw, pitch, dist}}
	o.place(yaw, pitch, dist)
	return o
}

// spherical converts an offset from the center to yaw (around +y, zero on
// +z), pitch (elevation) and distance.
func spherical(d math3d.Vec3) (yaw, pitch, dist float64) {
	dist = d.Len()
	if dist == 0 {
		return 0, 0, MinDistance
	}
	pitch = math.Asin(math.Max(-1, math.Min(1, d.Y/dist)))
	yaw = math.Atan2(d.X, d.Z)
	return yaw, clampPitch(pitch), clampDistance(dist)
}

func (o *Orbit) place(yaw, pitch, dist float64) {
	o.yaw = newAxis(o.fps, yaw)
	o.pitch = newAxis(o.fps, pitch)
	o.dist = newAxis(o.fps, dist)
}

// Rotate adds to the yaw and pitch targets, in radians.
func (o *Orbit) Rotate(dyaw, dpitch float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.yaw.target += dyaw
	o.pitch.target = clampPitch(o.pitch.target + dpitch)
}

// Zoom multiplies the distance target. Factors below 1 move closer.
func (o *Orbit) Zoom(factor float64) {
	if !(factor > 0) {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dist.target = clampDistance(o.dist.target * factor)
}

// Reset eases back to the starting position.
func (o *Orbit) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.yaw.target = o.home[0]
	o.pitch.target = o.home[1]
	o.dist.target = o.home[2]
}

// Update advances every spring by one frame.
func (o *Orbit) Update() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.yaw.update()
	o.pitch.update()
	o.dist.update()
}

// Settled reports whether the eye has reached its targets.
func (o *Orbit) Settled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.yaw.settled() && o.pitch.settled() && o.dist.settled()
}

// Center returns the point the eye orbits.
func (o *Orbit) Center() math3d.Vec3 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.center
}

// Eye returns the current eye position.
func (o *Orbit) Eye() math3d.Vec3 {
	o.mu.Lock()
	defer o.mu.Unlock()

	// The springs may overshoot slightly on pitch; keep the basis valid.
	pitch := clampPitch(o.pitch.pos)
	dist := clampDistance(o.dist.pos)
	cp := math.Cos(pitch)
	offset := math3d.V3(cp*math.Sin(o.yaw.pos), math.Sin(pitch), cp*math.Cos(o.yaw.pos))
	return o.center.Add(offset.Scale(dist))
}

// Angles returns the current yaw, pitch and distance.
func (o *Orbit) Angles() (yaw, pitch, dist float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.yaw.pos, o.pitch.pos, o.dist.pos
}

func clampPitch(p float64) float64 {
	return math.Max(-MaxPitch, math.Min(MaxPitch, p))
}

func clampDistance(d float64) float64 {
	return math.Max(MinDistance, math.Min(MaxDistance, d))
}
