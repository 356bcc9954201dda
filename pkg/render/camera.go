package render

import (
	"fmt"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// DefaultMargin leaves an eighth of the image empty on every side.
const DefaultMargin = 1.0 / 8

// Camera looks from Eye at Center. Margin is the fraction of the target
// left empty on each side by the viewport.
type Camera struct {
	Eye    math3d.Vec3
	Center math3d.Vec3
	Up     math3d.Vec3
	Margin float64
}

// NewCamera creates a camera with world up and the default margin.
func NewCamera(eye, center math3d.Vec3) *Camera {
	return &Camera{
		Eye:    eye,
		Center: center,
		Up:     math3d.Up(),
		Margin: DefaultMargin,
	}
}

// SetPosition moves the eye.
func (c *Camera) SetPosition(eye math3d.Vec3) {
	c.Eye = eye
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Center = target
}

// ModelView returns the look-at matrix.
func (c *Camera) ModelView() (math3d.Mat4, error) {
	return math3d.LookAt(c.Eye, c.Center, c.Up)
}

// Projection returns the distance-keyed perspective matrix.
func (c *Camera) Projection() (math3d.Mat4, error) {
	return math3d.Projection(c.Eye, c.Center)
}

// Viewport returns the screen mapping for a width x height target.
func (c *Camera) Viewport(width, height int, depth float64) math3d.Mat4 {
	mx := int(float64(width) * c.Margin)
	my := int(float64(height) * c.Margin)
	return math3d.Viewport(mx, my, width-2*mx, height-2*my, depth)
}

// Transform returns viewport · projection · modelview.
func (c *Camera) Transform(width, height int, depth float64) (math3d.Mat4, error) {
	mv, err := c.ModelView()
	if err != nil {
		return math3d.Mat4{}, fmt.Errorf("modelview (eye %v, center %v): %w", c.Eye, c.Center, err)
	}
	proj, err := c.Projection()
	if err != nil {
		return math3d.Mat4{}, fmt.Errorf("projection: %w", err)
	}
	return c.Viewport(width, height, depth).Mul(proj).Mul(mv), nil
}

// WorldToScreen projects a world point to screen coordinates.
// visible is false when the point cannot be projected or lands outside
// the target.
func (c *Camera) WorldToScreen(p math3d.Vec3, width, height int, depth float64) (screen math3d.Vec3, visible bool) {
	m, err := c.Transform(width, height, depth)
	if err != nil {
		return math3d.Vec3{}, false
	}
	screen, err = m.MulVec4(math3d.V4FromV3(p, 1)).Cartesian()
	if err != nil {
		return math3d.Vec3{}, false
	}
	visible = screen.X >= 0 && screen.X < float64(width) && screen.Y >= 0 && screen.Y < float64(height)
	return screen, visible
}
