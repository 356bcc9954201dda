package math3d

import "errors"

// ErrDegenerateBasis is returned by LookAt and Projection when eye and
// center coincide or when up is parallel to the viewing direction.
var ErrDegenerateBasis = errors.New("math3d: degenerate camera basis")

// LookAt builds the model-view matrix for a camera at eye looking at center.
//
// The rows of the upper 3x3 block are the camera basis x, y, z where
// z = normalize(eye-center), x = normalize(up × z) and y = z × x. Column 3
// holds -center expressed in that basis. up must not be parallel to
// eye-center.
func LookAt(eye, center, up Vec3) (Mat4, error) {
	z, err := eye.Sub(center).NormalizeChecked()
	if err != nil {
		return Identity(), ErrDegenerateBasis
	}
	x, err := up.Cross(z).NormalizeChecked()
	if err != nil {
		return Identity(), ErrDegenerateBasis
	}
	y := z.Cross(x)

	m := Identity()
	for i, b := range [3]Vec3{x, y, z} {
		m.Set(i, 0, b.X)
		m.Set(i, 1, b.Y)
		m.Set(i, 2, b.Z)
		m.Set(i, 3, -b.Dot(center))
	}
	return m, nil
}

// Projection returns the simple perspective matrix keyed off the camera
// distance: identity with element (3,2) = -1/|eye-center|.
func Projection(eye, center Vec3) (Mat4, error) {
	d := eye.Distance(center)
	if d == 0 || !isFinite(d) {
		return Identity(), ErrDegenerateBasis
	}
	return ProjectionCoeff(-1 / d), nil
}

// ProjectionCoeff returns identity with element (3,2) = c.
func ProjectionCoeff(c float64) Mat4 {
	m := Identity()
	m.Set(3, 2, c)
	return m
}

// Viewport maps the [-1,1] cube onto the screen box [x,x+w] x [y,y+h] and
// the depth range [0,depth].
func Viewport(x, y, w, h int, depth float64) Mat4 {
	m := Identity()
	m.Set(0, 3, float64(x)+float64(w)/2)
	m.Set(1, 3, float64(y)+float64(h)/2)
	m.Set(2, 3, depth/2)

	m.Set(0, 0, float64(w)/2)
	m.Set(1, 1, float64(h)/2)
	m.Set(2, 2, depth/2)
	return m
}
