// Package render implements the software rasterization pipeline: pixel and
// depth buffers, line and triangle rasterization, shaders, textures and the
// per-mesh renderer.
package render

import (
	"image"
	"image/color"
)

// Target is anything the rasterizer can draw into.
type Target interface {
	Size() (width, height int)
	SetPixel(x, y int, c Color)
}

// Framebuffer is a 2D array of pixels. Row 0 is the bottom of the image,
// matching the y-up screen space produced by the viewport transform.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // Row-major, bottom row first
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int) {
	return fb.Width, fb.Height
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawRect draws a filled rectangle with its lower-left corner at (x, y).
func (fb *Framebuffer) DrawRect(x, y, w, h int, c color.RGBA) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			fb.SetPixel(px, py, c)
		}
	}
}

// ToImage converts the framebuffer to a top-down image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	fb.CopyTo(img)
	return img
}

// CopyTo writes the framebuffer into dst, flipping it to top-down order.
// dst must be at least as large as the framebuffer.
func (fb *Framebuffer) CopyTo(dst *image.RGBA) {
	for y := range fb.Height {
		row := dst.Pix[(fb.Height-1-y)*dst.Stride:]
		for x, c := range fb.Pixels[y*fb.Width : (y+1)*fb.Width] {
			row[x*4+0] = c.R
			row[x*4+1] = c.G
			row[x*4+2] = c.B
			row[x*4+3] = c.A
		}
	}
}
