package render

import (
	"image"

	"github.com/Faultbox/meshview/pkg/math"
)

// Framebuffer is a row-major RGBA pixel buffer. It is created once per
// render and mutated only by the compositor.
type Framebuffer struct {
	Width  int
	Height int
	Pix    []uint8 // 4 bytes per pixel, RGBA
}

// NewFramebuffer allocates a zeroed buffer.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// SetRGBA writes one pixel. Out-of-bounds writes are dropped.
func (fb *Framebuffer) SetRGBA(x, y int, r, g, b, a uint8) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return
	}
	i := (y*fb.Width + x) * 4
	fb.Pix[i] = r
	fb.Pix[i+1] = g
	fb.Pix[i+2] = b
	fb.Pix[i+3] = a
}

// SetColor writes one pixel from a [0,1] color vector, fully opaque.
func (fb *Framebuffer) SetColor(x, y int, c math.Vec3) {
	c = c.Clamp01()
	fb.SetRGBA(x, y, toByte(c.X), toByte(c.Y), toByte(c.Z), 255)
}

// FillRect fills the half-open rectangle [x0,x1)x[y0,y1), clipped to the
// buffer bounds.
func (fb *Framebuffer) FillRect(x0, y0, x1, y1 int, r, g, b, a uint8) {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > fb.Width {
		x1 = fb.Width
	}
	if y1 > fb.Height {
		y1 = fb.Height
	}
	for y := y0; y < y1; y++ {
		i := (y*fb.Width + x0) * 4
		for x := x0; x < x1; x++ {
			fb.Pix[i] = r
			fb.Pix[i+1] = g
			fb.Pix[i+2] = b
			fb.Pix[i+3] = a
			i += 4
		}
	}
}

// ToImage copies the buffer into an image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	rowSize := fb.Width * 4
	for y := 0; y < fb.Height; y++ {
		src := y * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], fb.Pix[src:src+rowSize])
	}
	return img
}

func toByte(v float64) uint8 {
	return uint8(v*255 + 0.5)
}
