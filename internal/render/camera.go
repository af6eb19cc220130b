package render

import (
	"errors"

	"github.com/Faultbox/meshview/pkg/math"
)

// ErrDegenerateCamera is returned when the up vector is collinear with the
// view direction, which leaves no usable right vector.
var ErrDegenerateCamera = errors.New("camera up vector is collinear with view direction")

const (
	cameraNear = 0.1
	cameraFar  = 1000.0
)

// Camera is an orthographic view. All primary rays share the forward
// direction; the viewport extents select the ray origin. The basis vectors
// are derived once at construction and read-only thereafter.
type Camera struct {
	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3

	Left, Right, Bottom, Top float64
	Near, Far                float64

	forward  math.Vec3
	right    math.Vec3
	cameraUp math.Vec3
}

// NewOrthoCamera builds an orthographic camera looking from position toward
// target. The viewport extents are ±(dimension/2 × scale). It fails with
// ErrDegenerateCamera when up is parallel to the view direction.
func NewOrthoCamera(position, target, up math.Vec3, viewportW, viewportH, scale float64) (*Camera, error) {
	forward := target.Sub(position).Normalize()
	right := forward.Cross(up)
	if right.Length() < 1e-9 {
		return nil, ErrDegenerateCamera
	}
	right = right.Normalize()

	halfW := viewportW / 2 * scale
	halfH := viewportH / 2 * scale

	return &Camera{
		Position: position,
		Target:   target,
		Up:       up,
		Left:     -halfW,
		Right:    halfW,
		Bottom:   -halfH,
		Top:      halfH,
		Near:     cameraNear,
		Far:      cameraFar,
		forward:  forward,
		right:    right,
		cameraUp: right.Cross(forward),
	}, nil
}

// Forward returns the shared primary ray direction.
func (c *Camera) Forward() math.Vec3 {
	return c.forward
}

// PixelRay maps an image pixel to its world-space ray. The pixel selects an
// offset on the camera plane; the direction is always the forward vector.
func (c *Camera) PixelRay(px, py, imgW, imgH int) math.Ray {
	u := float64(px) / float64(imgW)
	v := float64(py) / float64(imgH)

	x := c.Left + u*(c.Right-c.Left)
	y := c.Bottom + v*(c.Top-c.Bottom)

	origin := c.Position.Add(c.right.Scale(x)).Add(c.cameraUp.Scale(y))
	return math.Ray{Origin: origin, Direction: c.forward}
}
