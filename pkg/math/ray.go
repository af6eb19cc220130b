package math

// Ray is a half-line with an origin and a direction. The direction is not
// guaranteed to be unit length; callers normalize where required.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}
