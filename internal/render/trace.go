package render

import (
	gomath "math"

	"github.com/Faultbox/meshview/pkg/formats"
	"github.com/Faultbox/meshview/pkg/math"
)

const (
	// intersectEpsilon rejects near-parallel rays and grazing hits in the
	// Möller–Trumbore test.
	intersectEpsilon = 1e-5

	// closeHitTolerance stops the triangle scan once a hit closer than this
	// is found. Within the tolerance the selected hit depends on triangle
	// order; accepted as a bounded approximation for preview rendering.
	closeHitTolerance = 0.001

	// grazingDirZ skips the ground-plane intersection for rays nearly
	// parallel to the plane.
	grazingDirZ = 0.001

	gridLineHalfWidth = 0.02
	gridDarkenFactor  = 0.55
)

// RayHit describes the nearest intersection found by CastRay. Hits are
// ephemeral: created per query and discarded.
type RayHit struct {
	Point    math.Vec3
	Normal   math.Vec3
	Distance float64
	Material Material
}

// CastRay finds the nearest triangle intersection along ray. Every triangle
// is scanned; a cheap directional bounding-box test rejects obvious misses
// before the full intersection runs.
func CastRay(ray math.Ray, scene *Scene) (RayHit, bool) {
	best := RayHit{Distance: gomath.Inf(1)}
	found := false

	for i := range scene.Triangles {
		tri := &scene.Triangles[i]
		if missesBounds(ray, tri) {
			continue
		}
		t, ok := intersectTriangle(ray, tri)
		if !ok || t >= best.Distance {
			continue
		}
		found = true
		best = RayHit{
			Point:    ray.At(t),
			Normal:   tri.Normal,
			Distance: t,
			Material: scene.Material,
		}
		if t < closeHitTolerance {
			break
		}
	}

	return best, found
}

// missesBounds reports whether the ray provably cannot reach the triangle's
// axis-aligned bounding box: on some axis the origin lies outside the box
// and the direction does not move toward it.
func missesBounds(ray math.Ray, tri *formats.Triangle) bool {
	o := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	d := [3]float64{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}
	v0 := [3]float64{tri.V0.X, tri.V0.Y, tri.V0.Z}
	v1 := [3]float64{tri.V1.X, tri.V1.Y, tri.V1.Z}
	v2 := [3]float64{tri.V2.X, tri.V2.Y, tri.V2.Z}

	for k := 0; k < 3; k++ {
		lo := gomath.Min(v0[k], gomath.Min(v1[k], v2[k]))
		hi := gomath.Max(v0[k], gomath.Max(v1[k], v2[k]))
		if o[k] < lo && d[k] <= 0 {
			return true
		}
		if o[k] > hi && d[k] >= 0 {
			return true
		}
	}
	return false
}

// intersectTriangle runs the Möller–Trumbore ray/triangle test and returns
// the hit distance along the ray.
func intersectTriangle(ray math.Ray, tri *formats.Triangle) (float64, bool) {
	edge1 := tri.V1.Sub(tri.V0)
	edge2 := tri.V2.Sub(tri.V0)

	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)
	if det > -intersectEpsilon && det < intersectEpsilon {
		return 0, false
	}

	f := 1.0 / det
	s := ray.Origin.Sub(tri.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	if t <= intersectEpsilon {
		return 0, false
	}
	return t, true
}

// Shade computes the surface color at a hit: ambient plus Lambertian diffuse
// toward the scene light, blended toward the fog color by exponential
// attenuation over the hit distance. No shadow rays are cast.
func Shade(hit RayHit, scene *Scene) math.Vec3 {
	ambient := hit.Material.Color.Mul(scene.Ambient).Scale(hit.Material.Ambient)

	lightDir := scene.LightPos.Sub(hit.Point).Normalize()
	ndl := hit.Normal.Dot(lightDir)
	if ndl < 0 {
		ndl = 0
	}
	diffuse := hit.Material.Color.Mul(scene.LightColor).Scale(ndl * hit.Material.Diffuse)

	combined := ambient.Add(diffuse)

	fogFactor := gomath.Exp(-scene.FogDensity * hit.Distance)
	final := combined.Scale(fogFactor).Add(scene.FogColor.Scale(1 - fogFactor))
	return final.Clamp01()
}

// BackgroundColor samples the background for a ray that hit nothing. Rays
// crossing the world z=0 plane in front of the origin pick up a darkened
// grid line when the plane point lies near an integer x or y coordinate.
func BackgroundColor(ray math.Ray, scene *Scene) math.Vec3 {
	if gomath.Abs(ray.Direction.Z) < grazingDirZ {
		return scene.Background
	}
	t := -ray.Origin.Z / ray.Direction.Z
	if t < 0 {
		return scene.Background
	}

	p := ray.At(t)
	if nearGridLine(p.X) || nearGridLine(p.Y) {
		return scene.Background.Scale(gridDarkenFactor)
	}
	return scene.Background
}

func nearGridLine(x float64) bool {
	return gomath.Abs(x-gomath.Round(x)) < gridLineHalfWidth
}
