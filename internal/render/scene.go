// Package render implements the offline multi-view preview renderer:
// orthographic ray casting over a triangle soup with Phong-style lighting,
// atmospheric fog and outline detection, composited into a 2x2 image grid.
package render

import (
	"github.com/Faultbox/meshview/pkg/formats"
	"github.com/Faultbox/meshview/pkg/math"
)

// Material describes the uniform surface response applied to every hit.
// It lives on the Scene rather than in the intersection routine so that
// per-mesh materials can be introduced without touching the ray casting.
type Material struct {
	Color   math.Vec3
	Ambient float64
	Diffuse float64
}

// Scene is the merged triangle sequence plus static lighting state for one
// render. It is immutable once built.
type Scene struct {
	Triangles []formats.Triangle

	LightPos   math.Vec3
	LightColor math.Vec3
	Ambient    math.Vec3
	Background math.Vec3
	FogColor   math.Vec3
	FogDensity float64
	Material   Material

	boundsMin math.Vec3
	boundsMax math.Vec3
}

// NewScene concatenates the meshes into one scene. Meshes are appended in
// order, never merged or deduplicated. Lighting is derived from the overall
// bounding box so renders look the same regardless of model size; an empty
// mesh list falls back to a unit cube centered at the origin.
func NewScene(meshes []*formats.Mesh) *Scene {
	s := &Scene{}
	for _, m := range meshes {
		s.Triangles = append(s.Triangles, m.Triangles...)
	}
	s.computeBounds()

	center := s.Center()
	extent := s.MaxExtent()

	s.LightPos = center.Add(math.Vec3{X: 1.5, Y: -2, Z: 3}.Scale(extent))
	s.LightColor = math.Vec3{X: 1, Y: 1, Z: 1}
	s.Ambient = math.Vec3{X: 1, Y: 1, Z: 1}
	s.Background = math.Vec3{X: 0.92, Y: 0.92, Z: 0.95}
	s.FogColor = math.Vec3{X: 0.85, Y: 0.88, Z: 0.92}
	s.FogDensity = 0.06 / extent
	s.Material = Material{
		Color:   math.Vec3{X: 0.2, Y: 0.8, Z: 0.3},
		Ambient: 0.3,
		Diffuse: 0.7,
	}
	return s
}

func (s *Scene) computeBounds() {
	if len(s.Triangles) == 0 {
		s.boundsMin = math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}
		s.boundsMax = math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}
		return
	}

	min := s.Triangles[0].V0
	max := min
	for i := range s.Triangles {
		tri := &s.Triangles[i]
		for _, v := range [3]math.Vec3{tri.V0, tri.V1, tri.V2} {
			min = vecMin(min, v)
			max = vecMax(max, v)
		}
	}
	s.boundsMin, s.boundsMax = min, max
}

// Bounds returns the axis-aligned bounding box over all scene vertices.
func (s *Scene) Bounds() (min, max math.Vec3) {
	return s.boundsMin, s.boundsMax
}

// Center returns the midpoint of the scene bounding box.
func (s *Scene) Center() math.Vec3 {
	return s.boundsMin.Add(s.boundsMax).Scale(0.5)
}

// MaxExtent returns the largest bounding box dimension. A degenerate box
// (all triangles at one point) reports 1 so cameras stay usable.
func (s *Scene) MaxExtent() float64 {
	d := s.boundsMax.Sub(s.boundsMin)
	extent := d.X
	if d.Y > extent {
		extent = d.Y
	}
	if d.Z > extent {
		extent = d.Z
	}
	if extent == 0 {
		return 1
	}
	return extent
}

func vecMin(a, b math.Vec3) math.Vec3 {
	if b.X < a.X {
		a.X = b.X
	}
	if b.Y < a.Y {
		a.Y = b.Y
	}
	if b.Z < a.Z {
		a.Z = b.Z
	}
	return a
}

func vecMax(a, b math.Vec3) math.Vec3 {
	if b.X > a.X {
		a.X = b.X
	}
	if b.Y > a.Y {
		a.Y = b.Y
	}
	if b.Z > a.Z {
		a.Z = b.Z
	}
	return a
}
