package render

import (
	gomath "math"

	"github.com/Faultbox/meshview/pkg/formats"
	"github.com/Faultbox/meshview/pkg/math"
)

const (
	// outlineDepthThreshold flags a depth discontinuity between a pixel and
	// its 4-connected neighbors.
	outlineDepthThreshold = 0.1

	// outlineNormalThreshold flags a crease when neighboring normals
	// diverge past this cosine.
	outlineNormalThreshold = 0.8

	// edgeQuantum is the coordinate quantization step for silhouette edge
	// matching. Keying edges on quantized integers instead of raw floats
	// keeps vertices equal that differ only by formatting noise.
	edgeQuantum = 1e-4
)

// OutlineSample is the result of classifying one pixel.
type OutlineSample struct {
	IsOutline bool
	Depth     float64
}

// RayFunc maps pixel coordinates to the primary ray for that pixel.
type RayFunc func(px, py int) math.Ray

// DetectOutline classifies the pixel at (px, py) as silhouette or crease by
// sampling its 4-connected neighbors: a neighbor miss, a depth jump past
// outlineDepthThreshold, or a normal divergence past outlineNormalThreshold
// flags the pixel. A center miss is never an outline.
func DetectOutline(ray math.Ray, scene *Scene, px, py, w, h int, rayFor RayFunc) OutlineSample {
	center, ok := CastRay(ray, scene)
	if !ok {
		return OutlineSample{}
	}
	sample := OutlineSample{Depth: center.Distance}

	neighbors := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for _, n := range neighbors {
		nx, ny := px+n[0], py+n[1]
		if nx < 0 || ny < 0 || nx >= w || ny >= h {
			continue
		}

		neighbor, hit := CastRay(rayFor(nx, ny), scene)
		if !hit {
			// object/background boundary
			sample.IsOutline = true
			return sample
		}
		if gomath.Abs(center.Distance-neighbor.Distance) > outlineDepthThreshold {
			sample.IsOutline = true
			return sample
		}
		if center.Normal.Dot(neighbor.Normal) < outlineNormalThreshold {
			sample.IsOutline = true
			return sample
		}
	}

	return sample
}

type vertexKey [3]int64

type edgeKey [2]vertexKey

func quantizeVertex(v math.Vec3) vertexKey {
	return vertexKey{
		int64(gomath.Round(v.X / edgeQuantum)),
		int64(gomath.Round(v.Y / edgeQuantum)),
		int64(gomath.Round(v.Z / edgeQuantum)),
	}
}

func vertexKeyLess(a, b vertexKey) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// newEdgeKey builds an unordered edge key from two endpoints.
func newEdgeKey(a, b vertexKey) edgeKey {
	if vertexKeyLess(b, a) {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// DetectSilhouette flags every triangle that shares an edge with a triangle
// of opposite facing relative to viewDir. Edges are matched on quantized
// vertex coordinates; only edges shared by exactly two triangles qualify.
func DetectSilhouette(triangles []formats.Triangle, viewDir math.Vec3) []bool {
	edges := make(map[edgeKey][]int, len(triangles)*3)
	for i := range triangles {
		tri := &triangles[i]
		keys := [3]vertexKey{
			quantizeVertex(tri.V0),
			quantizeVertex(tri.V1),
			quantizeVertex(tri.V2),
		}
		for e := 0; e < 3; e++ {
			k := newEdgeKey(keys[e], keys[(e+1)%3])
			edges[k] = append(edges[k], i)
		}
	}

	facing := make([]bool, len(triangles))
	for i := range triangles {
		facing[i] = triangles[i].Normal.Dot(viewDir) < 0
	}

	result := make([]bool, len(triangles))
	for _, tris := range edges {
		if len(tris) != 2 {
			continue
		}
		a, b := tris[0], tris[1]
		if facing[a] != facing[b] {
			result[a] = true
			result[b] = true
		}
	}
	return result
}
