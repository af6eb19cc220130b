package render

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/meshview/pkg/formats"
	"github.com/Faultbox/meshview/pkg/math"
)

// cubeMesh builds a 12-triangle unit cube centered at the origin with
// outward authored normals. Faces in order: top, bottom, front, back,
// right, left (two triangles each).
func cubeMesh() *formats.Mesh {
	const c = 0.5
	a := math.Vec3{X: -c, Y: -c, Z: c}
	b := math.Vec3{X: c, Y: -c, Z: c}
	cc := math.Vec3{X: c, Y: c, Z: c}
	d := math.Vec3{X: -c, Y: c, Z: c}
	e := math.Vec3{X: -c, Y: -c, Z: -c}
	f := math.Vec3{X: c, Y: -c, Z: -c}
	g := math.Vec3{X: c, Y: c, Z: -c}
	h := math.Vec3{X: -c, Y: c, Z: -c}

	face := func(n, p0, p1, p2, p3 math.Vec3) []formats.Triangle {
		return []formats.Triangle{
			{V0: p0, V1: p1, V2: p2, Normal: n},
			{V0: p0, V1: p2, V2: p3, Normal: n},
		}
	}

	var tris []formats.Triangle
	tris = append(tris, face(math.Vec3{Z: 1}, a, b, cc, d)...)
	tris = append(tris, face(math.Vec3{Z: -1}, e, h, g, f)...)
	tris = append(tris, face(math.Vec3{Y: -1}, e, f, b, a)...)
	tris = append(tris, face(math.Vec3{Y: 1}, g, h, d, cc)...)
	tris = append(tris, face(math.Vec3{X: 1}, f, g, cc, b)...)
	tris = append(tris, face(math.Vec3{X: -1}, h, e, a, d)...)
	return &formats.Mesh{Triangles: tris}
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("decoding %s: %v", path, err)
	}
	return img
}

func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func isBlack(img image.Image, x, y int) bool {
	r, g, b := rgbAt(img, x, y)
	return r == 0 && g == 0 && b == 0
}

func TestRender_CubeEndToEnd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cube.png")

	err := Render([]*formats.Mesh{cubeMesh()}, Options{
		OutputPath: out,
		TileWidth:  40,
		TileHeight: 30,
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	img := decodePNG(t, out)
	bounds := img.Bounds()
	if bounds.Dx() != 80 || bounds.Dy() != 60 {
		t.Fatalf("image is %dx%d, want 80x60", bounds.Dx(), bounds.Dy())
	}

	// vertical separator band centered at x=40, at least 8px wide
	for x := 40 - separatorHalfWidth; x < 40+separatorHalfWidth; x++ {
		if !isBlack(img, x, 15) || !isBlack(img, x, 45) {
			t.Errorf("vertical separator missing at x=%d", x)
		}
	}
	// horizontal separator band centered at y=30
	for y := 30 - separatorHalfWidth; y < 30+separatorHalfWidth; y++ {
		if !isBlack(img, 15, y) || !isBlack(img, 60, y) {
			t.Errorf("horizontal separator missing at y=%d", y)
		}
	}
	// outer border
	for _, p := range [][2]int{{0, 0}, {79, 0}, {0, 59}, {79, 59}, {50, 0}, {0, 40}} {
		if !isBlack(img, p[0], p[1]) {
			t.Errorf("outer border missing at %v", p)
		}
	}

	// every quadrant shows the green-shaded cube
	quadrants := [][4]int{
		{2, 2, 36, 26},   // top view
		{44, 2, 78, 26},  // three-quarter view
		{2, 34, 36, 56},  // side view
		{44, 34, 78, 56}, // front view
	}
	for qi, q := range quadrants {
		found := false
		for y := q[1]; y < q[3] && !found; y++ {
			for x := q[0]; x < q[2] && !found; x++ {
				r, g, b := rgbAt(img, x, y)
				if int(g) > int(r)+30 && int(g) > int(b)+30 {
					found = true
				}
			}
		}
		if !found {
			t.Errorf("quadrant %d has no green cube pixels", qi)
		}
	}

	// the cube's silhouette must show black outline pixels somewhere
	// outside the separator bands
	foundOutline := false
	for y := 2; y < 26 && !foundOutline; y++ {
		for x := 2; x < 36 && !foundOutline; x++ {
			if isBlack(img, x, y) {
				foundOutline = true
			}
		}
	}
	if !foundOutline {
		t.Error("top view shows no outline pixels")
	}
}

func TestRender_EmptyMeshList(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.png")

	err := Render(nil, Options{OutputPath: out, TileWidth: 20, TileHeight: 20})
	if err != nil {
		t.Fatalf("Render of empty mesh list failed: %v", err)
	}

	img := decodePNG(t, out)
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 40 {
		t.Fatalf("image is %dx%d, want 40x40", img.Bounds().Dx(), img.Bounds().Dy())
	}

	// quadrant interiors hold background (possibly grid-darkened), never
	// pure black and never green
	for _, p := range [][2]int{{10, 10}, {30, 10}, {10, 30}, {30, 30}} {
		r, g, b := rgbAt(img, p[0], p[1])
		if r == 0 && g == 0 && b == 0 {
			t.Errorf("pixel %v is black, want background", p)
		}
		if int(g) > int(r)+30 {
			t.Errorf("pixel %v looks like a surface hit in an empty scene", p)
		}
	}
}

func TestRender_BadTileSize(t *testing.T) {
	err := Render(nil, Options{OutputPath: "x.png", TileWidth: 0, TileHeight: 10})
	if err == nil {
		t.Fatal("expected error for zero tile width")
	}
}

func TestRender_UnwritableOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing-dir", "cube.png")

	err := Render([]*formats.Mesh{cubeMesh()}, Options{
		OutputPath: out,
		TileWidth:  10,
		TileHeight: 10,
	})
	if err == nil {
		t.Fatal("expected error for unwritable output path")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("failed render left a file at the output path")
	}
}

func TestRender_BMPOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cube.bmp")

	err := Render([]*formats.Mesh{cubeMesh()}, Options{
		OutputPath: out,
		TileWidth:  16,
		TileHeight: 16,
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	file, err := os.Open(out)
	if err != nil {
		t.Fatalf("opening %s: %v", out, err)
	}
	defer file.Close()
	img, err := bmp.Decode(file)
	if err != nil {
		t.Fatalf("decoding BMP: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
		t.Errorf("BMP is %dx%d, want 32x32", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestRender_StrideBlocksFill(t *testing.T) {
	out := filepath.Join(t.TempDir(), "stride.png")

	err := Render([]*formats.Mesh{cubeMesh()}, Options{
		OutputPath:   out,
		TileWidth:    21, // not a multiple of the stride
		TileHeight:   21,
		SampleStride: 4,
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	img := decodePNG(t, out)
	if img.Bounds().Dx() != 42 || img.Bounds().Dy() != 42 {
		t.Fatalf("image is %dx%d, want 42x42", img.Bounds().Dx(), img.Bounds().Dy())
	}
}
