package formats

import (
	"encoding/binary"
	"errors"
	gomath "math"
	"strings"
	"testing"

	"github.com/Faultbox/meshview/pkg/math"
)

// makeTriangle builds a deterministic triangle from a seed.
func makeTriangle(seed int) Triangle {
	s := float64(seed)
	return Triangle{
		V0:     math.Vec3{X: s, Y: s + 0.25, Z: s + 0.5},
		V1:     math.Vec3{X: s + 1, Y: s, Z: s - 0.5},
		V2:     math.Vec3{X: s - 1, Y: s + 2, Z: s},
		Normal: math.Vec3{X: 0, Y: 0, Z: 1},
	}
}

func vecClose(a, b math.Vec3, tol float64) bool {
	return gomath.Abs(a.X-b.X) <= tol &&
		gomath.Abs(a.Y-b.Y) <= tol &&
		gomath.Abs(a.Z-b.Z) <= tol
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	// float32 narrowing bounds the error for the coordinate magnitudes used
	const tol = 1e-4

	for _, count := range []int{0, 1, 2, 12, 37} {
		mesh := &Mesh{}
		for i := 0; i < count; i++ {
			mesh.Triangles = append(mesh.Triangles, makeTriangle(i))
		}

		decoded, err := ParseSTL(EncodeSTL(mesh))
		if err != nil {
			t.Fatalf("count=%d: ParseSTL failed: %v", count, err)
		}
		if len(decoded.Triangles) != count {
			t.Fatalf("count=%d: got %d triangles", count, len(decoded.Triangles))
		}
		for i := range decoded.Triangles {
			got, want := decoded.Triangles[i], mesh.Triangles[i]
			if !vecClose(got.V0, want.V0, tol) || !vecClose(got.V1, want.V1, tol) ||
				!vecClose(got.V2, want.V2, tol) || !vecClose(got.Normal, want.Normal, tol) {
				t.Errorf("count=%d: triangle %d = %+v, want %+v", count, i, got, want)
			}
		}
	}
}

func TestParseSTL_BinaryTruncated(t *testing.T) {
	full := EncodeSTL(&Mesh{Triangles: []Triangle{makeTriangle(0), makeTriangle(1)}})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"header only", full[:80]},
		{"count cut short", full[:82]},
		{"record cut short", full[:len(full)-7]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSTL(tt.data)
			if !errors.Is(err, ErrTruncatedSTL) {
				t.Errorf("got error %v, want ErrTruncatedSTL", err)
			}
		})
	}
}

func TestParseSTL_BinaryCountExceedsData(t *testing.T) {
	data := EncodeSTL(&Mesh{Triangles: []Triangle{makeTriangle(0)}})
	binary.LittleEndian.PutUint32(data[80:], 1000)

	_, err := ParseSTL(data)
	if !errors.Is(err, ErrTruncatedSTL) {
		t.Errorf("got error %v, want ErrTruncatedSTL", err)
	}
}

const textCube = `solid square
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 1 0
  endloop
endfacet
facet normal 0 0 1
  outer loop
    vertex 1 0 0
    vertex 1 1 0
    vertex 0 1 0
  endloop
endfacet
endsolid square
`

func TestParseSTL_Text(t *testing.T) {
	mesh, err := ParseSTL([]byte(textCube))
	if err != nil {
		t.Fatalf("ParseSTL failed: %v", err)
	}
	if len(mesh.Triangles) != 2 {
		t.Fatalf("got %d triangles, want 2", len(mesh.Triangles))
	}

	want := Triangle{
		Normal: math.Vec3{Z: 1},
		V0:     math.Vec3{},
		V1:     math.Vec3{X: 1},
		V2:     math.Vec3{Y: 1},
	}
	if mesh.Triangles[0] != want {
		t.Errorf("triangle 0 = %+v, want %+v", mesh.Triangles[0], want)
	}
}

func TestParseSTL_TextLineEndings(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unix", textCube},
		{"windows", strings.ReplaceAll(textCube, "\n", "\r\n")},
		{"no trailing newline", strings.TrimSuffix(textCube, "\n")},
		{"trailing blank lines", textCube + "\n\n\n"},
		{"extra whitespace", strings.ReplaceAll(textCube, " ", "  \t ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := ParseSTL([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParseSTL failed: %v", err)
			}
			if len(mesh.Triangles) != 2 {
				t.Errorf("got %d triangles, want 2", len(mesh.Triangles))
			}
		})
	}
}

func TestParseSTL_TextMalformed(t *testing.T) {
	data := strings.Replace(textCube, "vertex 1 0 0", "vertex one 0 0", 1)

	_, err := ParseSTL([]byte(data))
	if !errors.Is(err, ErrMalformedSTL) {
		t.Fatalf("got error %v, want ErrMalformedSTL", err)
	}
	// the offending line must be named (line 5 of the input)
	if !strings.Contains(err.Error(), "line 5") {
		t.Errorf("error %q does not name the offending line", err.Error())
	}
}

func TestParseSTL_TextTruncated(t *testing.T) {
	data := "solid cut\nfacet normal 0 0 1\n  outer loop\n    vertex 0 0 0\n"

	_, err := ParseSTL([]byte(data))
	if !errors.Is(err, ErrTruncatedSTL) {
		t.Errorf("got error %v, want ErrTruncatedSTL", err)
	}
}

func TestParseSTL_AutoDetect(t *testing.T) {
	bin := EncodeSTL(&Mesh{Triangles: []Triangle{makeTriangle(3)}})
	mesh, err := ParseSTL(bin)
	if err != nil {
		t.Fatalf("binary ParseSTL failed: %v", err)
	}
	if len(mesh.Triangles) != 1 {
		t.Errorf("binary: got %d triangles, want 1", len(mesh.Triangles))
	}

	mesh, err = ParseSTL([]byte(textCube))
	if err != nil {
		t.Fatalf("text ParseSTL failed: %v", err)
	}
	if len(mesh.Triangles) != 2 {
		t.Errorf("text: got %d triangles, want 2", len(mesh.Triangles))
	}
}
