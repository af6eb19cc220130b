// STL (stereolithography) format parser for triangle meshes.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	gomath "math"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/meshview/pkg/math"
)

// STL format errors.
var (
	ErrTruncatedSTL = errors.New("truncated STL data")
	ErrMalformedSTL = errors.New("malformed STL data")
)

const (
	stlHeaderSize = 80 // ignored binary header
	stlRecordSize = 50 // 12B normal + 36B vertices + 2B attribute
)

// Triangle is a single mesh triangle. The face normal is taken from the
// source file as authored and never recomputed; vertex winding order is
// preserved and used for facing tests.
type Triangle struct {
	V0, V1, V2 math.Vec3
	Normal     math.Vec3
}

// Mesh is an ordered triangle list decoded from one STL file. It is
// immutable after decode.
type Mesh struct {
	Triangles []Triangle
}

// ParseSTL parses STL data from a byte slice. The format is auto-detected:
// data beginning with "solid" is parsed as ASCII STL, anything else as
// binary STL.
func ParseSTL(data []byte) (*Mesh, error) {
	if len(data) >= 5 && bytes.Equal(data[:5], []byte("solid")) {
		return parseTextSTL(data)
	}
	return parseBinarySTL(data)
}

// LoadSTL reads and parses an STL file from disk.
func LoadSTL(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	mesh, err := ParseSTL(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return mesh, nil
}

func parseBinarySTL(data []byte) (*Mesh, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, fmt.Errorf("binary STL header: have %d bytes, need %d: %w",
			len(data), stlHeaderSize+4, ErrTruncatedSTL)
	}

	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	need := uint64(stlHeaderSize+4) + uint64(count)*stlRecordSize
	if uint64(len(data)) < need {
		return nil, fmt.Errorf("binary STL: %d triangles declared, need %d bytes, have %d: %w",
			count, need, len(data), ErrTruncatedSTL)
	}

	mesh := &Mesh{Triangles: make([]Triangle, 0, count)}
	offset := stlHeaderSize + 4
	for i := uint32(0); i < count; i++ {
		rec := data[offset : offset+stlRecordSize]
		mesh.Triangles = append(mesh.Triangles, Triangle{
			Normal: readVec3f32(rec[0:]),
			V0:     readVec3f32(rec[12:]),
			V1:     readVec3f32(rec[24:]),
			V2:     readVec3f32(rec[36:]),
		})
		// 2 trailing attribute bytes are ignored
		offset += stlRecordSize
	}

	return mesh, nil
}

// readVec3f32 decodes three little-endian float32 values.
func readVec3f32(b []byte) math.Vec3 {
	return math.Vec3{
		X: float64(gomath.Float32frombits(binary.LittleEndian.Uint32(b[0:]))),
		Y: float64(gomath.Float32frombits(binary.LittleEndian.Uint32(b[4:]))),
		Z: float64(gomath.Float32frombits(binary.LittleEndian.Uint32(b[8:]))),
	}
}

func parseTextSTL(data []byte) (*Mesh, error) {
	lines := strings.Split(string(data), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}

	mesh := &Mesh{}
	i := 0
	for i < len(lines) {
		fields := strings.Fields(lines[i])
		if len(fields) < 2 || fields[0] != "facet" || fields[1] != "normal" {
			// solid/endsolid lines, blank lines, and anything between
			// records are skipped without validation.
			i++
			continue
		}

		tri, next, err := parseTextFacet(lines, i)
		if err != nil {
			return nil, err
		}
		mesh.Triangles = append(mesh.Triangles, tri)
		i = next
	}

	return mesh, nil
}

// parseTextFacet parses one facet record starting at the "facet normal"
// line. It returns the triangle and the index of the line following the
// record. Record layout: facet normal / outer loop / 3x vertex / endloop /
// endfacet. The loop open/close lines are skipped without validation.
func parseTextFacet(lines []string, start int) (Triangle, int, error) {
	var tri Triangle

	// facet normal + outer loop + 3 vertices + endloop + endfacet
	if start+6 >= len(lines) {
		return tri, 0, fmt.Errorf("line %d: unexpected end of file in facet: %w",
			start+1, ErrTruncatedSTL)
	}

	normal, err := parseFloats(lines[start], start, 2)
	if err != nil {
		return tri, 0, err
	}
	tri.Normal = normal

	// start+1 is the "outer loop" line, skipped.
	verts := [3]*math.Vec3{&tri.V0, &tri.V1, &tri.V2}
	for v := 0; v < 3; v++ {
		lineNo := start + 2 + v
		vert, err := parseFloats(lines[lineNo], lineNo, 1)
		if err != nil {
			return tri, 0, err
		}
		*verts[v] = vert
	}

	// start+5 is "endloop", start+6 is "endfacet"; both skipped.
	return tri, start + 7, nil
}

// parseFloats parses three floating literals from line, skipping the first
// skip whitespace-separated fields. Arbitrary whitespace runs separate
// fields. lineIdx is zero-based; errors report one-based line numbers.
func parseFloats(line string, lineIdx, skip int) (math.Vec3, error) {
	fields := strings.Fields(line)
	if len(fields) != skip+3 {
		return math.Vec3{}, fmt.Errorf("line %d: expected 3 values, got %q: %w",
			lineIdx+1, line, ErrMalformedSTL)
	}

	var out [3]float64
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[skip+i], 64)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("line %d: bad float literal %q: %w",
				lineIdx+1, fields[skip+i], ErrMalformedSTL)
		}
		out[i] = f
	}
	return math.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

// EncodeSTL serializes a mesh to the binary STL format. Coordinates are
// narrowed to float32 per the format; the 80-byte header and per-triangle
// attribute fields are written as zeros.
func EncodeSTL(mesh *Mesh) []byte {
	out := make([]byte, stlHeaderSize+4+len(mesh.Triangles)*stlRecordSize)
	binary.LittleEndian.PutUint32(out[stlHeaderSize:], uint32(len(mesh.Triangles)))

	offset := stlHeaderSize + 4
	for i := range mesh.Triangles {
		tri := &mesh.Triangles[i]
		writeVec3f32(out[offset:], tri.Normal)
		writeVec3f32(out[offset+12:], tri.V0)
		writeVec3f32(out[offset+24:], tri.V1)
		writeVec3f32(out[offset+36:], tri.V2)
		offset += stlRecordSize
	}
	return out
}

func writeVec3f32(b []byte, v math.Vec3) {
	binary.LittleEndian.PutUint32(b[0:], gomath.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:], gomath.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:], gomath.Float32bits(float32(v.Z)))
}
