package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// ParseOBJ reads v, vt, vn and f records. Every face must have exactly
// three v/vt/vn groups. Other records are ignored. The mesh is validated
// before it is returned.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	mesh := NewMesh("")
	sc := bufio.NewScanner(r)
	line := 0

	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var p math3d.Vec3
			p, err = parseVec3(fields[1:])
			mesh.Positions = append(mesh.Positions, p)
		case "vn":
			var n math3d.Vec3
			n, err = parseVec3(fields[1:])
			mesh.Normals = append(mesh.Normals, n)
		case "vt":
			var uv math3d.Vec2
			uv, err = parseVec2(fields[1:])
			mesh.TexCoords = append(mesh.TexCoords, uv)
		case "f":
			var f Face
			f, err = parseFace(fields[1:])
			mesh.Faces = append(mesh.Faces, f)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// ParseCorner parses one "v/vt/vn" face group of 1-based indices into a
// 0-based Corner.
func ParseCorner(s string) (Corner, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Corner{}, fmt.Errorf("%w: face group %q: want v/vt/vn", ErrMalformedRecord, s)
	}

	var idx [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Corner{}, fmt.Errorf("%w: face group %q: %v", ErrMalformedRecord, s, err)
		}
		if n < 1 {
			return Corner{}, fmt.Errorf("%w: face group %q: index %d < 1", ErrMalformedRecord, s, n)
		}
		idx[i] = n - 1
	}
	return Corner{Position: idx[0], TexCoord: idx[1], Normal: idx[2]}, nil
}

func parseFace(groups []string) (Face, error) {
	var f Face
	if len(groups) != 3 {
		return f, fmt.Errorf("%w: face has %d groups, want 3", ErrMalformedRecord, len(groups))
	}
	for i, g := range groups {
		c, err := ParseCorner(g)
		if err != nil {
			return f, err
		}
		f[i] = c
	}
	return f, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("%w: want %d values, have %d", ErrMalformedRecord, n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	f, err := parseFloats(fields, 3)
	if err != nil {
		return math3d.Vec3{}, err
	}
	return math3d.V3(f[0], f[1], f[2]), nil
}

// parseVec2 reads u and v; an optional w is ignored.
func parseVec2(fields []string) (math3d.Vec2, error) {
	f, err := parseFloats(fields, 2)
	if err != nil {
		return math3d.Vec2{}, err
	}
	return math3d.V2(f[0], f[1]), nil
}
