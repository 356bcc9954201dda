package models

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

// Load loads a mesh by file extension: .obj, .glb or .gltf. glTF files may
// also return an embedded texture.
func Load(path string) (*Mesh, image.Image, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		m, err := LoadOBJ(path)
		return m, nil, err
	case ".glb", ".gltf":
		return LoadGLB(path)
	default:
		return nil, nil, fmt.Errorf("%w: %q (use .obj, .glb or .gltf)", ErrUnsupportedFormat, ext)
	}
}
