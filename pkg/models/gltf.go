package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/tinyrender/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// SmoothNormals recomputes averaged normals for the whole mesh when any
	// primitive carries none.
	SmoothNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{SmoothNormals: true}
}

// LoadGLB loads a GLTF or GLB file and returns the mesh plus the first
// texture it references. The texture is nil if there is none.
func LoadGLB(path string) (*Mesh, image.Image, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads every triangle primitive of every mesh in the document into
// one Mesh. Each glTF vertex index addresses position, normal and texture
// coordinate alike.
func (l *GLTFLoader) Load(path string) (*Mesh, image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	missingNormals := false
	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			ok, err := l.addPrimitive(doc, prim, mesh)
			if err != nil {
				return nil, nil, fmt.Errorf("mesh %q: %w", m.Name, err)
			}
			missingNormals = missingNormals || !ok
		}
	}

	// Indices come straight from the file; check them before anything
	// dereferences a face.
	if err := mesh.Validate(); err != nil {
		return nil, nil, err
	}
	if missingNormals && l.SmoothNormals {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()

	return mesh, firstImage(doc, filepath.Dir(path)), nil
}

// addPrimitive appends one primitive and reports whether it had normals.
func (l *GLTFLoader) addPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) (bool, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		// lines, points and strips are not drawn
		return true, nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return true, nil
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return false, fmt.Errorf("read positions: %w", err)
	}

	normals := make([][3]float32, len(positions))
	normIdx, hasNormals := prim.Attributes[gltf.NORMAL]
	if hasNormals {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil); err != nil {
			return false, fmt.Errorf("read normals: %w", err)
		}
	}

	uvs := make([][2]float32, len(positions))
	if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil); err != nil {
			return false, fmt.Errorf("read uvs: %w", err)
		}
	}
	if len(normals) != len(positions) || len(uvs) != len(positions) {
		return false, fmt.Errorf("%w: attribute counts differ (%d positions, %d normals, %d uvs)",
			ErrMalformedRecord, len(positions), len(normals), len(uvs))
	}

	base := len(mesh.Positions)
	for i, p := range positions {
		mesh.Positions = append(mesh.Positions, math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
		n := normals[i]
		mesh.Normals = append(mesh.Normals, math3d.V3(float64(n[0]), float64(n[1]), float64(n[2])))
		// glTF puts V=0 at the top of the image
		mesh.TexCoords = append(mesh.TexCoords, math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1])))
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return false, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		var f Face
		for n := range 3 {
			v := base + int(indices[i+n])
			f[n] = Corner{Position: v, TexCoord: v, Normal: v}
		}
		mesh.Faces = append(mesh.Faces, f)
	}
	return hasNormals, nil
}

// firstImage decodes the first image in the document that can be read,
// either from a buffer view or a file next to the document.
func firstImage(doc *gltf.Document, dir string) image.Image {
	for _, img := range doc.Images {
		var data []byte
		switch {
		case img.BufferView != nil:
			b, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if err != nil {
				continue
			}
			data = b
		case img.URI != "" && !strings.HasPrefix(img.URI, "data:"):
			b, err := os.ReadFile(filepath.Join(dir, img.URI))
			if err != nil {
				continue
			}
			data = b
		default:
			continue
		}

		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err == nil {
			return decoded
		}
	}
	return nil
}
