package glb

import (
	"github.com/qmuntal/gltf"

	"github.com/EngoDev/voxelify/pkg/mesh"
)

// Accessor and buffer view indices within the document.
const (
	accessorPosition = iota
	accessorNormal
	accessorColor
	accessorIndices
)

const (
	viewVertices = iota
	viewIndices
)

// buildDocument describes the BIN chunk: one scene, one node, one mesh with a
// single indexed triangle primitive. An empty mesh has no buffer and no
// buffer views, since glTF forbids zero byte lengths; its accessors keep a
// zero count and reference no view.
func buildDocument(buf *mesh.Buffer, l layout, opts Options) *gltf.Document {
	position := &gltf.Accessor{
		BufferView:    gltf.Index(viewVertices),
		ByteOffset:    PositionOffset,
		ComponentType: gltf.ComponentFloat,
		Count:         uint32(l.vertexCount),
		Type:          gltf.AccessorVec3,
	}
	normal := &gltf.Accessor{
		BufferView:    gltf.Index(viewVertices),
		ByteOffset:    NormalOffset,
		ComponentType: gltf.ComponentFloat,
		Count:         uint32(l.vertexCount),
		Type:          gltf.AccessorVec3,
	}
	colors := &gltf.Accessor{
		BufferView:    gltf.Index(viewVertices),
		ByteOffset:    ColorOffset,
		ComponentType: gltf.ComponentUbyte,
		Normalized:    true,
		Count:         uint32(l.vertexCount),
		Type:          gltf.AccessorVec4,
	}
	indices := &gltf.Accessor{
		BufferView:    gltf.Index(viewIndices),
		ComponentType: l.indexType,
		Count:         uint32(l.indexCount),
		Type:          gltf.AccessorScalar,
	}

	doc := &gltf.Document{
		Asset: gltf.Asset{
			Generator: opts.Generator,
			Version:   "2.0",
		},
		Scene:  gltf.Index(0),
		Scenes: []*gltf.Scene{{Nodes: []uint32{0}}},
		Nodes:  []*gltf.Node{{Name: opts.Name, Mesh: gltf.Index(0)}},
		Meshes: []*gltf.Mesh{{
			Name: opts.Name,
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]uint32{
					gltf.POSITION: accessorPosition,
					gltf.NORMAL:   accessorNormal,
					gltf.COLOR_0:  accessorColor,
				},
				Indices: gltf.Index(accessorIndices),
				Mode:    gltf.PrimitiveTriangles,
			}},
		}},
		Accessors: []*gltf.Accessor{
			accessorPosition: position,
			accessorNormal:   normal,
			accessorColor:    colors,
			accessorIndices:  indices,
		},
	}

	if l.empty() {
		for _, a := range doc.Accessors {
			a.BufferView = nil
			a.ByteOffset = 0
		}
		return doc
	}

	lo, hi := buf.Bounds.Min.Array(), buf.Bounds.Max.Array()
	position.Min = lo[:]
	position.Max = hi[:]
	normal.Min = []float32{-1, -1, -1}
	normal.Max = []float32{1, 1, 1}

	doc.Buffers = []*gltf.Buffer{{ByteLength: uint32(l.binLength)}}
	doc.BufferViews = []*gltf.BufferView{
		viewVertices: {
			Buffer:     0,
			ByteLength: uint32(l.vertexBytes),
			ByteStride: VertexStride,
			Target:     gltf.TargetArrayBuffer,
		},
		viewIndices: {
			Buffer:     0,
			ByteOffset: uint32(l.vertexBytes),
			ByteLength: uint32(l.indexBytes),
			Target:     gltf.TargetElementArrayBuffer,
		},
	}
	return doc
}
