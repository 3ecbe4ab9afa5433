// Package mesher turns a chunk's sparse voxel map into renderable vertex
// buffers. A face is emitted only when the neighboring voxel position is
// absent from the supplied map; any occupant suppresses the face regardless
// of its material. Voxels outside the chunk's own bounds (the halo shell a
// job map may carry) occlude faces but are never meshed themselves, so each
// voxel's geometry lives in exactly one chunk's mesh. Unknown block ids and
// unresolved UV lookups are skipped silently; bad data costs faces, never a
// failed job.
package mesher

import (
	"voxelforge/internal/catalog"
	"voxelforge/internal/config"
	"voxelforge/internal/voxel"
)

// Generate runs whichever meshing strategy the configuration selects.
func Generate(key voxel.ChunkKey, vm voxel.VoxelMap, blocks *catalog.BlockCatalog, atlas *catalog.AtlasTable) voxel.MeshBuffers {
	if config.GetGreedyMeshing() {
		return GenerateGreedyMesh(key, config.GetChunkSize(), vm, blocks, atlas)
	}
	return GenerateMesh(key, config.GetChunkSize(), vm, blocks, atlas)
}

// GenerateMesh is the naive per-face quad mesher: one quad per visible voxel
// face, no merging. Only voxels inside the chunk are meshed; anything else
// in the map acts purely as an occluder. An empty or malformed map yields
// empty buffers.
func GenerateMesh(key voxel.ChunkKey, chunkSize int, vm voxel.VoxelMap, blocks *catalog.BlockCatalog, atlas *catalog.AtlasTable) voxel.MeshBuffers {
	var buf voxel.MeshBuffers
	for _, pos := range vm.SortedPositions() {
		if pos.ChunkOf(chunkSize) != key {
			continue // halo voxel owned by a neighbor chunk
		}
		b := vm[pos]
		if _, ok := blocks.Lookup(b.ID); !ok {
			continue // unknown block type, skip the voxel
		}
		for i := range voxel.Faces {
			fd := &voxel.Faces[i]
			if _, occupied := vm[pos.Add(fd.Offset)]; occupied {
				continue
			}
			uv, ok := atlas.Lookup(b.ID, fd.Side)
			if !ok {
				continue
			}
			appendFace(&buf, pos, fd, uv)
		}
	}
	return buf
}

// appendFace emits one quad: 4 corner positions in absolute voxel space,
// the face normal repeated, the UV rectangle's corners, and two triangles
// indexed off the running vertex count.
func appendFace(buf *voxel.MeshBuffers, pos voxel.VoxelPos, fd *voxel.FaceDescriptor, uv catalog.UVRect) {
	base := uint32(buf.VertexCount())

	px, py, pz := float32(pos.X), float32(pos.Y), float32(pos.Z)
	for _, c := range fd.Corners {
		buf.Positions = append(buf.Positions, px+c.X(), py+c.Y(), pz+c.Z())
		buf.Normals = append(buf.Normals, fd.Normal.X(), fd.Normal.Y(), fd.Normal.Z())
	}
	buf.UVs = append(buf.UVs,
		uv.Left, uv.Bottom,
		uv.Right, uv.Bottom,
		uv.Right, uv.Top,
		uv.Left, uv.Top,
	)
	buf.Indices = append(buf.Indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
}
