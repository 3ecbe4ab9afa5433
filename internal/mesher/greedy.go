package mesher

import (
	"voxelforge/internal/catalog"
	"voxelforge/internal/voxel"
)

// GenerateGreedyMesh is the alternate meshing strategy selected by the
// greedy-meshing configuration flag. It performs 2D greedy merging of
// coplanar faces per direction, restricted to the chunk's own bounds.
// Only faces of the same block type merge, so each merged quad still maps
// to a single atlas rectangle (stretched across the quad).
func GenerateGreedyMesh(key voxel.ChunkKey, chunkSize int, vm voxel.VoxelMap, blocks *catalog.BlockCatalog, atlas *catalog.AtlasTable) voxel.MeshBuffers {
	var buf voxel.MeshBuffers
	for i := range voxel.Faces {
		greedyDirection(&buf, &voxel.Faces[i], key, chunkSize, vm, blocks, atlas)
	}
	return buf
}

// maskID returns block id + 1 when the voxel at (wx,wy,wz) has a visible
// face in the given direction, 0 otherwise. Zero doubles as the empty mask
// value so merging never crosses block-type boundaries.
func maskID(vm voxel.VoxelMap, blocks *catalog.BlockCatalog, atlas *catalog.AtlasTable, wx, wy, wz int, fd *voxel.FaceDescriptor) int {
	pos := voxel.VoxelPos{X: wx, Y: wy, Z: wz}
	b, ok := vm[pos]
	if !ok {
		return 0
	}
	if _, ok := blocks.Lookup(b.ID); !ok {
		return 0
	}
	if _, occupied := vm[pos.Add(fd.Offset)]; occupied {
		return 0
	}
	if _, ok := atlas.Lookup(b.ID, fd.Side); !ok {
		return 0
	}
	return b.ID + 1
}

// greedyDirection performs 2D greedy meshing for one face direction: build
// a UxV mask per layer along the normal axis, then merge maximal equal-id
// rectangles.
func greedyDirection(buf *voxel.MeshBuffers, fd *voxel.FaceDescriptor, key voxel.ChunkKey, s int, vm voxel.VoxelMap, blocks *catalog.BlockCatalog, atlas *catalog.AtlasTable) {
	baseX := key.X * s
	baseY := key.Y * s
	baseZ := key.Z * s

	nx, ny, nz := fd.Offset.X, fd.Offset.Y, fd.Offset.Z

	if nx != 0 { // plane is Y-Z, layers along X
		for x := 0; x < s; x++ {
			mask := make([]int, s*s)
			for y := 0; y < s; y++ {
				for z := 0; z < s; z++ {
					mask[y*s+z] = maskID(vm, blocks, atlas, baseX+x, baseY+y, baseZ+z, fd)
				}
			}
			fx := float32(baseX + x)
			if nx > 0 {
				fx = float32(baseX + x + 1)
			}
			mergeMask(mask, s, s, func(u0, v0, w, h, id int) {
				fy0 := float32(baseY + u0)
				fz0 := float32(baseZ + v0)
				fy1 := float32(baseY + u0 + h)
				fz1 := float32(baseZ + v0 + w)
				uv, _ := atlas.Lookup(id-1, fd.Side)
				if nx > 0 { // +X
					emitGreedyQuad(buf, fd, uv,
						fx, fy0, fz0,
						fx, fy0, fz1,
						fx, fy1, fz1,
						fx, fy1, fz0,
					)
				} else { // -X
					emitGreedyQuad(buf, fd, uv,
						fx, fy0, fz0,
						fx, fy1, fz0,
						fx, fy1, fz1,
						fx, fy0, fz1,
					)
				}
			})
		}
		return
	}

	if ny != 0 { // plane is X-Z, layers along Y
		for y := 0; y < s; y++ {
			mask := make([]int, s*s)
			for x := 0; x < s; x++ {
				for z := 0; z < s; z++ {
					mask[x*s+z] = maskID(vm, blocks, atlas, baseX+x, baseY+y, baseZ+z, fd)
				}
			}
			fy := float32(baseY + y)
			if ny > 0 {
				fy = float32(baseY + y + 1)
			}
			mergeMask(mask, s, s, func(u0, v0, w, h, id int) {
				fx0 := float32(baseX + u0)
				fz0 := float32(baseZ + v0)
				fx1 := float32(baseX + u0 + h)
				fz1 := float32(baseZ + v0 + w)
				uv, _ := atlas.Lookup(id-1, fd.Side)
				if ny > 0 { // +Y (top)
					emitGreedyQuad(buf, fd, uv,
						fx0, fy, fz0,
						fx1, fy, fz0,
						fx1, fy, fz1,
						fx0, fy, fz1,
					)
				} else { // -Y (bottom)
					emitGreedyQuad(buf, fd, uv,
						fx0, fy, fz0,
						fx0, fy, fz1,
						fx1, fy, fz1,
						fx1, fy, fz0,
					)
				}
			})
		}
		return
	}

	// plane is X-Y, layers along Z
	for z := 0; z < s; z++ {
		mask := make([]int, s*s)
		for x := 0; x < s; x++ {
			for y := 0; y < s; y++ {
				mask[x*s+y] = maskID(vm, blocks, atlas, baseX+x, baseY+y, baseZ+z, fd)
			}
		}
		fz := float32(baseZ + z)
		if nz > 0 {
			fz = float32(baseZ + z + 1)
		}
		mergeMask(mask, s, s, func(u0, v0, w, h, id int) {
			fx0 := float32(baseX + u0)
			fy0 := float32(baseY + v0)
			fx1 := float32(baseX + u0 + h)
			fy1 := float32(baseY + v0 + w)
			uv, _ := atlas.Lookup(id-1, fd.Side)
			if nz > 0 { // +Z
				emitGreedyQuad(buf, fd, uv,
					fx0, fy0, fz,
					fx1, fy0, fz,
					fx1, fy1, fz,
					fx0, fy1, fz,
				)
			} else { // -Z
				emitGreedyQuad(buf, fd, uv,
					fx1, fy0, fz,
					fx0, fy0, fz,
					fx0, fy1, fz,
					fx1, fy1, fz,
				)
			}
		})
	}
}

// mergeMask greedily merges maximal rectangles of equal non-zero ids in a
// rows×cols mask (index u*cols+v) and reports each as (u0, v0, width,
// height, id), zeroing merged cells.
func mergeMask(mask []int, rows, cols int, emit func(u0, v0, w, h, id int)) {
	i := 0
	for i < rows*cols {
		id := mask[i]
		if id == 0 {
			i++
			continue
		}
		u0 := i / cols
		v0 := i % cols
		w := 1
		for v1 := v0 + 1; v1 < cols && mask[u0*cols+v1] == id; v1++ {
			w++
		}
		h := 1
	outer:
		for u1 := u0 + 1; u1 < rows; u1++ {
			for v1 := v0; v1 < v0+w; v1++ {
				if mask[u1*cols+v1] != id {
					break outer
				}
			}
			h++
		}
		emit(u0, v0, w, h, id)
		for uu := u0; uu < u0+h; uu++ {
			for vv := v0; vv < v0+w; vv++ {
				mask[uu*cols+vv] = 0
			}
		}
	}
}

// emitGreedyQuad appends one merged quad. Corner order per direction keeps
// the outward winding; UVs follow the same left-bottom-first corner order
// as the naive mesher, stretched over the merged area.
func emitGreedyQuad(buf *voxel.MeshBuffers, fd *voxel.FaceDescriptor, uv catalog.UVRect,
	x0, y0, z0, x1, y1, z1, x2, y2, z2, x3, y3, z3 float32) {

	base := uint32(buf.VertexCount())
	buf.Positions = append(buf.Positions,
		x0, y0, z0,
		x1, y1, z1,
		x2, y2, z2,
		x3, y3, z3,
	)
	for i := 0; i < 4; i++ {
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
