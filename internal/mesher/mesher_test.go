package mesher

import (
	"strconv"
	"testing"

	"voxelforge/internal/catalog"
	"voxelforge/internal/voxel"
)

var fullRect = catalog.UVRect{Left: 0, Right: 1, Top: 0, Bottom: 1}

func testCatalogs(ids ...int) (*catalog.BlockCatalog, *catalog.AtlasTable) {
	defs := make([]catalog.BlockDef, 0, len(ids))
	entries := make(map[string]catalog.UVRect, len(ids))
	for _, id := range ids {
		defs = append(defs, catalog.BlockDef{ID: id})
		entries[strconv.Itoa(id)] = fullRect
	}
	return catalog.NewBlockCatalog(defs), catalog.NewAtlasTable(entries)
}

// quad returns the positions (12 floats) and normal of face f.
func quad(t *testing.T, buf voxel.MeshBuffers, f int) ([]float32, [3]float32) {
	t.Helper()
	if f*12+12 > len(buf.Positions) {
		t.Fatalf("face %d out of range, %d position floats", f, len(buf.Positions))
	}
	pos := buf.Positions[f*12 : f*12+12]
	n := [3]float32{buf.Normals[f*12], buf.Normals[f*12+1], buf.Normals[f*12+2]}
	return pos, n
}

func TestMeshIsolatedVoxel(t *testing.T) {
	blocks, atlas := testCatalogs(1)
	vm := voxel.VoxelMap{{X: 0, Y: 0, Z: 0}: {ID: 1}}

	buf := GenerateMesh(voxel.ChunkKey{}, 16, vm, blocks, atlas)
	if buf.FaceCount() != 6 {
		t.Fatalf("faces: got %d, want 6", buf.FaceCount())
	}
	if buf.VertexCount() != 24 {
		t.Fatalf("vertices: got %d, want 24", buf.VertexCount())
	}
	if len(buf.Indices) != 36 {
		t.Fatalf("indices: got %d, want 36", len(buf.Indices))
	}
	if len(buf.UVs) != 48 {
		t.Fatalf("uv floats: got %d, want 48", len(buf.UVs))
	}
	for _, idx := range buf.Indices {
		if idx >= 24 {
			t.Fatalf("index %d out of vertex range", idx)
		}
	}
}

func TestMeshIndexPattern(t *testing.T) {
	blocks, atlas := testCatalogs(1)
	vm := voxel.VoxelMap{{X: 0, Y: 0, Z: 0}: {ID: 1}}

	buf := GenerateMesh(voxel.ChunkKey{}, 16, vm, blocks, atlas)
	for f := 0; f < buf.FaceCount(); f++ {
		base := uint32(f * 4)
		want := []uint32{base, base + 1, base + 2, base, base + 2, base + 3}
		got := buf.Indices[f*6 : f*6+6]
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("face %d indices: got %v, want %v", f, got, want)
			}
		}
	}
}

func TestMeshAdjacentVoxelsCullSharedFaces(t *testing.T) {
	blocks, atlas := testCatalogs(1, 2)
	// different materials still occlude each other
	vm := voxel.VoxelMap{
		{X: 0, Y: 0, Z: 0}: {ID: 1},
		{X: 1, Y: 0, Z: 0}: {ID: 2},
	}

	buf := GenerateMesh(voxel.ChunkKey{}, 16, vm, blocks, atlas)
	if buf.FaceCount() != 10 {
		t.Fatalf("faces: got %d, want 10", buf.FaceCount())
	}

	// no face may sit on the shared x=1 plane
	for f := 0; f < buf.FaceCount(); f++ {
		pos, n := quad(t, buf, f)
		if n[0] == 0 {
			continue
		}
		onPlane := true
		for i := 0; i < 12; i += 3 {
			if pos[i] != 1 {
				onPlane = false
				break
			}
		}
		if onPlane {
			t.Fatalf("face %d emitted on shared boundary plane", f)
		}
	}
}

func TestMeshUnknownBlockSkipped(t *testing.T) {
	blocks, atlas := testCatalogs(1)
	vm := voxel.VoxelMap{
		{X: 0, Y: 0, Z: 0}: {ID: 99}, // not in the catalog
	}

	buf := GenerateMesh(voxel.ChunkKey{}, 16, vm, blocks, atlas)
	if buf.FaceCount() != 0 || buf.VertexCount() != 0 {
		t.Fatalf("unknown block produced geometry: %d faces", buf.FaceCount())
	}
}

func TestMeshMissingAtlasEntrySkipsFace(t *testing.T) {
	blocks := catalog.NewBlockCatalog([]catalog.BlockDef{{ID: 3}})
	// only the top face resolves; the fallback key is absent
	atlas := catalog.NewAtlasTable(map[string]catalog.UVRect{
		"3_py": fullRect,
	})
	vm := voxel.VoxelMap{{X: 0, Y: 0, Z: 0}: {ID: 3}}

	buf := GenerateMesh(voxel.ChunkKey{}, 16, vm, blocks, atlas)
	if buf.FaceCount() != 1 {
		t.Fatalf("faces: got %d, want 1", buf.FaceCount())
	}
	_, n := quad(t, buf, 0)
	if n != [3]float32{0, 1, 0} {
		t.Fatalf("surviving face normal: got %v, want +Y", n)
	}
}

func TestMeshEmptyMap(t *testing.T) {
	blocks, atlas := testCatalogs(1)
	buf := GenerateMesh(voxel.ChunkKey{}, 16, voxel.VoxelMap{}, blocks, atlas)
	if buf.VertexCount() != 0 || len(buf.Indices) != 0 {
		t.Fatalf("empty map produced geometry")
	}
}

func TestMeshUVCornerOrder(t *testing.T) {
	blocks := catalog.NewBlockCatalog([]catalog.BlockDef{{ID: 5}})
	atlas := catalog.NewAtlasTable(map[string]catalog.UVRect{
		"5_pz": {Left: 0, Right: 0.5, Top: 0, Bottom: 0.5},
	})
	vm := voxel.VoxelMap{{X: 0, Y: 0, Z: 0}: {ID: 5}}

	buf := GenerateMesh(voxel.ChunkKey{}, 16, vm, blocks, atlas)
	if buf.FaceCount() != 1 {
		t.Fatalf("faces: got %d, want 1", buf.FaceCount())
	}

	wantUV := []float32{0, 0.5, 0.5, 0.5, 0.5, 0, 0, 0}
	for i, v := range wantUV {
		if buf.UVs[i] != v {
			t.Fatalf("uvs: got %v, want %v", buf.UVs, wantUV)
		}
	}

	pos, n := quad(t, buf, 0)
	if n != [3]float32{0, 0, 1} {
		t.Fatalf("normal: got %v, want +Z", n)
	}
	wantPos := []float32{
		0, 0, 1,
		1, 0, 1,
		1, 1, 1,
		0, 1, 1,
	}
	for i, v := range wantPos {
		if pos[i] != v {
			t.Fatalf("positions: got %v, want %v", pos, wantPos)
		}
	}
}

func TestMeshHaloOccludesBorderFace(t *testing.T) {
	blocks, atlas := testCatalogs(1)
	// the x=16 voxel belongs to the next chunk; it occludes but is not meshed
	vm := voxel.VoxelMap{
		{X: 15, Y: 0, Z: 0}: {ID: 1},
		{X: 16, Y: 0, Z: 0}: {ID: 1},
	}

	buf := GenerateMesh(voxel.ChunkKey{}, 16, vm, blocks, atlas)
	if buf.FaceCount() != 5 {
		t.Fatalf("border voxel faces: got %d, want 5", buf.FaceCount())
	}
	for f := 0; f < buf.FaceCount(); f++ {
		pos, n := quad(t, buf, f)
		if n[0] != 1 {
			continue
		}
		for i := 0; i < 12; i += 3 {
			if pos[i] == 16 {
				t.Fatalf("face %d emitted at the occluded chunk border", f)
			}
		}
	}
}

func TestMeshBorderPairSplitsAcrossChunks(t *testing.T) {
	blocks, atlas := testCatalogs(1)
	// a pair straddling the x=16 border, as each chunk's job map sees it
	// under halo extraction
	vm := voxel.VoxelMap{
		{X: 15, Y: 0, Z: 0}: {ID: 1},
		{X: 16, Y: 0, Z: 0}: {ID: 1},
	}

	left := GenerateMesh(voxel.ChunkKey{}, 16, vm, blocks, atlas)
	right := GenerateMesh(voxel.ChunkKey{X: 1}, 16, vm, blocks, atlas)
	if left.FaceCount() != 5 || right.FaceCount() != 5 {
		t.Fatalf("split pair faces: got %d and %d, want 5 and 5",
			left.FaceCount(), right.FaceCount())
	}

	// the two meshes share no quad: left covers only x in [15,16],
	// right only x in [16,17], and neither emits on the shared plane
	for f := 0; f < right.FaceCount(); f++ {
		pos, n := quad(t, right, f)
		if n[0] != -1 {
			continue
		}
		for i := 0; i < 12; i += 3 {
			if pos[i] == 16 {
				t.Fatalf("neighbor chunk re-emitted the shared border face")
			}
		}
	}
}

func TestMeshAbsoluteCoordinates(t *testing.T) {
	blocks, atlas := testCatalogs(1)
	vm := voxel.VoxelMap{{X: 17, Y: -3, Z: 40}: {ID: 1}}

	buf := GenerateMesh(voxel.ChunkKey{X: 1, Y: -1, Z: 2}, 16, vm, blocks, atlas)
	if buf.FaceCount() != 6 {
		t.Fatalf("faces: got %d, want 6", buf.FaceCount())
	}
	for i := 0; i < len(buf.Positions); i += 3 {
		x, y, z := buf.Positions[i], buf.Positions[i+1], buf.Positions[i+2]
		if x < 17 || x > 18 || y < -3 || y > -2 || z < 40 || z > 41 {
			t.Fatalf("vertex (%v,%v,%v) outside the voxel's unit cube", x, y, z)
		}
	}
}
