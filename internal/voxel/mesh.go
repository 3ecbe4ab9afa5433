package voxel

// MeshBuffers holds the four parallel vertex streams produced by a mesh job.
// Positions and Normals are 3 floats per vertex, UVs 2 floats per vertex,
// Indices two triangles per emitted face. Immutable once returned.
type MeshBuffers struct {
	Positions []float32 `json:"positions"`
	Normals   []float32 `json:"normals"`
	UVs       []float32 `json:"uvs"`
	Indices   []uint32  `json:"indices"`
}

// VertexCount returns the number of vertices in the buffers.
func (m MeshBuffers) VertexCount() int {
	return len(m.Positions) / 3
}

// FaceCount returns the number of emitted quads.
func (m MeshBuffers) FaceCount() int {
	return len(m.Indices) / 6
}
