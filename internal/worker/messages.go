// Package worker implements the mesh worker protocol: a message contract
// between the dispatcher and isolated meshing workers. The only data that
// crosses the boundary is what the codec serializes into frames; workers
// share no mutable memory with the submitting side.
package worker

import (
	"encoding/json"

	"voxelforge/internal/catalog"
	"voxelforge/internal/voxel"
)

// Message types.
const (
	TypeInit          = "init"
	TypeGenerateMesh  = "generate_mesh"
	TypeInitialized   = "initialized"
	TypeMeshGenerated = "mesh_generated"
	TypeError         = "error"
)

// BaseMessage lets us route decoded frames by type.
type BaseMessage struct {
	Type string `json:"type"`
}

// DecodeBase extracts just the message type from a decoded JSON payload.
func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

// InitMsg installs the block catalog and atlas table for the worker's
// lifetime. Must precede any mesh job.
type InitMsg struct {
	Type   string                    `json:"type"`
	Blocks []catalog.BlockDef        `json:"block_types"`
	Atlas  map[string]catalog.UVRect `json:"texture_atlas"`
}

// GenerateMeshMsg is one mesh job. Generation is the chunk's epoch at
// submission time; it is echoed back so stale results can be dropped.
type GenerateMeshMsg struct {
	Type       string         `json:"type"`
	ChunkKey   string         `json:"chunk_key"`
	Generation uint64         `json:"generation"`
	Voxels     voxel.VoxelMap `json:"voxels"`
}

// InitializedMsg acknowledges a successful init.
type InitializedMsg struct {
	Type string `json:"type"`
}

// MeshGeneratedMsg carries the finished buffers for one job.
type MeshGeneratedMsg struct {
	Type       string            `json:"type"`
	ChunkKey   string            `json:"chunk_key"`
	Generation uint64            `json:"generation"`
	Mesh       voxel.MeshBuffers `json:"mesh"`
}

// ErrorMsg reports a failure handling one inbound message. The worker stays
// in its message loop and remains usable afterwards.
type ErrorMsg struct {
	Type       string `json:"type"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
	Stack      string `json:"stack,omitempty"`
	ChunkKey   string `json:"chunk_key,omitempty"`
	Generation uint64 `json:"generation,omitempty"`
}
