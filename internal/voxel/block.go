package voxel

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Block is the normalized per-voxel record. Upstream data may carry a bare
// block-type id or a record with an id field; both decode into this one type
// so nothing past the boundary has to care.
type Block struct {
	ID int `json:"id"`
}

// UnmarshalJSON accepts either a bare number (`5`) or a record (`{"id":5}`).
func (b *Block) UnmarshalJSON(data []byte) error {
	var id int
	if err := json.Unmarshal(data, &id); err == nil {
		b.ID = id
		return nil
	}
	var rec struct {
		ID *int `json:"id"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("block ref: %w", err)
	}
	if rec.ID == nil {
		return fmt.Errorf("block ref: missing id")
	}
	b.ID = *rec.ID
	return nil
}

// VoxelMap is a sparse mapping from world-voxel position to block. It is
// read-only from the mesher's point of view and may or may not include
// boundary voxels from neighboring chunks; see store.ExtractChunk.
type VoxelMap map[VoxelPos]Block

// MarshalJSON encodes the map in its canonical wire form, keyed "x,y,z".
func (m VoxelMap) MarshalJSON() ([]byte, error) {
	out := make(map[string]Block, len(m))
	for p, b := range m {
		out[p.String()] = b
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the canonical wire form.
func (m *VoxelMap) UnmarshalJSON(data []byte) error {
	var raw map[string]Block
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(VoxelMap, len(raw))
	for k, b := range raw {
		p, err := ParseVoxelPos(k)
		if err != nil {
			return err
		}
		out[p] = b
	}
	*m = out
	return nil
}

// SortedPositions returns the map's keys in a fixed order so generated
// buffers are reproducible for identical input.
func (m VoxelMap) SortedPositions() []VoxelPos {
	out := make([]VoxelPos, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	return out
}
