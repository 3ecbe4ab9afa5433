// Package store is the in-memory terrain store: a sparse world-voxel map
// bucketed per chunk, with dirty tracking and per-chunk extraction for mesh
// jobs. Persistence and undo/redo history live outside this subsystem.
package store

import (
	"sync"

	"voxelforge/internal/config"
	"voxelforge/internal/voxel"
)

// Store holds the editable voxel world.
type Store struct {
	mu     sync.RWMutex
	chunks map[voxel.ChunkKey]voxel.VoxelMap
	dirty  map[voxel.ChunkKey]struct{}
	count  int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		chunks: make(map[voxel.ChunkKey]voxel.VoxelMap),
		dirty:  make(map[voxel.ChunkKey]struct{}),
	}
}

// SetBlock places a block. The containing chunk is marked dirty, and so is
// any chunk whose boundary the voxel touches; its faces depend on this
// voxel too.
func (s *Store) SetBlock(p voxel.VoxelPos, b voxel.Block) {
	size := config.GetChunkSize()
	key := p.ChunkOf(size)

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.chunks[key]
	if bucket == nil {
		bucket = make(voxel.VoxelMap)
		s.chunks[key] = bucket
	}
	if _, existed := bucket[p]; !existed {
		s.count++
	}
	bucket[p] = b
	s.markDirtyLocked(p, key, size)
}

// RemoveBlock clears a voxel. No-op when empty.
func (s *Store) RemoveBlock(p voxel.VoxelPos) {
	size := config.GetChunkSize()
	key := p.ChunkOf(size)

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.chunks[key]
	if bucket == nil {
		return
	}
	if _, ok := bucket[p]; !ok {
		return
	}
	delete(bucket, p)
	s.count--
	if len(bucket) == 0 {
		delete(s.chunks, key)
	}
	s.markDirtyLocked(p, key, size)
}

// markDirtyLocked marks the chunk owning p, plus neighbor chunks when p is
// on a chunk boundary. Cross-chunk face culling depends on those voxels.
func (s *Store) markDirtyLocked(p voxel.VoxelPos, key voxel.ChunkKey, size int) {
	s.dirty[key] = struct{}{}
	for i := range voxel.Faces {
		n := p.Add(voxel.Faces[i].Offset).ChunkOf(size)
		if n != key {
			if _, populated := s.chunks[n]; populated {
				s.dirty[n] = struct{}{}
			}
		}
	}
}

// BlockAt returns the block at a world position.
func (s *Store) BlockAt(p voxel.VoxelPos) (voxel.Block, bool) {
	size := config.GetChunkSize()
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.chunks[p.ChunkOf(size)][p]
	return b, ok
}

// Len returns the total number of voxels.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// ChunkKeys returns the keys of all populated chunks.
func (s *Store) ChunkKeys() []voxel.ChunkKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]voxel.ChunkKey, 0, len(s.chunks))
	for k := range s.chunks {
		out = append(out, k)
	}
	return out
}

// DirtyChunks returns a snapshot of chunks needing remeshing.
func (s *Store) DirtyChunks() []voxel.ChunkKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]voxel.ChunkKey, 0, len(s.dirty))
	for k := range s.dirty {
		out = append(out, k)
	}
	return out
}

// MarkClean clears a chunk's dirty flag, typically at job submission so a
// later edit re-dirties it.
func (s *Store) MarkClean(key voxel.ChunkKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dirty, key)
}

// MarkDirty forces a chunk to be remeshed.
func (s *Store) MarkDirty(key voxel.ChunkKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty[key] = struct{}{}
}

// ExtractChunk copies the chunk's voxels into a standalone map for a mesh
// job. Under the chunk-plus-halo scope it also includes the one-voxel shell
// from neighboring chunks, so border faces cull exactly as they would with
// full world knowledge; under chunk-local scope border faces are always
// emitted.
func (s *Store) ExtractChunk(key voxel.ChunkKey) voxel.VoxelMap {
	size := config.GetChunkSize()
	halo := config.GetVoxelMapScope() == config.ScopeChunkHalo

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(voxel.VoxelMap, len(s.chunks[key]))
	for p, b := range s.chunks[key] {
		out[p] = b
	}
	if !halo {
		return out
	}

	minX, minY, minZ := key.X*size, key.Y*size, key.Z*size
	maxX, maxY, maxZ := minX+size-1, minY+size-1, minZ+size-1

	for i := range voxel.Faces {
		n := voxel.ChunkKey{
			X: key.X + voxel.Faces[i].Offset.X,
			Y: key.Y + voxel.Faces[i].Offset.Y,
			Z: key.Z + voxel.Faces[i].Offset.Z,
		}
		for p, b := range s.chunks[n] {
			if p.X >= minX-1 && p.X <= maxX+1 &&
				p.Y >= minY-1 && p.Y <= maxY+1 &&
				p.Z >= minZ-1 && p.Z <= maxZ+1 {
				out[p] = b
			}
		}
	}
	return out
}

// Clone copies all voxels into a fresh VoxelMap, e.g. for export.
func (s *Store) Clone() voxel.VoxelMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(voxel.VoxelMap, s.count)
	for _, bucket := range s.chunks {
		for p, b := range bucket {
			out[p] = b
		}
	}
	return out
}
