package voxel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkKey identifies a chunk in chunk-grid space.
type ChunkKey struct {
	X, Y, Z int
}

// String returns the canonical "cx,cy,cz" form used as a mapping key.
func (k ChunkKey) String() string {
	return formatTriple(k.X, k.Y, k.Z)
}

// Center returns the world-space center of the chunk for the given edge length.
func (k ChunkKey) Center(chunkSize int) mgl32.Vec3 {
	s := float32(chunkSize)
	return mgl32.Vec3{
		(float32(k.X) + 0.5) * s,
		(float32(k.Y) + 0.5) * s,
		(float32(k.Z) + 0.5) * s,
	}
}

// ParseChunkKey parses the canonical "cx,cy,cz" form.
func ParseChunkKey(s string) (ChunkKey, error) {
	x, y, z, err := parseTriple(s)
	if err != nil {
		return ChunkKey{}, fmt.Errorf("chunk key %q: %w", s, err)
	}
	return ChunkKey{X: x, Y: y, Z: z}, nil
}

// VoxelPos is an integer position in world-voxel space.
type VoxelPos struct {
	X, Y, Z int
}

// String returns the canonical "x,y,z" form used as a mapping key.
func (p VoxelPos) String() string {
	return formatTriple(p.X, p.Y, p.Z)
}

// Add returns p offset by o componentwise.
func (p VoxelPos) Add(o VoxelPos) VoxelPos {
	return VoxelPos{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

// ChunkOf returns the key of the chunk containing p.
func (p VoxelPos) ChunkOf(chunkSize int) ChunkKey {
	return ChunkKey{
		X: floorDiv(p.X, chunkSize),
		Y: floorDiv(p.Y, chunkSize),
		Z: floorDiv(p.Z, chunkSize),
	}
}

// ParseVoxelPos parses the canonical "x,y,z" form.
func ParseVoxelPos(s string) (VoxelPos, error) {
	x, y, z, err := parseTriple(s)
	if err != nil {
		return VoxelPos{}, fmt.Errorf("voxel pos %q: %w", s, err)
	}
	return VoxelPos{X: x, Y: y, Z: z}, nil
}

func formatTriple(x, y, z int) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(x))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(y))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(z))
	return b.String()
}

func parseTriple(s string) (int, int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("want 3 comma-separated ints, got %d", len(parts))
	}
	x, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, err
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, err
	}
	z, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, err
	}
	return x, y, z, nil
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
