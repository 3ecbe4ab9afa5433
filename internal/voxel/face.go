package voxel

import "github.com/go-gl/mathgl/mgl32"

// Face enumerates the six axis-aligned face directions.
type Face int

const (
	FacePX Face = iota
	FaceNX
	FacePY
	FaceNY
	FacePZ
	FaceNZ
)

// FaceDescriptor carries everything needed to emit one quad of a unit cube:
// the neighbor offset used for culling, the four corner offsets relative to
// the voxel's minimum corner, and the outward normal. Corner order matches
// the UV corner order (left-bottom, right-bottom, right-top, left-top).
type FaceDescriptor struct {
	Face    Face
	Side    string
	Offset  VoxelPos
	Corners [4]mgl32.Vec3
	Normal  mgl32.Vec3
}

// Faces is the static face table shared by all chunks.
var Faces = [6]FaceDescriptor{
	{
		Face:   FacePX,
		Side:   "px",
		Offset: VoxelPos{X: 1},
		Corners: [4]mgl32.Vec3{
			{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1},
		},
		Normal: mgl32.Vec3{1, 0, 0},
	},
	{
		Face:   FaceNX,
		Side:   "nx",
		Offset: VoxelPos{X: -1},
		Corners: [4]mgl32.Vec3{
			{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0},
		},
		Normal: mgl32.Vec3{-1, 0, 0},
	},
	{
		Face:   FacePY,
		Side:   "py",
		Offset: VoxelPos{Y: 1},
		Corners: [4]mgl32.Vec3{
			{0, 1, 1}, {1, 1, 1}, {1, 1, 0}, {0, 1, 0},
		},
		Normal: mgl32.Vec3{0, 1, 0},
	},
	{
		Face:   FaceNY,
		Side:   "ny",
		Offset: VoxelPos{Y: -1},
		Corners: [4]mgl32.Vec3{
			{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1},
		},
		Normal: mgl32.Vec3{0, -1, 0},
	},
	{
		Face:   FacePZ,
		Side:   "pz",
		Offset: VoxelPos{Z: 1},
		Corners: [4]mgl32.Vec3{
			{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
		},
		Normal: mgl32.Vec3{0, 0, 1},
	},
	{
		Face:   FaceNZ,
		Side:   "nz",
		Offset: VoxelPos{Z: -1},
		Corners: [4]mgl32.Vec3{
			{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0},
		},
		Normal: mgl32.Vec3{0, 0, -1},
	},
}
