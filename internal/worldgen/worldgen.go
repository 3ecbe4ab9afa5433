// Package worldgen produces simplex-noise terrain for demos, tests and
// benchmarks. It is a stand-in data source, not part of the editor core.
package worldgen

import (
	"github.com/ojrac/opensimplex-go"

	"voxelforge/internal/store"
	"voxelforge/internal/voxel"
)

// Generator derives column heights from layered simplex noise.
type Generator struct {
	noise opensimplex.Noise32

	// Block ids used when populating a store.
	Surface int
	Soil    int
	Rock    int

	BaseHeight int
	Amplitude  int
}

// New creates a generator for a seed.
func New(seed int64) *Generator {
	return &Generator{
		noise:      opensimplex.New32(seed),
		Surface:    1,
		Soil:       2,
		Rock:       3,
		BaseHeight: 8,
		Amplitude:  12,
	}
}

// HeightAt returns the terrain height of a column.
func (g *Generator) HeightAt(x, z int) int {
	n := g.noise.Eval2(float32(x)*0.03, float32(z)*0.03)
	n += 0.5 * g.noise.Eval2(float32(x)*0.11, float32(z)*0.11)
	h := g.BaseHeight + int(n*float32(g.Amplitude)/1.5)
	if h < 1 {
		h = 1
	}
	return h
}

// Populate fills the store with terrain columns within the given radius of
// the origin: surface block on top, soil beneath, rock to the floor.
func (g *Generator) Populate(s *store.Store, radius int) {
	for x := -radius; x <= radius; x++ {
		for z := -radius; z <= radius; z++ {
			h := g.HeightAt(x, z)
			for y := 0; y < h; y++ {
				id := g.Rock
				switch {
				case y == h-1:
					id = g.Surface
				case y >= h-3:
					id = g.Soil
				}
				s.SetBlock(voxel.VoxelPos{X: x, Y: y, Z: z}, voxel.Block{ID: id})
			}
		}
	}
}
