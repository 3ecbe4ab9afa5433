// Package importer ingests externally named voxel data (e.g. a converted
// game save) into the editor's sparse voxel map. Block names are palette-
// compressed per 16-wide column; conversion applies glob-matched mapping
// rules from names to editor block ids, with optional cropping and
// recentering around the imported region's middle.
package importer

import (
	"fmt"

	"github.com/gobwas/glob"

	"voxelforge/internal/voxel"
)

// ColumnSize is the fixed XZ footprint of one imported column.
const ColumnSize = 16

// airName is palette entry 0: unset cells convert to nothing.
const airName = "air"

// World accumulates imported columns keyed by column coordinates.
type World struct {
	paletteIndex map[string]uint16
	palette      []string
	columns      map[[2]int][]uint16
	height       int
}

// NewWorld creates an importer world with the given column height.
func NewWorld(height int) *World {
	w := &World{
		paletteIndex: make(map[string]uint16),
		columns:      make(map[[2]int][]uint16),
		height:       height,
	}
	w.internName(airName)
	return w
}

// Height returns the column height.
func (w *World) Height() int {
	return w.height
}

// PaletteLen returns the number of distinct block names seen so far.
func (w *World) PaletteLen() int {
	return len(w.palette)
}

// SetBlock records a named block at a world position. Y outside [0,height)
// is ignored.
func (w *World) SetBlock(x, y, z int, name string) {
	if y < 0 || y >= w.height {
		return
	}
	colKey := [2]int{floorDiv(x, ColumnSize), floorDiv(z, ColumnSize)}
	col := w.columns[colKey]
	if col == nil {
		col = make([]uint16, ColumnSize*w.height*ColumnSize)
		w.columns[colKey] = col
	}
	lx := x - colKey[0]*ColumnSize
	lz := z - colKey[1]*ColumnSize
	col[columnIndex(lx, y, lz, w.height)] = w.internName(name)
}

func (w *World) internName(name string) uint16 {
	if idx, ok := w.paletteIndex[name]; ok {
		return idx
	}
	idx := uint16(len(w.palette))
	w.palette = append(w.palette, name)
	w.paletteIndex[name] = idx
	return idx
}

// columnIndex flattens local column coordinates; the inverse of the
// decomposition z = i/(16*h), y = (i%(16*h))/16, x = i%16.
func columnIndex(x, y, z, height int) int {
	return z*ColumnSize*height + y*ColumnSize + x
}

// Rule maps a block-name glob pattern to an editor block id.
type Rule struct {
	Pattern string
	BlockID int
}

// compiledRule keeps rules in a deterministic order; the first matching
// rule wins.
type compiledRule struct {
	g  glob.Glob
	id int
}

// Bounds is an inclusive world-space crop box.
type Bounds struct {
	Min, Max voxel.VoxelPos
}

// Convert produces the editor's sparse voxel map from everything imported.
// When bounds is non-nil only voxels inside it convert, recentered around
// the box's XZ middle with Y starting at the box floor; otherwise the whole
// imported span recenters around its own middle. Air never converts; names
// matching no rule are skipped.
func Convert(w *World, rules []Rule, bounds *Bounds) (voxel.VoxelMap, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		g, err := glob.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Pattern, err)
		}
		compiled = append(compiled, compiledRule{g: g, id: r.BlockID})
	}

	out := make(voxel.VoxelMap)
	if len(w.columns) == 0 {
		return out, nil
	}

	subX, subY, subZ := w.recenterOffsets(bounds)

	for colKey, col := range w.columns {
		baseX := colKey[0] * ColumnSize
		baseZ := colKey[1] * ColumnSize
		for i, paletteID := range col {
			if paletteID == 0 {
				continue // air
			}
			z := i / (ColumnSize * w.height)
			rem := i % (ColumnSize * w.height)
			y := rem / ColumnSize
			x := rem % ColumnSize

			wx := baseX + x
			wz := baseZ + z
			if bounds != nil && !bounds.contains(wx, y, wz) {
				continue
			}

			name := w.palette[paletteID]
			for _, cr := range compiled {
				if cr.g.Match(name) {
					out[voxel.VoxelPos{X: wx - subX, Y: y - subY, Z: wz - subZ}] = voxel.Block{ID: cr.id}
					break
				}
			}
		}
	}
	return out, nil
}

// recenterOffsets picks the subtraction that moves the imported region's
// middle to the origin.
func (w *World) recenterOffsets(bounds *Bounds) (int, int, int) {
	if bounds != nil {
		return bounds.Min.X + (bounds.Max.X-bounds.Min.X)/2,
			bounds.Min.Y,
			bounds.Min.Z + (bounds.Max.Z-bounds.Min.Z)/2
	}

	first := true
	var minX, maxX, minZ, maxZ int
	for k := range w.columns {
		if first {
			minX, maxX, minZ, maxZ = k[0], k[0], k[1], k[1]
			first = false
			continue
		}
		minX = min(minX, k[0])
		maxX = max(maxX, k[0])
		minZ = min(minZ, k[1])
		maxZ = max(maxZ, k[1])
	}
	// column coords to block coords before halving the span
	bMinX, bMaxX := minX*ColumnSize, maxX*ColumnSize+ColumnSize-1
	bMinZ, bMaxZ := minZ*ColumnSize, maxZ*ColumnSize+ColumnSize-1
	return bMinX + (bMaxX-bMinX)/2, 0, bMinZ + (bMaxZ-bMinZ)/2
}

func (b *Bounds) contains(x, y, z int) bool {
	return x >= b.Min.X && x <= b.Max.X &&
		y >= b.Min.Y && y <= b.Max.Y &&
		z >= b.Min.Z && z <= b.Max.Z
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
