// Package catalog holds the read-only lookup tables the mesher consumes:
// block rendering metadata and the texture-atlas UV table. Both are loaded
// (or received over the worker protocol) once and never mutated afterwards.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// BlockDef is the rendering metadata for one block type.
type BlockDef struct {
	ID          int               `json:"id"`
	Name        string            `json:"name,omitempty"`
	Faces       map[string]string `json:"faces,omitempty"` // face side -> texture key
	Transparent bool              `json:"transparent,omitempty"`
}

// BlockCatalog maps block-type ids to their definitions.
type BlockCatalog struct {
	defs   map[int]BlockDef
	Digest string
}

// NewBlockCatalog builds a catalog from definitions. Later duplicates of an
// id win, matching last-write load order.
func NewBlockCatalog(defs []BlockDef) *BlockCatalog {
	m := make(map[int]BlockDef, len(defs))
	for _, d := range defs {
		m[d.ID] = d
	}
	return &BlockCatalog{defs: m, Digest: digestDefs(defs)}
}

// Lookup returns the definition for a block id.
func (c *BlockCatalog) Lookup(id int) (BlockDef, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// Len returns the number of known block types.
func (c *BlockCatalog) Len() int {
	return len(c.defs)
}

// Defs returns the definitions sorted by id, for re-serialization.
func (c *BlockCatalog) Defs() []BlockDef {
	out := make([]BlockDef, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadBlockCatalog reads and validates a block catalog JSON document, an
// array of block definitions.
func LoadBlockCatalog(path string) (*BlockCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("block catalog %s: %w", path, err)
	}
	if err := blocksSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("block catalog %s: %w", path, err)
	}
	var defs []BlockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("block catalog %s: %w", path, err)
	}
	return NewBlockCatalog(defs), nil
}

func digestDefs(defs []BlockDef) string {
	sorted := make([]BlockDef, len(defs))
	copy(sorted, defs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	b, err := json.Marshal(sorted)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
