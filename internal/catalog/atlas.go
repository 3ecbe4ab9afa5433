package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// UVRect is a texture-atlas rectangle in normalized UV space.
type UVRect struct {
	Left   float32 `json:"left"`
	Right  float32 `json:"right"`
	Top    float32 `json:"top"`
	Bottom float32 `json:"bottom"`
}

// AtlasTable maps "(blockId, faceSide)" to a UV rectangle. Keys take the
// form "<id>_<side>" (e.g. "5_pz"); a bare "<id>" entry acts as a fallback
// for every side of that block.
type AtlasTable struct {
	entries map[string]UVRect
	Digest  string
}

// NewAtlasTable builds a table from raw entries.
func NewAtlasTable(entries map[string]UVRect) *AtlasTable {
	m := make(map[string]UVRect, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return &AtlasTable{entries: m, Digest: digestEntries(m)}
}

// Lookup resolves the UV rectangle for a block face: first "<id>_<side>",
// then the "<id>" fallback.
func (t *AtlasTable) Lookup(id int, side string) (UVRect, bool) {
	if r, ok := t.entries[strconv.Itoa(id)+"_"+side]; ok {
		return r, true
	}
	r, ok := t.entries[strconv.Itoa(id)]
	return r, ok
}

// Len returns the number of atlas entries.
func (t *AtlasTable) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the raw table, for re-serialization.
func (t *AtlasTable) Entries() map[string]UVRect {
	out := make(map[string]UVRect, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}

// LoadAtlasTable reads and validates an atlas JSON document, an object
// keyed by "<id>" or "<id>_<side>".
func LoadAtlasTable(path string) (*AtlasTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("atlas table %s: %w", path, err)
	}
	if err := atlasSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("atlas table %s: %w", path, err)
	}
	var entries map[string]UVRect
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("atlas table %s: %w", path, err)
	}
	return NewAtlasTable(entries), nil
}

func digestEntries(m map[string]UVRect) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// map iteration order is random; hash a sorted projection
	sort.Strings(keys)
	h := sha256.New()
	for _, k := range keys {
		b, _ := json.Marshal(m[k])
		h.Write([]byte(k))
		h.Write(b)
	}
	return hex.EncodeToString(h.Sum(nil))
}
