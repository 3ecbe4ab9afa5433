package config

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

// Voxel-map extraction scopes: either a mesh job sees only the chunk's own
// voxels, or the chunk plus a one-voxel halo from its neighbors so faces on
// chunk borders cull correctly.
const (
	ScopeChunkLocal = "chunk-local"
	ScopeChunkHalo  = "chunk-plus-halo"
)

// Settings holds editor configuration. All knobs are mutable at runtime
// through the setters below; the YAML file only provides starting values.
type Settings struct {
	ChunkSize int `yaml:"chunk_size"`

	Far             float64 `yaml:"far"`
	DirectionWeight float64 `yaml:"direction_weight"`
	DistanceWeight  float64 `yaml:"distance_weight"`
	DistanceOffset  float64 `yaml:"distance_offset"`
	FrustumBonus    float64 `yaml:"frustum_bonus"`
	BehindPenalty   float64 `yaml:"behind_penalty"`

	GreedyMeshing bool   `yaml:"greedy_meshing"`
	VoxelMapScope string `yaml:"voxel_map_scope"`

	Workers    int `yaml:"workers"`
	QueueSize  int `yaml:"queue_size"`
	MeshBudget int `yaml:"mesh_budget"` // max jobs submitted per tick
}

var (
	mu       sync.RWMutex
	settings = Defaults()
)

// Defaults returns the stock configuration.
func Defaults() Settings {
	return Settings{
		ChunkSize:       16,
		Far:             256,
		DirectionWeight: 1.5,
		DistanceWeight:  1000,
		DistanceOffset:  10,
		FrustumBonus:    1.5,
		BehindPenalty:   0.5,
		GreedyMeshing:   false,
		VoxelMapScope:   ScopeChunkHalo,
		Workers:         max(runtime.NumCPU(), 1),
		QueueSize:       200,
		MeshBudget:      8,
	}
}

// Load reads a YAML settings file over the defaults and installs the result.
func Load(path string) error {
	cfg := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("settings.yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("settings.yaml: %w", err)
	}
	Set(cfg)
	return nil
}

// Validate rejects values the pipeline cannot work with.
func (s Settings) Validate() error {
	if s.ChunkSize < 8 || s.ChunkSize > 64 {
		return fmt.Errorf("chunk_size %d out of range [8,64]", s.ChunkSize)
	}
	if s.Far <= 0 {
		return fmt.Errorf("far must be positive, got %v", s.Far)
	}
	if s.VoxelMapScope != ScopeChunkLocal && s.VoxelMapScope != ScopeChunkHalo {
		return fmt.Errorf("voxel_map_scope %q unknown", s.VoxelMapScope)
	}
	if s.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", s.Workers)
	}
	return nil
}

// Get returns a copy of the current settings.
func Get() Settings {
	mu.RLock()
	defer mu.RUnlock()
	return settings
}

// Set installs a full settings value.
func Set(s Settings) {
	mu.Lock()
	defer mu.Unlock()
	settings = s
}

// GetChunkSize returns the chunk edge length in voxels.
func GetChunkSize() int {
	mu.RLock()
	defer mu.RUnlock()
	return settings.ChunkSize
}

// SetChunkSize sets the chunk edge length, clamped to [8,64].
func SetChunkSize(n int) {
	mu.Lock()
	defer mu.Unlock()
	if n < 8 {
		n = 8
	}
	if n > 64 {
		n = 64
	}
	settings.ChunkSize = n
}

// GetGreedyMeshing reports whether the greedy meshing strategy is selected.
func GetGreedyMeshing() bool {
	mu.RLock()
	defer mu.RUnlock()
	return settings.GreedyMeshing
}

// SetGreedyMeshing toggles the greedy meshing strategy.
func SetGreedyMeshing(on bool) {
	mu.Lock()
	defer mu.Unlock()
	settings.GreedyMeshing = on
}

// GetVoxelMapScope returns the configured voxel-map extraction scope.
func GetVoxelMapScope() string {
	mu.RLock()
	defer mu.RUnlock()
	return settings.VoxelMapScope
}

// SetVoxelMapScope sets the extraction scope; unknown values are ignored.
func SetVoxelMapScope(scope string) {
	if scope != ScopeChunkLocal && scope != ScopeChunkHalo {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	settings.VoxelMapScope = scope
}
