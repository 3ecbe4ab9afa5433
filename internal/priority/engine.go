// Package priority assigns every candidate chunk a scalar telling the
// dispatcher how much the viewer cares about it right now. Scores combine
// distance, alignment with the view direction and frustum membership, and
// are memoized per camera snapshot.
package priority

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"voxelforge/internal/config"
	"voxelforge/internal/voxel"
)

// farPriority is returned for any chunk beyond the max view distance.
const farPriority = 0.1

// behindDot is the view-direction threshold below which a chunk counts as
// behind the camera. The slack keeps near-perpendicular chunks unpenalized.
const behindDot = -0.2

// Scored pairs a chunk key with its priority for one camera snapshot.
type Scored struct {
	Key      voxel.ChunkKey
	Priority float64
}

// Engine computes and caches chunk priorities for the most recent camera
// snapshot. Not safe for concurrent use with UpdateCamera; the scheduling
// side runs it single-threaded before each dispatch pass.
type Engine struct {
	tun     config.Settings
	forward mgl32.Vec3
	planes  [6]plane
	memo    map[voxel.ChunkKey]float64
}

// NewEngine returns an engine with no camera snapshot; call UpdateCamera
// before scoring.
func NewEngine() *Engine {
	return &Engine{memo: make(map[voxel.ChunkKey]float64)}
}

// UpdateCamera captures a new camera snapshot: the unit forward vector, the
// derived frustum planes and the tunables in effect. All previously memoized
// priorities are discarded; they were only valid for the old snapshot.
func (e *Engine) UpdateCamera(cam Camera) {
	e.tun = config.Get()
	e.forward = cam.Forward()
	e.planes = extractFrustumPlanes(cam.ViewProjection())
	e.memo = make(map[voxel.ChunkKey]float64, len(e.memo))
}

// Priority scores one chunk against the current snapshot. Results are
// memoized by chunk key until the next UpdateCamera.
func (e *Engine) Priority(key voxel.ChunkKey, camPos mgl32.Vec3) float64 {
	if p, ok := e.memo[key]; ok {
		return p
	}
	p := e.score(key, camPos)
	e.memo[key] = p
	return p
}

func (e *Engine) score(key voxel.ChunkKey, camPos mgl32.Vec3) float64 {
	center := key.Center(e.tun.ChunkSize)
	toChunk := center.Sub(camPos)
	distance := float64(toChunk.Len())

	if distance > e.tun.Far {
		return farPriority
	}

	var dot float64
	if distance > 0 {
		dir := toChunk.Mul(float32(1.0 / distance))
		dot = float64(dir.Dot(e.forward))
	} else {
		// camera is inside the chunk center; treat as dead ahead
		dot = 1
	}

	distScale := e.tun.DistanceWeight / (distance + e.tun.DistanceOffset)

	if dot < behindDot {
		return (dot + 1) * e.tun.BehindPenalty * distScale
	}

	p := (dot + 1) * e.tun.DirectionWeight * distScale
	if pointInFrustumPlanes(center, e.planes) {
		p *= e.tun.FrustumBonus
	}
	return p
}

// SelectTopK scores every candidate and returns the k highest, sorted by
// descending priority. Ties keep candidate order. Returns min(k, len)
// entries.
func (e *Engine) SelectTopK(candidates []voxel.ChunkKey, camPos mgl32.Vec3, k int) []Scored {
	scored := make([]Scored, 0, len(candidates))
	for _, key := range candidates {
		scored = append(scored, Scored{Key: key, Priority: e.Priority(key, camPos)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Priority > scored[j].Priority
	})
	if k < 0 {
		k = 0
	}
	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

// cachedLen reports how many priorities the current snapshot has memoized.
func (e *Engine) cachedLen() int {
	return len(e.memo)
}
