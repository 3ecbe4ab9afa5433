package priority

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"voxelforge/internal/config"
	"voxelforge/internal/voxel"
)

// aheadCamera sits at a chunk-grid center looking down +X, so chunks along
// the +X axis line up exactly with the view direction.
func aheadCamera() Camera {
	cam := NewCamera(mgl32.Vec3{8, 8, 8})
	cam.Yaw = 0
	cam.Pitch = 0
	return cam
}

func freshEngine(t *testing.T, cam Camera) *Engine {
	t.Helper()
	config.Set(config.Defaults())
	t.Cleanup(func() { config.Set(config.Defaults()) })
	e := NewEngine()
	e.UpdateCamera(cam)
	return e
}

func TestPriorityBeyondFarIsFloor(t *testing.T) {
	cam := aheadCamera()
	e := freshEngine(t, cam)

	ahead := voxel.ChunkKey{X: 100, Y: 0, Z: 0}  // ~1600 units out
	behind := voxel.ChunkKey{X: -100, Y: 0, Z: 0}
	for _, key := range []voxel.ChunkKey{ahead, behind} {
		if got := e.Priority(key, cam.Position); got != 0.1 {
			t.Fatalf("far chunk %v: got %v, want 0.1", key, got)
		}
	}
}

func TestPriorityDecreasesWithDistance(t *testing.T) {
	cam := aheadCamera()
	e := freshEngine(t, cam)

	// all dead ahead (dot = 1) and inside the frustum
	keys := []voxel.ChunkKey{{X: 1}, {X: 3}, {X: 6}, {X: 10}}
	prev := math.Inf(1)
	for _, key := range keys {
		p := e.Priority(key, cam.Position)
		if p >= prev {
			t.Fatalf("chunk %v: priority %v not below nearer chunk's %v", key, p, prev)
		}
		prev = p
	}
}

func TestPriorityFormulaAheadInFrustum(t *testing.T) {
	cam := aheadCamera()
	e := freshEngine(t, cam)

	key := voxel.ChunkKey{X: 2} // center (40,8,8), 32 ahead
	got := e.Priority(key, cam.Position)
	want := (1.0 + 1.0) * 1.5 * (1000.0 / (32.0 + 10.0)) * 1.5
	if math.Abs(got-want) > 1e-4 {
		t.Fatalf("ahead chunk: got %v, want %v", got, want)
	}
}

func TestPriorityPerpendicularNoBonus(t *testing.T) {
	cam := aheadCamera()
	e := freshEngine(t, cam)

	key := voxel.ChunkKey{X: 0, Y: 2, Z: 0} // straight up, dot = 0, outside frustum
	got := e.Priority(key, cam.Position)
	want := (0.0 + 1.0) * 1.5 * (1000.0 / (32.0 + 10.0))
	if math.Abs(got-want) > 1e-4 {
		t.Fatalf("perpendicular chunk: got %v, want %v", got, want)
	}
}

func TestPriorityBehindPenalized(t *testing.T) {
	cam := aheadCamera()
	e := freshEngine(t, cam)

	key := voxel.ChunkKey{X: -2, Y: 0, Z: 1} // behind and off to the side
	center := key.Center(16)
	toChunk := center.Sub(cam.Position)
	distance := float64(toChunk.Len())
	dot := float64(toChunk.Mul(float32(1 / distance)).Dot(cam.Forward()))
	if dot >= -0.2 {
		t.Fatalf("test fixture not behind: dot = %v", dot)
	}

	got := e.Priority(key, cam.Position)
	want := (dot + 1) * 0.5 * (1000 / (distance + 10))
	if math.Abs(got-want) > 1e-4 {
		t.Fatalf("behind chunk: got %v, want %v", got, want)
	}

	// directly behind collapses to zero
	if got := e.Priority(voxel.ChunkKey{X: -2}, cam.Position); got != 0 {
		t.Fatalf("directly behind: got %v, want 0", got)
	}
}

func TestPriorityMemoized(t *testing.T) {
	cam := aheadCamera()
	e := freshEngine(t, cam)

	key := voxel.ChunkKey{X: 1}
	first := e.Priority(key, cam.Position)
	if e.cachedLen() != 1 {
		t.Fatalf("cached entries after one score: got %d, want 1", e.cachedLen())
	}
	if second := e.Priority(key, cam.Position); second != first {
		t.Fatalf("memoized score changed: %v then %v", first, second)
	}
}

func TestUpdateCameraInvalidatesCache(t *testing.T) {
	cam := aheadCamera()
	e := freshEngine(t, cam)

	key := voxel.ChunkKey{X: 2}
	ahead := e.Priority(key, cam.Position)

	turned := cam
	turned.Yaw = 180
	e.UpdateCamera(turned)
	if e.cachedLen() != 0 {
		t.Fatalf("cache survived UpdateCamera: %d entries", e.cachedLen())
	}

	behind := e.Priority(key, cam.Position)
	if behind >= ahead {
		t.Fatalf("after turning away: got %v, want below %v", behind, ahead)
	}
}

func TestSelectTopK(t *testing.T) {
	cam := aheadCamera()
	e := freshEngine(t, cam)

	candidates := []voxel.ChunkKey{{X: 10}, {X: 1}, {X: 5}}
	top := e.SelectTopK(candidates, cam.Position, 2)
	if len(top) != 2 {
		t.Fatalf("top-2 length: got %d", len(top))
	}
	if top[0].Key != (voxel.ChunkKey{X: 1}) || top[1].Key != (voxel.ChunkKey{X: 5}) {
		t.Fatalf("top-2 order: got %v, %v", top[0].Key, top[1].Key)
	}
	if top[0].Priority < top[1].Priority {
		t.Fatalf("not sorted descending: %v < %v", top[0].Priority, top[1].Priority)
	}

	if got := e.SelectTopK(candidates, cam.Position, 10); len(got) != len(candidates) {
		t.Fatalf("k beyond candidates: got %d, want %d", len(got), len(candidates))
	}
	if got := e.SelectTopK(nil, cam.Position, 4); len(got) != 0 {
		t.Fatalf("no candidates: got %d entries", len(got))
	}
}

func TestSelectTopKTiesKeepOrder(t *testing.T) {
	cam := aheadCamera()
	e := freshEngine(t, cam)

	// mirrored across the view axis: identical distance and alignment
	a := voxel.ChunkKey{X: 1, Y: 0, Z: 1}
	b := voxel.ChunkKey{X: 1, Y: 0, Z: -1}
	if pa, pb := e.Priority(a, cam.Position), e.Priority(b, cam.Position); pa != pb {
		t.Fatalf("fixture not tied: %v vs %v", pa, pb)
	}

	top := e.SelectTopK([]voxel.ChunkKey{b, a}, cam.Position, 2)
	if top[0].Key != b || top[1].Key != a {
		t.Fatalf("tie reordered: got %v, %v", top[0].Key, top[1].Key)
	}
}
