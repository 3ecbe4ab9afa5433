// Package dispatch wires the pipeline together: every camera tick it asks
// the priority engine which dirty chunks matter most, submits those to the
// worker pool within a concurrency budget, and installs finished meshes —
// discarding any result whose generation went stale while it was in flight.
package dispatch

import (
	"log"
	"sync"

	"voxelforge/internal/config"
	"voxelforge/internal/priority"
	"voxelforge/internal/store"
	"voxelforge/internal/voxel"
	"voxelforge/internal/worker"
)

// Submitter is the slice of the worker pool the dispatcher needs.
type Submitter interface {
	SubmitJob(worker.Job) bool
}

// MeshHandler receives each freshly installed mesh, e.g. to upload it into
// the scene.
type MeshHandler func(key voxel.ChunkKey, mesh voxel.MeshBuffers)

// ErrorHandler receives per-job failures. Retry/drop/escalate policy lives
// with the caller.
type ErrorHandler func(key voxel.ChunkKey, err error)

// Stats is a snapshot of dispatcher counters.
type Stats struct {
	Pending   int // jobs in flight
	Installed int // meshes applied
	Stale     int // results dropped for generation mismatch
	Failed    int // results carrying an error
	Meshes    int // chunks currently holding an installed mesh
}

// Dispatcher owns the pending set and the per-chunk generation counters.
type Dispatcher struct {
	store  *store.Store
	engine *priority.Engine
	pool   Submitter

	results chan worker.Result

	mu          sync.Mutex
	pending     map[voxel.ChunkKey]struct{}
	generations map[voxel.ChunkKey]uint64
	meshes      map[voxel.ChunkKey]voxel.MeshBuffers
	installed   int
	stale       int
	failed      int

	onMesh  MeshHandler
	onError ErrorHandler
}

// New creates a dispatcher over a store and a worker pool.
func New(st *store.Store, pool Submitter) *Dispatcher {
	return &Dispatcher{
		store:       st,
		engine:      priority.NewEngine(),
		pool:        pool,
		results:     make(chan worker.Result, config.Get().QueueSize),
		pending:     make(map[voxel.ChunkKey]struct{}),
		generations: make(map[voxel.ChunkKey]uint64),
		meshes:      make(map[voxel.ChunkKey]voxel.MeshBuffers),
	}
}

// OnMesh sets the installed-mesh callback.
func (d *Dispatcher) OnMesh(f MeshHandler) { d.onMesh = f }

// OnError sets the job-failure callback.
func (d *Dispatcher) OnError(f ErrorHandler) { d.onError = f }

// Tick runs one scheduling pass for the given camera state: drain finished
// results, recompute priorities against the new snapshot, then submit the
// highest-priority dirty chunks up to the mesh budget.
func (d *Dispatcher) Tick(cam priority.Camera) {
	d.DrainResults()
	d.engine.UpdateCamera(cam)

	candidates := d.candidates()
	if len(candidates) == 0 {
		return
	}
	budget := config.Get().MeshBudget
	for _, sc := range d.engine.SelectTopK(candidates, cam.Position, budget) {
		d.submit(sc.Key)
	}
}

// candidates returns dirty chunks with no job in flight.
func (d *Dispatcher) candidates() []voxel.ChunkKey {
	dirty := d.store.DirtyChunks()

	d.mu.Lock()
	defer d.mu.Unlock()
	out := dirty[:0]
	for _, key := range dirty {
		if _, inFlight := d.pending[key]; !inFlight {
			out = append(out, key)
		}
	}
	return out
}

// submit extracts the chunk's voxel map and queues a job tagged with a
// fresh generation. On a full queue everything is rolled back; the chunk
// stays dirty and competes again next tick.
func (d *Dispatcher) submit(key voxel.ChunkKey) {
	d.mu.Lock()
	gen := d.generations[key] + 1
	d.generations[key] = gen
	d.pending[key] = struct{}{}
	d.mu.Unlock()

	job := worker.Job{
		Key:        key,
		Generation: gen,
		Voxels:     d.store.ExtractChunk(key),
		ResultChan: d.results,
	}
	if !d.pool.SubmitJob(job) {
		// queue full: rollback
		d.mu.Lock()
		d.generations[key] = gen - 1
		delete(d.pending, key)
		d.mu.Unlock()
		return
	}
	d.store.MarkClean(key)
}

// DrainResults applies every finished result currently available without
// blocking. Called from Tick; safe to call more often.
func (d *Dispatcher) DrainResults() {
	for {
		select {
		case res := <-d.results:
			d.apply(res)
		default:
			return
		}
	}
}

func (d *Dispatcher) apply(res worker.Result) {
	d.mu.Lock()
	delete(d.pending, res.Key)
	current := d.generations[res.Key]
	if res.Generation != current {
		// superseded while in flight; neither install nor report it
		d.stale++
		d.mu.Unlock()
		log.Printf("dispatch: dropping stale result for %s (generation %d, want %d)", res.Key, res.Generation, current)
		return
	}
	if res.Err != nil {
		d.failed++
		d.mu.Unlock()
		if d.onError != nil {
			d.onError(res.Key, res.Err)
		}
		return
	}
	d.meshes[res.Key] = res.Mesh
	d.installed++
	d.mu.Unlock()
	if d.onMesh != nil {
		d.onMesh(res.Key, res.Mesh)
	}
}

// Invalidate bumps a chunk's generation and re-dirties it, so any in-flight
// result for it is dropped on arrival and the chunk is remeshed.
func (d *Dispatcher) Invalidate(key voxel.ChunkKey) {
	d.mu.Lock()
	d.generations[key]++
	d.mu.Unlock()
	d.store.MarkDirty(key)
}

// Edit places a block through the dispatcher, invalidating any in-flight
// jobs whose output the edit makes stale.
func (d *Dispatcher) Edit(p voxel.VoxelPos, b voxel.Block) {
	d.store.SetBlock(p, b)
	d.invalidateInFlightAround(p)
}

// Erase removes a block through the dispatcher.
func (d *Dispatcher) Erase(p voxel.VoxelPos) {
	d.store.RemoveBlock(p)
	d.invalidateInFlightAround(p)
}

// invalidateInFlightAround bumps generations for pending jobs covering the
// edited voxel's chunk or, for boundary voxels, a neighboring chunk.
func (d *Dispatcher) invalidateInFlightAround(p voxel.VoxelPos) {
	size := config.GetChunkSize()
	keys := map[voxel.ChunkKey]struct{}{p.ChunkOf(size): {}}
	for i := range voxel.Faces {
		keys[p.Add(voxel.Faces[i].Offset).ChunkOf(size)] = struct{}{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for key := range keys {
		if _, inFlight := d.pending[key]; inFlight {
			d.generations[key]++
		}
	}
}

// Mesh returns the installed mesh for a chunk, if any.
func (d *Dispatcher) Mesh(key voxel.ChunkKey) (voxel.MeshBuffers, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, ok := d.meshes[key]
	return m, ok
}

// Snapshot returns current counters.
func (d *Dispatcher) Snapshot() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Stats{
		Pending:   len(d.pending),
		Installed: d.installed,
		Stale:     d.stale,
		Failed:    d.failed,
		Meshes:    len(d.meshes),
	}
}
