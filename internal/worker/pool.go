package worker

import (
	"context"
	"fmt"
	"sync"

	"voxelforge/internal/catalog"
	"voxelforge/internal/voxel"
)

// Job is one meshing job request.
type Job struct {
	Key        voxel.ChunkKey
	Generation uint64
	Voxels     voxel.VoxelMap
	// Result channel - will be sent the result when done
	ResultChan chan Result
}

// Result is the outcome of one meshing job. Results across different
// workers may complete out of submission order; the dispatcher reconciles
// them by Generation.
type Result struct {
	Key        voxel.ChunkKey
	Generation uint64
	Mesh       voxel.MeshBuffers
	Err        error
}

// Pool manages a fixed set of protocol workers. Each pool worker owns one
// Worker instance, initialized once at startup with the shared catalog and
// atlas, and feeds it jobs from a common queue.
type Pool struct {
	jobQueue chan Job
	workers  []*Worker
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewPool starts workers and initializes each with the catalog/atlas data.
// Fails if any worker rejects its init message.
func NewPool(workers, queueSize int, blocks []catalog.BlockDef, atlas map[string]catalog.UVRect) (*Pool, error) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		jobQueue: make(chan Job, queueSize),
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := 0; i < workers; i++ {
		codec, err := NewCodec()
		if err != nil {
			cancel()
			p.closeWorkers()
			return nil, err
		}
		w := NewWorker(codec, 1)
		w.Start()
		if err := initWorker(codec, w, blocks, atlas); err != nil {
			cancel()
			w.Close()
			p.closeWorkers()
			return nil, fmt.Errorf("worker %d: %w", i, err)
		}
		p.workers = append(p.workers, w)

		p.wg.Add(1)
		go p.run(codec, w)
	}
	return p, nil
}

// initWorker sends the init message and waits for the acknowledgment.
func initWorker(codec *Codec, w *Worker, blocks []catalog.BlockDef, atlas map[string]catalog.UVRect) error {
	frame, err := codec.Encode(InitMsg{Type: TypeInit, Blocks: blocks, Atlas: atlas})
	if err != nil {
		return err
	}
	w.Send(frame)
	reply, ok := <-w.Replies()
	if !ok {
		return fmt.Errorf("worker closed before init reply")
	}
	raw, err := codec.DecodeRaw(reply)
	if err != nil {
		return err
	}
	base, err := DecodeBase(raw)
	if err != nil {
		return err
	}
	if base.Type != TypeInitialized {
		var em ErrorMsg
		if err := codec.Decode(reply, &em); err == nil && em.Type == TypeError {
			return &ProtocolError{Code: em.Code, Message: em.Message, Stack: em.Stack}
		}
		return fmt.Errorf("unexpected init reply type %q", base.Type)
	}
	return nil
}

// SubmitJob submits a job without blocking. Returns false when the queue
// is full.
func (p *Pool) SubmitJob(job Job) bool {
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

// SubmitJobBlocking submits a job and blocks until it's queued.
func (p *Pool) SubmitJobBlocking(job Job) {
	select {
	case p.jobQueue <- job:
	case <-p.ctx.Done():
	}
}

// run is one pool worker: feed jobs to the protocol worker, translate its
// replies into Results.
func (p *Pool) run(codec *Codec, w *Worker) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			result := p.execute(codec, w, job)
			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) execute(codec *Codec, w *Worker, job Job) Result {
	result := Result{Key: job.Key, Generation: job.Generation}

	frame, err := codec.Encode(GenerateMeshMsg{
		Type:       TypeGenerateMesh,
		ChunkKey:   job.Key.String(),
		Generation: job.Generation,
		Voxels:     job.Voxels,
	})
	if err != nil {
		result.Err = err
		return result
	}
	w.Send(frame)

	reply, ok := <-w.Replies()
	if !ok {
		result.Err = fmt.Errorf("worker closed mid-job")
		return result
	}
	raw, err := codec.DecodeRaw(reply)
	if err != nil {
		result.Err = err
		return result
	}
	base, err := DecodeBase(raw)
	if err != nil {
		result.Err = err
		return result
	}

	switch base.Type {
	case TypeMeshGenerated:
		var msg MeshGeneratedMsg
		if err := codec.Decode(reply, &msg); err != nil {
			result.Err = err
			return result
		}
		result.Generation = msg.Generation
		result.Mesh = msg.Mesh
	case TypeError:
		var msg ErrorMsg
		if err := codec.Decode(reply, &msg); err != nil {
			result.Err = err
			return result
		}
		if msg.Generation != 0 {
			// not every error reply echoes the generation; keep the job's
			result.Generation = msg.Generation
		}
		result.Err = &ProtocolError{Code: msg.Code, Message: msg.Message, Stack: msg.Stack}
	default:
		result.Err = fmt.Errorf("unexpected reply type %q", base.Type)
	}
	return result
}

// Shutdown gracefully shuts down the worker pool.
func (p *Pool) Shutdown() {
	p.cancel()
	p.closeWorkers()
	p.wg.Wait()
}

func (p *Pool) closeWorkers() {
	for _, w := range p.workers {
		w.Close()
	}
	p.workers = nil
}

// QueueLen returns the current number of jobs in the queue.
func (p *Pool) QueueLen() int {
	return len(p.jobQueue)
}
