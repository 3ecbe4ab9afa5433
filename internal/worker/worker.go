package worker

import (
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"

	"voxelforge/internal/catalog"
	"voxelforge/internal/mesher"
	"voxelforge/internal/voxel"
)

// Worker is one isolated meshing context. It consumes frames from its
// inbound channel in FIFO order and produces exactly one reply frame per
// inbound frame. Handler failures become error replies; the loop never
// dies before Close.
//
// State machine: Uninitialized until a successful init, then Ready for any
// number of generate_mesh jobs. No terminal state short of Close.
type Worker struct {
	codec   *Codec
	inbound chan []byte
	replies chan []byte

	blocks *catalog.BlockCatalog
	atlas  *catalog.AtlasTable
}

// NewWorker creates a worker with its own codec-backed mailbox.
func NewWorker(codec *Codec, mailbox int) *Worker {
	return &Worker{
		codec:   codec,
		inbound: make(chan []byte, mailbox),
		replies: make(chan []byte, mailbox),
	}
}

// Start launches the message loop.
func (w *Worker) Start() {
	go w.loop()
}

// Send delivers one frame to the worker's mailbox; blocks when full.
func (w *Worker) Send(frame []byte) {
	w.inbound <- frame
}

// Replies returns the reply stream. Closed after Close once the loop
// drains.
func (w *Worker) Replies() <-chan []byte {
	return w.replies
}

// Close stops the worker after all queued frames are handled.
func (w *Worker) Close() {
	close(w.inbound)
}

func (w *Worker) loop() {
	defer close(w.replies)
	for frame := range w.inbound {
		if reply := w.handle(frame); reply != nil {
			w.replies <- reply
		}
	}
}

// handle processes one frame and builds its reply. Any panic in a handler
// is converted into an error reply with a stack trace; the worker remains
// usable for subsequent messages.
func (w *Worker) handle(frame []byte) (reply []byte) {
	defer func() {
		if r := recover(); r != nil {
			reply = w.encodeReply(ErrorMsg{
				Type:    TypeError,
				Code:    ErrMeshFailed,
				Message: fmt.Sprint(r),
				Stack:   string(debug.Stack()),
			})
		}
	}()

	raw, err := w.codec.DecodeRaw(frame)
	if err != nil {
		return w.encodeReply(ErrorMsg{Type: TypeError, Code: ErrProtoBadRequest, Message: err.Error()})
	}
	base, err := DecodeBase(raw)
	if err != nil {
		return w.encodeReply(ErrorMsg{Type: TypeError, Code: ErrProtoBadRequest, Message: err.Error()})
	}

	switch base.Type {
	case TypeInit:
		var msg InitMsg
		if err := json.Unmarshal(raw, &msg); err != nil {
			return w.encodeReply(ErrorMsg{Type: TypeError, Code: ErrProtoBadRequest, Message: err.Error()})
		}
		w.blocks = catalog.NewBlockCatalog(msg.Blocks)
		w.atlas = catalog.NewAtlasTable(msg.Atlas)
		return w.encodeReply(InitializedMsg{Type: TypeInitialized})

	case TypeGenerateMesh:
		var msg GenerateMeshMsg
		if err := json.Unmarshal(raw, &msg); err != nil {
			return w.encodeReply(ErrorMsg{Type: TypeError, Code: ErrProtoBadRequest, Message: err.Error()})
		}
		if w.blocks == nil || w.atlas == nil {
			return w.encodeReply(ErrorMsg{
				Type:       TypeError,
				Code:       ErrProtoNotReady,
				Message:    "generate_mesh before init",
				ChunkKey:   msg.ChunkKey,
				Generation: msg.Generation,
			})
		}
		key, err := voxel.ParseChunkKey(msg.ChunkKey)
		if err != nil {
			return w.encodeReply(ErrorMsg{
				Type:       TypeError,
				Code:       ErrProtoBadRequest,
				Message:    err.Error(),
				ChunkKey:   msg.ChunkKey,
				Generation: msg.Generation,
			})
		}
		buffers := mesher.Generate(key, msg.Voxels, w.blocks, w.atlas)
		return w.encodeReply(MeshGeneratedMsg{
			Type:       TypeMeshGenerated,
			ChunkKey:   msg.ChunkKey,
			Generation: msg.Generation,
			Mesh:       buffers,
		})

	default:
		return w.encodeReply(ErrorMsg{
			Type:    TypeError,
			Code:    ErrProtoBadType,
			Message: fmt.Sprintf("unknown message type %q", base.Type),
		})
	}
}

func (w *Worker) encodeReply(v any) []byte {
	frame, err := w.codec.Encode(v)
	if err != nil {
		log.Printf("worker: dropping unencodable reply: %v", err)
		return nil
	}
	return frame
}
