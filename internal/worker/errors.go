package worker

import "fmt"

// Protocol error codes carried in ErrorMsg.Code.
const (
	// Message arrived before init.
	ErrProtoNotReady = "E_PROTO_NOT_READY"
	// Unrecognized message type.
	ErrProtoBadType = "E_PROTO_BAD_TYPE"
	// Frame failed to decode or validate.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	// Mesh generation itself failed (panic recovered in the handler).
	ErrMeshFailed = "E_MESH_FAILED"
)

var knownCodes = map[string]struct{}{
	ErrProtoNotReady:   {},
	ErrProtoBadType:    {},
	ErrProtoBadRequest: {},
	ErrMeshFailed:      {},
}

// IsKnownCode reports whether code is one this protocol defines. The empty
// code is allowed on legacy error replies.
func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

// ProtocolError is the submitting-side view of an ErrorMsg reply.
type ProtocolError struct {
	Code    string
	Message string
	Stack   string
}

func (e *ProtocolError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
