package worker

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Codec serializes protocol messages into self-contained frames:
// JSON-encoded, zstd-compressed. Voxel maps dominate frame size, and they
// compress well; everything else rides along for a uniform wire format.
type Codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewCodec builds a codec with stateless zstd encoder/decoder instances,
// safe for EncodeAll/DecodeAll use from one goroutine at a time.
func NewCodec() (*Codec, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	return &Codec{enc: enc, dec: dec}, nil
}

// Encode marshals v and compresses it into one frame.
func (c *Codec) Encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return c.enc.EncodeAll(b, nil), nil
}

// Decode decompresses a frame and unmarshals it into v.
func (c *Codec) Decode(frame []byte, v any) error {
	b, err := c.dec.DecodeAll(frame, nil)
	if err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}
	return nil
}

// DecodeRaw decompresses a frame without unmarshaling, for type routing.
func (c *Codec) DecodeRaw(frame []byte) ([]byte, error) {
	b, err := c.dec.DecodeAll(frame, nil)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return b, nil
}
