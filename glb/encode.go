package glb

import (
	"encoding/json"
	"fmt"

	"github.com/wippyai/glb-compose/glb/internal/binary"
)

// Encode serializes the container: JSON chunk, optional BIN chunk,
// header with the computed total length.
func (f *File) Encode() ([]byte, error) {
	jsonBytes, err := json.Marshal(f.Document)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	jsonBytes = binary.Padded(jsonBytes, chunkAlign, jsonPad)

	var payload []byte
	if len(f.Payload) > 0 {
		payload = binary.Padded(f.Payload, chunkAlign, binPad)
	}

	total := headerSize + chunkHeaderLen + len(jsonBytes)
	if payload != nil {
		total += chunkHeaderLen + len(payload)
	}

	w := binary.NewWriter()
	w.WriteU32LE(Magic)
	w.WriteU32LE(Version)
	w.WriteU32LE(uint32(total))

	w.WriteU32LE(uint32(len(jsonBytes)))
	w.WriteU32LE(ChunkJSON)
	w.WriteBytes(jsonBytes)

	if payload != nil {
		w.WriteU32LE(uint32(len(payload)))
		w.WriteU32LE(ChunkBIN)
		w.WriteBytes(payload)
	}

	return w.Bytes(), nil
}
