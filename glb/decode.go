package glb

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wippyai/glb-compose/glb/internal/binary"
	"github.com/wippyai/glb-compose/gltf"
)

// Parsing errors returned by Decode.
var (
	ErrInvalidMagic   = errors.New("invalid glb magic number")
	ErrInvalidVersion = errors.New("invalid glb version")
	ErrLengthMismatch = errors.New("declared length does not match input length")
	ErrMissingJSON    = errors.New("first chunk is not the JSON chunk")
)

// File is a decoded scene container: the structured document plus the
// raw binary payload.
type File struct {
	Document *gltf.Document
	Payload  []byte
}

// Decode parses a binary glTF container.
func Decode(data []byte) (*File, error) {
	r := binary.NewReader(data)

	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if magic != Magic {
		return nil, ErrInvalidMagic
	}

	version, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, version)
	}

	total, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if int(total) != len(data) {
		return nil, fmt.Errorf("%w: declared %d, have %d", ErrLengthMismatch, total, len(data))
	}

	f := &File{}
	sawJSON := false
	sawBIN := false

	for r.Remaining() > 0 {
		chunkLen, err := r.ReadU32LE()
		if err != nil {
			return nil, r.WrapError("chunk header", err)
		}
		chunkType, err := r.ReadU32LE()
		if err != nil {
			return nil, r.WrapError("chunk header", err)
		}
		payload, err := r.ReadBytes(int(chunkLen))
		if err != nil {
			return nil, r.WrapError("chunk data", err)
		}
		if err := r.SkipPadding(chunkAlign); err != nil {
			return nil, r.WrapError("chunk padding", err)
		}

		switch {
		case !sawJSON:
			// The structured chunk is required and must come first.
			if chunkType != ChunkJSON {
				return nil, ErrMissingJSON
			}
			doc := &gltf.Document{}
			if err := json.Unmarshal(payload, doc); err != nil {
				return nil, r.WrapError("json chunk", err)
			}
			f.Document = doc
			sawJSON = true

		case chunkType == ChunkBIN && !sawBIN:
			// Copy out of the input slice so the caller may grow the
			// payload without aliasing the source buffer.
			f.Payload = append([]byte(nil), payload...)
			sawBIN = true

		default:
			// Unknown trailing chunks are skipped.
		}
	}

	if !sawJSON {
		return nil, ErrMissingJSON
	}
	return f, nil
}
