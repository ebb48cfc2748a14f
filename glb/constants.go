package glb

// Binary glTF container magic number and version.
const (
	// Magic is the GLB magic number ("glTF" in little-endian).
	Magic uint32 = 0x46546C67

	// Version is the supported binary glTF container version.
	Version uint32 = 2
)

// Chunk type tags. The structured JSON chunk must come first; the
// binary payload chunk, when present, follows it. Chunks with other
// tags are skipped.
const (
	// ChunkJSON tags the structured-metadata chunk ("JSON").
	ChunkJSON uint32 = 0x4E4F534A

	// ChunkBIN tags the binary-payload chunk ("BIN\0").
	ChunkBIN uint32 = 0x004E4942
)

// Container layout sizes.
const (
	headerSize     = 12 // magic + version + total length
	chunkHeaderLen = 8  // chunk length + chunk type
	chunkAlign     = 4
)

// Chunk padding fill bytes: the JSON chunk pads with spaces so the
// payload stays valid JSON text, the BIN chunk pads with zeros.
const (
	jsonPad byte = 0x20
	binPad  byte = 0x00
)
