// Package glb provides binary glTF (GLB) container parsing and encoding.
//
// A GLB container is a 12-byte header (magic, version, total length)
// followed by length-prefixed, 4-byte-aligned, type-tagged chunks. The
// first chunk holds the structured glTF document as JSON; an optional
// second chunk holds the raw binary payload the document's buffers
// index into. Unknown trailing chunk types are skipped.
//
// # Parsing
//
//	data, _ := os.ReadFile("part.glb")
//	file, err := glb.Decode(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc := file.Document   // *gltf.Document
//	bin := file.Payload    // raw payload bytes
//
// # Encoding
//
//	encoded, err := file.Encode()
//
// Both operations are pure transforms over byte sequences; round-trips
// preserve table counts and payload bytes.
package glb
