// Package gltf provides the typed document model for the structured
// chunk of a binary scene container.
//
// A Document holds the cross-referenced tables the composition engine
// manipulates: scenes, nodes, meshes, materials, textures, samplers,
// images, accessors, bufferViews and buffers. It is the decoded form
// of a container's JSON chunk and marshals back to the same layout.
//
// Validate checks that every cross-table reference resolves and that
// every bufferView lies inside the binary payload:
//
//	if err := doc.Validate(len(payload)); err != nil {
//	    // document is internally inconsistent
//	}
package gltf
