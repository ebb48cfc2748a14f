package gltf

// Generator is written into the asset header of documents this
// library creates.
const Generator = "glb-compose"

// NewDocument returns an empty document with a single empty scene
// selected as the default.
func NewDocument() *Document {
	scene := 0
	return &Document{
		Asset:  Asset{Version: "2.0", Generator: Generator},
		Scene:  &scene,
		Scenes: []Scene{{}},
	}
}

// DefaultScene returns the document's selected scene, or the first
// scene when none is selected. Returns nil when the document has no
// scenes at all.
func (d *Document) DefaultScene() *Scene {
	if len(d.Scenes) == 0 {
		return nil
	}
	if d.Scene != nil && *d.Scene >= 0 && *d.Scene < len(d.Scenes) {
		return &d.Scenes[*d.Scene]
	}
	return &d.Scenes[0]
}

// RootNodes returns the node indices of the default scene.
func (d *Document) RootNodes() []int {
	s := d.DefaultScene()
	if s == nil {
		return nil
	}
	return s.Nodes
}
