package compose

import (
	"bytes"
	"testing"

	"github.com/wippyai/glb-compose/glb"
	"github.com/wippyai/glb-compose/gltf"
)

func intp(v int) *int { return &v }

// testComponent builds a minimal one-node component: a mesh with one
// POSITION accessor over the whole payload.
func testComponent(name string, payload []byte) *glb.File {
	return &glb.File{
		Document: &gltf.Document{
			Asset:  gltf.Asset{Version: "2.0"},
			Scene:  intp(0),
			Scenes: []gltf.Scene{{Nodes: []int{0}}},
			Nodes:  []gltf.Node{{Name: name, Mesh: intp(0)}},
			Meshes: []gltf.Mesh{{Name: name, Primitives: []gltf.Primitive{{
				Attributes: map[string]int{"POSITION": 0},
			}}}},
			Accessors: []gltf.Accessor{
				{BufferView: intp(0), ComponentType: 5126, Count: 1, Type: "VEC3"},
			},
			BufferViews: []gltf.BufferView{{Buffer: 0, ByteLength: len(payload)}},
			Buffers:     []gltf.Buffer{{ByteLength: len(payload)}},
		},
		Payload: payload,
	}
}

func anchorDoc() *gltf.Document {
	doc := gltf.NewDocument()
	doc.Nodes = append(doc.Nodes, gltf.Node{Name: "anchor"})
	doc.Scenes[0].Nodes = []int{0}
	return doc
}

func TestMergeComponentAttach(t *testing.T) {
	doc := anchorDoc()
	comp := testComponent("part", bytes.Repeat([]byte{0xAB}, 12))

	payload, err := MergeComponent(doc, nil, comp, 0)
	if err != nil {
		t.Fatalf("MergeComponent: %v", err)
	}

	if len(payload) != 12 {
		t.Errorf("payload length = %d, want 12", len(payload))
	}
	if len(doc.Nodes) != 2 || len(doc.Meshes) != 1 || len(doc.Accessors) != 1 ||
		len(doc.BufferViews) != 1 || len(doc.Buffers) != 1 {
		t.Fatalf("table counts after merge: nodes=%d meshes=%d accessors=%d views=%d buffers=%d",
			len(doc.Nodes), len(doc.Meshes), len(doc.Accessors), len(doc.BufferViews), len(doc.Buffers))
	}
	if got := doc.Nodes[0].Children; len(got) != 1 || got[0] != 1 {
		t.Errorf("anchor children = %v, want [1]", got)
	}
	if doc.Nodes[1].Mesh == nil || *doc.Nodes[1].Mesh != 0 {
		t.Errorf("incoming node mesh = %v, want 0", doc.Nodes[1].Mesh)
	}
	if err := doc.Validate(len(payload)); err != nil {
		t.Errorf("combined document invalid: %v", err)
	}
}

func TestMergeComponentOffsets(t *testing.T) {
	doc := anchorDoc()
	comp := testComponent("part", bytes.Repeat([]byte{0xCD}, 12))

	payload, err := MergeComponent(doc, nil, comp, 0)
	if err != nil {
		t.Fatalf("first merge: %v", err)
	}
	payload, err = MergeComponent(doc, payload, comp, 0)
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}

	if len(payload) != 24 {
		t.Errorf("payload length = %d, want 24", len(payload))
	}
	if got := doc.Nodes[0].Children; len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("anchor children = %v, want [1 2]", got)
	}

	// Second copy's references are shifted by the first copy's tables.
	if *doc.Nodes[2].Mesh != 1 {
		t.Errorf("second node mesh = %d, want 1", *doc.Nodes[2].Mesh)
	}
	if got := doc.Meshes[1].Primitives[0].Attributes["POSITION"]; got != 1 {
		t.Errorf("second mesh POSITION accessor = %d, want 1", got)
	}
	if *doc.Accessors[1].BufferView != 1 {
		t.Errorf("second accessor bufferView = %d, want 1", *doc.Accessors[1].BufferView)
	}
	bv := doc.BufferViews[1]
	if bv.Buffer != 1 || bv.ByteOffset != 12 {
		t.Errorf("second bufferView = buffer %d offset %d, want buffer 1 offset 12", bv.Buffer, bv.ByteOffset)
	}

	// The shared source component must come through both merges untouched.
	if *comp.Document.Nodes[0].Mesh != 0 ||
		comp.Document.Meshes[0].Primitives[0].Attributes["POSITION"] != 0 ||
		comp.Document.BufferViews[0].ByteOffset != 0 {
		t.Error("merge mutated the source component document")
	}

	if err := doc.Validate(len(payload)); err != nil {
		t.Errorf("combined document invalid: %v", err)
	}
}

func TestMergeComponentAlignsPayload(t *testing.T) {
	doc := anchorDoc()
	comp := testComponent("part", bytes.Repeat([]byte{1}, 12))

	// A 10-byte prior payload forces 2 alignment bytes before append.
	payload, err := MergeComponent(doc, bytes.Repeat([]byte{9}, 10), comp, 0)
	if err != nil {
		t.Fatalf("MergeComponent: %v", err)
	}
	if len(payload) != 24 {
		t.Errorf("payload length = %d, want 24", len(payload))
	}
	if doc.BufferViews[0].ByteOffset != 12 {
		t.Errorf("bufferView byteOffset = %d, want aligned 12", doc.BufferViews[0].ByteOffset)
	}
	if len(doc.Buffers) != 1 || doc.Buffers[0].ByteLength != 12 {
		t.Errorf("buffers = %+v, want one 12-byte entry", doc.Buffers)
	}
}

func TestMergeComponentBufferEntryCoversSegment(t *testing.T) {
	// A 13-byte buffer declaration comes back from the codec with a
	// 16-byte padded payload; the appended entry must cover what was
	// actually written, not what the component declared.
	raw := testComponent("part", bytes.Repeat([]byte{5}, 13))
	data, err := (&glb.File{Document: raw.Document, Payload: raw.Payload}).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	comp, err := glb.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(comp.Payload) != 16 {
		t.Fatalf("decoded payload length = %d, want padded 16", len(comp.Payload))
	}

	doc := anchorDoc()
	payload, err := MergeComponent(doc, nil, comp, 0)
	if err != nil {
		t.Fatalf("MergeComponent: %v", err)
	}

	if len(doc.Buffers) != 1 {
		t.Fatalf("buffers = %+v, want one entry", doc.Buffers)
	}
	if got := doc.Buffers[0].ByteLength; got != len(payload) {
		t.Errorf("buffer declared length %d != appended segment %d", got, len(payload))
	}
}

func TestMergeComponentPaddingExtendsPreviousSegment(t *testing.T) {
	doc := anchorDoc()

	first := testComponent("a", bytes.Repeat([]byte{1}, 13))
	payload, err := MergeComponent(doc, nil, first, 0)
	if err != nil {
		t.Fatalf("first merge: %v", err)
	}

	second := testComponent("b", bytes.Repeat([]byte{2}, 12))
	payload, err = MergeComponent(doc, payload, second, 0)
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}

	if len(payload) != 28 {
		t.Fatalf("payload length = %d, want 28", len(payload))
	}
	if len(doc.Buffers) != 2 {
		t.Fatalf("buffers = %+v, want two entries", doc.Buffers)
	}
	// First segment absorbs the 3 alignment bytes; the sum of the
	// declared lengths stays equal to the payload length.
	if doc.Buffers[0].ByteLength != 16 || doc.Buffers[1].ByteLength != 12 {
		t.Errorf("buffer lengths = %d, %d, want 16, 12",
			doc.Buffers[0].ByteLength, doc.Buffers[1].ByteLength)
	}
	if doc.BufferViews[1].ByteOffset != 16 {
		t.Errorf("second bufferView byteOffset = %d, want 16", doc.BufferViews[1].ByteOffset)
	}
}

func TestMergeComponentRejectsMultipleBuffers(t *testing.T) {
	comp := testComponent("part", bytes.Repeat([]byte{1}, 12))
	comp.Document.Buffers = append(comp.Document.Buffers, gltf.Buffer{ByteLength: 0})

	doc := anchorDoc()
	if _, err := MergeComponent(doc, nil, comp, 0); err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(doc.Nodes) != 1 || len(doc.Buffers) != 0 {
		t.Error("failed merge mutated the document")
	}
}

func TestMergeComponentRejectsInconsistent(t *testing.T) {
	comp := testComponent("part", bytes.Repeat([]byte{1}, 12))
	comp.Document.Accessors[0].BufferView = intp(5)

	short := testComponent("part", []byte{1, 2, 3, 4})
	short.Document.BufferViews[0].ByteLength = 999
	short.Document.Buffers[0].ByteLength = 4

	tests := []struct {
		name string
		comp *glb.File
	}{
		{"dangling accessor", comp},
		{"bufferView past payload", short},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := anchorDoc()
			prior := []byte{1, 2, 3, 4}

			payload, err := MergeComponent(doc, prior, tt.comp, 0)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if payload != nil {
				t.Error("failed merge returned a payload")
			}
			if len(doc.Nodes) != 1 || len(doc.Meshes) != 0 || len(doc.Buffers) != 0 {
				t.Error("failed merge mutated the document")
			}
		})
	}
}

func TestMergeComponentNodelessMeshes(t *testing.T) {
	doc := anchorDoc()
	comp := meshOnlyComponent(bytes.Repeat([]byte{4}, 12))

	// First merge: the lone mesh lands on the target node itself.
	payload, err := MergeComponent(doc, nil, comp, 0)
	if err != nil {
		t.Fatalf("first merge: %v", err)
	}
	if len(doc.Nodes) != 1 {
		t.Fatalf("nodes = %d, want target only", len(doc.Nodes))
	}
	if doc.Nodes[0].Mesh == nil || *doc.Nodes[0].Mesh != 0 {
		t.Errorf("target mesh = %v, want 0", doc.Nodes[0].Mesh)
	}

	// Second merge: the target is occupied, so the mesh gets a child
	// node of its own.
	payload, err = MergeComponent(doc, payload, comp, 0)
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if len(doc.Nodes) != 2 {
		t.Fatalf("nodes = %d, want target plus mesh carrier", len(doc.Nodes))
	}
	if doc.Nodes[1].Mesh == nil || *doc.Nodes[1].Mesh != 1 {
		t.Errorf("carrier mesh = %v, want 1", doc.Nodes[1].Mesh)
	}
	if got := doc.Nodes[0].Children; len(got) != 1 || got[0] != 1 {
		t.Errorf("target children = %v, want [1]", got)
	}
	if err := doc.Validate(len(payload)); err != nil {
		t.Errorf("combined document invalid: %v", err)
	}
}

func TestMergeComponentTargetOutOfRange(t *testing.T) {
	doc := anchorDoc()
	comp := testComponent("part", bytes.Repeat([]byte{1}, 12))

	for _, target := range []int{-1, 1, 99} {
		if _, err := MergeComponent(doc, nil, comp, target); err == nil {
			t.Errorf("target %d: expected error, got nil", target)
		}
	}
}

func TestMergeComponentRoundTripAdditivity(t *testing.T) {
	doc := anchorDoc()
	comp := testComponent("part", bytes.Repeat([]byte{7}, 12))

	baseNodes, baseBuffers := len(doc.Nodes), len(doc.Buffers)
	in := comp.Document

	payload, err := MergeComponent(doc, nil, comp, 0)
	if err != nil {
		t.Fatalf("MergeComponent: %v", err)
	}

	data, err := (&glb.File{Document: doc, Payload: payload}).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := glb.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	out := decoded.Document
	if len(out.Nodes) != baseNodes+len(in.Nodes) {
		t.Errorf("nodes = %d, want %d", len(out.Nodes), baseNodes+len(in.Nodes))
	}
	if len(out.Meshes) != len(in.Meshes) {
		t.Errorf("meshes = %d, want %d", len(out.Meshes), len(in.Meshes))
	}
	if len(out.Accessors) != len(in.Accessors) {
		t.Errorf("accessors = %d, want %d", len(out.Accessors), len(in.Accessors))
	}
	if len(out.BufferViews) != len(in.BufferViews) {
		t.Errorf("bufferViews = %d, want %d", len(out.BufferViews), len(in.BufferViews))
	}
	if len(out.Buffers) != baseBuffers+len(in.Buffers) {
		t.Errorf("buffers = %d, want %d", len(out.Buffers), baseBuffers+len(in.Buffers))
	}
}
