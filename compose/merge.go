package compose

import (
	"github.com/wippyai/glb-compose/errors"
	"github.com/wippyai/glb-compose/glb"
	"github.com/wippyai/glb-compose/gltf"
)

// payloadAlign keeps every component's bytes 4-aligned within the
// concatenated payload, matching accessor alignment rules.
const payloadAlign = 4

// MergeComponent attaches component's entire table graph under
// doc.Nodes[target] and appends its binary payload, returning the
// grown payload. Every incoming index is shifted by the pre-merge
// length of its table; incoming byte offsets become absolute offsets
// into the concatenated payload.
//
// The component is validated against its own payload before anything
// is touched, so a failed merge leaves doc and payload unchanged. The
// target node's transform already encodes placement: no matrices are
// multiplied, the incoming roots keep their authored local transforms.
func MergeComponent(doc *gltf.Document, payload []byte, component *glb.File, target int) ([]byte, error) {
	if target < 0 || target >= len(doc.Nodes) {
		return nil, errors.OutOfBounds(errors.PhaseMerge, []string{"nodes"}, target, len(doc.Nodes))
	}

	in := component.Document
	if err := in.Validate(len(component.Payload)); err != nil {
		return nil, errors.Wrap(errors.PhaseMerge, errors.KindGraphIntegrity, err,
			"component document is internally inconsistent")
	}
	if len(in.Buffers) > 1 {
		return nil, errors.GraphIntegrity(errors.PhaseMerge,
			"component declares %d buffers; a self-contained container carries at most one", len(in.Buffers))
	}

	// Index offsets, fixed before any append.
	nodeOff := len(doc.Nodes)
	meshOff := len(doc.Meshes)
	materialOff := len(doc.Materials)
	textureOff := len(doc.Textures)
	samplerOff := len(doc.Samplers)
	imageOff := len(doc.Images)
	accessorOff := len(doc.Accessors)
	viewOff := len(doc.BufferViews)
	bufferOff := len(doc.Buffers)

	// Alignment bytes belong to the previous segment's declared length
	// so that buffer lengths keep summing to the payload length.
	pad := 0
	for len(payload)%payloadAlign != 0 {
		payload = append(payload, 0)
		pad++
	}
	if pad > 0 && len(doc.Buffers) > 0 {
		doc.Buffers[len(doc.Buffers)-1].ByteLength += pad
	}
	payloadBase := len(payload)
	payload = append(payload, component.Payload...)

	for _, n := range in.Nodes {
		n.Children = offsetSlice(n.Children, nodeOff)
		n.Mesh = offsetPtr(n.Mesh, meshOff)
		doc.Nodes = append(doc.Nodes, n)
	}

	for _, m := range in.Meshes {
		prims := make([]gltf.Primitive, len(m.Primitives))
		for i, p := range m.Primitives {
			attrs := make(map[string]int, len(p.Attributes))
			for k, v := range p.Attributes {
				attrs[k] = v + accessorOff
			}
			p.Attributes = attrs
			p.Indices = offsetPtr(p.Indices, accessorOff)
			p.Material = offsetPtr(p.Material, materialOff)
			prims[i] = p
		}
		m.Primitives = prims
		doc.Meshes = append(doc.Meshes, m)
	}

	for _, mat := range in.Materials {
		if pbr := mat.PBRMetallicRoughness; pbr != nil {
			cp := *pbr
			cp.BaseColorTexture = offsetTextureInfo(pbr.BaseColorTexture, textureOff)
			cp.MetallicRoughnessTexture = offsetTextureInfo(pbr.MetallicRoughnessTexture, textureOff)
			mat.PBRMetallicRoughness = &cp
		}
		if nt := mat.NormalTexture; nt != nil {
			cp := *nt
			cp.Index += textureOff
			mat.NormalTexture = &cp
		}
		if ot := mat.OcclusionTexture; ot != nil {
			cp := *ot
			cp.Index += textureOff
			mat.OcclusionTexture = &cp
		}
		mat.EmissiveTexture = offsetTextureInfo(mat.EmissiveTexture, textureOff)
		doc.Materials = append(doc.Materials, mat)
	}

	for _, tex := range in.Textures {
		tex.Source = offsetPtr(tex.Source, imageOff)
		tex.Sampler = offsetPtr(tex.Sampler, samplerOff)
		doc.Textures = append(doc.Textures, tex)
	}

	doc.Samplers = append(doc.Samplers, in.Samplers...)

	for _, img := range in.Images {
		img.BufferView = offsetPtr(img.BufferView, viewOff)
		doc.Images = append(doc.Images, img)
	}

	for _, acc := range in.Accessors {
		acc.BufferView = offsetPtr(acc.BufferView, viewOff)
		doc.Accessors = append(doc.Accessors, acc)
	}

	for _, bv := range in.BufferViews {
		bv.Buffer += bufferOff
		bv.ByteOffset += payloadBase
		doc.BufferViews = append(doc.BufferViews, bv)
	}

	// The appended entry describes the segment actually written, not
	// the component's own declaration: a codec-padded payload may be
	// longer than the component declared.
	if len(in.Buffers) > 0 || len(component.Payload) > 0 {
		doc.Buffers = append(doc.Buffers, gltf.Buffer{ByteLength: len(component.Payload)})
	}

	var attach []int
	for _, root := range in.RootNodes() {
		attach = append(attach, root+nodeOff)
	}

	// A component without nodes of its own still carries geometry.
	// Its first mesh lands on the target node; any further meshes get
	// a child node each, the way a node-bearing component would.
	if len(in.Nodes) == 0 {
		for i := range in.Meshes {
			mi := meshOff + i
			if doc.Nodes[target].Mesh == nil {
				doc.Nodes[target].Mesh = &mi
				continue
			}
			doc.Nodes = append(doc.Nodes, gltf.Node{Name: in.Meshes[i].Name, Mesh: &mi})
			attach = append(attach, len(doc.Nodes)-1)
		}
	}

	doc.Nodes[target].Children = append(doc.Nodes[target].Children, attach...)

	return payload, nil
}

func offsetPtr(p *int, off int) *int {
	if p == nil {
		return nil
	}
	v := *p + off
	return &v
}

func offsetSlice(s []int, off int) []int {
	if len(s) == 0 {
		return nil
	}
	out := make([]int, len(s))
	for i, v := range s {
		out[i] = v + off
	}
	return out
}

func offsetTextureInfo(ti *gltf.TextureInfo, off int) *gltf.TextureInfo {
	if ti == nil {
		return nil
	}
	cp := *ti
	cp.Index += off
	return &cp
}
