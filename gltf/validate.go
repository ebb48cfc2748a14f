package gltf

import "fmt"

// Validate checks the document for structural validity: every
// cross-table reference resolves, and every bufferView lies inside the
// binary payload of payloadLen bytes. Pass a negative payloadLen to
// skip payload range checks.
func (d *Document) Validate(payloadLen int) error {
	if err := d.validateScenes(); err != nil {
		return err
	}
	if err := d.validateNodes(); err != nil {
		return err
	}
	if err := d.validateMeshes(); err != nil {
		return err
	}
	if err := d.validateMaterials(); err != nil {
		return err
	}
	if err := d.validateTextures(); err != nil {
		return err
	}
	if err := d.validateImages(); err != nil {
		return err
	}
	if err := d.validateAccessors(); err != nil {
		return err
	}
	if err := d.validateBufferViews(payloadLen); err != nil {
		return err
	}
	if err := d.validateBuffers(payloadLen); err != nil {
		return err
	}
	return nil
}

func (d *Document) validateScenes() error {
	if d.Scene != nil && (*d.Scene < 0 || *d.Scene >= len(d.Scenes)) {
		return fmt.Errorf("scene index %d out of range (%d scenes)", *d.Scene, len(d.Scenes))
	}
	for i, s := range d.Scenes {
		for _, n := range s.Nodes {
			if n < 0 || n >= len(d.Nodes) {
				return fmt.Errorf("scene %d references node %d (%d nodes)", i, n, len(d.Nodes))
			}
		}
	}
	return nil
}

func (d *Document) validateNodes() error {
	for i, n := range d.Nodes {
		if n.Mesh != nil && (*n.Mesh < 0 || *n.Mesh >= len(d.Meshes)) {
			return fmt.Errorf("node %d references mesh %d (%d meshes)", i, *n.Mesh, len(d.Meshes))
		}
		if len(n.Matrix) != 0 && len(n.Matrix) != 16 {
			return fmt.Errorf("node %d matrix has %d elements", i, len(n.Matrix))
		}
		for _, c := range n.Children {
			if c < 0 || c >= len(d.Nodes) {
				return fmt.Errorf("node %d references child %d (%d nodes)", i, c, len(d.Nodes))
			}
			if c == i {
				return fmt.Errorf("node %d is its own child", i)
			}
		}
	}
	return nil
}

func (d *Document) validateMeshes() error {
	for i, m := range d.Meshes {
		for j, p := range m.Primitives {
			for attr, a := range p.Attributes {
				if a < 0 || a >= len(d.Accessors) {
					return fmt.Errorf("mesh %d primitive %d attribute %s references accessor %d (%d accessors)",
						i, j, attr, a, len(d.Accessors))
				}
			}
			if p.Indices != nil && (*p.Indices < 0 || *p.Indices >= len(d.Accessors)) {
				return fmt.Errorf("mesh %d primitive %d references index accessor %d (%d accessors)",
					i, j, *p.Indices, len(d.Accessors))
			}
			if p.Material != nil && (*p.Material < 0 || *p.Material >= len(d.Materials)) {
				return fmt.Errorf("mesh %d primitive %d references material %d (%d materials)",
					i, j, *p.Material, len(d.Materials))
			}
		}
	}
	return nil
}

func (d *Document) validateMaterials() error {
	check := func(i int, what string, ti *TextureInfo) error {
		if ti != nil && (ti.Index < 0 || ti.Index >= len(d.Textures)) {
			return fmt.Errorf("material %d %s references texture %d (%d textures)", i, what, ti.Index, len(d.Textures))
		}
		return nil
	}
	for i, m := range d.Materials {
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			if err := check(i, "baseColorTexture", pbr.BaseColorTexture); err != nil {
				return err
			}
			if err := check(i, "metallicRoughnessTexture", pbr.MetallicRoughnessTexture); err != nil {
				return err
			}
		}
		if m.NormalTexture != nil && (m.NormalTexture.Index < 0 || m.NormalTexture.Index >= len(d.Textures)) {
			return fmt.Errorf("material %d normalTexture references texture %d (%d textures)",
				i, m.NormalTexture.Index, len(d.Textures))
		}
		if m.OcclusionTexture != nil && (m.OcclusionTexture.Index < 0 || m.OcclusionTexture.Index >= len(d.Textures)) {
			return fmt.Errorf("material %d occlusionTexture references texture %d (%d textures)",
				i, m.OcclusionTexture.Index, len(d.Textures))
		}
		if err := check(i, "emissiveTexture", m.EmissiveTexture); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) validateTextures() error {
	for i, t := range d.Textures {
		if t.Source != nil && (*t.Source < 0 || *t.Source >= len(d.Images)) {
			return fmt.Errorf("texture %d references image %d (%d images)", i, *t.Source, len(d.Images))
		}
		if t.Sampler != nil && (*t.Sampler < 0 || *t.Sampler >= len(d.Samplers)) {
			return fmt.Errorf("texture %d references sampler %d (%d samplers)", i, *t.Sampler, len(d.Samplers))
		}
	}
	return nil
}

func (d *Document) validateImages() error {
	for i, img := range d.Images {
		if img.BufferView != nil && (*img.BufferView < 0 || *img.BufferView >= len(d.BufferViews)) {
			return fmt.Errorf("image %d references bufferView %d (%d bufferViews)", i, *img.BufferView, len(d.BufferViews))
		}
	}
	return nil
}

func (d *Document) validateAccessors() error {
	for i, a := range d.Accessors {
		if a.BufferView != nil && (*a.BufferView < 0 || *a.BufferView >= len(d.BufferViews)) {
			return fmt.Errorf("accessor %d references bufferView %d (%d bufferViews)", i, *a.BufferView, len(d.BufferViews))
		}
		if a.ByteOffset < 0 {
			return fmt.Errorf("accessor %d has negative byteOffset %d", i, a.ByteOffset)
		}
	}
	return nil
}

func (d *Document) validateBufferViews(payloadLen int) error {
	for i, bv := range d.BufferViews {
		if bv.Buffer < 0 || bv.Buffer >= len(d.Buffers) {
			return fmt.Errorf("bufferView %d references buffer %d (%d buffers)", i, bv.Buffer, len(d.Buffers))
		}
		if bv.ByteOffset < 0 || bv.ByteLength < 0 {
			return fmt.Errorf("bufferView %d has negative range (%d, %d)", i, bv.ByteOffset, bv.ByteLength)
		}
		if payloadLen >= 0 && bv.ByteOffset+bv.ByteLength > payloadLen {
			return fmt.Errorf("bufferView %d range [%d, %d) exceeds payload length %d",
				i, bv.ByteOffset, bv.ByteOffset+bv.ByteLength, payloadLen)
		}
	}
	return nil
}

func (d *Document) validateBuffers(payloadLen int) error {
	if payloadLen < 0 {
		return nil
	}
	total := 0
	for i, b := range d.Buffers {
		if b.ByteLength < 0 {
			return fmt.Errorf("buffer %d has negative byteLength %d", i, b.ByteLength)
		}
		if b.URI == "" {
			total += b.ByteLength
		}
	}
	// The payload may carry up to 3 trailing alignment bytes beyond the
	// declared buffer lengths.
	if total > payloadLen {
		return fmt.Errorf("declared buffer lengths (%d) exceed payload length %d", total, payloadLen)
	}
	return nil
}
