package export

import (
	"encoding/json"
	"fmt"
	"strings"
)

// combinableExt is the file extension of component scene containers.
const combinableExt = ".glb"

// FileReference names one stored file belonging to an asset.
type FileReference struct {
	FileName string `json:"fileName"`
	Key      string `json:"key"`
}

// Combinable reports whether the file is a component scene container.
func (f FileReference) Combinable() bool {
	return strings.HasSuffix(strings.ToLower(f.FileName), combinableExt)
}

// Asset is one asset record from the graph provider's export.
type Asset struct {
	AssetID           string          `json:"assetId"`
	AssetName         string          `json:"assetName"`
	IsRootLookupAsset bool            `json:"isRootLookupAsset"`
	Files             []FileReference `json:"files,omitempty"`
}

// CombinableFiles returns the asset's component containers in file order.
func (a Asset) CombinableFiles() []FileReference {
	var out []FileReference
	for _, f := range a.Files {
		if f.Combinable() {
			out = append(out, f)
		}
	}
	return out
}

// Relationship is one parent/child placement edge. InstanceAliasID
// disambiguates repeated placements of the same child asset; Metadata
// carries free-form transform metadata.
type Relationship struct {
	ParentAssetID   string         `json:"parentAssetId"`
	ChildAssetID    string         `json:"childAssetId"`
	InstanceAliasID string         `json:"instanceAliasId,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// Result is the asset-graph export consumed by the composition engine.
type Result struct {
	Assets        []Asset        `json:"assets"`
	Relationships []Relationship `json:"relationships"`
}

// ParseResult decodes an export payload.
func ParseResult(data []byte) (*Result, error) {
	r := &Result{}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parse export result: %w", err)
	}
	return r, nil
}

// CombinableAssetCount counts distinct assets carrying at least one
// component container, not total file count.
func (r *Result) CombinableAssetCount() int {
	n := 0
	for _, a := range r.Assets {
		for _, f := range a.Files {
			if f.Combinable() {
				n++
				break
			}
		}
	}
	return n
}

// RootAssets returns the assets flagged as hierarchy roots, in input order.
func (r *Result) RootAssets() []Asset {
	var out []Asset
	for _, a := range r.Assets {
		if a.IsRootLookupAsset {
			out = append(out, a)
		}
	}
	return out
}

// AssetByID looks an asset up by its identifier.
func (r *Result) AssetByID(id string) (Asset, bool) {
	for _, a := range r.Assets {
		if a.AssetID == id {
			return a, true
		}
	}
	return Asset{}, false
}
