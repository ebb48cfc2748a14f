package compose

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/glb-compose/errors"
	"github.com/wippyai/glb-compose/export"
)

// SceneNode is one position in the transform tree derived from the
// asset graph, prior to any geometry merge.
type SceneNode struct {
	Name      string
	Transform Transform
	Children  []int
}

// ComponentBinding ties a tree node to the component files whose
// geometry attaches under it. Keyed by the instance alias when the
// placing edge carried one, otherwise by the node index.
type ComponentBinding struct {
	Key       string
	NodeIndex int
	AssetID   string
	Files     []export.FileReference
}

// Tree is the output of BuildTree: the node hierarchy, the scene roots,
// and the bindings the merge pass will visit in creation order.
type Tree struct {
	Nodes    []SceneNode
	Roots    []int
	Bindings []ComponentBinding
	Warnings []string
}

// BuildTree derives the transform tree from the export's assets and
// relationship edges.
//
// Roots come from root-flagged assets. Edges are placed in passes:
// an edge whose parent asset has not been placed yet is retried after
// the current pass, so the input order of edges does not matter as
// long as the graph itself is consistent. A pass that places nothing
// while edges remain fails with a graph-integrity error, as does an
// edge naming a root asset as its child or a parent asset placed more
// than once (ambiguous instancing).
func BuildTree(assets []export.Asset, relationships []export.Relationship, opts Options) (*Tree, error) {
	assetByID := make(map[string]*export.Asset, len(assets))
	rootIDs := make(map[string]bool)
	for i := range assets {
		assetByID[assets[i].AssetID] = &assets[i]
		if assets[i].IsRootLookupAsset {
			rootIDs[assets[i].AssetID] = true
		}
	}

	t := &Tree{}

	// Placement map: asset ID to every node index it occupies.
	placed := make(map[string][]int)

	for i := range assets {
		a := &assets[i]
		if !a.IsRootLookupAsset {
			continue
		}
		idx := len(t.Nodes)
		t.Nodes = append(t.Nodes, SceneNode{
			Name:      SanitizeNodeName(a.AssetName),
			Transform: Transform{Kind: TransformIdentity},
		})
		t.Roots = append(t.Roots, idx)
		placed[a.AssetID] = append(placed[a.AssetID], idx)
		t.bind(idx, a, "")
	}

	if len(t.Roots) == 0 && len(assets) > 0 {
		return nil, errors.GraphIntegrity(errors.PhaseTree, "no root asset in export")
	}

	pending := make([]export.Relationship, len(relationships))
	copy(pending, relationships)

	for len(pending) > 0 {
		var deferred []export.Relationship
		progressed := false

		for _, rel := range pending {
			if rootIDs[rel.ChildAssetID] {
				return nil, errors.GraphIntegrity(errors.PhaseTree,
					"root asset %s cannot be a relationship child", rel.ChildAssetID)
			}

			parents, ok := placed[rel.ParentAssetID]
			if !ok {
				deferred = append(deferred, rel)
				continue
			}
			if len(parents) > 1 {
				return nil, errors.GraphIntegrity(errors.PhaseTree,
					"parent asset %s is placed %d times; nested instancing is ambiguous",
					rel.ParentAssetID, len(parents))
			}

			child, ok := assetByID[rel.ChildAssetID]
			if !ok {
				return nil, errors.GraphIntegrity(errors.PhaseTree,
					"edge references unknown child asset %s", rel.ChildAssetID)
			}

			tf, err := ResolveTransform(rel.Metadata)
			if err != nil {
				if !opts.LenientMetadata {
					return nil, err
				}
				warning := "unparseable transform metadata for edge " +
					rel.ParentAssetID + " -> " + rel.ChildAssetID + ", using identity"
				t.Warnings = append(t.Warnings, warning)
				Logger().Warn("substituting identity transform",
					zap.String("parent", rel.ParentAssetID),
					zap.String("child", rel.ChildAssetID),
					zap.Error(err))
				tf = Transform{Kind: TransformIdentity}
			}

			name := SanitizeNodeName(child.AssetName)
			if rel.InstanceAliasID != "" {
				name += "__" + SanitizeNodeName(rel.InstanceAliasID)
			}

			idx := len(t.Nodes)
			t.Nodes = append(t.Nodes, SceneNode{Name: name, Transform: tf})
			parent := parents[0]
			t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
			placed[rel.ChildAssetID] = append(placed[rel.ChildAssetID], idx)
			t.bind(idx, child, rel.InstanceAliasID)
			progressed = true
		}

		if !progressed {
			return nil, errors.GraphIntegrity(errors.PhaseTree,
				"%d edge(s) have no placed parent (first: %s -> %s)",
				len(deferred), deferred[0].ParentAssetID, deferred[0].ChildAssetID)
		}
		pending = deferred
	}

	return t, nil
}

// bind records a component binding for the node when the asset carries
// combinable files. Structural assets contribute no binding.
func (t *Tree) bind(nodeIndex int, asset *export.Asset, alias string) {
	files := asset.CombinableFiles()
	if len(files) == 0 {
		return
	}
	key := alias
	if key == "" {
		key = strconv.Itoa(nodeIndex)
	}
	t.Bindings = append(t.Bindings, ComponentBinding{
		Key:       key,
		NodeIndex: nodeIndex,
		AssetID:   asset.AssetID,
		Files:     files,
	})
}
