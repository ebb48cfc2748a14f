package compose

import (
	"context"
	stderrors "errors"
	"path"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/glb-compose/errors"
	"github.com/wippyai/glb-compose/export"
	"github.com/wippyai/glb-compose/glb"
	"github.com/wippyai/glb-compose/gltf"
	"github.com/wippyai/glb-compose/storage"
)

// Summary describes a completed combine for reporting.
type Summary struct {
	AssetsProcessed     int
	ComponentsCombined  int
	OutputSize          int64
	OutputSizeFormatted string
	Warnings            []string
}

// CombineResult carries the serialized container and its summary.
type CombineResult struct {
	GLB     []byte
	Summary Summary
}

// Combine builds one container from an asset-graph export. Component
// files are prefetched concurrently through reader, then merged
// strictly in tree creation order: every merge depends on the offsets
// established by the merges before it. The call either returns a
// complete, valid container or an error with nothing written.
func Combine(ctx context.Context, result *export.Result, reader storage.Reader, opts Options) (*CombineResult, error) {
	report := opts.progress()

	report(StageValidate, 0, 1)
	if result.CombinableAssetCount() == 0 {
		return nil, errors.Validation("export contains no combinable component files")
	}
	report(StageValidate, 1, 1)

	report(StageTree, 0, 1)
	tree, err := BuildTree(result.Assets, result.Relationships, opts)
	if err != nil {
		return nil, err
	}
	report(StageTree, 1, 1)

	Logger().Info("combining export",
		zap.Int("assets", len(result.Assets)),
		zap.Int("tree_nodes", len(tree.Nodes)),
		zap.Int("bindings", len(tree.Bindings)))

	fetched, err := prefetch(ctx, reader, tree.Bindings, opts.workers(), report)
	if err != nil {
		return nil, err
	}

	// Seed the combined document from the tree: node i in the document
	// is tree node i, so binding indices carry over unchanged.
	doc := gltf.NewDocument()
	for _, tn := range tree.Nodes {
		node := gltf.Node{Name: tn.Name, Children: tn.Children}
		if !tn.Transform.IsIdentity() {
			m := tn.Transform.Matrix()
			node.Matrix = m[:]
		}
		doc.Nodes = append(doc.Nodes, node)
	}
	doc.Scenes[0].Nodes = tree.Roots

	var payload []byte
	combined := 0
	totalFiles := 0
	for _, b := range tree.Bindings {
		totalFiles += len(b.Files)
	}
	report(StageMerge, 0, totalFiles)

	for _, binding := range tree.Bindings {
		for _, file := range binding.Files {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(errors.PhaseCombine, errors.KindInternal, err, "combine canceled")
			}

			component, err := glb.Decode(fetched[file.Key])
			if err != nil {
				return nil, errors.Format(errors.PhaseDecode, file.Key, err)
			}
			nameMeshes(component.Document, file.FileName)

			payload, err = MergeComponent(doc, payload, component, binding.NodeIndex)
			if err != nil {
				return nil, errors.Wrap(errors.PhaseMerge, errors.KindGraphIntegrity, err,
					"merging "+file.Key)
			}
			combined++
			report(StageMerge, combined, totalFiles)
			Logger().Debug("merged component",
				zap.String("key", file.Key),
				zap.String("node", tree.Nodes[binding.NodeIndex].Name),
				zap.Int("payload_bytes", len(payload)))
		}
	}

	report(StageEncode, 0, 1)
	out, err := (&glb.File{Document: doc, Payload: payload}).Encode()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindFormat, err, "serializing combined container")
	}
	report(StageEncode, 1, 1)

	summary := Summary{
		AssetsProcessed:     len(result.Assets),
		ComponentsCombined:  combined,
		OutputSize:          int64(len(out)),
		OutputSizeFormatted: FormatFileSize(int64(len(out))),
		Warnings:            tree.Warnings,
	}
	Logger().Info("combine complete",
		zap.Int("components", summary.ComponentsCombined),
		zap.String("size", summary.OutputSizeFormatted),
		zap.Int("warnings", len(summary.Warnings)))

	return &CombineResult{GLB: out, Summary: summary}, nil
}

// prefetch reads every distinct bound storage key with a bounded pool.
// Fetches have no shared mutable state, so their order is free; merge
// order is not affected.
func prefetch(ctx context.Context, reader storage.Reader, bindings []ComponentBinding, workers int, report ProgressFunc) (map[string][]byte, error) {
	keys := make([]string, 0, len(bindings))
	seen := make(map[string]bool)
	for _, b := range bindings {
		for _, f := range b.Files {
			if !seen[f.Key] {
				seen[f.Key] = true
				keys = append(keys, f.Key)
			}
		}
	}
	report(StageFetch, 0, len(keys))

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		fetched  = make(map[string][]byte, len(keys))
		done     = 0
		firstErr error
	)
	sem := make(chan struct{}, workers)

	for _, key := range keys {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			mu.Lock()
			failed := firstErr != nil
			mu.Unlock()
			if failed {
				return
			}

			data, err := reader.Read(ctx, key)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					if stderrors.Is(err, storage.ErrNotFound) {
						firstErr = errors.NotFound(key, err)
					} else {
						firstErr = errors.Wrap(errors.PhaseStorage, errors.KindInternal, err, "reading "+key)
					}
				}
				return
			}
			fetched[key] = data
			done++
			report(StageFetch, done, len(keys))
		}(key)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return fetched, nil
}

// nameMeshes renames every incoming mesh after the source file's stem,
// replacing author names, so merged geometry is traceable to the file
// it came from. Multi-mesh files get an index suffix.
func nameMeshes(doc *gltf.Document, fileName string) {
	stem := strings.TrimSuffix(path.Base(fileName), path.Ext(fileName))
	name := SanitizeNodeName(stem)
	for i := range doc.Meshes {
		if len(doc.Meshes) == 1 {
			doc.Meshes[i].Name = name
		} else {
			doc.Meshes[i].Name = name + "_" + strconv.Itoa(i)
		}
	}
}
