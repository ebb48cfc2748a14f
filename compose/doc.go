// Package compose combines component scene containers into one.
//
// The pipeline is: resolve relationship metadata into transforms,
// build a transform tree from the asset graph, fetch each bound
// component file, merge every component's tables and payload into a
// single growing document, and serialize the result. Merges are
// strictly sequential; only fetches run concurrently.
package compose
