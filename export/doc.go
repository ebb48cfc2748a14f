// Package export holds the asset-graph export types consumed by the
// composition engine: asset records with their stored files, and
// relationship edges carrying placement metadata. The graph provider
// that produces these is external; this package only reads them.
package export
