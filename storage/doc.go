// Package storage defines the reader collaborator the composition
// engine fetches component files through, plus directory- and
// memory-backed implementations. Missing objects are reported with
// ErrNotFound; retry and timeout policy belong to the implementation.
package storage
