// Package cache holds an in-process acceleration layer for compact
// blocks the worker pool has already converted. It is not a persistent,
// restart-surviving block store; this one is bounded, in-memory, and
// scoped to a single process run.
package cache

import "zindexer/internal/walletrpc"

// BlockCache stores recently converted CompactBlocks keyed by a caller
// chosen fingerprint (typically the block hash or height string).
type BlockCache interface {
	Get(fingerprint string) (*walletrpc.CompactBlock, bool)
	Put(fingerprint string, b *walletrpc.CompactBlock)
}
