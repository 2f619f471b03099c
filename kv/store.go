// Package kv declares the contract of the ordered, transactional
// key-value store every other package in this module treats as an
// external collaborator (spec §6 "Store contract"). Nothing in this
// package talks to a real database; kv/memtest provides an in-memory
// reference implementation used only by tests.
package kv

import (
	"context"
)

// KV is a single key/value pair as returned by a range scan.
type KV struct {
	Key   []byte
	Value []byte
}

// Reader is the read surface of a transaction.
type Reader interface {
	// GetValue fetches a single key, returning (nil, nil) if absent.
	GetValue(ctx context.Context, key []byte, snapshot bool) ([]byte, error)

	// GetRange streams [begin, end) in lexicographic key order. The
	// returned channel is closed when the range is exhausted, the
	// context is cancelled, or the Store errors — the terminal error,
	// if any, is delivered via errCh before both channels close.
	GetRange(ctx context.Context, begin, end []byte, snapshot bool) (<-chan KV, <-chan error)
}

// Writer is the write surface of a transaction.
type Writer interface {
	SetValue(key, value []byte)
	Clear(key []byte)
	ClearRange(begin, end []byte)
}

// Transaction composes the read and write surfaces available to a single
// Store transaction body.
type Transaction interface {
	Reader
	Writer
}

// TxConfig carries per-call options a Store implementation may honor;
// its only option is ReadYourWrites.
type TxConfig struct {
	ReadYourWrites bool
}

// Store is the full external contract: transaction lifecycle plus the
// key-size validator every Maintainer write must consult before it packs
// a row (§4.1 "packed key exceeds the Store limit").
type Store interface {
	// WithTransaction retries body on a retryable conflict per the
	// Store's own protocol; body must be idempotent.
	WithTransaction(ctx context.Context, cfg TxConfig, body func(ctx context.Context, tx Transaction) error) error

	// KeySizeLimit returns the maximum key length the Store accepts.
	KeySizeLimit() int
}
