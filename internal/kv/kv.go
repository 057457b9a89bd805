// Package kv is the persistent key-value store the itinerary and journal
// are written to. Values are opaque strings, in practice JSON blobs.
package kv

import (
	"context"
	"errors"
)

var ErrEmptyKey = errors.New("kv: empty key")

// Store is a string-keyed store with whole-key replacement.
type Store interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	// Apply runs the ops as one atomic batch: either all are visible or none.
	Apply(ctx context.Context, ops ...Op) error
	Close() error
}

// Op is a single set or remove inside an Apply batch.
type Op struct {
	Key    string
	Value  string
	Delete bool
}

func SetOp(key, value string) Op {
	return Op{Key: key, Value: value}
}

func RemoveOp(key string) Op {
	return Op{Key: key, Delete: true}
}

func validateOps(ops []Op) error {
	for _, op := range ops {
		if op.Key == "" {
			return ErrEmptyKey
		}
	}
	return nil
}
