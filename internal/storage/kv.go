// Package storage persists the record collections as opaque JSON documents
// under three fixed keys. Every backend stores whole snapshots; there is no
// incremental persistence.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	KeyExpenses    = "expenses"
	KeyIncome      = "income"
	KeyInvestments = "investments"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// KV is a string-keyed blob store with whole-value reads and writes.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EncodeCollection serializes a full collection. A nil slice encodes as [].
func EncodeCollection[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode collection: %w", err)
	}
	return b, nil
}

// DecodeCollection parses a stored collection, preserving order.
func DecodeCollection[T any](b []byte) ([]T, error) {
	var items []T
	if len(b) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	return items, nil
}

// LoadCollection reads key and decodes it; an absent key yields an empty collection.
func LoadCollection[T any](ctx context.Context, kv KV, key string) ([]T, error) {
	b, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	items, err := DecodeCollection[T](b)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return items, nil
}

// SaveCollection rewrites key with the full collection.
func SaveCollection[T any](ctx context.Context, kv KV, key string, items []T) error {
	b, err := EncodeCollection(items)
	if err != nil {
		return err
	}
	if err := kv.Set(ctx, key, b); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
