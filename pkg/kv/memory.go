package kv

import (
	"bytes"
	"context"
	"iter"
	"sort"
	"strings"
	"sync"
)

// Memory is a Store held in a map. It is safe for concurrent use and is what
// tests run against.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key Key) ([]byte, error) {
	m.mu.RLock()
	v, ok := m.data[string(encode(key))]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (m *Memory) Scan(_ context.Context, prefix Key) iter.Seq2[Entry, error] {
	p := string(scanPrefix(prefix))

	m.mu.RLock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	entries := make([]Entry, 0, len(keys))
	sort.Strings(keys)
	for _, k := range keys {
		entries = append(entries, Entry{Key: decode([]byte(k)), Value: bytes.Clone(m.data[k])})
	}
	m.mu.RUnlock()

	return func(yield func(Entry, error) bool) {
		for _, e := range entries {
			if !yield(e, nil) {
				return
			}
		}
	}
}

func (m *Memory) Apply(ctx context.Context, b *Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range b.ops {
		switch o.kind {
		case opPut:
			m.data[string(encode(o.key))] = bytes.Clone(o.value)
		case opDelete:
			delete(m.data, string(encode(o.key)))
		case opDeletePrefix:
			p := string(scanPrefix(o.key))
			for k := range m.data {
				if strings.HasPrefix(k, p) {
					delete(m.data, k)
				}
			}
		}
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}
