// Package kv is the key-value layer behind the editing workspace. Keys are
// paths of string segments joined with ':'; segments may contain any text,
// the separator included, because they are escaped on the way in.
//
// Writes go through Apply, which commits a Batch as one unit: either every
// operation of the batch is visible afterwards or none is.
package kv

import (
	"context"
	"errors"
	"iter"
	"strings"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Separator joins encoded key segments.
const Separator = ':'

// Key is a path of segments, e.g. Key{"ws", "n", "A101"}.
type Key []string

// String returns the encoded form of k.
func (k Key) String() string {
	return string(encode(k))
}

// Entry is one key and its value.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is a key-value store with path keys.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Scan iterates over the entries under prefix in key order. An empty
	// prefix scans the whole store.
	Scan(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// Apply commits every operation of b atomically, in the order they were
	// added.
	Apply(ctx context.Context, b *Batch) error

	// Close releases the store.
	Close() error
}

type opKind int

const (
	opPut opKind = iota
	opDelete
	opDeletePrefix
)

type op struct {
	kind  opKind
	key   Key
	value []byte
}

// Batch collects writes for Apply. The zero value is an empty batch.
type Batch struct {
	ops []op
}

// Put stores value under key.
func (b *Batch) Put(key Key, value []byte) *Batch {
	b.ops = append(b.ops, op{kind: opPut, key: key, value: value})
	return b
}

// Delete removes key. Deleting a missing key is not an error.
func (b *Batch) Delete(key Key) *Batch {
	b.ops = append(b.ops, op{kind: opDelete, key: key})
	return b
}

// DeletePrefix removes every key under prefix.
func (b *Batch) DeletePrefix(prefix Key) *Batch {
	b.ops = append(b.ops, op{kind: opDeletePrefix, key: prefix})
	return b
}

// Len returns the number of operations.
func (b *Batch) Len() int {
	return len(b.ops)
}

var (
	escaper   = strings.NewReplacer("%", "%25", string(Separator), "%3A")
	unescaper = strings.NewReplacer("%3A", string(Separator), "%25", "%")
)

func encode(k Key) []byte {
	var sb strings.Builder
	for i, seg := range k {
		if i > 0 {
			sb.WriteByte(Separator)
		}
		sb.WriteString(escaper.Replace(seg))
	}
	return []byte(sb.String())
}

func decode(b []byte) Key {
	parts := strings.Split(string(b), string(Separator))
	k := make(Key, len(parts))
	for i, p := range parts {
		k[i] = unescaper.Replace(p)
	}
	return k
}

// scanPrefix returns the encoded prefix a scan of prefix matches, with a
// trailing separator so "a:b" does not match "a:bc".
func scanPrefix(prefix Key) []byte {
	if len(prefix) == 0 {
		return nil
	}
	return append(encode(prefix), Separator)
}
