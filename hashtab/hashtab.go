// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package hashtab implements a chained hash table keyed by strings.
//
// A Table differs from a built-in map in two ways that matter for JSON
// objects: it permits duplicate keys, and it remembers the order in which
// entries were inserted. New entries are pushed onto the front of their bucket
// chain, so a lookup returns the most recently inserted entry for a key and
// earlier entries with the same key remain reachable through LookupAll.
package hashtab

import (
	"iter"

	"github.com/cespare/xxhash/v2"
)

const (
	minBuckets = 8

	// The table grows when len > loadNum/loadDen * buckets.
	loadNum = 3
	loadDen = 4
)

// A HashFunc maps a key to a hash value. Only the low-order bits are used to
// select a bucket, so the function should mix well.
type HashFunc func(key string) uint64

// DefaultHash is the hash function used by New.
func DefaultHash(key string) uint64 { return xxhash.Sum64String(key) }

// An entry is a single key-value pair linked into a bucket chain.
type entry[V any] struct {
	key   string
	value V
	next  *entry[V]
}

// A Table is a chained hash table mapping string keys to values of type V.
// The zero value is not ready for use; construct a Table with New or NewHash.
type Table[V any] struct {
	hash    HashFunc
	buckets []*entry[V]
	order   []*entry[V] // all entries in insertion order
}

// New constructs an empty table using DefaultHash.
func New[V any]() *Table[V] { return NewHash[V](DefaultHash) }

// NewHash constructs an empty table that uses h to select buckets.
// If h == nil, DefaultHash is used.
func NewHash[V any](h HashFunc) *Table[V] {
	if h == nil {
		h = DefaultHash
	}
	return &Table[V]{hash: h, buckets: make([]*entry[V], minBuckets)}
}

// Len reports the number of entries in t, including duplicates.
func (t *Table[V]) Len() int { return len(t.order) }

// Buckets reports the current number of buckets in t.
func (t *Table[V]) Buckets() int { return len(t.buckets) }

func (t *Table[V]) index(key string) int {
	return int(t.hash(key) & uint64(len(t.buckets)-1))
}

// Insert adds key and value to t. It does not check for an existing entry
// with the same key: the new entry shadows it for Lookup.
func (t *Table[V]) Insert(key string, value V) {
	if (len(t.order)+1)*loadDen > len(t.buckets)*loadNum {
		t.resize(2 * len(t.buckets))
	}
	e := &entry[V]{key: key, value: value}
	i := t.index(key)
	e.next = t.buckets[i]
	t.buckets[i] = e
	t.order = append(t.order, e)
}

// resize rebuilds the bucket chains with n buckets. Entries are relinked in
// insertion order, so within each chain the newest entry is still first.
func (t *Table[V]) resize(n int) {
	t.buckets = make([]*entry[V], n)
	for _, e := range t.order {
		i := t.index(e.key)
		e.next = t.buckets[i]
		t.buckets[i] = e
	}
}

// Lookup returns the value of the most recently inserted entry for key, and
// reports whether any such entry was found.
func (t *Table[V]) Lookup(key string) (V, bool) {
	for e := t.buckets[t.index(key)]; e != nil; e = e.next {
		if e.key == key {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// LookupAll returns an iterator over the values of all entries for key,
// most recently inserted first.
func (t *Table[V]) LookupAll(key string) iter.Seq[V] {
	return func(yield func(V) bool) {
		for e := t.buckets[t.index(key)]; e != nil; e = e.next {
			if e.key == key && !yield(e.value) {
				return
			}
		}
	}
}

// All returns an iterator over all the entries of t in insertion order.
func (t *Table[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, e := range t.order {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Chain returns the keys in the bucket chain that holds key, in chain order.
// It is intended for tests and diagnostics.
func (t *Table[V]) Chain(key string) []string {
	var out []string
	for e := t.buckets[t.index(key)]; e != nil; e = e.next {
		out = append(out, e.key)
	}
	return out
}
