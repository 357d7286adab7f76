// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package plumbing holds the low-level content-addressing primitives
// shared by the object store, the revision walker and the blame engine.
package plumbing

import (
	"encoding/hex"
	"fmt"
	"hash"
	"sort"

	"github.com/zeebo/blake3"
)

// HashSize is the width in bytes of a content digest.
const HashSize = 32

// Hash is a BLAKE3 content digest identifying one object (blob, tree, or
// commit) in the store.
type Hash [HashSize]byte

// ZeroHash is the empty Hash value.
var ZeroHash Hash

// NewHash decodes a hex string into a Hash. Malformed input yields a
// partially-filled or zero Hash; callers that need to detect malformed
// input should use NewHashEx.
func NewHash(s string) Hash {
	b, _ := hex.DecodeString(s)
	var h Hash
	copy(h[:], b)
	return h
}

// NewHashEx decodes a hex string into a Hash, rejecting malformed input.
func NewHashEx(s string) (Hash, error) {
	if len(s) != HashSize*2 {
		return ZeroHash, fmt.Errorf("plumbing: %q is not a valid object name", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return ZeroHash, fmt.Errorf("plumbing: %q is not a valid object name: %w", s, err)
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

func (h Hash) IsZero() bool { return h == ZeroHash }

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// Short returns the first n hex characters of the digest, clamped to the
// full digest length.
func (h Hash) Short(n int) string {
	s := h.String()
	if n >= len(s) {
		return s
	}
	return s[:n]
}

// HashesSort sorts a slice of Hashes in increasing byte order.
func HashesSort(a []Hash) { sort.Sort(HashSlice(a)) }

// HashSlice attaches sort.Interface to []Hash.
type HashSlice []Hash

func (p HashSlice) Len() int           { return len(p) }
func (p HashSlice) Less(i, j int) bool { return lessBytes(p[i][:], p[j][:]) }
func (p HashSlice) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

func lessBytes(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Hasher incrementally computes a content Hash.
type Hasher struct {
	hash.Hash
}

// NewHasher returns a Hasher using the store's content digest algorithm.
func NewHasher() Hasher { return Hasher{Hash: blake3.New()} }

// Sum finalizes the hash.
func (h Hasher) Sum() (out Hash) {
	copy(out[:], h.Hash.Sum(nil))
	return
}

// SumBytes hashes b in one call.
func SumBytes(b []byte) Hash {
	h := NewHasher()
	_, _ = h.Write(b)
	return h.Sum()
}
