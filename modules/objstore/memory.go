// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package objstore provides concrete object.Backend implementations: an
// in-memory map (used by every blame scenario test, and by tools that
// build a synthetic history) and a zstd-compressed loose-object disk
// store (used by the CLI against a real repository).
package objstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/antgroup/zeta-blame/modules/object"
	"github.com/antgroup/zeta-blame/modules/plumbing"
)

// Memory is an in-memory object.Backend. PutTree sorts the entries it is
// given by Name before storing them, so writers need not.
type Memory struct {
	mu      sync.RWMutex
	commits map[plumbing.Hash]*object.Commit
	trees   map[plumbing.Hash]*object.Tree
	blobs   map[plumbing.Hash]*object.Blob
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		commits: make(map[plumbing.Hash]*object.Commit),
		trees:   make(map[plumbing.Hash]*object.Tree),
		blobs:   make(map[plumbing.Hash]*object.Blob),
	}
}

// PutBlob hashes and stores data, returning its digest.
func (m *Memory) PutBlob(data []byte) plumbing.Hash {
	h := plumbing.SumBytes(data)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[h] = &object.Blob{Hash: h, Size: int64(len(data)), Data: data}
	return h
}

// PutTree hashes and stores entries (sorted by Name here), returning its
// digest.
func (m *Memory) PutTree(entries []object.TreeEntry) plumbing.Hash {
	sorted := append([]object.TreeEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	t := &object.Tree{Entries: sorted}
	data, _ := object.EncodedBytes(t.Encode)
	h := plumbing.SumBytes(data)
	m.mu.Lock()
	defer m.mu.Unlock()
	t2, _ := object.DecodeTree(bytesReader(data), m)
	m.trees[h] = t2
	return h
}

// PutCommit hashes and stores c (Hash is overwritten), returning its
// digest.
func (m *Memory) PutCommit(c *object.Commit) plumbing.Hash {
	data, _ := object.EncodedBytes(c.Encode)
	h := plumbing.SumBytes(data)
	c2, _ := object.DecodeCommit(h, bytesReader(data), m)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commits[h] = c2
	return h
}

func (m *Memory) Commit(_ context.Context, oid plumbing.Hash) (*object.Commit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.commits[oid]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("objstore: commit %s not found", oid)
}

func (m *Memory) Tree(_ context.Context, oid plumbing.Hash) (*object.Tree, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.trees[oid]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("objstore: tree %s not found", oid)
}

func (m *Memory) Blob(_ context.Context, oid plumbing.Hash) (*object.Blob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.blobs[oid]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("objstore: blob %s not found", oid)
}

func (m *Memory) Kind(_ context.Context, oid plumbing.Hash) (object.Kind, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch {
	case has(m.commits, oid):
		return object.CommitKind, nil
	case has(m.trees, oid):
		return object.TreeKind, nil
	case has(m.blobs, oid):
		return object.BlobKind, nil
	default:
		return object.InvalidKind, fmt.Errorf("objstore: object %s not found", oid)
	}
}

func has[V any](m map[plumbing.Hash]V, h plumbing.Hash) bool {
	_, ok := m[h]
	return ok
}
