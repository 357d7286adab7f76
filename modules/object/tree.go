// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"context"
	"errors"
	"path"
	"sort"
	"strings"

	"github.com/antgroup/zeta-blame/modules/plumbing"
)

// ErrEntryNotFound is returned when a path does not resolve inside a tree.
var ErrEntryNotFound = errors.New("object: entry not found")

// TreeEntry is one named child of a Tree.
type TreeEntry struct {
	Name string
	Mode FileMode
	Hash plumbing.Hash
	Size int64
}

// Renamed reports whether e and other are the same blob under a
// possibly different name: equal mode and equal hash.
func (e *TreeEntry) Renamed(other *TreeEntry) bool {
	return e.Mode == other.Mode && e.Hash == other.Hash
}

// Tree is a flat, sorted directory listing; nested paths are modeled as
// Entries whose Mode is ModeDir and whose Hash resolves (via the same
// Backend) to a child Tree.
type Tree struct {
	Entries []TreeEntry
	b       Backend
}

func (t *Tree) entry(name string) (*TreeEntry, bool) {
	i := sort.Search(len(t.Entries), func(i int) bool { return t.Entries[i].Name >= name })
	if i < len(t.Entries) && t.Entries[i].Name == name {
		return &t.Entries[i], true
	}
	return nil, false
}

// FindEntry resolves a "/"-separated relative path to its TreeEntry,
// descending through child trees as needed.
func (t *Tree) FindEntry(ctx context.Context, relativePath string) (*TreeEntry, error) {
	relativePath = strings.Trim(path.Clean(relativePath), "/")
	if relativePath == "" || relativePath == "." {
		return nil, ErrEntryNotFound
	}
	cur := t
	parts := strings.Split(relativePath, "/")
	for i, part := range parts {
		e, ok := cur.entry(part)
		if !ok {
			return nil, ErrEntryNotFound
		}
		if i == len(parts)-1 {
			return e, nil
		}
		if !e.Mode.IsDir() {
			return nil, ErrEntryNotFound
		}
		child, err := cur.b.Tree(ctx, e.Hash)
		if err != nil {
			return nil, err
		}
		cur = child
	}
	return nil, ErrEntryNotFound
}

// File resolves path to a *File, or ErrEntryNotFound when the path is
// missing or is not a regular file.
func (t *Tree) File(ctx context.Context, p string) (*File, error) {
	e, err := t.FindEntry(ctx, p)
	if err != nil {
		return nil, err
	}
	if !e.Mode.IsFile() {
		return nil, ErrEntryNotFound
	}
	return newFile(p, e.Mode, e.Hash, e.Size, t.b), nil
}

// Walk enumerates every regular-file path under the tree, depth first,
// in entry order. It is the primitive the copy-harder tree differ
// (modules/difftree) and the cross-file copy search use to enumerate
// every file in a tree.
func (t *Tree) Walk(ctx context.Context, fn func(path string, e *TreeEntry) error) error {
	return t.walk(ctx, "", fn)
}

func (t *Tree) walk(ctx context.Context, prefix string, fn func(path string, e *TreeEntry) error) error {
	for i := range t.Entries {
		e := &t.Entries[i]
		p := e.Name
		if prefix != "" {
			p = prefix + "/" + e.Name
		}
		if e.Mode.IsDir() {
			child, err := t.b.Tree(ctx, e.Hash)
			if err != nil {
				return err
			}
			if err := child.walk(ctx, p, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(p, e); err != nil {
			return err
		}
	}
	return nil
}
