// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package difftree implements the tree differ: a recursive,
// rename/copy-aware diff between two trees. It is grounded on
// antgroup-hugescm's modules/zeta/object change.go (Change/ChangeEntry,
// the Insert/Delete/Modify vocabulary) and TreeEntry.Renamed (same
// mode+hash test used to recognize an exact rename), generalized here
// into a deleted/added reconciliation pass that pairs by exact content
// hash. Non-exact (edited-while-renamed) pairing by similarity
// percentage is not implemented: Diff only sees tree entries, not blob
// content, so scoring would need a Backend threaded through the whole
// call chain down from pkg/blame/rename.go; see Options.RenameScore.
package difftree

import (
	"context"

	"github.com/antgroup/zeta-blame/modules/object"
	"github.com/antgroup/zeta-blame/modules/plumbing"
)

// Status is the tree differ's edit vocabulary: {A, M, D, R, C}.
type Status byte

const (
	Add      Status = 'A'
	Modify   Status = 'M'
	Delete   Status = 'D'
	Rename   Status = 'R'
	Copy     Status = 'C'
)

// Edit is one (status, path_one, path_two, blob_one, blob_two) record.
// For Add, only PathTwo/BlobTwo are set. For Delete, only PathOne/BlobOne.
// For Modify/Rename/Copy both sides are set; PathOne/BlobOne belong to
// tree a (conventionally the newer/"target" side of the call), PathTwo/
// BlobTwo belong to tree b (the "parent" side).
type Edit struct {
	Status        Status
	PathOne, PathTwo string
	BlobOne, BlobTwo plumbing.Hash
	ModeOne, ModeTwo object.FileMode
}

// Options configures a tree_diff call.
type Options struct {
	DetectRename bool
	DetectCopy   bool
	CopiesHarder bool
	// RenameScore is reserved for a future non-exact (edited-while-
	// renamed) similarity-scored pairing pass; only exact (same hash)
	// pairs are currently matched, so this has no effect yet. TODO:
	// thread a blob-reading Backend through Diff so pairRenamesAndCopies
	// can fall back to a content-similarity percentage against this
	// threshold when no exact hash match exists.
	RenameScore int
}

type fileEntry struct {
	path string
	mode object.FileMode
	hash plumbing.Hash
	size int64
}

func flatten(ctx context.Context, t *object.Tree) (map[string]fileEntry, error) {
	out := make(map[string]fileEntry)
	if t == nil {
		return out, nil
	}
	err := t.Walk(ctx, func(path string, e *object.TreeEntry) error {
		out[path] = fileEntry{path: path, mode: e.Mode, hash: e.Hash, size: e.Size}
		return nil
	})
	return out, err
}

// Diff compares tree a against tree b and returns edits. a and b may be
// nil (representing an empty tree).
func Diff(ctx context.Context, a, b *object.Tree, opts *Options) ([]Edit, error) {
	if opts == nil {
		opts = &Options{}
	}
	fa, err := flatten(ctx, a)
	if err != nil {
		return nil, err
	}
	fb, err := flatten(ctx, b)
	if err != nil {
		return nil, err
	}

	var edits []Edit
	deleted := make(map[string]fileEntry)
	added := make(map[string]fileEntry)

	for p, ea := range fa {
		if eb, ok := fb[p]; ok {
			if ea.hash != eb.hash || ea.mode != eb.mode {
				edits = append(edits, Edit{Status: Modify, PathOne: p, PathTwo: p, BlobOne: ea.hash, BlobTwo: eb.hash, ModeOne: ea.mode, ModeTwo: eb.mode})
			}
			continue
		}
		deleted[p] = ea
	}
	for p, eb := range fb {
		if _, ok := fa[p]; !ok {
			added[p] = eb
		}
	}

	if opts.DetectRename || opts.DetectCopy {
		pairRenamesAndCopies(&edits, deleted, added, opts)
	}
	if opts.CopiesHarder {
		pairCopiesHarder(&edits, fa, added)
	}

	for p, e := range deleted {
		edits = append(edits, Edit{Status: Delete, PathOne: p, BlobOne: e.hash, ModeOne: e.mode})
	}
	for p, e := range added {
		edits = append(edits, Edit{Status: Add, PathTwo: p, BlobTwo: e.hash, ModeTwo: e.mode})
	}
	return edits, nil
}

// pairRenamesAndCopies matches surviving deletions (path only in a) with
// additions (path only in b) by exact content hash only; pairs whose
// content differs are never matched and opts.RenameScore is not read. A
// match is a Rename when DetectRename is set, otherwise a Copy. Matched
// entries are removed from the deleted/added maps so the caller's
// leftover pass only emits true adds/deletes.
func pairRenamesAndCopies(edits *[]Edit, deleted, added map[string]fileEntry, opts *Options) {
	for dp, de := range deleted {
		for ap, ae := range added {
			if de.hash != ae.hash {
				continue
			}
			status := Rename
			if !opts.DetectRename {
				if !opts.DetectCopy {
					continue
				}
				status = Copy
			}
			*edits = append(*edits, Edit{Status: status, PathOne: dp, PathTwo: ap, BlobOne: de.hash, BlobTwo: ae.hash, ModeOne: de.mode, ModeTwo: ae.mode})
			delete(deleted, dp)
			delete(added, ap)
			break
		}
	}
}

// pairCopiesHarder searches every surviving file in tree a (not just
// deletions — a copy leaves its source in place) for content matching a
// still-unexplained addition: a "find-copies-harder" pass, the only one
// that looks beyond paths that actually changed.
func pairCopiesHarder(edits *[]Edit, fa map[string]fileEntry, added map[string]fileEntry) {
	byHash := make(map[plumbing.Hash]string, len(fa))
	for p, e := range fa {
		byHash[e.hash] = p
	}
	for ap, ae := range added {
		src, ok := byHash[ae.hash]
		if !ok || src == ap {
			continue
		}
		*edits = append(*edits, Edit{Status: Copy, PathOne: src, PathTwo: ap, BlobOne: ae.hash, BlobTwo: ae.hash, ModeOne: fa[src].mode, ModeTwo: ae.mode})
		delete(added, ap)
	}
}
