// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package blame

import (
	"context"

	"github.com/antgroup/zeta-blame/modules/difftree"
	"github.com/antgroup/zeta-blame/modules/object"
)

// maxRenameParents bounds how many of a merge commit's parents
// followRename will tree-diff against looking for the file's prior name;
// beyond that a merge is assumed too wide to search exhaustively and the
// path is simply treated as absent in every further parent.
const maxRenameParents = 16

// defaultRenameScore is passed through as difftree.Options.RenameScore;
// see its doc comment — difftree currently only pairs renames/copies by
// exact content hash, so this has no effect yet.
const defaultRenameScore = 50

// followRename looks for the path's name in one of commit's parents,
// first by the identical path (the common case: nothing was renamed),
// then by tree-diffing commit's tree against each parent's tree (up to
// maxRenameParents of them) and taking the first edit whose newer-side
// path equals path. It returns the parent commit, the
// path as it was known there, and the blob at that path, or ok=false if
// the path cannot be found in any inspected parent.
func followRename(ctx context.Context, commit *object.Commit, path string) (parent *object.Commit, parentPath string, blob *object.File, ok bool, err error) {
	n := commit.NumParents()
	if n == 0 {
		return nil, "", nil, false, nil
	}
	if n > maxRenameParents {
		n = maxRenameParents
	}

	for i := 0; i < n; i++ {
		p, perr := commit.ParentAt(ctx, i)
		if perr != nil {
			return nil, "", nil, false, perr
		}
		if f, ferr := p.File(ctx, path); ferr == nil {
			return p, path, f, true, nil
		}
	}

	targetTree, err := commit.Root(ctx)
	if err != nil {
		return nil, "", nil, false, err
	}
	opts := &difftree.Options{DetectRename: true, DetectCopy: false, RenameScore: defaultRenameScore}
	for i := 0; i < n; i++ {
		p, perr := commit.ParentAt(ctx, i)
		if perr != nil {
			return nil, "", nil, false, perr
		}
		parentTree, terr := p.Root(ctx)
		if terr != nil {
			return nil, "", nil, false, terr
		}
		edits, derr := difftree.Diff(ctx, targetTree, parentTree, opts)
		if derr != nil {
			return nil, "", nil, false, derr
		}
		for _, e := range edits {
			if e.Status != difftree.Rename || e.PathOne != path {
				continue
			}
			f, ferr := p.File(ctx, e.PathTwo)
			if ferr != nil {
				continue
			}
			return p, e.PathTwo, f, true, nil
		}
	}
	return nil, "", nil, false, nil
}
