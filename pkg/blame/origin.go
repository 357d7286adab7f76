// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package blame

import (
	"context"

	"github.com/antgroup/zeta-blame/modules/object"
	"github.com/antgroup/zeta-blame/modules/plumbing"
)

// Origin identifies one blob in one commit's tree: a (commit, path,
// blob-digest) triple, compared by commit digest then path. Origins
// outlive any one partition and are shared by
// every partition that currently accuses them, so the cache below interns
// them by (commit, path) for the lifetime of one Scoreboard.
type Origin struct {
	Commit *object.Commit
	Path   string
	Blob   plumbing.Hash
}

type originKey struct {
	commit plumbing.Hash
	path   string
}

// originCache is a plain map scoped to one blame run (the Scoreboard),
// so two partitions that land on the
// same (commit, path) always share one *Origin and comparisons can use
// pointer identity instead of a deep equality check.
type originCache struct {
	byKey map[originKey]*Origin
}

func newOriginCache() *originCache {
	return &originCache{byKey: make(map[originKey]*Origin)}
}

// resolve looks up path inside commit's tree and returns the interned
// Origin, or object.ErrEntryNotFound if the path does not exist there.
func (c *originCache) resolve(ctx context.Context, commit *object.Commit, path string) (*Origin, error) {
	key := originKey{commit: commit.Hash, path: path}
	if o, ok := c.byKey[key]; ok {
		return o, nil
	}
	f, err := commit.File(ctx, path)
	if err != nil {
		return nil, err
	}
	o := &Origin{Commit: commit, Path: path, Blob: f.Hash}
	c.byKey[key] = o
	return o, nil
}

// intern returns the cached Origin for (commit, path), creating one from
// the already-known blob digest if this is the first time it's seen —
// used when the caller (e.g. the rename follower) already resolved the
// blob via a tree-diff edit and doesn't need another tree lookup.
func (c *originCache) intern(commit *object.Commit, path string, blob plumbing.Hash) *Origin {
	key := originKey{commit: commit.Hash, path: path}
	if o, ok := c.byKey[key]; ok {
		return o
	}
	o := &Origin{Commit: commit, Path: path, Blob: blob}
	c.byKey[key] = o
	return o
}

// Equal compares two origins by commit digest then path. Interned
// origins can also be compared with
// ==, which every lookup through resolve/intern guarantees is equivalent.
func (o *Origin) Equal(other *Origin) bool {
	if o == other {
		return true
	}
	if o == nil || other == nil {
		return false
	}
	return o.Commit.Hash == other.Commit.Hash && o.Path == other.Path
}
