// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package revwalk implements the revision walker: given positive and
// negative starting revisions, mark everything reachable from a
// negative revision "uninteresting" and expose a max-age cutoff. The
// blame driver (pkg/blame) consults the resulting set before spending a
// propagation step on a commit.
package revwalk

import (
	"context"
	"time"

	"github.com/emirpasic/gods/trees/binaryheap"

	"github.com/antgroup/zeta-blame/modules/object"
	"github.com/antgroup/zeta-blame/modules/plumbing"
)

// Walker enumerates a commit DAG newest-committer-time first, the same
// order antgroup-hugescm's commitIteratorByCTime uses, marking commits
// reachable only from negative revisions as uninteresting.
type Walker struct {
	b       object.Backend
	maxAge  time.Time
	seen    map[plumbing.Hash]bool
	unwanted map[plumbing.Hash]bool
}

// New creates a Walker. positives are the revisions blame should consider
// (typically just the target commit); negatives are revisions whose
// ancestry should be masked uninteresting (e.g. from `git blame A..B`-style
// invocations); maxAge is the oldest commit time the driver should still
// chase parents past (zero time means no cutoff).
func New(ctx context.Context, b object.Backend, positives, negatives []plumbing.Hash, maxAge time.Time) (*Walker, error) {
	w := &Walker{b: b, maxAge: maxAge, seen: make(map[plumbing.Hash]bool), unwanted: make(map[plumbing.Hash]bool)}
	for _, h := range negatives {
		if err := w.markUninteresting(ctx, h); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *Walker) markUninteresting(ctx context.Context, start plumbing.Hash) error {
	heap := binaryheap.NewWith(func(a, b any) int {
		ca, cb := a.(*object.Commit), b.(*object.Commit)
		if ca.Less(cb) {
			return 1
		}
		return -1
	})
	c, err := w.b.Commit(ctx, start)
	if err != nil {
		return err
	}
	heap.Push(c)
	visited := make(map[plumbing.Hash]bool)
	for {
		v, ok := heap.Pop()
		if !ok {
			return nil
		}
		cur := v.(*object.Commit)
		if visited[cur.Hash] {
			continue
		}
		visited[cur.Hash] = true
		w.unwanted[cur.Hash] = true
		for _, p := range cur.Parents {
			if visited[p] {
				continue
			}
			pc, err := w.b.Commit(ctx, p)
			if err != nil {
				return err
			}
			heap.Push(pc)
		}
	}
}

// Uninteresting reports whether c was found reachable from a negative
// revision.
func (w *Walker) Uninteresting(c *object.Commit) bool {
	return w.unwanted[c.Hash]
}

// TooOld reports whether c predates the configured max-age cutoff.
func (w *Walker) TooOld(c *object.Commit) bool {
	return !w.maxAge.IsZero() && c.Committer.When.Before(w.maxAge)
}

// ShouldExplore combines Uninteresting and TooOld into the single check
// the driver performs before running the propagator against a suspect's
// parents: a commit is worth exploring only if it is neither masked
// uninteresting nor older than max_age.
func (w *Walker) ShouldExplore(c *object.Commit) bool {
	return !w.Uninteresting(c) && !w.TooOld(c)
}
