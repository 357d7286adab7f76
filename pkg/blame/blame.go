// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package blame implements line-level provenance over a content-addressed
// commit history: given a starting commit and a path, it resolves, for
// every line currently in that file, the earliest commit responsible for
// its content, following renames, intra-file moves, and cross-file
// copies along the way. The entry point mirrors antgroup-hugescm's
// pkg/zeta.Blame, but the resolution algorithm underneath — a
// partition-based scoreboard propagated one parent at a time — takes a
// different approach than a needs-map walk.
package blame

import (
	"context"
	"fmt"

	"github.com/antgroup/zeta-blame/modules/object"
)

// Result is the outcome of one blame run: the file's content at the
// starting commit, split into lines, paired with the fully resolved
// Partitions describing who is responsible for each one.
type Result struct {
	Commit     *object.Commit
	Path       string
	Lines      []string
	Partitions *Partitions
}

// Blame resolves line-level authorship for path as it exists at commit,
// the package's single public entry point.
func Blame(ctx context.Context, backend object.Backend, commit *object.Commit, path string, opts Options) (*Result, error) {
	f, err := commit.File(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("blame: %s not found at %s: %w", path, commit.Hash.Short(12), err)
	}
	text, err := f.Text(ctx)
	if err != nil {
		return nil, fmt.Errorf("blame: reading %s at %s: %w", path, commit.Hash.Short(12), err)
	}

	engine := NewEngine(backend, opts)
	partitions, err := engine.Run(ctx, commit, path)
	if err != nil {
		return nil, err
	}
	lines := object.SplitLines(text)
	if err := partitions.Validate(0, len(lines)); err != nil {
		return nil, fmt.Errorf("blame: %w", err)
	}
	return &Result{Commit: commit, Path: path, Lines: lines, Partitions: partitions}, nil
}
