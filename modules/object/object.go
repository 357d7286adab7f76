// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package object models the content-addressed object graph (commits,
// trees, blobs) the blame engine reads from. It is a deliberately small
// rendition of antgroup-hugescm's modules/zeta/object package: enough to
// resolve a path inside a commit's tree, walk parents, and read blob
// bytes, and nothing about packfiles, fragments, or tags.
package object

import (
	"context"

	"github.com/antgroup/zeta-blame/modules/plumbing"
)

// Kind identifies what a digest in the store refers to.
type Kind int8

const (
	InvalidKind Kind = iota
	CommitKind
	TreeKind
	BlobKind
)

func (k Kind) String() string {
	switch k {
	case CommitKind:
		return "commit"
	case TreeKind:
		return "tree"
	case BlobKind:
		return "blob"
	default:
		return "invalid"
	}
}

// FileMode is a trimmed POSIX-ish mode: only the regular/directory/symlink
// distinction blame cares about.
type FileMode uint32

const (
	ModeFile FileMode = 0o100644
	ModeExec FileMode = 0o100755
	ModeDir  FileMode = 0o040000
	ModeLink FileMode = 0o120000
)

func (m FileMode) IsDir() bool  { return m == ModeDir }
func (m FileMode) IsFile() bool { return m == ModeFile || m == ModeExec }
func (m FileMode) IsLink() bool { return m == ModeLink }

// Backend is the narrow object-store interface the blame engine
// consumes: tree entry lookup, object kind, blob read, commit header
// read.
type Backend interface {
	Commit(ctx context.Context, oid plumbing.Hash) (*Commit, error)
	Tree(ctx context.Context, oid plumbing.Hash) (*Tree, error)
	Blob(ctx context.Context, oid plumbing.Hash) (*Blob, error)
	// Kind reports what oid refers to, or InvalidKind if unknown.
	Kind(ctx context.Context, oid plumbing.Hash) (Kind, error)
}
