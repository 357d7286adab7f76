// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import "github.com/antgroup/zeta-blame/modules/plumbing"

// Blob is the raw byte payload of one file revision.
type Blob struct {
	Hash plumbing.Hash
	Size int64
	Data []byte
}

// File is a path-qualified view of a Blob, resolved from some Tree: a
// path, a mode, and a way to fetch text content.
type File struct {
	Path string
	Mode FileMode
	Hash plumbing.Hash
	Size int64
	b    Backend
}

func newFile(path string, mode FileMode, hash plumbing.Hash, size int64, b Backend) *File {
	return &File{Path: path, Mode: mode, Hash: hash, Size: size, b: b}
}
