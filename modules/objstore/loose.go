// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package objstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/antgroup/zeta-blame/modules/object"
	"github.com/antgroup/zeta-blame/modules/plumbing"
	"github.com/antgroup/zeta-blame/modules/streamio"
)

// Loose is a disk-backed object.Backend storing one zstd-compressed file
// per object, fanned out by the first two hex digits of its hash — the
// same directory layout git uses for loose objects. Reads and writes go
// through modules/streamio's pooled zstd decoders/encoders rather than
// allocating one per object, the same pooling the teacher's
// modules/streamio applies to its own object traffic.
type Loose struct {
	root string
}

// NewLoose opens (without creating) a loose-object store rooted at dir.
func NewLoose(dir string) *Loose {
	return &Loose{root: dir}
}

const (
	kindCommit = 'c'
	kindTree   = 't'
	kindBlob   = 'b'
)

func (l *Loose) objectPath(oid plumbing.Hash) string {
	s := oid.String()
	return filepath.Join(l.root, s[:2], s[2:])
}

func (l *Loose) read(oid plumbing.Hash) (kind byte, payload []byte, err error) {
	f, err := os.Open(l.objectPath(oid))
	if err != nil {
		return 0, nil, fmt.Errorf("objstore: open %s: %w", oid, err)
	}
	defer f.Close()
	var hdr [1]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		return 0, nil, fmt.Errorf("objstore: read header of %s: %w", oid, err)
	}
	zr, err := streamio.GetZstdReader(f)
	if err != nil {
		return 0, nil, err
	}
	defer streamio.PutZstdReader(zr)
	data, err := io.ReadAll(zr)
	if err != nil {
		return 0, nil, fmt.Errorf("objstore: decompress %s: %w", oid, err)
	}
	return hdr[0], data, nil
}

func (l *Loose) write(kind byte, data []byte) (plumbing.Hash, error) {
	oid := plumbing.SumBytes(data)
	p := l.objectPath(oid)
	if _, err := os.Stat(p); err == nil {
		return oid, nil // already present, loose objects are immutable
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return plumbing.ZeroHash, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "obj-*.tmp")
	if err != nil {
		return plumbing.ZeroHash, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write([]byte{kind}); err != nil {
		tmp.Close()
		return plumbing.ZeroHash, err
	}
	zw := streamio.GetZstdWriter(tmp)
	if _, err := zw.Write(data); err != nil {
		streamio.PutZstdWriter(zw)
		tmp.Close()
		return plumbing.ZeroHash, err
	}
	streamio.PutZstdWriter(zw)
	if err := tmp.Close(); err != nil {
		return plumbing.ZeroHash, err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return plumbing.ZeroHash, err
	}
	return oid, nil
}

// PutBlob compresses and stores data, returning its digest.
func (l *Loose) PutBlob(data []byte) (plumbing.Hash, error) {
	return l.write(kindBlob, data)
}

// PutTree encodes, compresses and stores a tree, returning its digest.
// Entries must already be sorted by Name.
func (l *Loose) PutTree(entries []object.TreeEntry) (plumbing.Hash, error) {
	t := &object.Tree{Entries: entries}
	data, err := object.EncodedBytes(t.Encode)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return l.write(kindTree, data)
}

// PutCommit encodes, compresses and stores c, returning its digest.
func (l *Loose) PutCommit(c *object.Commit) (plumbing.Hash, error) {
	data, err := object.EncodedBytes(c.Encode)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return l.write(kindCommit, data)
}

func (l *Loose) Commit(_ context.Context, oid plumbing.Hash) (*object.Commit, error) {
	kind, data, err := l.read(oid)
	if err != nil {
		return nil, err
	}
	if kind != kindCommit {
		return nil, fmt.Errorf("objstore: %s is not a commit", oid)
	}
	return object.DecodeCommit(oid, bytesReader(data), l)
}

func (l *Loose) Tree(_ context.Context, oid plumbing.Hash) (*object.Tree, error) {
	kind, data, err := l.read(oid)
	if err != nil {
		return nil, err
	}
	if kind != kindTree {
		return nil, fmt.Errorf("objstore: %s is not a tree", oid)
	}
	return object.DecodeTree(bytesReader(data), l)
}

func (l *Loose) Blob(_ context.Context, oid plumbing.Hash) (*object.Blob, error) {
	kind, data, err := l.read(oid)
	if err != nil {
		return nil, err
	}
	if kind != kindBlob {
		return nil, fmt.Errorf("objstore: %s is not a blob", oid)
	}
	return &object.Blob{Hash: oid, Size: int64(len(data)), Data: data}, nil
}

func (l *Loose) Kind(_ context.Context, oid plumbing.Hash) (object.Kind, error) {
	kind, _, err := l.read(oid)
	if err != nil {
		return object.InvalidKind, err
	}
	switch kind {
	case kindCommit:
		return object.CommitKind, nil
	case kindTree:
		return object.TreeKind, nil
	case kindBlob:
		return object.BlobKind, nil
	default:
		return object.InvalidKind, fmt.Errorf("objstore: %s has unknown kind", oid)
	}
}
