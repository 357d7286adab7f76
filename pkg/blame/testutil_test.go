// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package blame

import (
	"context"
	"strings"
	"time"

	"github.com/antgroup/zeta-blame/modules/object"
	"github.com/antgroup/zeta-blame/modules/objstore"
	"github.com/antgroup/zeta-blame/modules/plumbing"
)

// treeNode is a scratch in-memory tree shape used only to build fixture
// commits for the scenario tests below: files map gives "path/to/file" ->
// content, and buildTree descends into it creating intermediate
// directories as needed.
type treeNode struct {
	content  []byte
	isFile   bool
	children map[string]*treeNode
}

func buildTree(m *objstore.Memory, files map[string]string) plumbing.Hash {
	root := &treeNode{children: map[string]*treeNode{}}
	for p, content := range files {
		parts := strings.Split(p, "/")
		cur := root
		for i, part := range parts {
			if i == len(parts)-1 {
				cur.children[part] = &treeNode{isFile: true, content: []byte(content)}
				continue
			}
			child, ok := cur.children[part]
			if !ok {
				child = &treeNode{children: map[string]*treeNode{}}
				cur.children[part] = child
			}
			cur = child
		}
	}
	h, _, _ := encodeNode(m, root)
	return h
}

func encodeNode(m *objstore.Memory, n *treeNode) (plumbing.Hash, int64, object.FileMode) {
	if n.isFile {
		h := m.PutBlob(n.content)
		return h, int64(len(n.content)), object.ModeFile
	}
	entries := make([]object.TreeEntry, 0, len(n.children))
	for name, child := range n.children {
		h, size, mode := encodeNode(m, child)
		entries = append(entries, object.TreeEntry{Name: name, Mode: mode, Hash: h, Size: size})
	}
	h := m.PutTree(entries)
	return h, 0, object.ModeDir
}

// makeCommit stores and returns a commit built over treeHash with the
// given parents; when is used for both author and committer time so
// ordering in tests is deterministic.
func makeCommit(m *objstore.Memory, treeHash plumbing.Hash, parents []plumbing.Hash, when time.Time, message string) *object.Commit {
	sig := object.Signature{Name: "Test Author", Email: "author@example.com", When: when}
	c := &object.Commit{Tree: treeHash, Parents: parents, Author: sig, Committer: sig, Message: message}
	h := m.PutCommit(c)
	stored, err := m.Commit(context.Background(), h)
	if err != nil {
		panic(err)
	}
	return stored
}
