// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package blame

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antgroup/zeta-blame/modules/objstore"
	"github.com/antgroup/zeta-blame/modules/plumbing"
)

func TestBlameSingleCommit(t *testing.T) {
	ctx := context.Background()
	m := objstore.NewMemory()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tree := buildTree(m, map[string]string{"a.txt": "line1\nline2\nline3\n"})
	c1 := makeCommit(m, tree, nil, t0, "add a.txt")

	result, err := Blame(ctx, m, c1, "a.txt", Options{})
	require.NoError(t, err)
	require.NoError(t, result.Partitions.Validate(0, len(result.Lines)))

	for _, e := range result.Partitions.All() {
		assert.Equal(t, c1.Hash, e.Suspect.Commit.Hash)
		assert.Equal(t, "a.txt", e.Suspect.Path)
	}
	assert.Equal(t, 1, result.Partitions.Len())
}

func TestBlameAppend(t *testing.T) {
	ctx := context.Background()
	m := objstore.NewMemory()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	tree1 := buildTree(m, map[string]string{"a.txt": "line1\nline2\n"})
	c1 := makeCommit(m, tree1, nil, t0, "add a.txt")

	tree2 := buildTree(m, map[string]string{"a.txt": "line1\nline2\nline3\n"})
	c2 := makeCommit(m, tree2, []plumbing.Hash{c1.Hash}, t1, "append line3")

	result, err := Blame(ctx, m, c2, "a.txt", Options{})
	require.NoError(t, err)
	require.NoError(t, result.Partitions.Validate(0, len(result.Lines)))

	entries := result.Partitions.All()
	require.Len(t, entries, 2)

	assert.Equal(t, c1.Hash, entries[0].Suspect.Commit.Hash)
	assert.Equal(t, 0, entries[0].Lno)
	assert.Equal(t, 2, entries[0].NumLines)

	assert.Equal(t, c2.Hash, entries[1].Suspect.Commit.Hash)
	assert.Equal(t, 2, entries[1].Lno)
	assert.Equal(t, 1, entries[1].NumLines)
}

func TestBlameMiddleInsertion(t *testing.T) {
	ctx := context.Background()
	m := objstore.NewMemory()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	tree1 := buildTree(m, map[string]string{"a.txt": "alpha\nbeta\ngamma\n"})
	c1 := makeCommit(m, tree1, nil, t0, "add a.txt")

	tree2 := buildTree(m, map[string]string{"a.txt": "alpha\nbeta\ninserted\ngamma\n"})
	c2 := makeCommit(m, tree2, []plumbing.Hash{c1.Hash}, t1, "insert a line")

	result, err := Blame(ctx, m, c2, "a.txt", Options{})
	require.NoError(t, err)
	require.NoError(t, result.Partitions.Validate(0, len(result.Lines)))

	require.Len(t, result.Lines, 4)
	bySuspectLine := func(lno int) plumbing.Hash {
		for _, e := range result.Partitions.All() {
			if lno >= e.Lno && lno < e.Lno+e.NumLines {
				return e.Suspect.Commit.Hash
			}
		}
		t.Fatalf("line %d not covered by any partition", lno)
		return plumbing.Hash{}
	}

	assert.Equal(t, c1.Hash, bySuspectLine(0), "alpha")
	assert.Equal(t, c1.Hash, bySuspectLine(1), "beta")
	assert.Equal(t, c2.Hash, bySuspectLine(2), "inserted")
	assert.Equal(t, c1.Hash, bySuspectLine(3), "gamma, pushed past the insertion")
}

// TestBlameThreeGenerationPrepend pins down the suspect-local vs.
// final-image coordinate distinction: c1 has a single line, c2 prepends
// one line onto c1's content, c3 prepends another line onto c2's
// content. Blaming c3 must resolve c2's own round entirely in c2's
// 2-line file, not in c3's 3-line final image, or the line c2 itself
// introduced gets wrongly pushed all the way back to c1.
func TestBlameThreeGenerationPrepend(t *testing.T) {
	ctx := context.Background()
	m := objstore.NewMemory()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	t2 := t1.Add(time.Hour)

	tree1 := buildTree(m, map[string]string{"a.txt": "X\n"})
	c1 := makeCommit(m, tree1, nil, t0, "add a.txt")

	tree2 := buildTree(m, map[string]string{"a.txt": "Y\nX\n"})
	c2 := makeCommit(m, tree2, []plumbing.Hash{c1.Hash}, t1, "prepend Y")

	tree3 := buildTree(m, map[string]string{"a.txt": "W\nY\nX\n"})
	c3 := makeCommit(m, tree3, []plumbing.Hash{c2.Hash}, t2, "prepend W")

	result, err := Blame(ctx, m, c3, "a.txt", Options{})
	require.NoError(t, err)
	require.NoError(t, result.Partitions.Validate(0, len(result.Lines)))
	require.Equal(t, []string{"W", "Y", "X"}, result.Lines)

	bySuspectLine := func(lno int) (plumbing.Hash, int) {
		for _, e := range result.Partitions.All() {
			if lno >= e.Lno && lno < e.Lno+e.NumLines {
				return e.Suspect.Commit.Hash, e.SLno + (lno - e.Lno)
			}
		}
		t.Fatalf("line %d not covered by any partition", lno)
		return plumbing.Hash{}, -1
	}

	gotCommit, gotSLno := bySuspectLine(0)
	assert.Equal(t, c3.Hash, gotCommit, "W was introduced by c3")
	assert.Equal(t, 0, gotSLno)

	gotCommit, gotSLno = bySuspectLine(1)
	assert.Equal(t, c2.Hash, gotCommit, "Y was introduced by c2, not pushed further back to c1")
	assert.Equal(t, 0, gotSLno, "Y sits at line 0 of c2's own 2-line file")

	gotCommit, gotSLno = bySuspectLine(2)
	assert.Equal(t, c1.Hash, gotCommit, "X traces all the way back to c1")
	assert.Equal(t, 0, gotSLno, "X sits at line 0 of c1's own 1-line file")
}

func TestBlameRenameFollow(t *testing.T) {
	ctx := context.Background()
	m := objstore.NewMemory()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	content := "line1\nline2\nline3\n"
	tree1 := buildTree(m, map[string]string{"old.txt": content})
	c1 := makeCommit(m, tree1, nil, t0, "add old.txt")

	tree2 := buildTree(m, map[string]string{"new.txt": content})
	c2 := makeCommit(m, tree2, []plumbing.Hash{c1.Hash}, t1, "rename to new.txt")

	result, err := Blame(ctx, m, c2, "new.txt", Options{})
	require.NoError(t, err)
	require.NoError(t, result.Partitions.Validate(0, len(result.Lines)))

	for _, e := range result.Partitions.All() {
		assert.Equal(t, c1.Hash, e.Suspect.Commit.Hash)
		assert.Equal(t, "old.txt", e.Suspect.Path, "blame should follow the rename back to the original path")
	}
}

func TestBlameMoveDetection(t *testing.T) {
	ctx := context.Background()
	m := objstore.NewMemory()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	tree1 := buildTree(m, map[string]string{
		"a.txt": "alpha\nuniqueMovedBlockContent\nbeta\ngamma\ndelta\n",
	})
	c1 := makeCommit(m, tree1, nil, t0, "add a.txt")

	tree2 := buildTree(m, map[string]string{
		"a.txt": "alpha\nbeta\ngamma\nuniqueMovedBlockContent\ndelta\n",
	})
	c2 := makeCommit(m, tree2, []plumbing.Hash{c1.Hash}, t1, "reorder a.txt")

	// without move detection the relocated line has no untouched-range
	// correspondence to the parent and is blamed on the commit that
	// rewrote the surrounding region.
	withoutMove, err := Blame(ctx, m, c2, "a.txt", Options{})
	require.NoError(t, err)
	movedLine := -1
	for i, l := range withoutMove.Lines {
		if l == "uniqueMovedBlockContent" {
			movedLine = i
		}
	}
	require.GreaterOrEqual(t, movedLine, 0)
	var gotWithout plumbing.Hash
	for _, e := range withoutMove.Partitions.All() {
		if movedLine >= e.Lno && movedLine < e.Lno+e.NumLines {
			gotWithout = e.Suspect.Commit.Hash
		}
	}
	assert.Equal(t, c2.Hash, gotWithout, "without -M the moved line reads as new content of c2")

	withMove, err := Blame(ctx, m, c2, "a.txt", Options{DetectMove: true})
	require.NoError(t, err)
	require.NoError(t, withMove.Partitions.Validate(0, len(withMove.Lines)))
	var gotWith plumbing.Hash
	var gotWithSLno int
	for _, e := range withMove.Partitions.All() {
		if movedLine >= e.Lno && movedLine < e.Lno+e.NumLines {
			gotWith = e.Suspect.Commit.Hash
			gotWithSLno = e.SLno + (movedLine - e.Lno)
		}
	}
	assert.Equal(t, c1.Hash, gotWith, "with -M the moved line is traced back to the commit that actually wrote it")
	assert.Equal(t, 1, gotWithSLno, "the moved line's suspect line number should point at its original position in c1")
}

func TestBlameCopyHarder(t *testing.T) {
	ctx := context.Background()
	m := objstore.NewMemory()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	const copiedLineText = "uniqueCopiedContentBlockWithExtraPaddingWords"
	tree1 := buildTree(m, map[string]string{
		"a.txt": "alpha\n" + copiedLineText + "\nbeta\n",
	})
	c1 := makeCommit(m, tree1, nil, t0, "add a.txt")

	tree2 := buildTree(m, map[string]string{
		"a.txt": "alpha\n" + copiedLineText + "\nbeta\n",
		"b.txt": "header\n" + copiedLineText + "\nfooter\n",
	})
	c2 := makeCommit(m, tree2, []plumbing.Hash{c1.Hash}, t1, "add b.txt copying a line from a.txt")

	withoutCopy, err := Blame(ctx, m, c2, "b.txt", Options{})
	require.NoError(t, err)
	for _, e := range withoutCopy.Partitions.All() {
		assert.Equal(t, c2.Hash, e.Suspect.Commit.Hash, "without -C every line of the new file is blamed on its own commit")
	}

	withCopy, err := Blame(ctx, m, c2, "b.txt", Options{DetectCopy: true, CopyHarder: true})
	require.NoError(t, err)
	require.NoError(t, withCopy.Partitions.Validate(0, len(withCopy.Lines)))

	copiedLine := -1
	for i, l := range withCopy.Lines {
		if l == copiedLineText {
			copiedLine = i
		}
	}
	require.GreaterOrEqual(t, copiedLine, 0)

	var gotSuspectCommit plumbing.Hash
	var gotSuspectPath string
	for _, e := range withCopy.Partitions.All() {
		if copiedLine >= e.Lno && copiedLine < e.Lno+e.NumLines {
			gotSuspectCommit = e.Suspect.Commit.Hash
			gotSuspectPath = e.Suspect.Path
		}
	}
	assert.Equal(t, c1.Hash, gotSuspectCommit, "-C -C should trace the copied line back to the commit that introduced it in a.txt")
	assert.Equal(t, "a.txt", gotSuspectPath)
}

// TestBlameCopyHarderRequiresHarderSearch covers the case plain -C can't
// reach at all: the copy source file was itself introduced in the very
// same commit as the file copying from it, so it never existed in any
// parent tree for the plain (non-harder) search to find.
func TestBlameCopyHarderRequiresHarderSearch(t *testing.T) {
	ctx := context.Background()
	m := objstore.NewMemory()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	const copiedLineText = "uniqueCopiedContentBlockWithExtraPaddingWords"
	tree1 := buildTree(m, map[string]string{"unrelated.txt": "nothing interesting here\n"})
	c1 := makeCommit(m, tree1, nil, t0, "unrelated commit")

	tree2 := buildTree(m, map[string]string{
		"unrelated.txt": "nothing interesting here\n",
		"a.txt":         "alpha\n" + copiedLineText + "\nbeta\n",
		"b.txt":         "header\n" + copiedLineText + "\nfooter\n",
	})
	c2 := makeCommit(m, tree2, []plumbing.Hash{c1.Hash}, t1, "add a.txt and b.txt together")

	plainCopy, err := Blame(ctx, m, c2, "b.txt", Options{DetectCopy: true})
	require.NoError(t, err)
	for _, e := range plainCopy.Partitions.All() {
		assert.Equal(t, c2.Hash, e.Suspect.Commit.Hash, "plain -C cannot find a source that never existed in any parent")
	}

	harderCopy, err := Blame(ctx, m, c2, "b.txt", Options{DetectCopy: true, CopyHarder: true})
	require.NoError(t, err)
	require.NoError(t, harderCopy.Partitions.Validate(0, len(harderCopy.Lines)))

	copiedLine := -1
	for i, l := range harderCopy.Lines {
		if l == copiedLineText {
			copiedLine = i
		}
	}
	require.GreaterOrEqual(t, copiedLine, 0)

	var gotCommit plumbing.Hash
	var gotPath string
	for _, e := range harderCopy.Partitions.All() {
		if copiedLine >= e.Lno && copiedLine < e.Lno+e.NumLines {
			gotCommit = e.Suspect.Commit.Hash
			gotPath = e.Suspect.Path
		}
	}
	assert.Equal(t, c2.Hash, gotCommit, "the source file itself was only ever introduced in c2, so blame cannot trace further back")
	assert.Equal(t, "a.txt", gotPath, "-C -C should still identify a.txt as the copy source even though it's new in this same commit")
}

func TestBlameIgnoreWhitespaceChange(t *testing.T) {
	ctx := context.Background()
	m := objstore.NewMemory()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	tree1 := buildTree(m, map[string]string{"a.txt": "func foo() {\n\treturn 1\n}\n"})
	c1 := makeCommit(m, tree1, nil, t0, "add a.txt")

	// only whitespace changed on the middle line.
	tree2 := buildTree(m, map[string]string{"a.txt": "func foo() {\n    return 1\n}\n"})
	c2 := makeCommit(m, tree2, []plumbing.Hash{c1.Hash}, t1, "reindent with spaces")

	withoutIgnore, err := Blame(ctx, m, c2, "a.txt", Options{})
	require.NoError(t, err)
	var gotWithout plumbing.Hash
	for _, e := range withoutIgnore.Partitions.All() {
		if 1 >= e.Lno && 1 < e.Lno+e.NumLines {
			gotWithout = e.Suspect.Commit.Hash
		}
	}
	assert.Equal(t, c2.Hash, gotWithout, "without -w the reindented line looks like new content")

	withIgnore, err := Blame(ctx, m, c2, "a.txt", Options{IgnoreWhitespace: true})
	require.NoError(t, err)
	require.NoError(t, withIgnore.Partitions.Validate(0, len(withIgnore.Lines)))
	var gotWith plumbing.Hash
	for _, e := range withIgnore.Partitions.All() {
		if 1 >= e.Lno && 1 < e.Lno+e.NumLines {
			gotWith = e.Suspect.Commit.Hash
		}
	}
	assert.Equal(t, c1.Hash, gotWith, "with -w whitespace-only reindentation should still trace to the original commit")
}
