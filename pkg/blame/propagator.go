// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package blame

import "math"

// propagateToParent pushes every partition currently accusing target to
// parent wherever the patch between parent and target (expressed as
// Chunks) shows the line to be untouched. Chunk bounds are expressed in
// target's own suspect-local line numbers (the post side of the
// parent->target diff), so every comparison below is made against
// e.SLno/e.SLno+e.NumLines, never e.Lno/e.end() — e.Lno is the line's
// position in the final file being blamed, which only coincides with
// e.SLno on the very first round and diverges from it in any deeper
// history. A partition that straddles a changed region is split: the
// untouched sub-range is pushed, the changed sub-range stays with
// target, and any remainder past the chunk is carried forward against
// later chunks.
//
// chunks must be in ascending Same order and end with the sentinel chunk
// parsePatch appends (Same == math.MaxInt).
func propagateToParent(partitions *Partitions, target, parent *Origin, chunks []Chunk) {
	if len(chunks) == 0 {
		return
	}
	offset := 0
	ci := 0
	for _, e := range partitions.UnresolvedAccusing(target) {
		cur := e
		for cur != nil {
			chunk := chunks[ci]
			sEnd := cur.SLno + cur.NumLines
			switch {
			case chunk.Same == math.MaxInt || sEnd <= chunk.Same:
				pushToParent(cur, parent, offset)
				cur = nil
			case cur.SLno >= chunk.TNext:
				offset = chunk.PNext - chunk.TNext
				if ci < len(chunks)-1 {
					ci++
				}
			default:
				cur = splitAcrossChunk(partitions, cur, parent, chunk, offset)
			}
		}
	}
}

// pushToParent reassigns e's suspect to parent, translating its s_lno by
// the constant offset (parent_line - target_line) that holds across the
// untouched region e falls in. The translation is applied to e.SLno
// (target's own suspect-local coordinate), not e.Lno: e.Lno is the
// final-file position and never changes as attribution moves back
// through history.
func pushToParent(e *Partition, parent *Origin, offset int) {
	e.Suspect = parent
	e.SLno = e.SLno + offset
	e.score = 0
}

// splitAcrossChunk handles a partition that overlaps a chunk's changed
// region [chunk.Same, chunk.TNext): the leading sub-range (if any) is
// untouched and pushed to the parent in place; the overlapping sub-range
// stays accusing target (it was actually edited in this commit); the
// trailing sub-range (if any) is returned so the caller can keep
// resolving it against subsequent chunks. All boundaries are computed in
// e's suspect-local coordinate (SLno) space, then translated back to the
// final-file Lno space via e's constant Lno-SLno offset, since that
// offset is invariant across one partition's span.
func splitAcrossChunk(partitions *Partitions, e *Partition, parent *Origin, chunk Chunk, offset int) *Partition {
	locOffset := e.Lno - e.SLno
	sEnd := e.SLno + e.NumLines

	var pre, middle, post *Partition

	preEnd := chunk.Same
	if preEnd > sEnd {
		preEnd = sEnd
	}
	if preEnd > e.SLno {
		pre = &Partition{Lno: e.SLno + locOffset, NumLines: preEnd - e.SLno, Suspect: parent, SLno: e.SLno + offset, Guilty: e.Guilty}
	}

	midStart := e.SLno
	if midStart < chunk.Same {
		midStart = chunk.Same
	}
	midEnd := sEnd
	if midEnd > chunk.TNext {
		midEnd = chunk.TNext
	}
	if midEnd > midStart {
		middle = &Partition{Lno: midStart + locOffset, NumLines: midEnd - midStart, Suspect: e.Suspect, SLno: midStart, Guilty: e.Guilty}
	}

	if sEnd > chunk.TNext {
		postStart := chunk.TNext
		if postStart < e.SLno {
			postStart = e.SLno
		}
		post = &Partition{Lno: postStart + locOffset, NumLines: sEnd - postStart, Suspect: e.Suspect, SLno: postStart, Guilty: e.Guilty}
	}

	partitions.Split(e, pre, middle, post)
	return post
}
