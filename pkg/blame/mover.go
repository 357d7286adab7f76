// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package blame

// Mover implements the "-M" intra-file move detection behavior: once
// the ordinary line-by-line propagation has pushed
// everything it can to a parent, any entry still accusing the target
// might actually be lines that were simply relocated within the same
// file rather than newly written. Mover re-searches the parent's own
// version of the file for the longest run of content shared with each
// unresolved entry — not necessarily the entry's whole range, since a
// partition can span newly written lines alongside moved ones — and,
// where that run clears MinScore alphanumeric-weighted bytes,
// reassigns just that run to the parent at the found offset, leaving
// any remainder on either side still accusing the target for further
// searching.
type Mover struct {
	// MinScore is the scoreText() value a candidate run must exceed (not
	// merely reach) to be accepted; defaults to 20.
	MinScore int
}

// NewMover returns a Mover using the default score threshold.
func NewMover() *Mover { return &Mover{MinScore: 20} }

// Run scans every unresolved partition in partitions still accusing
// target and, for each, searches parentLines (the parent's version of
// the same path, already split into lines) for the longest run shared
// with that entry's own content. targetLines is target's own file
// content, read back by each entry's SLno (its position within
// target's own file), not its Lno (its position in the final file
// being blamed) — the two only coincide on the first propagation
// round. A match need not span an entry's whole range: whatever falls
// outside the matched run is split off and re-queued so it can still
// match elsewhere (or, failing that, is left accusing target, which is
// the correct default for content actually new in target).
func (m *Mover) Run(partitions *Partitions, target, parent *Origin, targetLines, parentLines []string) {
	queue := append([]*Partition(nil), partitions.UnresolvedAccusing(target)...)
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if e.SLno+e.NumLines > len(targetLines) {
			continue
		}
		want := targetLines[e.SLno : e.SLno+e.NumLines]
		ws, hs, length, ok := findBestRun(parentLines, want, e.SLno)
		if !ok || scoreText(want[ws:ws+length]) <= m.MinScore {
			continue
		}
		pre, post := splitAtMatch(partitions, e, parent, ws, hs, length)
		if pre != nil {
			queue = append(queue, pre)
		}
		if post != nil {
			queue = append(queue, post)
		}
	}
}
