// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package blame

import "math"

// noAvoid is passed to findBestRun by searches (Copier) that have no
// "this would just be the line's current position" offset to exclude.
// hs-ws can range from -(len(want)-1) to len(haystack)-1, so any value
// outside that range is safe to use as "never matches".
const noAvoid = math.MinInt32

// findBestRun finds the longest contiguous run shared between haystack
// and want, returning the run's start offset within each and its
// length. Ties prefer the earliest haystack position, then the
// earliest want position, so results are deterministic.
//
// avoid excludes runs that sit at the same haystack-to-want alignment
// as avoid itself (hs-ws == avoid): a match found exactly where the
// searched-for content already lives isn't a move, it's the line not
// having changed — which, if true, propagateToParent would already
// have resolved before Mover ever saw this entry. Pass noAvoid when no
// such alignment should be excluded (Copier's cross-file search, where
// haystack and want never share a coordinate space).
func findBestRun(haystack, want []string, avoid int) (wantStart, hayStart, length int, ok bool) {
	bestLen := 0
	var bestWS, bestHS int
	for hs := range haystack {
		for ws := range want {
			if haystack[hs] != want[ws] || hs-ws == avoid {
				continue
			}
			l := 0
			for hs+l < len(haystack) && ws+l < len(want) && haystack[hs+l] == want[ws+l] && hs+l-(ws+l) != avoid {
				l++
			}
			if l > bestLen {
				bestLen, bestWS, bestHS = l, ws, hs
			}
		}
	}
	if bestLen == 0 {
		return 0, 0, 0, false
	}
	return bestWS, bestHS, bestLen, true
}

// splitAtMatch carves the sub-range [e.SLno+wantStart, e.SLno+wantStart+length)
// out of e and reassigns it to newSuspect at hayStart in newSuspect's own
// file, leaving whatever comes before and/or after still accusing e's
// current suspect. All boundaries are computed in e's suspect-local
// (SLno) coordinate space, then translated to the final-image Lno space
// via e's constant Lno-SLno offset, mirroring splitAcrossChunk. pre
// and/or post are returned (nil where there is nothing left on that
// side) so the caller can re-queue them for further searching — the
// matched run need not cover the whole of e.
func splitAtMatch(partitions *Partitions, e *Partition, newSuspect *Origin, wantStart, hayStart, length int) (pre, post *Partition) {
	locOffset := e.Lno - e.SLno
	matchStart := e.SLno + wantStart
	matchEnd := matchStart + length
	sEnd := e.SLno + e.NumLines

	if matchStart > e.SLno {
		pre = &Partition{Lno: e.SLno + locOffset, NumLines: matchStart - e.SLno, Suspect: e.Suspect, SLno: e.SLno, Guilty: e.Guilty}
	}
	middle := &Partition{Lno: matchStart + locOffset, NumLines: length, Suspect: newSuspect, SLno: hayStart, Guilty: e.Guilty}
	if matchEnd < sEnd {
		post = &Partition{Lno: matchEnd + locOffset, NumLines: sEnd - matchEnd, Suspect: e.Suspect, SLno: matchEnd, Guilty: e.Guilty}
	}

	partitions.Split(e, pre, middle, post)
	return pre, post
}
