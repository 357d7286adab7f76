// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package blame

// Copier implements the "-C" cross-file copy detection behavior: lines
// still unresolved after the Mover's same-file search may have been
// copied in from a different file entirely. Copier widens the search to
// every other path in the parent's tree, at a higher MinScore than Mover
// since cross-file matches are weaker evidence of genuine authorship
// transfer and a low threshold would over-attribute.
//
// A single -C searches every file in the parent's tree, whether or not
// the target commit changed it. CopyHarder ("-C -C") additionally
// searches the paths the target commit adds, i.e. files present in the
// target's own tree but absent from the parent's.
type Copier struct {
	MinScore   int
	CopyHarder bool
}

// NewCopier returns a Copier using the default cross-file score
// threshold.
func NewCopier() *Copier { return &Copier{MinScore: 40} }

// Candidate is one other path's content available as a copy source,
// already resolved to the Origin it should be attributed to.
type Candidate struct {
	Path        string
	Lines       []string
	Origin      *Origin
	AddedInThis bool // true if this path is absent from the parent's tree and was read from the target commit
}

// Run scans every unresolved partition still accusing target and, for
// each, searches every candidate (skipping AddedInThis candidates
// unless CopyHarder is set) for the longest run of content shared with
// that entry. The candidate producing the single longest run across
// the whole search wins, provided its scoreText clears MinScore;
// whatever of the entry falls outside that run is split off and
// re-queued, so a partition only partly explained by a copy can still
// match elsewhere (or, failing that, stays accusing target).
// targetLines is target's own file content, read back by each entry's
// SLno (its position within target's own file), not its Lno (its
// position in the final file being blamed) — the two only coincide on
// the first propagation round.
func (c *Copier) Run(partitions *Partitions, target *Origin, candidates []Candidate, targetLines []string) {
	queue := append([]*Partition(nil), partitions.UnresolvedAccusing(target)...)
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if e.SLno+e.NumLines > len(targetLines) {
			continue
		}
		want := targetLines[e.SLno : e.SLno+e.NumLines]

		var bestCand *Candidate
		var bestWS, bestHS, bestLen int
		for i, cand := range candidates {
			if cand.AddedInThis && !c.CopyHarder {
				continue
			}
			ws, hs, length, ok := findBestRun(cand.Lines, want, noAvoid)
			if !ok || length <= bestLen {
				continue
			}
			bestCand, bestWS, bestHS, bestLen = &candidates[i], ws, hs, length
		}
		if bestCand == nil || bestCand.Origin == nil || scoreText(want[bestWS:bestWS+bestLen]) <= c.MinScore {
			continue
		}
		pre, post := splitAtMatch(partitions, e, bestCand.Origin, bestWS, bestHS, bestLen)
		if pre != nil {
			queue = append(queue, pre)
		}
		if post != nil {
			queue = append(queue, post)
		}
	}
}
