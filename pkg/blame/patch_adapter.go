// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package blame

import (
	"math"

	"github.com/antgroup/zeta-blame/modules/diferenco"
)

// Chunk is one parsed hunk: Same is the target line number where the
// preceding run of identical lines ends and the change begins, and PNext/TNext are the
// 0-based line numbers immediately after the change in the parent (p)
// and target (t) images respectively. The final chunk in a sequence is a
// sentinel with Same == math.MaxInt, meaning every remaining target line
// maps to the parent via the constant offset PNext-TNext.
type Chunk struct {
	Same  int
	PNext int
	TNext int
}

// parsePatch converts a parent->target unified diff into the chunk
// sequence the Propagator walks. Trailing context lines included by
// ToUnified are not themselves chunks; only the boundary where an equal
// run ends and a change begins matters, so this walks each hunk's Lines
// and emits one Chunk per maximal non-equal run, using the already
// 1-based FromLine/ToLine recorded on the hunk to seed the per-hunk
// cursor. Within a hunk the chunks follow the Lines slice, not the
// header's counts; the closing sentinel's offset is taken from the last
// hunk's FromCount/ToCount.
func parsePatch(u *diferenco.Unified) []Chunk {
	var chunks []Chunk
	for _, h := range u.Hunks {
		pLine := h.FromLine - 1 // convert to 0-based
		tLine := h.ToLine - 1
		i := 0
		n := len(h.Lines)
		for i < n {
			if h.Lines[i].Op == diferenco.Equal {
				pLine++
				tLine++
				i++
				continue
			}
			same := tLine
			for i < n && h.Lines[i].Op != diferenco.Equal {
				switch h.Lines[i].Op {
				case diferenco.Delete:
					pLine++
				case diferenco.Insert:
					tLine++
				}
				i++
			}
			chunks = append(chunks, Chunk{Same: same, PNext: pLine, TNext: tLine})
		}
	}
	// Sentinel: every target line from here on maps to parent line
	// (t - tLine + pLine) with a constant offset, forever. math.MaxInt
	// as Same means "this chunk's Same bound is never reached", so the
	// Propagator's walk always falls through to using PNext/TNext's
	// final offset for any line past the last real hunk.
	var pLine, tLine int
	if len(u.Hunks) > 0 {
		last := u.Hunks[len(u.Hunks)-1]
		pLine = last.FromLine - 1 + last.FromCount
		tLine = last.ToLine - 1 + last.ToCount
	}
	chunks = append(chunks, Chunk{Same: math.MaxInt, PNext: pLine, TNext: tLine})
	return chunks
}
