// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package blame

import (
	"fmt"
	"strings"
)

// Partition is one blame entry: a contiguous range of lines in the final
// file all currently accused of coming from the same suspect.
type Partition struct {
	Lno      int // first line in the final image, 0-based
	NumLines int // >= 1
	Suspect  *Origin
	SLno     int  // first line of this range in the suspect's file
	Guilty   bool // true once Suspect is the definitive attribution
	score    int  // cached alphanumeric-char count + 1; 0 means "recompute"
}

func (e *Partition) end() int { return e.Lno + e.NumLines }

// Partitions is the ordered sequence of Partition covering a file's full
// line range without gap or overlap. It is kept as a plain slice rather
// than emirpasic/gods' doublylinkedlist: gods' list.List is an
// index-oriented interface with O(n) Insert/Remove same as a slice
// splice, so it buys nothing a slice doesn't already give us — see
// DESIGN.md.
type Partitions struct {
	entries []*Partition
}

// NewPartitions seeds the sequence with a single entry spanning
// [0, numLines) accusing initial.
func NewPartitions(numLines int, initial *Origin) *Partitions {
	return &Partitions{entries: []*Partition{{
		Lno: 0, NumLines: numLines, Suspect: initial, SLno: 0,
	}}}
}

// Len reports the number of entries.
func (p *Partitions) Len() int { return len(p.entries) }

// All returns the entries in lno order. The returned slice aliases
// internal storage and must not be mutated in length by the caller;
// mutating an individual *Partition's fields is fine and is how the
// Propagator/Mover/Copier record fresh attributions.
func (p *Partitions) All() []*Partition { return p.entries }

func (p *Partitions) indexOf(e *Partition) int {
	for i, cur := range p.entries {
		if cur == e {
			return i
		}
	}
	return -1
}

// Split replaces e with the non-nil, non-zero-length entries among
// pre, middle, post, preserving sequence order. It panics if the
// replacement set's combined span does not exactly cover e's original
// span, since that signals a bug in the caller's split arithmetic,
// never a user-facing error.
func (p *Partitions) Split(e *Partition, pre, middle, post *Partition) {
	idx := p.indexOf(e)
	if idx == -1 {
		panic("blame: split on a partition no longer in the sequence")
	}
	var replacement []*Partition
	for _, part := range []*Partition{pre, middle, post} {
		if part != nil && part.NumLines > 0 {
			replacement = append(replacement, part)
		}
	}
	if len(replacement) == 0 {
		panic("blame: split produced no surviving partitions")
	}
	if replacement[0].Lno != e.Lno || replacement[len(replacement)-1].end() != e.end() {
		panic(p.invariantPanic(fmt.Sprintf("split of [%d,%d) produced [%d,%d)", e.Lno, e.end(), replacement[0].Lno, replacement[len(replacement)-1].end())))
	}
	for i := 1; i < len(replacement); i++ {
		if replacement[i-1].end() != replacement[i].Lno {
			panic(p.invariantPanic(fmt.Sprintf("split of [%d,%d) left a gap/overlap between parts %d and %d", e.Lno, e.end(), i-1, i)))
		}
	}
	next := make([]*Partition, 0, len(p.entries)+len(replacement)-1)
	next = append(next, p.entries[:idx]...)
	next = append(next, replacement...)
	next = append(next, p.entries[idx+1:]...)
	p.entries = next
}

// Coalesce fuses adjacent entries with equal suspects, matching Guilty
// flags, and contiguous suspect-line ranges. It is idempotent: running
// it twice in a row leaves the sequence unchanged.
func (p *Partitions) Coalesce() {
	if len(p.entries) == 0 {
		return
	}
	merged := make([]*Partition, 0, len(p.entries))
	merged = append(merged, p.entries[0])
	for _, cur := range p.entries[1:] {
		last := merged[len(merged)-1]
		if last.Suspect.Equal(cur.Suspect) && last.Guilty == cur.Guilty && last.SLno+last.NumLines == cur.SLno {
			last.NumLines += cur.NumLines
			last.score = 0 // invalidate cached score
			continue
		}
		merged = append(merged, cur)
	}
	p.entries = merged
}

// FindLastSLno returns max(s_lno + num_lines) across unresolved entries
// accusing origin, or -1 if none exist.
func (p *Partitions) FindLastSLno(origin *Origin) int {
	best := -1
	for _, e := range p.entries {
		if e.Guilty || !e.Suspect.Equal(origin) {
			continue
		}
		if v := e.SLno + e.NumLines; v > best {
			best = v
		}
	}
	return best
}

// UnresolvedAccusing returns every unresolved entry currently accusing
// origin, in lno order.
func (p *Partitions) UnresolvedAccusing(origin *Origin) []*Partition {
	var out []*Partition
	for _, e := range p.entries {
		if !e.Guilty && e.Suspect.Equal(origin) {
			out = append(out, e)
		}
	}
	return out
}

// AnyUnresolved returns an arbitrary unresolved entry, or nil if every
// entry is guilty — the pick step of the driver loop.
func (p *Partitions) AnyUnresolved() *Partition {
	for _, e := range p.entries {
		if !e.Guilty {
			return e
		}
	}
	return nil
}

// MarkGuilty marks every unresolved entry still accusing origin as
// guilty.
func (p *Partitions) MarkGuilty(origin *Origin) {
	for _, e := range p.entries {
		if !e.Guilty && e.Suspect.Equal(origin) {
			e.Guilty = true
		}
	}
}

// AllGuilty reports whether every entry has been resolved.
func (p *Partitions) AllGuilty() bool {
	for _, e := range p.entries {
		if !e.Guilty {
			return false
		}
	}
	return true
}

// Validate checks that the sequence spans [rangeStart, rangeEnd) without
// gap or overlap and that every entry has a sane num_lines/s_lno. It is
// exercised directly by the property tests and is also a useful
// assertion to call after any hand-built test fixture.
func (p *Partitions) Validate(rangeStart, rangeEnd int) error {
	if len(p.entries) == 0 {
		if rangeStart == rangeEnd {
			return nil
		}
		return fmt.Errorf("blame: empty partition sequence for non-empty range [%d,%d)", rangeStart, rangeEnd)
	}
	if p.entries[0].Lno != rangeStart {
		return fmt.Errorf("blame: first entry starts at %d, want %d", p.entries[0].Lno, rangeStart)
	}
	if last := p.entries[len(p.entries)-1]; last.end() != rangeEnd {
		return fmt.Errorf("blame: last entry ends at %d, want %d", last.end(), rangeEnd)
	}
	for i, e := range p.entries {
		if e.NumLines < 1 {
			return fmt.Errorf("blame: entry %d has num_lines %d", i, e.NumLines)
		}
		if e.SLno < 0 {
			return fmt.Errorf("blame: entry %d has negative s_lno", i)
		}
		if i > 0 && p.entries[i-1].end() != e.Lno {
			return fmt.Errorf("blame: gap/overlap between entries %d and %d", i-1, i)
		}
	}
	return nil
}

func (p *Partitions) invariantPanic(reason string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "blame: invariant violation: %s\n", reason)
	for i, e := range p.entries {
		fmt.Fprintf(&b, "  [%d] lno=%d num_lines=%d s_lno=%d guilty=%v\n", i, e.Lno, e.NumLines, e.SLno, e.Guilty)
	}
	return b.String()
}
