// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package diferenco

import (
	"fmt"
	"strings"
)

// Line is one rendered line of a hunk.
type Line struct {
	Op      Op
	Content string
}

// Hunk is a contiguous run of edits plus the surrounding context lines,
// addressed by 1-based pre/post starting line and line count — the same
// shape a "@@ -l,s +l,s @@" header carries.
type Hunk struct {
	FromLine, FromCount int
	ToLine, ToCount     int
	Lines               []Line
}

// Unified is a full two-file unified diff.
type Unified struct {
	FromPath, ToPath string
	Hunks            []*Hunk
}

// String renders u in standard unified-diff text form.
func (u *Unified) String() string {
	if len(u.Hunks) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n", orDevNull(u.FromPath))
	fmt.Fprintf(&b, "+++ %s\n", orDevNull(u.ToPath))
	for _, h := range u.Hunks {
		writeHunkHeader(&b, h)
		for _, l := range h.Lines {
			switch l.Op {
			case Delete:
				fmt.Fprintf(&b, "-%s", l.Content)
			case Insert:
				fmt.Fprintf(&b, "+%s", l.Content)
			default:
				fmt.Fprintf(&b, " %s", l.Content)
			}
			if !strings.HasSuffix(l.Content, "\n") {
				b.WriteString("\n\\ No newline at end of file\n")
			}
		}
	}
	return b.String()
}

func orDevNull(p string) string {
	if p == "" {
		return "/dev/null"
	}
	return p
}

func writeHunkHeader(b *strings.Builder, h *Hunk) {
	b.WriteString("@@")
	writeRange(b, '-', h.FromLine, h.FromCount)
	writeRange(b, '+', h.ToLine, h.ToCount)
	b.WriteString(" @@\n")
}

func writeRange(b *strings.Builder, sign byte, line, count int) {
	if count == 1 {
		fmt.Fprintf(b, " %c%d", sign, line)
		return
	}
	fmt.Fprintf(b, " %c%d,%d", sign, line, count)
}

// ToUnified diffs pre against post and groups the edit script into hunks
// with `context` lines of surrounding equal content on each side; the
// Propagator calls it with 0 for exact-boundary chunks.
func ToUnified(fromPath, toPath, pre, post string, context int) *Unified {
	edits := ops(pre, post)
	hunks := groupHunks(edits, context)
	return &Unified{FromPath: fromPath, ToPath: toPath, Hunks: hunks}
}

// taggedEdit is a scriptEdit annotated with its 1-based pre/post line
// numbers, used to compute hunk headers.
type taggedEdit struct {
	op   Op
	text string
	from int // 1-based pre line number this edit consumes (0 if none)
	to   int // 1-based post line number this edit produces (0 if none)
}

func groupHunks(edits []scriptEdit, context int) []*Hunk {
	tagged := make([]taggedEdit, 0, len(edits))
	fromLine, toLine := 1, 1
	for _, e := range edits {
		// from/to are recorded for every edit regardless of op, not just
		// the side it consumes: a hunk that opens on a pure Insert (no
		// leading Delete/Equal in its span, the common zero-context
		// insertion case) still needs a valid anchor line on the from
		// side, and only this unconditional assignment gives buildHunk's
		// span[0] fallback something real to read.
		ie := taggedEdit{op: e.Op, text: e.Text, from: fromLine, to: toLine}
		switch e.Op {
		case Equal:
			fromLine++
			toLine++
		case Delete:
			fromLine++
		case Insert:
			toLine++
		}
		tagged = append(tagged, ie)
	}

	var hunks []*Hunk
	i := 0
	n := len(tagged)
	for i < n {
		if tagged[i].op == Equal {
			i++
			continue
		}
		// found a divergence; walk backward up to `context` equal lines.
		start := i
		for k := 0; k < context && start > 0 && tagged[start-1].op == Equal; k++ {
			start--
		}
		end := i
		for end < n {
			if tagged[end].op != Equal {
				end++
				continue
			}
			// count the run of equal lines; if it's longer than 2*context
			// (enough to separate this hunk from the next change) stop.
			run := 0
			for end+run < n && tagged[end+run].op == Equal {
				run++
			}
			if run > 2*context || end+run >= n {
				end += min(run, context)
				break
			}
			end += run
		}
		h := buildHunk(tagged[start:end])
		hunks = append(hunks, h)
		i = end
	}
	return hunks
}

func buildHunk(span []taggedEdit) *Hunk {
	h := &Hunk{}
	for _, e := range span {
		h.Lines = append(h.Lines, Line{Op: e.op, Content: e.text})
		switch e.op {
		case Equal:
			if h.FromLine == 0 {
				h.FromLine = e.from
			}
			if h.ToLine == 0 {
				h.ToLine = e.to
			}
			h.FromCount++
			h.ToCount++
		case Delete:
			if h.FromLine == 0 {
				h.FromLine = e.from
			}
			h.FromCount++
		case Insert:
			if h.ToLine == 0 {
				h.ToLine = e.to
			}
			h.ToCount++
		}
	}
	if h.FromLine == 0 {
		h.FromLine = span[0].from
	}
	if h.ToLine == 0 {
		h.ToLine = span[0].to
	}
	return h
}
