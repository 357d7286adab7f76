// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package blame

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/antgroup/zeta-blame/modules/plumbing"
)

// FormatOptions controls the two rendering modes: Human (aligned
// columns, optional filename/line-number columns) and Porcelain (one
// stable machine-readable record per line).
type FormatOptions struct {
	Porcelain  bool
	ShowName   bool // include the suspect's path column, even if unchanged
	ShowNumber bool // include the suspect's own line number
	Abbrev     int  // hex digits of the commit hash to print; 0 means 8
	ScoreDebug bool // append the cached move/copy score next to each line
}

// finalLines is supplied by the caller (already split from the blamed
// commit's text) so the formatter can print the content column.
func Format(w io.Writer, partitions *Partitions, finalLines []string, opts FormatOptions) error {
	if opts.Porcelain {
		return formatPorcelain(w, partitions, finalLines)
	}
	return formatHuman(w, partitions, finalLines, opts)
}

func abbrev(h plumbing.Hash, n int) string {
	if n <= 0 {
		n = 8
	}
	return h.Short(n)
}

// formatHuman pre-computes column widths across the whole file before
// emitting any line, so alignment reflects the complete result set
// rather than each line independently.
func formatHuman(w io.Writer, partitions *Partitions, finalLines []string, opts FormatOptions) error {
	abbrevLen := opts.Abbrev
	if abbrevLen <= 0 {
		abbrevLen = 8
	}
	var pathWidth, slnoWidth, lnoWidth int
	for _, e := range partitions.All() {
		if l := utf8.RuneCountInString(e.Suspect.Path); l > pathWidth {
			pathWidth = l
		}
		if l := len(strconv.Itoa(e.SLno + e.NumLines)); l > slnoWidth {
			slnoWidth = l
		}
	}
	if l := len(strconv.Itoa(len(finalLines))); l > lnoWidth {
		lnoWidth = l
	}

	lno := 0
	for _, e := range partitions.All() {
		for i := 0; i < e.NumLines; i++ {
			var b strings.Builder
			b.WriteString(abbrev(e.Suspect.Commit.Hash, abbrevLen))
			if opts.ShowName {
				fmt.Fprintf(&b, " %-*s", pathWidth, e.Suspect.Path)
			}
			if opts.ShowNumber {
				fmt.Fprintf(&b, " %*d", slnoWidth, e.SLno+i+1)
			}
			fmt.Fprintf(&b, " (%s %*d)", authorColumn(e), lnoWidth, lno+1)
			content := ""
			if lno < len(finalLines) {
				content = finalLines[lno]
			}
			b.WriteString(" ")
			b.WriteString(content)
			if opts.ScoreDebug {
				if e.score == 0 {
					e.score = scoreText(finalLines[e.Lno:min(e.end(), len(finalLines))])
				}
				fmt.Fprintf(&b, " [score=%d]", e.score)
			}
			if _, err := fmt.Fprintln(w, b.String()); err != nil {
				return err
			}
			lno++
		}
	}
	return nil
}

func authorColumn(e *Partition) string {
	name := e.Suspect.Commit.Author.Name
	when := e.Suspect.Commit.Author.When
	return fmt.Sprintf("%-20s %s", name, when.Format("2006-01-02"))
}

// formatPorcelain renders the machine-readable form: a full header the
// first time a commit is seen, an abbreviated one on repeat, matching
// the convention every git-blame-alike tool follows so existing
// porcelain consumers keep working unmodified.
func formatPorcelain(w io.Writer, partitions *Partitions, finalLines []string) error {
	seen := map[plumbing.Hash]bool{}
	lno := 0
	for _, e := range partitions.All() {
		for i := 0; i < e.NumLines; i++ {
			h := e.Suspect.Commit.Hash
			if n := groupLen(e, i); n > 0 {
				fmt.Fprintf(w, "%s %d %d %d\n", h.String(), e.SLno+i+1, lno+1, n)
			} else {
				fmt.Fprintf(w, "%s %d %d\n", h.String(), e.SLno+i+1, lno+1)
			}
			if !seen[h] {
				seen[h] = true
				fmt.Fprintf(w, "author %s\n", e.Suspect.Commit.Author.Name)
				fmt.Fprintf(w, "author-mail <%s>\n", e.Suspect.Commit.Author.Email)
				fmt.Fprintf(w, "author-time %d\n", e.Suspect.Commit.Author.When.Unix())
				fmt.Fprintf(w, "summary %s\n", e.Suspect.Commit.Subject())
			}
			fmt.Fprintf(w, "filename %s\n", e.Suspect.Path)
			content := ""
			if lno < len(finalLines) {
				content = finalLines[lno]
			}
			fmt.Fprintf(w, "\t%s\n", content)
			lno++
		}
	}
	return nil
}

// groupLen reports the run length to print on a porcelain header line:
// the full NumLines on the first line of the group, 0 (no count field)
// on every subsequent line, matching git's own porcelain format.
func groupLen(e *Partition, i int) int {
	if i == 0 {
		return e.NumLines
	}
	return 0
}
