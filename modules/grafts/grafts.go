// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package grafts parses the grafts file the CLI surface loads via
// "-S <file>": one commit per line, followed by the hashes that
// should be substituted for its real parents. This lets a blame run walk
// a rewritten or stitched-together history without altering the object
// store itself.
package grafts

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/antgroup/zeta-blame/modules/plumbing"
)

// Table maps a commit to the parent list that should override its real
// parents, per the loaded grafts file.
type Table map[plumbing.Hash][]plumbing.Hash

// Parse reads a grafts file: one line per graft, whitespace-separated
// hex hashes, "<child> <parent1> <parent2> ..."; blank lines and lines
// starting with '#' are ignored.
func Parse(r io.Reader) (Table, error) {
	t := make(Table)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		child, err := plumbing.NewHashEx(fields[0])
		if err != nil {
			return nil, fmt.Errorf("grafts: line %d: %w", lineNo, err)
		}
		parents := make([]plumbing.Hash, 0, len(fields)-1)
		for _, f := range fields[1:] {
			p, err := plumbing.NewHashEx(f)
			if err != nil {
				return nil, fmt.Errorf("grafts: line %d: %w", lineNo, err)
			}
			parents = append(parents, p)
		}
		t[child] = parents
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("grafts: %w", err)
	}
	return t, nil
}

// Parents returns the graft override for c, if any, and whether one
// exists.
func (t Table) Parents(c plumbing.Hash) ([]plumbing.Hash, bool) {
	p, ok := t[c]
	return p, ok
}
