// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/antgroup/zeta-blame/modules/grafts"
	"github.com/antgroup/zeta-blame/modules/objstore"
	"github.com/antgroup/zeta-blame/modules/plumbing"
	"github.com/antgroup/zeta-blame/pkg/blame"
)

// Blame implements the "zeta-blame" subcommand: line-level provenance
// for one path at one revision.
type Blame struct {
	Revision string `arg:"" optional:"" name:"revision" help:"Commit to blame from (defaults to HEAD)"`
	Path     string `arg:"" name:"path" help:"Path to blame"`

	Compat            bool   `short:"c" name:"compat" help:"Accepted but ignored: output format is unchanged"`
	Long              bool   `short:"l" name:"long" help:"Show the full 64-hex-digit digest instead of the 8-digit abbreviation"`
	RawTime           bool   `short:"t" name:"raw-time" help:"Accepted but ignored: dates are always shown as YYYY-MM-DD"`
	ShowName          bool   `short:"f" name:"show-name" help:"Force the path column"`
	ShowNumber        bool   `short:"n" name:"show-number" help:"Show the original line-number column"`
	Porcelain         bool   `short:"p" name:"porcelain" help:"Machine-readable output"`
	Range             string `short:"L" name:"range" help:"Restrict to 1-based inclusive line range n,m"`
	Move              bool   `short:"M" name:"move" help:"Enable move detection (default score 20)"`
	MoveScore         int    `name:"move-score" help:"Override the move-detection score"`
	Copy              int    `short:"C" name:"copy" type:"counter" help:"Enable copy detection (default score 40); repeat for copy-harder"`
	CopyScore         int    `name:"copy-score" help:"Override the copy-detection score"`
	Grafts            string `short:"S" name:"grafts" help:"Load a grafts file"`
	ScoreDebug        bool   `name:"score-debug" help:"Include per-entry score in human output"`
	IgnoreSpaceChange bool   `short:"w" name:"ignore-space-change" help:"Ignore whitespace-only changes when diffing"`
}

func (c *Blame) Run(g *Globals) error {
	ctx := context.Background()
	store := objstore.NewLoose(g.Root)

	rev := c.Revision
	if rev == "" {
		h, err := readHead(g.Root)
		if err != nil {
			return fmt.Errorf("zeta-blame: resolving HEAD: %w", err)
		}
		rev = h
	}
	hash, err := plumbing.NewHashEx(rev)
	if err != nil {
		return fmt.Errorf("zeta-blame: %q is not a valid revision: %w", rev, err)
	}
	commit, err := store.Commit(ctx, hash)
	if err != nil {
		return fmt.Errorf("zeta-blame: no such commit %s: %w", rev, err)
	}

	opts, err := c.toEngineOptions()
	if err != nil {
		return err
	}
	g.dbgPrint("blaming %s at %s", c.Path, commit.Hash.Short(12))

	result, err := blame.Blame(ctx, store, commit, c.Path, opts)
	if err != nil {
		return err
	}

	abbrevLen := 8
	if c.Long {
		abbrevLen = 64
	}
	return blame.Format(os.Stdout, result.Partitions, result.Lines, blame.FormatOptions{
		Porcelain:  c.Porcelain,
		ShowName:   c.ShowName,
		ShowNumber: c.ShowNumber,
		Abbrev:     abbrevLen,
		ScoreDebug: c.ScoreDebug,
	})
}

func (c *Blame) toEngineOptions() (blame.Options, error) {
	opts := blame.Options{
		DetectMove:       c.Move,
		MoveScore:        c.MoveScore,
		DetectCopy:       c.Copy > 0,
		CopyScore:        c.CopyScore,
		CopyHarder:       c.Copy > 1,
		IgnoreWhitespace: c.IgnoreSpaceChange,
	}
	if c.Range != "" {
		start, end, err := parseRange(c.Range)
		if err != nil {
			return opts, err
		}
		opts.Range = blame.LineRange{Start: start, End: end}
	}
	if c.Grafts != "" {
		f, err := os.Open(c.Grafts)
		if err != nil {
			return opts, fmt.Errorf("zeta-blame: opening grafts file: %w", err)
		}
		defer f.Close()
		table, err := grafts.Parse(f)
		if err != nil {
			return opts, fmt.Errorf("zeta-blame: %w", err)
		}
		opts.Grafts = table
	}
	return opts, nil
}

// parseRange parses "-L n,m" (1-based, inclusive) into the engine's
// 0-based, end-exclusive LineRange.
func parseRange(s string) (start, end int, err error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("zeta-blame: malformed -L range %q: want n,m", s)
	}
	n, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("zeta-blame: malformed -L range %q: not integers", s)
	}
	if n < 1 || n > m {
		return 0, 0, fmt.Errorf("zeta-blame: malformed -L range %q: require 1 <= n <= m", s)
	}
	return n - 1, m, nil
}

// readHead reads a plain-text HEAD file under root containing the hex
// commit digest to blame from when no revision argument was given.
func readHead(root string) (string, error) {
	b, err := os.ReadFile(filepath.Join(root, "HEAD"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
