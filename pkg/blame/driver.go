// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package blame

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/antgroup/zeta-blame/modules/diferenco"
	"github.com/antgroup/zeta-blame/modules/grafts"
	"github.com/antgroup/zeta-blame/modules/object"
	"github.com/antgroup/zeta-blame/modules/plumbing"
	"github.com/antgroup/zeta-blame/modules/revwalk"
	"github.com/antgroup/zeta-blame/modules/trace"
)

// LineRange restricts blame to a [Start, End) sub-range of the final
// file (0-based, End exclusive; End == 0 means "through EOF"), the
// engine side of the CLI's "-L n,m" flag.
type LineRange struct {
	Start, End int
}

// Options configures one blame run, gathering every knob the CLI surface
// exposes.
type Options struct {
	Negatives         []plumbing.Hash
	MaxAge            time.Time
	Range             LineRange
	DetectMove        bool
	MoveScore         int
	DetectCopy        bool
	CopyScore         int
	CopyHarder        bool
	IgnoreWhitespace  bool
	Grafts            grafts.Table
}

func (o *Options) normalized() Options {
	n := *o
	if n.MoveScore == 0 {
		n.MoveScore = 20
	}
	if n.CopyScore == 0 {
		n.CopyScore = 40
	}
	return n
}

// Engine runs the assign_blame driver loop against one object-store
// backend.
type Engine struct {
	backend object.Backend
	origins *originCache
	opts    Options
}

// NewEngine constructs an Engine over backend.
func NewEngine(backend object.Backend, opts Options) *Engine {
	return &Engine{backend: backend, origins: newOriginCache(), opts: opts.normalized()}
}

// parents returns commit's parent hashes, substituting the graft table's
// override when one is configured for this commit.
func (e *Engine) parents(commit *object.Commit) []plumbing.Hash {
	if e.opts.Grafts != nil {
		if override, ok := e.opts.Grafts.Parents(commit.Hash); ok {
			return override
		}
	}
	return commit.Parents
}

// Run walks history backward from (startCommit, path) and returns the
// fully resolved partition sequence.
func (e *Engine) Run(ctx context.Context, startCommit *object.Commit, path string) (*Partitions, error) {
	tracker := trace.NewTracker(false)
	origin, err := e.origins.resolve(ctx, startCommit, path)
	if err != nil {
		return nil, fmt.Errorf("blame: resolving %s at %s: %w", path, startCommit.Hash.Short(12), err)
	}
	f, err := startCommit.File(ctx, path)
	if err != nil {
		return nil, err
	}
	text, err := f.Text(ctx)
	if err != nil {
		return nil, err
	}
	lines := object.SplitLines(text)

	start := e.opts.Range.Start
	end := e.opts.Range.End
	if end == 0 || end > len(lines) {
		end = len(lines)
	}
	if start < 0 || start > end {
		start = 0
	}

	partitions := NewPartitions(len(lines), origin)
	if start > 0 || end < len(lines) {
		restrictToRange(partitions, start, end)
	}

	walker, err := revwalk.New(ctx, e.backend, []plumbing.Hash{startCommit.Hash}, e.opts.Negatives, e.opts.MaxAge)
	if err != nil {
		return nil, err
	}

	textCache := map[originKey]string{}
	getText := func(ctx context.Context, o *Origin) (string, []string, error) {
		key := originKey{commit: o.Commit.Hash, path: o.Path}
		if t, ok := textCache[key]; ok {
			return t, object.SplitLines(t), nil
		}
		ff, err := o.Commit.File(ctx, o.Path)
		if err != nil {
			return "", nil, err
		}
		t, err := ff.Text(ctx)
		if err != nil {
			return "", nil, err
		}
		textCache[key] = t
		return t, object.SplitLines(t), nil
	}

	guard := 0
	maxRounds := partitions.Len()*8 + 64
	for {
		e.processRound(ctx, partitions, walker, getText, tracker)
		if partitions.AllGuilty() {
			break
		}
		guard++
		if guard > maxRounds {
			return nil, fmt.Errorf("blame: did not converge after %d rounds", guard)
		}
	}
	partitions.Coalesce()
	return partitions, nil
}

// processRound resolves every unresolved suspect currently named by some
// partition: it either pushes lines to a parent, attributes them via
// move/copy detection, or marks them guilty when the trail ends.
func (e *Engine) processRound(ctx context.Context, partitions *Partitions, walker *revwalk.Walker, getText func(context.Context, *Origin) (string, []string, error), tracker *trace.Tracker) {
	seen := map[originKey]bool{}
	for {
		pick := partitions.AnyUnresolved()
		if pick == nil {
			return
		}
		suspect := pick.Suspect
		key := originKey{commit: suspect.Commit.Hash, path: suspect.Path}
		if seen[key] {
			// already fully processed this round with no further
			// progress possible; avoid spinning.
			partitions.MarkGuilty(suspect)
			continue
		}
		seen[key] = true
		tracker.StepNext("blame %s %s", suspect.Commit.Hash.Short(8), suspect.Path)

		if !walker.ShouldExplore(suspect.Commit) {
			partitions.MarkGuilty(suspect)
			continue
		}
		parentHashes := e.parents(suspect.Commit)
		if len(parentHashes) == 0 {
			partitions.MarkGuilty(suspect)
			continue
		}

		_, targetLines, err := getText(ctx, suspect)
		if err != nil {
			partitions.MarkGuilty(suspect)
			continue
		}

		for _, ph := range parentHashes {
			if partitions.FindLastSLno(suspect) == -1 {
				break // nothing left accusing this suspect
			}
			parent, err := e.backend.Commit(ctx, ph)
			if err != nil {
				continue
			}
			e.resolveAgainstParent(ctx, partitions, suspect, parent, targetLines, getText)
		}

		// whatever still accuses suspect after every parent is this
		// commit's own doing.
		partitions.MarkGuilty(suspect)
	}
}

func (e *Engine) resolveAgainstParent(ctx context.Context, partitions *Partitions, suspect *Origin, parent *object.Commit, targetLines []string, getText func(context.Context, *Origin) (string, []string, error)) {
	parentOrigin := e.resolveParentOrigin(ctx, suspect, parent)
	if parentOrigin != nil {
		if _, parentLines, err := getText(ctx, parentOrigin); err == nil {
			diffParentLines, diffTargetLines := parentLines, targetLines
			if e.opts.IgnoreWhitespace {
				diffParentLines = normalizeWhitespace(parentLines)
				diffTargetLines = normalizeWhitespace(targetLines)
			}
			unified := diferenco.ToUnified(parentOrigin.Path, suspect.Path, joinLines(diffParentLines), joinLines(diffTargetLines), 0)
			chunks := parsePatch(unified)
			propagateToParent(partitions, suspect, parentOrigin, chunks)

			if e.opts.DetectMove {
				mover := &Mover{MinScore: e.opts.MoveScore}
				mover.Run(partitions, suspect, parentOrigin, targetLines, parentLines)
			}
		}
	}

	// Copy search is independent of whether suspect.Path itself
	// corresponds to anything in parent: its entire purpose is finding
	// content that has no path correspondence there at all, so it must
	// still run even when parentOrigin above is nil.
	if e.opts.DetectCopy {
		excludeParentPath := suspect.Path
		if parentOrigin != nil {
			excludeParentPath = parentOrigin.Path
		}
		candidates := e.copyCandidates(ctx, parent, suspect.Commit, excludeParentPath, suspect.Path, getText)
		// A same-commit candidate that some partition already accuses is
		// where suspect's lines were traced from; handing them back to it
		// would only bounce the attribution between the two files.
		kept := candidates[:0]
		for _, cand := range candidates {
			accused := false
			for _, p := range partitions.All() {
				if cand.AddedInThis && p.Suspect.Equal(cand.Origin) {
					accused = true
					break
				}
			}
			if !accused {
				kept = append(kept, cand)
			}
		}
		candidates = kept
		copier := &Copier{MinScore: e.opts.CopyScore, CopyHarder: e.opts.CopyHarder}
		copier.Run(partitions, suspect, candidates, targetLines)
	}
}

// resolveParentOrigin finds suspect.Path's counterpart in parent, first by
// the identical path, then by following a rename; nil means parent has no
// path correspondence for suspect.Path at all.
func (e *Engine) resolveParentOrigin(ctx context.Context, suspect *Origin, parent *object.Commit) *Origin {
	if pf, err := parent.File(ctx, suspect.Path); err == nil {
		return e.origins.intern(parent, suspect.Path, pf.Hash)
	}
	followedParent, followedPath, followedBlob, ok, ferr := followRename(ctx, suspect.Commit, suspect.Path)
	if ferr == nil && ok && followedParent.Hash == parent.Hash {
		return e.origins.intern(parent, followedPath, followedBlob.Hash)
	}
	return nil
}

// copyCandidates enumerates other paths in parent's tree as possible copy
// sources, which Copier always searches regardless of CopyHarder: every
// file in parent's tree, at its parent version, whether or not target
// changed it — the cheap search. When CopyHarder is set it additionally
// walks target's own tree (the commit being blamed) for every other path
// not already listed from parent, marked AddedInThis: these are files the
// current commit itself adds, read at their target version since parent
// has no copy of them.
func (e *Engine) copyCandidates(ctx context.Context, parent, target *object.Commit, excludeParentPath, excludeTargetPath string, getText func(context.Context, *Origin) (string, []string, error)) []Candidate {
	var out []Candidate
	seen := map[string]bool{excludeParentPath: true}
	if tree, err := parent.Root(ctx); err == nil {
		_ = tree.Walk(ctx, func(path string, entry *object.TreeEntry) error {
			if seen[path] || !entry.Mode.IsFile() {
				return nil
			}
			seen[path] = true
			o := e.origins.intern(parent, path, entry.Hash)
			_, lines, err := getText(ctx, o)
			if err != nil {
				return nil
			}
			out = append(out, Candidate{Path: path, Lines: lines, Origin: o})
			return nil
		})
	}
	if e.opts.CopyHarder {
		seen[excludeTargetPath] = true
		if tree, err := target.Root(ctx); err == nil {
			_ = tree.Walk(ctx, func(path string, entry *object.TreeEntry) error {
				if seen[path] || !entry.Mode.IsFile() {
					return nil
				}
				seen[path] = true
				o := e.origins.intern(target, path, entry.Hash)
				_, lines, err := getText(ctx, o)
				if err != nil {
					return nil
				}
				out = append(out, Candidate{Path: path, Lines: lines, Origin: o, AddedInThis: true})
				return nil
			})
		}
	}
	return out
}

// normalizeWhitespace collapses runs of spaces/tabs to a single space and
// trims leading/trailing whitespace, used only to decide equality during
// diffing under "-w"; the original line text is always what gets
// reported and searched by Mover/Copier.
func normalizeWhitespace(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		trimmed := strings.TrimRight(l, "\n")
		suffix := l[len(trimmed):]
		fields := strings.Fields(trimmed)
		out[i] = strings.Join(fields, " ") + suffix
	}
	return out
}

func joinLines(lines []string) string {
	out := make([]byte, 0, 64*len(lines))
	for _, l := range lines {
		out = append(out, l...)
		if len(l) == 0 || l[len(l)-1] != '\n' {
			out = append(out, '\n')
		}
	}
	return string(out)
}

// restrictToRange splits the initial whole-file partition at start and
// end and marks the lines outside [start, end) as already resolved to
// their own (starting) suspect: "-L" narrows which lines the
// driver bothers to chase, and the rest report their starting commit
// untouched.
func restrictToRange(partitions *Partitions, start, end int) {
	whole := partitions.All()[0]
	var pre, post *Partition
	if start > 0 {
		pre = &Partition{Lno: 0, NumLines: start, Suspect: whole.Suspect, SLno: 0, Guilty: true}
	}
	middle := &Partition{Lno: start, NumLines: end - start, Suspect: whole.Suspect, SLno: start}
	if end < whole.end() {
		post = &Partition{Lno: end, NumLines: whole.end() - end, Suspect: whole.Suspect, SLno: end, Guilty: true}
	}
	partitions.Split(whole, pre, middle, post)
}
