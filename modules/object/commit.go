// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/antgroup/zeta-blame/modules/plumbing"
)

// DateFormat is git's own commit-date layout. Human-mode blame output
// does not use it; it prints only the date as "2006-01-02".
const DateFormat = "Mon Jan 02 15:04:05 2006 -0700"

// Signature names one author or committer event.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Decode parses a "Name <email> <unix> <tz>" signature line, the same
// wire shape commits are persisted with.
func (s *Signature) Decode(b []byte) {
	open := bytes.LastIndexByte(b, '<')
	close := bytes.LastIndexByte(b, '>')
	if open == -1 || close == -1 || close < open {
		return
	}
	s.Name = string(bytes.TrimSpace(b[:open]))
	s.Email = string(b[open+1 : close])
	if close+2 >= len(b) {
		return
	}
	rest := b[close+2:]
	space := bytes.IndexByte(rest, ' ')
	if space == -1 {
		space = len(rest)
	}
	ts, err := strconv.ParseInt(string(rest[:space]), 10, 64)
	if err != nil {
		return
	}
	s.When = time.Unix(ts, 0).In(time.UTC)
	tzStart := space + 1
	if tzStart+5 > len(rest) {
		return
	}
	tz := string(rest[tzStart : tzStart+5])
	negative := tz[0] == '-'
	hours, err1 := strconv.ParseInt(tz[1:3], 10, 64)
	mins, err2 := strconv.ParseInt(tz[3:], 10, 64)
	if err1 != nil || err2 != nil {
		return
	}
	offset := hours*3600 + mins*60
	if negative {
		offset *= -1
	}
	s.When = s.When.In(time.FixedZone("", int(offset)))
}

func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.When.Unix(), s.When.Format("-0700"))
}

// Commit is a single revision in the history DAG.
type Commit struct {
	Hash      plumbing.Hash
	Tree      plumbing.Hash
	Parents   []plumbing.Hash
	Author    Signature
	Committer Signature
	Message   string

	// Uninteresting marks a commit reachable from a negative (`^rev`)
	// boundary. revwalk does not set this field: it keeps its own set,
	// which the driver consults through Walker.Uninteresting.
	Uninteresting bool

	b Backend
}

// Less reports whether c is older than rhs by committer time, ties
// broken by author time then hash, giving a total order; revwalk
// inverts it so its heap pops the newest commit first.
func (c *Commit) Less(rhs *Commit) bool {
	if !c.Committer.When.Equal(rhs.Committer.When) {
		return c.Committer.When.Before(rhs.Committer.When)
	}
	if !c.Author.When.Equal(rhs.Author.When) {
		return c.Author.When.Before(rhs.Author.When)
	}
	return bytes.Compare(c.Hash[:], rhs.Hash[:]) < 0
}

// Subject returns the first line of the commit message.
func (c *Commit) Subject() string {
	if i := strings.IndexAny(c.Message, "\r\n"); i != -1 {
		return c.Message[:i]
	}
	return c.Message
}

// Root resolves the commit's tree object.
func (c *Commit) Root(ctx context.Context) (*Tree, error) {
	return c.b.Tree(ctx, c.Tree)
}

// File resolves path inside the commit's tree, or ErrNotFound.
func (c *Commit) File(ctx context.Context, path string) (*File, error) {
	tree, err := c.Root(ctx)
	if err != nil {
		return nil, err
	}
	return tree.File(ctx, path)
}

// NumParents reports the commit's parent count (0 for a root commit).
func (c *Commit) NumParents() int { return len(c.Parents) }

// ParentAt resolves the i'th parent commit.
func (c *Commit) ParentAt(ctx context.Context, i int) (*Commit, error) {
	if i < 0 || i >= len(c.Parents) {
		return nil, io.EOF
	}
	return c.b.Commit(ctx, c.Parents[i])
}
