// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antgroup/zeta-blame/modules/plumbing"
)

// Encode and Decode below define the on-disk wire format for commits and
// trees: a plain, line-oriented text format in the git tradition, chosen
// so loose objects are diffable and greppable on disk. Blobs have no
// header; they are stored as raw bytes.

// Encode writes c in wire format (without the content hash — the store
// computes that from these bytes).
func (c *Commit) Encode(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "tree %s\n", c.Tree); err != nil {
		return err
	}
	for _, p := range c.Parents {
		if _, err := fmt.Fprintf(w, "parent %s\n", p); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "author %s\ncommitter %s\n\n%s", c.Author, c.Committer, c.Message); err != nil {
		return err
	}
	return nil
}

// DecodeCommit parses the wire format Encode produces.
func DecodeCommit(hash plumbing.Hash, r io.Reader, b Backend) (*Commit, error) {
	c := &Commit{Hash: hash, b: b}
	br := bufio.NewReader(r)
	var msg strings.Builder
	headers := true
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		text := strings.TrimSuffix(line, "\n")
		if headers {
			if text == "" {
				headers = false
			} else if rest, ok := strings.CutPrefix(text, "tree "); ok {
				c.Tree = plumbing.NewHash(rest)
			} else if rest, ok := strings.CutPrefix(text, "parent "); ok {
				c.Parents = append(c.Parents, plumbing.NewHash(rest))
			} else if rest, ok := strings.CutPrefix(text, "author "); ok {
				c.Author.Decode([]byte(rest))
			} else if rest, ok := strings.CutPrefix(text, "committer "); ok {
				c.Committer.Decode([]byte(rest))
			}
		} else {
			msg.WriteString(line)
		}
		if err == io.EOF {
			break
		}
	}
	c.Message = msg.String()
	return c, nil
}

// Encode writes t in wire format: one "<mode> <size> <hash> <name>" line
// per entry, entries already sorted by Name.
func (t *Tree) Encode(w io.Writer) error {
	for _, e := range t.Entries {
		if _, err := fmt.Fprintf(w, "%o %d %s %s\n", e.Mode, e.Size, e.Hash, e.Name); err != nil {
			return err
		}
	}
	return nil
}

// DecodeTree parses the wire format Encode produces.
func DecodeTree(r io.Reader, b Backend) (*Tree, error) {
	t := &Tree{b: b}
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		text := strings.TrimSuffix(line, "\n")
		if text != "" {
			e, perr := parseTreeLine(text)
			if perr != nil {
				return nil, perr
			}
			t.Entries = append(t.Entries, e)
		}
		if err == io.EOF {
			break
		}
	}
	return t, nil
}

func parseTreeLine(text string) (TreeEntry, error) {
	fields := strings.SplitN(text, " ", 4)
	if len(fields) != 4 {
		return TreeEntry{}, fmt.Errorf("object: malformed tree line %q", text)
	}
	mode, err := strconv.ParseUint(fields[0], 8, 32)
	if err != nil {
		return TreeEntry{}, fmt.Errorf("object: malformed tree mode %q: %w", fields[0], err)
	}
	size, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return TreeEntry{}, fmt.Errorf("object: malformed tree size %q: %w", fields[1], err)
	}
	return TreeEntry{
		Mode: FileMode(mode),
		Size: size,
		Hash: plumbing.NewHash(fields[2]),
		Name: fields[3],
	}, nil
}

// EncodedBytes is a small convenience used by the store to hash+persist
// an object in one step.
func EncodedBytes(enc func(io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := enc(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
