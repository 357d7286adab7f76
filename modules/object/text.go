// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"bytes"
	"context"
	"errors"
)

// ErrBinary is returned by Text when the blob looks binary (contains a
// NUL byte in its first 8000 bytes, the same heuristic git itself uses).
var ErrBinary = errors.New("object: binary content")

const binarySniffLen = 8000

// IsBinary applies git's own "look for a NUL in the first 8000 bytes"
// heuristic.
func IsBinary(data []byte) bool {
	n := len(data)
	if n > binarySniffLen {
		n = binarySniffLen
	}
	return bytes.IndexByte(data[:n], 0) != -1
}

// Text reads the file's blob and returns its content as a string,
// refusing binary content. This is the one call the blame engine makes
// against the object store to read file content, besides tree/commit
// lookups.
func (f *File) Text(ctx context.Context) (string, error) {
	blob, err := f.b.Blob(ctx, f.Hash)
	if err != nil {
		return "", err
	}
	if IsBinary(blob.Data) {
		return "", ErrBinary
	}
	return string(blob.Data), nil
}

// SplitLines splits content into lines, dropping a single trailing empty
// element caused by a final "\n". A file without a trailing newline
// contributes one extra incomplete line rather than having it dropped.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := bytes.Split([]byte(content), []byte("\n"))
	out := make([]string, 0, len(lines))
	for i, l := range lines {
		if i == len(lines)-1 && len(l) == 0 {
			continue
		}
		out = append(out, string(l))
	}
	return out
}
