// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package blame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antgroup/zeta-blame/modules/diferenco"
)

func TestParsePatchSubstitution(t *testing.T) {
	pre := "a\nb\nc\n"
	post := "a\nx\nc\n"
	u := diferenco.ToUnified("old", "new", pre, post, 0)
	chunks := parsePatch(u)

	require.Len(t, chunks, 2)
	assert.Equal(t, Chunk{Same: 1, PNext: 2, TNext: 2}, chunks[0])
	assert.Equal(t, math.MaxInt, chunks[1].Same)
	assert.Equal(t, 2, chunks[1].PNext)
	assert.Equal(t, 2, chunks[1].TNext)
}

func TestParsePatchPureInsertion(t *testing.T) {
	pre := "a\nb\nc\n"
	post := "a\nb\nx\nc\n"
	u := diferenco.ToUnified("old", "new", pre, post, 0)
	chunks := parsePatch(u)

	require.Len(t, chunks, 2)
	// the insertion sits at target index 2 ("x"), and the patch adapter
	// must anchor the parent side at index 2 too (pre's "c"), not 0 --
	// this is the exact case a buggy hunk-header fallback gets wrong.
	assert.Equal(t, Chunk{Same: 2, PNext: 2, TNext: 3}, chunks[0])
	assert.Equal(t, math.MaxInt, chunks[1].Same)
	assert.Equal(t, 2, chunks[1].PNext)
	assert.Equal(t, 3, chunks[1].TNext)
}

func TestParsePatchNoChange(t *testing.T) {
	pre := "a\nb\nc\n"
	u := diferenco.ToUnified("old", "new", pre, pre, 0)
	chunks := parsePatch(u)

	require.Len(t, chunks, 1)
	assert.Equal(t, math.MaxInt, chunks[0].Same)
	assert.Equal(t, 0, chunks[0].PNext)
	assert.Equal(t, 0, chunks[0].TNext)
}

func TestParsePatchPureDeletion(t *testing.T) {
	pre := "a\nb\nc\n"
	post := "a\nc\n"
	u := diferenco.ToUnified("old", "new", pre, post, 0)
	chunks := parsePatch(u)

	require.Len(t, chunks, 2)
	assert.Equal(t, 1, chunks[0].Same)
	assert.Equal(t, 2, chunks[0].PNext)
	assert.Equal(t, 1, chunks[0].TNext)
}
