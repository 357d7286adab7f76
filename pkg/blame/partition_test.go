// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package blame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antgroup/zeta-blame/modules/object"
	"github.com/antgroup/zeta-blame/modules/plumbing"
)

// testOrigin builds a bare Origin with a distinct commit hash derived
// from name, enough to exercise Origin.Equal and the Partitions
// bookkeeping without needing a real object store.
func testOrigin(name, path string) *Origin {
	c := &object.Commit{Hash: plumbing.SumBytes([]byte(name))}
	return &Origin{Commit: c, Path: path}
}

func TestPartitionsSplitAndValidate(t *testing.T) {
	origin := testOrigin("c1", "a.txt")
	parts := NewPartitions(10, origin)
	require.NoError(t, parts.Validate(0, 10))

	whole := parts.All()[0]
	pre := &Partition{Lno: 0, NumLines: 3, Suspect: origin, SLno: 0}
	middle := &Partition{Lno: 3, NumLines: 4, Suspect: origin, SLno: 3}
	post := &Partition{Lno: 7, NumLines: 3, Suspect: origin, SLno: 7}
	parts.Split(whole, pre, middle, post)

	require.NoError(t, parts.Validate(0, 10))
	assert.Equal(t, 3, parts.Len())
}

func TestPartitionsSplitPanicsOnGap(t *testing.T) {
	origin := testOrigin("c1", "a.txt")
	parts := NewPartitions(10, origin)
	whole := parts.All()[0]

	assert.Panics(t, func() {
		// deliberately leaves a gap between pre and post at [3,4)
		pre := &Partition{Lno: 0, NumLines: 3, Suspect: origin, SLno: 0}
		post := &Partition{Lno: 4, NumLines: 6, Suspect: origin, SLno: 4}
		parts.Split(whole, pre, nil, post)
	})
}

func TestPartitionsCoalesceIsIdempotent(t *testing.T) {
	origin := testOrigin("c1", "a.txt")
	parts := NewPartitions(10, origin)
	whole := parts.All()[0]
	pre := &Partition{Lno: 0, NumLines: 3, Suspect: origin, SLno: 0}
	middle := &Partition{Lno: 3, NumLines: 4, Suspect: origin, SLno: 3}
	post := &Partition{Lno: 7, NumLines: 3, Suspect: origin, SLno: 7}
	parts.Split(whole, pre, middle, post)
	require.Equal(t, 3, parts.Len())

	parts.Coalesce()
	assert.Equal(t, 1, parts.Len(), "adjacent same-suspect contiguous ranges should fuse back together")
	require.NoError(t, parts.Validate(0, 10))

	before := parts.Len()
	parts.Coalesce()
	assert.Equal(t, before, parts.Len(), "coalesce must be idempotent")
}

func TestPartitionsMarkGuiltyAndAllGuilty(t *testing.T) {
	origin := testOrigin("c1", "a.txt")
	parts := NewPartitions(5, origin)
	assert.False(t, parts.AllGuilty())
	assert.NotNil(t, parts.AnyUnresolved())

	parts.MarkGuilty(origin)
	assert.True(t, parts.AllGuilty())
	assert.Nil(t, parts.AnyUnresolved())
}

func TestPartitionsFindLastSLno(t *testing.T) {
	origin := testOrigin("c1", "a.txt")
	parts := NewPartitions(6, origin)
	whole := parts.All()[0]
	pre := &Partition{Lno: 0, NumLines: 2, Suspect: origin, SLno: 0}
	post := &Partition{Lno: 2, NumLines: 4, Suspect: origin, SLno: 2}
	parts.Split(whole, pre, nil, post)

	assert.Equal(t, 6, parts.FindLastSLno(origin))

	other := testOrigin("c2", "b.txt")
	assert.Equal(t, -1, parts.FindLastSLno(other))
}
