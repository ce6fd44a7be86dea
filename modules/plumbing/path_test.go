// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package plumbing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathSetSortedIsDeterministic(t *testing.T) {
	ps := NewPathSet("b.txt", "a.txt", "c/d.txt")
	require.Equal(t, []string{"a.txt", "b.txt", "c/d.txt"}, ps.Sorted())
	require.True(t, ps.Contains("a.txt"))
	require.False(t, ps.Contains("missing"))
	require.Equal(t, 3, ps.Len())
}

func TestPathSetUnion(t *testing.T) {
	a := NewPathSet("x", "y")
	b := NewPathSet("y", "z")
	union := a.Union(b)
	require.Equal(t, []string{"x", "y", "z"}, union.Sorted())
}
