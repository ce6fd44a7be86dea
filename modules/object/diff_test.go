// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/antgroup/zeta-smartlog/modules/plumbing"
	"github.com/antgroup/zeta-smartlog/modules/plumbing/filemode"
)

func TestDiffTreesModificationAndAddition(t *testing.T) {
	ctx := context.Background()
	oidA1 := plumbing.NewOID([]byte("a1"))
	oidA2 := plumbing.NewOID([]byte("a2"))
	oidB := plumbing.NewOID([]byte("b"))

	old := NewTree([]*TreeEntry{
		{Name: "a.txt", Hash: oidA1, Mode: filemode.Regular},
	})
	new := NewTree([]*TreeEntry{
		{Name: "a.txt", Hash: oidA2, Mode: filemode.Regular},
		{Name: "b.txt", Hash: oidB, Mode: filemode.Regular},
	})

	changed, err := DiffTrees(ctx, old, new)
	require.NoError(t, err)
	require.Len(t, changed, 2)

	byPath := map[string]*ChangedPath{}
	for _, c := range changed {
		byPath[c.Path] = c
	}
	require.Equal(t, oidA1, byPath["a.txt"].Old.Hash)
	require.Equal(t, oidA2, byPath["a.txt"].New.Hash)
	require.Nil(t, byPath["b.txt"].Old)
	require.Equal(t, oidB, byPath["b.txt"].New.Hash)
}

func TestDiffTreesDirectoryReplacedByFile(t *testing.T) {
	ctx := context.Background()
	b := newMockBackend()
	leafOID := b.addBlob([]byte("leaf"))
	subTree := NewTree([]*TreeEntry{
		{Name: "leaf.txt", Hash: leafOID, Mode: filemode.Regular},
	})
	b.addTree(plumbing.NewOID([]byte("sub")), subTree)

	fileOID := plumbing.NewOID([]byte("replacement"))
	old := NewTree([]*TreeEntry{
		{Name: "dir", Hash: subTree.Hash, Mode: filemode.Dir},
	}).WithBackend(b)
	new := NewTree([]*TreeEntry{
		{Name: "dir", Hash: fileOID, Mode: filemode.Regular},
	}).WithBackend(b)

	changed, err := DiffTrees(ctx, old, new)
	require.NoError(t, err)

	byPath := map[string]*ChangedPath{}
	for _, c := range changed {
		byPath[c.Path] = c
	}
	require.Equal(t, leafOID, byPath["dir/leaf.txt"].Old.Hash)
	require.Nil(t, byPath["dir/leaf.txt"].New)
	require.Equal(t, fileOID, byPath["dir"].New.Hash)
	require.Nil(t, byPath["dir"].Old)
}

func TestDiffTreesNilSides(t *testing.T) {
	ctx := context.Background()
	oid := plumbing.NewOID([]byte("x"))
	new := NewTree([]*TreeEntry{{Name: "x.txt", Hash: oid, Mode: filemode.Regular}})

	changed, err := DiffTrees(ctx, nil, new)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	require.Nil(t, changed[0].Old)
}
