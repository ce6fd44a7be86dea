// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/antgroup/zeta-smartlog/modules/object"
	"github.com/antgroup/zeta-smartlog/modules/plumbing"
	"github.com/antgroup/zeta-smartlog/modules/plumbing/filemode"
	"github.com/antgroup/zeta-smartlog/pkg/odb"
)

func TestDehydrateOmitsUntouchedSiblingsAndEmptyDirs(t *testing.T) {
	ctx := context.Background()
	s, err := odb.NewMemStore()
	require.NoError(t, err)

	wantedOID, err := s.CreateBlob(ctx, []byte("wanted"))
	require.NoError(t, err)
	ignoredOID, err := s.CreateBlob(ctx, []byte("ignored"))
	require.NoError(t, err)

	subTreeOID, err := s.CreateTree(ctx, []*object.TreeEntry{
		{Name: "wanted.txt", Hash: wantedOID, Mode: filemode.Regular},
		{Name: "ignored.txt", Hash: ignoredOID, Mode: filemode.Regular},
	})
	require.NoError(t, err)
	onlyIgnoredSubTreeOID, err := s.CreateTree(ctx, []*object.TreeEntry{
		{Name: "also-ignored.txt", Hash: ignoredOID, Mode: filemode.Regular},
	})
	require.NoError(t, err)

	rootOID, err := s.CreateTree(ctx, []*object.TreeEntry{
		{Name: "dir", Hash: subTreeOID, Mode: filemode.Dir},
		{Name: "emptied-dir", Hash: onlyIgnoredSubTreeOID, Mode: filemode.Dir},
	})
	require.NoError(t, err)

	root, err := s.Tree(ctx, rootOID)
	require.NoError(t, err)

	dehydrator, err := NewDehydrator(s)
	require.NoError(t, err)

	dehydratedOID, err := dehydrator.Dehydrate(ctx, root, plumbing.NewPathSet("dir/wanted.txt", "emptied-dir/wanted.txt"))
	require.NoError(t, err)
	require.NotEqual(t, plumbing.ZeroOID, dehydratedOID)

	dehydrated, err := s.Tree(ctx, dehydratedOID)
	require.NoError(t, err)
	require.Nil(t, dehydrated.Entry("emptied-dir"))

	dirEntry := dehydrated.Entry("dir")
	require.NotNil(t, dirEntry)
	subTree, err := dehydrated.Subtree(ctx, "dir")
	require.NoError(t, err)
	require.NotNil(t, subTree.Entry("wanted.txt"))
	require.Nil(t, subTree.Entry("ignored.txt"))
}

func TestDehydrateEmptyPathSetReturnsZero(t *testing.T) {
	ctx := context.Background()
	s, err := odb.NewMemStore()
	require.NoError(t, err)
	dehydrator, err := NewDehydrator(s)
	require.NoError(t, err)

	oid, err := dehydrator.Dehydrate(ctx, object.NewTree(nil), plumbing.NewPathSet())
	require.NoError(t, err)
	require.Equal(t, plumbing.ZeroOID, oid)
}
