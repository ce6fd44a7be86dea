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

// mockBackend is a minimal in-memory Backend for tests across this
// package, grounded on the teacher's MockBackend pattern in
// commit_walker_test.go.
type mockBackend struct {
	trees map[plumbing.OID]*Tree
	blobs map[plumbing.OID]*Blob
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		trees: make(map[plumbing.OID]*Tree),
		blobs: make(map[plumbing.OID]*Blob),
	}
}

func (m *mockBackend) addTree(oid plumbing.OID, t *Tree) {
	t.Hash = oid
	m.trees[oid] = t
}

func (m *mockBackend) addBlob(content []byte) plumbing.OID {
	oid := plumbing.NewOID(content)
	m.blobs[oid] = &Blob{Hash: oid, Size: int64(len(content)), Contents: content}
	return oid
}

func (m *mockBackend) Tree(_ context.Context, oid plumbing.OID) (*Tree, error) {
	t, ok := m.trees[oid]
	if !ok {
		return nil, plumbing.NoSuchObject("tree", oid)
	}
	return t, nil
}

func (m *mockBackend) Blob(_ context.Context, oid plumbing.OID) (*Blob, error) {
	b, ok := m.blobs[oid]
	if !ok {
		return nil, plumbing.NoSuchObject("blob", oid)
	}
	return b, nil
}

func TestTreeFindEntryNested(t *testing.T) {
	ctx := context.Background()
	b := newMockBackend()

	fileOID := b.addBlob([]byte("hello"))
	subTree := NewTree([]*TreeEntry{
		{Name: "b.txt", Hash: fileOID, Mode: filemode.Regular},
	})
	b.addTree(plumbing.NewOID([]byte("sub")), subTree)

	root := NewTree([]*TreeEntry{
		{Name: "dir", Hash: subTree.Hash, Mode: filemode.Dir},
	}).WithBackend(b)

	entry, err := root.FindEntry(ctx, "dir/b.txt")
	require.NoError(t, err)
	require.Equal(t, fileOID, entry.Hash)
}

func TestTreeFindEntryMissing(t *testing.T) {
	ctx := context.Background()
	root := NewTree(nil)
	_, err := root.FindEntry(ctx, "nope")
	require.True(t, IsErrEntryNotFound(err))
}

func TestSubtreeOrdering(t *testing.T) {
	tree := NewTree([]*TreeEntry{
		{Name: "lib.go", Mode: filemode.Regular, Hash: plumbing.NewOID([]byte("a"))},
		{Name: "lib", Mode: filemode.Dir, Hash: plumbing.NewOID([]byte("b"))},
	})
	require.Equal(t, "lib.go", tree.Entries[0].Name)
	require.Equal(t, "lib", tree.Entries[1].Name)
}

func TestTreeMergeReplacesAndAppends(t *testing.T) {
	oidA := plumbing.NewOID([]byte("a"))
	oidB := plumbing.NewOID([]byte("b"))
	oidC := plumbing.NewOID([]byte("c"))
	tree := NewTree([]*TreeEntry{
		{Name: "a.txt", Hash: oidA, Mode: filemode.Regular},
	})
	merged := tree.Merge(
		&TreeEntry{Name: "a.txt", Hash: oidB, Mode: filemode.Regular},
		&TreeEntry{Name: "c.txt", Hash: oidC, Mode: filemode.Regular},
	)
	require.Len(t, merged.Entries, 2)
	require.Equal(t, oidB, merged.Entry("a.txt").Hash)
	require.Equal(t, oidC, merged.Entry("c.txt").Hash)
	// original is untouched
	require.Equal(t, oidA, tree.Entry("a.txt").Hash)
}
