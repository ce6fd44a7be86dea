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

func blob(t *testing.T, ctx context.Context, s *odb.MemStore, content string) plumbing.OID {
	t.Helper()
	oid, err := s.CreateBlob(ctx, []byte(content))
	require.NoError(t, err)
	return oid
}

func tree(t *testing.T, ctx context.Context, s *odb.MemStore, files map[string]string) plumbing.OID {
	t.Helper()
	var entries []*object.TreeEntry
	for name, content := range files {
		entries = append(entries, &object.TreeEntry{
			Name: name,
			Hash: blob(t, ctx, s, content),
			Mode: filemode.Regular,
		})
	}
	oid, err := s.CreateTree(ctx, entries)
	require.NoError(t, err)
	return oid
}

func commit(t *testing.T, ctx context.Context, s *odb.MemStore, message string, treeOID plumbing.OID, parents ...plumbing.OID) plumbing.OID {
	t.Helper()
	sig := object.AutomationSignature()
	oid, err := s.CreateCommit(ctx, sig, sig, message, treeOID, parents)
	require.NoError(t, err)
	return oid
}

func entryHash(t *testing.T, ctx context.Context, s *odb.MemStore, treeOID plumbing.OID, path string) plumbing.OID {
	t.Helper()
	tr, err := s.Tree(ctx, treeOID)
	require.NoError(t, err)
	e, err := tr.FindEntry(ctx, path)
	require.NoError(t, err)
	return e.Hash
}

// Scenario 1: cherry-picking a patch onto a destination that diverged from
// the patch's own parent reapplies just the patch's change, leaving the
// destination's own unrelated changes intact.
func TestCherryPickFastOntoDivergentDestination(t *testing.T) {
	ctx := context.Background()
	s, err := odb.NewMemStore()
	require.NoError(t, err)
	dehydrator, err := rewriteDehydrator(s)
	require.NoError(t, err)

	rootTree := tree(t, ctx, s, map[string]string{"a.txt": "r"})
	root := commit(t, ctx, s, "root", rootTree)

	parentTree := tree(t, ctx, s, map[string]string{"a.txt": "r", "file.txt": "orig"})
	parent := commit(t, ctx, s, "add file", parentTree, root)

	patchTree := tree(t, ctx, s, map[string]string{"a.txt": "r", "file.txt": "changed"})
	patch := commit(t, ctx, s, "change file", patchTree, parent)

	// destination diverged from parent (not root), doing unrelated work:
	// it already has file.txt unchanged from parent, so the patch's
	// change to file.txt applies cleanly.
	destinationTree := tree(t, ctx, s, map[string]string{"a.txt": "r", "file.txt": "orig", "other.txt": "other"})
	destination := commit(t, ctx, s, "unrelated work", destinationTree, parent)

	newTree, err := CherryPickFast(ctx, s, dehydrator, CherryPickOptions{
		Commit:      patch,
		Destination: destination,
	})
	require.NoError(t, err)

	require.Equal(t, blob(t, ctx, s, "changed"), entryHash(t, ctx, s, newTree, "file.txt"))
	require.Equal(t, blob(t, ctx, s, "other"), entryHash(t, ctx, s, newTree, "other.txt"))
	require.Equal(t, blob(t, ctx, s, "r"), entryHash(t, ctx, s, newTree, "a.txt"))
}

// Scenario: cherry-picking a patch whose source parent's tree is identical
// to the destination's tree reapplies with zero conflict potential, so the
// result is just the patch's own tree, unchanged (§8 "reword short-circuit"
// property, generalized to ReuseParentTreeIfPossible).
func TestCherryPickFastReusesParentTreeWhenIdentical(t *testing.T) {
	ctx := context.Background()
	s, err := odb.NewMemStore()
	require.NoError(t, err)
	dehydrator, err := rewriteDehydrator(s)
	require.NoError(t, err)

	parentTree := tree(t, ctx, s, map[string]string{"a.txt": "r"})
	parent := commit(t, ctx, s, "parent", parentTree)

	patchTree := tree(t, ctx, s, map[string]string{"a.txt": "r", "msg.txt": "reworded"})
	patch := commit(t, ctx, s, "reword", patchTree, parent)

	// destination's tree is byte-identical to the patch's own source
	// parent's tree, e.g. a pure message reword with no tree change to
	// replay against.
	destination := commit(t, ctx, s, "same tree as parent", parentTree, parent)

	newTree, err := CherryPickFast(ctx, s, dehydrator, CherryPickOptions{
		Commit:                    patch,
		Destination:               destination,
		ReuseParentTreeIfPossible: true,
	})
	require.NoError(t, err)
	require.Equal(t, patchTree, newTree)
}

func TestCherryPickFastRequiresSingleParent(t *testing.T) {
	ctx := context.Background()
	s, err := odb.NewMemStore()
	require.NoError(t, err)
	dehydrator, err := rewriteDehydrator(s)
	require.NoError(t, err)

	rootTree := tree(t, ctx, s, map[string]string{"a.txt": "r"})
	root := commit(t, ctx, s, "root", rootTree)

	_, err = CherryPickFast(ctx, s, dehydrator, CherryPickOptions{Commit: root, Destination: root})
	require.True(t, IsMissingPatch(err))
}

// Scenario 2: amending from an empty index is an identity operation.
func TestAmendFastEmptyIndexIsIdentity(t *testing.T) {
	ctx := context.Background()
	s, err := odb.NewMemStore()
	require.NoError(t, err)

	treeOID := tree(t, ctx, s, map[string]string{"a.txt": "content"})
	original := commit(t, ctx, s, "msg", treeOID)

	resultTree, err := AmendFast(ctx, s, AmendFastOptions{
		Commit: original,
		Source: FromIndex{Updates: map[string]odb.IndexEntry{}},
	})
	require.NoError(t, err)

	originalObj, err := s.FindCommitOrFail(ctx, original)
	require.NoError(t, err)
	require.Equal(t, originalObj.Tree, resultTree)
}

// Scenario 3: amending from the working copy replaces a blob's content
// while preserving its mode.
func TestAmendFastFromWorkingCopyReplacesBlob(t *testing.T) {
	ctx := context.Background()
	s, err := odb.NewMemStore()
	require.NoError(t, err)

	treeOID := tree(t, ctx, s, map[string]string{"file.txt": "old"})
	original := commit(t, ctx, s, "msg", treeOID)

	s.SetWorkingCopyFile("file.txt", []byte("new"))
	resultTree, err := AmendFast(ctx, s, AmendFastOptions{
		Commit: original,
		Source: FromWorkingCopy{Paths: []string{"file.txt"}},
	})
	require.NoError(t, err)
	require.NotEqual(t, treeOID, resultTree)
	require.Equal(t, blob(t, ctx, s, "new"), entryHash(t, ctx, s, resultTree, "file.txt"))

	resultTreeObj, err := s.Tree(ctx, resultTree)
	require.NoError(t, err)
	require.Equal(t, filemode.Regular, resultTreeObj.Entry("file.txt").Mode)
}

// Scenario 4: amending can delete a file via the working copy no longer
// having it.
func TestAmendFastFromWorkingCopyDeletesFile(t *testing.T) {
	ctx := context.Background()
	s, err := odb.NewMemStore()
	require.NoError(t, err)

	treeOID := tree(t, ctx, s, map[string]string{"a.txt": "keep", "b.txt": "gone"})
	original := commit(t, ctx, s, "msg", treeOID)

	resultTreeOID, err := AmendFast(ctx, s, AmendFastOptions{
		Commit: original,
		Source: FromWorkingCopy{Paths: []string{"b.txt"}},
	})
	require.NoError(t, err)

	resultTree, err := s.Tree(ctx, resultTreeOID)
	require.NoError(t, err)
	require.Nil(t, resultTree.Entry("b.txt"))
	require.NotNil(t, resultTree.Entry("a.txt"))
}

func rewriteDehydrator(s *odb.MemStore) (*Dehydrator, error) {
	return NewDehydrator(s)
}
