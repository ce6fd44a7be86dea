// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"context"

	"github.com/antgroup/zeta-smartlog/modules/object"
	"github.com/antgroup/zeta-smartlog/modules/plumbing"
	"github.com/antgroup/zeta-smartlog/modules/plumbing/filemode"
	"github.com/antgroup/zeta-smartlog/pkg/odb"
)

// CherryPickOptions configures CherryPickFast (§4.4.1).
type CherryPickOptions struct {
	// Commit is the patch commit to replay: it must have exactly one
	// parent, or NewMissingPatch is returned.
	Commit plumbing.OID
	// Destination is the commit to graft the patch onto.
	Destination plumbing.OID
	// ReuseParentTreeIfPossible short-circuits the merge entirely when
	// Destination's tree is identical to the patch's own source parent's
	// tree: the patch reapplies with zero conflict potential, so the
	// result tree is just Commit's tree, unchanged.
	ReuseParentTreeIfPossible bool
}

// CherryPickFast replays a single-parent patch commit onto a new
// destination tree without rewriting any part of either tree the patch
// doesn't touch (§4.2, §4.4.1): it dehydrates the patch's source parent,
// the patch itself, and the destination down to just the patch's changed
// paths, three-way merges those small trees, and rehydrates the result
// onto the full destination tree. It returns the resulting tree's OID;
// per §5, the core never mints commits or writes refs -- building a new
// commit from that tree (and linking it to Destination as a parent) is
// the caller's responsibility.
func CherryPickFast(ctx context.Context, store odb.Store, dehydrator *Dehydrator, opts CherryPickOptions) (plumbing.OID, error) {
	patch, err := store.FindCommitOrFail(ctx, opts.Commit)
	if err != nil {
		return plumbing.ZeroOID, NewObjectNotFound(opts.Commit, err)
	}
	sourceParentOID, ok := patch.OnlyParent()
	if !ok {
		return plumbing.ZeroOID, NewMissingPatch(opts.Commit)
	}
	sourceParent, err := store.FindCommitOrFail(ctx, sourceParentOID)
	if err != nil {
		return plumbing.ZeroOID, NewObjectNotFound(sourceParentOID, err)
	}
	destination, err := store.FindCommitOrFail(ctx, opts.Destination)
	if err != nil {
		return plumbing.ZeroOID, NewObjectNotFound(opts.Destination, err)
	}

	if opts.ReuseParentTreeIfPossible && destination.Tree == sourceParent.Tree {
		return patch.Tree, nil
	}

	changed, err := store.DiffTrees(ctx, sourceParent.Tree, patch.Tree)
	if err != nil {
		return plumbing.ZeroOID, NewStorage("diff_trees", err)
	}
	paths := plumbing.NewPathSet()
	for _, c := range changed {
		paths.Add(c.Path)
	}

	sourceParentTree, err := treeOrNil(ctx, store, sourceParent.Tree)
	if err != nil {
		return plumbing.ZeroOID, NewStorage("resolve source parent tree", err)
	}
	patchTree, err := treeOrNil(ctx, store, patch.Tree)
	if err != nil {
		return plumbing.ZeroOID, NewStorage("resolve patch tree", err)
	}
	destinationTree, err := treeOrNil(ctx, store, destination.Tree)
	if err != nil {
		return plumbing.ZeroOID, NewStorage("resolve destination tree", err)
	}

	dehydratedBase, err := dehydrator.Dehydrate(ctx, sourceParentTree, paths)
	if err != nil {
		return plumbing.ZeroOID, err
	}
	dehydratedOurs, err := dehydrator.Dehydrate(ctx, destinationTree, paths)
	if err != nil {
		return plumbing.ZeroOID, err
	}
	dehydratedTheirs, err := dehydrator.Dehydrate(ctx, patchTree, paths)
	if err != nil {
		return plumbing.ZeroOID, err
	}

	result, err := store.ThreeWayMergeTrees(ctx, dehydratedBase, dehydratedOurs, dehydratedTheirs)
	if err != nil {
		return plumbing.ZeroOID, NewStorage("three_way_merge_trees", err)
	}
	if result.HasConflicts() {
		return plumbing.ZeroOID, NewMergeConflict(result.Conflicts)
	}

	newTree, err := Hydrate(ctx, store, destination.Tree, result.Entries)
	if err != nil {
		return plumbing.ZeroOID, err
	}
	return newTree, nil
}

// AmendSource supplies the path updates AmendFast hydrates onto a
// commit's existing tree: either a tagged set of working-copy paths to
// re-read, or an already-resolved index.
type AmendSource interface {
	resolve(ctx context.Context, store odb.Store, base *object.Tree) (map[string]odb.IndexEntry, error)
}

// FromWorkingCopy re-reads each of Paths through store.CreateBlobFromPath,
// preserving the file's existing mode (or filemode.Regular for a path not
// already present in the base tree). A path the working copy no longer has
// resolves to a deletion, per CreateBlobFromPath's zero-OID contract.
type FromWorkingCopy struct {
	Paths []string
}

func (f FromWorkingCopy) resolve(ctx context.Context, store odb.Store, base *object.Tree) (map[string]odb.IndexEntry, error) {
	updates := make(map[string]odb.IndexEntry, len(f.Paths))
	for _, path := range f.Paths {
		blobOID, err := store.CreateBlobFromPath(ctx, path)
		if err != nil {
			return nil, NewIo(path, err)
		}
		mode := filemode.Regular
		if base != nil {
			if existing, err := base.FindEntry(ctx, path); err == nil && !existing.Removed() {
				mode = existing.Mode
			}
		}
		updates[path] = odb.IndexEntry{OID: blobOID, Mode: mode}
	}
	return updates, nil
}

// FromIndex supplies already-resolved path updates directly, e.g. staged
// changes computed elsewhere.
type FromIndex struct {
	Updates map[string]odb.IndexEntry
}

func (f FromIndex) resolve(context.Context, odb.Store, *object.Tree) (map[string]odb.IndexEntry, error) {
	return f.Updates, nil
}

// AmendFastOptions configures AmendFast (§4.4.2).
type AmendFastOptions struct {
	Commit plumbing.OID
	Source AmendSource
}

// AmendFast rewrites commit's tree with the updates Source resolves,
// leaving every path the updates don't touch byte-for-byte identical
// (§4.2, §4.4.2). It returns the resulting tree's OID -- if the resolved
// updates don't actually change the tree (e.g. amending from an empty
// index), that's commit's own tree unchanged. Per §5, the core never mints
// a new commit from this tree; that, and linking it to commit's existing
// parents, is the caller's responsibility.
func AmendFast(ctx context.Context, store odb.Store, opts AmendFastOptions) (plumbing.OID, error) {
	commit, err := store.FindCommitOrFail(ctx, opts.Commit)
	if err != nil {
		return plumbing.ZeroOID, NewObjectNotFound(opts.Commit, err)
	}
	baseTree, err := treeOrNil(ctx, store, commit.Tree)
	if err != nil {
		return plumbing.ZeroOID, NewStorage("resolve base tree", err)
	}
	updates, err := opts.Source.resolve(ctx, store, baseTree)
	if err != nil {
		return plumbing.ZeroOID, err
	}
	newTree, err := Hydrate(ctx, store, commit.Tree, updates)
	if err != nil {
		return plumbing.ZeroOID, err
	}
	return newTree, nil
}
