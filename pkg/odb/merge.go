// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package odb

import (
	"context"

	"github.com/antgroup/zeta-smartlog/modules/object"
	"github.com/antgroup/zeta-smartlog/modules/plumbing"
)

// threeWayMergeTrees is the tree-level merge algorithm shared by every
// Store implementation: for every path touched on either side of base, it
// decides whether one side's change dominates (the other side is
// unchanged, or made the identical change) or whether the two sides
// disagree and the path is a conflict. This is adapted from the
// ChangeEntry/mergeEntry pair in the teacher's object-database merge
// machinery, trimmed of rename detection and textual diff3 content
// merging: at this layer content conflicts are reported, not resolved,
// since auto-merging overlapping text edits is a capability of an
// external merge driver, not of the object store facade.
func threeWayMergeTrees(ctx context.Context, b object.Backend, base, ours, theirs *object.Tree) (*MergeResult, error) {
	baseVsOurs, err := object.DiffTrees(ctx, base, ours)
	if err != nil {
		return nil, err
	}
	baseVsTheirs, err := object.DiffTrees(ctx, base, theirs)
	if err != nil {
		return nil, err
	}

	touched := make(map[string]struct{}, len(baseVsOurs)+len(baseVsTheirs))
	for _, c := range baseVsOurs {
		touched[c.Path] = struct{}{}
	}
	for _, c := range baseVsTheirs {
		touched[c.Path] = struct{}{}
	}

	result := &MergeResult{Entries: make(map[string]IndexEntry, len(touched))}
	for path := range touched {
		ancestor, err := entryAt(ctx, base, path)
		if err != nil {
			return nil, err
		}
		our, err := entryAt(ctx, ours, path)
		if err != nil {
			return nil, err
		}
		their, err := entryAt(ctx, theirs, path)
		if err != nil {
			return nil, err
		}

		switch {
		case ancestor.Equal(our):
			// unchanged on our side: theirs wins, possibly a deletion.
			result.Entries[path] = asIndexEntry(their)
		case ancestor.Equal(their):
			result.Entries[path] = asIndexEntry(our)
		case our.Equal(their):
			// both sides made the identical change.
			result.Entries[path] = asIndexEntry(our)
		default:
			conflict := &Conflict{
				Path:     path,
				Ancestor: asConflictSide(path, ancestor),
				Our:      asConflictSide(path, our),
				Their:    asConflictSide(path, their),
			}
			conflict.Kind = classify(ancestor, our, their)
			result.Conflicts = append(result.Conflicts, conflict)
			// Keep "ours" as the provisional entry; it is never consulted
			// once Conflicts is non-empty, but callers that want to report
			// a merged tree anyway (diagnostics) get a deterministic value.
			result.Entries[path] = asIndexEntry(our)
		}
	}
	return result, nil
}

// classify decides why ancestor/our/their could not be reconciled.
func classify(ancestor, our, their *object.TreeEntry) ConflictKind {
	ourRemoved := our.Removed()
	theirRemoved := their.Removed()
	if ourRemoved != theirRemoved {
		return ConflictModifyDelete
	}
	if ourRemoved && theirRemoved {
		// both removed but ancestor differs from at least one -- can't
		// happen given the caller's branching, kept for completeness.
		return ConflictModifyDelete
	}
	if our.Mode != their.Mode {
		return ConflictDistinctModes
	}
	return ConflictContents
}

func entryAt(ctx context.Context, t *object.Tree, path string) (*object.TreeEntry, error) {
	if t == nil {
		return nil, nil
	}
	e, err := t.FindEntry(ctx, path)
	if err != nil {
		if object.IsErrEntryNotFound(err) || object.IsErrDirectoryNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

func asIndexEntry(e *object.TreeEntry) IndexEntry {
	if e.Removed() {
		return IndexEntry{}
	}
	return IndexEntry{OID: e.Hash, Mode: e.Mode}
}

func asConflictSide(path string, e *object.TreeEntry) *ConflictSide {
	if e.Removed() {
		return nil
	}
	return &ConflictSide{Path: path, Mode: e.Mode, OID: e.Hash}
}

// mergeBase finds a common ancestor of a and b by walking both commits' full
// ancestry and returning the first of a's ancestors, in breadth-first order
// from a, that is also reachable from b. This linear scan (rather than a generation-number
// index) is adequate for the small, synthetic histories this package is
// exercised against; a production DAG facade (§4.5) is expected to supply a
// faster implementation via its own merge_base primitive.
func mergeBase(ctx context.Context, findCommit func(context.Context, plumbing.OID) (*object.Commit, error), a, b plumbing.OID) (plumbing.OID, bool, error) {
	_, order, err := ancestry(ctx, findCommit, a)
	if err != nil {
		return plumbing.ZeroOID, false, err
	}
	ancestorsOfB, _, err := ancestry(ctx, findCommit, b)
	if err != nil {
		return plumbing.ZeroOID, false, err
	}
	for _, oid := range order {
		if _, ok := ancestorsOfB[oid]; ok {
			return oid, true, nil
		}
	}
	return plumbing.ZeroOID, false, nil
}

// ancestry returns the set of OIDs reachable from start (inclusive) and a
// slice recording visitation order (breadth-first, so nearer ancestors are
// checked first by mergeBase).
func ancestry(ctx context.Context, findCommit func(context.Context, plumbing.OID) (*object.Commit, error), start plumbing.OID) (map[plumbing.OID]struct{}, []plumbing.OID, error) {
	seen := map[plumbing.OID]struct{}{}
	var order []plumbing.OID
	queue := []plumbing.OID{start}
	for len(queue) > 0 {
		oid := queue[0]
		queue = queue[1:]
		if _, ok := seen[oid]; ok || oid.IsZero() {
			continue
		}
		seen[oid] = struct{}{}
		order = append(order, oid)
		c, err := findCommit(ctx, oid)
		if err != nil {
			return nil, nil, err
		}
		queue = append(queue, c.Parents...)
	}
	return seen, order, nil
}
