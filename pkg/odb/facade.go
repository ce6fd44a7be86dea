// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package odb defines the narrow object-store capability the fast rewrite
// engine and the smartlog builder consume (§4.1 and §4.5/§4.6 of the
// design), plus a self-contained in-memory implementation of it
// (MemStore) used for tests and for the example command in cmd/.
//
// The real object database -- on-disk layout, packfiles, network
// replication -- is an external collaborator accessed only through this
// interface; building one is explicitly out of scope (see Non-goals:
// "persisting its own object store").
package odb

import (
	"context"

	"github.com/antgroup/zeta-smartlog/modules/object"
	"github.com/antgroup/zeta-smartlog/modules/plumbing"
	"github.com/antgroup/zeta-smartlog/modules/plumbing/filemode"
)

// IndexEntry is the result of resolving one path after a three-way merge:
// (OID=zero, _) means "removed".
type IndexEntry struct {
	OID  plumbing.OID
	Mode filemode.FileMode
}

// Removed reports whether the entry denotes a deletion.
func (e IndexEntry) Removed() bool {
	return e.OID.IsZero()
}

// ConflictSide is one side of a recorded conflict; a nil pointer to it
// means that side had no entry (e.g. the path didn't exist on that side).
type ConflictSide struct {
	Path string
	Mode filemode.FileMode
	OID  plumbing.OID
}

// ConflictKind enumerates the reasons a path could not be merged
// automatically, mirroring the categories a production three-way merge
// reports (content conflicts, mode conflicts, modify/delete, etc).
type ConflictKind int

const (
	ConflictContents ConflictKind = iota
	ConflictBinary
	ConflictDistinctModes
	ConflictModifyDelete
)

func (k ConflictKind) String() string {
	switch k {
	case ConflictContents:
		return "contents"
	case ConflictBinary:
		return "binary"
	case ConflictDistinctModes:
		return "distinct modes"
	case ConflictModifyDelete:
		return "modify/delete"
	default:
		return "unknown"
	}
}

// Conflict represents an irreducible merge conflict for a single path.
type Conflict struct {
	Path     string
	Kind     ConflictKind
	Ancestor *ConflictSide
	Our      *ConflictSide
	Their    *ConflictSide
}

// MergeResult is the result of a three-way tree merge: a resolved entry for
// every touched path (even ones in conflict, where it's the "ours" side by
// convention and is only ever consulted when Conflicts is empty), plus the
// conflicts themselves.
type MergeResult struct {
	Entries   map[string]IndexEntry
	Conflicts []*Conflict
	Messages  []string
}

// HasConflicts reports whether the merge could not be fully automated.
func (r *MergeResult) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Store is the full capability set the fast rewrite engine needs from the
// object database (§4.1). It composes object.Backend (Tree/Blob reads) with
// commit lookups, writes, and the two non-trivial facade operations
// (MergeBase, ThreeWayMergeTrees).
type Store interface {
	object.Backend

	FindCommit(ctx context.Context, oid plumbing.OID) (*object.Commit, error)
	FindCommitOrFail(ctx context.Context, oid plumbing.OID) (*object.Commit, error)
	FindTreeOrFail(ctx context.Context, oid plumbing.OID) (*object.Tree, error)

	CreateBlob(ctx context.Context, content []byte) (plumbing.OID, error)
	// CreateBlobFromPath reads path from the working copy and stores it as
	// a blob. A missing file is not an error: it returns the zero OID.
	CreateBlobFromPath(ctx context.Context, path string) (plumbing.OID, error)
	CreateTree(ctx context.Context, entries []*object.TreeEntry) (plumbing.OID, error)
	CreateCommit(ctx context.Context, author, committer object.Signature, message string, tree plumbing.OID, parents []plumbing.OID) (plumbing.OID, error)

	MergeBase(ctx context.Context, a, b plumbing.OID) (plumbing.OID, bool, error)
	ThreeWayMergeTrees(ctx context.Context, base, ours, theirs plumbing.OID) (*MergeResult, error)
	DiffTrees(ctx context.Context, old, new plumbing.OID) ([]*object.ChangedPath, error)
}
