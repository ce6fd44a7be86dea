// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"fmt"
	"strings"

	"github.com/antgroup/zeta-smartlog/modules/plumbing"
	"github.com/antgroup/zeta-smartlog/modules/textutil"
	"github.com/antgroup/zeta-smartlog/pkg/odb"
)

// ErrMissingPatch is returned when a commit does not have exactly one
// parent, so the "diff against the parent" notion of a patch cherry-pick
// and amend both rely on is undefined for it.
type ErrMissingPatch struct {
	Commit plumbing.OID
}

func (e *ErrMissingPatch) Error() string {
	return fmt.Sprintf("commit %s has no well-defined patch (not exactly one parent)", e.Commit)
}

// NewMissingPatch builds the error returned when commit has zero or more
// than one parent.
func NewMissingPatch(commit plumbing.OID) error {
	return &ErrMissingPatch{Commit: commit}
}

// IsMissingPatch reports whether err was created by NewMissingPatch.
func IsMissingPatch(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*ErrMissingPatch)
	return ok
}

// ErrMergeConflict is returned when the three-way merge over the
// dehydrated trees could not resolve every touched path automatically.
type ErrMergeConflict struct {
	ConflictList []*odb.Conflict
}

func (e *ErrMergeConflict) Error() string {
	return fmt.Sprintf("merge conflict on %d path(s)", len(e.ConflictList))
}

// Paths returns the conflicted paths, in the order the merge reported them.
func (e *ErrMergeConflict) Paths() []string {
	paths := make([]string, len(e.ConflictList))
	for i, c := range e.ConflictList {
		paths[i] = c.Path
	}
	return paths
}

// Display renders the conflicted paths for a user-facing message, decoding
// each through textutil rather than assuming they're already clean UTF-8.
func (e *ErrMergeConflict) Display() (string, error) {
	lines := make([]string, len(e.ConflictList))
	for i, c := range e.ConflictList {
		decoded, err := textutil.DecodePath([]byte(c.Path))
		if err != nil {
			return "", NewDecodePath([]byte(c.Path), err)
		}
		lines[i] = fmt.Sprintf("%s: %s", decoded, c.Kind)
	}
	return strings.Join(lines, "\n"), nil
}

// NewMergeConflict builds the error carrying the unresolved conflicts.
func NewMergeConflict(conflicts []*odb.Conflict) error {
	return &ErrMergeConflict{ConflictList: conflicts}
}

// IsMergeConflict reports whether err was created by NewMergeConflict.
func IsMergeConflict(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*ErrMergeConflict)
	return ok
}

// ErrDecodePath is returned when a conflicted path's raw bytes cannot be
// rendered as text for a user-facing error message.
type ErrDecodePath struct {
	Path []byte
	Err  error
}

func (e *ErrDecodePath) Error() string {
	return fmt.Sprintf("decoding path for display: %v", e.Err)
}

func (e *ErrDecodePath) Unwrap() error {
	return e.Err
}

// NewDecodePath wraps a text-decoding failure encountered while preparing a
// path for a user-facing message.
func NewDecodePath(path []byte, err error) error {
	return &ErrDecodePath{Path: path, Err: err}
}

// ErrObjectNotFound wraps plumbing.IsNoSuchObject failures encountered
// while resolving a commit, tree or blob the engine needs.
type ErrObjectNotFound struct {
	OID plumbing.OID
	Err error
}

func (e *ErrObjectNotFound) Error() string {
	return fmt.Sprintf("object %s not found: %v", e.OID, e.Err)
}

func (e *ErrObjectNotFound) Unwrap() error {
	return e.Err
}

// NewObjectNotFound wraps err, which must satisfy plumbing.IsNoSuchObject,
// with the OID that triggered the lookup.
func NewObjectNotFound(oid plumbing.OID, err error) error {
	return &ErrObjectNotFound{OID: oid, Err: err}
}

// ErrStorage wraps a failure from the object store facade itself, as
// opposed to a semantic rejection like a missing patch or a conflict.
type ErrStorage struct {
	Op  string
	Err error
}

func (e *ErrStorage) Error() string {
	return fmt.Sprintf("object store: %s: %v", e.Op, e.Err)
}

func (e *ErrStorage) Unwrap() error {
	return e.Err
}

// NewStorage wraps a low-level object-store error with the operation that
// triggered it.
func NewStorage(op string, err error) error {
	return &ErrStorage{Op: op, Err: err}
}

// ErrIo wraps a failure reading the working copy (e.g. for
// CreateBlobFromPath), distinguishing it from a storage-layer failure.
type ErrIo struct {
	Path string
	Err  error
}

func (e *ErrIo) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *ErrIo) Unwrap() error {
	return e.Err
}

// NewIo wraps a working-copy read failure with the path that caused it.
func NewIo(path string, err error) error {
	return &ErrIo{Path: path, Err: err}
}
