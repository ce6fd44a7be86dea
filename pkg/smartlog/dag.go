// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package smartlog builds and renders the smartlog graph view (§4.5,
// §4.6): the subset of commits the user has been actively working on,
// walked up to the nearest public (main-branch) ancestor, and rendered as
// an ASCII tree with one root per independent line of work.
package smartlog

import (
	"context"
	"time"

	"github.com/antgroup/zeta-smartlog/modules/plumbing"
)

// CommitSet is an unordered set of commit OIDs, the Go stand-in for the
// DAG algorithm library's lazy vertex sets: every smartlog computation here
// only ever needs membership tests and iteration, never range queries, so
// a plain map is both simpler and sufficient.
type CommitSet map[plumbing.OID]struct{}

// NewCommitSet builds a CommitSet from the given OIDs.
func NewCommitSet(oids ...plumbing.OID) CommitSet {
	s := make(CommitSet, len(oids))
	for _, oid := range oids {
		s[oid] = struct{}{}
	}
	return s
}

func (s CommitSet) Contains(oid plumbing.OID) bool {
	_, ok := s[oid]
	return ok
}

func (s CommitSet) Add(oid plumbing.OID) {
	s[oid] = struct{}{}
}

// Slice returns the set's members in no particular order.
func (s CommitSet) Slice() []plumbing.OID {
	out := make([]plumbing.OID, 0, len(s))
	for oid := range s {
		out = append(out, oid)
	}
	return out
}

// Difference returns the members of s that are not in other.
func (s CommitSet) Difference(other CommitSet) CommitSet {
	out := make(CommitSet, len(s))
	for oid := range s {
		if !other.Contains(oid) {
			out.Add(oid)
		}
	}
	return out
}

// DAG is the narrow commit-graph capability the smartlog builder and
// renderer need. A production implementation backs this with a real DAG
// index (generation numbers, reachability bitsets); building one is out of
// scope here (Non-goals: "a general-purpose DAG reachability index") --
// this package only defines and consumes the interface.
type DAG interface {
	// Parents returns oid's immediate parent OIDs.
	Parents(ctx context.Context, oid plumbing.OID) ([]plumbing.OID, error)
	// PathToMainBranch returns the path from start up to (and including)
	// the nearest public-branch ancestor, nearest-first, or ok=false if
	// start has no public ancestor (it is itself the only commit on its
	// line of work).
	PathToMainBranch(ctx context.Context, start plumbing.OID) (path []plumbing.OID, ok bool, err error)
	// MergeBase returns the lowest common ancestor of a and b.
	MergeBase(ctx context.Context, a, b plumbing.OID) (plumbing.OID, bool, error)
	// CommitterTime returns the committer timestamp for oid, and false if
	// oid is not resolvable (e.g. it was garbage collected).
	CommitterTime(ctx context.Context, oid plumbing.OID) (time.Time, bool, error)
}
