// Copyright 2018 Sourced Technologies, S.L.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"fmt"
	"time"

	"github.com/antgroup/zeta-smartlog/modules/plumbing"
)

// DateFormat mirrors the format used when rendering a Signature for humans.
const DateFormat = "Mon Jan 02 15:04:05 2006 -0700"

// Signature is an author or committer identity plus a timestamp.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.When.Unix(), s.When.Format("-0700"))
}

// AutomationSignature is the fixed, well-known identity used to author
// dehydrated commits (§4.2): a deterministic epoch timestamp so that
// identical dehydration inputs always produce identical dehydrated-commit
// OIDs, and the diffing machinery never mistakes two runs for different
// authors.
func AutomationSignature() Signature {
	return Signature{
		Name:  "zeta-smartlog",
		Email: "automation@invalid",
		When:  time.Unix(0, 0).In(time.UTC),
	}
}

// Commit is an immutable, content-addressed (tree, parents, author,
// committer, message) tuple.
type Commit struct {
	Hash      plumbing.OID
	Author    Signature
	Committer Signature
	Parents   []plumbing.OID
	Tree      plumbing.OID
	Message   string

	b Backend
}

// WithBackend returns a shallow copy of c bound to b, the backend it was
// loaded from.
func (c *Commit) WithBackend(b Backend) *Commit {
	clone := *c
	clone.b = b
	return &clone
}

// ErrNotSinglePatch describes a commit that does not have exactly one
// parent: the "diff to parent" concept used by cherry-pick is undefined for
// merge commits and root commits. No function in this module returns it;
// OnlyParent reports the case with ok=false, and the rewrite engine returns
// its own ErrMissingPatch.
var ErrNotSinglePatch = fmt.Errorf("commit does not have exactly one parent")

// OnlyParent returns the commit's sole parent OID, and false if the commit
// has zero or more than one parent.
func (c *Commit) OnlyParent() (plumbing.OID, bool) {
	if len(c.Parents) != 1 {
		return plumbing.ZeroOID, false
	}
	return c.Parents[0], true
}

// IsRoot reports whether c has no parents.
func (c *Commit) IsRoot() bool {
	return len(c.Parents) == 0
}

// IsMerge reports whether c has two or more parents.
func (c *Commit) IsMerge() bool {
	return len(c.Parents) > 1
}
