// Copyright 2018 Sourced Technologies, S.L.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/antgroup/zeta-smartlog/modules/plumbing"
	"github.com/antgroup/zeta-smartlog/modules/plumbing/filemode"
)

// TreeEntry is the (path-component, OID, FileMode) triple described in
// §3. An entry whose Hash is the zero OID is normalized to "removed" by
// every consumer in this module -- it is never treated as a real entry.
type TreeEntry struct {
	Name string
	Hash plumbing.OID
	Mode filemode.FileMode
}

// Removed reports whether e denotes an absent entry: (OID=zero, any mode).
func (e *TreeEntry) Removed() bool {
	return e == nil || e.Hash.IsZero()
}

// Equal compares two entries by name, hash and mode. A nil entry equals
// another nil entry, or an entry that Removed() reports true for, matching
// the ChangeEntry comparisons the three-way merge relies on.
func (e *TreeEntry) Equal(other *TreeEntry) bool {
	eRemoved := e.Removed()
	otherRemoved := other.Removed()
	if eRemoved && otherRemoved {
		return true
	}
	if eRemoved != otherRemoved {
		return false
	}
	return e.Name == other.Name && e.Hash == other.Hash && e.Mode == other.Mode
}

func (e *TreeEntry) Clone() *TreeEntry {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}

// subtreeOrder sorts entries the way the tree encoding requires: byte-order
// lexicographic, with directory names compared as though suffixed with "/"
// so that e.g. "lib" (a file) sorts before "lib.go" but "lib/" (a dir)
// sorts after it -- matching upstream Git's fsck tree-order rule.
type subtreeOrder []*TreeEntry

func (s subtreeOrder) Len() int      { return len(s) }
func (s subtreeOrder) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s subtreeOrder) Less(i, j int) bool {
	return s.sortKey(i) < s.sortKey(j)
}
func (s subtreeOrder) sortKey(i int) string {
	e := s[i]
	if e.Mode.IsDir() {
		return e.Name + "/"
	}
	return e.Name + "\x00"
}

// Tree is a content-addressed, immutable directory snapshot. Subtrees are
// resolved lazily through Backend so that a Tree can be constructed from
// just its own entries without recursively loading the whole repository.
type Tree struct {
	Hash    plumbing.OID
	Entries []*TreeEntry

	byName map[string]*TreeEntry
	b      Backend
}

// NewTree builds a Tree from a copy of entries sorted into subtree order; it
// does not compute Hash (that is the object store's job on write).
func NewTree(entries []*TreeEntry) *Tree {
	sorted := make([]*TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Sort(subtreeOrder(sorted))
	return &Tree{Entries: sorted}
}

// WithBackend returns a shallow copy of t bound to b, used to resolve
// subtrees lazily.
func (t *Tree) WithBackend(b Backend) *Tree {
	clone := *t
	clone.b = b
	clone.byName = nil
	return &clone
}

func (t *Tree) buildIndex() {
	t.byName = make(map[string]*TreeEntry, len(t.Entries))
	for _, e := range t.Entries {
		t.byName[e.Name] = e
	}
}

// Entry returns the direct child entry named name, or nil if absent.
func (t *Tree) Entry(name string) *TreeEntry {
	if t == nil {
		return nil
	}
	if t.byName == nil {
		t.buildIndex()
	}
	return t.byName[name]
}

// Subtree resolves the direct child entry named name as a Tree.
func (t *Tree) Subtree(ctx context.Context, name string) (*Tree, error) {
	e := t.Entry(name)
	if e.Removed() || !e.Mode.IsDir() {
		return nil, &ErrDirectoryNotFound{dir: name}
	}
	if t.b == nil {
		return nil, &ErrDirectoryNotFound{dir: name}
	}
	sub, err := t.b.Tree(ctx, e.Hash)
	if err != nil {
		return nil, err
	}
	return sub.WithBackend(t.b), nil
}

// FindEntry resolves a "/"-separated relativePath to its TreeEntry, walking
// through subtrees as needed.
func (t *Tree) FindEntry(ctx context.Context, relativePath string) (*TreeEntry, error) {
	relativePath = path.Clean(strings.ReplaceAll(relativePath, "\\", "/"))
	if relativePath == "." || relativePath == "" {
		return nil, &ErrEntryNotFound{entry: relativePath}
	}
	parts := strings.Split(relativePath, "/")
	cur := t
	for _, part := range parts[:len(parts)-1] {
		next, err := cur.Subtree(ctx, part)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	e := cur.Entry(parts[len(parts)-1])
	if e.Removed() {
		return nil, &ErrEntryNotFound{entry: relativePath}
	}
	return e, nil
}

// Equal reports whether t and other are content-addressed equal: same
// entries, independent of OID fields having been populated or not.
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.Entries) != len(other.Entries) {
		return false
	}
	for i := range t.Entries {
		if !t.Entries[i].Equal(other.Entries[i]) {
			return false
		}
	}
	return true
}

// Merge performs the same "replace-or-insert then re-sort" merge the tree
// encoder uses when assembling a directory from a mix of inherited and
// newly-written entries. It returns a new Tree and leaves t untouched.
func (t *Tree) Merge(others ...*TreeEntry) *Tree {
	unseen := make(map[string]*TreeEntry, len(others))
	for _, o := range others {
		unseen[o.Name] = o
	}
	entries := make([]*TreeEntry, 0, len(t.Entries)+len(others))
	for _, e := range t.Entries {
		if o, ok := unseen[e.Name]; ok {
			entries = append(entries, o)
			delete(unseen, e.Name)
		} else {
			entries = append(entries, e.Clone())
		}
	}
	for _, remaining := range unseen {
		entries = append(entries, remaining)
	}
	sort.Sort(subtreeOrder(entries))
	return &Tree{Entries: entries, b: t.b}
}
