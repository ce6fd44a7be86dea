// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package rewrite implements the fast tree-surgery engine (§4): dehydrating
// a tree down to just the paths a patch touches, running the native
// three-way merge on the tiny dehydrated trees instead of the full ones,
// and rehydrating the result back into the target tree. This is what makes
// cherry-pick and amend cheap on repositories with large trees but small
// patches.
package rewrite

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/antgroup/zeta-smartlog/modules/object"
	"github.com/antgroup/zeta-smartlog/modules/plumbing"
	"github.com/antgroup/zeta-smartlog/modules/plumbing/filemode"
	"github.com/antgroup/zeta-smartlog/modules/trace"
	"github.com/antgroup/zeta-smartlog/pkg/odb"
)

// TreeWriter is the subset of odb.Store the dehydrator and hydrator need:
// read subtrees through object.Backend, write new ones through CreateTree.
type TreeWriter interface {
	object.Backend
	CreateTree(ctx context.Context, entries []*object.TreeEntry) (plumbing.OID, error)
}

// Dehydrator builds dehydrated trees and caches the result per (tree,
// path set) pair, since the same base tree is commonly dehydrated against
// the same patch's paths more than once (once for the patch's source
// commit, once for its destination parent).
type Dehydrator struct {
	store TreeWriter
	cache *ristretto.Cache[string, plumbing.OID]
}

// NewDehydrator builds a Dehydrator backed by store.
func NewDehydrator(store TreeWriter) (*Dehydrator, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, plumbing.OID]{
		NumCounters: 1e4,
		MaxCost:     1 << 16,
		BufferItems: 64,
	})
	if err != nil {
		return nil, trace.Errorf("rewrite: building dehydration cache: %v", err)
	}
	return &Dehydrator{store: store, cache: cache}, nil
}

// Dehydrate returns the OID of a tree containing only the entries named in
// paths, plus whatever intermediate directories are needed to reach them;
// an intermediate directory left with no surviving children is omitted
// entirely rather than written out empty. A nil tree or an empty path set
// yields the zero OID; a repeated tree/path-set combination is served from
// cache.
func (d *Dehydrator) Dehydrate(ctx context.Context, tree *object.Tree, paths *plumbing.PathSet) (plumbing.OID, error) {
	if tree == nil || paths == nil || paths.Len() == 0 {
		return plumbing.ZeroOID, nil
	}
	key := dehydrationKey(tree.Hash, paths)
	if cached, ok := d.cache.Get(key); ok {
		return cached, nil
	}
	oid, err := dehydrateTree(ctx, d.store, tree, paths.Sorted())
	if err != nil {
		return plumbing.ZeroOID, err
	}
	d.cache.Set(key, oid, 1)
	return oid, nil
}

// DehydrateCommit builds a synthetic commit over a dehydrated tree: a fixed
// automation signature, an epoch timestamp, and at most one parent (the
// caller's previously dehydrated parent commit, if any), preserving the
// "exactly one parent means a well-defined patch" invariant the rewrite
// engine relies on.
func (d *Dehydrator) DehydrateCommit(ctx context.Context, store odb.Store, commit *object.Commit, paths *plumbing.PathSet, dehydratedParent *plumbing.OID) (plumbing.OID, error) {
	tree, err := treeOrNil(ctx, d.store, commit.Tree)
	if err != nil {
		return plumbing.ZeroOID, err
	}
	treeOID, err := d.Dehydrate(ctx, tree, paths)
	if err != nil {
		return plumbing.ZeroOID, err
	}
	var parents []plumbing.OID
	if dehydratedParent != nil && !dehydratedParent.IsZero() {
		parents = []plumbing.OID{*dehydratedParent}
	}
	sig := object.AutomationSignature()
	return store.CreateCommit(ctx, sig, sig, "dehydrated "+commit.Hash.String(), treeOID, parents)
}

func treeOrNil(ctx context.Context, b object.Backend, oid plumbing.OID) (*object.Tree, error) {
	if oid.IsZero() {
		return nil, nil
	}
	return b.Tree(ctx, oid)
}

func dehydrationKey(treeHash plumbing.OID, paths *plumbing.PathSet) string {
	h := sha256.New()
	h.Write(treeHash[:])
	for _, p := range paths.Sorted() {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func dehydrateTree(ctx context.Context, store TreeWriter, tree *object.Tree, paths []string) (plumbing.OID, error) {
	if tree == nil || len(paths) == 0 {
		return plumbing.ZeroOID, nil
	}
	groups := make(map[string][]string)
	var order []string
	for _, p := range paths {
		seg, rest, hasRest := strings.Cut(p, "/")
		if _, ok := groups[seg]; !ok {
			order = append(order, seg)
		}
		if hasRest {
			groups[seg] = append(groups[seg], rest)
		} else {
			groups[seg] = append(groups[seg], "")
		}
	}

	var entries []*object.TreeEntry
	for _, seg := range order {
		entry := tree.Entry(seg)
		if entry.Removed() {
			continue
		}
		rests := groups[seg]
		var nested []string
		leafRequested := false
		for _, r := range rests {
			if r == "" {
				leafRequested = true
			} else {
				nested = append(nested, r)
			}
		}
		if leafRequested || !entry.Mode.IsDir() || len(nested) == 0 {
			entries = append(entries, entry.Clone())
			continue
		}
		sub, err := tree.Subtree(ctx, seg)
		if err != nil {
			return plumbing.ZeroOID, err
		}
		subOID, err := dehydrateTree(ctx, store, sub, nested)
		if err != nil {
			return plumbing.ZeroOID, err
		}
		if subOID.IsZero() {
			continue
		}
		entries = append(entries, &object.TreeEntry{Name: seg, Hash: subOID, Mode: filemode.Dir})
	}
	if len(entries) == 0 {
		return plumbing.ZeroOID, nil
	}
	return store.CreateTree(ctx, entries)
}
