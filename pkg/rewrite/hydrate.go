// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"context"
	"strings"

	"github.com/antgroup/zeta-smartlog/modules/object"
	"github.com/antgroup/zeta-smartlog/modules/plumbing"
	"github.com/antgroup/zeta-smartlog/modules/plumbing/filemode"
	"github.com/antgroup/zeta-smartlog/pkg/odb"
)

// Hydrate applies updates -- the resolved entries from a merge over
// dehydrated trees -- back onto the full baseTree, writing only the
// directories on the path to a changed entry and leaving everything else
// untouched. An emptied directory (every child removed) is itself omitted
// from its parent, the mirror image of Dehydrator.Dehydrate's "omit empty
// intermediate directories" rule. Hydrate of an empty update set is a
// no-op, returning baseOID unchanged.
func Hydrate(ctx context.Context, store odb.Store, baseOID plumbing.OID, updates map[string]odb.IndexEntry) (plumbing.OID, error) {
	if len(updates) == 0 {
		return baseOID, nil
	}
	base, err := treeOrNil(ctx, store, baseOID)
	if err != nil {
		return plumbing.ZeroOID, err
	}
	return hydrateTree(ctx, store, base, updates)
}

func hydrateTree(ctx context.Context, store odb.Store, tree *object.Tree, updates map[string]odb.IndexEntry) (plumbing.OID, error) {
	byName := make(map[string]*object.TreeEntry)
	var order []string
	seen := make(map[string]bool)
	if tree != nil {
		for _, e := range tree.Entries {
			byName[e.Name] = e
			order = append(order, e.Name)
			seen[e.Name] = true
		}
	}

	leafUpdates := make(map[string]odb.IndexEntry)
	nestedUpdates := make(map[string]map[string]odb.IndexEntry)
	for path, entry := range updates {
		seg, rest, hasRest := strings.Cut(path, "/")
		if !hasRest {
			leafUpdates[seg] = entry
			continue
		}
		if nestedUpdates[seg] == nil {
			nestedUpdates[seg] = make(map[string]odb.IndexEntry)
		}
		nestedUpdates[seg][rest] = entry
	}

	for seg, entry := range leafUpdates {
		if !seen[seg] {
			order = append(order, seg)
			seen[seg] = true
		}
		if entry.Removed() {
			delete(byName, seg)
			continue
		}
		byName[seg] = &object.TreeEntry{Name: seg, Hash: entry.OID, Mode: entry.Mode}
	}

	for seg, nested := range nestedUpdates {
		var sub *object.Tree
		if tree != nil {
			if existing, ok := byName[seg]; ok && existing.Mode.IsDir() {
				var err error
				sub, err = tree.Subtree(ctx, seg)
				if err != nil {
					return plumbing.ZeroOID, err
				}
			}
		}
		subOID, err := hydrateTree(ctx, store, sub, nested)
		if err != nil {
			return plumbing.ZeroOID, err
		}
		if !seen[seg] {
			order = append(order, seg)
			seen[seg] = true
		}
		if subOID.IsZero() {
			delete(byName, seg)
			continue
		}
		byName[seg] = &object.TreeEntry{Name: seg, Hash: subOID, Mode: filemode.Dir}
	}

	var entries []*object.TreeEntry
	written := make(map[string]bool, len(order))
	for _, name := range order {
		if written[name] {
			continue
		}
		written[name] = true
		if e, ok := byName[name]; ok {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return plumbing.ZeroOID, nil
	}
	return store.CreateTree(ctx, entries)
}
