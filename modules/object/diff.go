// Copyright 2018 Sourced Technologies, S.L.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"context"
	"path"
)

// ChangedPath is one entry of the result of diffing two trees: the path,
// and its entry on each side (nil when the path did not exist on that
// side). Exactly one of Old/New is nil for a pure insertion/deletion; both
// are non-nil, and differ, for a modification.
type ChangedPath struct {
	Path string
	Old  *TreeEntry
	New  *TreeEntry
}

// DiffTrees computes the set of changed paths between old and new, either
// of which may be nil (meaning "the empty tree"). It only ever reports
// leaf-level paths: a directory whose type changed to a file (or vice
// versa) is reported as a deletion of every old leaf plus an insertion of
// every new leaf, which is how the merge engine wants its input.
func DiffTrees(ctx context.Context, old, new *Tree) ([]*ChangedPath, error) {
	var out []*ChangedPath
	if err := diffDirs(ctx, "", old, new, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func diffDirs(ctx context.Context, prefix string, old, new *Tree, out *[]*ChangedPath) error {
	names := make(map[string]struct{})
	oldEntries := map[string]*TreeEntry{}
	newEntries := map[string]*TreeEntry{}
	if old != nil {
		for _, e := range old.Entries {
			oldEntries[e.Name] = e
			names[e.Name] = struct{}{}
		}
	}
	if new != nil {
		for _, e := range new.Entries {
			newEntries[e.Name] = e
			names[e.Name] = struct{}{}
		}
	}
	for name := range names {
		oe, ne := oldEntries[name], newEntries[name]
		full := joinPath(prefix, name)
		oldIsDir := !oe.Removed() && oe.Mode.IsDir()
		newIsDir := !ne.Removed() && ne.Mode.IsDir()

		switch {
		case oldIsDir && newIsDir:
			if oe.Hash == ne.Hash {
				continue
			}
			oldSub, err := resolveSubtree(ctx, old, name)
			if err != nil {
				return err
			}
			newSub, err := resolveSubtree(ctx, new, name)
			if err != nil {
				return err
			}
			if err := diffDirs(ctx, full, oldSub, newSub, out); err != nil {
				return err
			}
		case oldIsDir:
			oldSub, err := resolveSubtree(ctx, old, name)
			if err != nil {
				return err
			}
			if err := emitAll(ctx, full, oldSub, out, true); err != nil {
				return err
			}
			if !ne.Removed() {
				*out = append(*out, &ChangedPath{Path: full, New: ne})
			}
		case newIsDir:
			newSub, err := resolveSubtree(ctx, new, name)
			if err != nil {
				return err
			}
			if err := emitAll(ctx, full, newSub, out, false); err != nil {
				return err
			}
			if !oe.Removed() {
				*out = append(*out, &ChangedPath{Path: full, Old: oe})
			}
		default:
			if oe.Equal(ne) {
				continue
			}
			*out = append(*out, &ChangedPath{Path: full, Old: nilIfRemoved(oe), New: nilIfRemoved(ne)})
		}
	}
	return nil
}

// emitAll recursively emits every leaf under t as a pure deletion (asOld) or
// pure insertion, used when a directory was wholesale replaced by a
// different object type or vice versa.
func emitAll(ctx context.Context, prefix string, t *Tree, out *[]*ChangedPath, asOld bool) error {
	if t == nil {
		return nil
	}
	for _, e := range t.Entries {
		full := joinPath(prefix, e.Name)
		if e.Mode.IsDir() {
			sub, err := resolveSubtree(ctx, t, e.Name)
			if err != nil {
				return err
			}
			if err := emitAll(ctx, full, sub, out, asOld); err != nil {
				return err
			}
			continue
		}
		if asOld {
			*out = append(*out, &ChangedPath{Path: full, Old: e})
		} else {
			*out = append(*out, &ChangedPath{Path: full, New: e})
		}
	}
	return nil
}

func resolveSubtree(ctx context.Context, parent *Tree, name string) (*Tree, error) {
	if parent == nil {
		return nil, nil
	}
	return parent.Subtree(ctx, name)
}

func nilIfRemoved(e *TreeEntry) *TreeEntry {
	if e.Removed() {
		return nil
	}
	return e
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
