// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package smartlog

import (
	"context"
	"sort"
	"time"

	"github.com/antgroup/zeta-smartlog/modules/object"
	"github.com/antgroup/zeta-smartlog/modules/plumbing"
)

// Node is one vertex of the projected smartlog graph: unlike the full
// commit graph, Parent/Children only ever point at other nodes actually
// present in this graph, since most of the repository's history is
// deliberately hidden from the smartlog view.
type Node struct {
	OID plumbing.OID
	// Commit is nil when GarbageCollected is true: the commit used to be
	// reachable from an event-log entry but the object itself is gone.
	Commit           *object.Commit
	GarbageCollected bool

	Parent   *plumbing.OID
	Children []plumbing.OID

	// IsMain marks a commit on the public branch: treated as immutable,
	// normally not expected to need rewriting.
	IsMain bool
	// IsObsolete marks a commit that has been superseded by a rewrite
	// (cherry-pick, amend) but is still shown because of some anomalous
	// situation (e.g. it has a non-obsolete descendant).
	IsObsolete bool
}

// SmartlogGraph is the projected subgraph the renderer walks.
type SmartlogGraph struct {
	Nodes map[plumbing.OID]*Node
}

// CommitResolver resolves a single commit for graph construction,
// reporting ok=false for a commit whose object is no longer available
// (presumed garbage collected).
type CommitResolver func(ctx context.Context, oid plumbing.OID) (commit *object.Commit, ok bool, err error)

// GCHinter is the narrow GC-facade capability the builder invokes for
// reachability hinting (§4.5): "for every OID in active_heads, the
// builder calls into the GC facade to mark the commit reachable (keeps it
// pinned against garbage collection for the duration of the operation)".
// The GC subsystem itself remains an excluded collaborator (Non-goals:
// "persisting its own object store"); this package only defines and
// invokes the interface it exposes.
type GCHinter interface {
	MarkReachable(ctx context.Context, oid plumbing.OID) error
}

// NopGCHinter discards every hint. Use it where no GC facade is wired up
// (tests, the example command's throwaway MemStore, which never collects
// anything in the first place).
type NopGCHinter struct{}

func (NopGCHinter) MarkReachable(context.Context, plumbing.OID) error { return nil }

// Build constructs the smartlog graph: for every active head, the path up
// to its nearest public ancestor is added to the graph (or just the head
// itself, if it has no public ancestor); parent/child links are then
// derived, but only between pairs of OIDs both already present in the
// graph, which is what makes most of the repository's history invisible
// to the smartlog. Children are sorted deterministically by (committer
// time, OID string), matching sort_children in the graph this package is
// grounded on. Before expansion, every active head is reported to gc as
// reachable, pinning it against collection for the duration of the build
// (§4.5 "Reachability hinting") -- this is a side effect on the external
// store, not on the returned graph.
func Build(ctx context.Context, dag DAG, activeHeads CommitSet, publicCommits, obsoleteCommits CommitSet, resolve CommitResolver, gc GCHinter) (*SmartlogGraph, error) {
	for _, head := range activeHeads.Slice() {
		if err := gc.MarkReachable(ctx, head); err != nil {
			return nil, err
		}
	}

	nodes := make(map[plumbing.OID]*Node)
	for _, head := range activeHeads.Slice() {
		path, ok, err := dag.PathToMainBranch(ctx, head)
		if err != nil {
			return nil, err
		}
		if !ok {
			path = []plumbing.OID{head}
		}
		for _, oid := range path {
			if _, exists := nodes[oid]; exists {
				continue
			}
			commit, found, err := resolve(ctx, oid)
			if err != nil {
				return nil, err
			}
			nodes[oid] = &Node{
				OID:              oid,
				Commit:           commit,
				GarbageCollected: !found,
				IsMain:           publicCommits.Contains(oid),
				IsObsolete:       obsoleteCommits.Contains(oid),
			}
		}
	}

	type link struct{ child, parent plumbing.OID }
	var links []link
	for childOID, node := range nodes {
		if node.IsMain {
			continue
		}
		parents, err := dag.Parents(ctx, childOID)
		if err != nil {
			return nil, err
		}
		for _, parentOID := range parents {
			if _, ok := nodes[parentOID]; ok {
				links = append(links, link{child: childOID, parent: parentOID})
			}
		}
	}
	for _, l := range links {
		parent := l.parent
		nodes[l.child].Parent = &parent
		nodes[l.parent].Children = append(nodes[l.parent].Children, l.child)
	}

	graph := &SmartlogGraph{Nodes: nodes}
	sortChildren(ctx, dag, graph)
	return graph, nil
}

// sortChildren orders every node's Children deterministically: a node with
// no resolvable committer time (garbage collected) sorts before any node
// that has one, ties broken by OID string -- the Go analogue of Option<Time>
// ordering None before Some in the graph this is grounded on.
func sortChildren(ctx context.Context, dag DAG, graph *SmartlogGraph) {
	times := make(map[plumbing.OID]*time.Time, len(graph.Nodes))
	for oid, node := range graph.Nodes {
		if node.GarbageCollected {
			times[oid] = nil
			continue
		}
		t, ok, err := dag.CommitterTime(ctx, oid)
		if err != nil || !ok {
			times[oid] = nil
			continue
		}
		times[oid] = &t
	}
	for _, node := range graph.Nodes {
		children := node.Children
		sort.Slice(children, func(i, j int) bool {
			a, b := children[i], children[j]
			ta, tb := times[a], times[b]
			switch {
			case ta == nil && tb == nil:
				return a.String() < b.String()
			case ta == nil:
				return true
			case tb == nil:
				return false
			case !ta.Equal(*tb):
				return ta.Before(*tb)
			default:
				return a.String() < b.String()
			}
		})
	}
}
