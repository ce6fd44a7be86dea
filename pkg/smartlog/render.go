// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package smartlog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/antgroup/zeta-smartlog/modules/plumbing"
)

// Glyphs is the set of cursor and connector characters the renderer draws
// with. Terminal colour is deliberately not part of this type -- painting
// the glyphs is a presentation-layer concern external to this package; see
// Non-goals.
type Glyphs struct {
	CommitVisible          string
	CommitVisibleHead      string
	CommitObsolete         string
	CommitObsoleteHead     string
	CommitMain             string
	CommitMainHead         string
	CommitMainObsolete     string
	CommitMainObsoleteHead string
	Line                   string
	LineWithOffshoot       string
	Slash                  string
	VerticalEllipsis       string
}

// DefaultGlyphs is a plain-ASCII glyph table, safe for any terminal.
var DefaultGlyphs = Glyphs{
	CommitVisible:          "o",
	CommitVisibleHead:      "@",
	CommitObsolete:         "x",
	CommitObsoleteHead:     "%",
	CommitMain:             "o",
	CommitMainHead:         "@",
	CommitMainObsolete:     "x",
	CommitMainObsoleteHead: "%",
	Line:                   "|",
	LineWithOffshoot:       "|",
	Slash:                  "\\",
	VerticalEllipsis:       ":",
}

func (g Glyphs) cursor(isMain, isObsolete, isHead bool) string {
	switch {
	case !isMain && !isObsolete && !isHead:
		return g.CommitVisible
	case !isMain && !isObsolete && isHead:
		return g.CommitVisibleHead
	case !isMain && isObsolete && !isHead:
		return g.CommitObsolete
	case !isMain && isObsolete && isHead:
		return g.CommitObsoleteHead
	case isMain && !isObsolete && !isHead:
		return g.CommitMain
	case isMain && !isObsolete && isHead:
		return g.CommitMainHead
	case isMain && isObsolete && !isHead:
		return g.CommitMainObsolete
	default:
		return g.CommitMainObsoleteHead
	}
}

// NodeDescriptor renders one column of text for a node, e.g. abbreviated
// OID, relative time, or the commit message summary. Descriptors are
// applied in order and their non-empty results joined with a single space.
// Render does not measure the width of the result; DisplayWidth is there for
// callers that align the raw lines themselves.
type NodeDescriptor func(ctx context.Context, node *Node) (string, error)

// Line is one rendered row. Bold reports whether the node this line
// belongs to is HEAD (§4.6 "if the node is HEAD, apply a bold effect to
// the first line") -- actually painting that effect (ANSI bold, a UI
// font weight, ...) is the presentation layer's job, external to this
// colour-agnostic package; Bold is the signal that layer acts on.
type Line struct {
	Text string
	Bold bool
}

// Render produces one line per visible node, plus connector and separator
// lines between them, in the same
// top-to-bottom visual order git-branchless's smartlog uses: independent
// lines of work ordered oldest-root-first, each one's descendants directly
// below it.
func Render(ctx context.Context, dag DAG, graph *SmartlogGraph, headOID *plumbing.OID, descriptors []NodeDescriptor, glyphs Glyphs) ([]Line, error) {
	roots, err := rootsInOrder(ctx, dag, graph)
	if err != nil {
		return nil, err
	}
	return renderRoots(ctx, dag, graph, roots, headOID, descriptors, glyphs)
}

// rootsInOrder returns the OIDs of every node with no in-graph parent,
// ordered so that a root whose merge-base with the next root is itself
// sorts first -- i.e. topologically-earlier lines of work are listed
// first, and renderRoots emits them first (at the top of the returned
// lines).
func rootsInOrder(ctx context.Context, dag DAG, graph *SmartlogGraph) ([]plumbing.OID, error) {
	var roots []plumbing.OID
	for oid, node := range graph.Nodes {
		if node.Parent == nil {
			roots = append(roots, oid)
		}
	}

	var sortErr error
	sort.Slice(roots, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		lhs, rhs := roots[i], roots[j]
		base, ok, err := dag.MergeBase(ctx, lhs, rhs)
		if err != nil {
			sortErr = err
			return false
		}
		switch {
		case ok && base == lhs:
			return true
		case ok && base == rhs:
			return false
		default:
			lt, lok, err := dag.CommitterTime(ctx, lhs)
			if err != nil {
				sortErr = err
				return false
			}
			rt, rok, err := dag.CommitterTime(ctx, rhs)
			if err != nil {
				sortErr = err
				return false
			}
			if lok && rok && !lt.Equal(rt) {
				return lt.Before(rt)
			}
			return lhs.String() < rhs.String()
		}
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return roots, nil
}

func renderRoots(ctx context.Context, dag DAG, graph *SmartlogGraph, roots []plumbing.OID, headOID *plumbing.OID, descriptors []NodeDescriptor, glyphs Glyphs) ([]Line, error) {
	var lines []Line
	plain := func(s string) Line { return Line{Text: s} }
	hasRealParent := func(oid, parentOID plumbing.OID) (bool, error) {
		parents, err := dag.Parents(ctx, oid)
		if err != nil {
			return false, err
		}
		for _, p := range parents {
			if p == parentOID {
				return true, nil
			}
		}
		return false, nil
	}

	for idx, root := range roots {
		parents, err := dag.Parents(ctx, root)
		if err != nil {
			return nil, err
		}
		if len(parents) > 0 {
			if idx > 0 {
				related, err := hasRealParent(root, roots[idx-1])
				if err != nil {
					return nil, err
				}
				if related {
					lines = append(lines, plain(glyphs.Line))
				} else {
					lines = append(lines, plain(glyphs.VerticalEllipsis))
				}
			}
		} else if idx > 0 {
			lines = append(lines, plain(""))
		}

		var lastChildLineChar string
		hasLastChildLineChar := false
		if idx != len(roots)-1 {
			related, err := hasRealParent(roots[idx+1], root)
			if err != nil {
				return nil, err
			}
			hasLastChildLineChar = true
			if related {
				lastChildLineChar = glyphs.Line
			} else {
				lastChildLineChar = glyphs.VerticalEllipsis
			}
		}

		childLines, err := childOutput(ctx, graph, roots, descriptors, headOID, root, hasLastChildLineChar, lastChildLineChar, glyphs)
		if err != nil {
			return nil, err
		}
		lines = append(lines, childLines...)
	}
	return lines, nil
}

func childOutput(ctx context.Context, graph *SmartlogGraph, rootOIDs []plumbing.OID, descriptors []NodeDescriptor, headOID *plumbing.OID, current plumbing.OID, hasLastChildLineChar bool, lastChildLineChar string, glyphs Glyphs) ([]Line, error) {
	node := graph.Nodes[current]
	isHead := headOID != nil && *headOID == current

	text, err := describe(ctx, node, descriptors)
	if err != nil {
		return nil, err
	}
	cursor := glyphs.cursor(node.IsMain, node.IsObsolete, isHead)
	first := Line{Text: fmt.Sprintf("%s %s", cursor, text), Bold: isHead}
	lines := []Line{first}

	var children []plumbing.OID
	for _, c := range node.Children {
		if _, ok := graph.Nodes[c]; ok {
			children = append(children, c)
		}
	}

	isRoot := make(map[plumbing.OID]bool, len(rootOIDs))
	for _, r := range rootOIDs {
		isRoot[r] = true
	}

	for childIdx, childOID := range children {
		if isRoot[childOID] {
			continue
		}
		isLast := childIdx == len(children)-1
		if isLast {
			if hasLastChildLineChar {
				lines = append(lines, Line{Text: glyphs.LineWithOffshoot + glyphs.Slash})
			} else {
				lines = append(lines, Line{Text: glyphs.Line})
			}
		} else {
			lines = append(lines, Line{Text: glyphs.LineWithOffshoot + glyphs.Slash})
		}

		childLines, err := childOutput(ctx, graph, rootOIDs, descriptors, headOID, childOID, false, "", glyphs)
		if err != nil {
			return nil, err
		}
		for _, childLine := range childLines {
			switch {
			case isLast && hasLastChildLineChar:
				lines = append(lines, Line{Text: fmt.Sprintf("%s %s", lastChildLineChar, childLine.Text), Bold: childLine.Bold})
			case isLast:
				lines = append(lines, childLine)
			default:
				lines = append(lines, Line{Text: fmt.Sprintf("%s %s", glyphs.Line, childLine.Text), Bold: childLine.Bold})
			}
		}
	}
	return lines, nil
}

func describe(ctx context.Context, node *Node, descriptors []NodeDescriptor) (string, error) {
	parts := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		s, err := d(ctx, node)
		if err != nil {
			return "", err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " "), nil
}

// DisplayWidth measures the terminal column width of s, accounting for
// wide runes (e.g. CJK commit summaries) rather than counting bytes or
// runes outright.
func DisplayWidth(s string) int {
	return uniseg.StringWidth(s)
}
