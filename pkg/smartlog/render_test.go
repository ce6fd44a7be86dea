// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package smartlog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/antgroup/zeta-smartlog/modules/plumbing"
)

func shortDescriptor(oids map[string]plumbing.OID) NodeDescriptor {
	names := make(map[plumbing.OID]string, len(oids))
	for name, oid := range oids {
		names[oid] = name
	}
	return func(_ context.Context, node *Node) (string, error) {
		if name, ok := names[node.OID]; ok {
			return name, nil
		}
		return node.OID.String(), nil
	}
}

// Scenario 5: two divergent topic branches rooted at a shared public commit
// M render as one root (M) with two lines of descendants below it.
func TestRenderTwoDivergentTopicsFromSharedPublicCommit(t *testing.T) {
	ctx := context.Background()
	dag, oids := newTestDAG()
	activeHeads := NewCommitSet(oids["A2"], oids["B1"])
	publicCommits := NewCommitSet(oids["M"])
	obsolete := NewCommitSet()

	graph, err := Build(ctx, dag, activeHeads, publicCommits, obsolete, resolveAlwaysFound, NopGCHinter{})
	require.NoError(t, err)

	head := oids["A2"]
	lines, err := Render(ctx, dag, graph, &head, []NodeDescriptor{shortDescriptor(oids)}, DefaultGlyphs)
	require.NoError(t, err)
	require.NotEmpty(t, lines)

	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	joined := strings.Join(texts, "\n")
	require.Contains(t, joined, "M")
	require.Contains(t, joined, "A1")
	require.Contains(t, joined, "A2")
	require.Contains(t, joined, "B1")

	// the root line (M, a main commit with no ancestor in graph) comes first,
	// and is not HEAD so it isn't bolded.
	require.True(t, strings.HasPrefix(lines[0].Text, DefaultGlyphs.CommitMain+" M"))
	require.False(t, lines[0].Bold)

	// the checked-out commit uses the head cursor and is bolded.
	foundHeadCursor := false
	for _, l := range lines {
		if strings.Contains(l.Text, DefaultGlyphs.CommitVisibleHead+" A2") {
			foundHeadCursor = true
			require.True(t, l.Bold)
		} else {
			require.False(t, l.Bold)
		}
	}
	require.True(t, foundHeadCursor)
}

func TestRenderSingleLinearChain(t *testing.T) {
	ctx := context.Background()
	dag, oids := newTestDAG()
	activeHeads := NewCommitSet(oids["A2"])
	publicCommits := NewCommitSet(oids["M"])
	obsolete := NewCommitSet()

	graph, err := Build(ctx, dag, activeHeads, publicCommits, obsolete, resolveAlwaysFound, NopGCHinter{})
	require.NoError(t, err)

	lines, err := Render(ctx, dag, graph, nil, []NodeDescriptor{shortDescriptor(oids)}, DefaultGlyphs)
	require.NoError(t, err)
	require.Len(t, lines, 5) // M, connector, A1, connector, A2

	// headOID is nil: no line is HEAD, so nothing is bolded.
	for _, l := range lines {
		require.False(t, l.Bold)
	}
}
