// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Command smartlog-demo exercises the in-memory object store, the fast
// cherry-pick/amend engine, and the smartlog graph builder/renderer
// end-to-end against a small synthetic history. It is a demonstration
// harness, not a porcelain VCS command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/antgroup/zeta-smartlog/internal/config"
	"github.com/antgroup/zeta-smartlog/modules/object"
	"github.com/antgroup/zeta-smartlog/modules/plumbing"
	"github.com/antgroup/zeta-smartlog/modules/plumbing/filemode"
	"github.com/antgroup/zeta-smartlog/pkg/odb"
	"github.com/antgroup/zeta-smartlog/pkg/rewrite"
	"github.com/antgroup/zeta-smartlog/pkg/smartlog"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (optional)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("loading config: %v", err)
	}
	logrus.Debugf("using main branch %q, glyphs %q, min obsolescence version %s",
		cfg.MainBranch, cfg.Glyphs, cfg.ParsedServerVersion())

	if err := run(cfg); err != nil {
		logrus.Errorf("demo failed: %v", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx := context.Background()
	store, err := odb.NewMemStore()
	if err != nil {
		return fmt.Errorf("building object store: %w", err)
	}

	root := mustCommit(ctx, store, "initial commit", nil, map[string]string{"README.md": "hello"})
	mainTip := mustCommit(ctx, store, "M: public tip", []plumbing.OID{root}, map[string]string{"README.md": "hello", "shared.txt": "v1"})

	topicA1 := mustCommit(ctx, store, "A1: start topic A", []plumbing.OID{mainTip}, map[string]string{"README.md": "hello", "shared.txt": "v1", "a.txt": "a1"})
	topicA2 := mustCommit(ctx, store, "A2: continue topic A", []plumbing.OID{topicA1}, map[string]string{"README.md": "hello", "shared.txt": "v1", "a.txt": "a2"})

	topicB1 := mustCommit(ctx, store, "B1: start topic B", []plumbing.OID{mainTip}, map[string]string{"README.md": "hello", "shared.txt": "v1", "b.txt": "b1"})

	dehydrator, err := rewrite.NewDehydrator(store)
	if err != nil {
		return fmt.Errorf("building dehydrator: %w", err)
	}

	rebasedTree, err := rewrite.CherryPickFast(ctx, store, dehydrator, rewrite.CherryPickOptions{
		Commit:      topicB1,
		Destination: topicA2,
	})
	rebased := topicB1
	switch {
	case rewrite.IsMergeConflict(err):
		mc := err.(*rewrite.ErrMergeConflict)
		display, derr := mc.Display()
		if derr != nil {
			return derr
		}
		logrus.Infof("cherry-pick produced conflicts:\n%s", display)
	case err != nil:
		return fmt.Errorf("cherry-pick: %w", err)
	default:
		// the engine only computed the resulting tree (§5: it never mints
		// commits or writes refs); building the replacement commit from
		// that tree is this caller's job.
		patch, err := store.FindCommitOrFail(ctx, topicB1)
		if err != nil {
			return fmt.Errorf("resolving patch commit: %w", err)
		}
		rebased, err = store.CreateCommit(ctx, patch.Author, patch.Committer, patch.Message, rebasedTree, []plumbing.OID{topicA2})
		if err != nil {
			return fmt.Errorf("creating rebased commit: %w", err)
		}
		logrus.Infof("rebased topic B onto topic A at %s", rebased)
	}

	dag := &smartlog.StoreDAG{Store: store, Public: mainTip}
	activeHeads := smartlog.NewCommitSet(topicA2, rebased)
	publicCommits := smartlog.NewCommitSet(mainTip, root)
	obsolete := smartlog.NewCommitSet()

	resolve := func(ctx context.Context, oid plumbing.OID) (*object.Commit, bool, error) {
		c, err := store.FindCommit(ctx, oid)
		if err != nil {
			return nil, false, err
		}
		return c, c != nil, nil
	}

	// this in-memory store never collects anything, so there's no GC
	// facade to pin commits against; a real deployment wires its GC
	// facade here instead.
	graph, err := smartlog.Build(ctx, dag, activeHeads, publicCommits, obsolete, resolve, smartlog.NopGCHinter{})
	if err != nil {
		return fmt.Errorf("building smartlog graph: %w", err)
	}

	descriptor := func(_ context.Context, node *smartlog.Node) (string, error) {
		if node.Commit == nil {
			return "(garbage collected)", nil
		}
		return node.Commit.Message, nil
	}

	head := topicA2
	lines, err := smartlog.Render(ctx, dag, graph, &head, []smartlog.NodeDescriptor{descriptor}, smartlog.DefaultGlyphs)
	if err != nil {
		return fmt.Errorf("rendering smartlog: %w", err)
	}
	for _, l := range lines {
		if l.Bold {
			fmt.Printf("**%s**\n", l.Text)
		} else {
			fmt.Println(l.Text)
		}
	}
	return nil
}

func mustCommit(ctx context.Context, store *odb.MemStore, message string, parents []plumbing.OID, files map[string]string) plumbing.OID {
	entries := make([]*object.TreeEntry, 0, len(files))
	for name, content := range files {
		oid, err := store.CreateBlob(ctx, []byte(content))
		if err != nil {
			logrus.Fatalf("creating blob %s: %v", name, err)
		}
		entries = append(entries, &object.TreeEntry{Name: name, Hash: oid, Mode: filemode.Regular})
	}
	treeOID, err := store.CreateTree(ctx, entries)
	if err != nil {
		logrus.Fatalf("creating tree for %q: %v", message, err)
	}
	sig := object.Signature{Name: "demo", Email: "demo@example.invalid", When: time.Now()}
	commitOID, err := store.CreateCommit(ctx, sig, sig, message, treeOID, parents)
	if err != nil {
		logrus.Fatalf("creating commit %q: %v", message, err)
	}
	return commitOID
}
