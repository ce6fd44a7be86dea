// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package odb

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/antgroup/zeta-smartlog/modules/object"
	"github.com/antgroup/zeta-smartlog/modules/plumbing"
	"github.com/antgroup/zeta-smartlog/modules/trace"
)

// MemStore is a self-contained, in-process Store: every written object
// lives in memory for the lifetime of the process. It exists to give the
// rewrite engine and the smartlog builder something concrete to run
// against in tests and in the example command; it is explicitly not a
// replacement for a real, persistent object database (Non-goals:
// "persisting its own object store").
//
// Blobs are held zstd-compressed, the same compression algorithm the
// teacher repo's object database defaults to, and decompressed content is
// cached in a ristretto cache so repeated reads of the same blob (common
// when the rewrite engine re-resolves a path across dehydrated commits)
// don't pay the decompression cost twice.
type MemStore struct {
	mu sync.RWMutex

	commits map[plumbing.OID]*object.Commit
	trees   map[plumbing.OID]*object.Tree
	blobs   map[plumbing.OID][]byte // zstd-compressed

	// workingCopy is the stand-in for an on-disk working copy: the set of
	// files CreateBlobFromPath reads from, populated by tests and by the
	// demo command via SetWorkingCopyFile.
	workingCopy map[string][]byte

	blobCache *ristretto.Cache[plumbing.OID, []byte]

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewMemStore builds an empty MemStore.
func NewMemStore() (*MemStore, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[plumbing.OID, []byte]{
		NumCounters: 1e5,
		MaxCost:     1 << 24, // 16 MiB of decompressed blob content
		BufferItems: 64,
	})
	if err != nil {
		return nil, trace.Errorf("odb: building blob cache: %v", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, trace.Errorf("odb: building zstd encoder: %v", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, trace.Errorf("odb: building zstd decoder: %v", err)
	}
	return &MemStore{
		commits:     make(map[plumbing.OID]*object.Commit),
		trees:       make(map[plumbing.OID]*object.Tree),
		blobs:       make(map[plumbing.OID][]byte),
		workingCopy: make(map[string][]byte),
		blobCache:   cache,
		encoder:     enc,
		decoder:     dec,
	}, nil
}

var _ Store = (*MemStore)(nil)

// SetWorkingCopyFile registers content as the working-copy contents of
// path, consulted by CreateBlobFromPath. Passing a nil content removes the
// path, simulating a deleted file.
func (s *MemStore) SetWorkingCopyFile(path string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if content == nil {
		delete(s.workingCopy, path)
		return
	}
	s.workingCopy[path] = content
}

func (s *MemStore) Tree(_ context.Context, oid plumbing.OID) (*object.Tree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trees[oid]
	if !ok {
		return nil, plumbing.NoSuchObject("tree", oid)
	}
	return t.WithBackend(s), nil
}

func (s *MemStore) Blob(_ context.Context, oid plumbing.OID) (*object.Blob, error) {
	if oid.IsZero() {
		return nil, plumbing.NoSuchObject("blob", oid)
	}
	if content, ok := s.blobCache.Get(oid); ok {
		return &object.Blob{Hash: oid, Size: int64(len(content)), Contents: content}, nil
	}
	s.mu.RLock()
	compressed, ok := s.blobs[oid]
	s.mu.RUnlock()
	if !ok {
		return nil, plumbing.NoSuchObject("blob", oid)
	}
	content, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, trace.Errorf("odb: decompressing blob %s: %v", oid, err)
	}
	s.blobCache.Set(oid, content, int64(len(content)))
	return &object.Blob{Hash: oid, Size: int64(len(content)), Contents: content}, nil
}

func (s *MemStore) FindCommit(_ context.Context, oid plumbing.OID) (*object.Commit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.commits[oid]
	if !ok {
		return nil, nil
	}
	return c.WithBackend(s), nil
}

func (s *MemStore) FindCommitOrFail(ctx context.Context, oid plumbing.OID) (*object.Commit, error) {
	c, err := s.FindCommit(ctx, oid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, plumbing.NoSuchObject("commit", oid)
	}
	return c, nil
}

func (s *MemStore) FindTreeOrFail(ctx context.Context, oid plumbing.OID) (*object.Tree, error) {
	return s.Tree(ctx, oid)
}

func (s *MemStore) CreateBlob(_ context.Context, content []byte) (plumbing.OID, error) {
	oid := plumbing.NewOID(content)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[oid]; !ok {
		s.blobs[oid] = s.encoder.EncodeAll(content, nil)
	}
	s.blobCache.Set(oid, content, int64(len(content)))
	return oid, nil
}

// CreateBlobFromPath is a placeholder for reading the working copy: this
// in-memory store has no working copy of its own, so callers populate it
// indirectly through SetWorkingCopyFile before calling rewrite.AmendFast with
// FromWorkingCopy. A path absent from that set is reported as deleted, the
// same contract the facade promises for a genuinely missing file.
func (s *MemStore) CreateBlobFromPath(ctx context.Context, path string) (plumbing.OID, error) {
	s.mu.RLock()
	content, ok := s.workingCopy[path]
	s.mu.RUnlock()
	if !ok {
		return plumbing.ZeroOID, nil
	}
	return s.CreateBlob(ctx, content)
}

func (s *MemStore) CreateTree(_ context.Context, entries []*object.TreeEntry) (plumbing.OID, error) {
	t := object.NewTree(entries)
	encoded, err := encodeTree(t)
	if err != nil {
		return plumbing.ZeroOID, err
	}
	oid := plumbing.NewOID(encoded)
	t.Hash = oid
	s.mu.Lock()
	s.trees[oid] = t
	s.mu.Unlock()
	return oid, nil
}

func (s *MemStore) CreateCommit(_ context.Context, author, committer object.Signature, message string, tree plumbing.OID, parents []plumbing.OID) (plumbing.OID, error) {
	c := &object.Commit{
		Author:    author,
		Committer: committer,
		Message:   message,
		Tree:      tree,
		Parents:   append([]plumbing.OID(nil), parents...),
	}
	encoded := encodeCommit(c)
	oid := plumbing.NewOID(encoded)
	c.Hash = oid
	s.mu.Lock()
	s.commits[oid] = c
	s.mu.Unlock()
	return oid, nil
}

func (s *MemStore) MergeBase(ctx context.Context, a, b plumbing.OID) (plumbing.OID, bool, error) {
	return mergeBase(ctx, s.FindCommitOrFail, a, b)
}

func (s *MemStore) ThreeWayMergeTrees(ctx context.Context, base, ours, theirs plumbing.OID) (*MergeResult, error) {
	baseTree, err := s.treeOrNil(ctx, base)
	if err != nil {
		return nil, err
	}
	oursTree, err := s.treeOrNil(ctx, ours)
	if err != nil {
		return nil, err
	}
	theirsTree, err := s.treeOrNil(ctx, theirs)
	if err != nil {
		return nil, err
	}
	return threeWayMergeTrees(ctx, s, baseTree, oursTree, theirsTree)
}

func (s *MemStore) DiffTrees(ctx context.Context, old, new plumbing.OID) ([]*object.ChangedPath, error) {
	oldTree, err := s.treeOrNil(ctx, old)
	if err != nil {
		return nil, err
	}
	newTree, err := s.treeOrNil(ctx, new)
	if err != nil {
		return nil, err
	}
	return object.DiffTrees(ctx, oldTree, newTree)
}

func (s *MemStore) treeOrNil(ctx context.Context, oid plumbing.OID) (*object.Tree, error) {
	if oid.IsZero() {
		return nil, nil
	}
	return s.Tree(ctx, oid)
}

// encodeTree and encodeCommit produce the deterministic byte sequence an
// object is hashed from: name, mode and hash per entry for trees; parents,
// tree, signatures and message for commits. Real on-disk encodings (zeta's
// own binary framing, git's "tree <len>\0..." framing) are an object
// database concern this in-memory store doesn't need to replicate exactly,
// as long as the encoding is deterministic and collision-free for the
// inputs this module ever constructs.
func encodeTree(t *object.Tree) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range t.Entries {
		fmt.Fprintf(&buf, "%s %s %s\n", e.Mode, e.Hash, e.Name)
	}
	return buf.Bytes(), nil
}

func encodeCommit(c *object.Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.Tree)
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author %s\n", c.Author)
	fmt.Fprintf(&buf, "committer %s\n", c.Committer)
	buf.WriteString("\n")
	buf.WriteString(c.Message)
	return buf.Bytes()
}
