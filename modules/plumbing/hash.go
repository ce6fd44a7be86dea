// Copyright 2018 Sourced Technologies, S.L.
// SPDX-License-Identifier: Apache-2.0

package plumbing

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"
)

const (
	HashDigestSize = 32
	HashHexSize    = 64
)

// ErrZeroOID is returned by NewNonZeroOID when asked to wrap the zero hash.
var ErrZeroOID = errors.New("plumbing: OID is zero, but a non-zero OID was required")

// OID is a fixed-width content hash (BLAKE3). The zero value denotes "no
// object" in contexts that allow it; see NonZeroOID for the variant that
// forbids it.
type OID [HashDigestSize]byte

// ZeroOID is the OID with value zero.
var ZeroOID OID

// NewOID hashes content into an OID the same way the object database does.
func NewOID(content []byte) OID {
	return OID(blake3.Sum256(content))
}

// ParseOID decodes a hex-encoded OID. Invalid input decodes to the zero OID,
// mirroring the permissive parsing used elsewhere for revision specs.
func ParseOID(s string) OID {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != HashDigestSize {
		return ZeroOID
	}
	var h OID
	copy(h[:], b)
	return h
}

func (h OID) IsZero() bool {
	return h == ZeroOID
}

func (h OID) String() string {
	return hex.EncodeToString(h[:])
}

func (h OID) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *OID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*h = ParseOID(s)
	return nil
}

// NonZeroOID wraps an OID that is guaranteed, by construction, never to be
// the zero hash. The object-store facade's lookups (odb.Store) take a plain
// OID, not a NonZeroOID; a zero OID passed to them is not rejected by the
// type system.
type NonZeroOID struct {
	oid OID
}

// NewNonZeroOID validates oid and wraps it. It is the only constructor for
// NonZeroOID; the zero value of NonZeroOID itself is never handed out by
// this package's own APIs, but callers embedding it in larger structs should
// treat an unconstructed NonZeroOID as invalid.
func NewNonZeroOID(oid OID) (NonZeroOID, error) {
	if oid.IsZero() {
		return NonZeroOID{}, ErrZeroOID
	}
	return NonZeroOID{oid: oid}, nil
}

// MustNonZeroOID is NewNonZeroOID but panics on the zero hash. Intended for
// call sites that have already established the hash is non-zero, e.g. right
// after computing the hash of freshly-written content.
func MustNonZeroOID(oid OID) NonZeroOID {
	n, err := NewNonZeroOID(oid)
	if err != nil {
		panic(err)
	}
	return n
}

func (n NonZeroOID) OID() OID {
	return n.oid
}

func (n NonZeroOID) String() string {
	return n.oid.String()
}

// noSuchObject is an error type that occurs when no object with a given
// object ID is available in the store.
type noSuchObject struct {
	kind string
	oid  OID
}

func (e *noSuchObject) Error() string {
	if e.kind == "" {
		return fmt.Sprintf("no such object: %s", e.oid)
	}
	return fmt.Sprintf("no such %s: %s", e.kind, e.oid)
}

// NoSuchObject creates an error representing a missing object.
func NoSuchObject(kind string, oid OID) error {
	return &noSuchObject{kind: kind, oid: oid}
}

// IsNoSuchObject reports whether err was created by NoSuchObject.
func IsNoSuchObject(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*noSuchObject)
	return ok
}
