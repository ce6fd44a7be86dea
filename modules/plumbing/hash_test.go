// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package plumbing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOIDDeterministic(t *testing.T) {
	a := NewOID([]byte("hello"))
	b := NewOID([]byte("hello"))
	require.Equal(t, a, b)
	require.NotEqual(t, ZeroOID, a)
}

func TestNonZeroOIDRejectsZero(t *testing.T) {
	_, err := NewNonZeroOID(ZeroOID)
	require.ErrorIs(t, err, ErrZeroOID)

	oid := NewOID([]byte("content"))
	nz, err := NewNonZeroOID(oid)
	require.NoError(t, err)
	require.Equal(t, oid, nz.OID())
}

func TestMustNonZeroOIDPanicsOnZero(t *testing.T) {
	require.Panics(t, func() {
		MustNonZeroOID(ZeroOID)
	})
}

func TestNoSuchObject(t *testing.T) {
	err := NoSuchObject("tree", ZeroOID)
	require.True(t, IsNoSuchObject(err))
	require.False(t, IsNoSuchObject(nil))
	require.False(t, IsNoSuchObject(ErrZeroOID))
}

func TestParseOIDRoundTrip(t *testing.T) {
	oid := NewOID([]byte("round trip"))
	parsed := ParseOID(oid.String())
	require.Equal(t, oid, parsed)
}
