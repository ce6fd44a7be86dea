// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGitSentinel(t *testing.T) {
	v, err := Parse("2.33.GIT")
	require.NoError(t, err)
	require.True(t, v.Equal(New(2, 33, 0)))
}

func TestParseReleaseCandidate(t *testing.T) {
	v, err := Parse("2.33.0-rc0")
	require.NoError(t, err)
	final, err := Parse("2.33.0")
	require.NoError(t, err)

	// same major.minor.patch, but an rc is a distinct, earlier version than
	// the final release.
	require.False(t, v.Equal(final))
	require.True(t, v.LessThan(final))
	require.True(t, final.GreaterOrEqual(v))
}

func TestParseExtraComponentsIgnored(t *testing.T) {
	v, err := Parse("12.34.56.78.abcdef")
	require.NoError(t, err)
	require.True(t, v.Equal(New(12, 34, 56)))
}

func TestParseRejectsTooFewComponents(t *testing.T) {
	_, err := Parse("1.2")
	require.Error(t, err)
}
