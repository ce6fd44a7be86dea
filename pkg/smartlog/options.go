// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package smartlog

import "github.com/antgroup/zeta-smartlog/pkg/version"

// minObsolescenceVersion is the oldest server protocol version that
// reports obsolescence markers at all. Older servers never populate the
// obsolete-commit set, so ObsolescenceCapable lets a caller decide whether
// Node.IsObsolete can be trusted or should be treated as always false.
var minObsolescenceVersion = version.New(1, 2, 0)

// ObsolescenceCapable reports whether a server reporting v supports
// obsolescence markers.
func ObsolescenceCapable(v version.Version) bool {
	return v.GreaterOrEqual(minObsolescenceVersion)
}

// Options configures a smartlog build+render pass.
type Options struct {
	// ShowHiddenCommits includes obsolete commits that would otherwise be
	// hidden from the smartlog view.
	ShowHiddenCommits bool
	// ServerVersion is the connected server's reported protocol version,
	// used to gate ObsolescenceCapable.
	ServerVersion version.Version
}
