// Copyright 2018 Sourced Technologies, S.L.
// SPDX-License-Identifier: Apache-2.0

package object

import "github.com/antgroup/zeta-smartlog/modules/plumbing"

// Blob is a content-addressed file snapshot. Content is kept verbatim --
// no line-ending or encoding transforms happen at this layer.
type Blob struct {
	Hash     plumbing.OID
	Size     int64
	Contents []byte
}
