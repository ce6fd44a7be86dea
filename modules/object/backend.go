// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"context"

	"github.com/antgroup/zeta-smartlog/modules/plumbing"
)

// Backend is the narrow read capability a Tree needs to resolve its
// subtrees lazily. It is a strict subset of the full object-store facade
// (§4.1 of the design) -- everything else the core needs (create, merge,
// diff) lives on top of this in package odb.
type Backend interface {
	Tree(ctx context.Context, oid plumbing.OID) (*Tree, error)
	Blob(ctx context.Context, oid plumbing.OID) (*Blob, error)
}
