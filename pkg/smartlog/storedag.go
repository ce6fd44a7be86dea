// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package smartlog

import (
	"context"
	"time"

	"github.com/antgroup/zeta-smartlog/modules/plumbing"
	"github.com/antgroup/zeta-smartlog/pkg/odb"
)

// StoreDAG adapts an odb.Store into a DAG by walking commit parent links
// directly. It is a convenience for small, single-process histories (tests,
// the example command); a production deployment backs DAG with a real
// generation-number/reachability index instead (see the DAG doc comment).
type StoreDAG struct {
	Store  odb.Store
	Public plumbing.OID
}

var _ DAG = (*StoreDAG)(nil)

func (d *StoreDAG) Parents(ctx context.Context, oid plumbing.OID) ([]plumbing.OID, error) {
	c, err := d.Store.FindCommit(ctx, oid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	return c.Parents, nil
}

// PathToMainBranch walks single-parent ancestry from start until it reaches
// d.Public. It gives up (ok=false) at the first merge commit or root commit
// it encounters without having found d.Public, since neither has an
// unambiguous "the" path to main.
func (d *StoreDAG) PathToMainBranch(ctx context.Context, start plumbing.OID) ([]plumbing.OID, bool, error) {
	var path []plumbing.OID
	cur := start
	for {
		path = append(path, cur)
		if cur == d.Public {
			return path, true, nil
		}
		c, err := d.Store.FindCommit(ctx, cur)
		if err != nil {
			return nil, false, err
		}
		if c == nil || len(c.Parents) != 1 {
			return path, false, nil
		}
		cur = c.Parents[0]
	}
}

func (d *StoreDAG) MergeBase(ctx context.Context, a, b plumbing.OID) (plumbing.OID, bool, error) {
	return d.Store.MergeBase(ctx, a, b)
}

func (d *StoreDAG) CommitterTime(ctx context.Context, oid plumbing.OID) (time.Time, bool, error) {
	c, err := d.Store.FindCommit(ctx, oid)
	if err != nil {
		return time.Time{}, false, err
	}
	if c == nil {
		return time.Time{}, false, nil
	}
	return c.Committer.When, true, nil
}
