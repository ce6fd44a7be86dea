package plumbing

import (
	"sort"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// Path is a repository-root-relative path, stored as the raw bytes the VCS
// handed us. Paths are never decoded to text except at a user-facing
// boundary (error messages, conflict reports) — see textutil.DecodePath.
type Path []byte

func (p Path) String() string {
	return string(p)
}

// PathSet is an unordered set of paths. Internally it keeps paths in sorted
// byte order (via an emirpasic/gods tree set) so that iteration is
// deterministic without callers having to sort themselves -- dehydration and
// rehydration both rely on this for content-addressed, invocation-order
// independent output.
type PathSet struct {
	s *treeset.Set
}

func pathComparator(a, b any) int {
	return strings.Compare(a.(string), b.(string))
}

// NewPathSet builds a PathSet from the given paths (as strings; byte-exact
// path sequences are stored unchanged as tree-set elements so they survive
// round trip even if not valid UTF-8).
func NewPathSet(paths ...string) *PathSet {
	ps := &PathSet{s: treeset.NewWith(utils.Comparator(pathComparator))}
	for _, p := range paths {
		ps.s.Add(p)
	}
	return ps
}

func (ps *PathSet) Add(path string) {
	ps.s.Add(path)
}

func (ps *PathSet) Contains(path string) bool {
	return ps.s.Contains(path)
}

func (ps *PathSet) Len() int {
	return ps.s.Size()
}

// Sorted returns the paths in deterministic, sorted order.
func (ps *PathSet) Sorted() []string {
	values := ps.s.Values()
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.(string))
	}
	sort.Strings(out) // values() from treeset is already sorted; this just documents the contract
	return out
}

// Union returns a new PathSet containing paths in either set.
func (ps *PathSet) Union(other *PathSet) *PathSet {
	out := NewPathSet()
	for _, p := range ps.Sorted() {
		out.Add(p)
	}
	if other != nil {
		for _, p := range other.Sorted() {
			out.Add(p)
		}
	}
	return out
}
