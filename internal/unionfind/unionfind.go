// Package unionfind provides a disjoint-set structure over dense integer indices.
package unionfind

// UnionFind groups indices 0..n-1 into disjoint sets.
// Indices are caller-controlled and must be in range.
type UnionFind struct {
	parent []int
}

// New creates size singleton sets, each its own representative.
func New(size int) *UnionFind {
	if size < 0 {
		size = 0
	}
	parent := make([]int, size)
	for i := range parent {
		parent[i] = i
	}
	return &UnionFind{parent: parent}
}

// Len returns the number of elements.
func (u *UnionFind) Len() int {
	return len(u.parent)
}

// Find returns the representative of x's set, re-pointing every node on the
// path directly at the root.
func (u *UnionFind) Find(x int) int {
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[x] != root {
		next := u.parent[x]
		u.parent[x] = root
		x = next
	}
	return root
}

// Union merges the sets containing a and b by pointing b's representative at
// a's representative.
func (u *UnionFind) Union(a, b int) {
	ra := u.Find(a)
	rb := u.Find(b)
	if ra != rb {
		u.parent[rb] = ra
	}
}

// Connected reports whether a and b share a set.
func (u *UnionFind) Connected(a, b int) bool {
	return u.Find(a) == u.Find(b)
}

// Groups returns root -> members, members in ascending index order.
func (u *UnionFind) Groups() map[int][]int {
	groups := make(map[int][]int)
	for i := range u.parent {
		root := u.Find(i)
		groups[root] = append(groups[root], i)
	}
	return groups
}
