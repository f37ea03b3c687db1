package doctree

// Location is a read-only cursor into a tree (or a top-level forest). It
// carries its own ancestor chain, so no back-references are stored on the
// trees themselves.
type Location[T any] struct {
	siblings Forest[T] // the sibling group containing this cursor's tree
	index    int       // position within siblings
	parent   *Location[T]
	depth    int
	isRoot   bool // created by RootLocation; excluded from descendants' paths
}

// RootLocation returns the location at the root of a single tree.
func RootLocation[T any](tree *Tree[T]) *Location[T] {
	return &Location[T]{siblings: Forest[T]{tree}, isRoot: true}
}

// ForestLocation returns a location for the i-th top-level tree of a forest,
// or nil if the index is out of range.
func ForestLocation[T any](forest Forest[T], i int) *Location[T] {
	if i < 0 || i >= len(forest) {
		return nil
	}
	return &Location[T]{siblings: forest, index: i}
}

// At descends from the root of tree along a path of child indexes,
// returning nil if any index is out of range.
func At[T any](tree *Tree[T], path ...int) *Location[T] {
	loc := RootLocation(tree)
	for _, i := range path {
		loc = loc.Child(i)
		if loc == nil {
			return nil
		}
	}
	return loc
}

// Tree returns the tree at this cursor.
func (l *Location[T]) Tree() *Tree[T] {
	return l.siblings[l.index]
}

// Depth returns the distance from the root (root = 0).
func (l *Location[T]) Depth() int {
	return l.depth
}

// Parent returns the location of this cursor's parent, or nil at a top
// level.
func (l *Location[T]) Parent() *Location[T] {
	return l.parent
}

// Child returns the location of the i-th child, or nil if out of range.
func (l *Location[T]) Child(i int) *Location[T] {
	children := l.Tree().Children
	if i < 0 || i >= len(children) {
		return nil
	}
	return &Location[T]{siblings: children, index: i, parent: l, depth: l.depth + 1}
}

// Path returns the ancestor locations from this cursor upward, innermost
// first, excluding the tree root. Cursors descended from a ForestLocation
// have no root, so every ancestor is kept.
func (l *Location[T]) Path() []*Location[T] {
	var path []*Location[T]
	for p := l.parent; p != nil; p = p.parent {
		path = append(path, p)
	}
	if n := len(path); n > 0 && path[n-1].isRoot {
		path = path[:n-1]
	}
	return path
}

// Rights returns the sibling subtrees following this cursor's tree, in
// order.
func (l *Location[T]) Rights() Forest[T] {
	return l.siblings[l.index+1:]
}

// Next returns the location of the next node in pre-order (first child,
// else next right sibling, else the nearest ancestor's right sibling), or
// nil when the traversal is exhausted.
func (l *Location[T]) Next() *Location[T] {
	if len(l.Tree().Children) > 0 {
		return l.Child(0)
	}
	for loc := l; loc != nil; loc = loc.parent {
		if loc.index+1 < len(loc.siblings) {
			return &Location[T]{
				siblings: loc.siblings,
				index:    loc.index + 1,
				parent:   loc.parent,
				depth:    loc.depth,
			}
		}
	}
	return nil
}

// Root returns the location at the top of this cursor's ancestor chain.
func (l *Location[T]) Root() *Location[T] {
	loc := l
	for loc.parent != nil {
		loc = loc.parent
	}
	return loc
}
