package doctree

// Tree is an immutable labeled tree with an ordered forest of children.
// Labels and child ordering are fixed at construction; the builder side of
// the system only ever reads trees.
type Tree[T any] struct {
	Label    T
	Children Forest[T]
}

// Forest is an ordered sequence of sibling trees.
type Forest[T any] []*Tree[T]

// Leaf returns a childless tree.
func Leaf[T any](label T) *Tree[T] {
	return &Tree[T]{Label: label}
}

// Node returns a tree with the given children.
func Node[T any](label T, children Forest[T]) *Tree[T] {
	return &Tree[T]{Label: label, Children: children}
}
