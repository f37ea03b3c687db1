package document

import (
	"github.com/yuin/goldmark/ast"

	"github.com/dgallion1/docsite/internal/doctree"
)

// Linkable is the capability a node needs to appear as a ToC entry: a
// relative link target and a renderable inline label.
type Linkable interface {
	// LinkPath returns the relative link target for this node.
	LinkPath() string
	// LinkLabel returns a freshly allocated inline node for this node's
	// title. Goldmark nodes are single-parent, so labels are never shared
	// between rendered lists.
	LinkLabel() ast.Node
}

// Page is a single document in the site tree. Immutable for the duration of
// a render.
type Page struct {
	Base     string // relative URL prefix from this page up to the site root, e.g. "../../"
	Path     string // site-root-relative output path, e.g. "guide/install.html"
	Title    string
	H1       *Header                  // the page's top header, used as its own label in headers-only views
	Headers  doctree.Forest[*Header]  // in-page section tree
	Children doctree.Forest[*Page]    // sub-pages; shared with the enclosing site tree's children
	TocMarks []int                    // byte offsets of in-document ToC directives
}

func (p *Page) LinkPath() string { return p.Path }

func (p *Page) LinkLabel() ast.Node { return ast.NewString([]byte(p.Title)) }

// Tree wraps the page as a tree node. The returned tree shares the page's
// Children forest, so tree.Children == tree.Label.Children holds at every
// level.
func (p *Page) Tree() *doctree.Tree[*Page] {
	return &doctree.Tree[*Page]{Label: p, Children: p.Children}
}

// FirstHeader returns the location of the page's first header, or nil when
// the page has none.
func (p *Page) FirstHeader() *doctree.Location[*Header] {
	return doctree.ForestLocation(p.Headers, 0)
}

// Header is an in-page section header.
type Header struct {
	Path       string // fragment target, e.g. "#install"
	Title      string
	Level      int // source heading level, h1 = 1
	StartIndex int // position in the page's source buffer
}

func (h *Header) LinkPath() string { return h.Path }

func (h *Header) LinkLabel() ast.Node { return ast.NewString([]byte(h.Title)) }
