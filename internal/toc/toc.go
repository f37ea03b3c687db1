package toc

import (
	"github.com/yuin/goldmark/ast"

	"github.com/dgallion1/docsite/internal/doctree"
	"github.com/dgallion1/docsite/internal/document"
)

// Config controls ToC generation. A zero MaxDepth collapses everything
// except nodes reached through an auto-expand exception.
type Config struct {
	IncludePages   bool
	IncludeHeaders bool
	Ordered        bool // numbered vs bulleted list
	MaxDepth       int  // hard cutoff below which children are not expanded
	AutoExpand     bool // expand along the path to the active page
	MaxExpandDepth int  // extra levels unlocked while auto-expanding
}

// DefaultConfig returns the default ToC configuration.
func DefaultConfig() Config {
	return Config{
		IncludePages:   true,
		IncludeHeaders: true,
		Ordered:        true,
		MaxDepth:       6,
		AutoExpand:     false,
		MaxExpandDepth: 1,
	}
}

// PageLocation is a cursor into the site's page tree.
type PageLocation = doctree.Location[*document.Page]

// Builder renders nested list nodes from a page tree. All operations are
// pure: they only read the input trees and allocate the output AST.
type Builder struct {
	cfg Config
}

// NewBuilder creates a ToC builder. Negative depths are clamped to zero.
func NewBuilder(cfg Config) *Builder {
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = 0
	}
	if cfg.MaxExpandDepth < 0 {
		cfg.MaxExpandDepth = 0
	}
	return &Builder{cfg: cfg}
}

// expansion tracks the auto-expand window. The zero value means "absent":
// the current branch is not inside an expand window.
type expansion struct {
	active bool
	depth  int
}

// RenderPage renders the full ToC for the page at loc's own subtree,
// treating that page as both the base-path source and the active node.
func (b *Builder) RenderPage(loc *PageLocation) ast.Node {
	page := loc.Tree().Label
	return b.RenderTree(page.Base, loc, loc.Tree())
}

// RenderDirective renders a ToC rooted at the headers of the current page
// that start after bufferOffset, for an in-document "table of contents from
// here" directive. Item depth starts at the found header's document level,
// so MaxDepth keeps counting document levels.
func (b *Builder) RenderDirective(loc *PageLocation, bufferOffset int) ast.Node {
	page := loc.Tree().Label
	level, headers := HeadersAfter(page.FirstHeader(), bufferOffset)
	synthetic := &document.Page{
		Base:    page.Base,
		Path:    page.Path,
		Title:   page.Title,
		Headers: headers,
	}
	return b.renderTree(page.Base, loc, synthetic.Tree(), level)
}

// RenderRoot renders the ToC for the entire site, rooted at loc's root
// tree, using loc as the active node for highlighting and expansion.
func (b *Builder) RenderRoot(loc *PageLocation) ast.Node {
	if !b.cfg.IncludePages {
		return b.newList()
	}
	base := loc.Tree().Label.Base
	item := b.pageItem(base, loc, 0, expansion{}, loc.Root().Tree())
	list := b.newList()
	list.AppendChild(list, item)
	return list
}

// RenderHeadersOnly renders only the current page's own header hierarchy,
// with the page's top header as the root item and no active node.
func (b *Builder) RenderHeadersOnly(loc *PageLocation) ast.Node {
	page := loc.Tree().Label
	if !b.cfg.IncludeHeaders || page.H1 == nil {
		return b.newList()
	}
	tree := doctree.Node(page.H1, page.Headers)
	item := b.headerItem(page.Base+page.Path, nil, 0, expansion{}, tree)
	list := b.newList()
	list.AppendChild(list, item)
	return list
}

// RenderTree returns a list node for tree, or an empty list if the result
// would have no items.
func (b *Builder) RenderTree(base string, active *PageLocation, tree *doctree.Tree[*document.Page]) ast.Node {
	return b.renderTree(base, active, tree, 0)
}

func (b *Builder) renderTree(base string, active *PageLocation, tree *doctree.Tree[*document.Page], depth int) ast.Node {
	if list := b.pageSubList(base, active, tree, depth, expansion{}); list != nil {
		return list
	}
	return b.newList()
}

// pageSubList builds header items followed by sub-page items for a page
// node. Returns nil when the item sequence is empty, so callers omit the
// nested list entirely.
func (b *Builder) pageSubList(base string, active *PageLocation, tree *doctree.Tree[*document.Page], depth int, exp expansion) *ast.List {
	page := tree.Label
	var items []*ast.ListItem
	if b.cfg.IncludeHeaders {
		for _, header := range page.Headers {
			items = append(items, b.headerItem(base+page.Path, active, depth, exp, header))
		}
	}
	if b.cfg.IncludePages {
		for _, child := range tree.Children {
			items = append(items, b.pageItem(base, active, depth, exp, child))
		}
	}
	return b.wrapItems(items)
}

// headerSubList builds child-header items for a header node.
func (b *Builder) headerSubList(base string, active *PageLocation, tree *doctree.Tree[*document.Header], depth int, exp expansion) *ast.List {
	if !b.cfg.IncludeHeaders {
		return nil
	}
	var items []*ast.ListItem
	for _, child := range tree.Children {
		items = append(items, b.headerItem(base, active, depth, exp, child))
	}
	return b.wrapItems(items)
}

func (b *Builder) pageItem(base string, active *PageLocation, depth int, exp expansion, tree *doctree.Tree[*document.Page]) *ast.ListItem {
	item := ast.NewListItem(0)
	item.AppendChild(item, b.link(base, tree.Label, active))
	if recurse, childExp := b.expand(depth, exp, tree.Label, active); recurse {
		if sub := b.pageSubList(base, active, tree, depth+1, childExp); sub != nil {
			item.AppendChild(item, sub)
		}
	}
	return item
}

func (b *Builder) headerItem(base string, active *PageLocation, depth int, exp expansion, tree *doctree.Tree[*document.Header]) *ast.ListItem {
	item := ast.NewListItem(0)
	item.AppendChild(item, b.link(base, tree.Label, active))
	if recurse, childExp := b.expand(depth, exp, tree.Label, active); recurse {
		if sub := b.headerSubList(base, active, tree, depth+1, childExp); sub != nil {
			item.AppendChild(item, sub)
		}
	}
	return item
}

// expand decides whether an item at the given depth recurses into its own
// sub-list, and which expand window its children inherit.
func (b *Builder) expand(depth int, exp expansion, node document.Linkable, active *PageLocation) (bool, expansion) {
	nodeActive := isActive(active, node)
	recurse := depth < b.cfg.MaxDepth ||
		(exp.active && exp.depth < b.cfg.MaxExpandDepth) ||
		(b.cfg.AutoExpand && isActiveAncestor(active, node)) ||
		(b.cfg.AutoExpand && b.cfg.MaxExpandDepth > 0 && nodeActive)
	if !recurse {
		return false, expansion{}
	}
	child := expansion{}
	switch {
	case b.cfg.AutoExpand && nodeActive:
		// Expansion begins at the active node itself.
		child = expansion{active: true}
	case exp.active:
		child = expansion{active: true, depth: exp.depth + 1}
	}
	return true, child
}

// isActive compares structurally on link paths; paths are unique across a
// built site tree.
func isActive(active *PageLocation, node document.Linkable) bool {
	return active != nil && active.Tree().Label.LinkPath() == node.LinkPath()
}

// isActiveAncestor reports whether node is a proper ancestor of the active
// node. The root counts as an ancestor here so it stays expanded on the way
// down to the active page.
func isActiveAncestor(active *PageLocation, node document.Linkable) bool {
	if active == nil {
		return false
	}
	for loc := active.Parent(); loc != nil; loc = loc.Parent() {
		if loc.Tree().Label.LinkPath() == node.LinkPath() {
			return true
		}
	}
	return false
}

// link renders a node's hyperlink: target = base + node path, with the
// active node's link marked by class="active".
func (b *Builder) link(base string, node document.Linkable, active *PageLocation) *ast.Link {
	link := ast.NewLink()
	link.Destination = []byte(base + node.LinkPath())
	if isActive(active, node) {
		link.SetAttributeString("class", []byte("active"))
	}
	link.AppendChild(link, node.LinkLabel())
	return link
}

func (b *Builder) newList() *ast.List {
	var list *ast.List
	if b.cfg.Ordered {
		list = ast.NewList('.')
		list.Start = 1
	} else {
		list = ast.NewList('-')
	}
	list.IsTight = true
	return list
}

func (b *Builder) wrapItems(items []*ast.ListItem) *ast.List {
	if len(items) == 0 {
		return nil
	}
	list := b.newList()
	for _, item := range items {
		list.AppendChild(list, item)
	}
	return list
}
