package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// listRenderer handles the four node kinds the ToC builder produces:
// List, ListItem, Link, and String.
type listRenderer struct{}

func (r *listRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindList, r.renderList)
	reg.Register(ast.KindListItem, r.renderListItem)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindString, r.renderString)
}

func (r *listRenderer) renderList(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	// An empty item sequence yields no markup at all.
	if n.ChildCount() == 0 {
		return ast.WalkSkipChildren, nil
	}
	tag := "ul"
	if n.(*ast.List).IsOrdered() {
		tag = "ol"
	}
	if entering {
		fmt.Fprintf(w, "<%s>", tag)
	} else {
		fmt.Fprintf(w, "</%s>", tag)
	}
	return ast.WalkContinue, nil
}

func (r *listRenderer) renderListItem(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		w.WriteString("<li>")
	} else {
		w.WriteString("</li>")
	}
	return ast.WalkContinue, nil
}

func (r *listRenderer) renderLink(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		w.WriteString("</a>")
		return ast.WalkContinue, nil
	}
	link := n.(*ast.Link)
	w.WriteString(`<a href="`)
	w.Write(util.EscapeHTML(util.URLEscape(link.Destination, true)))
	w.WriteByte('"')
	if cls, ok := link.AttributeString("class"); ok {
		if v, ok := cls.([]byte); ok {
			w.WriteString(` class="`)
			w.Write(util.EscapeHTML(v))
			w.WriteByte('"')
		}
	}
	w.WriteByte('>')
	return ast.WalkContinue, nil
}

func (r *listRenderer) renderString(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		w.Write(util.EscapeHTML(n.(*ast.String).Value))
	}
	return ast.WalkContinue, nil
}

var tocListRenderer = renderer.NewRenderer(
	renderer.WithNodeRenderers(util.Prioritized(&listRenderer{}, 100)),
)

// ListHTML renders a ToC list node to HTML. An empty list renders as an
// empty string.
func ListHTML(n ast.Node) (string, error) {
	var buf bytes.Buffer
	if err := tocListRenderer.Render(&buf, nil, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
