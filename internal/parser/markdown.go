package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/docsite/internal/document"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

var tocMarker = []byte("[toc]")

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(gparser.WithAutoHeadingID()),
	)
	reader := text.NewReader(src)
	root := md.Parser().Parse(reader)

	doc := &Document{
		Format: "markdown",
		Title:  strings.TrimSuffix(strings.TrimSuffix(filename, ".md"), ".markdown"),
		Source: src,
	}

	var stack headerStack
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			stack.push(&document.Header{
				Path:       "#" + headingID(node, src),
				Title:      string(node.Text(src)),
				Level:      node.Level,
				StartIndex: nodeStart(node),
			})
		case *ast.Paragraph:
			if isTocMark(node, src) {
				doc.TocMarks = append(doc.TocMarks, nodeStart(node))
			}
		}
	}
	stack.finish(doc)

	return doc, nil
}

// headingID returns the auto-generated heading id, falling back to a slug
// of the title text.
func headingID(n *ast.Heading, src []byte) string {
	if v, ok := n.AttributeString("id"); ok {
		if id, ok := v.([]byte); ok {
			return string(id)
		}
	}
	return document.Slugify(string(n.Text(src)))
}

// isTocMark reports whether a paragraph is exactly a [toc] directive.
func isTocMark(n *ast.Paragraph, src []byte) bool {
	if n.Lines().Len() != 1 {
		return false
	}
	line := n.Lines().At(0)
	return bytes.EqualFold(bytes.TrimSpace(line.Value(src)), tocMarker)
}

// nodeStart returns the byte offset of a block node's first line.
func nodeStart(n ast.Node) int {
	if n.Lines().Len() == 0 {
		return 0
	}
	return n.Lines().At(0).Start
}
