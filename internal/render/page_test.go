package render

import (
	"strings"
	"testing"

	"github.com/dgallion1/docsite/internal/doctree"
	"github.com/dgallion1/docsite/internal/document"
	"github.com/dgallion1/docsite/internal/parser"
	"github.com/dgallion1/docsite/internal/sitetree"
	"github.com/dgallion1/docsite/internal/toc"
)

func markdownSite(t *testing.T, source string) (*sitetree.Site, *toc.PageLocation) {
	t.Helper()
	doc, err := (&parser.MarkdownParser{}).Parse(strings.NewReader(source), "index.md")
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	page := &document.Page{
		Path:     "index.html",
		Title:    doc.Title,
		H1:       doc.H1,
		Headers:  doc.Headers,
		TocMarks: doc.TocMarks,
	}
	site := &sitetree.Site{
		Tree:  page.Tree(),
		Pages: map[string]*document.Page{page.Path: page},
		Docs:  map[string]*parser.Document{page.Path: doc},
	}
	return site, doctree.RootLocation(site.Tree)
}

// pageMain returns the <main> section of a rendered page, so assertions do
// not trip over the nav.
func pageMain(t *testing.T, html string) string {
	t.Helper()
	i := strings.Index(html, "<main>")
	if i < 0 {
		t.Fatalf("expected <main> in rendered page:\n%s", html)
	}
	return html[i:]
}

func TestPageSplicesDirective(t *testing.T) {
	site, loc := markdownSite(t, "# Guide\n\n[toc]\n\n## Install\n\n## Configure\n")
	r := NewPageRenderer(toc.DefaultConfig(), nil)

	html, err := r.Page(site, loc)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	main := pageMain(t, html)
	if strings.Contains(strings.ToLower(main), "[toc]") {
		t.Errorf("expected directive paragraph replaced, body still contains it:\n%s", main)
	}
	if !strings.Contains(main, "#install") || !strings.Contains(main, "#configure") {
		t.Errorf("expected directive list with header targets, got:\n%s", main)
	}
}

func TestPageSplicesUppercaseDirective(t *testing.T) {
	// Directive marks are recorded case-insensitively; splicing must match
	// the emitted paragraph the same way.
	site, loc := markdownSite(t, "# Guide\n\n[TOC]\n\n## Install\n\n## Configure\n")
	r := NewPageRenderer(toc.DefaultConfig(), nil)

	html, err := r.Page(site, loc)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	main := pageMain(t, html)
	if strings.Contains(strings.ToLower(main), "[toc]") {
		t.Errorf("expected uppercase directive paragraph replaced, body still contains it:\n%s", main)
	}
	if !strings.Contains(main, "#install") {
		t.Errorf("expected directive list after uppercase mark, got:\n%s", main)
	}
}

func TestPageHeadersOutlineForHeaderlessBody(t *testing.T) {
	// A directory page without a parsed document falls back to its header
	// outline.
	page := &document.Page{
		Path:  "ref/index.html",
		Base:  "../",
		Title: "Reference",
		H1:    &document.Header{Path: "#reference", Title: "Reference", Level: 1},
		Headers: doctree.Forest[*document.Header]{
			doctree.Leaf(&document.Header{Path: "#api", Title: "API", Level: 2}),
		},
	}
	site := &sitetree.Site{
		Tree:  page.Tree(),
		Pages: map[string]*document.Page{page.Path: page},
		Docs:  map[string]*parser.Document{},
	}
	r := NewPageRenderer(toc.DefaultConfig(), nil)

	html, err := r.Page(site, doctree.RootLocation(site.Tree))
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	main := pageMain(t, html)
	if !strings.Contains(main, "../ref/index.html#api") {
		t.Errorf("expected header outline in body, got:\n%s", main)
	}
}
