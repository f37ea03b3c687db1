package render

import (
	"testing"

	"github.com/yuin/goldmark/ast"
)

func testList(ordered bool, items ...ast.Node) *ast.List {
	marker := byte('-')
	if ordered {
		marker = '.'
	}
	list := ast.NewList(marker)
	if ordered {
		list.Start = 1
	}
	list.IsTight = true
	for _, item := range items {
		li := ast.NewListItem(0)
		li.AppendChild(li, item)
		list.AppendChild(list, li)
	}
	return list
}

func testLink(dest, label string, active bool) *ast.Link {
	link := ast.NewLink()
	link.Destination = []byte(dest)
	if active {
		link.SetAttributeString("class", []byte("active"))
	}
	link.AppendChild(link, ast.NewString([]byte(label)))
	return link
}

func TestListHTMLUnordered(t *testing.T) {
	list := testList(false,
		testLink("a.html", "Alpha", false),
		testLink("b.html", "Beta", false),
	)
	got, err := ListHTML(list)
	if err != nil {
		t.Fatalf("ListHTML: %v", err)
	}
	want := `<ul><li><a href="a.html">Alpha</a></li><li><a href="b.html">Beta</a></li></ul>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestListHTMLOrdered(t *testing.T) {
	list := testList(true, testLink("a.html", "Alpha", false))
	got, err := ListHTML(list)
	if err != nil {
		t.Fatalf("ListHTML: %v", err)
	}
	want := `<ol><li><a href="a.html">Alpha</a></li></ol>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestListHTMLActiveClass(t *testing.T) {
	list := testList(false, testLink("here.html", "Here", true))
	got, err := ListHTML(list)
	if err != nil {
		t.Fatalf("ListHTML: %v", err)
	}
	want := `<ul><li><a href="here.html" class="active">Here</a></li></ul>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestListHTMLEmptyListRendersNothing(t *testing.T) {
	got, err := ListHTML(testList(false))
	if err != nil {
		t.Fatalf("ListHTML: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty output for empty list, got %q", got)
	}
}

func TestListHTMLEscapesLabelAndHref(t *testing.T) {
	list := testList(false, testLink("a&b.html", "Tips <& Tricks>", false))
	got, err := ListHTML(list)
	if err != nil {
		t.Fatalf("ListHTML: %v", err)
	}
	want := `<ul><li><a href="a&amp;b.html">Tips &lt;&amp; Tricks&gt;</a></li></ul>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
