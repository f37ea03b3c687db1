package sitetree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/docsite/internal/doctree"
	"github.com/dgallion1/docsite/internal/document"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func buildFixtureSite(t *testing.T) *Site {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "index.md", "# Home\n\n## Welcome\n")
	writeFile(t, dir, "about.md", "# About\n")
	writeFile(t, dir, "guide/index.md", "# Guide\n\n[toc]\n\n## Setup\n\n### Linux\n")
	writeFile(t, dir, "guide/install.md", "# Install\n")
	writeFile(t, dir, "_drafts/wip.md", "# WIP\n")
	writeFile(t, dir, "notes.csv", "a,b\n")

	site, err := Build(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return site
}

func TestBuildTreeShape(t *testing.T) {
	site := buildFixtureSite(t)

	root := site.Tree.Label
	if root.Path != "index.html" {
		t.Errorf("expected root path index.html, got %q", root.Path)
	}
	if root.Title != "Home" {
		t.Errorf("expected root title from index h1, got %q", root.Title)
	}
	if root.Base != "" {
		t.Errorf("expected empty base at root, got %q", root.Base)
	}

	if len(site.Tree.Children) != 2 {
		t.Fatalf("expected children [about, guide], got %d", len(site.Tree.Children))
	}
	about := site.Tree.Children[0].Label
	if about.Path != "about.html" {
		t.Errorf("expected about.html, got %q", about.Path)
	}
	guide := site.Tree.Children[1].Label
	if guide.Path != "guide/index.html" {
		t.Errorf("expected guide/index.html, got %q", guide.Path)
	}
	if guide.Base != "../" {
		t.Errorf("expected base ../ one level down, got %q", guide.Base)
	}
	if len(guide.TocMarks) != 1 {
		t.Errorf("expected one toc mark in guide index, got %d", len(guide.TocMarks))
	}

	// Underscored directories and unsupported files are skipped.
	for path := range site.Pages {
		if path == "_drafts/wip.html" || path == "notes.html" {
			t.Errorf("unexpected page %q", path)
		}
	}

	// tree.Children mirrors page.Children at every node.
	var verify func(tree *doctree.Tree[*document.Page])
	verify = func(tree *doctree.Tree[*document.Page]) {
		if len(tree.Children) != len(tree.Label.Children) {
			t.Errorf("page %s: tree/label children mismatch", tree.Label.Path)
		}
		for _, c := range tree.Children {
			verify(c)
		}
	}
	verify(site.Tree)
}

func TestLocate(t *testing.T) {
	site := buildFixtureSite(t)

	loc := site.Locate("guide/install.html")
	if loc == nil {
		t.Fatal("expected to locate guide/install.html")
	}
	if loc.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", loc.Depth())
	}
	if loc.Parent().Tree().Label.Path != "guide/index.html" {
		t.Errorf("expected parent guide/index.html, got %q", loc.Parent().Tree().Label.Path)
	}

	if site.Locate("missing.html") != nil {
		t.Error("expected nil for unknown path")
	}
}

func TestCheckLinksCleanSite(t *testing.T) {
	site := buildFixtureSite(t)
	if problems := site.CheckLinks(); len(problems) != 0 {
		t.Errorf("expected no problems, got %v", problems)
	}
}

func TestCheckLinksDetectsDuplicates(t *testing.T) {
	dup := &document.Header{Path: "#setup", Title: "Setup", Level: 2}
	page := &document.Page{
		Path: "index.html",
		Headers: doctree.Forest[*document.Header]{
			doctree.Leaf(dup),
			doctree.Leaf(&document.Header{Path: "#setup", Title: "Setup Again", Level: 2}),
			doctree.Leaf(&document.Header{Path: "", Title: "Broken", Level: 2}),
		},
	}
	site := &Site{Tree: page.Tree()}

	problems := site.CheckLinks()
	if len(problems) != 2 {
		t.Fatalf("expected 2 problems (duplicate + empty), got %d: %v", len(problems), problems)
	}
}
