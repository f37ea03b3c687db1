package sitetree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/docsite/internal/doctree"
	"github.com/dgallion1/docsite/internal/document"
	"github.com/dgallion1/docsite/internal/parser"
)

// Site is an immutable page tree built from a source directory, plus the
// parsed documents needed to render page bodies.
type Site struct {
	Tree  *doctree.Tree[*document.Page]
	Pages map[string]*document.Page  // by site-root-relative output path
	Docs  map[string]*parser.Document // parsed source per output path
}

// Build walks sourceDir and constructs the site tree. Each supported file
// becomes a page; each subdirectory becomes a branch page rooted at its
// index document. Ordering is lexicographic with the index first.
func Build(sourceDir string) (*Site, error) {
	site := &Site{
		Pages: make(map[string]*document.Page),
		Docs:  make(map[string]*parser.Document),
	}
	root, err := site.buildDir(sourceDir, "", 0)
	if err != nil {
		return nil, err
	}
	site.Tree = root.Tree()
	return site, nil
}

// buildDir builds the page for one directory: its index document plus leaf
// pages and subdirectory branches as children.
func (s *Site) buildDir(dir, rel string, depth int) (*document.Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	page := &document.Page{
		Base:  strings.Repeat("../", depth),
		Path:  outputPath(rel, "index.html"),
		Title: dirTitle(dir),
	}

	var children doctree.Forest[*document.Page]
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}

		if entry.IsDir() {
			child, err := s.buildDir(filepath.Join(dir, name), joinRel(rel, name), depth+1)
			if err != nil {
				return nil, err
			}
			children = append(children, child.Tree())
			continue
		}
		if !parser.IsSupportedExtension(name) {
			continue
		}

		doc, err := s.parseFile(filepath.Join(dir, name), name)
		if err != nil {
			return nil, err
		}

		if isIndex(name) {
			// The directory's own document.
			page.Title = doc.Title
			page.H1 = doc.H1
			page.Headers = doc.Headers
			page.TocMarks = doc.TocMarks
			s.Docs[page.Path] = doc
			continue
		}

		child := &document.Page{
			Base:     strings.Repeat("../", depth),
			Path:     outputPath(rel, htmlName(name)),
			Title:    doc.Title,
			H1:       doc.H1,
			Headers:  doc.Headers,
			TocMarks: doc.TocMarks,
		}
		s.Docs[child.Path] = doc
		s.Pages[child.Path] = child
		children = append(children, child.Tree())
	}

	page.Children = children
	s.Pages[page.Path] = page
	return page, nil
}

func (s *Site) parseFile(path, name string) (*parser.Document, error) {
	p, err := parser.ForFile(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := p.Parse(f, name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Locate returns the location of the page with the given output path, or
// nil if the site has no such page.
func (s *Site) Locate(path string) *doctree.Location[*document.Page] {
	for loc := doctree.RootLocation(s.Tree); loc != nil; loc = loc.Next() {
		if loc.Tree().Label.Path == path {
			return loc
		}
	}
	return nil
}

func isIndex(name string) bool {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.EqualFold(base, "index") || base == "README"
}

func htmlName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".html"
}

func outputPath(rel, file string) string {
	if rel == "" {
		return file
	}
	return rel + "/" + file
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "/" + name
}

func dirTitle(dir string) string {
	name := filepath.Base(filepath.Clean(dir))
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
