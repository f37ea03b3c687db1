package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docsite/internal/doctree"
	"github.com/dgallion1/docsite/internal/document"
)

// Document is the parsed form of a single source file: its title, header
// forest, and any in-document ToC directive marks.
type Document struct {
	Format   string // "markdown", "html", "text", "pdf", "docx"
	Title    string
	H1       *document.Header
	Headers  doctree.Forest[*document.Header]
	TocMarks []int  // byte offsets of [toc] directive paragraphs
	Source   []byte // raw source for body rendering, nil for binary formats
}

// Parser converts raw document bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: true}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// headerStack nests flat (level, header) sequences into a forest. All
// parsers share it: pop until the top has a lower level, then attach.
type headerStack struct {
	forest doctree.Forest[*document.Header]
	stack  []*doctree.Tree[*document.Header]
}

func (s *headerStack) push(h *document.Header) {
	tree := doctree.Leaf(h)
	for len(s.stack) > 0 && s.stack[len(s.stack)-1].Label.Level >= h.Level {
		s.stack = s.stack[:len(s.stack)-1]
	}
	if len(s.stack) == 0 {
		s.forest = append(s.forest, tree)
	} else {
		parent := s.stack[len(s.stack)-1]
		parent.Children = append(parent.Children, tree)
	}
	s.stack = append(s.stack, tree)
}

// finish extracts the built forest. A single leading h1 becomes the
// document's own header, with its sub-headers promoted to the top level.
func (s *headerStack) finish(doc *Document) {
	if len(s.forest) == 1 && s.forest[0].Label.Level == 1 {
		doc.H1 = s.forest[0].Label
		doc.Title = doc.H1.Title
		doc.Headers = s.forest[0].Children
		return
	}
	doc.Headers = s.forest
}
