package parser

import (
	"io"
	"strings"
)

// TextParser handles plain text files. Plain text has no heading structure,
// so the page contributes a title and body but no ToC entries.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &Document{
		Format: "text",
		Title:  strings.TrimSuffix(filename, ".txt"),
		Source: src,
	}, nil
}
