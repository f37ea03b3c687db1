package sitetree

import (
	"fmt"

	"github.com/dgallion1/docsite/internal/doctree"
	"github.com/dgallion1/docsite/internal/document"
)

// Problem describes a ToC target that would not resolve uniquely in the
// rendered site.
type Problem struct {
	Page   string `json:"page"`
	Target string `json:"target"`
	Reason string `json:"reason"`
}

// CheckLinks validates every target the ToC builder can produce against
// the tree: page paths must be unique across the site, and header
// fragments must be non-empty and unique within their page. The active
// node and auto-expand checks compare paths structurally, so duplicates
// would silently mark the wrong entries.
func (s *Site) CheckLinks() []Problem {
	var problems []Problem

	seen := make(map[string]string)
	for loc := doctree.RootLocation(s.Tree); loc != nil; loc = loc.Next() {
		page := loc.Tree().Label
		if prev, ok := seen[page.Path]; ok {
			problems = append(problems, Problem{
				Page:   page.Path,
				Target: page.Path,
				Reason: fmt.Sprintf("duplicate page path (first used by %q)", prev),
			})
		}
		seen[page.Path] = page.Title

		problems = append(problems, checkFragments(page)...)
	}
	return problems
}

func checkFragments(page *document.Page) []Problem {
	var problems []Problem
	fragments := make(map[string]bool)
	if page.H1 != nil {
		fragments[page.H1.Path] = true
	}

	for loc := doctree.ForestLocation(page.Headers, 0); loc != nil; loc = loc.Next() {
		header := loc.Tree().Label
		if header.Path == "" || header.Path == "#" {
			problems = append(problems, Problem{
				Page:   page.Path,
				Target: header.Path,
				Reason: fmt.Sprintf("empty fragment for header %q", header.Title),
			})
			continue
		}
		if fragments[header.Path] {
			problems = append(problems, Problem{
				Page:   page.Path,
				Target: header.Path,
				Reason: "duplicate fragment within page",
			})
		}
		fragments[header.Path] = true
	}
	return problems
}
