package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gparser "github.com/yuin/goldmark/parser"

	"github.com/dgallion1/docsite/internal/parser"
	"github.com/dgallion1/docsite/internal/sitetree"
	"github.com/dgallion1/docsite/internal/toc"
)

// tocPlaceholder is what goldmark emits for a [toc] directive paragraph.
// Directive marks are recorded case-insensitively, so splicing matches the
// placeholder case-insensitively too.
const tocPlaceholder = "<p>[toc]</p>"

// spliceToc replaces the first [toc] placeholder paragraph, in any case
// form, with the rendered directive list.
func spliceToc(body, insert string) string {
	for i := 0; i+len(tocPlaceholder) <= len(body); i++ {
		if strings.EqualFold(body[i:i+len(tocPlaceholder)], tocPlaceholder) {
			return body[:i] + insert + body[i+len(tocPlaceholder):]
		}
	}
	return body
}

// PageRenderer renders complete HTML pages: site navigation, the converted
// body with ToC directives spliced in, and a page-local ToC.
type PageRenderer struct {
	builder *toc.Builder
	md      goldmark.Markdown
	stats   *Stats
}

func NewPageRenderer(cfg toc.Config, stats *Stats) *PageRenderer {
	return &PageRenderer{
		builder: toc.NewBuilder(cfg),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(gparser.WithAutoHeadingID()),
		),
		stats: stats,
	}
}

// Builder exposes the underlying ToC builder for nav/toc-only endpoints.
func (r *PageRenderer) Builder() *toc.Builder { return r.builder }

// Stats exposes the latency tracker, or nil when stats are disabled.
func (r *PageRenderer) Stats() *Stats { return r.stats }

// Page renders the page at loc into a standalone HTML document.
func (r *PageRenderer) Page(site *sitetree.Site, loc *toc.PageLocation) (string, error) {
	start := time.Now()

	page := loc.Tree().Label
	doc := site.Docs[page.Path]

	nav, err := ListHTML(r.builder.RenderRoot(loc))
	if err != nil {
		return "", fmt.Errorf("render nav: %w", err)
	}

	body, err := r.body(doc, loc)
	if err != nil {
		return "", fmt.Errorf("render body for %s: %w", page.Path, err)
	}

	var sb strings.Builder
	sb.WriteString("<!doctype html>\n<html>\n<head><meta charset=\"utf-8\"><title>")
	sb.WriteString(html.EscapeString(page.Title))
	sb.WriteString("</title></head>\n<body>\n<nav>")
	sb.WriteString(nav)
	sb.WriteString("</nav>\n<main>")
	sb.WriteString(body)
	sb.WriteString("</main>\n</body>\n</html>\n")

	if r.stats != nil {
		r.stats.Record(time.Since(start).Milliseconds())
	}
	return sb.String(), nil
}

// body converts the page source to HTML and replaces each [toc] paragraph
// with the directive ToC for its recorded source offset.
func (r *PageRenderer) body(doc *parser.Document, loc *toc.PageLocation) (string, error) {
	switch {
	case doc == nil:
		// Directory without an index document: show its header outline.
		return ListHTML(r.builder.RenderHeadersOnly(loc))

	case doc.Format == "markdown":
		var buf bytes.Buffer
		if err := r.md.Convert(doc.Source, &buf); err != nil {
			return "", err
		}
		body := buf.String()
		for _, offset := range doc.TocMarks {
			insert, err := ListHTML(r.builder.RenderDirective(loc, offset))
			if err != nil {
				return "", err
			}
			body = spliceToc(body, insert)
		}
		return body, nil

	case doc.Format == "text":
		return "<pre>" + html.EscapeString(string(doc.Source)) + "</pre>", nil

	default:
		// Binary formats carry no renderable body; show the outline.
		return ListHTML(r.builder.RenderHeadersOnly(loc))
	}
}
