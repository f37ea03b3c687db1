package toc

import (
	"github.com/dgallion1/docsite/internal/doctree"
	"github.com/dgallion1/docsite/internal/document"
)

// HeadersAfter scans forward in pre-order from loc (typically the first
// header of a page) for the first header whose StartIndex exceeds
// bufferOffset. It returns that header's depth and the forest of its tree
// plus all remaining right siblings at that level, so a "ToC from here"
// directive continues with a contiguous suffix of the document's header
// sequence. Returns (0, nil) when the chain is exhausted.
func HeadersAfter(loc *doctree.Location[*document.Header], bufferOffset int) (int, doctree.Forest[*document.Header]) {
	for ; loc != nil; loc = loc.Next() {
		if loc.Tree().Label.StartIndex > bufferOffset {
			rights := loc.Rights()
			forest := make(doctree.Forest[*document.Header], 0, len(rights)+1)
			forest = append(forest, loc.Tree())
			forest = append(forest, rights...)
			return loc.Depth(), forest
		}
	}
	return 0, nil
}
