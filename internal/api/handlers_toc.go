package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dgallion1/docsite/internal/render"
	"github.com/dgallion1/docsite/internal/toc"
)

// locatePage resolves the ?page= query parameter against the current site
// tree, writing the error response itself when resolution fails.
func (s *Server) locatePage(w http.ResponseWriter, r *http.Request) *toc.PageLocation {
	page := r.URL.Query().Get("page")
	if page == "" {
		jsonError(w, "page is required", http.StatusBadRequest)
		return nil
	}
	site := s.orchestrator.Site()
	if site == nil {
		jsonError(w, "site not built yet", http.StatusServiceUnavailable)
		return nil
	}
	loc := site.Locate(page)
	if loc == nil {
		jsonError(w, "page not found: "+page, http.StatusNotFound)
		return nil
	}
	return loc
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	loc := s.locatePage(w, r)
	if loc == nil {
		return
	}
	html, err := render.ListHTML(s.orchestrator.Renderer().Builder().RenderRoot(loc))
	s.writeList(w, r, html, err)
}

func (s *Server) handleToc(w http.ResponseWriter, r *http.Request) {
	loc := s.locatePage(w, r)
	if loc == nil {
		return
	}

	builder := s.orchestrator.Renderer().Builder()
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			jsonError(w, "offset must be a non-negative integer", http.StatusBadRequest)
			return
		}
		html, err := render.ListHTML(builder.RenderDirective(loc, offset))
		s.writeList(w, r, html, err)
		return
	}
	html, err := render.ListHTML(builder.RenderPage(loc))
	s.writeList(w, r, html, err)
}

func (s *Server) handleHeaders(w http.ResponseWriter, r *http.Request) {
	loc := s.locatePage(w, r)
	if loc == nil {
		return
	}
	html, err := render.ListHTML(s.orchestrator.Renderer().Builder().RenderHeadersOnly(loc))
	s.writeList(w, r, html, err)
}

func (s *Server) writeList(w http.ResponseWriter, r *http.Request, html string, err error) {
	if err != nil {
		s.log.Error("list render failed", "path", r.URL.Path, "error", err)
		jsonError(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"page": r.URL.Query().Get("page"),
		"html": html,
	})
}
