package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if path == "" {
		jsonError(w, "page path is required", http.StatusBadRequest)
		return
	}
	site := s.orchestrator.Site()
	if site == nil {
		jsonError(w, "site not built yet", http.StatusServiceUnavailable)
		return
	}
	loc := site.Locate(path)
	if loc == nil {
		jsonError(w, "page not found: "+path, http.StatusNotFound)
		return
	}

	html, err := s.orchestrator.Renderer().Page(site, loc)
	if err != nil {
		s.log.Error("page render failed", "page", path, "error", err)
		jsonError(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}
