package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docsite/internal/build"
	"github.com/dgallion1/docsite/internal/config"
	"github.com/dgallion1/docsite/internal/render"
)

const testAPIKey = "test-key"

func testServer(t *testing.T, sourceDir string) (*Server, *build.Orchestrator) {
	t.Helper()
	cfg := config.Config{
		SourceDir:           sourceDir,
		OutputDir:           t.TempDir(),
		DocsiteAPIKey:       testAPIKey,
		WorkerCount:         1,
		MaxQueueSize:        4,
		MaxConcurrentRender: 2,
		JobTTL:              time.Hour,
		TocIncludePages:     true,
		TocIncludeHeaders:   true,
		TocOrdered:          true,
		TocMaxDepth:         6,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer := render.NewPageRenderer(cfg.TocConfig(), render.NewStats(time.Hour))
	orch := build.NewOrchestrator(cfg, renderer, nil, log)

	ctx, cancel := context.WithCancel(context.Background())
	orch.Start(ctx)
	t.Cleanup(func() {
		cancel()
		orch.Stop()
	})

	return NewServer(orch, log, cfg), orch
}

func buildTestSite(t *testing.T, orch *build.Orchestrator) string {
	t.Helper()
	job, err := orch.SubmitBuild(false)
	if err != nil {
		t.Fatalf("submit build: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		switch job.Snapshot().Status {
		case build.StatusCompleted:
			return job.ID
		case build.StatusFailed, build.StatusPartial:
			t.Fatalf("build finished %s: %v", job.Snapshot().Status, job.Snapshot().Progress.Errors)
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("build did not finish in time")
	return ""
}

func authedGet(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func sourceFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.md":       "# Home\n\n## Welcome\n",
		"guide/index.md": "# Guide\n\n[toc]\n\n## Install\n\n## Configure\n",
		"guide/faq.md":   "# FAQ\n\n## Why\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestHealthIsPublic(t *testing.T) {
	srv, _ := testServer(t, t.TempDir())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	srv, _ := testServer(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/nav?page=index.html", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected JSON error response, got content type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Errorf("expected error field in body, got %q", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/nav?page=index.html", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid api key") {
		t.Errorf("expected invalid-key error, got %q", rec.Body.String())
	}
}

func TestNavBeforeFirstBuild(t *testing.T) {
	srv, _ := testServer(t, t.TempDir())
	rec := authedGet(t, srv, "/api/nav?page=index.html")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before first build, got %d", rec.Code)
	}
}

func TestBuildAndQueryEndpoints(t *testing.T) {
	srv, orch := testServer(t, sourceFixture(t))
	jobID := buildTestSite(t, orch)

	rec := authedGet(t, srv, "/api/build/"+jobID+"/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status endpoint: expected 200, got %d", rec.Code)
	}
	var status struct {
		Status   string `json:"status"`
		Progress struct {
			TotalPages    int `json:"total_pages"`
			PagesRendered int `json:"pages_rendered"`
		} `json:"progress"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Status != "completed" || status.Progress.PagesRendered != 3 {
		t.Errorf("unexpected status %+v", status)
	}

	rec = authedGet(t, srv, "/api/nav?page=guide/faq.html")
	if rec.Code != http.StatusOK {
		t.Fatalf("nav: expected 200, got %d", rec.Code)
	}
	var nav struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &nav); err != nil {
		t.Fatalf("decode nav: %v", err)
	}
	if !strings.Contains(nav.HTML, "<ol>") {
		t.Errorf("expected ordered nav list, got %q", nav.HTML)
	}
	if !strings.Contains(nav.HTML, `class="active"`) {
		t.Errorf("expected active marker in nav, got %q", nav.HTML)
	}

	rec = authedGet(t, srv, "/api/toc?page=guide/index.html")
	if rec.Code != http.StatusOK {
		t.Fatalf("toc: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "#install") {
		t.Errorf("expected #install in toc, got %q", rec.Body.String())
	}

	rec = authedGet(t, srv, "/api/headers?page=guide/index.html")
	if rec.Code != http.StatusOK {
		t.Fatalf("headers: expected 200, got %d", rec.Code)
	}

	rec = authedGet(t, srv, "/api/pages/guide/faq.html")
	if rec.Code != http.StatusOK {
		t.Fatalf("pages: expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected text/html, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<nav>") {
		t.Error("expected nav in rendered page")
	}

	rec = authedGet(t, srv, "/api/nav?page=missing.html")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown page, got %d", rec.Code)
	}

	rec = authedGet(t, srv, "/api/toc?page=guide/index.html&offset=nope")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad offset, got %d", rec.Code)
	}

	rec = authedGet(t, srv, "/api/stats/render")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"count"`) {
		t.Errorf("expected stats snapshot, got %q", rec.Body.String())
	}
}
