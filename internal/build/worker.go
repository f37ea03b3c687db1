package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/docsite/internal/doctree"
	"github.com/dgallion1/docsite/internal/publish"
	"github.com/dgallion1/docsite/internal/render"
	"github.com/dgallion1/docsite/internal/sitetree"
	"github.com/dgallion1/docsite/internal/toc"
)

// Worker processes a single site build job.
type Worker struct {
	renderer  *render.PageRenderer
	publisher *publish.Client
	log       *slog.Logger

	maxConcurrentRender int

	// onBuilt receives the freshly built site tree once scanning succeeds.
	onBuilt func(*sitetree.Site)
}

func NewWorker(renderer *render.PageRenderer, publisher *publish.Client, log *slog.Logger, maxRender int, onBuilt func(*sitetree.Site)) *Worker {
	if maxRender < 1 {
		maxRender = 1
	}
	return &Worker{
		renderer:            renderer,
		publisher:           publisher,
		log:                 log,
		maxConcurrentRender: maxRender,
		onBuilt:             onBuilt,
	}
}

// Process runs the full build pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "source_dir", job.SourceDir)

	// Phase 1: Scan and parse the source tree.
	job.SetStatus(StatusScanning, "scanning source tree")
	site, err := sitetree.Build(job.SourceDir)
	if err != nil {
		log.Error("scan failed", "error", err)
		job.AddError(fmt.Sprintf("scan: %s", err))
		job.SetStatus(StatusFailed, "scanning")
		return
	}

	var locs []*toc.PageLocation
	for loc := doctree.RootLocation(site.Tree); loc != nil; loc = loc.Next() {
		locs = append(locs, loc)
	}
	job.SetTotalPages(len(locs))
	log.Info("scanned source tree", "pages", len(locs))

	if len(locs) == 0 {
		job.AddError("no pages found")
		job.SetStatus(StatusFailed, "scanning")
		return
	}

	problems := site.CheckLinks()
	job.SetLinkProblems(len(problems))
	for _, p := range problems {
		log.Warn("unresolved link target", "page", p.Page, "target", p.Target, "reason", p.Reason)
	}

	if w.onBuilt != nil {
		w.onBuilt(site)
	}

	// Phase 2: Render pages with bounded concurrency.
	job.SetStatus(StatusRendering, "rendering pages")
	type renderResult struct {
		path string
		html string
		err  error
	}
	results := make(chan renderResult, len(locs))
	sem := make(chan struct{}, w.maxConcurrentRender)

	for _, loc := range locs {
		sem <- struct{}{}
		go func(loc *toc.PageLocation) {
			defer func() { <-sem }()
			page := loc.Tree().Label
			html, err := w.renderer.Page(site, loc)
			results <- renderResult{path: page.Path, html: html, err: err}
		}(loc)
	}

	rendered := make(map[string]string, len(locs))
	hadErrors := false
	for range locs {
		r := <-results
		if r.err != nil {
			log.Error("render failed", "page", r.path, "error", r.err)
			job.AddError(fmt.Sprintf("render %s: %s", r.path, r.err))
			hadErrors = true
			continue
		}
		rendered[r.path] = r.html
		job.IncrPagesRendered()
	}
	log.Info("rendering complete", "rendered", len(rendered), "errors", hadErrors)

	if len(rendered) == 0 {
		job.SetStatus(StatusFailed, "rendering")
		return
	}

	// Phase 3: Write output files.
	job.SetStatus(StatusWriting, "writing output")
	for path, html := range rendered {
		outPath := filepath.Join(job.OutputDir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			log.Error("mkdir failed", "page", path, "error", err)
			job.AddError(fmt.Sprintf("write %s: %s", path, err))
			hadErrors = true
			continue
		}
		if err := os.WriteFile(outPath, []byte(html), 0o644); err != nil {
			log.Error("write failed", "page", path, "error", err)
			job.AddError(fmt.Sprintf("write %s: %s", path, err))
			hadErrors = true
		}
	}

	// Phase 4: Publish to the static host.
	if job.Publish && w.publisher != nil {
		job.SetStatus(StatusPublishing, "publishing")
		if w.publishAll(ctx, job, rendered, log) {
			hadErrors = true
		}
	}

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// publishAll uploads every rendered page, retrying transient failures.
// It reports whether any upload ultimately failed.
func (w *Worker) publishAll(ctx context.Context, job *Job, rendered map[string]string, log *slog.Logger) bool {
	type publishResult struct {
		path string
		err  error
	}
	results := make(chan publishResult, len(rendered))
	sem := make(chan struct{}, w.maxConcurrentRender)

	for path, html := range rendered {
		sem <- struct{}{}
		go func(path, html string) {
			defer func() { <-sem }()
			var lastErr error
			for attempt := 0; attempt < publish.MaxRetries; attempt++ {
				lastErr = w.publisher.PutFile(ctx, path, []byte(html), "text/html; charset=utf-8")
				if lastErr == nil || !publish.IsRetryable(lastErr) {
					break
				}
				log.Warn("retryable publish error", "page", path, "attempt", attempt, "error", lastErr)
				select {
				case <-time.After(publish.Backoff(attempt)):
				case <-ctx.Done():
					results <- publishResult{path: path, err: ctx.Err()}
					return
				}
			}
			results <- publishResult{path: path, err: lastErr}
		}(path, html)
	}

	failed := false
	for range rendered {
		r := <-results
		if r.err != nil {
			log.Error("publish failed", "page", r.path, "error", r.err)
			job.AddError(fmt.Sprintf("publish %s: %s", r.path, r.err))
			failed = true
			continue
		}
		job.IncrPagesPublished()
	}
	log.Info("publishing complete", "published", job.Snapshot().Progress.PagesPublished, "failed", failed)
	return failed
}
