package build

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docsite/internal/config"
	"github.com/dgallion1/docsite/internal/publish"
	"github.com/dgallion1/docsite/internal/render"
	"github.com/dgallion1/docsite/internal/sitetree"
)

// Orchestrator manages the site build pipeline and holds the most recently
// built site tree for the API to serve from.
type Orchestrator struct {
	jobs      *JobStore
	queue     chan *Job
	renderer  *render.PageRenderer
	publisher *publish.Client
	log       *slog.Logger
	cfg       config.Config

	siteMu sync.RWMutex
	site   *sitetree.Site

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline.
func NewOrchestrator(cfg config.Config, renderer *render.PageRenderer, publisher *publish.Client, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:      NewJobStore(cfg.JobTTL),
		queue:     make(chan *Job, cfg.MaxQueueSize),
		renderer:  renderer,
		publisher: publisher,
		log:       log,
		cfg:       cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.renderer, o.publisher, o.log, o.cfg.MaxConcurrentRender, o.setSite)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new build job.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// SubmitBuild creates and queues a build of the configured source tree.
func (o *Orchestrator) SubmitBuild(publishSite bool) (*Job, error) {
	now := time.Now()
	job := &Job{
		ID:        NewJobID(o.cfg.SourceDir, now),
		Status:    StatusQueued,
		Phase:     "queued",
		SourceDir: o.cfg.SourceDir,
		OutputDir: o.cfg.OutputDir,
		Publish:   publishSite && o.publisher != nil,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := o.Submit(job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Site returns the most recently built site tree, or nil before the first
// successful build.
func (o *Orchestrator) Site() *sitetree.Site {
	o.siteMu.RLock()
	defer o.siteMu.RUnlock()
	return o.site
}

func (o *Orchestrator) setSite(site *sitetree.Site) {
	o.siteMu.Lock()
	defer o.siteMu.Unlock()
	o.site = site
}

// Renderer returns the page renderer for direct use by API handlers.
func (o *Orchestrator) Renderer() *render.PageRenderer {
	return o.renderer
}
