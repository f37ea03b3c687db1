package build

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a site build job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusScanning   JobStatus = "scanning"
	StatusRendering  JobStatus = "rendering"
	StatusWriting    JobStatus = "writing"
	StatusPublishing JobStatus = "publishing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// Job tracks the state of a single site build.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	SourceDir string `json:"source_dir"`
	OutputDir string `json:"output_dir"`
	Publish   bool   `json:"publish"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	errors []string
}

// Progress tracks build progress.
type Progress struct {
	TotalPages     int      `json:"total_pages"`
	PagesRendered  int      `json:"pages_rendered"`
	PagesPublished int      `json:"pages_published"`
	LinkProblems   int      `json:"link_problems"`
	Errors         []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalPages records the number of pages found during scanning.
func (j *Job) SetTotalPages(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalPages = n
	j.UpdatedAt = time.Now()
}

// IncrPagesRendered atomically increments the rendered page count.
func (j *Job) IncrPagesRendered() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.PagesRendered++
	j.UpdatedAt = time.Now()
}

// IncrPagesPublished atomically increments the published page count.
func (j *Job) IncrPagesPublished() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.PagesPublished++
	j.UpdatedAt = time.Now()
}

// SetLinkProblems records the number of unresolved ToC link targets.
func (j *Job) SetLinkProblems(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.LinkProblems = n
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	SourceDir string    `json:"source_dir"`
	OutputDir string    `json:"output_dir"`
	Publish   bool      `json:"publish"`
	Progress  Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:        j.ID,
		Status:    j.Status,
		Phase:     j.Phase,
		SourceDir: j.SourceDir,
		OutputDir: j.OutputDir,
		Publish:   j.Publish,
		Progress: Progress{
			TotalPages:     j.Progress.TotalPages,
			PagesRendered:  j.Progress.PagesRendered,
			PagesPublished: j.Progress.PagesPublished,
			LinkProblems:   j.Progress.LinkProblems,
			Errors:         errs,
		},
	}
}

// NewJobID derives a job ID from the source directory and submit time.
func NewJobID(sourceDir string, at time.Time) string {
	h := sha256.Sum256(fmt.Appendf(nil, "%s|%d", sourceDir, at.UnixNano()))
	return fmt.Sprintf("%x", h[:8])
}
