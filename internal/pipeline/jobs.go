// Package pipeline runs asynchronous validation jobs for the HTTP API over
// a bounded worker pool with an in-memory, TTL-evicted job registry.
package pipeline

import (
	"sync"
	"time"

	"github.com/jjn00189/DocuRuleFix/internal/processor"
)

// JobStatus represents the state of a validation job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks one batch validation request.
type Job struct {
	mu sync.Mutex

	ID      string            `json:"job_id"`
	Status  JobStatus         `json:"status"`
	Paths   []string          `json:"paths"`
	Options processor.Options `json:"options"`

	Results []processor.ProcessResult `json:"results,omitempty"`
	Summary processor.BatchSummary    `json:"summary"`
	Error   string                    `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Uploaded file cleaned up after processing, if any.
	tempPath string
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// SetOutcome records the batch results and final status.
func (j *Job) SetOutcome(results []processor.ProcessResult, summary processor.BatchSummary) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Results = results
	j.Summary = summary
	j.Status = StatusCompleted
	j.UpdatedAt = time.Now()
}

// Fail marks the job failed with a reason.
func (j *Job) Fail(reason string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Error = reason
	j.UpdatedAt = time.Now()
}

// SetTempPath records an uploaded temp file to remove after processing.
func (j *Job) SetTempPath(p string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.tempPath = p
}

// TempPath returns the uploaded temp file path, if any.
func (j *Job) TempPath() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.tempPath
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string                    `json:"job_id"`
	Status    JobStatus                 `json:"status"`
	Paths     []string                  `json:"paths"`
	Results   []processor.ProcessResult `json:"results,omitempty"`
	Summary   processor.BatchSummary    `json:"summary"`
	Error     string                    `json:"error,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	results := make([]processor.ProcessResult, len(j.Results))
	copy(results, j.Results)
	return JobSnapshot{
		ID:        j.ID,
		Status:    j.Status,
		Paths:     j.Paths,
		Results:   results,
		Summary:   j.Summary,
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
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
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
