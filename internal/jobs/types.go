// Package jobs defines the background-job contracts: publishing, consuming
// and status tracking. The only job type today is the CSV export.
package jobs

import (
	"context"
	"time"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeExportCSV exports a user's transactions to CSV.
	JobTypeExportCSV JobType = "export_csv"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// ExportCSVJob asks the worker to build a CSV of the user's transactions and
// upload it to object storage.
type ExportCSVJob struct {
	JobID  string `json:"job_id"`
	UserID string `json:"user_id"`

	// ObjectURI is filled in by the worker once the upload completes.
	ObjectURI string `json:"object_uri,omitempty"`

	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
	RetryCount  int        `json:"retry_count"`
	MaxRetries  int        `json:"max_retries"`
}

// Job is a generic interface over all job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

func (j *ExportCSVJob) GetID() string        { return j.JobID }
func (j *ExportCSVJob) GetType() JobType     { return JobTypeExportCSV }
func (j *ExportCSVJob) GetStatus() JobStatus { return j.Status }

// Publisher enqueues export jobs. The in-memory queue implements it; a
// broker-backed queue could replace it without touching callers.
type Publisher interface {
	PublishExport(ctx context.Context, job *ExportCSVJob) error
	Close() error
}

// Consumer drains the queue, calling the handler per job.
type Consumer interface {
	Start(ctx context.Context, handler JobHandler) error
	Stop(ctx context.Context) error
}

// JobHandler processes one job. Returning an error marks the job failed and
// eligible for retry.
type JobHandler func(ctx context.Context, job Job) error

// JobStore tracks job state so callers can poll for completion.
type JobStore interface {
	SaveJob(ctx context.Context, job *ExportCSVJob) error
	GetJob(ctx context.Context, jobID string) (*ExportCSVJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*ExportCSVJob, error)
}

// JobFilter narrows ListJobs results.
type JobFilter struct {
	UserID string
	Status JobStatus
	Limit  int
	Offset int
}
