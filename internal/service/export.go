package service

import (
	"context"
	"fmt"

	"github.com/okozlov/finflow/internal/domain"
	"github.com/okozlov/finflow/internal/jobs"
)

// RequestExport enqueues a CSV export job for the user. Export is
// premium-gated; free-tier callers get ErrPremiumRequired.
func (s *Service) RequestExport(ctx context.Context, userID string) (*jobs.ExportCSVJob, error) {
	if !s.entitlements.HasCapability(ctx, userID, "export_csv") {
		return nil, fmt.Errorf("RequestExport: %w", domain.ErrPremiumRequired)
	}

	job := &jobs.ExportCSVJob{UserID: userID}
	if err := s.jobQueue.PublishExport(ctx, job); err != nil {
		return nil, fmt.Errorf("RequestExport: enqueue: %w", err)
	}

	s.log.Info().Str("job_id", job.JobID).Str("user_id", userID).Msg("export job enqueued")
	return job, nil
}

// ExportStatus returns the job if it exists and belongs to the user.
func (s *Service) ExportStatus(ctx context.Context, userID, jobID string) (*jobs.ExportCSVJob, error) {
	job, err := s.jobStore.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("ExportStatus: %w", err)
	}
	if job.UserID != userID {
		return nil, fmt.Errorf("ExportStatus: %w", domain.ErrNotFound)
	}
	return job, nil
}

// Exports lists the user's export jobs, newest first.
func (s *Service) Exports(ctx context.Context, userID string) ([]*jobs.ExportCSVJob, error) {
	list, err := s.jobStore.ListJobs(ctx, jobs.JobFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("Exports: %w", err)
	}
	return list, nil
}
