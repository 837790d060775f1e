package export

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/okozlov/finflow/internal/domain"
	"github.com/okozlov/finflow/internal/events"
	"github.com/okozlov/finflow/internal/jobs"
)

// TransactionLister is the slice of the persistence layer the exporter needs.
type TransactionLister interface {
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// Runner handles export jobs pulled off the queue. It lists the user's
// transactions, renders them as CSV, uploads the file and records the
// resulting URI on the job.
type Runner struct {
	store     TransactionLister
	uploader  Uploader
	publisher events.Publisher
	log       zerolog.Logger
}

func NewRunner(store TransactionLister, uploader Uploader, publisher events.Publisher, log zerolog.Logger) *Runner {
	return &Runner{store: store, uploader: uploader, publisher: publisher, log: log}
}

// Handle implements jobs.JobHandler for export jobs.
func (r *Runner) Handle(ctx context.Context, job jobs.Job) error {
	exportJob, ok := job.(*jobs.ExportCSVJob)
	if !ok {
		return fmt.Errorf("Handle: unexpected job type %s", job.GetType())
	}

	txs, err := r.store.ListTransactions(ctx, exportJob.UserID)
	if err != nil {
		return fmt.Errorf("Handle: list transactions: %w", err)
	}

	data, err := BuildCSV(txs)
	if err != nil {
		return fmt.Errorf("Handle: build csv: %w", err)
	}

	uri, err := r.uploader.Upload(ctx, exportJob.UserID, data)
	if err != nil {
		return fmt.Errorf("Handle: upload: %w", err)
	}
	exportJob.ObjectURI = uri

	r.log.Info().
		Str("job_id", exportJob.JobID).
		Str("user_id", exportJob.UserID).
		Str("uri", uri).
		Int("transactions", len(txs)).
		Msg("export completed")

	if err := r.publisher.Publish(ctx, events.Event{
		Type:     events.ExportCompleted,
		UserID:   exportJob.UserID,
		EntityID: exportJob.JobID,
	}); err != nil {
		// The export itself succeeded; a lost event is log-worthy, not fatal.
		r.log.Warn().Err(err).Str("job_id", exportJob.JobID).Msg("failed to publish export event")
	}

	return nil
}
