package ports

import "context"

// ImportJob is an uploaded CSV waiting to be processed into its batch.
type ImportJob struct {
	BatchID  int64
	Filename string
	Data     []byte
}

// BatchProcessor turns one queued upload into ledger payments.
type BatchProcessor interface {
	Process(ctx context.Context, job ImportJob) error
}

// ImportQueue accepts uploads for background processing.
type ImportQueue interface {
	Enqueue(job ImportJob)
}
