package ports

import (
	"context"

	"github.com/payments-portal/portal/internal/core/domain"
)

// Ledger stores the development backend's batches and payments.
type Ledger interface {
	PaymentsFor(ctx context.Context, email string) ([]domain.Payment, error)
	Batches(ctx context.Context) ([]domain.Batch, error)
	Batch(ctx context.Context, id int64) (*domain.BatchDetail, error)
	// OpenBatch files an uploaded CSV as a new pending batch.
	OpenBatch(ctx context.Context, filename string) (*domain.Batch, error)
	// CompleteBatch attaches the parsed payments and the processing log to a
	// pending batch and settles its status.
	CompleteBatch(ctx context.Context, id int64, payments []domain.Payment, logs []domain.BatchLog) (*domain.Batch, error)
}
