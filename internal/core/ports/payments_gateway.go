package ports

import (
	"context"
	"io"

	"github.com/payments-portal/portal/internal/core/domain"
)

// PaymentsGateway covers the backend calls made by the portal pages. Every
// call rides on the authenticated request client.
type PaymentsGateway interface {
	MyPayments(ctx context.Context) ([]domain.Payment, error)
	Batches(ctx context.Context) ([]domain.Batch, error)
	Batch(ctx context.Context, id int64) (*domain.BatchDetail, error)
	UploadBatch(ctx context.Context, filename string, file io.Reader) error
}
