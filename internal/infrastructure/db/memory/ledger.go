package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
)

// Ledger keeps batches and payments in memory. Batches are listed newest
// first; a batch is pending from OpenBatch until CompleteBatch settles it.
type Ledger struct {
	mu          sync.RWMutex
	now         func() time.Time
	nextBatch   int64
	nextPayment int64
	nextLog     int64
	batches     []*domain.BatchDetail
	emails      map[int64]string
}

var _ ports.Ledger = (*Ledger)(nil)

func NewLedger() *Ledger {
	return &Ledger{now: time.Now, emails: make(map[int64]string)}
}

func (l *Ledger) PaymentsFor(_ context.Context, email string) ([]domain.Payment, error) {
	email = strings.ToLower(email)

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []domain.Payment{}
	for i := len(l.batches) - 1; i >= 0; i-- {
		for _, p := range l.batches[i].Payments {
			if l.emails[p.ID] == email {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (l *Ledger) Batches(_ context.Context) ([]domain.Batch, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Batch, 0, len(l.batches))
	for i := len(l.batches) - 1; i >= 0; i-- {
		out = append(out, l.batches[i].Batch)
	}
	return out, nil
}

func (l *Ledger) Batch(_ context.Context, id int64) (*domain.BatchDetail, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b := l.find(id)
	if b == nil {
		return nil, domain.ErrBatchNotFound
	}
	out := *b
	out.Payments = slices.Clone(b.Payments)
	out.Logs = slices.Clone(b.Logs)
	return &out, nil
}

func (l *Ledger) OpenBatch(_ context.Context, filename string) (*domain.Batch, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextBatch++
	detail := &domain.BatchDetail{
		Batch: domain.Batch{
			ID:               l.nextBatch,
			OriginalFilename: filename,
			Status:           domain.BatchStatusPending,
			CreatedAt:        l.now().UTC().Format(time.RFC3339),
		},
		Payments: []domain.Payment{},
		Logs:     []domain.BatchLog{},
	}
	l.batches = append(l.batches, detail)

	out := detail.Batch
	return &out, nil
}

func (l *Ledger) CompleteBatch(_ context.Context, id int64, payments []domain.Payment, logs []domain.BatchLog) (*domain.Batch, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	detail := l.find(id)
	if detail == nil {
		return nil, domain.ErrBatchNotFound
	}

	now := l.now().UTC().Format(time.RFC3339)
	for _, p := range payments {
		l.nextPayment++
		p.ID = l.nextPayment
		l.emails[p.ID] = strings.ToLower(p.CustomerEmail)
		detail.Payments = append(detail.Payments, p)
	}
	for _, lg := range logs {
		l.nextLog++
		lg.ID = l.nextLog
		if lg.CreatedAt == "" {
			lg.CreatedAt = now
		}
		detail.Logs = append(detail.Logs, lg)
	}
	detail.Status = batchStatus(detail.Payments, detail.Logs)

	out := detail.Batch
	return &out, nil
}

func (l *Ledger) find(id int64) *domain.BatchDetail {
	for _, b := range l.batches {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func batchStatus(payments []domain.Payment, logs []domain.BatchLog) string {
	if len(payments) > 0 {
		return domain.BatchStatusProcessed
	}
	for _, lg := range logs {
		if lg.Status == "error" {
			return domain.BatchStatusFailed
		}
	}
	return domain.BatchStatusProcessed
}
