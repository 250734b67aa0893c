package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
)

type stubLedger struct {
	opened   string
	batchID  int64
	payments []domain.Payment
	logs     []domain.BatchLog
	err      error
}

func (l *stubLedger) PaymentsFor(context.Context, string) ([]domain.Payment, error) {
	return nil, nil
}

func (l *stubLedger) Batches(context.Context) ([]domain.Batch, error) {
	return nil, nil
}

func (l *stubLedger) Batch(context.Context, int64) (*domain.BatchDetail, error) {
	return nil, nil
}

func (l *stubLedger) OpenBatch(_ context.Context, filename string) (*domain.Batch, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.opened = filename
	return &domain.Batch{ID: 7, OriginalFilename: filename, Status: domain.BatchStatusPending}, nil
}

func (l *stubLedger) CompleteBatch(_ context.Context, id int64, payments []domain.Payment, logs []domain.BatchLog) (*domain.Batch, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.batchID, l.payments, l.logs = id, payments, logs
	return &domain.Batch{ID: id, Status: domain.BatchStatusProcessed}, nil
}

const header = "customer_id,customer_name,customer_email,amount,currency,reference_no,date_time\n"

func TestParsePaymentsCSV_ConvertsRows(t *testing.T) {
	csv := header + "C1,Jane,Jane@Example.com,100,eur,R-1,2024-01-15 10:30:00\n"
	payments, logs, err := ParsePaymentsCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(payments))
	}
	p := payments[0]
	if p.Currency != "EUR" || p.CustomerEmail != "jane@example.com" || p.Reference != "R-1" {
		t.Fatalf("unexpected payment %+v", p)
	}
	if p.AmountUSD < 107.9 || p.AmountUSD > 108.1 {
		t.Fatalf("unexpected usd amount %f", p.AmountUSD)
	}
	if len(logs) != 1 || logs[0].Status != "info" {
		t.Fatalf("expected summary log, got %+v", logs)
	}
}

func TestParsePaymentsCSV_BadRowsBecomeLogs(t *testing.T) {
	csv := header +
		"C1,Jane,jane@example.com,abc,USD,R-1,2024-01-15 10:30:00\n" +
		"C2,John,john@example.com,5,XYZ,R-2,2024-01-15 10:30:00\n" +
		"C3,Ann,ann@example.com,5,USD,R-3,2024-01-15 10:30:00\n"
	payments, logs, err := ParsePaymentsCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(payments) != 1 || payments[0].Reference != "R-3" {
		t.Fatalf("expected only R-3, got %+v", payments)
	}
	if len(logs) != 3 || logs[0].Status != "error" || logs[1].Status != "error" {
		t.Fatalf("unexpected logs %+v", logs)
	}
}

func TestParsePaymentsCSV_Errors(t *testing.T) {
	if _, _, err := ParsePaymentsCSV(strings.NewReader("")); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
	if _, _, err := ParsePaymentsCSV(strings.NewReader(header)); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch for header only, got %v", err)
	}
	if _, _, err := ParsePaymentsCSV(strings.NewReader("a,b\n1,2\n")); !errors.Is(err, domain.ErrInvalidFileType) {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}
}

func TestBatchImporter_Open(t *testing.T) {
	ledger := &stubLedger{}
	svc := NewBatchImporter(ledger, zerolog.Nop())

	batch, job, err := svc.Open(context.Background(), "p.csv", []byte(SampleCSV))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if batch.Status != domain.BatchStatusPending || ledger.opened != "p.csv" {
		t.Fatalf("unexpected batch %+v", batch)
	}
	if job.BatchID != 7 || job.Filename != "p.csv" || string(job.Data) != SampleCSV {
		t.Fatalf("unexpected job %+v", job)
	}
}

func TestBatchImporter_Process(t *testing.T) {
	ledger := &stubLedger{}
	svc := NewBatchImporter(ledger, zerolog.Nop())

	err := svc.Process(context.Background(), ports.ImportJob{BatchID: 7, Filename: "p.csv", Data: []byte(SampleCSV)})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if ledger.batchID != 7 || len(ledger.payments) != 2 {
		t.Fatalf("expected 2 payments for batch 7, got %d for %d", len(ledger.payments), ledger.batchID)
	}
}

func TestBatchImporter_ProcessUnreadableFile(t *testing.T) {
	ledger := &stubLedger{}
	svc := NewBatchImporter(ledger, zerolog.Nop())

	err := svc.Process(context.Background(), ports.ImportJob{BatchID: 3, Filename: "p.csv", Data: []byte("a,b\n1,2\n")})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(ledger.payments) != 0 || len(ledger.logs) != 1 || ledger.logs[0].Status != "error" {
		t.Fatalf("expected one error log, got payments=%d logs=%+v", len(ledger.payments), ledger.logs)
	}
}

func TestBatchImporter_LedgerFailure(t *testing.T) {
	svc := NewBatchImporter(&stubLedger{err: errors.New("boom")}, zerolog.Nop())
	if _, _, err := svc.Open(context.Background(), "p.csv", nil); err == nil {
		t.Fatalf("expected open error")
	}
	if err := svc.Process(context.Background(), ports.ImportJob{BatchID: 1, Data: []byte(SampleCSV)}); err == nil {
		t.Fatalf("expected process error")
	}
}
