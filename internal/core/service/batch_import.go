package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
)

var ErrEmptyBatch = errors.New("csv has no rows")

// usdRates converts supported currencies to USD in the development backend.
var usdRates = map[string]float64{
	"USD": 1,
	"EUR": 1.08,
	"GBP": 1.27,
	"CAD": 0.73,
	"AUD": 0.66,
	"LKR": 0.0033,
}

var csvTimeLayouts = []string{"01/02/2006 15:04", "2006-01-02 15:04:05", time.RFC3339}

var csvColumns = []string{"customer_id", "customer_name", "customer_email", "amount", "currency", "reference_no", "date_time"}

// BatchImporter turns uploaded CSV files into ledger batches. Open records
// the upload as a pending batch; Process runs later on a queue worker.
type BatchImporter struct {
	ledger ports.Ledger
	log    zerolog.Logger
}

var _ ports.BatchProcessor = (*BatchImporter)(nil)

func NewBatchImporter(ledger ports.Ledger, log zerolog.Logger) *BatchImporter {
	return &BatchImporter{ledger: ledger, log: log}
}

// Open files an upload as a pending batch and returns the job that will
// complete it.
func (s *BatchImporter) Open(ctx context.Context, filename string, data []byte) (*domain.Batch, ports.ImportJob, error) {
	batch, err := s.ledger.OpenBatch(ctx, filename)
	if err != nil {
		return nil, ports.ImportJob{}, fmt.Errorf("open batch: %w", err)
	}
	return batch, ports.ImportJob{BatchID: batch.ID, Filename: filename, Data: data}, nil
}

// Process parses the job's CSV and settles its batch. A file that cannot be
// read at all still completes the batch, with a single error log line.
func (s *BatchImporter) Process(ctx context.Context, job ports.ImportJob) error {
	// 1. Parse
	payments, logs, err := ParsePaymentsCSV(bytes.NewReader(job.Data))
	if err != nil {
		payments = nil
		logs = []domain.BatchLog{{Status: "error", Message: err.Error()}}
	}

	// 2. Persist
	batch, err := s.ledger.CompleteBatch(ctx, job.BatchID, payments, logs)
	if err != nil {
		return fmt.Errorf("complete batch %d: %w", job.BatchID, err)
	}

	s.log.Info().
		Int64("batch_id", batch.ID).
		Str("filename", job.Filename).
		Str("status", batch.Status).
		Int("payments", len(payments)).
		Int("log_lines", len(logs)).
		Msg("batch imported")
	return nil
}

// ParsePaymentsCSV reads the sample CSV layout. A missing or wrong header is
// an error; bad rows are reported in the returned logs and skipped.
func ParsePaymentsCSV(r io.Reader) ([]domain.Payment, []domain.BatchLog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrEmptyBatch
		}
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrInvalidFileType, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, fmt.Errorf("%w: missing column %s", domain.ErrInvalidFileType, col)
		}
	}

	var (
		payments []domain.Payment
		logs     []domain.BatchLog
	)
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logs = append(logs, domain.BatchLog{Status: "error", Message: fmt.Sprintf("line %d: %v", line, err)})
			continue
		}
		p, err := parseRow(rec, index)
		if err != nil {
			logs = append(logs, domain.BatchLog{Status: "error", Message: fmt.Sprintf("line %d: %v", line, err)})
			continue
		}
		payments = append(payments, p)
	}
	if len(payments) == 0 && len(logs) == 0 {
		return nil, nil, ErrEmptyBatch
	}
	logs = append(logs, domain.BatchLog{Status: "info", Message: fmt.Sprintf("%d payments processed", len(payments))})
	return payments, logs, nil
}

func parseRow(rec []string, index map[string]int) (domain.Payment, error) {
	field := func(name string) string {
		i := index[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	amount, err := strconv.ParseFloat(field("amount"), 64)
	if err != nil || amount <= 0 {
		return domain.Payment{}, fmt.Errorf("invalid amount %q", field("amount"))
	}
	currency := strings.ToUpper(field("currency"))
	rate, ok := usdRates[currency]
	if !ok {
		return domain.Payment{}, fmt.Errorf("unsupported currency %q", currency)
	}
	email := field("customer_email")
	if email == "" {
		return domain.Payment{}, fmt.Errorf("missing customer_email")
	}
	ref := field("reference_no")
	if ref == "" {
		return domain.Payment{}, fmt.Errorf("missing reference_no")
	}
	when, ok := parseCSVTime(field("date_time"))
	if !ok {
		return domain.Payment{}, fmt.Errorf("invalid date_time %q", field("date_time"))
	}

	return domain.Payment{
		PaymentDate:   when.Format(time.RFC3339),
		Reference:     ref,
		CustomerEmail: strings.ToLower(email),
		Currency:      currency,
		Amount:        amount,
		AmountUSD:     amount * rate,
		Processed:     true,
	}, nil
}

func parseCSVTime(v string) (time.Time, bool) {
	for _, layout := range csvTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
