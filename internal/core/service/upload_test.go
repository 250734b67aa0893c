package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/payments-portal/portal/internal/core/domain"
)

func TestValidateUpload(t *testing.T) {
	cases := []struct {
		name string
		in   domain.Upload
		want error
	}{
		{"ok", domain.Upload{Filename: "p.csv", ContentType: "text/csv", Size: 10}, nil},
		{"upper extension", domain.Upload{Filename: "P.CSV", ContentType: "text/csv", Size: 10}, nil},
		{"excel mime", domain.Upload{Filename: "p.csv", ContentType: "application/vnd.ms-excel", Size: 10}, nil},
		{"no mime", domain.Upload{Filename: "p.csv", Size: 10}, nil},
		{"mime params", domain.Upload{Filename: "p.csv", ContentType: "text/csv; charset=utf-8", Size: 10}, nil},
		{"exactly max", domain.Upload{Filename: "p.csv", Size: domain.MaxUploadSize}, nil},
		{"no file", domain.Upload{}, domain.ErrNoFile},
		{"wrong extension", domain.Upload{Filename: "p.xlsx", ContentType: "text/csv", Size: 10}, domain.ErrInvalidFileType},
		{"plain text mime", domain.Upload{Filename: "p.csv", ContentType: "text/plain", Size: 10}, nil},
		{"octet stream mime", domain.Upload{Filename: "p.csv", ContentType: "application/octet-stream", Size: 10}, nil},
		{"wrong mime", domain.Upload{Filename: "p.csv", ContentType: "application/pdf", Size: 10}, nil},
		{"wrong mime too large", domain.Upload{Filename: "p.csv", ContentType: "text/plain", Size: domain.MaxUploadSize + 1}, domain.ErrFileTooLarge},
		{"too large", domain.Upload{Filename: "p.csv", ContentType: "text/csv", Size: domain.MaxUploadSize + 1}, domain.ErrFileTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateUpload(tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestFormatWarning(t *testing.T) {
	cases := []struct {
		contentType string
		warn        bool
	}{
		{"text/csv", false},
		{"text/csv; charset=utf-8", false},
		{"application/vnd.ms-excel", false},
		{"", false},
		{"text/plain", true},
		{"application/octet-stream", true},
	}
	for _, tc := range cases {
		t.Run(tc.contentType, func(t *testing.T) {
			got := FormatWarning(domain.Upload{Filename: "p.csv", ContentType: tc.contentType, Size: 10})
			if (got != "") != tc.warn {
				t.Fatalf("content type %q: unexpected warning %q", tc.contentType, got)
			}
		})
	}
}

func TestSampleCSV_Parses(t *testing.T) {
	payments, logs, err := ParsePaymentsCSV(strings.NewReader(SampleCSV))
	if err != nil {
		t.Fatalf("parse sample: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %d (logs %+v)", len(payments), logs)
	}
}
