package service

import (
	"mime"
	"strings"

	"github.com/payments-portal/portal/internal/core/domain"
)

// SampleCSVName is the download name of the sample upload file.
const SampleCSVName = "sample-payments.csv"

// SampleCSV is a minimal file in the layout the backend expects.
const SampleCSV = "customer_id,customer_name,customer_email,amount,currency,reference_no,date_time\n" +
	"CUST0001001,Jane Doe,jane.doe@example.com,1500.00,LKR,REF-7Q2M4K9D1A,01/15/2024 10:30\n" +
	"CUST0001002,John Roe,john.roe@example.org,25.50,EUR,REF-3B8X6T1P0Z,02/03/2024 14:05\n"

// FormatWarningMsg is shown when a .csv arrives with an unexpected content type.
const FormatWarningMsg = "Possibly invalid format: the selected file might not be a CSV."

// acceptedTypes lists the content types browsers send for CSV files.
// Some browsers send none at all, which is accepted too.
var acceptedTypes = map[string]struct{}{
	"text/csv":                 {},
	"application/vnd.ms-excel": {},
	"":                         {},
}

// ValidateUpload checks a picked file before it is sent to the backend.
func ValidateUpload(u domain.Upload) error {
	if u.Filename == "" {
		return domain.ErrNoFile
	}
	if !strings.HasSuffix(strings.ToLower(u.Filename), ".csv") {
		return domain.ErrInvalidFileType
	}
	if u.Size > domain.MaxUploadSize {
		return domain.ErrFileTooLarge
	}
	return nil
}

// FormatWarning flags a .csv whose reported content type is not a known CSV
// type. The file is still uploaded.
func FormatWarning(u domain.Upload) string {
	if _, ok := acceptedTypes[mediaType(u.ContentType)]; ok {
		return ""
	}
	return FormatWarningMsg
}

// mediaType strips parameters such as "; charset=utf-8".
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}
