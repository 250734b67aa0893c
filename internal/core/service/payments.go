package service

import (
	"strings"

	"github.com/payments-portal/portal/internal/core/domain"
)

// PaymentFilter narrows an already-fetched payment list.
type PaymentFilter struct {
	// Query is matched case-insensitively against reference and currency.
	Query  string
	Status domain.PaymentStatus
}

// ParsePaymentStatus maps a query-string value onto a status filter,
// defaulting to all.
func ParsePaymentStatus(s string) domain.PaymentStatus {
	switch domain.PaymentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case domain.PaymentStatusProcessed:
		return domain.PaymentStatusProcessed
	case domain.PaymentStatusPending:
		return domain.PaymentStatusPending
	default:
		return domain.PaymentStatusAll
	}
}

// Active reports whether the filter hides anything.
func (f PaymentFilter) Active() bool {
	return strings.TrimSpace(f.Query) != "" || (f.Status != "" && f.Status != domain.PaymentStatusAll)
}

// FilterPayments returns the payments matching f, preserving order. The
// input slice is not modified.
func FilterPayments(rows []domain.Payment, f PaymentFilter) []domain.Payment {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]domain.Payment, 0, len(rows))
	for _, p := range rows {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Reference), q) &&
			!strings.Contains(strings.ToLower(p.Currency), q) {
			continue
		}
		switch f.Status {
		case domain.PaymentStatusProcessed:
			if !p.Processed {
				continue
			}
		case domain.PaymentStatusPending:
			if p.Processed {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
