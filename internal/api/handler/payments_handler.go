package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/payments-portal/portal/internal/api/view"
	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
	"github.com/payments-portal/portal/internal/core/service"
)

// PaymentsHandler serves the signed-in user's payment list.
type PaymentsHandler struct {
	sessions ports.SessionView
	payments ports.PaymentsGateway
	log      zerolog.Logger
}

func NewPaymentsHandler(sessions ports.SessionView, payments ports.PaymentsGateway, log zerolog.Logger) *PaymentsHandler {
	return &PaymentsHandler{sessions: sessions, payments: payments, log: log}
}

type paymentsView struct {
	Rows     []domain.Payment
	Total    int
	Query    string
	Status   string
	Filtered bool
}

// MyPayments lists the user's payments, filtered by ?q= and ?status=.
func (h *PaymentsHandler) MyPayments(c echo.Context) error {
	filter := service.PaymentFilter{
		Query:  c.QueryParam("q"),
		Status: service.ParsePaymentStatus(c.QueryParam("status")),
	}
	data := paymentsView{
		Rows:     []domain.Payment{},
		Query:    filter.Query,
		Status:   string(filter.Status),
		Filtered: filter.Active(),
	}
	p := page(h.sessions, "My Payments")

	rows, err := h.payments.MyPayments(c.Request().Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("could not load payments")
		p.Error = backendMessage(err, "Could not load payments.")
		p.Data = data
		return render(c, backendStatus(err), view.PageMyPayments, p)
	}

	data.Total = len(rows)
	data.Rows = service.FilterPayments(rows, filter)
	p.Data = data
	return render(c, http.StatusOK, view.PageMyPayments, p)
}
