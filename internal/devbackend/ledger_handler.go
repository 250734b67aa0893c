package devbackend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/payments-portal/portal/internal/api/middleware"
	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
	"github.com/payments-portal/portal/internal/core/service"
)

// BatchIntake files an upload as a pending batch.
type BatchIntake interface {
	Open(ctx context.Context, filename string, data []byte) (*domain.Batch, ports.ImportJob, error)
}

// LedgerHandler serves payments and batches.
type LedgerHandler struct {
	ledger ports.Ledger
	intake BatchIntake
	queue  ports.ImportQueue
	log    zerolog.Logger
}

func NewLedgerHandler(ledger ports.Ledger, intake BatchIntake, queue ports.ImportQueue, log zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, intake: intake, queue: queue, log: log}
}

type listResponse[T any] struct {
	Data []T `json:"data"`
}

type uploadResponse struct {
	Message string        `json:"message"`
	Batch   *domain.Batch `json:"batch"`
}

// MyPayments lists the payments addressed to the caller's email.
//
// @Summary      List my payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Payment]
// @Failure      401  {object}  messageResponse
// @Router       /my/payments [get]
func (h *LedgerHandler) MyPayments(c echo.Context) error {
	email, _ := c.Get(middleware.CtxEmail).(string)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Unauthenticated."})
	}
	rows, err := h.ledger.PaymentsFor(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse[domain.Payment]{Data: rows})
}

// Batches lists every uploaded batch, newest first.
//
// @Summary      List batches
// @Tags         batches
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Batch]
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /admin/batches [get]
func (h *LedgerHandler) Batches(c echo.Context) error {
	rows, err := h.ledger.Batches(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse[domain.Batch]{Data: rows})
}

// Batch returns one batch with its payments and processing logs.
//
// @Summary      Get batch
// @Tags         batches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Batch ID"
// @Success      200  {object}  domain.BatchDetail
// @Failure      404  {object}  messageResponse
// @Router       /admin/batches/{id} [get]
func (h *LedgerHandler) Batch(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Batch not found."})
	}
	detail, err := h.ledger.Batch(c.Request().Context(), id)
	if errors.Is(err, domain.ErrBatchNotFound) {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Batch not found."})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Upload accepts a CSV file and queues it for import.
//
// @Summary      Upload payments CSV
// @Tags         payments
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "CSV file"
// @Success      202   {object}  uploadResponse
// @Failure      422   {object}  messageResponse
// @Router       /payments/upload [post]
func (h *LedgerHandler) Upload(c echo.Context) error {
	ctx := c.Request().Context()

	// 1. Validate
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, messageResponse{Message: "The file field is required."})
	}
	err = service.ValidateUpload(domain.Upload{Filename: fh.Filename, Size: fh.Size})
	switch {
	case errors.Is(err, domain.ErrFileTooLarge):
		return c.JSON(http.StatusUnprocessableEntity, messageResponse{Message: "The file field must not be greater than 5120 kilobytes."})
	case err != nil:
		return c.JSON(http.StatusUnprocessableEntity, messageResponse{Message: "The file field must be a file of type: csv."})
	}

	// 2. Read
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, domain.MaxUploadSize+1))
	if err != nil {
		return err
	}

	// 3. Open the batch and queue the import
	batch, job, err := h.intake.Open(ctx, fh.Filename, data)
	if err != nil {
		return err
	}
	h.queue.Enqueue(job)

	h.log.Info().
		Int64("batch_id", batch.ID).
		Str("filename", fh.Filename).
		Int("bytes", len(data)).
		Msg("upload queued")

	return c.JSON(http.StatusAccepted, uploadResponse{Message: "File uploaded. Processing started.", Batch: batch})
}
