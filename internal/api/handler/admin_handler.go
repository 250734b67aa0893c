package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/payments-portal/portal/internal/api/metrics"
	"github.com/payments-portal/portal/internal/api/view"
	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
	"github.com/payments-portal/portal/internal/core/service"
)

const (
	recentBatches   = 10
	uploadedNotice  = "Your CSV file was uploaded and queued for processing."
	uploadFailedMsg = "Something went wrong!"
)

// AdminHandler serves the admin upload and batch pages.
type AdminHandler struct {
	sessions ports.SessionView
	payments ports.PaymentsGateway
	log      zerolog.Logger
}

func NewAdminHandler(sessions ports.SessionView, payments ports.PaymentsGateway, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{sessions: sessions, payments: payments, log: log}
}

type uploadView struct {
	MaxSize      int64
	Batches      []domain.Batch
	BatchesError string
}

// UploadPage renders the upload form with the most recent batches.
func (h *AdminHandler) UploadPage(c echo.Context) error {
	p := page(h.sessions, "Upload")
	if c.QueryParam("uploaded") != "" {
		p.Notice = uploadedNotice
		if c.QueryParam("format") != "" {
			p.Notice += " " + service.FormatWarningMsg
		}
	}
	return h.renderUpload(c, http.StatusOK, p)
}

// Upload validates the picked file and forwards it to the backend.
func (h *AdminHandler) Upload(c echo.Context) error {
	ctx := c.Request().Context()

	// 1. Pick the file
	fh, err := c.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		return h.uploadRejected(c, domain.ErrInvalidFileType)
	}
	upload := domain.Upload{}
	if fh != nil {
		upload = domain.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
		}
	}

	// 2. Validate before anything leaves the portal
	if err := service.ValidateUpload(upload); err != nil {
		return h.uploadRejected(c, err)
	}
	warning := service.FormatWarning(upload)
	if warning != "" {
		h.log.Warn().Str("filename", upload.Filename).Str("content_type", upload.ContentType).Msg("unexpected content type for csv upload")
	}

	// 3. Forward
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := h.payments.UploadBatch(ctx, upload.Filename, f); err != nil {
		metrics.UploadsTotal.WithLabelValues("failed").Inc()
		h.log.Warn().Err(err).Str("filename", upload.Filename).Msg("upload failed")
		p := page(h.sessions, "Upload")
		p.Error = backendMessage(err, uploadFailedMsg)
		p.Notice = warning
		return h.renderUpload(c, backendStatus(err), p)
	}

	metrics.UploadsTotal.WithLabelValues("forwarded").Inc()
	h.log.Info().Str("filename", upload.Filename).Int64("size", upload.Size).Msg("batch uploaded")
	target := c.Request().URL.Path + "?uploaded=1"
	if warning != "" {
		target += "&format=unverified"
	}
	return c.Redirect(http.StatusSeeOther, target)
}

func (h *AdminHandler) uploadRejected(c echo.Context, err error) error {
	metrics.UploadsTotal.WithLabelValues("rejected").Inc()
	p := page(h.sessions, "Upload")
	p.Error = uploadErrorMessage(err)
	return h.renderUpload(c, http.StatusUnprocessableEntity, p)
}

func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoFile):
		return "Please choose a .csv file to upload."
	case errors.Is(err, domain.ErrInvalidFileType):
		return "Please select a .csv file."
	case errors.Is(err, domain.ErrFileTooLarge):
		return "Max file size is 5 MB."
	default:
		return err.Error()
	}
}

func (h *AdminHandler) renderUpload(c echo.Context, code int, p view.Page) error {
	data := uploadView{MaxSize: domain.MaxUploadSize, Batches: []domain.Batch{}}
	batches, err := h.payments.Batches(c.Request().Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("could not load batches")
		data.BatchesError = backendMessage(err, "Could not load batches.")
	} else {
		if len(batches) > recentBatches {
			batches = batches[:recentBatches]
		}
		data.Batches = batches
	}
	p.Data = data
	return render(c, code, view.PageAdminUpload, p)
}

// SampleCSV downloads a file in the expected upload layout.
func (h *AdminHandler) SampleCSV(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+service.SampleCSVName+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(service.SampleCSV))
}

// Batches lists every batch.
func (h *AdminHandler) Batches(c echo.Context) error {
	p := page(h.sessions, "Batches")
	batches, err := h.payments.Batches(c.Request().Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("could not load batches")
		p.Error = backendMessage(err, "Could not load batches.")
		p.Data = []domain.Batch{}
		return render(c, backendStatus(err), view.PageBatches, p)
	}
	p.Data = batches
	return render(c, http.StatusOK, view.PageBatches, p)
}

// Batch shows one batch with its payments and logs.
func (h *AdminHandler) Batch(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return domain.ErrBatchNotFound
	}
	detail, err := h.payments.Batch(c.Request().Context(), id)
	if err != nil {
		return err
	}
	p := page(h.sessions, "Batch #"+strconv.FormatInt(id, 10))
	p.Data = detail
	return render(c, http.StatusOK, view.PageBatch, p)
}
