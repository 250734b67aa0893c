// Package backend turns raw request-client responses into validated domain
// values. Every payload crossing the network boundary is decoded into an
// explicit struct and checked against its validate tags; anything that does
// not fit fails with domain.ErrInvalidResponse.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
	"github.com/payments-portal/portal/internal/infrastructure/apiclient"
)

// Backend endpoint paths, relative to the API base.
const (
	PathLogin         = "/auth/login"
	PathRegister      = "/auth/register"
	PathMyPayments    = "/my/payments"
	PathAdminBatches  = "/admin/batches"
	PathPaymentUpload = "/payments/upload"

	uploadField       = "file"
	uploadContentType = "text/csv"
)

// Requester is the subset of the request client the gateway needs.
type Requester interface {
	Get(ctx context.Context, path string) (*apiclient.Response, error)
	Post(ctx context.Context, path string, body any) (*apiclient.Response, error)
	PostMultipart(ctx context.Context, path string, file apiclient.FilePart, fields map[string]string) (*apiclient.Response, error)
}

// Gateway implements ports.AuthGateway and ports.PaymentsGateway.
type Gateway struct {
	client   Requester
	validate *validator.Validate
}

var (
	_ ports.AuthGateway     = (*Gateway)(nil)
	_ ports.PaymentsGateway = (*Gateway)(nil)
)

func NewGateway(client Requester) *Gateway {
	return &Gateway{client: client, validate: validator.New()}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// errorBody is the envelope the backend uses for rejections.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Login posts the credentials and validates the {token, user} answer.
func (g *Gateway) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	resp, err := g.client.Post(ctx, PathLogin, loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, rejection(resp)
	}
	var out ports.LoginResult
	if err := g.decode(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &out, nil
}

// Register posts the new account. Any 2xx counts as success; the body is ignored.
func (g *Gateway) Register(ctx context.Context, in ports.RegisterInput) error {
	resp, err := g.client.Post(ctx, PathRegister, in)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return rejection(resp)
	}
	return nil
}

// MyPayments lists the signed-in user's payments. Both a bare array and a
// paginated {data: [...]} envelope are accepted.
func (g *Gateway) MyPayments(ctx context.Context) ([]domain.Payment, error) {
	rows, err := getList[domain.Payment](ctx, g, PathMyPayments)
	if err != nil {
		return nil, fmt.Errorf("my payments: %w", err)
	}
	return rows, nil
}

// Batches lists uploaded batches, newest first as returned by the backend.
func (g *Gateway) Batches(ctx context.Context) ([]domain.Batch, error) {
	rows, err := getList[domain.Batch](ctx, g, PathAdminBatches)
	if err != nil {
		return nil, fmt.Errorf("batches: %w", err)
	}
	return rows, nil
}

// Batch fetches one batch with its payments and logs.
func (g *Gateway) Batch(ctx context.Context, id int64) (*domain.BatchDetail, error) {
	resp, err := g.client.Get(ctx, PathAdminBatches+"/"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == 404 {
		return nil, domain.ErrBatchNotFound
	}
	if !resp.OK() {
		return nil, rejection(resp)
	}
	body, err := unwrapData(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("batch %d: %w", id, err)
	}
	var out domain.BatchDetail
	if err := g.decode(body, &out); err != nil {
		return nil, fmt.Errorf("batch %d: %w", id, err)
	}
	return &out, nil
}

// UploadBatch forwards a CSV file as multipart field "file".
func (g *Gateway) UploadBatch(ctx context.Context, filename string, file io.Reader) error {
	resp, err := g.client.PostMultipart(ctx, PathPaymentUpload, apiclient.FilePart{
		Field:       uploadField,
		Filename:    filename,
		ContentType: uploadContentType,
		Content:     file,
	}, nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return rejection(resp)
	}
	return nil
}

func getList[T any](ctx context.Context, g *Gateway, path string) ([]T, error) {
	resp, err := g.client.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, rejection(resp)
	}
	body, err := unwrapData(resp.Body)
	if err != nil {
		return nil, err
	}
	var rows []T
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	for i := range rows {
		if err := g.validate.Struct(&rows[i]); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrInvalidResponse, i, err)
		}
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

func (g *Gateway) decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if err := g.validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	return nil
}

// unwrapData returns the "data" member of an object envelope, or the body
// itself when it is not such an envelope.
func unwrapData(body []byte) ([]byte, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty body", domain.ErrInvalidResponse)
	}
	if !strings.HasPrefix(trimmed, "{") {
		return body, nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return body, nil
	}
	return envelope.Data, nil
}

// rejection builds the error for a non-2xx response, keeping the backend's
// message when the body carries one.
func rejection(resp *apiclient.Response) error {
	var body errorBody
	_ = json.Unmarshal(resp.Body, &body)
	msg := strings.TrimSpace(body.Message)
	if msg == "" {
		msg = strings.TrimSpace(body.Error)
	}
	return &domain.BackendError{StatusCode: resp.StatusCode, Message: msg}
}
