package backend

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
	"github.com/payments-portal/portal/internal/infrastructure/apiclient"
)

func newGateway(t *testing.T, h http.HandlerFunc) *Gateway {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := apiclient.New(srv.URL+"/api", nil, apiclient.Options{})
	require.NoError(t, err)
	return NewGateway(c)
}

func TestGateway_LoginSuccess(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"email":"a@x.io","password":"pw"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"T1","user":{"id":1,"name":"A","email":"a@x.io","role":"admin"}}`))
	})

	res, err := g.Login(t.Context(), "a@x.io", "pw")
	require.NoError(t, err)
	assert.Equal(t, "T1", res.Token)
	assert.Equal(t, domain.User{ID: 1, Name: "A", Email: "a@x.io", Role: domain.RoleAdmin}, res.User)
}

func TestGateway_LoginRejectedKeepsMessage(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	})

	_, err := g.Login(t.Context(), "a@x.io", "bad")
	var be *domain.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusUnauthorized, be.StatusCode)
	assert.Equal(t, "Invalid credentials", be.Message)
	assert.ErrorIs(t, err, domain.ErrBackendRejected)
}

func TestGateway_LoginRejectedWithoutBody(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := g.Login(t.Context(), "a@x.io", "pw")
	var be *domain.BackendError
	require.ErrorAs(t, err, &be)
	assert.Empty(t, be.Message)
}

func TestGateway_LoginSchemaMismatch(t *testing.T) {
	cases := map[string]string{
		"missing token": `{"user":{"id":1,"name":"A","email":"a@x.io","role":"user"}}`,
		"unknown role":  `{"token":"T","user":{"id":1,"name":"A","email":"a@x.io","role":"root"}}`,
		"missing user":  `{"token":"T"}`,
		"not json":      `<html>`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := g.Login(t.Context(), "a@x.io", "pw")
			assert.ErrorIs(t, err, domain.ErrInvalidResponse)
		})
	}
}

func TestGateway_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c, err := apiclient.New(url, nil, apiclient.Options{})
	require.NoError(t, err)

	_, err = NewGateway(c).Login(t.Context(), "a@x.io", "pw")
	assert.ErrorIs(t, err, domain.ErrBackendUnreachable)
}

func TestGateway_Register(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
	})
	require.NoError(t, g.Register(t.Context(), ports.RegisterInput{Name: "A", Email: "a@x.io", Password: "pw"}))
}

func TestGateway_RegisterConflict(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Email already taken"}`))
	})
	err := g.Register(t.Context(), ports.RegisterInput{Name: "A", Email: "a@x.io", Password: "pw"})
	var be *domain.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Email already taken", be.Message)
}

func TestGateway_MyPaymentsEnvelopes(t *testing.T) {
	row := `{"id":7,"payment_date":"2025-01-02","reference":"INV-1","currency":"EUR","amount":10,"amount_usd":11,"processed":true}`
	for name, body := range map[string]string{
		"bare":     "[" + row + "]",
		"envelope": `{"data":[` + row + `],"current_page":1}`,
	} {
		t.Run(name, func(t *testing.T) {
			g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/my/payments", r.URL.Path)
				_, _ = w.Write([]byte(body))
			})
			rows, err := g.MyPayments(t.Context())
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "INV-1", rows[0].Reference)
			assert.True(t, rows[0].Processed)
		})
	}
}

func TestGateway_BatchesEmpty(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	rows, err := g.Batches(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestGateway_BatchesInvalidRow(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"original_filename":"a.csv"}]`))
	})
	_, err := g.Batches(t.Context())
	assert.ErrorIs(t, err, domain.ErrInvalidResponse)
}

func TestGateway_Batch(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/batches/3":
			_, _ = w.Write([]byte(`{"id":3,"original_filename":"a.csv","status":"done","payments":[{"id":1,"reference":"R"}],"logs":[{"id":1,"status":"info","message":"ok"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	detail, err := g.Batch(t.Context(), 3)
	require.NoError(t, err)
	assert.Equal(t, "a.csv", detail.OriginalFilename)
	assert.Len(t, detail.Payments, 1)
	assert.Len(t, detail.Logs, 1)

	_, err = g.Batch(t.Context(), 4)
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
}

func TestGateway_UploadBatch(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payments/upload", r.URL.Path)
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "pay.csv", hdr.Filename)
		assert.Equal(t, "a,b\n1,2\n", string(data))
		w.WriteHeader(http.StatusAccepted)
	})

	err := g.UploadBatch(t.Context(), "pay.csv", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
}

func TestGateway_UploadBatchRejected(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"The file field must be a file of type: csv."}`))
	})

	err := g.UploadBatch(t.Context(), "pay.csv", strings.NewReader("x"))
	var be *domain.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "The file field must be a file of type: csv.", be.Message)
}
