package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payments-portal/portal/internal/core/domain"
)

type recorded struct {
	method string
	path   string
	header http.Header
	body   string
}

func recordingServer(t *testing.T, status int, reply string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{method: r.Method, path: r.URL.Path, header: r.Header.Clone(), body: string(body)})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, base := range []string{"", "ftp://host/api", "::bad"} {
		_, err := New(base, nil, Options{})
		assert.Error(t, err, base)
	}
}

func TestClient_ResolvesUnderBasePath(t *testing.T) {
	srv, calls := recordingServer(t, http.StatusOK, `{}`)
	c, err := New(srv.URL+"/api", nil, Options{})
	require.NoError(t, err)

	_, err = c.Get(t.Context(), "/my/payments")
	require.NoError(t, err)
	_, err = c.Get(t.Context(), "admin/batches")
	require.NoError(t, err)

	require.Len(t, *calls, 2)
	assert.Equal(t, "/api/my/payments", (*calls)[0].path)
	assert.Equal(t, "/api/admin/batches", (*calls)[1].path)
}

func TestClient_RejectsAbsolutePath(t *testing.T) {
	c, err := New("http://127.0.0.1:1/api", nil, Options{})
	require.NoError(t, err)
	_, err = c.Get(t.Context(), "http://evil.example/steal")
	assert.Error(t, err)
}

func TestClient_AttachesTokenPerRequest(t *testing.T) {
	srv, calls := recordingServer(t, http.StatusOK, `{}`)
	var token atomic.Value
	token.Store("")
	c, err := New(srv.URL, TokenSourceFunc(func() string { return token.Load().(string) }), Options{})
	require.NoError(t, err)

	_, err = c.Get(t.Context(), "/a")
	require.NoError(t, err)
	token.Store("T1")
	_, err = c.Get(t.Context(), "/b")
	require.NoError(t, err)
	token.Store("")
	_, err = c.Get(t.Context(), "/c")
	require.NoError(t, err)

	require.Len(t, *calls, 3)
	assert.Empty(t, (*calls)[0].header.Get("Authorization"))
	assert.Equal(t, "Bearer T1", (*calls)[1].header.Get("Authorization"))
	assert.Empty(t, (*calls)[2].header.Get("Authorization"))
}

func TestClient_SetsStandardHeaders(t *testing.T) {
	srv, calls := recordingServer(t, http.StatusOK, `{}`)
	c, err := New(srv.URL, nil, Options{})
	require.NoError(t, err)

	_, err = c.Post(t.Context(), "/auth/login", map[string]string{"email": "a@x.io"})
	require.NoError(t, err)

	got := (*calls)[0]
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "application/json", got.header.Get("Accept"))
	assert.Equal(t, "application/json", got.header.Get("Content-Type"))
	assert.NotEmpty(t, got.header.Get(HeaderRequestID))
	assert.JSONEq(t, `{"email":"a@x.io"}`, got.body)
}

func TestClient_ReturnsNon2xxWithoutError(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusUnauthorized, `{"message":"nope"}`)
	c, err := New(srv.URL, nil, Options{})
	require.NoError(t, err)

	resp, err := c.Get(t.Context(), "/x")
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, `{"message":"nope"}`, string(resp.Body))
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(base, nil, Options{})
	require.NoError(t, err)
	_, err = c.Get(t.Context(), "/x")
	assert.ErrorIs(t, err, domain.ErrBackendUnreachable)
}

func TestClient_CancelledContext(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusOK, `{}`)
	c, err := New(srv.URL, nil, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = c.Get(ctx, "/x")
	assert.True(t, errors.Is(err, context.Canceled))
	assert.ErrorIs(t, err, domain.ErrBackendUnreachable)
}

func TestClient_PostMultipart(t *testing.T) {
	var gotName, gotContent, gotField, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err == nil {
			data, _ := io.ReadAll(f)
			f.Close()
			gotName, gotContent = hdr.Filename, string(data)
			gotType = hdr.Header.Get("Content-Type")
		}
		gotField = r.FormValue("note")
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, TokenSourceFunc(func() string { return "T" }), Options{})
	require.NoError(t, err)

	resp, err := c.PostMultipart(t.Context(), "/payments/upload",
		FilePart{Field: "file", Filename: "p.csv", ContentType: "text/csv", Content: strings.NewReader("a,b\n")},
		map[string]string{"note": "hi"})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "p.csv", gotName)
	assert.Equal(t, "a,b\n", gotContent)
	assert.Equal(t, "hi", gotField)
	assert.Equal(t, "text/csv", gotType)
}
