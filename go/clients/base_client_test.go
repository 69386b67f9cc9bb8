package clients

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRequestReturnsBodyOn2xx(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/teams/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c := NewBaseClient(ts.URL + "/")
	body, err := c.Get(context.Background(), "/api/teams/")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
}

func TestMakeRequestNon2xxIsHTTPError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"boom"}`))
	}))
	defer ts.Close()

	var observed int
	c := NewBaseClient(ts.URL)
	c.SetObserver(func(method, endpoint string, status int, d time.Duration, err error) {
		observed = status
		assert.Equal(t, http.MethodGet, method)
		assert.Equal(t, "/api/users/", endpoint)
		assert.Error(t, err)
	})

	_, err := c.Get(context.Background(), "/api/users/")
	require.Error(t, err)

	var herr *HTTPError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusInternalServerError, herr.StatusCode)
	assert.Equal(t, "HTTP error! status: 500", err.Error())
	assert.Equal(t, 500, StatusCode(err))
	assert.False(t, IsTransport(err))
	assert.Equal(t, 500, observed)
}

func TestMakeRequestConnectionFailureIsTransportError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := NewBaseClient(url)
	_, err := c.Get(context.Background(), "/api/users/")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, 0, StatusCode(err))
}

func TestMakeRequestCancelledContextIsTransportError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewBaseClient(ts.URL)
	_, err := c.Get(ctx, "/api/users/")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPatchJSONSendsJSONBody(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"email":"a@b.c"}`, string(body))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := NewBaseClient(ts.URL)
	_, err := c.PatchJSON(context.Background(), "/api/users/1/", map[string]string{"email": "a@b.c"})
	require.NoError(t, err)
}
