package fetch

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

func newTestClient(t *testing.T, srv *httptest.Server, path string) *Client {
	t.Helper()
	c, err := New(srv.URL+path, 5*time.Second, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadEndpoints(t *testing.T) {
	for _, endpoint := range []string{"", "/api/transactions/", "ftp://host/api/", "http://"} {
		_, err := New(endpoint, time.Second)
		assert.Error(t, err, "endpoint %q", endpoint)
	}
}

func TestNew_DefaultLoggerIsSilent(t *testing.T) {
	c, err := New("http://api.test/tx/", time.Second)
	require.NoError(t, err)
	assert.Equal(t, io.Discard, c.log.Logger.Out)
}

func TestFirstPageURL(t *testing.T) {
	c, err := New("http://dash.test/cphapp/api/transactions/?stale=1", time.Second)
	require.NoError(t, err)

	assert.Equal(t,
		"http://dash.test/cphapp/api/transactions/?transaction_date__year=2026",
		c.FirstPageURL("transaction_date__year=2026"))
	assert.Equal(t,
		"http://dash.test/cphapp/api/transactions/?a=1",
		c.FirstPageURL("?a=1"))
}

func TestResolve(t *testing.T) {
	c, err := New("http://dash.test/cphapp/api/transactions/", time.Second)
	require.NoError(t, err)

	abs, err := c.Resolve("http://other.test/cphapp/api/transactions/?page=2")
	require.NoError(t, err)
	assert.Equal(t, "http://other.test/cphapp/api/transactions/?page=2", abs)

	rel, err := c.Resolve("?page=3&transaction_date__year=2026")
	require.NoError(t, err)
	assert.Equal(t, "http://dash.test/cphapp/api/transactions/?page=3&transaction_date__year=2026", rel)

	rooted, err := c.Resolve("/cphapp/api/transactions/?page=4")
	require.NoError(t, err)
	assert.Equal(t, "http://dash.test/cphapp/api/transactions/?page=4", rooted)

	_, err = c.Resolve("http://bad host/")
	assert.Error(t, err)
}

func TestPage_Decodes(t *testing.T) {
	var gotAccept, gotRequestID, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotRequestID = r.Header.Get(RequestIDHeader)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":1,"next":"http://x.test/?page=2","previous":null,
			"results":[{"id":"t1","transaction_type":"sell_order","status":"success","amount":"80.00"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "/api/transactions/")
	ctx := WithRequestID(context.Background(), "cycle-1")
	page, err := c.Page(ctx, c.FirstPageURL("transaction_date__day=1"))
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "cycle-1", gotRequestID)
	assert.Equal(t, "transaction_date__day=1", gotQuery)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "t1", page.Results[0].ID)
	next, ok := page.NextLink()
	assert.True(t, ok)
	assert.Equal(t, "http://x.test/?page=2", next)
}

func TestPage_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Not found."}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "/api/transactions/")
	_, err := c.Page(context.Background(), c.FirstPageURL(""))
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, se.Body, "Not found.")
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestPage_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "/")
	_, err := c.Page(context.Background(), c.FirstPageURL(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding page")
}

func TestPage_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "/")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Page(ctx, c.FirstPageURL(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequestID_Empty(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
}
