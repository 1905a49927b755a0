package whttp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTMLTitle(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{"simple", "<html><head><title>Not Found</title></head></html>", "Not Found", true},
		{"empty title", "<html><head><title></title></head></html>", "", true},
		{"no title", "<html><body>hi</body></html>", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := getHTMLTitle(tt.body)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("getHTMLTitle() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSendHTTPRequest_PostsBodyAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "https://leetcode.com", r.Header.Get("Referer"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"query":"q"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := NewClient(Options{})
	require.NoError(t, err)

	res, err := c.SendHTTPRequest(context.Background(), &WHTTPReq{
		Method: "POST",
		URL:    srv.URL,
		Body:   []byte(`{"query":"q"}`),
		Headers: []WHTTPHeader{
			{Name: "Content-Type", Value: "application/json"},
			{Name: "Referer", Value: "https://leetcode.com"},
		},
	})
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, `{"ok":true}`, res.BodyString)
	assert.Empty(t, res.HTTPTitle)
}

func TestSendHTTPRequest_NonOKKeepsStatusAndTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("<html><head><title>\n  Application Error\n</title></head></html>"))
	}))
	defer srv.Close()

	c, err := NewClient(Options{})
	require.NoError(t, err)

	res, err := c.SendHTTPRequest(context.Background(), &WHTTPReq{Method: "GET", URL: srv.URL})
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Equal(t, "Application Error", res.HTTPTitle)
	assert.EqualError(t, res.StatusError(), "request failed with status 503 (Application Error)")
}

func TestSendHTTPRequest_RetryMax(t *testing.T) {
	tests := []struct {
		name      string
		retryMax  int
		wantCalls int32
	}{
		{"single attempt by default", 0, 1},
		{"retries server errors", 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer srv.Close()

			c, err := NewClient(Options{RetryMax: tt.retryMax})
			require.NoError(t, err)
			c.rc.RetryWaitMin = 0
			c.rc.RetryWaitMax = 0

			res, err := c.SendHTTPRequest(context.Background(), &WHTTPReq{Method: "GET", URL: srv.URL})
			require.NoError(t, err)
			assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestNewClient_BadProxy(t *testing.T) {
	_, err := NewClient(Options{Proxy: "://bad"})
	if err == nil {
		t.Fatal("expected an error for an invalid proxy URL")
	}
}
