package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestyClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote/TCS:NSE", r.URL.Path)
		assert.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "en", r.URL.Query().Get("hl"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"price": 3890.5}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, "Mozilla/5.0")

	var result struct {
		Price float64 `json:"price"`
	}
	resp, err := client.Get(context.Background(), "/quote/TCS:NSE", map[string]string{"hl": "en"}, nil, &result)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3890.5, result.Price)
}

func TestRestyClient_GetWithoutResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("<html>missing</html>"))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, "")
	resp, err := client.Get(context.Background(), "/quote/NOPE:NSE", nil, map[string]string{"Accept": "text/html"}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "missing")
}
