package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper: hace la petición y devuelve código HTTP + error de red (si hubo)
func fetchURL(c HTTPClient, url string) (int, error) {
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	resp, err := c.Do(req)
	if err != nil {
		return 0, err // error de transporte (timeout, conexión, etc.)
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func TestHTTPClientHandles500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	code, err := fetchURL(NewHTTPClient(2*time.Second), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestHTTPClientHandles404(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	code, err := fetchURL(NewHTTPClient(2*time.Second), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHTTPClientHandlesTimeout(t *testing.T) {
	// servidor fake que se tarda más del timeout
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := fetchURL(NewHTTPClient(100*time.Millisecond), srv.URL)
	assert.Error(t, err)
}

func TestGetJSONWithRetry(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct{ OK bool }
	require.NoError(t, GetJSONWithRetry(context.Background(), srv.Client(), srv.URL, &out))
	assert.True(t, out.OK)
	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))
}

func TestGetJSONWithRetryGivesUpOn4xx(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("nope"))
	}))
	defer srv.Close()

	var out map[string]any
	err := GetJSONWithRetry(context.Background(), srv.Client(), srv.URL, &out)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Status)
	assert.Equal(t, "nope", string(se.Body))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestGetJSONEmptyURL(t *testing.T) {
	assert.Error(t, getJSON(context.Background(), http.DefaultClient, "", nil))
}
