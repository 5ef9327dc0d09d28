package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxyRequest_Success(t *testing.T) {

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "yes", r.Header.Get("X-Test"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	proxy := NewProxy(map[string]string{"X-Test": "yes"}, nil, 5, time.Millisecond, time.Second)
	data, err := proxy.Request(server.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"ok":true}`), data)
}

func TestProxyRequest_RetryOnRateLimit(t *testing.T) {

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("pong"))
	}))
	defer server.Close()

	proxy := NewProxy(nil, nil, 5, time.Millisecond, time.Second)
	data, err := proxy.Request(server.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("pong"), data)
	assert.Equal(t, 3, attempts)
}

func TestProxyRequest_RetryOnServerError(t *testing.T) {

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer server.Close()

	proxy := NewProxy(nil, nil, 3, time.Millisecond, time.Second)
	data, err := proxy.Request(server.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("recovered"), data)
	assert.Equal(t, 2, attempts)
}

func TestProxyRequest_Exhausted(t *testing.T) {

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	proxy := NewProxy(nil, nil, 3, time.Millisecond, time.Second)
	data, err := proxy.Request(server.URL)
	require.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, 3, attempts)

	var fetchErr *FetchExhaustedError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, server.URL, fetchErr.URL)
	assert.Equal(t, 3, fetchErr.Attempts)
	assert.Contains(t, err.Error(), "failed to fetch after 3 attempts")
}

func TestProxyRequest_NetworkError(t *testing.T) {

	// Closing the server before the request guarantees a transport error
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	proxy := NewProxy(nil, nil, 2, time.Millisecond, time.Second)
	_, err := proxy.Request(url)

	var fetchErr *FetchExhaustedError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 2, fetchErr.Attempts)
}
