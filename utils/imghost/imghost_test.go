package imghost

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	c := NewClient(url, "test-api-key")
	c.retryDelay = time.Millisecond
	return c
}

func TestUploadSuccess(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "test-api-key", r.FormValue("key"))
		_, header, err := r.FormFile("image")
		require.NoError(t, err)
		require.Equal(t, "tacos.png", header.Filename)
		fmt.Fprint(w, `{"success":true,"data":{"url":"https://img.example/tacos.png"}}`)
	}))
	defer server.Close()

	url, err := newTestClient(server.URL).Upload("tacos.png", "image/png", []byte("fake-png"))
	require.NoError(t, err)
	require.Equal(t, "https://img.example/tacos.png", url)
	require.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestUploadRetriesThenSucceeds(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) < 3 {
			fmt.Fprint(w, `{"success":false,"error":{"message":"rate limited"}}`)
			return
		}
		fmt.Fprint(w, `{"success":true,"data":{"url":"https://img.example/ok.png"}}`)
	}))
	defer server.Close()

	url, err := newTestClient(server.URL).Upload("ok.png", "image/png", []byte("fake-png"))
	require.NoError(t, err)
	require.Equal(t, "https://img.example/ok.png", url)
	require.Equal(t, int32(3), atomic.LoadInt32(&requests))
}

func TestUploadExhaustsAttempts(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		fmt.Fprint(w, `{"success":false,"error":{"message":"storage full"}}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Upload("nope.png", "image/png", []byte("fake-png"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "storage full")
	require.Equal(t, int32(3), atomic.LoadInt32(&requests))
}

func TestUploadRejectsOversizedImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("oversized image must not reach the host")
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Upload("huge.png", "image/png", make([]byte, MaxImageBytes+1))
	require.Error(t, err)
}
