package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_httpclient "github.com/status-im/cards-loader/httpclient/mocks"
)

func fastRetryOptions(maxRetries int) RetryOptions {
	opts := DefaultRetryOptions()
	opts.MaxRetries = maxRetries
	opts.BaseBackoff = time.Millisecond
	return opts
}

func TestClient_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	ctrl := gomock.NewController(t)
	handler := mock_httpclient.NewMockIHttpStatusHandler(ctrl)
	handler.EXPECT().OnRequest(StatusSuccess).Times(1)

	client := NewClient(DefaultRetryOptions(), handler, nil)

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestClient_RetriesRetryableStatus(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctrl := gomock.NewController(t)
	handler := mock_httpclient.NewMockIHttpStatusHandler(ctrl)
	gomock.InOrder(
		handler.EXPECT().OnRequest(StatusRateLimited),
		handler.EXPECT().OnRetry(),
		handler.EXPECT().OnRequest(StatusSuccess),
	)

	client := NewClient(fastRetryOptions(3), handler, nil)

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestClient_NonRetryableStatusReturnedAsResponse(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	ctrl := gomock.NewController(t)
	handler := mock_httpclient.NewMockIHttpStatusHandler(ctrl)
	handler.EXPECT().OnRequest(StatusHTTPError).Times(1)

	client := NewClient(fastRetryOptions(3), handler, nil)

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClient_ExhaustedRetriesReturnLastResponse(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(fastRetryOptions(2), nil, nil)

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	ctrl := gomock.NewController(t)
	handler := mock_httpclient.NewMockIHttpStatusHandler(ctrl)
	handler.EXPECT().OnRequest(StatusError).Times(2)
	handler.EXPECT().OnRetry().Times(1)

	client := NewClient(fastRetryOptions(2), handler, nil)

	req, _ := http.NewRequest(http.MethodGet, url, nil)
	resp, err := client.Do(req)
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 attempts failed")
}

func TestClient_ContextCancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	opts := DefaultRetryOptions()
	opts.MaxRetries = 3
	opts.BaseBackoff = 5 * time.Second

	client := NewClient(opts, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	start := time.Now()
	_, err := client.Do(req)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClient_FileProtocol(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"title":"cards"}`), 0o644))

	client := NewClient(DefaultRetryOptions(), nil, nil)

	req, _ := http.NewRequest(http.MethodGet, "file://"+filepath.ToSlash(dir)+"/config.json?v=1", nil)
	resp, err := client.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"title":"cards"}`, string(body))

	req, _ = http.NewRequest(http.MethodGet, "file://"+filepath.ToSlash(dir)+"/missing.json", nil)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClient_RateLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// 1 request per 400ms, burst of 1
	client := NewClient(DefaultRetryOptions(), nil, NewLimiter(150, 1))

	start := time.Now()
	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(0, 5))
	assert.Nil(t, NewLimiter(-1, 5))

	limiter := NewLimiter(120, 0)
	require.NotNil(t, limiter)
	assert.Equal(t, 1, limiter.Burst())
	assert.InDelta(t, 2.0, float64(limiter.Limit()), 0.0001)
}

func TestCalculateBackoffWithJitter(t *testing.T) {
	base := 100 * time.Millisecond

	assert.Equal(t, base, calculateBackoffWithJitter(base, 0))

	for attempt := 1; attempt <= 3; attempt++ {
		expected := base * time.Duration(1<<uint(attempt-1))
		backoff := calculateBackoffWithJitter(base, attempt)
		assert.GreaterOrEqual(t, backoff, expected)
		assert.Less(t, backoff, expected+expected/2)
	}
}

func TestIsRetryableError(t *testing.T) {
	retryable := []int{429, 500, 502, 503, 504}
	for _, code := range retryable {
		assert.True(t, isRetryableError(code), "status %d", code)
	}

	for _, code := range []int{400, 401, 403, 404, 410} {
		assert.False(t, isRetryableError(code), "status %d", code)
	}
}
