package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/liftmate/liftmate/pkg/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		timeout []time.Duration
		want    time.Duration
	}{
		{"default timeout", nil, defaultTimeout},
		{"custom timeout", []time.Duration{5 * time.Second}, 5 * time.Second},
		{"zero timeout uses default", []time.Duration{0}, defaultTimeout},
		{"first timeout wins", []time.Duration{3 * time.Second, 9 * time.Second}, 3 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient("https://graph.example.com", tt.timeout...)
			assert.Equal(t, "https://graph.example.com", client.baseURL)
			assert.Equal(t, tt.want, client.httpClient.Timeout)
		})
	}
}

func TestWithDefaultRetry(t *testing.T) {
	client := NewClient("https://graph.example.com").With(WithDefaultRetry())

	require.NotNil(t, client.retryConfig)
	assert.NotNil(t, client.retryConfig.IsRetryable)
}

func TestWithHTTPClient_KeepsTimeout(t *testing.T) {
	client := NewClient("", 2*time.Second).With(WithHTTPClient(&http.Client{}))

	assert.Equal(t, 2*time.Second, client.httpClient.Timeout)
}

func TestClient_Get(t *testing.T) {
	tests := []struct {
		name         string
		handler      http.HandlerFunc
		headers      map[string]string
		expectedBody string
		expectedCode int
	}{
		{
			name: "success",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				_, _ = w.Write([]byte(`{"id":"42","name":"Lisa"}`))
			},
			expectedBody: `{"id":"42","name":"Lisa"}`,
		},
		{
			name: "headers",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
				_, _ = w.Write([]byte(`{}`))
			},
			headers:      map[string]string{"Authorization": "Bearer token"},
			expectedBody: `{}`,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":"not found"}`))
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name: "no content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			body, err := NewClient(server.URL).Get(context.Background(), "/me", tt.headers)

			if tt.expectedCode != 0 {
				var httpErr *HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, tt.expectedCode, httpErr.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedBody, string(body))
		})
	}
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{StatusCode: 400, Body: `{"error":"bad request"}`}
	assert.Equal(t, `HTTP 400: {"error":"bad request"}`, err.Error())
}

func TestIsHTTPRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"500", &HTTPError{StatusCode: 500}, true},
		{"503", &HTTPError{StatusCode: 503}, true},
		{"429", &HTTPError{StatusCode: 429}, true},
		{"400", &HTTPError{StatusCode: 400}, false},
		{"401", &HTTPError{StatusCode: 401}, false},
		{"transport", errors.New("connection reset"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isHTTPRetryable(tt.err))
		})
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(server.URL).Get(ctx, "/slow", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Get_WithRetry(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL).With(WithRetry(resilience.RetryConfig{
		MaxAttempts:       5,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2,
	}))

	body, err := client.Get(context.Background(), "/retry", nil)

	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "success"))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestClient_Get_NoRetryOnClientError(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL).With(WithDefaultRetry())

	_, err := client.Get(context.Background(), "/me", nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}
