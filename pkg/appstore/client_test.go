package appstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func testClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key",
		WithBaseURL(srv.URL),
		WithHost("test-host"),
		WithLimiter(rate.NewLimiter(rate.Inf, 1)),
	)
}

func TestAppDetail(t *testing.T) {
	var gotReq *http.Request
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":123456,"name":"FitTrack","primaryGenre":"Health & Fitness","score":4.7,"reviews":8800,"price":0,"description":"Track it."}`))
	})

	detail, err := client.AppDetail(context.Background(), "123456")
	require.NoError(t, err)

	assert.Equal(t, "FitTrack", detail.DisplayName())
	assert.Equal(t, "Health & Fitness", detail.DisplayCategory())
	assert.InDelta(t, 4.7, detail.DisplayRating(), 1e-9)
	assert.EqualValues(t, 8800, detail.Reviews)

	require.NotNil(t, gotReq)
	assert.Equal(t, "/getAppDetail", gotReq.URL.Path)
	assert.Equal(t, "123456", gotReq.URL.Query().Get("appId"))
	assert.Equal(t, "us", gotReq.URL.Query().Get("country"))
	assert.Equal(t, "test-key", gotReq.Header.Get("X-RapidAPI-Key"))
	assert.Equal(t, "test-host", gotReq.Header.Get("X-RapidAPI-Host"))
}

func TestAppDetailRetriesServerError(t *testing.T) {
	attempts := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "upstream busy", http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"name":"Recovered","rating":4.0}`))
	})

	detail, err := client.AppDetail(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "Recovered", detail.DisplayName())
}

func TestAppDetailRetriesRateLimit(t *testing.T) {
	attempts := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	_, err := client.AppDetail(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
}

func TestAppDetailRetryTakesLimiterToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	// Burst 1 at 20/s: the second attempt must wait ~50ms for a fresh token.
	client := NewClient("test-key",
		WithBaseURL(srv.URL),
		WithLimiter(rate.NewLimiter(20, 1)),
	)

	start := time.Now()
	_, err := client.AppDetail(context.Background(), "1")
	require.Error(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestAppDetailDoesNotRetryClientError(t *testing.T) {
	attempts := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "no such app", http.StatusNotFound)
	})

	_, err := client.AppDetail(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Contains(t, err.Error(), "404")
}

func TestDisplayFallbacks(t *testing.T) {
	d := AppDetail{Title: "OnlyTitle", Genre: "Games", Score: 3.9}
	assert.Equal(t, "OnlyTitle", d.DisplayName())
	assert.Equal(t, "Games", d.DisplayCategory())
	assert.InDelta(t, 3.9, d.DisplayRating(), 1e-9)

	d = AppDetail{Name: "Named", Category: "Tools", Rating: 4.2, Score: 1.0}
	assert.Equal(t, "Named", d.DisplayName())
	assert.Equal(t, "Tools", d.DisplayCategory())
	assert.InDelta(t, 4.2, d.DisplayRating(), 1e-9)
}
