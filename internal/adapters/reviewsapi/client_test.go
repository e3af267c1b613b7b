package reviewsapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company_reviews/internal/adapters/reviewsapi"
	"company_reviews/internal/domain"
)

func TestClient_FetchPage_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			assert.Equal(t, "/reviews", r.URL.Path)
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`{"reviews":[{"id":"3","rating":4.5,"createdOn":"2022-01-01T00:00:00Z",
				"user":{"id":"user-2","firstName":"Adam","email":"user2@example.com"},
				"company":{"id":"company-1","name":"Test Company"}}]}`))
		}
	}))
	defer ts.Close()

	cl, err := reviewsapi.New(ts.URL, 100) // high RPS for tests
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := cl.FetchPage(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, 4.5, got[0].Rating)
	assert.Equal(t, "Adam", *got[0].User.FirstName)
	assert.Nil(t, got[0].User.LastName)
	assert.Equal(t, "Test Company", got[0].Company.Name)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&hits), int32(3))
}

func TestClient_FetchCount(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]int{"reviewsCount": 42})
	}))
	defer ts.Close()

	cl, err := reviewsapi.New(ts.URL, 100)
	require.NoError(t, err)
	n, err := cl.FetchCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestClient_BadRequestIsNotRetried(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"statusCode":400,"message":"Invalid page number: 0"}`))
	}))
	defer ts.Close()

	cl, err := reviewsapi.New(ts.URL, 100)
	require.NoError(t, err)
	_, err = cl.FetchPage(context.Background(), 0, 10)

	var se *reviewsapi.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.Equal(t, "Invalid page number: 0", se.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClient_SingleAttemptDoesNotRetry(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"statusCode":500,"message":"Error fetching reviews"}`))
	}))
	defer ts.Close()

	cl, err := reviewsapi.New(ts.URL, 100, reviewsapi.WithMaxAttempts(1))
	require.NoError(t, err)

	start := time.Now()
	_, err = cl.FetchPage(context.Background(), 1, 10)
	var se *reviewsapi.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.Equal(t, "Error fetching reviews", se.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	_, err = cl.FetchCount(context.Background())
	require.ErrorAs(t, err, &se)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits), "one request per fetch")
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestClient_RetriesServerErrorsUpToMaxAttempts(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	cl, err := reviewsapi.New(ts.URL, 100, reviewsapi.WithMaxAttempts(2))
	require.NoError(t, err)
	_, err = cl.FetchCount(context.Background())
	var se *reviewsapi.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.Status)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	base := ts.URL
	ts.Close() // nothing listens there any more

	cl, err := reviewsapi.New(base, 100)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = cl.FetchCount(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetwork))
}

func TestNew_RejectsBadBase(t *testing.T) {
	_, err := reviewsapi.New("not a url", 1)
	assert.Error(t, err)
}
