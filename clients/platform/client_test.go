package platform_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jdgroup-ug/storefront/clients/platform"
	"github.com/jdgroup-ug/storefront/retry"
)

// fastRetry drops all backoff delays so tests run instantly.
var fastRetry = retry.Config{MaxRetries: 3}

func testClient(serverURL string) *platform.Client {
	return platform.New(serverURL, "anon-key", 5*time.Second).WithRetry(fastRetry)
}

func TestDoRetry_ServerErrorIsRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ListProducts(context.Background())

	assert.Nil(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestDoRetry_ExhaustedRetriesSurfaceAPIError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ListProducts(context.Background())

	var apiErr *platform.APIError
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	}
	assert.EqualValues(t, 4, atomic.LoadInt32(&calls))
}

func TestDoRetry_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no such row"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetProduct(context.Background(), "", "ghost")

	assert.True(t, platform.IsNotFound(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	var apiErr *platform.APIError
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, "no such row", apiErr.Message)
	}
}

func TestDo_SendsAPIKeyAndAnonBearer(t *testing.T) {
	var gotAPIKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ListCategories(context.Background())

	assert.Nil(t, err)
	assert.Equal(t, "anon-key", gotAPIKey)
	assert.Equal(t, "Bearer anon-key", gotAuth)
}

func TestDo_UserTokenBecomesBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ListOrders(context.Background(), "user-token", "u1")

	assert.Nil(t, err)
	assert.Equal(t, "Bearer user-token", gotAuth)
}

func TestQuery_BuildsRESTFilters(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ListSearchHistory(context.Background(), "tok", "u1")

	assert.Nil(t, err)
	assert.Equal(t, "/rest/v1/search_history", gotPath)
	assert.Contains(t, gotQuery, "user_id=eq.u1")
	assert.Contains(t, gotQuery, "order=created_at.desc")
}

func TestInsertFavorite_MergesDuplicateRows(t *testing.T) {
	var gotPrefer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrefer = r.Header.Get("Prefer")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := testClient(srv.URL).InsertFavorite(context.Background(), "tok", "u1", "p1")

	assert.Nil(t, err)
	assert.Equal(t, "resolution=merge-duplicates", gotPrefer)
}

func TestCheckConnection(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	assert.True(t, testClient(srv.URL).CheckConnection(context.Background()))
	assert.Contains(t, gotQuery, "select=id")
	assert.Contains(t, gotQuery, "limit=1")

	srv.Close()
	assert.False(t, testClient(srv.URL).CheckConnection(context.Background()))
}
