package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cvListJSON = `[
  {"id": 1, "name": "Anna Nowak", "position_applied": "Backend", "score": 87.5, "status": "new", "date_received": "2024-03-01"},
  {"id": "2", "name": "Jan Kowalski", "position_applied": "QA", "score": 61}
]`

func TestHTTPFetcher_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/cv", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(cvListJSON))
	}))
	defer srv.Close()

	fetch, err := NewHTTPFetcher(srv.URL, WithToken("s3cret"))
	require.NoError(t, err)

	records, err := fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "Anna Nowak", records[0].Name)
	assert.InDelta(t, 87.5, records[0].Score, 0.001)
	assert.Equal(t, "2", records[1].ID)
}

func TestHTTPFetcher_TrailingSlashBase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cv", r.URL.Path)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	fetch, err := NewHTTPFetcher(srv.URL + "/api/")
	require.NoError(t, err)

	records, err := fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestHTTPFetcher_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantOp     string
		wantStatus int
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantOp: "http", wantStatus: 500},
		{name: "unauthorized", status: http.StatusUnauthorized, wantOp: "http", wantStatus: 401},
		{name: "malformed JSON", status: http.StatusOK, body: `{"not": "a list"`, wantOp: "decode"},
		{name: "object instead of list", status: http.StatusOK, body: `{"id": 1}`, wantOp: "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			fetch, err := NewHTTPFetcher(srv.URL)
			require.NoError(t, err)

			_, err = fetch(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFetchFailed)

			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantOp, fe.Op)
			assert.Equal(t, tt.wantStatus, fe.StatusCode)
			assert.Equal(t, srv.URL+"/cv", fe.URL)
		})
	}
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	fetch, err := NewHTTPFetcher(srv.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNewHTTPFetcher_InvalidBase(t *testing.T) {
	for _, base := range []string{"ftp://example.com", "http://", "://bad"} {
		t.Run(base, func(t *testing.T) {
			_, err := NewHTTPFetcher(base)
			assert.Error(t, err)
		})
	}
}

func TestNewHTTPFetcher_DefaultBase(t *testing.T) {
	fetch, err := NewHTTPFetcher("")
	require.NoError(t, err)
	assert.NotNil(t, fetch)
}

func TestFetchError_Message(t *testing.T) {
	err := &FetchError{Op: "http", URL: "http://localhost:8080/cv", StatusCode: 503}
	assert.Equal(t, "fetch http http://localhost:8080/cv: HTTP 503", err.Error())

	wrapped := &FetchError{Op: "decode", Err: errors.New("unexpected EOF")}
	assert.Equal(t, "fetch decode: unexpected EOF", wrapped.Error())
}
