package datastore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strrl/lain/internal/query"
)

const statsBody = `{
	"api_calls": 10, "sessions": 1, "input_tokens": 2000, "output_tokens": 300, "cost": 0.42,
	"models": {"claude-sonnet-4": 7, "claude-opus-4": 3},
	"sessions_list": [{"date": "2024-06-15", "project": "lain", "session_id": "abc",
		"models": {"claude-sonnet-4": 7, "claude-opus-4": 3}, "api_calls": 10}]
}`

func TestFetchProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{
			"-home-me-lain": {"name": "lain", "folder": "-home-me-lain", "sessions": 3},
			"-home-me-x": {"name": "x", "sessions": 1}
		}`))
	}))
	defer srv.Close()

	projects, err := NewClient(srv.URL+"/", time.Second).FetchProjects(context.Background())

	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, 3, projects["-home-me-lain"].SessionCount)
	assert.Equal(t, "-home-me-x", projects["-home-me-x"].Folder, "folder filled from key")
}

func TestFetchStatsSendsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stats", r.URL.Path)
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(statsBody))
	}))
	defer srv.Close()

	q := query.Query{Projects: "-home-a,-home-b", Start: "2024-06-09", End: "2024-06-15"}
	snap, err := NewClient(srv.URL, time.Second).FetchStats(context.Background(), q)

	require.NoError(t, err)
	assert.Equal(t, q.Encode(), gotQuery)
	assert.Equal(t, []string{"claude-sonnet-4", "claude-opus-4"}, snap.ModelCounts.Names())
	require.Len(t, snap.SessionsList, 1)
	assert.Equal(t, "abc", snap.SessionsList[0].SessionID)
}

func TestFetchStatsWithoutParameters(t *testing.T) {
	var gotQuery = "unset"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(statsBody))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).FetchStats(context.Background(), query.Query{})

	require.NoError(t, err)
	assert.Equal(t, "", gotQuery)
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).FetchStats(context.Background(), query.Query{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, "boom", se.Body)
}

func TestFetchDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models": [1, 2]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).FetchStats(context.Background(), query.Query{})

	assert.True(t, errors.Is(err, ErrDecode), "got %v", err)
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).FetchProjects(context.Background())

	assert.True(t, errors.Is(err, ErrTransport), "got %v", err)
}

func TestStatsURL(t *testing.T) {
	c := NewClient("http://example.test/", 0)
	assert.Equal(t, "http://example.test/api/stats", c.StatsURL(query.Query{}))
	assert.Equal(t, "http://example.test/api/stats?end=2024-01-01", c.StatsURL(query.Query{End: "2024-01-01"}))
	assert.Equal(t, DefaultBaseURL+"/api/projects", NewClient("", 0).ProjectsURL())
}
