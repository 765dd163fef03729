package modrinth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"modrith/internal/domain"
	"modrith/internal/source/modrinth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "sodium", r.URL.Query().Get("query"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hits": [
				{
					"project_id": "AANobbMI",
					"slug": "sodium",
					"title": "Sodium",
					"description": "A modern rendering engine",
					"downloads": 1000000,
					"latest_version": "0.5.8"
				}
			],
			"offset": 0, "limit": 10, "total_hits": 1
		}`))
	}))
	defer server.Close()

	client := modrinth.NewClient(server.Client(), server.URL, "modrith-test")

	results, err := client.Search(context.Background(), "sodium", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "AANobbMI", results[0].ID)
	assert.Equal(t, "Sodium", results[0].Name)
	assert.Equal(t, "0.5.8", results[0].LatestVersion)
	assert.Equal(t, int64(1000000), results[0].Downloads)
	assert.Equal(t, "https://modrinth.com/mod/sodium", results[0].SourceURL)
}

func TestSearch_RemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("index is down"))
	}))
	defer server.Close()

	client := modrinth.NewClient(server.Client(), server.URL, "modrith-test")

	_, err := client.Search(context.Background(), "sodium", 10)
	var remoteErr *domain.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusServiceUnavailable, remoteErr.Status)
	assert.Equal(t, "index is down", remoteErr.Body)
}

func TestSearch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Refuse connections

	client := modrinth.NewClient(nil, server.URL, "modrith-test")

	_, err := client.Search(context.Background(), "sodium", 10)
	var netErr *domain.NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestSearch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := modrinth.NewClient(server.Client(), server.URL, "modrith-test")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Search(ctx, "sodium", 10)
	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestSearch_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{truncated"))
	}))
	defer server.Close()

	client := modrinth.NewClient(server.Client(), server.URL, "modrith-test")

	_, err := client.Search(context.Background(), "sodium", 10)
	assert.Error(t, err)
}

func TestGetProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/project/sodium", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": "AANobbMI",
			"slug": "sodium",
			"title": "Sodium",
			"description": "A modern rendering engine",
			"downloads": 1000000,
			"project_type": "mod"
		}`))
	}))
	defer server.Close()

	client := modrinth.NewClient(server.Client(), server.URL, "modrith-test")

	proj, err := client.GetProject(context.Background(), "sodium")
	require.NoError(t, err)
	assert.Equal(t, "AANobbMI", proj.ID)
	assert.Equal(t, "Sodium", proj.Name)
}
