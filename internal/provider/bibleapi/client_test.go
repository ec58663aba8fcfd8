package bibleapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Fabioalbuqueque/pregacao/internal/provider"
	"github.com/Fabioalbuqueque/pregacao/internal/scripture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err, "load fixture %s", name)
	return data
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	transport := provider.NewTransport(provider.Options{
		HTTPClient: server.Client(),
		RPS:        -1,
	})
	return New(transport, WithBaseURL(server.URL)), server
}

func TestClient_URL(t *testing.T) {
	c := New(provider.NewTransport(provider.Options{}))

	assert.Equal(t, "https://bible-api.com/john+3?translation=almeida", c.URL("john", 3, "almeida"))
	assert.Equal(t, "https://bible-api.com/1%20john+2?translation=kjv", c.URL("1 john", 2, "kjv"))
	assert.Equal(t, provider.BibleAPI, c.ID())
}

func TestClient_FetchRaw(t *testing.T) {
	fixture := loadFixture(t, "john_3_almeida.json")

	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/john+3", r.URL.Path)
		assert.Equal(t, "almeida", r.URL.Query().Get("translation"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(fixture)
	})
	defer server.Close()

	raw, err := client.FetchRaw(context.Background(), "john", 3, "almeida")
	require.NoError(t, err)

	verses := scripture.Normalize(raw)
	require.Len(t, verses, 3)
	assert.Equal(t, 15, verses[0].Verse)
	assert.Equal(t, 16, verses[1].Verse)
	assert.Contains(t, verses[1].Text, "Porque Deus amou o mundo")
}

func TestClient_FetchRaw_NotFound(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	})
	defer server.Close()

	_, err := client.FetchRaw(context.Background(), "nowhere", 1, "web")

	require.Error(t, err)
	var fetchErr *provider.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, provider.BibleAPI, fetchErr.Provider)
	assert.ErrorIs(t, err, provider.ErrNotFound)
}
