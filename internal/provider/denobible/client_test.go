package denobible

import (
	"context"
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

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	transport := provider.NewTransport(provider.Options{
		HTTPClient: server.Client(),
		RPS:        -1,
	})
	return New(transport, WithBaseURL(server.URL+"/api/")), server
}

func TestBookPath(t *testing.T) {
	tests := map[string]string{
		"john":            "john",
		"1 John":          "1john",
		"1%20john":        "1john",
		"Song of Solomon": "songofsolomon",
		"%zz":             "%zz",
	}
	for in, want := range tests {
		assert.Equal(t, want, BookPath(in), in)
	}
}

func TestClient_URL(t *testing.T) {
	c := New(provider.NewTransport(provider.Options{}))

	assert.Equal(t, "https://bible-api.deno.dev/api/verses/naa/john/3", c.URL("john", 3, "naa"))
	assert.Equal(t, "https://bible-api.deno.dev/api/verses/ra/1john/1", c.URL("1 John", 1, "ra"))
	assert.Equal(t, provider.DenoBible, c.ID())
}

func TestClient_FetchRaw(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join("testdata", "john_3_naa.json"))
	require.NoError(t, err)

	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/verses/naa/john/3", r.URL.Path)
		_, _ = w.Write(fixture)
	})
	defer server.Close()

	raw, err := client.FetchRaw(context.Background(), "john", 3, "naa")
	require.NoError(t, err)

	verses := scripture.Normalize(raw)
	require.Len(t, verses, 2)
	assert.Equal(t, 1, verses[0].Verse)
	assert.Contains(t, verses[0].Text, "Nicodemos")
}

func TestClient_FetchRaw_ServerError(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.FetchRaw(context.Background(), "john", 3, "naa")

	assert.ErrorIs(t, err, provider.ErrServer)
}
