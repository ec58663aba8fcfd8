package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fabioalbuqueque/pregacao/internal/cache"
	"github.com/Fabioalbuqueque/pregacao/internal/metrics"
	"github.com/Fabioalbuqueque/pregacao/internal/scripture"
	"github.com/Fabioalbuqueque/pregacao/internal/search"
	"github.com/Fabioalbuqueque/pregacao/internal/service"
	"github.com/Fabioalbuqueque/pregacao/internal/store"
	"github.com/Fabioalbuqueque/pregacao/internal/validation"
)

// testEnvelope decodes the response envelope with typed data.
type testEnvelope[T any] struct {
	Version int               `json:"v"`
	Success bool              `json:"success"`
	Data    T                 `json:"data"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details"`
}

func decode[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

// fakeFetcher serves canned chapters. Translations listed in missing fall back
// to almeida; chapters listed in empty have no verses anywhere.
type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	missing map[string]bool
	empty   map[string]bool
}

func (f *fakeFetcher) FetchChapter(_ context.Context, book string, chapter int, translation string) scripture.Passage {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	key := scripture.NewChapterKey(translation, book, chapter)
	p := scripture.Passage{Key: key, Translation: key.Translation, Verses: []scripture.Verse{}}
	if f.empty[book] {
		return p
	}
	if f.missing[key.Translation] {
		p.Translation = "almeida"
	}
	p.Source = "denobible"
	p.Verses = []scripture.Verse{
		{Verse: 16, Text: "Porque Deus amou o mundo de tal maneira que deu o seu Filho unigênito"},
		{Verse: 17, Text: "Porque Deus enviou o seu Filho ao mundo"},
	}
	return p
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type testServer struct {
	api      humatest.TestAPI
	fetcher  *fakeFetcher
	cache    *cache.FileStore
	services *Services
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	recorder := metrics.New()

	fileStore, err := cache.NewFileStore(t.TempDir())
	require.NoError(t, err)

	st, err := store.NewInMemory(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewSearchIndex(search.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	fetcher := &fakeFetcher{
		missing: map[string]bool{"kjv": true},
		empty:   map[string]bool{"obadiah": true},
	}
	passages := service.NewPassageService(fetcher, fileStore, index, "almeida", recorder, logger)

	services := &Services{
		Passages: passages,
		Outlines: service.NewOutlineService(st, validation.New(), logger),
		Search:   index,
		Reindex:  service.NewReindexer(passages, fileStore, index, logger),
		Cache:    fileStore,
		Store:    st,
		Metrics:  recorder,
	}

	srv := NewServer(services, Options{}, logger)

	return &testServer{
		api:      humatest.Wrap(t, srv.API()),
		fetcher:  fetcher,
		cache:    fileStore,
		services: services,
	}
}

func TestHealth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decode[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, EnvelopeVersion, env.Version)
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", env.Data.Status)
	assert.Equal(t, "healthy", env.Data.Components["cache"].Status)
	assert.Equal(t, "healthy", env.Data.Components["database"].Status)
	assert.Equal(t, "healthy", env.Data.Components["search"].Status)
}

func TestHealth_Degraded(t *testing.T) {
	ts := setupTestServer(t)
	ts.services.Search = nil
	ts.services.Cache = nil

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decode[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "degraded", env.Data.Status)
	assert.Equal(t, "degraded", env.Data.Components["search"].Status)
}

func TestListTranslations(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/translations")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decode[struct {
		Default      string                `json:"default"`
		Translations []TranslationResponse `json:"translations"`
	}](t, resp.Body.Bytes())

	assert.Equal(t, "almeida", env.Data.Default)
	require.Len(t, env.Data.Translations, 3)
	assert.Equal(t, TranslationResponse{Code: "almeida", Name: "Almeida ARA (PT-BR)"}, env.Data.Translations[0])
}

func TestListBooks(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/books")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decode[struct {
		Books []BookResponse `json:"books"`
	}](t, resp.Body.Bytes())

	require.Len(t, env.Data.Books, 66)
	assert.Equal(t, "genesis", env.Data.Books[0].Slug)
	assert.Equal(t, 50, env.Data.Books[0].Chapters)
	assert.Equal(t, "revelation", env.Data.Books[65].Slug)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	ts.api.Get("/api/v1/passages/almeida/john/3")

	resp := ts.api.Get("/metrics")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.Contains(resp.Body.String(), "pregacao_cache_operations_total"))
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/nothing-here")

	require.Equal(t, http.StatusNotFound, resp.Code)
	env := decode[any](t, resp.Body.Bytes())
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestRecoverer(t *testing.T) {
	handler := recoverer(slog.New(slog.DiscardHandler))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL", decode[any](t, w.Body.Bytes()).Code)
}
