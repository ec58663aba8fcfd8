package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Fabioalbuqueque/pregacao/internal/cache"
	"github.com/Fabioalbuqueque/pregacao/internal/metrics"
	"github.com/Fabioalbuqueque/pregacao/internal/scripture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher returns verses while online and an empty passage once offline.
type stubFetcher struct {
	mu      sync.Mutex
	verses  []scripture.Verse
	offline bool
	calls   []scripture.ChapterKey
}

func (f *stubFetcher) FetchChapter(_ context.Context, book string, chapter int, translation string) scripture.Passage {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := scripture.NewChapterKey(translation, book, chapter)
	f.calls = append(f.calls, key)

	p := scripture.Passage{Key: key, Translation: key.Translation, Verses: []scripture.Verse{}}
	if f.offline || len(f.verses) == 0 {
		return p
	}
	p.Source = "stub"
	p.Verses = append([]scripture.Verse(nil), f.verses...)
	return p
}

func (f *stubFetcher) setOffline() {
	f.mu.Lock()
	f.offline = true
	f.mu.Unlock()
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// brokenStore fails every operation.
type brokenStore struct{}

func (brokenStore) EnsureDir(string) error { return errors.New("disk gone") }

func (brokenStore) ReadText(string) ([]byte, error) { return nil, errors.New("disk gone") }

func (brokenStore) WriteText(string, []byte) error { return errors.New("disk gone") }

type recordingIndexer struct {
	passages []scripture.Passage
	err      error
}

func (r *recordingIndexer) IndexPassage(_ context.Context, p scripture.Passage) error {
	r.passages = append(r.passages, p)
	return r.err
}

var john3 = []scripture.Verse{
	{Verse: 16, Text: "Porque Deus amou o mundo de tal maneira..."},
	{Verse: 17, Text: "Porque Deus enviou o seu Filho ao mundo..."},
}

func newTestPassageService(t *testing.T, fetcher ChapterFetcher) (*PassageService, *cache.FileStore) {
	t.Helper()
	store, err := cache.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewPassageService(fetcher, store, nil, "", metrics.New(), testLogger()), store
}

func TestGetChapter_MissFetchesAndPersists(t *testing.T) {
	fetcher := &stubFetcher{verses: john3}
	svc, store := newTestPassageService(t, fetcher)

	p := svc.GetChapter(context.Background(), "john", 3, "almeida")

	require.Equal(t, john3, p.Verses)
	assert.Equal(t, "stub", p.Source)

	data, err := os.ReadFile(filepath.Join(store.Root(), "almeida", "john", "3.json"))
	require.NoError(t, err)

	var entry scripture.Entry
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, john3, entry.Verses)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, 1, "entry holds only the verses field")
	assert.Contains(t, raw, "verses")
}

func TestGetChapter_CacheIdempotence(t *testing.T) {
	fetcher := &stubFetcher{verses: john3}
	svc, _ := newTestPassageService(t, fetcher)

	first := svc.GetChapter(context.Background(), "john", 3, "almeida")
	fetcher.setOffline()
	second := svc.GetChapter(context.Background(), "john", 3, "almeida")

	assert.Equal(t, first.Verses, second.Verses)
	assert.Equal(t, scripture.SourceCache, second.Source)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestGetChapter_CorruptEntryRefetches(t *testing.T) {
	fetcher := &stubFetcher{verses: john3}
	svc, store := newTestPassageService(t, fetcher)

	rel := cache.ChapterPath(scripture.NewChapterKey("almeida", "john", 3))
	require.NoError(t, store.WriteText(rel, []byte("{not json")))

	p := svc.GetChapter(context.Background(), "john", 3, "almeida")

	assert.Equal(t, john3, p.Verses)
	assert.Equal(t, 1, fetcher.callCount())

	cached, ok := svc.Cached("john", 3, "almeida")
	require.True(t, ok)
	assert.Equal(t, john3, cached.Verses)
}

func TestGetChapter_InvalidVersesRefetch(t *testing.T) {
	entries := map[string]string{
		"missing fields":  `{"verses":[{},{"verse":2,"text":""},{"verse":1,"text":"a"}]}`,
		"out of order":    `{"verses":[{"verse":2,"text":"b"},{"verse":1,"text":"a"}]}`,
		"duplicate verse": `{"verses":[{"verse":1,"text":"a"},{"verse":1,"text":"b"}]}`,
	}

	for name, body := range entries {
		t.Run(name, func(t *testing.T) {
			fetcher := &stubFetcher{verses: john3}
			svc, store := newTestPassageService(t, fetcher)

			rel := cache.ChapterPath(scripture.NewChapterKey("almeida", "john", 3))
			require.NoError(t, store.EnsureDir("almeida/john"))
			require.NoError(t, store.WriteText(rel, []byte(body)))

			p := svc.GetChapter(context.Background(), "john", 3, "almeida")

			assert.NotEqual(t, scripture.SourceCache, p.Source)
			assert.Equal(t, john3, p.Verses)
			assert.Equal(t, 1, fetcher.callCount())

			cached, ok := svc.Cached("john", 3, "almeida")
			require.True(t, ok)
			assert.Equal(t, john3, cached.Verses)
		})
	}
}

func TestGetChapter_EmptyResultNotPersisted(t *testing.T) {
	fetcher := &stubFetcher{}
	svc, store := newTestPassageService(t, fetcher)

	p := svc.GetChapter(context.Background(), "john", 3, "almeida")

	assert.True(t, p.Empty())
	assert.False(t, store.Exists("almeida/john/3.json"))

	svc.GetChapter(context.Background(), "john", 3, "almeida")
	assert.Equal(t, 2, fetcher.callCount(), "an empty result is retried on the next request")
}

func TestGetChapter_StoreUnavailable(t *testing.T) {
	fetcher := &stubFetcher{verses: john3}
	svc := NewPassageService(fetcher, brokenStore{}, nil, "", nil, testLogger())

	direct := svc.FetchChapter(context.Background(), "john", 3, "almeida")
	p := svc.GetChapter(context.Background(), "john", 3, "almeida")

	assert.Equal(t, direct, p)
}

func TestGetChapter_NoStore(t *testing.T) {
	fetcher := &stubFetcher{verses: john3}
	svc := NewPassageService(fetcher, nil, nil, "", nil, testLogger())

	p := svc.GetChapter(context.Background(), "john", 3, "almeida")

	assert.Equal(t, john3, p.Verses)
	_, ok := svc.Cached("john", 3, "almeida")
	assert.False(t, ok)
}

func TestGetChapter_DefaultTranslation(t *testing.T) {
	fetcher := &stubFetcher{verses: john3}
	svc, store := newTestPassageService(t, fetcher)

	assert.Equal(t, DefaultTranslation, svc.DefaultTranslation())

	p := svc.GetChapter(context.Background(), "john", 3, "")

	assert.Equal(t, DefaultTranslation, p.Key.Translation)
	assert.True(t, store.Exists("almeida/john/3.json"))
}

func TestGetChapter_IndexesAfterWrite(t *testing.T) {
	fetcher := &stubFetcher{verses: john3}
	store, err := cache.NewFileStore(t.TempDir())
	require.NoError(t, err)
	indexer := &recordingIndexer{err: errors.New("index closed")}

	svc := NewPassageService(fetcher, store, indexer, "", nil, testLogger())

	p := svc.GetChapter(context.Background(), "john", 3, "almeida")
	assert.Equal(t, john3, p.Verses, "indexing failure does not affect the result")

	svc.GetChapter(context.Background(), "john", 3, "almeida")

	require.Len(t, indexer.passages, 1, "cache hits are not re-indexed")
	assert.Equal(t, "almeida", indexer.passages[0].Key.Translation)
}

func TestFetchChapter_BypassesCache(t *testing.T) {
	fetcher := &stubFetcher{verses: john3}
	svc, store := newTestPassageService(t, fetcher)

	p := svc.FetchChapter(context.Background(), "john", 3, "almeida")

	assert.Equal(t, john3, p.Verses)
	assert.False(t, store.Exists("almeida/john/3.json"))
}

func TestRefreshChapter(t *testing.T) {
	fetcher := &stubFetcher{verses: john3[:1]}
	svc, _ := newTestPassageService(t, fetcher)

	svc.GetChapter(context.Background(), "john", 3, "almeida")

	fetcher.mu.Lock()
	fetcher.verses = john3
	fetcher.mu.Unlock()

	refreshed := svc.RefreshChapter(context.Background(), "john", 3, "almeida")
	assert.Equal(t, john3, refreshed.Verses)

	cached, ok := svc.Cached("john", 3, "almeida")
	require.True(t, ok)
	assert.Equal(t, john3, cached.Verses)

	fetcher.setOffline()
	kept := svc.RefreshChapter(context.Background(), "john", 3, "almeida")
	assert.Equal(t, john3, kept.Verses, "an empty refresh keeps the cached chapter")
	assert.Equal(t, scripture.SourceCache, kept.Source)
}
