package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path"

	"github.com/Fabioalbuqueque/pregacao/internal/cache"
	"github.com/Fabioalbuqueque/pregacao/internal/metrics"
	"github.com/Fabioalbuqueque/pregacao/internal/scripture"
)

// DefaultTranslation is used when a request names no translation.
const DefaultTranslation = "almeida"

// ChapterFetcher performs the network search for a chapter.
type ChapterFetcher interface {
	FetchChapter(ctx context.Context, book string, chapter int, translation string) scripture.Passage
}

// ChapterStore is the file store holding cached chapters.
type ChapterStore interface {
	EnsureDir(rel string) error
	ReadText(rel string) ([]byte, error)
	WriteText(rel string, data []byte) error
}

// PassageIndexer receives every chapter written to the cache.
type PassageIndexer interface {
	IndexPassage(ctx context.Context, p scripture.Passage) error
}

// PassageService serves chapters cache-first.
// Cache failures degrade to network-only behavior and are never returned to callers.
type PassageService struct {
	fetcher            ChapterFetcher
	store              ChapterStore
	indexer            PassageIndexer
	defaultTranslation string
	metrics            *metrics.Recorder
	logger             *slog.Logger
}

// NewPassageService creates a passage service. store and indexer may be nil.
func NewPassageService(
	fetcher ChapterFetcher,
	store ChapterStore,
	indexer PassageIndexer,
	defaultTranslation string,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) *PassageService {
	if defaultTranslation == "" {
		defaultTranslation = DefaultTranslation
	}
	return &PassageService{
		fetcher:            fetcher,
		store:              store,
		indexer:            indexer,
		defaultTranslation: defaultTranslation,
		metrics:            recorder,
		logger:             logger,
	}
}

// DefaultTranslation returns the translation used for requests that name none.
func (s *PassageService) DefaultTranslation() string {
	return s.defaultTranslation
}

// GetChapter returns a cached chapter, or fetches and caches it on a miss.
func (s *PassageService) GetChapter(ctx context.Context, book string, chapter int, translation string) scripture.Passage {
	key := s.key(book, chapter, translation)

	if cached, ok := s.lookup(key); ok {
		return cached
	}

	s.logger.Debug("fetching chapter", "key", key.String())

	passage := s.fetcher.FetchChapter(ctx, key.Book, key.Chapter, key.Translation)
	if !passage.Empty() {
		s.persist(ctx, passage)
	}
	return passage
}

// FetchChapter runs the network search without touching the cache.
func (s *PassageService) FetchChapter(ctx context.Context, book string, chapter int, translation string) scripture.Passage {
	key := s.key(book, chapter, translation)
	return s.fetcher.FetchChapter(ctx, key.Book, key.Chapter, key.Translation)
}

// RefreshChapter fetches a chapter bypassing the lookup and overwrites the cache entry.
// When the fetch comes back empty the existing entry is kept and returned.
func (s *PassageService) RefreshChapter(ctx context.Context, book string, chapter int, translation string) scripture.Passage {
	key := s.key(book, chapter, translation)

	s.logger.Info("refreshing chapter", "key", key.String())

	passage := s.fetcher.FetchChapter(ctx, key.Book, key.Chapter, key.Translation)
	if !passage.Empty() {
		s.persist(ctx, passage)
		return passage
	}

	if cached, ok := s.lookup(key); ok {
		s.logger.Warn("refresh returned no verses, keeping cached chapter", "key", key.String())
		return cached
	}
	return passage
}

// Cached returns the stored chapter without any network access.
func (s *PassageService) Cached(book string, chapter int, translation string) (scripture.Passage, bool) {
	return s.lookup(s.key(book, chapter, translation))
}

func (s *PassageService) key(book string, chapter int, translation string) scripture.ChapterKey {
	if translation == "" {
		translation = s.defaultTranslation
	}
	return scripture.NewChapterKey(translation, book, chapter)
}

func (s *PassageService) lookup(key scripture.ChapterKey) (scripture.Passage, bool) {
	if s.store == nil || key.Valid() != nil {
		return scripture.Passage{}, false
	}

	rel := cache.ChapterPath(key)
	data, err := s.store.ReadText(rel)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			s.logger.Warn("cache lookup failed",
				"error", err,
				"key", key.String(),
			)
		}
		s.metrics.Cache(metrics.CacheMiss)
		return scripture.Passage{}, false
	}

	var entry scripture.Entry
	err = json.Unmarshal(data, &entry)
	if err == nil {
		err = entry.Validate()
	}
	if err != nil {
		s.logger.Warn("discarding corrupt cache entry",
			"error", err,
			"key", key.String(),
		)
		s.metrics.Cache(metrics.CacheCorrupt)
		return scripture.Passage{}, false
	}
	if len(entry.Verses) == 0 {
		s.metrics.Cache(metrics.CacheMiss)
		return scripture.Passage{}, false
	}

	s.logger.Debug("cache hit for chapter", "key", key.String())
	s.metrics.Cache(metrics.CacheHit)

	return scripture.Passage{
		Key:         key,
		Translation: key.Translation,
		Source:      scripture.SourceCache,
		Verses:      entry.Verses,
	}, true
}

// persist writes the passage under its requested key. Failures are logged only.
func (s *PassageService) persist(ctx context.Context, p scripture.Passage) {
	if s.store == nil || p.Key.Valid() != nil {
		return
	}

	rel := cache.ChapterPath(p.Key)
	data, err := json.Marshal(scripture.Entry{Verses: p.Verses})
	if err != nil {
		s.logger.Warn("failed to encode chapter", "error", err, "key", p.Key.String())
		return
	}

	if err := s.store.EnsureDir(path.Dir(rel)); err != nil {
		s.logger.Warn("failed to create cache directory", "error", err, "key", p.Key.String())
		s.metrics.Cache(metrics.CacheWriteError)
		return
	}
	if err := s.store.WriteText(rel, data); err != nil {
		s.logger.Warn("failed to cache chapter", "error", err, "key", p.Key.String())
		s.metrics.Cache(metrics.CacheWriteError)
		return
	}

	if s.indexer != nil {
		if err := s.indexer.IndexPassage(ctx, p); err != nil {
			s.logger.Warn("failed to index chapter", "error", err, "key", p.Key.String())
		}
	}
}
