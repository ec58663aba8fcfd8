package service

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/Fabioalbuqueque/pregacao/internal/scripture"
)

// ChapterLister enumerates the chapters held in the cache.
type ChapterLister interface {
	Chapters() iter.Seq2[scripture.ChapterKey, error]
}

// RebuildableIndex is a passage index that can be emptied and refilled.
type RebuildableIndex interface {
	PassageIndexer
	Rebuild() error
}

// ReindexResult summarizes a rebuild.
type ReindexResult struct {
	Chapters int           `json:"chapters"`
	Skipped  int           `json:"skipped"`
	Took     time.Duration `json:"took"`
}

// Reindexer rebuilds the verse index from the chapter cache.
type Reindexer struct {
	passages *PassageService
	lister   ChapterLister
	index    RebuildableIndex
	logger   *slog.Logger
}

// NewReindexer creates a reindexer reading entries through passages.
func NewReindexer(passages *PassageService, lister ChapterLister, index RebuildableIndex, logger *slog.Logger) *Reindexer {
	return &Reindexer{
		passages: passages,
		lister:   lister,
		index:    index,
		logger:   logger,
	}
}

// Reindex empties the index and indexes every readable cache entry.
// Entries that are corrupt or empty are skipped.
func (r *Reindexer) Reindex(ctx context.Context) (ReindexResult, error) {
	start := time.Now()
	var result ReindexResult

	if err := r.index.Rebuild(); err != nil {
		return result, fmt.Errorf("rebuild index: %w", err)
	}

	for key, err := range r.lister.Chapters() {
		if err != nil {
			return result, err
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		passage, ok := r.passages.Cached(key.Book, key.Chapter, key.Translation)
		if !ok {
			result.Skipped++
			continue
		}
		if err := r.index.IndexPassage(ctx, passage); err != nil {
			return result, fmt.Errorf("index %s: %w", key, err)
		}
		result.Chapters++
	}

	result.Took = time.Since(start)
	r.logger.Info("search index rebuilt from cache",
		"chapters", result.Chapters,
		"skipped", result.Skipped,
		"took", result.Took,
	)
	return result, nil
}
