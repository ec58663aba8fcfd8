// Package search keeps a full-text index of cached verses so sermon preparation
// can find passages by wording.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/Fabioalbuqueque/pregacao/internal/scripture"
)

// SearchIndex wraps a Bleve index of verse documents.
//
// All public methods are safe for concurrent use. The mutex guards the index
// handle while Rebuild swaps it.
type SearchIndex struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage
	InMemory bool         // Keep the index in memory only (tests, read-only runs)
	Logger   *slog.Logger // Uses discard if nil
}

// mappingVersion is incremented whenever the index mapping changes.
// A mismatch with the version file on disk triggers a rebuild on startup.
const mappingVersion = "1"

const (
	indexDirName    = "passages.bleve"
	versionFileName = "passages.version"
	batchSize       = 500
)

// NewSearchIndex creates or opens the verse index.
// An index with an outdated mapping or one that fails to open is removed and recreated.
func NewSearchIndex(opts Options) (*SearchIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if opts.InMemory {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create memory index: %w", err)
		}
		return &SearchIndex{index: index, logger: logger}, nil
	}

	if err := os.MkdirAll(opts.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	indexPath := filepath.Join(opts.DataPath, indexDirName)
	versionPath := filepath.Join(opts.DataPath, versionFileName)

	var index bleve.Index
	var err error
	needsRebuild := false

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil {
			logger.Info("search index has no version file, will rebuild",
				"new_version", mappingVersion,
			)
			needsRebuild = true
		} else if string(existingVersion) != mappingVersion {
			logger.Info("search index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing index, will recreate",
				"path", indexPath,
				"error", err,
			)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); writeErr != nil {
			logger.Warn("failed to write search version file", "error", writeErr)
		}
		logger.Info("created new search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing search index", "path", indexPath)
	}

	return &SearchIndex{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexPassage indexes every verse of a passage. Re-indexing a chapter
// overwrites the documents of verses it already had.
func (s *SearchIndex) IndexPassage(ctx context.Context, p scripture.Passage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.IndexDocuments(DocumentsFromPassage(p))
}

// IndexDocuments indexes documents in batches.
func (s *SearchIndex) IndexDocuments(docs []*VerseDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := 0; i < len(docs); i += batchSize {
		end := min(i+batchSize, len(docs))

		batch := s.index.NewBatch()
		for _, doc := range docs[i:end] {
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}

		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// DeleteDocuments removes documents by id.
func (s *SearchIndex) DeleteDocuments(ids []string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.index.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}

	return s.index.Batch(batch)
}

// DocumentCount returns the total number of indexed verses.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild drops the existing index and creates an empty one.
// It holds an exclusive lock, so concurrent searches wait until it returns.
func (s *SearchIndex) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	var (
		index bleve.Index
		err   error
	)
	if s.path == "" {
		index, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		if err := os.RemoveAll(s.path); err != nil {
			return fmt.Errorf("remove index: %w", err)
		}
		index, err = bleve.New(s.path, buildIndexMapping())
	}
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	s.index = index
	s.logger.Info("rebuilt search index", "path", s.path)

	return nil
}
