package providers

import (
	"context"
	"errors"

	"github.com/samber/do/v2"

	"github.com/Fabioalbuqueque/pregacao/internal/config"
	"github.com/Fabioalbuqueque/pregacao/internal/logger"
	"github.com/Fabioalbuqueque/pregacao/internal/metrics"
	"github.com/Fabioalbuqueque/pregacao/internal/service"
	"github.com/Fabioalbuqueque/pregacao/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvidePassageService provides the cache-first passage service.
// A missing cache leaves it network-only. The index is only opened when
// passage indexing is enabled.
func ProvidePassageService(i do.Injector) (*service.PassageService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	fetcher := do.MustInvoke[*service.PassageFetcher](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	recorder := do.MustInvoke[*metrics.Recorder](i)

	var store service.ChapterStore
	if cacheHandle.FileStore != nil {
		store = cacheHandle.FileStore
	}

	var indexer service.PassageIndexer
	if cfg.Scripture.IndexPassages {
		if index := do.MustInvoke[*SearchIndexHandle](i); index.SearchIndex != nil {
			indexer = index.SearchIndex
		}
	}

	return service.NewPassageService(
		fetcher,
		store,
		indexer,
		cfg.Scripture.DefaultTranslation,
		recorder,
		log.Component("passages"),
	), nil
}

// ProvideOutlineService provides the outline service and seeds a sample outline
// into an empty database.
func ProvideOutlineService(i do.Injector) (*service.OutlineService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)

	svc := service.NewOutlineService(storeHandle.Store, validator, log.Component("outlines"))
	if err := svc.SeedIfEmpty(context.Background()); err != nil {
		log.Warn("Failed to seed outlines", "error", err)
	}
	return svc, nil
}

// ErrReindexUnavailable is returned when the cache or the index could not be opened.
var ErrReindexUnavailable = errors.New("reindex unavailable: chapter cache or search index is not open")

// ProvideReindexer provides the cache-to-index rebuilder.
func ProvideReindexer(i do.Injector) (*service.Reindexer, error) {
	log := do.MustInvoke[*logger.Logger](i)
	passages := do.MustInvoke[*service.PassageService](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	index := do.MustInvoke[*SearchIndexHandle](i)

	if cacheHandle.FileStore == nil || index.SearchIndex == nil {
		return nil, ErrReindexUnavailable
	}
	return service.NewReindexer(passages, cacheHandle.FileStore, index.SearchIndex, log.Component("reindex")), nil
}

// TriggerReindexIfNeeded rebuilds the verse index in the background when it is
// empty but the cache already holds chapters.
func TriggerReindexIfNeeded(i do.Injector) {
	log := do.MustInvoke[*logger.Logger](i)
	reindexer, err := do.Invoke[*service.Reindexer](i)
	if err != nil {
		return
	}
	index := do.MustInvoke[*SearchIndexHandle](i)
	fileStore := do.MustInvoke[*CacheHandle](i).FileStore

	docCount, _ := index.DocumentCount()
	if docCount > 0 {
		return
	}

	hasChapters := false
	for _, err := range fileStore.Chapters() {
		if err == nil {
			hasChapters = true
			break
		}
	}
	if !hasChapters {
		return
	}

	log.Info("Search index is empty but the cache has chapters, triggering reindex")

	go func() {
		result, err := reindexer.Reindex(context.Background())
		if err != nil {
			log.Error("Initial search reindex failed", "error", err)
			return
		}
		log.Info("Initial search reindex completed",
			"chapters", result.Chapters,
			"skipped", result.Skipped,
			"took", result.Took,
		)
	}()
}
