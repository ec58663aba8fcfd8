package providers

import (
	"github.com/samber/do/v2"

	"github.com/Fabioalbuqueque/pregacao/internal/cache"
	"github.com/Fabioalbuqueque/pregacao/internal/config"
	"github.com/Fabioalbuqueque/pregacao/internal/logger"
	"github.com/Fabioalbuqueque/pregacao/internal/search"
	"github.com/Fabioalbuqueque/pregacao/internal/store"
)

// CacheHandle holds the offline chapter cache. FileStore is nil when the cache
// directory cannot be used; passages are then served from the network only.
type CacheHandle struct {
	FileStore *cache.FileStore
}

// ProvideCache provides the offline chapter cache. It never fails.
func ProvideCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	fs, err := cache.NewFileStore(cfg.Data.CachePath)
	if err != nil {
		log.Warn("Chapter cache unavailable, serving passages from the network only",
			"path", cfg.Data.CachePath,
			"error", err,
		)
		return &CacheHandle{}, nil
	}

	log.Info("Chapter cache ready", "path", cfg.Data.CachePath)
	return &CacheHandle{FileStore: fs}, nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the outline database.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := store.New(cfg.Data.DBPath, log.Component("store"))
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.Data.DBPath)
	return &StoreHandle{Store: db}, nil
}

// SearchIndexHandle wraps the search index with shutdown capability.
// SearchIndex is nil when the index cannot be opened.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	if h.SearchIndex == nil {
		return nil
	}
	return h.Close()
}

// ProvideSearchIndex provides the Bleve verse index. It never fails; search and
// reindexing report unavailable when the index cannot be opened.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Data.IndexPath,
		Logger:   log.Component("search"),
	})
	if err != nil {
		log.Warn("Search index unavailable", "path", cfg.Data.IndexPath, "error", err)
		return &SearchIndexHandle{}, nil
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}
