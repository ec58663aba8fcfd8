package api

import (
	"github.com/Fabioalbuqueque/pregacao/internal/cache"
	"github.com/Fabioalbuqueque/pregacao/internal/metrics"
	"github.com/Fabioalbuqueque/pregacao/internal/search"
	"github.com/Fabioalbuqueque/pregacao/internal/service"
	"github.com/Fabioalbuqueque/pregacao/internal/store"
)

// Services groups what the API handlers call into.
// Everything except Passages may be nil; the matching routes then answer 503
// and health reports the component as not configured.
type Services struct {
	Passages *service.PassageService
	Outlines *service.OutlineService
	Search   *search.SearchIndex
	Reindex  *service.Reindexer
	Cache    *cache.FileStore
	Store    *store.Store
	Metrics  *metrics.Recorder
}
