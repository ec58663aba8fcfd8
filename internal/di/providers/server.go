package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/Fabioalbuqueque/pregacao/internal/api"
	"github.com/Fabioalbuqueque/pregacao/internal/config"
	"github.com/Fabioalbuqueque/pregacao/internal/logger"
	"github.com/Fabioalbuqueque/pregacao/internal/metrics"
	"github.com/Fabioalbuqueque/pregacao/internal/service"
)

// Version is reported in the OpenAPI document. Overridden at build time.
var Version = "dev"

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)

	services := &api.Services{
		Passages: do.MustInvoke[*service.PassageService](i),
		Outlines: do.MustInvoke[*service.OutlineService](i),
		Search:   indexHandle.SearchIndex,
		Cache:    do.MustInvoke[*CacheHandle](i).FileStore,
		Store:    storeHandle.Store,
		Metrics:  do.MustInvoke[*metrics.Recorder](i),
	}
	if reindexer, err := do.Invoke[*service.Reindexer](i); err == nil {
		services.Reindex = reindexer
	} else {
		log.Warn("Search reindexing disabled", "error", err)
	}

	handler := api.NewServer(services, api.Options{
		Title:       "Pregação API",
		Version:     Version,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, log.Component("http"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
