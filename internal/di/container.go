// Package di provides dependency injection configuration for the Pregação server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/Fabioalbuqueque/pregacao/internal/config"
	"github.com/Fabioalbuqueque/pregacao/internal/di/providers"
	"github.com/Fabioalbuqueque/pregacao/internal/logger"
	"github.com/Fabioalbuqueque/pregacao/internal/metrics"
	"github.com/Fabioalbuqueque/pregacao/internal/provider"
	"github.com/Fabioalbuqueque/pregacao/internal/service"
	"github.com/Fabioalbuqueque/pregacao/internal/translation"
	"github.com/Fabioalbuqueque/pregacao/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	Register(injector)

	return injector
}

// Register adds every provider that depends on *config.Config and *logger.Logger.
// Callers that build those themselves (the CLI) provide them as values first.
// The HTTP server is lazy and only starts when invoked.
func Register(injector do.Injector) {
	do.Provide(injector, providers.ProvideMetrics)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideCache)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Scripture providers
	do.Provide(injector, providers.ProvideTranslationResolver)
	do.Provide(injector, providers.ProvideTransport)
	do.Provide(injector, providers.ProvidePassageFetcher)

	// Business services
	do.Provide(injector, providers.ProvidePassageService)
	do.Provide(injector, providers.ProvideOutlineService)
	do.Provide(injector, providers.ProvideReindexer)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
}

// Bootstrap initializes all services and starts the HTTP server.
func Bootstrap(injector do.Injector) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*metrics.Recorder](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.CacheHandle](injector)
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	if _, err := do.Invoke[*translation.Resolver](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*provider.Transport](injector)
	if _, err := do.Invoke[*service.PassageFetcher](injector); err != nil {
		return err
	}

	// Business services
	_ = do.MustInvoke[*service.PassageService](injector)
	_ = do.MustInvoke[*service.OutlineService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Trigger search reindex if needed
	providers.TriggerReindexIfNeeded(injector)

	return nil
}
