package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/Fabioalbuqueque/pregacao/internal/config"
	"github.com/Fabioalbuqueque/pregacao/internal/logger"
	"github.com/Fabioalbuqueque/pregacao/internal/metrics"
	"github.com/Fabioalbuqueque/pregacao/internal/provider"
	"github.com/Fabioalbuqueque/pregacao/internal/provider/bibleapi"
	"github.com/Fabioalbuqueque/pregacao/internal/provider/denobible"
	"github.com/Fabioalbuqueque/pregacao/internal/service"
	"github.com/Fabioalbuqueque/pregacao/internal/translation"
)

// ProvideTranslationResolver provides the translation alias and fallback resolver.
func ProvideTranslationResolver(i do.Injector) (*translation.Resolver, error) {
	cfg := do.MustInvoke[*config.Config](i)

	tables, err := translation.LoadTables(cfg.Scripture.TranslationsFile)
	if err != nil {
		return nil, err
	}
	return translation.NewResolver(tables), nil
}

// ProvideTransport provides the shared, rate-limited HTTP transport for all providers.
func ProvideTransport(i do.Injector) (*provider.Transport, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return provider.NewTransport(provider.Options{
		Timeout:      cfg.Scripture.HTTPTimeout,
		RPS:          cfg.Scripture.RPS,
		Burst:        cfg.Scripture.Burst,
		RelayEnabled: cfg.Scripture.RelayEnabled,
		RelayURL:     cfg.Scripture.RelayURL,
		Logger:       log.Component("provider"),
	}), nil
}

// ProvidePassageFetcher provides the multi-provider fallback fetcher.
// Sources follow the configured order.
func ProvidePassageFetcher(i do.Injector) (*service.PassageFetcher, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	transport := do.MustInvoke[*provider.Transport](i)
	resolver := do.MustInvoke[*translation.Resolver](i)
	recorder := do.MustInvoke[*metrics.Recorder](i)

	sources := make([]service.ChapterSource, 0, len(cfg.Scripture.Sources))
	for _, name := range cfg.Scripture.Sources {
		switch provider.ID(name) {
		case provider.DenoBible:
			sources = append(sources, denobible.New(transport))
		case provider.BibleAPI:
			sources = append(sources, bibleapi.New(transport))
		default:
			return nil, fmt.Errorf("unknown scripture source %q", name)
		}
	}

	return service.NewPassageFetcher(
		resolver,
		sources,
		cfg.Scripture.AttemptTimeout,
		recorder,
		log.Component("fetcher"),
	), nil
}
