// Package providers contains dependency injection providers for the Pregação server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/Fabioalbuqueque/pregacao/internal/config"
	"github.com/Fabioalbuqueque/pregacao/internal/logger"
	"github.com/Fabioalbuqueque/pregacao/internal/metrics"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Pregação server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"default_translation", cfg.Scripture.DefaultTranslation,
		"sources", cfg.Scripture.Sources,
	)

	return log, nil
}

// ProvideMetrics provides the Prometheus recorder.
func ProvideMetrics(i do.Injector) (*metrics.Recorder, error) {
	return metrics.New(), nil
}
