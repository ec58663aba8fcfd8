package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Fabioalbuqueque/pregacao/internal/metrics"
	"github.com/Fabioalbuqueque/pregacao/internal/provider"
	"github.com/Fabioalbuqueque/pregacao/internal/scripture"
	"github.com/Fabioalbuqueque/pregacao/internal/translation"
)

// DefaultAttemptTimeout bounds a single provider attempt when no timeout is configured.
const DefaultAttemptTimeout = 10 * time.Second

// ChapterSource is one upstream provider of raw chapter payloads.
type ChapterSource interface {
	ID() provider.ID
	FetchRaw(ctx context.Context, book string, chapter int, code string) (any, error)
}

// PassageFetcher runs the fallback search across translations and providers.
type PassageFetcher struct {
	resolver       *translation.Resolver
	sources        []ChapterSource
	attemptTimeout time.Duration
	metrics        *metrics.Recorder
	logger         *slog.Logger
}

// NewPassageFetcher creates a fetcher. Sources are tried in the given order for every
// candidate translation.
func NewPassageFetcher(
	resolver *translation.Resolver,
	sources []ChapterSource,
	attemptTimeout time.Duration,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) *PassageFetcher {
	if attemptTimeout <= 0 {
		attemptTimeout = DefaultAttemptTimeout
	}
	return &PassageFetcher{
		resolver:       resolver,
		sources:        sources,
		attemptTimeout: attemptTimeout,
		metrics:        recorder,
		logger:         logger,
	}
}

type attemptKey struct {
	source provider.ID
	code   string
}

// FetchChapter returns the first non-empty chapter found.
//
// For each candidate translation, every source is asked for each of its provider codes in
// order. Failed and empty attempts are skipped. When the search is exhausted, or ctx is
// done, the result is an empty passage tagged with the requested translation.
// FetchChapter never returns an error.
func (f *PassageFetcher) FetchChapter(ctx context.Context, book string, chapter int, requested string) scripture.Passage {
	key := scripture.NewChapterKey(requested, book, chapter)
	empty := scripture.Passage{
		Key:         key,
		Translation: key.Translation,
		Verses:      []scripture.Verse{},
	}

	if key.Book == "" || key.Chapter <= 0 {
		f.logger.Debug("skipping fetch for invalid chapter key", "key", key.String())
		return empty
	}

	// A (source, code) pair that already came back empty is not asked again.
	tried := make(map[attemptKey]struct{})

	for _, candidate := range f.resolver.Candidates(key.Translation) {
		for _, src := range f.sources {
			for _, code := range f.resolver.ProviderCandidates(src.ID(), candidate) {
				if ctx.Err() != nil {
					f.logger.Debug("passage search canceled",
						"key", key.String(),
						"error", ctx.Err(),
					)
					return empty
				}

				ak := attemptKey{source: src.ID(), code: code}
				if _, ok := tried[ak]; ok {
					continue
				}
				tried[ak] = struct{}{}

				verses := f.attempt(ctx, src, key, code)
				if len(verses) == 0 {
					continue
				}

				passage := scripture.Passage{
					Key:         key,
					Translation: candidate,
					Source:      string(src.ID()),
					Verses:      verses,
				}
				if passage.Substituted() {
					f.metrics.Substitution()
					f.logger.Info("passage served from fallback translation",
						"key", key.String(),
						"translation", candidate,
						"provider", src.ID(),
					)
				}
				return passage
			}
		}
	}

	f.logger.Debug("no provider returned verses", "key", key.String())
	return empty
}

func (f *PassageFetcher) attempt(ctx context.Context, src ChapterSource, key scripture.ChapterKey, code string) []scripture.Verse {
	attemptCtx, cancel := context.WithTimeout(ctx, f.attemptTimeout)
	defer cancel()

	start := time.Now()
	raw, err := src.FetchRaw(attemptCtx, key.Book, key.Chapter, code)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		f.metrics.ProviderAttempt(string(src.ID()), metrics.OutcomeError, elapsed)
		f.logger.Debug("provider attempt failed",
			"provider", src.ID(),
			"code", code,
			"key", key.String(),
			"error", err,
		)
		return nil
	}

	verses := scripture.Normalize(raw)
	if len(verses) == 0 {
		f.metrics.ProviderAttempt(string(src.ID()), metrics.OutcomeEmpty, elapsed)
		f.logger.Debug("provider returned no verses",
			"provider", src.ID(),
			"code", code,
			"key", key.String(),
		)
		return nil
	}

	f.metrics.ProviderAttempt(string(src.ID()), metrics.OutcomeSuccess, elapsed)
	return verses
}
