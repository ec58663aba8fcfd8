package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Fabioalbuqueque/pregacao/internal/metrics"
	"github.com/Fabioalbuqueque/pregacao/internal/provider"
	"github.com/Fabioalbuqueque/pregacao/internal/scripture"
	"github.com/Fabioalbuqueque/pregacao/internal/translation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnavailable = errors.New("unavailable")

// fakeSource answers from a code-keyed table and records every code it was asked for.
type fakeSource struct {
	id        provider.ID
	responses map[string]any
	block     bool

	mu    sync.Mutex
	calls []string
}

func (s *fakeSource) ID() provider.ID { return s.id }

func (s *fakeSource) FetchRaw(ctx context.Context, _ string, _ int, code string) (any, error) {
	s.mu.Lock()
	s.calls = append(s.calls, code)
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if raw, ok := s.responses[code]; ok {
		return raw, nil
	}
	return nil, errUnavailable
}

func (s *fakeSource) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestFetcher(sources ...ChapterSource) *PassageFetcher {
	return NewPassageFetcher(
		translation.NewResolver(translation.DefaultTables()),
		sources,
		time.Second,
		metrics.New(),
		testLogger(),
	)
}

func verseArray(pairs ...any) []any {
	out := make([]any, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, map[string]any{"verse": pairs[i], "text": pairs[i+1]})
	}
	return out
}

func TestFetchChapter_FirstProviderWins(t *testing.T) {
	deno := &fakeSource{id: provider.DenoBible, responses: map[string]any{
		"naa": verseArray(16.0, "Porque Deus amou o mundo..."),
	}}
	bible := &fakeSource{id: provider.BibleAPI}

	p := newTestFetcher(deno, bible).FetchChapter(context.Background(), "john", 3, "almeida")

	assert.Equal(t, []scripture.Verse{{Verse: 16, Text: "Porque Deus amou o mundo..."}}, p.Verses)
	assert.Equal(t, "almeida", p.Translation)
	assert.Equal(t, string(provider.DenoBible), p.Source)
	assert.False(t, p.Substituted())
	assert.Equal(t, []string{"naa"}, deno.Calls())
	assert.Empty(t, bible.Calls(), "second provider must not be attempted")
}

func TestFetchChapter_FallsBackAcrossProvidersAndTranslations(t *testing.T) {
	deno := &fakeSource{id: provider.DenoBible}
	bible := &fakeSource{id: provider.BibleAPI, responses: map[string]any{
		"almeida": map[string]any{"verses": verseArray(1.0, "No princípio")},
	}}

	p := newTestFetcher(deno, bible).FetchChapter(context.Background(), "genesis", 1, "kjv")

	require.False(t, p.Empty())
	assert.Equal(t, "kjv", p.Key.Translation)
	assert.Equal(t, "almeida", p.Translation)
	assert.True(t, p.Substituted())
	assert.Equal(t, string(provider.BibleAPI), p.Source)
	assert.Equal(t, []string{"naa", "aa", "ra", "acf"}, deno.Calls())
	assert.Equal(t, []string{"kjv", "almeida"}, bible.Calls())
}

func TestFetchChapter_UnknownTranslationStillSearches(t *testing.T) {
	deno := &fakeSource{id: provider.DenoBible}
	bible := &fakeSource{id: provider.BibleAPI}

	p := newTestFetcher(deno, bible).FetchChapter(context.Background(), "john", 3, "xyz")

	assert.True(t, p.Empty())
	assert.NotNil(t, p.Verses)
	assert.Equal(t, "xyz", p.Translation)
	assert.Equal(t, []string{"naa", "aa", "ra", "acf", "nvi", "ntlh"}, deno.Calls())
	assert.Equal(t, []string{"web", "almeida"}, bible.Calls())
}

func TestFetchChapter_EmptyPayloadIsSkipped(t *testing.T) {
	deno := &fakeSource{id: provider.DenoBible, responses: map[string]any{
		"naa": []any{},
		"aa":  map[string]any{"error": "not found"},
		"ra":  verseArray(2.0, "segundo", 1.0, "primeiro"),
	}}

	p := newTestFetcher(deno).FetchChapter(context.Background(), "john", 1, "almeida")

	assert.Equal(t, []scripture.Verse{{Verse: 1, Text: "primeiro"}, {Verse: 2, Text: "segundo"}}, p.Verses)
	assert.Equal(t, []string{"naa", "aa", "ra"}, deno.Calls())
}

func TestFetchChapter_Deterministic(t *testing.T) {
	responses := map[string]any{"acf": verseArray(1.0, "a", 2.0, "b")}
	f := newTestFetcher(
		&fakeSource{id: provider.DenoBible, responses: responses},
		&fakeSource{id: provider.BibleAPI},
	)

	first := f.FetchChapter(context.Background(), "psalms", 23, "nvi")
	for range 5 {
		assert.Equal(t, first, f.FetchChapter(context.Background(), "psalms", 23, "nvi"))
	}
}

func TestFetchChapter_AttemptTimeout(t *testing.T) {
	slow := &fakeSource{id: provider.DenoBible, block: true}
	fast := &fakeSource{id: provider.BibleAPI, responses: map[string]any{
		"almeida": map[string]any{"verses": verseArray(1.0, "ok")},
	}}

	f := NewPassageFetcher(
		translation.NewResolver(translation.DefaultTables()),
		[]ChapterSource{slow, fast},
		10*time.Millisecond,
		nil,
		testLogger(),
	)

	p := f.FetchChapter(context.Background(), "john", 3, "almeida")

	assert.Equal(t, "ok", p.Verses[0].Text)
	assert.Len(t, slow.Calls(), 4)
}

func TestFetchChapter_CanceledContext(t *testing.T) {
	deno := &fakeSource{id: provider.DenoBible}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestFetcher(deno).FetchChapter(ctx, "john", 3, "almeida")

	assert.True(t, p.Empty())
	assert.Empty(t, deno.Calls())
}

func TestFetchChapter_InvalidKey(t *testing.T) {
	deno := &fakeSource{id: provider.DenoBible}
	f := newTestFetcher(deno)

	assert.True(t, f.FetchChapter(context.Background(), "", 3, "almeida").Empty())
	assert.True(t, f.FetchChapter(context.Background(), "john", 0, "almeida").Empty())
	assert.Empty(t, deno.Calls())
}
