// Package main provides a command-line reader for cached and fetched scripture passages.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/samber/do/v2"

	"github.com/Fabioalbuqueque/pregacao/internal/config"
	"github.com/Fabioalbuqueque/pregacao/internal/di"
	"github.com/Fabioalbuqueque/pregacao/internal/di/providers"
	"github.com/Fabioalbuqueque/pregacao/internal/logger"
	"github.com/Fabioalbuqueque/pregacao/internal/reference"
	"github.com/Fabioalbuqueque/pregacao/internal/scripture"
	"github.com/Fabioalbuqueque/pregacao/internal/search"
	"github.com/Fabioalbuqueque/pregacao/internal/service"
)

// CLI defines the command-line interface using Kong.
type CLI struct {
	DataPath string `name:"data-path" help:"Root directory for cache, database and index" type:"path"`
	EnvFile  string `name:"env-file" help:"Path to .env file" default:".env"`
	Verbose  bool   `name:"verbose" short:"v" help:"Log debug output to stderr"`

	Read         ReadCmd         `cmd:"" help:"Print a chapter (from the cache when possible)"`
	Search       SearchCmd       `cmd:"" help:"Search verses in cached chapters"`
	Books        BooksCmd        `cmd:"" help:"List the books of the canon"`
	Translations TranslationsCmd `cmd:"" help:"List known translations"`
	Reindex      ReindexCmd      `cmd:"" help:"Rebuild the verse index from the cache"`
}

// app carries the injector and output stream into every command.
type app struct {
	injector do.Injector
	out      io.Writer
}

func (a *app) passages() *service.PassageService {
	return do.MustInvoke[*service.PassageService](a.injector)
}

// ReadCmd prints one chapter.
type ReadCmd struct {
	Book        string `arg:"" help:"Book name or slug (e.g. joão, john, 1john)"`
	Chapter     int    `arg:"" help:"Chapter number"`
	Translation string `name:"translation" short:"t" help:"Translation code (default from config)"`
	Live        bool   `name:"live" help:"Fetch from the providers without reading or writing the cache"`
	Refresh     bool   `name:"refresh" help:"Fetch again and overwrite the cached copy"`
}

// Run implements the read command.
func (c *ReadCmd) Run(ctx context.Context, a *app) error {
	book, err := reference.ValidateChapter(c.Book, c.Chapter)
	if err != nil {
		return err
	}

	svc := a.passages()
	var p scripture.Passage
	switch {
	case c.Live:
		p = svc.FetchChapter(ctx, book.Slug, c.Chapter, c.Translation)
	case c.Refresh:
		p = svc.RefreshChapter(ctx, book.Slug, c.Chapter, c.Translation)
	default:
		p = svc.GetChapter(ctx, book.Slug, c.Chapter, c.Translation)
	}

	if p.Empty() {
		return fmt.Errorf("no verses found for %s %d (%s)", book.Name, c.Chapter, p.Key.Translation)
	}

	fmt.Fprintf(a.out, "%s %d (%s)\n", book.Name, c.Chapter, strings.ToUpper(p.Translation))
	if p.Substituted() {
		fmt.Fprintf(a.out, "%s was unavailable; showing %s\n",
			strings.ToUpper(p.Key.Translation), reference.TranslationName(p.Translation))
	}
	fmt.Fprintln(a.out)
	for _, v := range p.Verses {
		fmt.Fprintf(a.out, "%d %s\n", v.Verse, v.Text)
	}
	return nil
}

// SearchCmd queries the verse index.
type SearchCmd struct {
	Query       []string `arg:"" help:"Words to look for"`
	Translation string   `name:"translation" short:"t" help:"Only this translation"`
	Book        string   `name:"book" short:"b" help:"Only this book"`
	Limit       int      `name:"limit" short:"n" default:"20" help:"Max results"`
}

// Run implements the search command.
func (c *SearchCmd) Run(ctx context.Context, a *app) error {
	params := search.SearchParams{
		Query:       strings.Join(c.Query, " "),
		Translation: c.Translation,
		Limit:       c.Limit,
	}
	if c.Book != "" {
		book, err := reference.LookupBook(c.Book)
		if err != nil {
			return err
		}
		params.Book = book.Slug
	}

	index := do.MustInvoke[*providers.SearchIndexHandle](a.injector)
	if index.SearchIndex == nil {
		return errors.New("search index is not available")
	}
	result, err := index.Search(ctx, params)
	if err != nil {
		return err
	}

	for _, hit := range result.Hits {
		name := hit.Book
		if book, err := reference.LookupBook(hit.Book); err == nil {
			name = book.Name
		}
		fmt.Fprintf(a.out, "%s %d:%d (%s) %s\n", name, hit.Chapter, hit.Verse, hit.Translation, hit.Text)
	}
	fmt.Fprintf(a.out, "%d result(s)\n", result.Total)
	return nil
}

// BooksCmd lists the canon.
type BooksCmd struct {
	Testament string `name:"testament" enum:"all,old,new" default:"all" help:"Filter by testament"`
}

// Run implements the books command.
func (c *BooksCmd) Run(a *app) error {
	for _, b := range reference.Books() {
		switch {
		case c.Testament == "old" && b.Testament != reference.OldTestament,
			c.Testament == "new" && b.Testament != reference.NewTestament:
			continue
		}
		fmt.Fprintf(a.out, "%-16s %-20s %3d\n", b.Slug, b.Name, b.Chapters())
	}
	return nil
}

// TranslationsCmd lists known translations.
type TranslationsCmd struct{}

// Run implements the translations command.
func (c *TranslationsCmd) Run(a *app) error {
	def := a.passages().DefaultTranslation()
	for _, t := range reference.Translations() {
		marker := " "
		if t.Code == def {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %-10s %s\n", marker, t.Code, t.Name)
	}
	return nil
}

// ReindexCmd rebuilds the search index.
type ReindexCmd struct{}

// Run implements the reindex command.
func (c *ReindexCmd) Run(ctx context.Context, a *app) error {
	reindexer, err := do.Invoke[*service.Reindexer](a.injector)
	if err != nil {
		return err
	}
	result, err := reindexer.Reindex(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "indexed %d chapter(s), skipped %d in %s\n", result.Chapters, result.Skipped, result.Took)
	return nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("passage"),
		kong.Description("Read scripture chapters with offline caching and provider fallback"),
		kong.UsageOnError(),
	)

	injector, err := newInjector(&cli)
	kctx.FatalIfErrorf(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	err = kctx.Run(&app{injector: injector, out: os.Stdout})

	if shutdownErr := injector.Shutdown(); shutdownErr != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", shutdownErr)
	}
	kctx.FatalIfErrorf(err)
}

// newInjector loads configuration without command-line flags (Kong owns them),
// applies the CLI overrides and registers the shared providers.
func newInjector(cli *CLI) (*do.RootScope, error) {
	args := []string{"-env-file", cli.EnvFile}
	if cli.DataPath != "" {
		args = append(args, "-data-path", cli.DataPath)
	}
	cfg, err := config.Load(args)
	if err != nil {
		return nil, err
	}
	// The server may hold the index open; chapters read here are indexed by
	// the next reindex instead.
	cfg.Scripture.IndexPassages = false

	level := "warn"
	if cli.Verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{
		Writer:      os.Stderr,
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(level),
	})

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, log)
	di.Register(injector)
	return injector, nil
}
