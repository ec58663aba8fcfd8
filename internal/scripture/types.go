// Package scripture defines the canonical verse model shared by providers, the cache and the API.
package scripture

import (
	"errors"
	"fmt"
	"strings"
)

// SourceCache marks a passage that was served from the local chapter cache.
const SourceCache = "cache"

// Sentinel errors for chapter key validation.
var (
	ErrEmptyBook        = errors.New("scripture: book is required")
	ErrInvalidChapter   = errors.New("scripture: chapter must be positive")
	ErrEmptyTranslation = errors.New("scripture: translation is required")
	ErrInvalidVerses    = errors.New("scripture: invalid verse list")
)

// Verse is one numbered verse of a chapter.
type Verse struct {
	Verse int    `json:"verse"`
	Text  string `json:"text"`
}

// ChapterKey identifies a chapter in a given translation.
// Keys with equal fields address the same cached artifact.
type ChapterKey struct {
	Translation string `json:"translation"`
	Book        string `json:"book"`
	Chapter     int    `json:"chapter"`
}

// NewChapterKey builds a key with the translation code lowercased and trimmed.
func NewChapterKey(translation, book string, chapter int) ChapterKey {
	return ChapterKey{
		Translation: strings.ToLower(strings.TrimSpace(translation)),
		Book:        strings.TrimSpace(book),
		Chapter:     chapter,
	}
}

// Valid reports whether the key can address a cache entry.
func (k ChapterKey) Valid() error {
	switch {
	case k.Translation == "":
		return ErrEmptyTranslation
	case k.Book == "":
		return ErrEmptyBook
	case k.Chapter <= 0:
		return ErrInvalidChapter
	}
	return nil
}

func (k ChapterKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Translation, k.Book, k.Chapter)
}

// Passage is the result of a chapter lookup.
//
// Translation is the code that actually produced the verses, which differs from
// Key.Translation when the fallback search substituted another translation.
// Source names the provider that answered, or SourceCache.
type Passage struct {
	Key         ChapterKey `json:"key"`
	Translation string     `json:"translation"`
	Source      string     `json:"source,omitempty"`
	Verses      []Verse    `json:"verses"`
}

// Empty reports whether the passage carries no verses.
func (p Passage) Empty() bool {
	return len(p.Verses) == 0
}

// Substituted reports whether the verses came from a translation other than the requested one.
func (p Passage) Substituted() bool {
	return !p.Empty() && p.Translation != p.Key.Translation
}

// Entry is the persisted form of a cached chapter.
type Entry struct {
	Verses []Verse `json:"verses"`
}

// Validate checks that the entry holds what Normalize would produce: positive
// verse numbers in strictly ascending order, each with non-empty text.
func (e Entry) Validate() error {
	prev := 0
	for i, v := range e.Verses {
		switch {
		case v.Verse <= 0:
			return fmt.Errorf("%w: entry %d has verse number %d", ErrInvalidVerses, i, v.Verse)
		case v.Text == "":
			return fmt.Errorf("%w: verse %d has no text", ErrInvalidVerses, v.Verse)
		case v.Verse <= prev:
			return fmt.Errorf("%w: verse %d follows %d", ErrInvalidVerses, v.Verse, prev)
		}
		prev = v.Verse
	}
	return nil
}
