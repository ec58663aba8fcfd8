// Package reference holds the static book and translation tables used to validate requests.
package reference

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Testament groups books.
type Testament string

// Testaments.
const (
	OldTestament Testament = "old"
	NewTestament Testament = "new"
)

var (
	// ErrUnknownBook is returned when a book name matches no entry.
	ErrUnknownBook = errors.New("reference: unknown book")
	// ErrChapterOutOfRange is returned for chapters outside a book.
	ErrChapterOutOfRange = errors.New("reference: chapter out of range")
	// ErrVerseOutOfRange is returned for verses outside a chapter.
	ErrVerseOutOfRange = errors.New("reference: verse out of range")
)

// Book describes one book of the canon.
type Book struct {
	// Slug is the identifier used in provider requests and cache paths.
	Slug      string    `json:"slug"`
	OSIS      string    `json:"osis"`
	Name      string    `json:"name"`
	English   string    `json:"english"`
	Testament Testament `json:"testament"`
	// Verses holds the verse count of each chapter.
	Verses []int `json:"-"`
}

// Chapters returns the number of chapters in the book.
func (b Book) Chapters() int {
	return len(b.Verses)
}

// VerseCount returns the number of verses in a chapter, or 0 when out of range.
func (b Book) VerseCount(chapter int) int {
	if chapter < 1 || chapter > len(b.Verses) {
		return 0
	}
	return b.Verses[chapter-1]
}

var bookIndex = buildIndex()

func buildIndex() map[string]int {
	idx := make(map[string]int, len(canon)*4)
	for i, b := range canon {
		for _, name := range []string{b.Slug, b.OSIS, b.Name, b.English} {
			key := fold(name)
			if _, taken := idx[key]; !taken {
				idx[key] = i
			}
		}
	}
	return idx
}

// fold reduces a book name to lowercase ASCII letters and digits:
// "1 João" and "1joao" fold to the same key.
func fold(s string) string {
	s = norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r > unicode.MaxASCII {
			continue
		}
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Books returns the canon in order.
func Books() []Book {
	out := make([]Book, len(canon))
	copy(out, canon)
	return out
}

// LookupBook finds a book by slug, OSIS code, Portuguese or English name.
// Matching ignores case, accents and whitespace.
func LookupBook(name string) (Book, error) {
	i, ok := bookIndex[fold(name)]
	if !ok || name == "" {
		return Book{}, fmt.Errorf("%w: %q", ErrUnknownBook, name)
	}
	return canon[i], nil
}

// ValidateChapter resolves a book and checks that chapter exists in it.
func ValidateChapter(name string, chapter int) (Book, error) {
	b, err := LookupBook(name)
	if err != nil {
		return Book{}, err
	}
	if chapter < 1 || chapter > b.Chapters() {
		return Book{}, fmt.Errorf("%w: %s has %d chapters, got %d", ErrChapterOutOfRange, b.English, b.Chapters(), chapter)
	}
	return b, nil
}

// ValidateVerse resolves a book and checks that chapter and verse exist in it.
func ValidateVerse(name string, chapter, verse int) (Book, error) {
	b, err := ValidateChapter(name, chapter)
	if err != nil {
		return Book{}, err
	}
	if verse < 1 || verse > b.VerseCount(chapter) {
		return Book{}, fmt.Errorf("%w: %s %d has %d verses, got %d", ErrVerseOutOfRange, b.English, chapter, b.VerseCount(chapter), verse)
	}
	return b, nil
}
