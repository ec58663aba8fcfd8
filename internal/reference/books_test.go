package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooks(t *testing.T) {
	books := Books()
	require.Len(t, books, 66)

	var old, newT int
	seen := make(map[string]bool)
	for _, b := range books {
		assert.False(t, seen[b.Slug], "duplicate slug %s", b.Slug)
		seen[b.Slug] = true
		assert.Positive(t, b.Chapters(), b.Slug)

		switch b.Testament {
		case OldTestament:
			old++
		case NewTestament:
			newT++
		}
	}
	assert.Equal(t, 39, old)
	assert.Equal(t, 27, newT)

	assert.Equal(t, "genesis", books[0].Slug)
	assert.Equal(t, "revelation", books[65].Slug)
}

func TestBooks_ReturnsCopy(t *testing.T) {
	books := Books()
	books[0].Slug = "mutated"
	assert.Equal(t, "genesis", Books()[0].Slug)
}

func TestLookupBook(t *testing.T) {
	tests := []struct {
		input string
		slug  string
	}{
		{"john", "john"},
		{"João", "john"},
		{"joao", "john"},
		{"JOHN", "john"},
		{"1 João", "1john"},
		{"1joao", "1john"},
		{"1 John", "1john"},
		{"1John", "1john"},
		{"Gênesis", "genesis"},
		{"Gen", "genesis"},
		{"Jó", "job"},
		{"Salmos", "psalms"},
		{"Cânticos", "songofsolomon"},
		{"Song of Solomon", "songofsolomon"},
		{"Apocalipse", "revelation"},
		{"Judas", "jude"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			b, err := LookupBook(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.slug, b.Slug)
		})
	}
}

func TestLookupBook_EveryBookBySlugAndName(t *testing.T) {
	for _, b := range Books() {
		for _, name := range []string{b.Slug, b.Name, b.English, b.OSIS} {
			got, err := LookupBook(name)
			require.NoError(t, err, name)
			assert.Equal(t, b.Slug, got.Slug, name)
		}
	}
}

func TestLookupBook_Unknown(t *testing.T) {
	for _, name := range []string{"", "   ", "nowhere", "4 john"} {
		_, err := LookupBook(name)
		assert.ErrorIs(t, err, ErrUnknownBook, name)
	}
}

func TestValidateChapter(t *testing.T) {
	b, err := ValidateChapter("john", 21)
	require.NoError(t, err)
	assert.Equal(t, 21, b.Chapters())

	_, err = ValidateChapter("john", 22)
	assert.ErrorIs(t, err, ErrChapterOutOfRange)

	_, err = ValidateChapter("obadiah", 0)
	assert.ErrorIs(t, err, ErrChapterOutOfRange)

	_, err = ValidateChapter("nowhere", 1)
	assert.ErrorIs(t, err, ErrUnknownBook)
}

func TestValidateVerse(t *testing.T) {
	_, err := ValidateVerse("john", 3, 16)
	require.NoError(t, err)

	_, err = ValidateVerse("psalms", 119, 176)
	require.NoError(t, err)

	_, err = ValidateVerse("psalms", 119, 177)
	assert.ErrorIs(t, err, ErrVerseOutOfRange)
}

func TestTranslations(t *testing.T) {
	list := Translations()
	require.Len(t, list, 3)
	assert.Equal(t, "almeida", list[0].Code)

	assert.Equal(t, "Almeida ARA (PT-BR)", TranslationName("Almeida"))
	assert.Equal(t, "KJV", TranslationName("kjv"))
	assert.Equal(t, "xyz", TranslationName("xyz"))
}
