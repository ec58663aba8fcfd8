package search

import (
	"fmt"

	"github.com/Fabioalbuqueque/pregacao/internal/scripture"
)

// VerseDocument is the indexed form of one cached verse.
type VerseDocument struct {
	ID          string
	Translation string
	Book        string
	Chapter     int
	Verse       int
	Text        string
}

// DocumentID returns the document id for a verse: "{translation}:{book}:{chapter}:{verse}".
func DocumentID(translation, book string, chapter, verse int) string {
	return fmt.Sprintf("%s:%s:%d:%d", translation, book, chapter, verse)
}

// ToMap converts the document to a map with the field names used by the mapping.
func (d *VerseDocument) ToMap() map[string]any {
	return map[string]any{
		"translation": d.Translation,
		"book":        d.Book,
		"chapter":     float64(d.Chapter),
		"verse":       float64(d.Verse),
		"text":        d.Text,
	}
}

// DocumentsFromPassage builds one document per verse, keyed like the cache entry
// the passage is stored under. A substituted passage is therefore indexed under
// the requested translation, matching what a rebuild from the cache produces.
func DocumentsFromPassage(p scripture.Passage) []*VerseDocument {
	translation := p.Key.Translation
	docs := make([]*VerseDocument, 0, len(p.Verses))
	for _, v := range p.Verses {
		if v.Text == "" {
			continue
		}
		docs = append(docs, &VerseDocument{
			ID:          DocumentID(translation, p.Key.Book, p.Key.Chapter, v.Verse),
			Translation: translation,
			Book:        p.Key.Book,
			Chapter:     p.Key.Chapter,
			Verse:       v.Verse,
			Text:        v.Text,
		})
	}
	return docs
}
