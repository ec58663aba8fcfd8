package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/pt"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for verse documents.
//
// Verse text is analyzed with the Portuguese analyzer (stemming, stop words).
// Translation and book are keywords for exact filtering; chapter and verse
// are numeric so results can be sorted in reading order.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = pt.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = pt.AnalyzerName
	textFieldMapping.Store = true
	textFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("text", textFieldMapping)

	translationFieldMapping := bleve.NewTextFieldMapping()
	translationFieldMapping.Analyzer = keyword.Name
	translationFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("translation", translationFieldMapping)

	bookFieldMapping := bleve.NewTextFieldMapping()
	bookFieldMapping.Analyzer = keyword.Name
	bookFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("book", bookFieldMapping)

	chapterFieldMapping := bleve.NewNumericFieldMapping()
	chapterFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("chapter", chapterFieldMapping)

	verseFieldMapping := bleve.NewNumericFieldMapping()
	verseFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("verse", verseFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
