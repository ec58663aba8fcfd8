package scripture

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Field aliases used by the upstream providers, in priority order.
var (
	verseNumberAliases = []string{"verse", "number", "verseNumber", "verse_id", "verseId"}
	verseTextAliases   = []string{"text", "content"}
)

// Normalize converts a decoded provider payload into a sorted verse list.
//
// The payload may be an array of verse-like objects or an object holding such an
// array under "verses". Entries without a usable verse number or text are dropped.
// When two entries carry the same verse number the later one wins. Normalize never
// fails: anything it cannot interpret yields an empty slice.
func Normalize(raw any) []Verse {
	entries := verseEntries(raw)
	if len(entries) == 0 {
		return []Verse{}
	}

	byNumber := make(map[int]string, len(entries))
	for _, e := range entries {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		num, ok := resolveNumber(obj)
		if !ok {
			continue
		}
		text, ok := resolveText(obj)
		if !ok {
			continue
		}
		byNumber[num] = text
	}

	verses := make([]Verse, 0, len(byNumber))
	for num, text := range byNumber {
		verses = append(verses, Verse{Verse: num, Text: text})
	}
	slices.SortFunc(verses, func(a, b Verse) int { return a.Verse - b.Verse })

	return verses
}

// NormalizeJSON decodes body and normalizes it. Invalid JSON yields an empty slice.
func NormalizeJSON(body []byte) []Verse {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return []Verse{}
	}
	return Normalize(raw)
}

func verseEntries(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case map[string]any:
		if arr, ok := v["verses"].([]any); ok {
			return arr
		}
	}
	return nil
}

// resolveNumber returns the first alias that holds a positive integer.
func resolveNumber(obj map[string]any) (int, bool) {
	for _, alias := range verseNumberAliases {
		if n, ok := toVerseNumber(obj[alias]); ok {
			return n, true
		}
	}
	return 0, false
}

func resolveText(obj map[string]any) (string, bool) {
	for _, alias := range verseTextAliases {
		if s, ok := obj[alias].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func toVerseNumber(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n < 1 || n != math.Trunc(n) || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		return parseVerseNumber(n.String())
	case string:
		return parseVerseNumber(n)
	}
	return 0, false
}

func parseVerseNumber(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
