package reference

import "strings"

// Translation is a user-selectable translation.
type Translation struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var translations = []Translation{
	{Code: "almeida", Name: "Almeida ARA (PT-BR)"},
	{Code: "web", Name: "WEB"},
	{Code: "kjv", Name: "KJV"},
}

// Translations returns the translations offered to users, in display order.
func Translations() []Translation {
	out := make([]Translation, len(translations))
	copy(out, translations)
	return out
}

// TranslationName returns the display name for code, or the code itself when unknown.
func TranslationName(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, t := range translations {
		if t.Code == code {
			return t.Name
		}
	}
	return code
}
