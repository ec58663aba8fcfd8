package translation

import "github.com/Fabioalbuqueque/pregacao/internal/provider"

// Resolver answers translation questions from immutable Tables.
// It is safe for concurrent use.
type Resolver struct {
	tables Tables
}

// NewResolver creates a resolver over t.
func NewResolver(t Tables) *Resolver {
	return &Resolver{tables: t}
}

// Candidates returns the codes to try for a request: the requested code followed by the
// fallbacks, with empty codes skipped and duplicates removed keeping the first occurrence.
// The result is never empty.
func (r *Resolver) Candidates(requested string) []string {
	seen := make(map[string]struct{}, len(r.tables.Fallbacks)+1)
	out := make([]string, 0, len(r.tables.Fallbacks)+1)

	add := func(code string) {
		code = canonical(code)
		if code == "" {
			return
		}
		if _, ok := seen[code]; ok {
			return
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}

	add(requested)
	for _, code := range r.tables.Fallbacks {
		add(code)
	}
	return out
}

// MapForProvider returns the provider's code for a user-facing code, falling back to the
// provider default. Unknown providers pass the code through unchanged.
func (r *Resolver) MapForProvider(id provider.ID, code string) string {
	code = canonical(code)
	pt, ok := r.tables.Providers[string(id)]
	if !ok {
		return code
	}
	if mapped, ok := pt.Codes[code]; ok && mapped != "" {
		return mapped
	}
	if pt.Default != "" {
		return pt.Default
	}
	return code
}

// ProviderCandidates returns the provider codes to try, in order, for a user-facing code.
// Providers without synonym tables get the single mapped code.
func (r *Resolver) ProviderCandidates(id provider.ID, code string) []string {
	code = canonical(code)
	pt, ok := r.tables.Providers[string(id)]
	if !ok || (len(pt.Synonyms) == 0 && len(pt.DefaultSynonyms) == 0) {
		return []string{r.MapForProvider(id, code)}
	}

	list, ok := pt.Synonyms[code]
	if !ok {
		list = pt.DefaultSynonyms
	}
	if len(list) == 0 {
		return []string{r.MapForProvider(id, code)}
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Fallbacks returns a copy of the configured fallback sequence.
func (r *Resolver) Fallbacks() []string {
	out := make([]string, len(r.tables.Fallbacks))
	copy(out, r.tables.Fallbacks)
	return out
}
