// Package translation maps user-facing translation codes onto the codes each provider understands
// and produces the ordered list of codes to try for a request.
package translation

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTablesYAML []byte

// ErrNoFallbacks is returned when a table file declares no fallback codes.
var ErrNoFallbacks = errors.New("translation tables: no fallbacks")

// ProviderTable holds one provider's code mapping.
type ProviderTable struct {
	// Default is used when a code has no entry in Codes.
	Default string `yaml:"default"`
	// Codes maps a user-facing code to the provider's code.
	Codes map[string]string `yaml:"codes"`
	// Synonyms lists near-equivalent provider codes to try, in order, for a user-facing code.
	Synonyms map[string][]string `yaml:"synonyms,omitempty"`
	// DefaultSynonyms applies to codes without an entry in Synonyms.
	DefaultSynonyms []string `yaml:"default_synonyms,omitempty"`
}

// Tables is the static configuration behind a Resolver.
type Tables struct {
	Fallbacks []string                 `yaml:"fallbacks"`
	Providers map[string]ProviderTable `yaml:"providers"`
}

// DefaultTables returns the built-in tables.
func DefaultTables() Tables {
	t, err := parseTables(defaultTablesYAML)
	if err != nil {
		// Embedded data is fixed at build time.
		panic(fmt.Sprintf("translation: invalid embedded tables: %v", err))
	}
	return t
}

// LoadTables reads tables from a YAML file.
// An empty path returns the built-in tables.
func LoadTables(path string) (Tables, error) {
	if path == "" {
		return DefaultTables(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read translation tables: %w", err)
	}
	t, err := parseTables(data)
	if err != nil {
		return Tables{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func parseTables(data []byte) (Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tables{}, fmt.Errorf("parse translation tables: %w", err)
	}
	if len(t.Fallbacks) == 0 {
		return Tables{}, ErrNoFallbacks
	}
	t.normalize()
	return t, nil
}

// normalize lowercases every code so lookups can be case-insensitive.
func (t *Tables) normalize() {
	for i, code := range t.Fallbacks {
		t.Fallbacks[i] = canonical(code)
	}
	providers := make(map[string]ProviderTable, len(t.Providers))
	for id, pt := range t.Providers {
		codes := make(map[string]string, len(pt.Codes))
		for k, v := range pt.Codes {
			codes[canonical(k)] = canonical(v)
		}
		synonyms := make(map[string][]string, len(pt.Synonyms))
		for k, list := range pt.Synonyms {
			synonyms[canonical(k)] = lowerAll(list)
		}
		providers[canonical(id)] = ProviderTable{
			Default:         canonical(pt.Default),
			Codes:           codes,
			Synonyms:        synonyms,
			DefaultSynonyms: lowerAll(pt.DefaultSynonyms),
		}
	}
	t.Providers = providers
}

func canonical(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func lowerAll(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if c = canonical(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
