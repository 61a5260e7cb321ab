// Package authority maps news source domains to integer credibility scores.
// The table is immutable after construction; the engine holds a reference
// and performs pure lookups.
package authority

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table is an immutable domain-to-score lookup. Unknown domains resolve to
// the configured floor value.
type Table struct {
	scores map[string]int
	floor  int
}

// tableFile is the YAML shape of an authority table on disk.
type tableFile struct {
	Tiers map[string]tierEntry `yaml:"tiers"`
}

type tierEntry struct {
	Score   int      `yaml:"score"`
	Domains []string `yaml:"domains"`
}

// defaultTiers groups well-known outlets by impact tier.
var defaultTiers = map[int][]string{
	5: {
		"who.int", "cdc.gov", "nih.gov", "nasa.gov", "noaa.gov",
		"nature.com", "science.org", "thelancet.com", "nejm.org",
	},
	3: {
		"reuters.com", "apnews.com", "afp.com", "bbc.com", "bbc.co.uk",
		"aljazeera.com", "dw.com", "france24.com",
	},
	2: {
		"nytimes.com", "washingtonpost.com", "theguardian.com", "wsj.com",
		"ft.com", "economist.com", "bloomberg.com", "cnn.com", "npr.org",
		"axios.com", "politico.com",
	},
	1: {
		"news.google.com", "news.yahoo.com", "msn.com", "drudgereport.com",
		"medium.com", "substack.com",
	},
}

// NewTable builds a table from an explicit domain->score map. Negative
// scores and a negative floor are rejected.
func NewTable(scores map[string]int, floor int) (*Table, error) {
	if floor < 0 {
		return nil, fmt.Errorf("authority floor must not be negative, got %d", floor)
	}
	normalized := make(map[string]int, len(scores))
	for domain, score := range scores {
		if score < 0 {
			return nil, fmt.Errorf("authority score for %q must not be negative, got %d", domain, score)
		}
		key := Normalize(domain)
		if key == "" {
			continue
		}
		normalized[key] = score
	}
	return &Table{scores: normalized, floor: floor}, nil
}

// DefaultTable returns the built-in tier table with the given floor for
// unknown domains.
func DefaultTable(floor int) (*Table, error) {
	scores := make(map[string]int)
	for score, domains := range defaultTiers {
		for _, domain := range domains {
			scores[domain] = score
		}
	}
	return NewTable(scores, floor)
}

// LoadTable reads a YAML tier file and merges it over the built-in table.
// Entries in the file win over built-in defaults for the same domain.
func LoadTable(path string, floor int) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read authority table %s: %w", path, err)
	}

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse authority table %s: %w", path, err)
	}

	scores := make(map[string]int)
	for score, domains := range defaultTiers {
		for _, domain := range domains {
			scores[domain] = score
		}
	}
	for name, tier := range file.Tiers {
		if tier.Score < 0 {
			return nil, fmt.Errorf("tier %q in %s has negative score %d", name, path, tier.Score)
		}
		for _, domain := range tier.Domains {
			scores[Normalize(domain)] = tier.Score
		}
	}
	delete(scores, "")

	return NewTable(scores, floor)
}

// Score returns the authority score for a domain. Lookup is exact-match on
// the normalized domain; anything unmatched scores the floor. Never errors.
func (t *Table) Score(domain string) int {
	key := Normalize(domain)
	if key == "" {
		return t.floor
	}
	if score, ok := t.scores[key]; ok {
		return score
	}
	return t.floor
}

// Floor returns the score assigned to unknown domains.
func (t *Table) Floor() int {
	return t.floor
}

// Len returns the number of known domains.
func (t *Table) Len() int {
	return len(t.scores)
}

// Normalize lowercases a domain and strips scheme, leading www., port, and
// any path component. A string with nothing left after stripping returns "".
func Normalize(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	if idx := strings.Index(d, "://"); idx >= 0 {
		d = d[idx+3:]
	}
	if idx := strings.IndexAny(d, "/?#"); idx >= 0 {
		d = d[:idx]
	}
	if idx := strings.Index(d, ":"); idx >= 0 {
		d = d[:idx]
	}
	d = strings.TrimPrefix(d, "www.")
	d = strings.Trim(d, ".")
	return d
}
