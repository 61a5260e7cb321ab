package engine

import (
	"time"

	"headliner/internal/core"
)

// FilterByAge drops articles older than maxAgeHours relative to now. The
// age boundary is inclusive: an article published exactly maxAgeHours ago
// survives. Articles without a publish time survive only when allowMissing
// is set. Input order is preserved and the input slice is never mutated.
func FilterByAge(articles []core.Article, now time.Time, maxAgeHours int, allowMissing bool) []core.Article {
	cutoff := now.Add(-time.Duration(maxAgeHours) * time.Hour)

	surviving := make([]core.Article, 0, len(articles))
	for _, a := range articles {
		if a.PublishedAt.IsZero() {
			if allowMissing {
				surviving = append(surviving, a)
			}
			continue
		}
		if !a.PublishedAt.Before(cutoff) {
			surviving = append(surviving, a)
		}
	}
	return surviving
}
