// Package rank orders finalized clusters for the digest.
package rank

import (
	"fmt"
	"sort"

	"headliner/internal/core"
)

// Rank sorts clusters by combined score descending, then representative
// publish time descending, then representative ID ascending, and annotates
// each with its 1-based position and the representative's display fields.
// The sort is stable for reproducibility. The input slice is not mutated.
func Rank(clusters []core.Cluster, articles map[string]core.Article) []core.RankedCluster {
	ranked := make([]core.RankedCluster, 0, len(clusters))
	for _, c := range clusters {
		rep, ok := articles[c.RepresentativeID]
		if !ok {
			panic(fmt.Sprintf("rank: cluster %s references unknown representative %s", c.ID, c.RepresentativeID))
		}

		domains := make(map[string]bool)
		for _, id := range c.MemberIDs {
			if a, ok := articles[id]; ok && a.SourceDomain != "" {
				domains[a.SourceDomain] = true
			}
		}
		sources := make([]string, 0, len(domains))
		for d := range domains {
			sources = append(sources, d)
		}
		sort.Strings(sources)

		ranked = append(ranked, core.RankedCluster{
			Cluster:      c,
			Headline:     rep.Headline,
			URL:          rep.URL,
			SourceDomain: rep.SourceDomain,
			PublishedAt:  rep.PublishedAt,
			Sources:      sources,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.CombinedScore != b.CombinedScore {
			return a.CombinedScore > b.CombinedScore
		}
		if !a.PublishedAt.Equal(b.PublishedAt) {
			return a.PublishedAt.After(b.PublishedAt)
		}
		return a.RepresentativeID < b.RepresentativeID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}
