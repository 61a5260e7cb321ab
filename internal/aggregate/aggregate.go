// Package aggregate finalizes clusters: it picks a representative member,
// merges authority scores into a combined score, and unions member entity
// sets. Scoring is a policy choice, so it hangs behind an interface rather
// than being baked into the clustering algorithm.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"headliner/internal/clustering"
	"headliner/internal/core"
)

// ScoringPolicy decides the representative and combined score for a cluster.
// Implementations must be deterministic for a fixed member list.
type ScoringPolicy interface {
	// Representative returns the ID of the member chosen to stand for the
	// cluster. members is never empty.
	Representative(members []core.Article, authority map[string]int) string

	// CombinedScore returns the cluster's score. It must never be lower
	// than the best individual authority score among members.
	CombinedScore(members []core.Article, authority map[string]int) int
}

// DefaultPolicy implements the stock scoring rules: the representative is
// the highest-authority member with ties broken by earliest publish time
// then smallest ID, and the score is the best member authority plus one
// point per corroborating member beyond the first, capped.
type DefaultPolicy struct {
	SizeBonusCap int
}

func (p DefaultPolicy) Representative(members []core.Article, authority map[string]int) string {
	best := members[0]
	for _, m := range members[1:] {
		if better(m, best, authority) {
			best = m
		}
	}
	return best.ID
}

func better(a, b core.Article, authority map[string]int) bool {
	sa, sb := authority[a.ID], authority[b.ID]
	if sa != sb {
		return sa > sb
	}
	if !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.Before(b.PublishedAt)
	}
	return a.ID < b.ID
}

func (p DefaultPolicy) CombinedScore(members []core.Article, authority map[string]int) int {
	max := authority[members[0].ID]
	for _, m := range members[1:] {
		if s := authority[m.ID]; s > max {
			max = s
		}
	}

	bonus := len(members) - 1
	if bonus > p.SizeBonusCap {
		bonus = p.SizeBonusCap
	}
	return max + bonus
}

// Aggregate finalizes every partition into a Cluster. articles and bundles
// are keyed by article ID; authority maps article ID to its source score.
// An empty partition indicates a clustering bug and panics.
func Aggregate(
	partitions []clustering.Partition,
	articles map[string]core.Article,
	bundles map[string]core.FeatureBundle,
	authority map[string]int,
	policy ScoringPolicy,
) []core.Cluster {
	clusters := make([]core.Cluster, 0, len(partitions))

	for _, p := range partitions {
		if len(p.Members) == 0 {
			panic("aggregate: empty partition")
		}

		members := make([]core.Article, 0, len(p.Members))
		entitySet := make(map[string]bool)
		for _, id := range p.Members {
			article, ok := articles[id]
			if !ok {
				panic(fmt.Sprintf("aggregate: partition references unknown article %s", id))
			}
			members = append(members, article)
			for _, entity := range bundles[id].Entities {
				entitySet[entity] = true
			}
		}

		entityUnion := make([]string, 0, len(entitySet))
		for entity := range entitySet {
			entityUnion = append(entityUnion, entity)
		}
		sort.Strings(entityUnion)

		clusters = append(clusters, core.Cluster{
			ID:               uuid.NewString(),
			MemberIDs:        append([]string(nil), p.Members...),
			RepresentativeID: policy.Representative(members, authority),
			CombinedScore:    policy.CombinedScore(members, authority),
			EntityUnion:      entityUnion,
			Noise:            p.Noise,
		})
	}

	return clusters
}
