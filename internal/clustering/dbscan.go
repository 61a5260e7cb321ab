// Package clustering groups articles by embedding proximity using
// density-based clustering. There is no fixed cluster count; points with
// too few neighbors become singleton noise clusters so every article ends
// up in exactly one partition.
package clustering

import (
	"fmt"

	"headliner/internal/core"
)

// Partition is one group of article IDs produced by clustering. Noise marks
// a singleton that no core point could reach.
type Partition struct {
	Members []string
	Noise   bool
}

// Cluster partitions the bundles by transitive eps-connectivity through
// core points. A point is core when at least minSamples points, itself
// included, lie within eps of it. The eps boundary is inclusive. The
// result is deterministic for a fixed input order.
func Cluster(bundles []core.FeatureBundle, eps float64, minSamples int, metric string) ([]Partition, error) {
	if eps < 0 {
		return nil, fmt.Errorf("eps must not be negative, got %g", eps)
	}
	if minSamples < 1 {
		return nil, fmt.Errorf("min_samples must be positive, got %d", minSamples)
	}
	distance, err := MetricFunc(metric)
	if err != nil {
		return nil, err
	}

	n := len(bundles)
	if n == 0 {
		return nil, nil
	}

	neighbors := neighborhoods(bundles, eps, distance)

	const unassigned = -1
	labels := make([]int, n)
	for i := range labels {
		labels[i] = unassigned
	}

	clusterCount := 0
	for i := 0; i < n; i++ {
		if labels[i] != unassigned {
			continue
		}
		if len(neighbors[i]) < minSamples {
			continue // not core, may still be claimed as a border point
		}

		label := clusterCount
		clusterCount++
		labels[i] = label

		// Expand through the core neighborhood. Border points join but do
		// not extend the frontier.
		queue := append([]int(nil), neighbors[i]...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			if labels[j] != unassigned {
				continue
			}
			labels[j] = label
			if len(neighbors[j]) >= minSamples {
				queue = append(queue, neighbors[j]...)
			}
		}
	}

	partitions := make([]Partition, clusterCount)
	for i, label := range labels {
		if label == unassigned {
			partitions = append(partitions, Partition{
				Members: []string{bundles[i].ArticleID},
				Noise:   true,
			})
			continue
		}
		partitions[label].Members = append(partitions[label].Members, bundles[i].ArticleID)
	}

	assertPartition(bundles, partitions)
	return partitions, nil
}

// neighborhoods returns, for each point, the indexes within eps of it
// (inclusive, self included). Distances are computed once per pair.
func neighborhoods(bundles []core.FeatureBundle, eps float64, distance DistanceFunc) [][]int {
	n := len(bundles)
	neighbors := make([][]int, n)
	for i := 0; i < n; i++ {
		neighbors[i] = append(neighbors[i], i)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if distance(bundles[i].Embedding, bundles[j].Embedding) <= eps {
				neighbors[i] = append(neighbors[i], j)
				neighbors[j] = append(neighbors[j], i)
			}
		}
	}
	return neighbors
}

// assertPartition panics unless every article appears in exactly one
// partition. A violation is a clustering bug, not recoverable input error.
func assertPartition(bundles []core.FeatureBundle, partitions []Partition) {
	seen := make(map[string]bool, len(bundles))
	for _, p := range partitions {
		if len(p.Members) == 0 {
			panic("clustering produced an empty partition")
		}
		for _, id := range p.Members {
			if seen[id] {
				panic(fmt.Sprintf("article %s assigned to more than one partition", id))
			}
			seen[id] = true
		}
	}
	for _, b := range bundles {
		if !seen[b.ArticleID] {
			panic(fmt.Sprintf("article %s missing from every partition", b.ArticleID))
		}
	}
}
