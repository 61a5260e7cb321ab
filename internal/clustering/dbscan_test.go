package clustering

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"headliner/internal/core"
)

func bundle(id string, embedding ...float64) core.FeatureBundle {
	return core.FeatureBundle{ArticleID: id, Embedding: embedding}
}

func memberSets(partitions []Partition) []map[string]bool {
	sets := make([]map[string]bool, len(partitions))
	for i, p := range partitions {
		sets[i] = make(map[string]bool)
		for _, id := range p.Members {
			sets[i][id] = true
		}
	}
	return sets
}

func findPartition(t *testing.T, partitions []Partition, id string) Partition {
	t.Helper()
	for _, p := range partitions {
		for _, m := range p.Members {
			if m == id {
				return p
			}
		}
	}
	t.Fatalf("article %s not found in any partition", id)
	return Partition{}
}

func TestClusterGroupsNearbyPoints(t *testing.T) {
	bundles := []core.FeatureBundle{
		bundle("a", 1, 0),
		bundle("b", 0.999, 0.045), // ~2.6 degrees from a
		bundle("c", 0, 1),
	}

	partitions, err := Cluster(bundles, 0.3, 2, MetricCosine)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}

	if len(partitions) != 2 {
		t.Fatalf("expected 2 partitions, got %d", len(partitions))
	}

	ab := findPartition(t, partitions, "a")
	if len(ab.Members) != 2 || ab.Noise {
		t.Errorf("expected a and b in one non-noise partition, got %+v", ab)
	}
	c := findPartition(t, partitions, "c")
	if len(c.Members) != 1 || !c.Noise {
		t.Errorf("expected c as a noise singleton, got %+v", c)
	}
}

func TestClusterPartitionProperty(t *testing.T) {
	// A ring of points with mixed density. Every article must land in
	// exactly one partition.
	var bundles []core.FeatureBundle
	for i := 0; i < 20; i++ {
		angle := float64(i) * 2 * math.Pi / 20
		bundles = append(bundles, bundle(fmt.Sprintf("p%02d", i), math.Cos(angle), math.Sin(angle)))
	}

	partitions, err := Cluster(bundles, 0.05, 3, MetricCosine)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}

	seen := make(map[string]int)
	for _, p := range partitions {
		if len(p.Members) == 0 {
			t.Fatal("empty partition")
		}
		for _, id := range p.Members {
			seen[id]++
		}
	}
	if len(seen) != len(bundles) {
		t.Fatalf("expected %d articles covered, got %d", len(bundles), len(seen))
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("article %s appears %d times", id, count)
		}
	}
}

func TestClusterDeterminism(t *testing.T) {
	var bundles []core.FeatureBundle
	for i := 0; i < 30; i++ {
		angle := float64(i*i%17) / 17 * math.Pi
		bundles = append(bundles, bundle(fmt.Sprintf("a%02d", i), math.Cos(angle), math.Sin(angle)))
	}

	first, err := Cluster(bundles, 0.1, 2, MetricCosine)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := Cluster(bundles, 0.1, 2, MetricCosine)
		if err != nil {
			t.Fatalf("Cluster failed on run %d: %v", run, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced a different partition", run)
		}
	}
}

func TestClusterInclusiveEpsBoundary(t *testing.T) {
	// Orthogonal unit vectors have cosine distance exactly 1.
	atBoundary := []core.FeatureBundle{
		bundle("a", 1, 0),
		bundle("b", 0, 1),
	}

	partitions, err := Cluster(atBoundary, 1.0, 2, MetricCosine)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}
	if len(partitions) != 1 || len(partitions[0].Members) != 2 {
		t.Errorf("distance equal to eps must connect, got %+v", partitions)
	}

	justOver, err := Cluster(atBoundary, 0.999, 2, MetricCosine)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}
	if len(justOver) != 2 {
		t.Errorf("distance above eps must not connect, got %+v", justOver)
	}
}

func TestClusterEuclideanBoundaryExact(t *testing.T) {
	bundles := []core.FeatureBundle{
		bundle("a", 0),
		bundle("b", 0.25),
	}

	partitions, err := Cluster(bundles, 0.25, 2, MetricEuclidean)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}
	if len(partitions) != 1 {
		t.Errorf("exact-eps euclidean pair should share a cluster, got %+v", partitions)
	}
}

func TestClusterDegenerateInputs(t *testing.T) {
	partitions, err := Cluster(nil, 0.3, 2, MetricCosine)
	if err != nil {
		t.Fatalf("Cluster failed on empty input: %v", err)
	}
	if len(partitions) != 0 {
		t.Errorf("expected no partitions for empty input, got %d", len(partitions))
	}

	partitions, err = Cluster([]core.FeatureBundle{bundle("solo", 1, 0)}, 0.3, 2, MetricCosine)
	if err != nil {
		t.Fatalf("Cluster failed on single input: %v", err)
	}
	if len(partitions) != 1 || !partitions[0].Noise || partitions[0].Members[0] != "solo" {
		t.Errorf("single article should be one noise singleton, got %+v", partitions)
	}
}

func TestClusterMinSamplesCountsSelf(t *testing.T) {
	// With min_samples 1 every point is core, so two far-apart points form
	// two real clusters rather than noise.
	bundles := []core.FeatureBundle{
		bundle("a", 1, 0),
		bundle("b", 0, 1),
	}

	partitions, err := Cluster(bundles, 0.1, 1, MetricCosine)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}
	if len(partitions) != 2 {
		t.Fatalf("expected 2 partitions, got %d", len(partitions))
	}
	for _, p := range partitions {
		if p.Noise {
			t.Errorf("no noise expected with min_samples 1, got %+v", p)
		}
	}
}

func TestClusterBorderPointJoins(t *testing.T) {
	// b is within eps of core point a but has too few neighbors to be core
	// itself; it must still join a's cluster.
	bundles := []core.FeatureBundle{
		bundle("a", 0),
		bundle("a2", 0.1),
		bundle("a3", 0.2),
		bundle("b", 0.45), // within 0.3 only of a3
	}

	partitions, err := Cluster(bundles, 0.3, 3, MetricEuclidean)
	if err != nil {
		t.Fatalf("Cluster failed: %v", err)
	}

	b := findPartition(t, partitions, "b")
	if b.Noise {
		t.Fatalf("border point should join the core cluster, got %+v", partitions)
	}
	if len(b.Members) != 4 {
		t.Errorf("expected all four points in one cluster, got %+v", partitions)
	}
}

func TestClusterRejectsBadParams(t *testing.T) {
	bundles := []core.FeatureBundle{bundle("a", 1)}

	if _, err := Cluster(bundles, -0.1, 2, MetricCosine); err == nil {
		t.Error("expected error for negative eps")
	}
	if _, err := Cluster(bundles, 0.3, 0, MetricCosine); err == nil {
		t.Error("expected error for zero min_samples")
	}
	if _, err := Cluster(bundles, 0.3, 2, "manhattan"); err == nil {
		t.Error("expected error for unknown metric")
	}
}
