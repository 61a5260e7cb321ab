package clustering

import (
	"fmt"
	"math"
)

// Supported metric names.
const (
	MetricCosine    = "cosine"
	MetricEuclidean = "euclidean"
)

// DistanceFunc computes the distance between two embedding vectors.
type DistanceFunc func(a, b []float64) float64

// MetricFunc resolves a metric name to its distance function.
func MetricFunc(metric string) (DistanceFunc, error) {
	switch metric {
	case MetricCosine:
		return CosineDistance, nil
	case MetricEuclidean:
		return EuclideanDistance, nil
	default:
		return nil, fmt.Errorf("unknown metric %q", metric)
	}
}

// CosineSimilarity calculates the cosine similarity between two embeddings
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineDistance is 1 minus cosine similarity. Mismatched or zero vectors
// are maximally distant.
func CosineDistance(a, b []float64) float64 {
	return 1 - CosineSimilarity(a, b)
}

// EuclideanDistance is the straight-line distance between two vectors.
// Mismatched lengths are treated as infinitely far apart.
func EuclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
