// Package embeddings scores and caches embedding vectors.
package embeddings

import (
	"fmt"
	"math"
)

// CosineSimilarity returns the cosine of the angle between a and b,
// clamped to [-1, 1]
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have same length: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("vectors cannot be empty")
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, fmt.Errorf("vector norm cannot be zero")
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(-1, math.Min(1, sim)), nil
}

// Percent maps a similarity in [-1, 1] onto [0, 100]
func Percent(sim float64) float64 {
	return (sim + 1) * 50
}

// Validate rejects empty vectors and non-finite components
func Validate(vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("embedding vector is empty")
	}
	for i, v := range vec {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("embedding contains invalid value at index %d: %v", i, v)
		}
	}
	return nil
}
