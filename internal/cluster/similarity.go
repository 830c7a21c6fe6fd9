package cluster

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// CosineSimilarity returns dot(a,b)/(|a||b|), or 0 for mismatched, empty or zero vectors.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := floats.Dot(a, b) / (normA * normB)
	if math.IsNaN(sim) {
		return 0
	}
	return sim
}
