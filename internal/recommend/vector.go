package recommend

import "math"

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
// Mismatched lengths and zero-norm vectors yield 0.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denominator := float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB)))
	if denominator == 0 {
		return 0
	}

	return dot / denominator
}

// mean computes the arithmetic mean of the given vectors, which must all
// share the same length. Accumulation is done in float64 to limit drift
// over large windows.
func mean(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}

	dims := len(vectors[0])
	sums := make([]float64, dims)
	for _, vec := range vectors {
		for i, v := range vec {
			sums[i] += float64(v)
		}
	}

	out := make([]float32, dims)
	n := float64(len(vectors))
	for i, s := range sums {
		out[i] = float32(s / n)
	}
	return out
}

// blend computes wa*a + wb*b elementwise. Vectors must share a length.
func blend(a []float32, wa float64, b []float32, wb float64) []float32 {
	out := make([]float32, len(a))
	for i := range a {
		out[i] = float32(wa*float64(a[i]) + wb*float64(b[i]))
	}
	return out
}
