// Package embedding provides vector embedding generation for paper text.
package embedding

import "context"

// Provider generates embeddings from text. Implementations must be pure
// functions of the input text: embedding the same text twice yields the
// same vector.
type Provider interface {
	// Embed generates an embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelName returns the name of the embedding model.
	ModelName() string

	// Dimensions returns the vector dimensions the provider produces.
	Dimensions() int
}

// ZeroVector returns the all-zero vector of the given dimensions. It is the
// defined fallback for empty input text, so similarity math downstream sees
// a well-formed vector rather than an error.
func ZeroVector(dims int) []float32 {
	return make([]float32, dims)
}
