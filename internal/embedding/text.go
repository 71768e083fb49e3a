package embedding

import (
	"context"
	"strings"

	"github.com/SMGDOG/paperhub/internal/paper"
)

// MaxAbstractChars is the abstract budget, in runes, for paper embeddings.
// The abstract is prefix-truncated to this length before being joined with
// the title, bounding embedding cost and worst-case latency.
const MaxAbstractChars = 500

// PaperText builds the text that represents a paper for embedding:
// the cleaned title followed by the (truncated) cleaned abstract.
// Truncation counts runes so a multi-byte character at the boundary is
// never split into invalid UTF-8.
func PaperText(title, abstract string) string {
	title = paper.CleanText(title)
	abstract = paper.CleanText(abstract)
	if runes := []rune(abstract); len(runes) > MaxAbstractChars {
		abstract = string(runes[:MaxAbstractChars])
	}
	if abstract == "" {
		return title
	}
	if title == "" {
		return abstract
	}
	return title + " " + abstract
}

// EmbedPaper embeds a paper's title and abstract. Empty or whitespace-only
// text yields the zero vector instead of an error; callers that care should
// treat a zero-norm result as "no semantic content".
func EmbedPaper(ctx context.Context, p Provider, title, abstract string) ([]float32, error) {
	text := PaperText(title, abstract)
	if strings.TrimSpace(text) == "" {
		return ZeroVector(p.Dimensions()), nil
	}
	return p.Embed(ctx, text)
}
