package summarizer

import "context"

// Summary is what the model distilled out of one article.
type Summary struct {
	Sentences []string `json:"summary"`
	Images    []string `json:"images"`
}

// Summarizer condenses an article page into narration sentences and the
// pictures of its body.
type Summarizer interface {
	Summarize(ctx context.Context, article string) (Summary, error)
}
