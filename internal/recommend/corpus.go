package recommend

import (
	"context"
	"fmt"
	"math"

	"github.com/merchpulse/merchpulse-backend/internal/dataset"
)

// Embedder is the frozen text-encoder boundary.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Corpus holds the keyword table with its precomputed embeddings and the
// corpus-wide popularity maxima. Built once at startup and read-only after;
// refreshing the corpus means restarting the process.
type Corpus struct {
	keywords    []dataset.Keyword
	vectors     [][]float64
	maxCheckout float64
	maxOrder    float64
}

// BuildCorpus embeds every keyword exactly once and caches the normalization
// maxima. An encoder failure here is fatal to startup: scoring without
// keyword vectors is meaningless.
func BuildCorpus(ctx context.Context, emb Embedder, keywords []dataset.Keyword) (*Corpus, error) {
	if emb == nil {
		return nil, fmt.Errorf("embedder required")
	}

	texts := make([]string, len(keywords))
	for i, k := range keywords {
		texts[i] = k.Text
	}

	vectors, err := emb.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding keyword corpus: %w", err)
	}
	if len(vectors) != len(keywords) {
		return nil, fmt.Errorf("corpus embedding mismatch: %d keywords, %d vectors", len(keywords), len(vectors))
	}

	c := &Corpus{keywords: keywords, vectors: vectors}
	for _, k := range keywords {
		c.maxCheckout = math.Max(c.maxCheckout, float64(k.CheckoutCount))
		c.maxOrder = math.Max(c.maxOrder, float64(k.OrderCount))
	}
	return c, nil
}

// Len returns the corpus size.
func (c *Corpus) Len() int {
	return len(c.keywords)
}

// Keyword returns the i-th keyword row.
func (c *Corpus) Keyword(i int) dataset.Keyword {
	return c.keywords[i]
}

// Vector returns the precomputed embedding of the i-th keyword.
func (c *Corpus) Vector(i int) []float64 {
	return c.vectors[i]
}

// BusinessScore is the normalized popularity of the i-th keyword in [0, 1]:
// 0.4 * checkout/maxCheckout + 0.6 * order/maxOrder, maxima corpus-wide.
func (c *Corpus) BusinessScore(i int) float64 {
	k := c.keywords[i]
	var score float64
	if c.maxCheckout > 0 {
		score += 0.4 * float64(k.CheckoutCount) / c.maxCheckout
	}
	if c.maxOrder > 0 {
		score += 0.6 * float64(k.OrderCount) / c.maxOrder
	}
	return score
}
