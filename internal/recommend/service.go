package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/merchpulse/merchpulse-backend/internal/dataset"
	pkgerrors "github.com/merchpulse/merchpulse-backend/pkg/errors"
	"github.com/merchpulse/merchpulse-backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	semanticWeight = 0.5
	businessWeight = 0.3
	cuisineWeight  = 0.2

	// Keywords at or below this composite score are dropped. Scores are not
	// clipped to [0, 1]; a strong match can exceed 1.
	scoreThreshold = 0.4

	maxKeywordsPerItem = 5
)

// Recommendation is one ranked keyword for an item.
type Recommendation struct {
	Keyword       string  `json:"keyword"`
	Score         float64 `json:"score"`
	CheckoutCount int     `json:"checkout"`
	OrderCount    int     `json:"order"`
}

// Result maps item name to its ranked keywords. Items with no qualifying
// keyword are absent from the map entirely.
type Result map[string][]Recommendation

// Service scores the keyword corpus against each of a merchant's items.
type Service struct {
	store    *dataset.Store
	corpus   *Corpus
	embedder Embedder
	logg     *logger.Logger
}

// NewService constructs a recommendation service.
func NewService(store *dataset.Store, corpus *Corpus, embedder Embedder, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("dataset store required")
	}
	if corpus == nil {
		return nil, fmt.Errorf("keyword corpus required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	return &Service{store: store, corpus: corpus, embedder: embedder, logg: logg}, nil
}

// Recommend ranks keywords for every item the merchant sells. Only the item
// name is embedded per request; keyword vectors come from the startup corpus.
// Items are scored in parallel: each goroutine touches only its own slot.
func (s *Service) Recommend(ctx context.Context, merchantID string) (Result, error) {
	items := s.store.ItemsForMerchant(merchantID)
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant has no items")
	}

	ranked := make([][]Recommendation, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			recs, err := s.scoreItem(gctx, item)
			if err != nil {
				return err
			}
			ranked[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(Result)
	for i, item := range items {
		if len(ranked[i]) == 0 {
			continue
		}
		result[item.Name] = ranked[i]
	}
	return result, nil
}

func (s *Service) scoreItem(ctx context.Context, item dataset.Item) ([]Recommendation, error) {
	vectors, err := s.embedder.Embed(ctx, []string{item.Name})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "embedding item name")
	}
	if len(vectors) != 1 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "encoder returned unexpected vector count")
	}
	itemVec := vectors[0]

	var recs []Recommendation
	for i := 0; i < s.corpus.Len(); i++ {
		keyword := s.corpus.Keyword(i)

		semantic := cosineSimilarity(itemVec, s.corpus.Vector(i))
		business := s.corpus.BusinessScore(i)
		cuisine := CuisineRelevance(keyword.Text, item.CuisineTag)

		score := semanticWeight*semantic + businessWeight*business + cuisineWeight*cuisine
		if score <= scoreThreshold {
			continue
		}

		recs = append(recs, Recommendation{
			Keyword:       keyword.Text,
			Score:         score,
			CheckoutCount: keyword.CheckoutCount,
			OrderCount:    keyword.OrderCount,
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		if recs[i].CheckoutCount != recs[j].CheckoutCount {
			return recs[i].CheckoutCount > recs[j].CheckoutCount
		}
		if recs[i].OrderCount != recs[j].OrderCount {
			return recs[i].OrderCount > recs[j].OrderCount
		}
		return recs[i].Keyword < recs[j].Keyword
	})

	if len(recs) > maxKeywordsPerItem {
		recs = recs[:maxKeywordsPerItem]
	}
	return recs, nil
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
