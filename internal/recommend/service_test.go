package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/merchpulse/merchpulse-backend/internal/dataset"
	pkgerrors "github.com/merchpulse/merchpulse-backend/pkg/errors"
)

func burgerStore() *dataset.Store {
	return dataset.NewStore(
		[]dataset.Merchant{{ID: "m1", Name: "Burger Barn", CuisineType: "Burgers"}},
		[]dataset.Item{{ID: "i1", MerchantID: "m1", Name: "Cheeseburger", CuisineTag: "Burgers"}},
		nil, nil, nil,
	)
}

func TestRecommendRanksAndFilters(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{
		// Unit vectors: cosine against the item is just the first component.
		"Cheeseburger": {1, 0},
		"burger deal":  {0.9, 0.43589},
		"sushi roll":   {0.1, 0.99499},
	}}

	corpus, err := BuildCorpus(context.Background(), emb, testKeywords())
	if err != nil {
		t.Fatalf("build corpus: %v", err)
	}
	svc, err := NewService(burgerStore(), corpus, emb, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.Recommend(context.Background(), "m1")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	recs, ok := result["Cheeseburger"]
	if !ok {
		t.Fatalf("missing item entry, got %v", result)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 keyword to survive the threshold, got %+v", recs)
	}
	if recs[0].Keyword != "burger deal" {
		t.Fatalf("unexpected keyword %q", recs[0].Keyword)
	}
	// 0.5*0.9 semantic + 0.3*1.0 business + 0.2*1 cuisine; not clipped to 1.
	if math.Abs(recs[0].Score-1.15) > 1e-4 {
		t.Fatalf("expected score 1.15, got %v", recs[0].Score)
	}
	if recs[0].CheckoutCount != 100 || recs[0].OrderCount != 80 {
		t.Fatalf("keyword counts not carried through: %+v", recs[0])
	}
}

func TestRecommendMerchantWithoutItems(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{}}
	corpus, err := BuildCorpus(context.Background(), emb, nil)
	if err != nil {
		t.Fatalf("build corpus: %v", err)
	}
	svc, err := NewService(burgerStore(), corpus, emb, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Recommend(context.Background(), "m-unknown")
	if !pkgerrors.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestRecommendOmitsItemsWithNoQualifyingKeyword(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{
		"Cheeseburger": {1, 0},
		"sushi roll":   {0.1, 0.99499},
	}}
	corpus, err := BuildCorpus(context.Background(), emb, []dataset.Keyword{
		{Text: "sushi roll", CheckoutCount: 10, OrderCount: 5},
	})
	if err != nil {
		t.Fatalf("build corpus: %v", err)
	}
	svc, err := NewService(burgerStore(), corpus, emb, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.Recommend(context.Background(), "m1")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if _, ok := result["Cheeseburger"]; ok {
		t.Fatalf("item with no qualifying keyword should be absent, got %v", result)
	}
}

func TestRecommendTruncatesToFiveSorted(t *testing.T) {
	vectors := map[string][]float64{"Cheeseburger": {1, 0}}
	keywords := make([]dataset.Keyword, 0, 7)
	for i := 0; i < 7; i++ {
		text := fmt.Sprintf("burger combo %d", i)
		keywords = append(keywords, dataset.Keyword{Text: text, CheckoutCount: 10 * (i + 1), OrderCount: 5 * (i + 1)})
		vectors[text] = []float64{1, 0}
	}
	emb := &fakeEmbedder{vectors: vectors}

	corpus, err := BuildCorpus(context.Background(), emb, keywords)
	if err != nil {
		t.Fatalf("build corpus: %v", err)
	}
	svc, err := NewService(burgerStore(), corpus, emb, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.Recommend(context.Background(), "m1")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	recs := result["Cheeseburger"]
	if len(recs) != 5 {
		t.Fatalf("expected 5 keywords, got %d", len(recs))
	}
	if !sort.SliceIsSorted(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score }) {
		t.Fatalf("recommendations not sorted by score: %+v", recs)
	}
	// Highest business counts win since semantic and cuisine tie.
	if recs[0].Keyword != "burger combo 6" {
		t.Fatalf("expected strongest keyword first, got %q", recs[0].Keyword)
	}
}

func TestRecommendPropagatesEncoderFailure(t *testing.T) {
	good := &fakeEmbedder{vectors: map[string][]float64{"burger deal": {1, 0}, "sushi roll": {0, 1}}}
	corpus, err := BuildCorpus(context.Background(), good, testKeywords())
	if err != nil {
		t.Fatalf("build corpus: %v", err)
	}
	svc, err := NewService(burgerStore(), corpus, failingEmbedder{}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Recommend(context.Background(), "m1")
	if err == nil {
		t.Fatal("expected error from failing encoder")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
