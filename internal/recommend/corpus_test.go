package recommend

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/merchpulse/merchpulse-backend/internal/dataset"
)

// fakeEmbedder returns canned vectors per text and counts calls.
type fakeEmbedder struct {
	vectors map[string][]float64
	calls   int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.calls++
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, ok := f.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no canned vector for %q", text)
		}
		out[i] = vec
	}
	return out, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, []string) ([][]float64, error) {
	return nil, fmt.Errorf("encoder offline")
}

func testKeywords() []dataset.Keyword {
	return []dataset.Keyword{
		{Text: "burger deal", CheckoutCount: 100, OrderCount: 80},
		{Text: "sushi roll", CheckoutCount: 10, OrderCount: 5},
	}
}

func TestBuildCorpusEmbedsEveryKeywordOnce(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{
		"burger deal": {1, 0},
		"sushi roll":  {0, 1},
	}}

	corpus, err := BuildCorpus(context.Background(), emb, testKeywords())
	if err != nil {
		t.Fatalf("build corpus: %v", err)
	}
	if corpus.Len() != 2 {
		t.Fatalf("expected 2 keywords, got %d", corpus.Len())
	}
	if emb.calls != 1 {
		t.Fatalf("expected a single batched embed call, got %d", emb.calls)
	}
}

func TestBuildCorpusFailsWhenEncoderUnavailable(t *testing.T) {
	if _, err := BuildCorpus(context.Background(), failingEmbedder{}, testKeywords()); err == nil {
		t.Fatal("expected error when encoder is unavailable")
	}
}

func TestBusinessScoreUsesCorpusWideMaxima(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{
		"burger deal": {1, 0},
		"sushi roll":  {0, 1},
	}}
	corpus, err := BuildCorpus(context.Background(), emb, testKeywords())
	if err != nil {
		t.Fatalf("build corpus: %v", err)
	}

	// burger deal holds both maxima: 0.4*1 + 0.6*1.
	if got := corpus.BusinessScore(0); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("expected business score 1.0, got %v", got)
	}
	// sushi roll: 0.4*(10/100) + 0.6*(5/80).
	want := 0.4*0.1 + 0.6*0.0625
	if got := corpus.BusinessScore(1); math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected business score %v, got %v", want, got)
	}
}

func TestBusinessScoreEmptyCorpus(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float64{}}
	corpus, err := BuildCorpus(context.Background(), emb, nil)
	if err != nil {
		t.Fatalf("build corpus: %v", err)
	}
	if corpus.Len() != 0 {
		t.Fatalf("expected empty corpus, got %d", corpus.Len())
	}
}
