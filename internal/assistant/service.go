package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/merchpulse/merchpulse-backend/internal/view"
	pkgerrors "github.com/merchpulse/merchpulse-backend/pkg/errors"
	"github.com/merchpulse/merchpulse-backend/pkg/logger"
)

// Generator is the opaque text-completion boundary. The reply is passed
// through to the caller untouched.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HistoryStore persists the append-only, merchant-keyed chat history.
type HistoryStore interface {
	ChatHistoryKey(merchantID string) string
	AppendList(ctx context.Context, key string, value any) error
	ListAll(ctx context.Context, key string) ([]string, error)
}

// ChatEntry is one question/answer exchange.
type ChatEntry struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// Reply is the assistant's response payload.
type Reply struct {
	Answer string `json:"answer"`
}

// Service narrates merchant statistics through the generative backend.
type Service struct {
	builder   *view.Builder
	generator Generator
	history   HistoryStore
	logg      *logger.Logger
}

// NewService constructs the assistant service.
func NewService(builder *view.Builder, generator Generator, history HistoryStore, logg *logger.Logger) (*Service, error) {
	if builder == nil {
		return nil, fmt.Errorf("view builder required")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator required")
	}
	return &Service{builder: builder, generator: generator, history: history, logg: logg}, nil
}

// Ask builds a deterministic statistics summary for the merchant, appends the
// caller's question, and passes the combined prompt to the generator. History
// write failures are logged but never fail the request.
func (s *Service) Ask(ctx context.Context, merchantID, question string) (*Reply, error) {
	rows := s.builder.Build(ctx, merchantID)
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found or has no orders")
	}

	summary := statsSummary(view.Summarize(rows, 5))
	prompt := summary + "\n\nMerchant question: " + question

	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.appendHistory(ctx, merchantID, ChatEntry{
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now().UTC(),
	})

	return &Reply{Answer: answer}, nil
}

// History returns the merchant's past exchanges, oldest first.
func (s *Service) History(ctx context.Context, merchantID string) ([]ChatEntry, error) {
	if s.history == nil {
		return []ChatEntry{}, nil
	}
	raw, err := s.history.ListAll(ctx, s.history.ChatHistoryKey(merchantID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading chat history")
	}
	entries := make([]ChatEntry, 0, len(raw))
	for _, item := range raw {
		var entry ChatEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Service) appendHistory(ctx context.Context, merchantID string, entry ChatEntry) {
	if s.history == nil {
		return
	}
	encoded, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := s.history.AppendList(ctx, s.history.ChatHistoryKey(merchantID), string(encoded)); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithMerchantID(ctx, merchantID), "assistant.history_append_failed", err)
	}
}

// statsSummary renders the metric bundle as a stable, human-readable block.
// The generator only ever sees this summary plus the merchant's question.
func statsSummary(summary view.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a helpful assistant for the merchant %q (%s cuisine).\n", summary.MerchantName, summary.CuisineType)
	b.WriteString("Current performance statistics:\n")
	fmt.Fprintf(&b, "- Average basket size: %.2f items\n", summary.AverageBasketSize)
	fmt.Fprintf(&b, "- Average order value: %s\n", summary.AverageOrderValue.StringFixed(2))
	fmt.Fprintf(&b, "- Average delivery time: %.2f minutes\n", summary.AverageDeliveryMins)
	fmt.Fprintf(&b, "- Total revenue: %s\n", summary.TotalRevenue.StringFixed(2))

	if len(summary.TopSellingItems) > 0 {
		b.WriteString("- Top selling items:")
		for _, item := range summary.TopSellingItems {
			fmt.Fprintf(&b, " %s (%d);", item.ItemName, item.Count)
		}
		b.WriteString("\n")
	}
	if len(summary.PopularHours) > 0 {
		fmt.Fprintf(&b, "- Busiest hour of day: %02d:00 (%d orders)\n",
			summary.PopularHours[0].Hour, summary.PopularHours[0].Count)
	}
	if len(summary.PopularDays) > 0 {
		fmt.Fprintf(&b, "- Busiest day of week: %s (%d orders)\n",
			summary.PopularDays[0].Day, summary.PopularDays[0].Count)
	}
	return b.String()
}
