package answerer

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/oracle/internal/corpus"
	"github.com/MikeSquared-Agency/oracle/internal/extractor"
	"github.com/MikeSquared-Agency/oracle/internal/index"
	"github.com/MikeSquared-Agency/oracle/internal/openrouter"
	"github.com/MikeSquared-Agency/oracle/internal/retrieval"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0, 0}, nil
}

// testEngine retrieves a three-message corpus in a fixed similarity order.
func testEngine(t *testing.T) *retrieval.Engine {
	t.Helper()
	messages := []corpus.Message{
		{UserName: "Jane Doe", Message: "I have 3 cars in the garage", Timestamp: "2025-10-01T12:00:00Z"},
		{UserName: "Marcus Reid", Message: "Booked flights to Paris for next Friday", Timestamp: "2025-10-02T09:00:00Z"},
		{UserName: "Lena Park", Message: "Dinner at Nobu tonight", Timestamp: "2025-10-03T19:00:00Z"},
	}
	idx, err := index.New([][]float32{{0, 1}, {0, 2}, {0, 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	eng, err := retrieval.NewEngine(stubEmbedder{}, idx, messages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return eng
}

// refNow is a Monday; next Friday from it is 2025-11-14.
var refNow = time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

func TestAnswer_CountWithoutGenerativeTier(t *testing.T) {
	a := New(testEngine(t), nil, nil, 50, discardLogger())

	resp, err := a.Answer(context.Background(), "How many cars does Jane Doe have?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Value != 3 {
		t.Errorf("expected 3, got %v", resp.Value)
	}
	if resp.Tier != "rules" {
		t.Errorf("expected rules tier, got %q", resp.Tier)
	}
}

func TestAnswer_UnknownPersonShortCircuits(t *testing.T) {
	a := New(testEngine(t), nil, nil, 50, discardLogger())

	resp, err := a.Answer(context.Background(), "How many cars does Zelda have?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Value != AnswerUnable {
		t.Errorf("expected %q, got %v", AnswerUnable, resp.Value)
	}
	if resp.Tier != "none" {
		t.Errorf("expected no tier, got %q", resp.Tier)
	}
}

func TestAnswer_RelativeDateQuestion(t *testing.T) {
	a := New(testEngine(t), nil, nil, 50, discardLogger())
	a.SetNow(func() time.Time { return refNow })

	resp, err := a.Answer(context.Background(), "When did Marcus book his flight?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Value != "2025-11-14" {
		t.Errorf("expected 2025-11-14, got %v", resp.Value)
	}
}

func TestAnswer_GenerativeFailureFallsBackToRules(t *testing.T) {
	server := httptest.NewServer(nil)
	server.Close() // generative tier gets connection refused

	llm := openrouter.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)
	gen := extractor.New(llm, 0, discardLogger())

	a := New(testEngine(t), gen, nil, 50, discardLogger())

	resp, err := a.Answer(context.Background(), "How many cars does Jane Doe have?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Value != 3 {
		t.Errorf("expected rule-based 3, got %v", resp.Value)
	}
	if resp.Tier != "rules" {
		t.Errorf("expected rules tier, got %q", resp.Tier)
	}
}

func TestAnswer_GenerativeSuccessWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "3"}},
			},
		})
	}))
	defer server.Close()

	llm := openrouter.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)
	gen := extractor.New(llm, 0, discardLogger())

	a := New(testEngine(t), gen, nil, 50, discardLogger())

	resp, err := a.Answer(context.Background(), "How many cars does Jane Doe have?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Value != "3" {
		t.Errorf("expected generative answer \"3\", got %v", resp.Value)
	}
	if resp.Tier != "generative" {
		t.Errorf("expected generative tier, got %q", resp.Tier)
	}
}

func TestAnswer_ExhaustedExtractionReturnsNoInfo(t *testing.T) {
	a := New(testEngine(t), nil, nil, 50, discardLogger())

	resp, err := a.Answer(context.Background(), "Who handled the request?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Value != AnswerNoInfo {
		t.Errorf("expected %q, got %v", AnswerNoInfo, resp.Value)
	}
}
