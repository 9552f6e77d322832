package extractor

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/oracle/internal/answer"
	"github.com/MikeSquared-Agency/oracle/internal/corpus"
	"github.com/MikeSquared-Agency/oracle/internal/openrouter"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func completionServer(t *testing.T, reply string, capture *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if capture != nil && len(req.Messages) > 0 {
			*capture = req.Messages[0].Content
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		})
	}))
}

func testDocs(n int) []corpus.Message {
	docs := make([]corpus.Message, n)
	for i := range docs {
		docs[i] = corpus.Message{
			UserName:  "Jane Doe",
			Message:   "I keep 3 cars in the garage",
			Timestamp: "2025-10-01T12:00:00Z",
		}
	}
	return docs
}

func TestExtract_TextAnswer(t *testing.T) {
	server := completionServer(t, "  3 ", nil)
	defer server.Close()

	llm := openrouter.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)

	a, ok := New(llm, 0, discardLogger()).Extract(context.Background(), "How many cars does Jane have?", testDocs(1))
	if !ok {
		t.Fatal("expected an answer")
	}
	if a.Kind != answer.KindText || a.Text != "3" {
		t.Errorf("expected trimmed text answer, got %+v", a)
	}
}

func TestExtract_ListAnswer(t *testing.T) {
	server := completionServer(t, `["Le Jardin", "Nobu"]`, nil)
	defer server.Close()

	llm := openrouter.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)

	a, ok := New(llm, 0, discardLogger()).Extract(context.Background(), "Favorite restaurants?", testDocs(1))
	if !ok {
		t.Fatal("expected an answer")
	}
	if a.Kind != answer.KindList || len(a.List) != 2 || a.List[0] != "Le Jardin" {
		t.Errorf("expected parsed list, got %+v", a)
	}
}

func TestExtract_SentinelAbstains(t *testing.T) {
	server := completionServer(t, "UNABLE_TO_ANSWER", nil)
	defer server.Close()

	llm := openrouter.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)

	if a, ok := New(llm, 0, discardLogger()).Extract(context.Background(), "When?", testDocs(1)); ok {
		t.Errorf("expected abstention, got %+v", a)
	}
}

func TestExtract_MalformedListAbstains(t *testing.T) {
	server := completionServer(t, `["Le Jardin", 3]`, nil)
	defer server.Close()

	llm := openrouter.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)

	if a, ok := New(llm, 0, discardLogger()).Extract(context.Background(), "Favorites?", testDocs(1)); ok {
		t.Errorf("expected abstention for malformed list, got %+v", a)
	}
}

func TestExtract_TransportFailureAbstains(t *testing.T) {
	server := completionServer(t, "unused", nil)
	server.Close() // refuse all connections

	llm := openrouter.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)

	if a, ok := New(llm, 0, discardLogger()).Extract(context.Background(), "When?", testDocs(1)); ok {
		t.Errorf("expected abstention on transport failure, got %+v", a)
	}
}

func TestExtract_PromptBoundedToFiveDocs(t *testing.T) {
	var prompt string
	server := completionServer(t, "UNABLE_TO_ANSWER", &prompt)
	defer server.Close()

	llm := openrouter.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)

	New(llm, 0, discardLogger()).Extract(context.Background(), "How many cars?", testDocs(8))

	if got := strings.Count(prompt, "Message from "); got != 5 {
		t.Errorf("expected 5 rendered candidates, got %d", got)
	}
	if !strings.Contains(prompt, "on 2025-10-01:") {
		t.Errorf("expected date-prefixed context, got:\n%s", prompt)
	}
}

func TestExtract_NoCandidatesAbstains(t *testing.T) {
	llm := openrouter.NewClient("test-key", "test-model")
	if a, ok := New(llm, 0, discardLogger()).Extract(context.Background(), "When?", nil); ok {
		t.Errorf("expected abstention with no candidates, got %+v", a)
	}
}
