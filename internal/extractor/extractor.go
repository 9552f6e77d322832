// Package extractor is the generative extraction tier: a retrieval-augmented
// prompt against an external model. It is best-effort by contract — any
// transport or parse failure is logged and becomes an abstention, so this
// tier can degrade the pipeline to the rule-based tier but never break it.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/oracle/internal/answer"
	"github.com/MikeSquared-Agency/oracle/internal/corpus"
	"github.com/MikeSquared-Agency/oracle/internal/openrouter"
)

// DefaultPromptDocs bounds how many candidates are rendered into the prompt.
const DefaultPromptDocs = 5

const maxAnswerTokens = 300

type Extractor struct {
	llm        *openrouter.Client
	promptDocs int
	logger     *slog.Logger
}

func New(llm *openrouter.Client, promptDocs int, logger *slog.Logger) *Extractor {
	if promptDocs <= 0 {
		promptDocs = DefaultPromptDocs
	}
	return &Extractor{llm: llm, promptDocs: promptDocs, logger: logger}
}

// Extract asks the model to answer the question from the candidate messages.
// ok=false is an abstention: no candidates, a failed call, an unparseable
// reply, or the model returning the sentinel.
func (e *Extractor) Extract(ctx context.Context, question string, docs []corpus.Message) (answer.Answer, bool) {
	if len(docs) == 0 {
		return answer.Answer{}, false
	}

	prompt := fmt.Sprintf(promptTemplate, question, renderContext(docs, e.promptDocs))

	raw, err := e.llm.Complete(ctx, prompt, maxAnswerTokens)
	if err != nil {
		e.logger.Warn("generative extraction failed, falling back",
			"question", question,
			"error", err,
		)
		return answer.Answer{}, false
	}

	return parseReply(raw, e.logger)
}

// renderContext formats the top candidates the way the model is prompted to
// read them: author, date, message body.
func renderContext(docs []corpus.Message, limit int) string {
	if len(docs) > limit {
		docs = docs[:limit]
	}
	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = fmt.Sprintf("Message from %s on %s:\n%s", doc.UserName, doc.Date(), doc.Message)
	}
	return strings.Join(parts, "\n\n")
}

func parseReply(raw string, logger *slog.Logger) (answer.Answer, bool) {
	reply := strings.TrimSpace(raw)
	if reply == "" || reply == sentinel {
		return answer.Answer{}, false
	}
	if strings.HasPrefix(reply, "[") && strings.HasSuffix(reply, "]") {
		var list []string
		if err := json.Unmarshal([]byte(reply), &list); err != nil {
			logger.Warn("model returned malformed list", "raw", reply, "error", err)
			return answer.Answer{}, false
		}
		return answer.List(list), true
	}
	return answer.Text(reply), true
}
