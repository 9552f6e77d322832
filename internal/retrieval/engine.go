// Package retrieval embeds a query and maps nearest-neighbour hits back to
// corpus messages. It depends on the one alignment invariant of the system:
// vector i in the index was computed from message i in the corpus.
package retrieval

import (
	"context"
	"fmt"

	"github.com/MikeSquared-Agency/oracle/internal/corpus"
	"github.com/MikeSquared-Agency/oracle/internal/index"
)

// Embedder is the query-side embedding contract satisfied by embed.Client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Engine struct {
	embedder Embedder
	idx      *index.Flat
	messages []corpus.Message
}

// NewEngine wires the immutable engine state. A corpus/index size mismatch is
// a broken artifact and refuses construction — there is no degraded mode.
func NewEngine(embedder Embedder, idx *index.Flat, messages []corpus.Message) (*Engine, error) {
	if idx.Len() != len(messages) {
		return nil, fmt.Errorf("index has %d vectors, corpus has %d messages", idx.Len(), len(messages))
	}
	return &Engine{embedder: embedder, idx: idx, messages: messages}, nil
}

// Retrieve returns up to k messages most similar to the query, ordered by
// ascending distance. Positions are inherently unique, so no deduplication is
// needed.
func (e *Engine) Retrieve(ctx context.Context, query string, k int) ([]corpus.Message, error) {
	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := e.idx.Search(vec, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	out := make([]corpus.Message, len(hits))
	for i, h := range hits {
		out[i] = e.messages[h.Pos]
	}
	return out, nil
}
