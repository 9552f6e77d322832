// Package answerer sequences the query pipeline: person extraction,
// retrieval, candidate filtering, then the two extraction tiers. The
// generative tier runs first when configured and may only abstain on
// failure; the rule-based tier is always available. The machine is terminal
// on first success.
package answerer

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/oracle/internal/extractor"
	"github.com/MikeSquared-Agency/oracle/internal/filters"
	"github.com/MikeSquared-Agency/oracle/internal/hermes"
	"github.com/MikeSquared-Agency/oracle/internal/person"
	"github.com/MikeSquared-Agency/oracle/internal/retrieval"
	"github.com/MikeSquared-Agency/oracle/internal/rules"
)

// The two negative outcomes are distinguishable: AnswerUnable means the
// person filter left nothing to extract from, AnswerNoInfo means every
// extraction tier abstained.
const (
	AnswerUnable = "UNABLE_TO_ANSWER"
	AnswerNoInfo = "No relevant information found."
)

// Response is one answered query. Value is the JSON-ready answer payload:
// a string, an int, a []string, or one of the sentinel strings.
type Response struct {
	QueryID uuid.UUID
	Value   any
	Tier    string
}

type Answerer struct {
	engine     *retrieval.Engine
	generative *extractor.Extractor // nil unless a model credential is configured
	bus        *hermes.Client       // nil without NATS
	logger     *slog.Logger
	k          int
	now        func() time.Time
}

func New(engine *retrieval.Engine, generative *extractor.Extractor, bus *hermes.Client, k int, logger *slog.Logger) *Answerer {
	return &Answerer{
		engine:     engine,
		generative: generative,
		bus:        bus,
		logger:     logger,
		k:          k,
		now:        time.Now,
	}
}

// SetNow fixes the reference moment for relative date resolution, for tests.
func (a *Answerer) SetNow(now func() time.Time) {
	a.now = now
}

// Answer runs one query through the pipeline. An error is returned only when
// retrieval itself fails; extraction outcomes, including "nothing found",
// are answers.
func (a *Answerer) Answer(ctx context.Context, question string) (Response, error) {
	start := time.Now()
	resp := Response{QueryID: uuid.New(), Tier: "none"}

	name, hasPerson := person.Extract(question)

	docs, err := a.engine.Retrieve(ctx, question, a.k)
	if err != nil {
		return Response{}, err
	}

	if hasPerson {
		docs = filters.ByPerson(docs, name)
	}
	if len(docs) == 0 {
		resp.Value = AnswerUnable
		a.finish(resp, question, name, 0, false, start)
		return resp, nil
	}

	docs = filters.Narrow(question, docs)

	if a.generative != nil {
		if ans, ok := a.generative.Extract(ctx, question, docs); ok {
			resp.Value = ans.Value()
			resp.Tier = "generative"
			a.finish(resp, question, name, len(docs), true, start)
			return resp, nil
		}
	}

	if ans, ok := rules.Extract(question, docs, a.now()); ok {
		resp.Value = ans.Value()
		resp.Tier = "rules"
		a.finish(resp, question, name, len(docs), true, start)
		return resp, nil
	}

	resp.Value = AnswerNoInfo
	a.finish(resp, question, name, len(docs), false, start)
	return resp, nil
}

func (a *Answerer) finish(resp Response, question, name string, candidates int, answered bool, start time.Time) {
	a.logger.Info("question answered",
		"query_id", resp.QueryID.String(),
		"person", name,
		"tier", resp.Tier,
		"answered", answered,
		"candidates", candidates,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if a.bus == nil {
		return
	}
	signal := hermes.AnsweredSignal{
		QueryID:    resp.QueryID.String(),
		Question:   question,
		Person:     name,
		Tier:       resp.Tier,
		Answered:   answered,
		Candidates: candidates,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err := a.bus.Publish(hermes.SubjectAnswered, signal); err != nil {
		a.logger.Warn("failed to publish answered signal", "error", err)
	}
}
