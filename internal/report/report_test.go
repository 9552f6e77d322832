package report

import (
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/oracle/internal/corpus"
)

func sampleMessages() []corpus.Message {
	return []corpus.Message{
		{UserName: "Jane Doe", Message: "I have 3 cars in the garage", Timestamp: "2025-10-01T12:00:00Z"},
		{UserName: "Jane Doe", Message: "Book a table at Le Jardin for Friday", Timestamp: "2025-10-05T18:30:00Z"},
		{UserName: "Marcus Reid", Message: "Flying to Paris on November 15", Timestamp: "2025-10-02T09:00:00Z"},
		{UserName: "Lena Park", Message: "Dinner at Nobu tonight â€™ canâ€™t wait", Timestamp: "2025-10-03T19:00:00Z"},
	}
}

func TestAnalyze_BasicStats(t *testing.T) {
	r := Analyze(sampleMessages())

	if r.Total != 4 {
		t.Errorf("expected 4 messages, got %d", r.Total)
	}
	if r.UniqueUsers != 3 {
		t.Errorf("expected 3 users, got %d", r.UniqueUsers)
	}
	if r.FirstDate != "2025-10-01" || r.LastDate != "2025-10-05" {
		t.Errorf("unexpected date range: %s to %s", r.FirstDate, r.LastDate)
	}
	if len(r.PerUser) == 0 || r.PerUser[0].User != "Jane Doe" || r.PerUser[0].Count != 2 {
		t.Errorf("expected Jane Doe first with 2 messages, got %+v", r.PerUser)
	}
}

func TestAnalyze_MojibakeDetection(t *testing.T) {
	r := Analyze(sampleMessages())

	// one message carries broken smart quotes, counted once despite two markers
	if r.Mojibake != 1 {
		t.Errorf("expected 1 mojibake message, got %d", r.Mojibake)
	}
}

func TestAnalyze_DatePatterns(t *testing.T) {
	r := Analyze(sampleMessages())

	if r.AbsoluteDates != 1 {
		t.Errorf("expected 1 absolute date, got %d", r.AbsoluteDates)
	}
}

func TestAnalyze_Venues(t *testing.T) {
	r := Analyze(sampleMessages())

	found := map[string]bool{}
	for _, v := range r.Venues {
		found[v] = true
	}
	if !found["Le Jardin"] || !found["Nobu"] {
		t.Errorf("expected Le Jardin and Nobu, got %v", r.Venues)
	}
}

func TestAnalyze_NumberContexts(t *testing.T) {
	r := Analyze(sampleMessages())

	if r.NumberCounts != 1 {
		t.Errorf("expected 1 number mention, got %d", r.NumberCounts)
	}
	if len(r.NumberTerms) == 0 || r.NumberTerms[0].User != "cars" {
		t.Errorf("expected cars as top context, got %+v", r.NumberTerms)
	}
}

func TestRender_ContainsSections(t *testing.T) {
	out := Analyze(sampleMessages()).Render()

	for _, want := range []string{
		"CORPUS ANALYSIS REPORT",
		"Total messages: 4",
		"Jane Doe: 2",
		"encoding problems: 1",
		"Le Jardin",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered report missing %q", want)
		}
	}
}
