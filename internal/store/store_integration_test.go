//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/MikeSquared-Agency/oracle/internal/corpus"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestIntegration_ReplaceAndLoadCorpus(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	msgs := []corpus.Message{
		{UserName: "Jane Doe", Message: "I have 3 cars", Timestamp: "2025-10-01T12:00:00Z"},
		{UserName: "Marcus Reid", Message: "Flight booked to Paris", Timestamp: "2025-10-02T09:30:00Z"},
	}
	vecs := [][]float32{
		{0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6},
	}

	if err := s.ReplaceCorpus(ctx, msgs, vecs); err != nil {
		t.Fatalf("replace corpus: %v", err)
	}

	gotMsgs, gotVecs, err := s.LoadCorpus(ctx)
	if err != nil {
		t.Fatalf("load corpus: %v", err)
	}
	if len(gotMsgs) != 2 || len(gotVecs) != 2 {
		t.Fatalf("expected 2 messages and 2 vectors, got %d and %d", len(gotMsgs), len(gotVecs))
	}
	// Position order is the alignment contract.
	if gotMsgs[0].UserName != "Jane Doe" || gotMsgs[1].UserName != "Marcus Reid" {
		t.Errorf("corpus order not preserved: %+v", gotMsgs)
	}
	if gotVecs[0][0] != 0.1 || gotVecs[1][2] != 0.6 {
		t.Errorf("vectors not preserved: %+v", gotVecs)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("expected count 2, got %d", n)
	}
}

func TestIntegration_ReplaceCorpusRejectsMisalignment(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	err := s.ReplaceCorpus(ctx,
		[]corpus.Message{{UserName: "Jane Doe", Message: "hi", Timestamp: "2025-10-01T00:00:00Z"}},
		[][]float32{{0.1}, {0.2}},
	)
	if err == nil {
		t.Fatal("expected error for misaligned messages and vectors")
	}
}
