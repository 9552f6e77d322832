package store

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/MikeSquared-Agency/oracle/internal/corpus"
)

// ReplaceCorpus atomically swaps the stored corpus for a freshly built one.
// Messages and vectors must be aligned; row position i holds vecs[i] for
// msgs[i]. The table is recreated because the vector dimension is part of
// the schema and may change with the embedding model.
func (s *Store) ReplaceCorpus(ctx context.Context, msgs []corpus.Message, vecs [][]float32) error {
	if len(msgs) == 0 {
		return fmt.Errorf("empty corpus")
	}
	if len(msgs) != len(vecs) {
		return fmt.Errorf("messages and vectors misaligned: %d vs %d", len(msgs), len(vecs))
	}
	dim := len(vecs[0])
	for i, v := range vecs {
		if len(v) != dim {
			return fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), dim)
		}
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}
	// The pool registers vector types on connect, but this connection may
	// predate the extension; register again now that it exists.
	if err := pgxvec.RegisterTypes(ctx, conn.Conn()); err != nil {
		return fmt.Errorf("register vector types: %w", err)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DROP TABLE IF EXISTS corpus_messages`); err != nil {
		return fmt.Errorf("drop corpus table: %w", err)
	}
	createStmt := fmt.Sprintf(`
		CREATE TABLE corpus_messages (
			position  integer PRIMARY KEY,
			user_name text NOT NULL,
			message   text NOT NULL,
			ts        text NOT NULL,
			embedding vector(%d) NOT NULL
		)`, dim)
	if _, err := tx.Exec(ctx, createStmt); err != nil {
		return fmt.Errorf("create corpus table: %w", err)
	}

	for i, m := range msgs {
		_, err := tx.Exec(ctx, `
			INSERT INTO corpus_messages (position, user_name, message, ts, embedding)
			VALUES ($1, $2, $3, $4, $5)`,
			i, m.UserName, m.Message, m.Timestamp, pgvector.NewVector(vecs[i]),
		)
		if err != nil {
			return fmt.Errorf("insert message %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadCorpus reads the full corpus into memory in position order, returning
// the two aligned artifacts the retrieval engine is built from.
func (s *Store) LoadCorpus(ctx context.Context) ([]corpus.Message, [][]float32, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_name, message, ts, embedding
		FROM corpus_messages
		ORDER BY position`)
	if err != nil {
		return nil, nil, fmt.Errorf("query corpus: %w", err)
	}
	defer rows.Close()

	var msgs []corpus.Message
	var vecs [][]float32
	for rows.Next() {
		var m corpus.Message
		var v pgvector.Vector
		if err := rows.Scan(&m.UserName, &m.Message, &m.Timestamp, &v); err != nil {
			return nil, nil, fmt.Errorf("scan corpus row: %w", err)
		}
		msgs = append(msgs, m)
		vecs = append(vecs, v.Slice())
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate corpus rows: %w", err)
	}
	return msgs, vecs, nil
}

// Count returns how many messages are stored.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM corpus_messages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count corpus: %w", err)
	}
	return n, nil
}
