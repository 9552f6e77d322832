package hermes

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects oracle emits on the swarm bus. All telemetry is fire-and-forget;
// the QA pipeline never waits on the bus.
const (
	SubjectRegistered    = "swarm.agent.oracle.registered"
	SubjectAnswered      = "swarm.oracle.question.answered"
	SubjectCorpusIndexed = "swarm.oracle.corpus.indexed"
)

// AnsweredSignal is emitted once per query, for observability of which tier
// answered and how the filters behaved.
type AnsweredSignal struct {
	QueryID    string `json:"query_id"`
	Question   string `json:"question"`
	Person     string `json:"person,omitempty"`
	Tier       string `json:"tier"` // "generative", "rules", or "none"
	Answered   bool   `json:"answered"`
	Candidates int    `json:"candidates"`
	DurationMs int64  `json:"duration_ms"`
}

// CorpusIndexedSignal is emitted by the indexer after a successful build.
type CorpusIndexedSignal struct {
	Messages  int    `json:"messages"`
	Dimension int    `json:"dimension"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Close() {
	c.conn.Close()
}
