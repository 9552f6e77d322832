package corpus

// Message is a single concierge chat message. The corpus is immutable at
// query time: messages are written once by the indexer and only read by the
// service. A message has no surrogate ID — identity is its position in the
// corpus, which is also its row in the vector index.
type Message struct {
	UserName  string `json:"user_name"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"` // ISO-8601, as delivered by the member API
}

// Document returns the text form a message is embedded under. Prefixing the
// author lets retrieval latch onto the person as well as the content.
func (m Message) Document() string {
	return m.UserName + ": " + m.Message
}

// Date returns the YYYY-MM-DD prefix of the timestamp, or the raw timestamp
// when it is too short to carry a date.
func (m Message) Date() string {
	if len(m.Timestamp) >= 10 {
		return m.Timestamp[:10]
	}
	return m.Timestamp
}

// Export is the envelope the member API responds with, also used for local
// JSON snapshots written by the indexer.
type Export struct {
	Items []Message `json:"items"`
	Total int       `json:"total"`
}
