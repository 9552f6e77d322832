// Package filters narrows retrieval candidates by inferred person and by
// question topic. The topic stage reverts to its input when narrowing would
// empty the candidate set; the person stage does not, because no messages
// from the asked-about person means the question is unanswerable.
package filters

import (
	"strings"

	"github.com/MikeSquared-Agency/oracle/internal/corpus"
)

// Topic tags the keyword group a question resolves to.
type Topic int

const (
	TopicNone Topic = iota
	TopicTravel
	TopicCarCount
	TopicRestaurant
)

func (t Topic) String() string {
	switch t {
	case TopicTravel:
		return "travel"
	case TopicCarCount:
		return "car_count"
	case TopicRestaurant:
		return "restaurant"
	default:
		return "none"
	}
}

// keywords returns the message keywords a topic narrows by.
func (t Topic) keywords() []string {
	switch t {
	case TopicTravel:
		return []string{"trip", "travel", "flight", "fly", "book", "jet", "visit", "itinerary", "paris"}
	case TopicCarCount:
		return []string{"car", "vehicle", "auto", "garage"}
	case TopicRestaurant:
		return []string{"restaurant", "dinner", "table", "reserve", "reservation", "lunch", "eat"}
	default:
		return nil
	}
}

// ClassifyTopic resolves a question to at most one keyword group. Groups are
// tested in priority order and the first trigger wins, so a question holding
// both car-count and restaurant cues narrows by car-count only.
func ClassifyTopic(question string) Topic {
	q := strings.ToLower(question)
	switch {
	case containsAny(q, "travel", "trip", "fly", "flight", "paris", "visit"):
		return TopicTravel
	case strings.Contains(q, "how many") && strings.Contains(q, "car"):
		return TopicCarCount
	case strings.Contains(q, "restaurant") || strings.Contains(q, "favorite"):
		return TopicRestaurant
	default:
		return TopicNone
	}
}

// ByPerson keeps messages whose author name contains any token of the
// inferred person name. Unlike the topic stage it may return an empty set:
// a question about someone with no messages at all is unanswerable, and the
// orchestrator short-circuits on it rather than extracting from strangers.
func ByPerson(docs []corpus.Message, person string) []corpus.Message {
	if person == "" {
		return docs
	}
	parts := strings.Fields(strings.ToLower(person))
	kept := make([]corpus.Message, 0, len(docs))
	for _, doc := range docs {
		userName := strings.ToLower(doc.UserName)
		for _, part := range parts {
			if strings.Contains(userName, part) {
				kept = append(kept, doc)
				break
			}
		}
	}
	return kept
}

// ByTopic keeps messages containing any of the topic's keywords. Reverts to
// the full input when nothing survives.
func ByTopic(docs []corpus.Message, topic Topic) []corpus.Message {
	kws := topic.keywords()
	if len(kws) == 0 {
		return docs
	}
	var kept []corpus.Message
	for _, doc := range docs {
		msg := strings.ToLower(doc.Message)
		if containsAny(msg, kws...) {
			kept = append(kept, doc)
		}
	}
	if len(kept) == 0 {
		return docs
	}
	return kept
}

// Narrow applies the topic stage to an already person-filtered set. Date
// questions skip topic narrowing entirely: the message holding the date often
// carries none of the topic keywords.
func Narrow(question string, docs []corpus.Message) []corpus.Message {
	if strings.Contains(strings.ToLower(question), "when") {
		return docs
	}
	return ByTopic(docs, ClassifyTopic(question))
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
