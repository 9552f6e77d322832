// Package rules is the deterministic extraction tier: closed, fixed-priority
// question classification with a pattern-driven extractor per class. It never
// invents an answer — everything returned is grounded in a candidate message,
// and a class that finds nothing abstains rather than trying other classes.
package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/oracle/internal/answer"
	"github.com/MikeSquared-Agency/oracle/internal/corpus"
)

// questionKind is the extraction class a question resolves to.
type questionKind int

const (
	kindNone questionKind = iota
	kindDate
	kindCount
	kindEntity
)

// classify resolves the question to exactly one extraction class, in fixed
// priority order. Adding an answer type means adding a class here plus its
// extractor below.
func classify(question string) questionKind {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "when") || strings.Contains(q, "date"):
		return kindDate
	case strings.Contains(q, "how many"):
		return kindCount
	case strings.Contains(q, "restaurant") || strings.Contains(q, "favorite"):
		return kindEntity
	default:
		return kindNone
	}
}

// Extract runs the deterministic tier over the candidate set. Relative date
// phrases resolve against now. ok=false means the selected class found
// nothing (or no class applied) — abstention, not failure.
func Extract(question string, docs []corpus.Message, now time.Time) (answer.Answer, bool) {
	switch classify(question) {
	case kindDate:
		return extractDate(docs, now)
	case kindCount:
		return extractCount(docs)
	case kindEntity:
		return extractEntities(docs)
	default:
		return answer.Answer{}, false
	}
}

// extractDate returns the first normalizable date across candidates in
// retrieval order.
func extractDate(docs []corpus.Message, now time.Time) (answer.Answer, bool) {
	for _, doc := range docs {
		if d, ok := scanDate(doc.Message, now); ok {
			return answer.Date(d), true
		}
	}
	return answer.Answer{}, false
}

// countSubjects are the closed subject keywords a count may attach to, tried
// in order within each message.
var countSubjects = []string{"car", "cars", "ticket", "tickets", "people", "guests", "rooms"}

var countRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(countSubjects))
	for i, kw := range countSubjects {
		res[i] = regexp.MustCompile(fmt.Sprintf(`(?i)(\d+)\s*(?:%s)|(?:%s)\s*(\d+)`, kw, kw))
	}
	return res
}()

// extractCount returns the first integer adjacent to a subject keyword, in
// retrieval order. No aggregation across messages: two members mentioning
// different counts resolve to the better-ranked one.
func extractCount(docs []corpus.Message) (answer.Answer, bool) {
	for _, doc := range docs {
		for _, re := range countRes {
			m := re.FindStringSubmatch(doc.Message)
			if m == nil {
				continue
			}
			digits := m[1]
			if digits == "" {
				digits = m[2]
			}
			n, err := strconv.Atoi(digits)
			if err != nil {
				continue
			}
			return answer.Number(n), true
		}
	}
	return answer.Answer{}, false
}

var entityRes = []*regexp.Regexp{
	regexp.MustCompile(`\bat\s+([A-Z][A-Za-z\s&'-]{2,30}?)(?:\s+(?:for|on|tonight|tomorrow|this|next)|\.|,|$)`),
	regexp.MustCompile(`\breserve.*?at\s+([A-Z][A-Za-z\s&'-]{2,30}?)(?:\s+(?:for|on)|\.|,|$)`),
}

var trailingPrepRe = regexp.MustCompile(`(?i)\s+(for|on|at|in|the)$`)

// extractEntities collects proper-name phrases ("at Le Jardin", "reserve a
// table at Nobu") across every candidate and both patterns, deduplicated in
// first-seen order. Zero finds is an abstention, not an empty list.
func extractEntities(docs []corpus.Message) (answer.Answer, bool) {
	var names []string
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for _, re := range entityRes {
			for _, m := range re.FindAllStringSubmatch(doc.Message, -1) {
				name := strings.TrimSpace(m[1])
				name = trailingPrepRe.ReplaceAllString(name, "")
				if len(name) <= 2 {
					continue
				}
				if _, dup := seen[name]; dup {
					continue
				}
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return answer.Answer{}, false
	}
	return answer.List(names), true
}
