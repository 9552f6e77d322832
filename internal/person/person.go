// Package person isolates the proper-noun subject of a question, so retrieval
// candidates can be narrowed to messages written by that member.
package person

import (
	"regexp"
	"strings"
)

// A capitalized name: one or more capitalized words, optionally hyphen-joined
// ("Anna-Maria"), possibly multi-word ("Jane Doe"). Kept non-greedy so the
// trailing possessive / whitespace anchor decides where the name ends.
const nameExpr = `([A-Z][a-z]+(?:\s+[A-Z][a-z]+(?:-[A-Z][a-z]+)?)*?)`

// Rules are tried in priority order; the first accepted match wins.
var rules = []*regexp.Regexp{
	// Verb-led possessive: "does Jane Doe have", "is Laura's trip".
	regexp.MustCompile(`(?:is|does|did|has|have|are)\s+` + nameExpr + `(?:'s|\s+)`),
	// Bare possessive: "Jane's", "Travis'".
	regexp.MustCompile(nameExpr + `(?:'s|')`),
	// "about <Name>" (greedy: no trailing anchor to stop at).
	regexp.MustCompile(`about\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+(?:-[A-Z][a-z]+)?)*)`),
}

// Question words start with a capital at the head of the sentence and would
// otherwise look like names. A stoplisted capture rejects the rule and falls
// through to the next one.
var stoplist = map[string]struct{}{
	"when":  {},
	"what":  {},
	"where": {},
	"who":   {},
	"how":   {},
	"why":   {},
	"many":  {},
}

// Extract returns the inferred person name, if any. Absence is a normal
// outcome, not an error.
func Extract(question string) (string, bool) {
	for _, re := range rules {
		m := re.FindStringSubmatch(question)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if _, stopped := stoplist[strings.ToLower(name)]; stopped {
			continue
		}
		return name, true
	}
	return "", false
}
