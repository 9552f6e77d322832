// Package answer defines the tagged answer variant the extraction tiers
// produce. Extractors signal "no answer" by returning ok=false alongside the
// zero Answer — abstention is an outcome, not an error, so it never travels
// through the error return.
package answer

import "encoding/json"

// Kind discriminates the answer variant.
type Kind int

const (
	KindText Kind = iota
	KindDate
	KindNumber
	KindList
)

// Answer is one extracted answer. Exactly one payload field is meaningful,
// selected by Kind.
type Answer struct {
	Kind   Kind
	Text   string   // KindText: free text, KindDate: YYYY-MM-DD
	Number int      // KindNumber
	List   []string // KindList: distinct, first-seen order
}

func Text(s string) Answer   { return Answer{Kind: KindText, Text: s} }
func Date(s string) Answer   { return Answer{Kind: KindDate, Text: s} }
func Number(n int) Answer    { return Answer{Kind: KindNumber, Number: n} }
func List(v []string) Answer { return Answer{Kind: KindList, List: v} }

// Value returns the payload in its natural Go type, for JSON responses and
// telemetry: string for text and dates, int for numbers, []string for lists.
func (a Answer) Value() any {
	switch a.Kind {
	case KindNumber:
		return a.Number
	case KindList:
		return a.List
	default:
		return a.Text
	}
}

// MarshalJSON emits the bare payload value, not the struct.
func (a Answer) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Value())
}
