// Package report summarizes a corpus export so operators can sanity-check
// the data before indexing it: per-user volume, topic spread, date and
// number density, and known data-quality problems like mojibake.
package report

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/MikeSquared-Agency/oracle/internal/corpus"
)

var (
	absoluteDateRe = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}`)
	relativeDateRe = regexp.MustCompile(`(?i)\b(this|next|tomorrow|today|tonight)\s+(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday|week)`)
	numberRe       = regexp.MustCompile(`\b(\d+)\s+(\w+)`)
	venueRe        = regexp.MustCompile(`\bat\s+([A-Z][A-Za-z\s&'-]{2,30}?)(?:\s+(?:for|on|tonight|tomorrow|this|next)|\.|,|$)`)
)

// mojibakeMarkers are byte sequences left behind by a UTF-8 export decoded
// as Windows-1252 somewhere upstream.
var mojibakeMarkers = []string{`â€"`, "â€™", "â€œ", "Ã"}

var topicKeywords = map[string][]string{
	"Travel":      {"travel", "trip", "flight", "fly", "jet", "hotel", "villa", "book"},
	"Restaurants": {"restaurant", "dinner", "table", "reservation", "lunch"},
	"Account":     {"update", "profile", "contact", "number", "address", "card"},
	"Service":     {"thank", "help", "assist", "issue", "problem", "confirm"},
}

type UserCount struct {
	User  string
	Count int
}

type Report struct {
	Total         int
	UniqueUsers   int
	PerUser       []UserCount // descending by count
	FirstDate     string
	LastDate      string
	Mojibake      int
	Topics        map[string]int
	AbsoluteDates int
	RelativeDates int
	NumberCounts  int
	NumberTerms   []UserCount // word following a number, descending
	VenueMentions int
	Venues        []string
}

// Analyze walks the corpus once per concern. Messages with broken encoding
// still count toward every other stat.
func Analyze(messages []corpus.Message) *Report {
	r := &Report{Topics: make(map[string]int)}
	r.Total = len(messages)

	userCounts := make(map[string]int)
	termCounts := make(map[string]int)
	venueSeen := make(map[string]bool)

	for _, msg := range messages {
		userCounts[msg.UserName]++

		date := msg.Date()
		if r.FirstDate == "" || date < r.FirstDate {
			r.FirstDate = date
		}
		if date > r.LastDate {
			r.LastDate = date
		}

		for _, marker := range mojibakeMarkers {
			if strings.Contains(msg.Message, marker) {
				r.Mojibake++
				break
			}
		}

		lower := strings.ToLower(msg.Message)
		for topic, keywords := range topicKeywords {
			for _, kw := range keywords {
				if strings.Contains(lower, kw) {
					r.Topics[topic]++
					break
				}
			}
		}

		if absoluteDateRe.MatchString(msg.Message) {
			r.AbsoluteDates++
		}
		if relativeDateRe.MatchString(msg.Message) {
			r.RelativeDates++
		}

		for _, m := range numberRe.FindAllStringSubmatch(msg.Message, -1) {
			r.NumberCounts++
			termCounts[strings.ToLower(m[2])]++
		}

		for _, m := range venueRe.FindAllStringSubmatch(msg.Message, -1) {
			r.VenueMentions++
			name := strings.TrimSpace(m[1])
			if !venueSeen[name] {
				venueSeen[name] = true
				r.Venues = append(r.Venues, name)
			}
		}
	}

	r.UniqueUsers = len(userCounts)
	r.PerUser = sortedCounts(userCounts)
	r.NumberTerms = sortedCounts(termCounts)
	sort.Strings(r.Venues)

	return r
}

func sortedCounts(counts map[string]int) []UserCount {
	out := make([]UserCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, UserCount{User: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].User < out[j].User
	})
	return out
}

// Render formats the report for the terminal.
func (r *Report) Render() string {
	var b strings.Builder
	rule := strings.Repeat("=", 72)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "CORPUS ANALYSIS REPORT")
	fmt.Fprintln(&b, rule)

	fmt.Fprintf(&b, "\nTotal messages: %d\n", r.Total)
	fmt.Fprintf(&b, "Unique users: %d\n", r.UniqueUsers)
	if r.UniqueUsers > 0 {
		fmt.Fprintf(&b, "Average messages per user: %.1f\n", float64(r.Total)/float64(r.UniqueUsers))
	}
	if r.FirstDate != "" {
		fmt.Fprintf(&b, "Date range: %s to %s\n", r.FirstDate, r.LastDate)
	}

	fmt.Fprintln(&b, "\nMessages per user:")
	for _, uc := range r.PerUser {
		fmt.Fprintf(&b, "  %s: %d\n", uc.User, uc.Count)
	}

	fmt.Fprintf(&b, "\nMessages with encoding problems: %d\n", r.Mojibake)

	fmt.Fprintln(&b, "\nTopic distribution (keyword estimate):")
	for _, tc := range sortedCounts(r.Topics) {
		pct := 0.0
		if r.Total > 0 {
			pct = float64(tc.Count) / float64(r.Total) * 100
		}
		fmt.Fprintf(&b, "  %s: %d messages (%.1f%%)\n", tc.User, tc.Count, pct)
	}

	fmt.Fprintln(&b, "\nDate patterns:")
	fmt.Fprintf(&b, "  Absolute dates: %d messages\n", r.AbsoluteDates)
	fmt.Fprintf(&b, "  Relative dates: %d messages\n", r.RelativeDates)

	fmt.Fprintf(&b, "\nNumber mentions: %d\n", r.NumberCounts)
	for i, tc := range r.NumberTerms {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "  %s: %d\n", tc.User, tc.Count)
	}

	fmt.Fprintf(&b, "\nVenue mentions: %d (%d unique)\n", r.VenueMentions, len(r.Venues))
	for _, v := range r.Venues {
		fmt.Fprintf(&b, "  %s\n", v)
	}

	fmt.Fprintln(&b, "\n"+rule)
	return b.String()
}
