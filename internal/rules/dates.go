package rules

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	absoluteDateRe = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)

	relativeDateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bthis (Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)\b`),
		regexp.MustCompile(`(?i)\bnext (Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)\b`),
		regexp.MustCompile(`(?i)\btomorrow\b`),
		regexp.MustCompile(`(?i)\btoday\b`),
	}
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

var weekdaysByName = map[string]time.Weekday{
	"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
	"sunday": time.Sunday,
}

// scanDate finds the first normalizable date in a message. The absolute
// month-name pattern is tried before the relative phrases; an unresolvable
// candidate (e.g. "February 30") does not stop the caller's scan.
func scanDate(message string, now time.Time) (string, bool) {
	if m := absoluteDateRe.FindStringSubmatch(message); m != nil {
		if d, ok := normalizeAbsolute(m[1], m[2], m[3], now); ok {
			return d, true
		}
	}
	for _, re := range relativeDateRes {
		m := re.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		phrase := strings.ToLower(m[0])
		if d, ok := normalizeRelative(phrase, now); ok {
			return d, true
		}
	}
	return "", false
}

// normalizeAbsolute resolves "November 15" / "November 15, 2025" against the
// reference moment. A missing year takes the reference year.
func normalizeAbsolute(month, day, year string, now time.Time) (string, bool) {
	mon, ok := monthsByName[strings.ToLower(month)]
	if !ok {
		return "", false
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return "", false
	}
	y := now.Year()
	if year != "" {
		y, err = strconv.Atoi(year)
		if err != nil {
			return "", false
		}
	}
	t := time.Date(y, mon, d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflowing days (February 30 becomes March 2);
	// treat that as an unresolvable date, not a silent shift.
	if t.Month() != mon || t.Day() != d {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// normalizeRelative resolves {this <weekday>, next <weekday>, tomorrow,
// today} against the reference moment. "this <weekday>" is the upcoming
// occurrence, today included; "next <weekday>" is that occurrence plus a
// week.
func normalizeRelative(phrase string, now time.Time) (string, bool) {
	switch {
	case phrase == "today":
		return now.Format("2006-01-02"), true
	case phrase == "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02"), true
	case strings.HasPrefix(phrase, "this "), strings.HasPrefix(phrase, "next "):
		wd, ok := weekdaysByName[strings.TrimSpace(phrase[5:])]
		if !ok {
			return "", false
		}
		ahead := (int(wd) - int(now.Weekday()) + 7) % 7
		if strings.HasPrefix(phrase, "next ") {
			ahead += 7
		}
		return now.AddDate(0, 0, ahead).Format("2006-01-02"), true
	}
	return "", false
}
