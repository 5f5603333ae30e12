package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRe      = regexp.MustCompile(`(20\d{2})-(\d{1,2})-(\d{1,2})`)
	monthDayRe     = regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\s+(\d{1,2})(?:,\s*(\d{4}))?`)
	relativeDayRe  = regexp.MustCompile(`(\d+)\s+days?\s+ago`)
	relativeWeekRe = regexp.MustCompile(`(\d+)\s+weeks?\s+ago`)
)

var monthNumbers = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"sept": time.September, "oct": time.October, "nov": time.November,
	"dec": time.December,
}

// ParseDeadline extracts an application deadline from a posting's explicit
// deadline text or its description. A month-name date without a year assumes
// the current year. Returns nil when nothing parses.
func ParseDeadline(text string) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			return &t
		}
	}

	if m := monthDayRe.FindStringSubmatch(text); m != nil {
		month, ok := monthNumbers[strings.ToLower(m[1])[:3]]
		if !ok {
			return nil
		}
		day, _ := strconv.Atoi(m[2])
		year := time.Now().UTC().Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		if day >= 1 && day <= 31 {
			t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			return &t
		}
	}

	return nil
}

// parseRelativeDate turns board phrasing like "3 days ago" or "just posted"
// into a timestamp. Returns nil when the text is unrecognized so callers can
// leave the posted date unset.
func parseRelativeDate(text string) *time.Time {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return nil
	}

	now := time.Now().UTC()
	switch {
	case strings.Contains(lower, "just posted"), strings.Contains(lower, "today"):
		return &now
	case strings.Contains(lower, "yesterday"):
		t := now.AddDate(0, 0, -1)
		return &t
	}
	if m := relativeWeekRe.FindStringSubmatch(lower); m != nil {
		weeks, _ := strconv.Atoi(m[1])
		t := now.AddDate(0, 0, -7*weeks)
		return &t
	}
	if m := relativeDayRe.FindStringSubmatch(lower); m != nil {
		days, _ := strconv.Atoi(m[1])
		t := now.AddDate(0, 0, -days)
		return &t
	}
	return nil
}
