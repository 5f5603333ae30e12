package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// annualWorkHours converts hourly wages to annual figures.
const annualWorkHours = 2080

// salaryPattern pairs a regex with the multiplier applied to its captures.
type salaryPattern struct {
	re         *regexp.Regexp
	multiplier float64
}

// Patterns are tried in order; the first match wins. Hourly patterns come
// before the bare-number fallbacks so "$25/hour" is not read as 25 dollars a
// year.
var salaryPatterns = []salaryPattern{
	{regexp.MustCompile(`\$?([\d,]+(?:\.\d+)?)\s*-\s*\$?([\d,]+(?:\.\d+)?)\s*(?:a year|per year|yr|yearly|annually)`), 1},
	{regexp.MustCompile(`\$?([\d.]+)\s*-\s*\$?([\d.]+)\s*(?:an hour|per hour|hr|hourly)`), annualWorkHours},
	{regexp.MustCompile(`\$?([\d,]+(?:\.\d+)?)\s*(?:a year|per year|yr|yearly|annually)`), 1},
	{regexp.MustCompile(`\$?([\d.]+)\s*(?:an hour|per hour|hr|hourly)`), annualWorkHours},
	{regexp.MustCompile(`\$?([\d.]+)\s*/\s*(?:hour|hr)`), annualWorkHours},
	{regexp.MustCompile(`([\d,]+)\s*-\s*([\d,]+)`), 1},
	{regexp.MustCompile(`([\d,]+)`), 1},
}

// ParseSalary extracts annualized salary bounds from free text. Returns
// (nil, nil) when nothing parseable is found. When both bounds parse and
// arrive inverted they are swapped.
func ParseSalary(text string) (*float64, *float64) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	clean := strings.ToLower(text)

	for _, p := range salaryPatterns {
		match := p.re.FindStringSubmatch(clean)
		if match == nil {
			continue
		}
		groups := match[1:]
		if len(groups) == 2 && groups[1] != "" {
			minVal, errMin := parseAmount(groups[0])
			maxVal, errMax := parseAmount(groups[1])
			if errMin != nil || errMax != nil {
				continue
			}
			minVal *= p.multiplier
			maxVal *= p.multiplier
			if minVal > maxVal {
				minVal, maxVal = maxVal, minVal
			}
			return &minVal, &maxVal
		}
		val, err := parseAmount(groups[0])
		if err != nil {
			continue
		}
		val *= p.multiplier
		maxVal := val
		return &val, &maxVal
	}
	return nil, nil
}

func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
