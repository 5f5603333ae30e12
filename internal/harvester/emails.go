// Package harvester discovers recruiting contact emails for internships by
// scanning posting text and crawling company websites.
package harvester

import (
	"regexp"
	"strings"

	"github.com/jonesrussell/easyinterns/internal/domain"
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// obfuscations maps spelled-out address parts back to their symbols. Sites
// hide addresses as "jobs [at] example [dot] com" to beat naive scrapers.
var obfuscations = []struct{ from, to string }{
	{" [at] ", "@"}, {"[at]", "@"}, {" (at) ", "@"}, {"(at)", "@"},
	{" [dot] ", "."}, {"[dot]", "."}, {" (dot) ", "."}, {"(dot)", "."},
}

// deobfuscate rewrites common email obfuscations so the address regex can
// see them.
func deobfuscate(text string) string {
	lower := strings.ToLower(text)
	for _, o := range obfuscations {
		lower = strings.ReplaceAll(lower, o.from, o.to)
	}
	return lower
}

// ExtractEmails pulls every address out of free text, de-obfuscating
// first. Addresses are lowercased and deduplicated preserving order.
func ExtractEmails(text string) []string {
	if text == "" {
		return nil
	}
	matches := emailRe.FindAllString(deobfuscate(text), -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.ToLower(strings.Trim(m, "."))
		if seen[m] || strings.HasSuffix(m, ".png") || strings.HasSuffix(m, ".jpg") {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// hiringLocalParts boost confidence; an address like careers@ is almost
// certainly the right inbox.
var hiringLocalParts = []string{
	"career", "careers", "jobs", "recruit", "recruiting", "recruitment",
	"talent", "hr", "internship", "interns", "hiring", "apply",
}

// genericLocalParts lower confidence; info@ style inboxes are rarely read
// by recruiters.
var genericLocalParts = []string{
	"info", "hello", "office", "admin", "contact", "support", "sales",
}

var discardLocalParts = []string{"noreply", "no-reply", "donotreply", "do-not-reply"}

// Confidence scores an address for one company. The base is 0.5 with
// additive adjustments, clamped to [0, 1]. companyDomain may be empty when
// the company website is unknown.
func Confidence(email string, source domain.ContactSource, companyDomain string) float64 {
	local, emailDomain, ok := strings.Cut(email, "@")
	if !ok {
		return 0
	}
	local = strings.ToLower(local)

	for _, part := range discardLocalParts {
		if strings.Contains(local, part) {
			return 0
		}
	}

	score := 0.5

	if companyDomain != "" && strings.EqualFold(emailDomain, companyDomain) {
		score += 0.2
	}
	for _, part := range hiringLocalParts {
		if strings.Contains(local, part) {
			score += 0.15
			break
		}
	}
	for _, part := range genericLocalParts {
		if local == part {
			score -= 0.2
			break
		}
	}

	switch source {
	case domain.ContactFromPosting:
		score += 0.1
	case domain.ContactFromGenerated:
		score -= 0.25
	}

	return clamp(score)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
