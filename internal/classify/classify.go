// Package classify tags internships with a field of work and a work
// modality using Aho-Corasick keyword matching.
package classify

import (
	"strings"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"github.com/jonesrussell/easyinterns/internal/domain"
)

// fieldRule is an ordered keyword set. Rules are evaluated in declaration
// order and the first field with any keyword hit wins, so more specific
// fields must come before broader ones.
type fieldRule struct {
	field    domain.FieldTag
	keywords []string
}

var fieldRules = []fieldRule{
	{domain.FieldSoftwareEngineering, []string{
		"software engineer", "software developer", "software engineering",
		"backend", "back end", "frontend", "front end", "full stack",
		"fullstack", "devops", "site reliability", "mobile developer",
		"ios developer", "android developer", "web developer",
		"embedded", "qa engineer", "test engineer", "programmer",
	}},
	{domain.FieldDataScience, []string{
		"data scientist", "data science", "machine learning", "data analyst",
		"data engineer", "business intelligence", "analytics", "statistician",
		"ml engineer", "ai engineer", "artificial intelligence",
	}},
	{domain.FieldProductManagement, []string{
		"product manager", "product management", "product owner",
		"program manager", "product analyst",
	}},
	{domain.FieldDesign, []string{
		"designer", "ux", "ui design", "user experience", "graphic design",
		"visual design", "industrial design", "interaction design",
	}},
	{domain.FieldMarketing, []string{
		"marketing", "social media", "content creator", "communications",
		"public relations", "brand", "seo",
	}},
	{domain.FieldSales, []string{
		"sales", "business development", "account executive",
		"account manager", "customer success",
	}},
	{domain.FieldFinance, []string{
		"finance", "financial analyst", "accounting", "accountant",
		"audit", "treasury", "investment", "banking", "actuarial",
	}},
	{domain.FieldConsulting, []string{
		"consultant", "consulting", "advisory", "strategy analyst",
	}},
	{domain.FieldResearch, []string{
		"research", "laboratory", "lab assistant", "scientist",
		"postdoctoral", "r&d",
	}},
	{domain.FieldOperations, []string{
		"operations", "supply chain", "logistics", "procurement",
		"human resources", "recruiting", "administrative",
		"project coordinator", "policy analyst",
	}},
}

var hybridKeywords = []string{"hybrid", "flexible work location", "days in office"}

// Classifier assigns field tags and modalities from posting text. Build one
// with New and share it; matching is read-only after construction.
type Classifier struct {
	matcher   *ahocorasick.Matcher
	keywords  []string
	kwToField map[string]domain.FieldTag
	hybrid    *ahocorasick.Matcher
}

// New builds the keyword automatons.
func New() *Classifier {
	c := &Classifier{
		kwToField: make(map[string]domain.FieldTag),
	}
	for _, rule := range fieldRules {
		for _, kw := range rule.keywords {
			normalized := normalizeKeyword(kw)
			if normalized == "" {
				continue
			}
			c.keywords = append(c.keywords, normalized)
			if _, taken := c.kwToField[normalized]; !taken {
				c.kwToField[normalized] = rule.field
			}
		}
	}
	c.matcher = ahocorasick.NewStringMatcher(c.keywords)
	c.hybrid = ahocorasick.NewStringMatcher(hybridKeywords)
	return c
}

// FieldTag classifies a posting's title and description into a field of
// work. The earliest rule in declaration order with a keyword hit wins;
// postings with no hits are tagged other.
func (c *Classifier) FieldTag(title, description string) domain.FieldTag {
	text := normalizeText(title + " " + description)

	hits := c.matcher.Match([]byte(text))
	if len(hits) == 0 {
		return domain.FieldOther
	}

	matched := make(map[domain.FieldTag]bool, len(hits))
	for _, hit := range hits {
		if hit < len(c.keywords) {
			matched[c.kwToField[c.keywords[hit]]] = true
		}
	}

	for _, rule := range fieldRules {
		if matched[rule.field] {
			return rule.field
		}
	}
	return domain.FieldOther
}

// Modality resolves remote, hybrid, or onsite. A source-asserted remote
// flag wins outright; hybrid wording beats a bare "remote" mention in text.
func (c *Classifier) Modality(remote bool, title, location, description string) domain.Modality {
	if remote {
		return domain.ModalityRemote
	}

	text := normalizeText(title + " " + location + " " + description)
	if len(c.hybrid.Match([]byte(text))) > 0 {
		return domain.ModalityHybrid
	}
	if strings.Contains(text, "remote") {
		return domain.ModalityRemote
	}
	return domain.ModalityOnsite
}

func normalizeKeyword(kw string) string {
	return strings.ToLower(strings.TrimSpace(kw))
}

// normalizeText lowercases and replaces non-alphanumerics with spaces so
// keyword matches land on word-ish boundaries.
func normalizeText(text string) string {
	text = strings.ToLower(text)

	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '&' {
			result.WriteRune(r)
		} else {
			result.WriteByte(' ')
		}
	}
	return result.String()
}
