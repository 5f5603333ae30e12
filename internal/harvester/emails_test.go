package harvester

import (
	"testing"

	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestExtractEmails(t *testing.T) {
	text := "Send your resume to Careers@Acme.com or questions to info@acme.com."
	emails := ExtractEmails(text)
	assert.Equal(t, []string{"careers@acme.com", "info@acme.com"}, emails)
}

func TestExtractEmailsDeobfuscated(t *testing.T) {
	text := "reach us at jobs [at] example [dot] com or hr(at)example(dot)com"
	emails := ExtractEmails(text)
	assert.Equal(t, []string{"jobs@example.com", "hr@example.com"}, emails)
}

func TestExtractEmailsDedupes(t *testing.T) {
	text := "careers@acme.com and again CAREERS@ACME.COM"
	assert.Equal(t, []string{"careers@acme.com"}, ExtractEmails(text))
}

func TestExtractEmailsEmpty(t *testing.T) {
	assert.Nil(t, ExtractEmails(""))
	assert.Nil(t, ExtractEmails("no addresses here"))
}

func TestConfidence(t *testing.T) {
	// Hiring inbox on the company's own domain scores highest.
	careers := Confidence("careers@acme.com", domain.ContactFromWebsite, "acme.com")
	generic := Confidence("info@acme.com", domain.ContactFromWebsite, "acme.com")
	offDomain := Confidence("careers@gmail.com", domain.ContactFromWebsite, "acme.com")

	assert.InDelta(t, 0.85, careers, 0.001)
	assert.InDelta(t, 0.5, generic, 0.001)
	assert.InDelta(t, 0.65, offDomain, 0.001)
	assert.Greater(t, careers, generic)
	assert.Greater(t, careers, offDomain)
}

func TestConfidenceBounds(t *testing.T) {
	// Every adjustment combined stays within [0, 1].
	high := Confidence("careers@acme.com", domain.ContactFromPosting, "acme.com")
	low := Confidence("info@other.com", domain.ContactFromGenerated, "acme.com")

	assert.LessOrEqual(t, high, 1.0)
	assert.GreaterOrEqual(t, low, 0.0)
}

func TestConfidenceDiscardsNoReply(t *testing.T) {
	assert.Zero(t, Confidence("noreply@acme.com", domain.ContactFromWebsite, "acme.com"))
	assert.Zero(t, Confidence("do-not-reply@acme.com", domain.ContactFromWebsite, "acme.com"))
}

func TestDedupeKeepsHighestConfidence(t *testing.T) {
	contacts := []domain.ContactEmail{
		{Email: "careers@acme.com", Confidence: 0.5},
		{Email: "careers@acme.com", Confidence: 0.9},
		{Email: "info@acme.com", Confidence: 0.4},
	}

	out := Dedupe(contacts)
	assert.Len(t, out, 2)
	assert.Equal(t, "careers@acme.com", out[0].Email)
	assert.InDelta(t, 0.9, out[0].Confidence, 0.001)
}
