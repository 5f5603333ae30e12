package classify

import (
	"testing"

	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFieldTag(t *testing.T) {
	c := New()

	tests := []struct {
		title string
		want  domain.FieldTag
	}{
		{"Software Engineering Intern", domain.FieldSoftwareEngineering},
		{"Backend Developer Co-op", domain.FieldSoftwareEngineering},
		{"Data Science Intern (Remote)", domain.FieldDataScience},
		{"Machine Learning Research Intern", domain.FieldDataScience},
		{"Product Manager Intern", domain.FieldProductManagement},
		{"UX Designer Internship", domain.FieldDesign},
		{"Marketing and Communications Intern", domain.FieldMarketing},
		{"Sales Development Intern", domain.FieldSales},
		{"Financial Analyst Co-op", domain.FieldFinance},
		{"Strategy Consulting Intern", domain.FieldConsulting},
		{"Laboratory Research Assistant", domain.FieldResearch},
		{"Supply Chain Operations Intern", domain.FieldOperations},
		{"General Summer Student", domain.FieldOther},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, c.FieldTag(tt.title, ""))
		})
	}
}

func TestFieldTagRuleOrderWins(t *testing.T) {
	c := New()

	// Both software and research keywords hit; the earlier rule wins.
	got := c.FieldTag("Software Engineer Intern", "join our research team")
	assert.Equal(t, domain.FieldSoftwareEngineering, got)
}

func TestFieldTagUsesDescription(t *testing.T) {
	c := New()
	got := c.FieldTag("Summer Intern", "work on machine learning pipelines")
	assert.Equal(t, domain.FieldDataScience, got)
}

func TestModality(t *testing.T) {
	c := New()

	assert.Equal(t, domain.ModalityRemote, c.Modality(true, "Intern", "Toronto", ""))
	assert.Equal(t, domain.ModalityRemote, c.Modality(false, "Intern", "Remote - Canada", ""))
	assert.Equal(t, domain.ModalityHybrid, c.Modality(false, "Intern", "Toronto", "hybrid schedule, 2 days in office"))
	assert.Equal(t, domain.ModalityOnsite, c.Modality(false, "Intern", "Toronto, ON", "on our downtown campus"))
}
