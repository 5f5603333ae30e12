package domain

import (
	"fmt"
	"strings"
	"time"
)

// FieldTag is a coarse category assigned to an internship by keyword match.
type FieldTag string

const (
	FieldSoftwareEngineering FieldTag = "software_engineering"
	FieldDataScience         FieldTag = "data_science"
	FieldProductManagement   FieldTag = "product_management"
	FieldDesign              FieldTag = "design"
	FieldMarketing           FieldTag = "marketing"
	FieldSales               FieldTag = "sales"
	FieldFinance             FieldTag = "finance"
	FieldConsulting          FieldTag = "consulting"
	FieldResearch            FieldTag = "research"
	FieldOperations          FieldTag = "operations"
	FieldOther               FieldTag = "other"
)

// Modality classifies where the work happens.
type Modality string

const (
	ModalityRemote Modality = "remote"
	ModalityHybrid Modality = "hybrid"
	ModalityOnsite Modality = "onsite"
)

// Internship is the normalized, persisted representation of a posting.
type Internship struct {
	Key            string     `db:"key" json:"key"`
	Source         string     `db:"source" json:"source"`
	Company        string     `db:"company" json:"company"`
	Title          string     `db:"title" json:"title"`
	Location       string     `db:"location" json:"location"`
	ApplyURL       string     `db:"apply_url" json:"apply_url"`
	Description    string     `db:"description" json:"description"`
	PostedAt       *time.Time `db:"posted_at" json:"posted_at,omitempty"`
	Deadline       *time.Time `db:"deadline" json:"deadline,omitempty"`
	Remote         bool       `db:"remote" json:"remote"`
	Modality       Modality   `db:"modality" json:"modality"`
	FieldTag       FieldTag   `db:"field_tag" json:"field_tag"`
	ExternalID     string     `db:"external_id" json:"external_id"`
	SalaryMin      *float64   `db:"salary_min" json:"salary_min,omitempty"`
	SalaryMax      *float64   `db:"salary_max" json:"salary_max,omitempty"`
	Government     bool       `db:"government" json:"government"`
	Tags           *string    `db:"tags" json:"tags,omitempty"`
	RelevanceScore float64    `db:"relevance_score" json:"relevance_score"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	FirstSeenAt    time.Time  `db:"first_seen_at" json:"first_seen_at"`
	LastSeenAt     time.Time  `db:"last_seen_at" json:"last_seen_at"`
	LastCheckedAt  time.Time  `db:"last_checked_at" json:"last_checked_at"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// IdentityKey returns the deduplication key for a posting. It is
// deterministic and case-insensitive.
func IdentityKey(company, title, applyURL string) string {
	return fmt.Sprintf("%s|%s|%s",
		strings.ToLower(strings.TrimSpace(company)),
		strings.ToLower(strings.TrimSpace(title)),
		strings.ToLower(strings.TrimSpace(applyURL)),
	)
}

// TagList splits the stored comma-separated tags.
func (i *Internship) TagList() []string {
	if i.Tags == nil || *i.Tags == "" {
		return nil
	}
	return strings.Split(*i.Tags, ",")
}

// SalaryRange renders the salary bounds for display.
func (i *Internship) SalaryRange() string {
	switch {
	case i.SalaryMin != nil && i.SalaryMax != nil:
		return fmt.Sprintf("$%s - $%s", formatAmount(*i.SalaryMin), formatAmount(*i.SalaryMax))
	case i.SalaryMin != nil:
		return fmt.Sprintf("$%s+", formatAmount(*i.SalaryMin))
	case i.SalaryMax != nil:
		return fmt.Sprintf("Up to $%s", formatAmount(*i.SalaryMax))
	default:
		return "Not specified"
	}
}

func formatAmount(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
