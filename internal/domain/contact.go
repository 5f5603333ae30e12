package domain

import "time"

// ContactSource identifies where a harvested email came from.
type ContactSource string

const (
	ContactFromPosting   ContactSource = "posting"
	ContactFromWebsite   ContactSource = "website"
	ContactFromGenerated ContactSource = "generated"
)

// ContactEmail is a harvested recruiting address attached to an internship.
// Confidence is always within [0, 1].
type ContactEmail struct {
	ID            int64         `db:"id" json:"id"`
	InternshipKey string        `db:"internship_key" json:"internship_key"`
	Email         string        `db:"email" json:"email"`
	Source        ContactSource `db:"source" json:"source"`
	Confidence    float64       `db:"confidence" json:"confidence"`
	VerifiedMX    bool          `db:"verified_mx" json:"verified_mx"`
	FoundAt       time.Time     `db:"found_at" json:"found_at"`
}
