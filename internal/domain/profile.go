package domain

// CandidateProfile is the ranking input supplied per request. It is not
// persisted.
type CandidateProfile struct {
	Name               string   `json:"name,omitempty" yaml:"name" mapstructure:"name"`
	LocationPreference string   `json:"location_preference,omitempty" yaml:"location_preference" mapstructure:"location_preference"`
	RemoteOK           bool     `json:"remote_ok" yaml:"remote_ok" mapstructure:"remote_ok"`
	RequiresVisa       bool     `json:"requires_visa" yaml:"requires_visa" mapstructure:"requires_visa"`
	Interests          []string `json:"interests,omitempty" yaml:"interests" mapstructure:"interests"`
	Skills             []string `json:"skills,omitempty" yaml:"skills" mapstructure:"skills"`
	MustHaveKeywords   []string `json:"must_have_keywords,omitempty" yaml:"must_have_keywords" mapstructure:"must_have_keywords"`
	NiceHaveKeywords   []string `json:"nice_have_keywords,omitempty" yaml:"nice_have_keywords" mapstructure:"nice_have_keywords"`
}
