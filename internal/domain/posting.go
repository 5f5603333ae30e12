// Package domain provides domain models used across the application.
package domain

import "time"

// Posting is a single job listing as produced by a scraper, before
// normalization. It is never persisted directly.
type Posting struct {
	Title        string         `json:"title"`
	Company      string         `json:"company"`
	Location     string         `json:"location,omitempty"`
	Description  string         `json:"description,omitempty"`
	ApplyURL     string         `json:"apply_url"`
	Source       string         `json:"source"`
	ExternalID   string         `json:"external_id,omitempty"`
	PostedAt     *time.Time     `json:"posted_at,omitempty"`
	Deadline     *time.Time     `json:"deadline,omitempty"`
	SalaryMin    *float64       `json:"salary_min,omitempty"`
	SalaryMax    *float64       `json:"salary_max,omitempty"`
	Remote       bool           `json:"remote"`
	Government   bool           `json:"government"`
	Tags         []string       `json:"tags,omitempty"`
	SourceMeta   map[string]any `json:"source_meta,omitempty"`
}
