package scraper

import (
	"context"

	"github.com/jonesrussell/easyinterns/internal/domain"
)

// Placeholder is a registered but unimplemented source. It exists so
// feature-flagged boards show up in the source listing before they have a
// real scraper behind them.
type Placeholder struct {
	name        string
	description string
}

// NewPlaceholder creates a named placeholder source.
func NewPlaceholder(name, description string) *Placeholder {
	return &Placeholder{name: name, description: description}
}

func (p *Placeholder) Name() string { return p.name }

func (p *Placeholder) Description() string { return p.description }

func (p *Placeholder) Scrape(ctx context.Context, query Query) ([]domain.Posting, error) {
	return nil, nil
}
