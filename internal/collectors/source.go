package collectors

import (
	"context"

	"github.com/jobcompass/jobcompass/internal/domain/models"
)

// SearchQuery is one role/city combination a source is asked to cover.
type SearchQuery struct {
	Role string
	City string
}

// Source fetches raw postings for a single query from one job board.
type Source interface {
	Name() string
	Collect(ctx context.Context, query SearchQuery) ([]models.RawRecord, error)
}
