package collectors

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/jobcompass/jobcompass/internal/domain/models"
	"github.com/jobcompass/jobcompass/internal/logger"
)

// Registry fans queries out to the configured sources and concatenates the
// results in source order, so a re-run over the same boards yields records
// in the same sequence.
type Registry struct {
	sources []Source
	queries []SearchQuery
}

func NewRegistry(sources []Source, roles []string, cities []string) *Registry {

	queries := make([]SearchQuery, 0, len(roles)*len(cities))
	for _, role := range roles {
		for _, city := range cities {
			queries = append(queries, SearchQuery{Role: role, City: city})
		}
	}

	return &Registry{sources: sources, queries: queries}
}

// Collect runs every query against every source. A failing source is logged
// and skipped; Collect errors only when no source produced anything.
func (r *Registry) Collect(ctx context.Context) ([]models.RawRecord, error) {

	var records []models.RawRecord
	failedSources := 0

	for _, source := range r.sources {

		if err := ctx.Err(); err != nil {
			return records, err
		}

		collected, err := r.collectFromSource(ctx, source)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return records, err
			}
			failedSources++
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeSource).
				Errorf("source %s failed: %v", source.Name(), err)
			continue
		}

		log.Infof("source %s returned %d records", source.Name(), len(collected))
		records = append(records, collected...)
	}

	if failedSources == len(r.sources) && len(r.sources) > 0 {
		return nil, errors.New("all sources failed")
	}

	return records, nil
}

func (r *Registry) collectFromSource(ctx context.Context, source Source) ([]models.RawRecord, error) {

	var records []models.RawRecord
	for _, query := range r.queries {
		collected, err := source.Collect(ctx, query)
		if err != nil {
			return nil, errors.Wrapf(err, "query %q in %q", query.Role, query.City)
		}
		records = append(records, collected...)
	}
	return records, nil
}
