package repositories

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jobcompass/jobcompass/internal/entities"
)

type jobRepository interface {
	GetByJobID(ctx context.Context, jobID string) (*entities.JobRecord, error)
}

// CachedJobs serves repeat lookups by job id from memory so dedup checks
// across closely spaced runs skip the database.
type CachedJobs struct {
	repo  jobRepository
	cache *gocache.Cache
}

func NewCachedJobs(repo jobRepository) *CachedJobs {
	return &CachedJobs{repo: repo, cache: gocache.New(10*time.Minute, 20*time.Minute)}
}

func (c CachedJobs) GetByJobID(ctx context.Context, jobID string) (*entities.JobRecord, error) {
	if value, found := c.cache.Get(jobID); found {
		return value.(*entities.JobRecord), nil
	}

	record, err := c.repo.GetByJobID(ctx, jobID)
	if record != nil {
		if err = c.cache.Add(jobID, record, gocache.DefaultExpiration); err != nil {
			return record, err
		}
	}

	return record, err
}
