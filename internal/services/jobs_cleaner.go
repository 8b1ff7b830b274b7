package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type JobCleanupRepository interface {
	RemoveOldJobs(ctx context.Context, scrapedBefore time.Time) (int64, error)
}

// JobsCleaner drops jobs not seen by any collector for longer than the
// retention window.
type JobsCleaner struct {
	jobs            JobCleanupRepository
	cron            *cron.Cron
	retentionInDays int
}

func NewJobsCleaner(jobs JobCleanupRepository, retentionInDays int) (*JobsCleaner, error) {

	if retentionInDays <= 0 {
		return nil, errors.New("retention in days must be greater than zero")
	}

	jc := &JobsCleaner{
		jobs:            jobs,
		cron:            cron.New(),
		retentionInDays: retentionInDays,
	}

	_, err := jc.cron.AddFunc("0 0 * * *", jc.cleanOldJobs)
	if err != nil {
		return nil, err
	}

	jc.cron.Start()
	log.Infof("jobs cleaner started, retention in days: %d", jc.retentionInDays)
	return jc, nil
}

func (jc *JobsCleaner) Stop() {
	jc.cron.Stop()
}

func (jc *JobsCleaner) cleanOldJobs() {
	cutoff := time.Now().Add(-time.Duration(jc.retentionInDays) * 24 * time.Hour)
	rowsAffected, err := jc.jobs.RemoveOldJobs(context.Background(), cutoff)
	if err != nil {
		log.Errorf("failed to clean old jobs: %v", err)
	} else {
		log.Infof("old jobs cleaned at %v, affected rows: %v", time.Now(), rowsAffected)
	}
}
