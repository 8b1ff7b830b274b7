package services

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/jobcompass/jobcompass/internal/domain/models"
	"github.com/jobcompass/jobcompass/internal/logger"
)

type pipelineRunner interface {
	Run(ctx context.Context) (models.RunSummary, error)
}

// Scheduler triggers pipeline runs on a cron schedule. Overlapping runs are
// skipped rather than queued.
type Scheduler struct {
	runner  pipelineRunner
	cron    *cron.Cron
	running atomic.Bool
}

func NewScheduler(runner pipelineRunner, schedule string) (*Scheduler, error) {

	s := &Scheduler{
		runner: runner,
		cron:   cron.New(),
	}

	_, err := s.cron.AddFunc(schedule, s.runPipeline)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid schedule %q", schedule)
	}

	s.cron.Start()
	log.Infof("pipeline scheduler started with schedule %q", schedule)
	return s, nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runPipeline() {

	if !s.running.CompareAndSwap(false, true) {
		log.Warn("previous pipeline run still in progress, skipping")
		return
	}
	defer s.running.Store(false)

	summary, err := s.runner.Run(context.Background())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypePipeline).
			Errorf("scheduled pipeline run failed: %v", err)
		return
	}

	log.Infof("scheduled pipeline run finished: %d featured of %d collected in %v",
		summary.Featured, summary.Collected, summary.Duration)
}
