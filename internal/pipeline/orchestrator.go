package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"

	"github.com/jobcompass/jobcompass/internal/domain/models"
	"github.com/jobcompass/jobcompass/internal/events"
	"github.com/jobcompass/jobcompass/internal/logger"
	"github.com/jobcompass/jobcompass/internal/metrics"
)

type recordSource interface {
	// Collect returns the fanned-in raw records of all configured sources,
	// in source-priority order.
	Collect(ctx context.Context) ([]models.RawRecord, error)
}

type jobStore interface {
	// UpsertFeatured persists the run's output as one batch, idempotent by
	// job_id. A failure here discards the whole run.
	UpsertFeatured(ctx context.Context, jobs []models.FeaturedJob) (int, error)
}

type runRecorder interface {
	RecordRun(ctx context.Context, summary models.RunSummary) error
}

// StageError marks a failure severe enough to abort an entire run, as
// opposed to the per-record failures the stages absorb.
type StageError struct {
	Stage models.RunStage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Orchestrator sequences normalize, validate, deduplicate and extract over
// one batch and owns the collaborator boundary: collectors in, storage out.
type Orchestrator struct {
	source     recordSource
	store      jobStore
	runs       runRecorder
	bus        EventBus.Bus
	normalizer *Normalizer
	validator  *Validator
	dedup      *Deduplicator
	extractor  *FeatureExtractor
}

func NewOrchestrator(source recordSource, store jobStore, runs runRecorder, bus EventBus.Bus,
	normalizer *Normalizer, validator *Validator, dedup *Deduplicator,
	extractor *FeatureExtractor) *Orchestrator {

	return &Orchestrator{
		source:     source,
		store:      store,
		runs:       runs,
		bus:        bus,
		normalizer: normalizer,
		validator:  validator,
		dedup:      dedup,
		extractor:  extractor,
	}
}

// Run executes one pipeline run. Individual bad records are dropped and
// counted; only StageError-class conditions fail the run, and a failed run
// persists nothing. The returned summary is valid up to the last completed
// stage even when the context is cancelled mid-run.
func (o *Orchestrator) Run(ctx context.Context) (models.RunSummary, error) {

	summary := models.RunSummary{Stage: models.StageCollecting, StartedAt: time.Now()}

	err := o.runStages(ctx, &summary)
	summary.Duration = time.Since(summary.StartedAt)
	metrics.RunDuration.Observe(summary.Duration.Seconds())

	if err != nil {
		summary.Stage = models.StageFailed
		log.WithField(logger.ErrorTypeField, logger.ErrorTypePipeline).
			Errorf("pipeline run failed after %v: %v", summary.Duration, err)
	} else {
		summary.Stage = models.StageDone
		log.Infof("pipeline run done in %v: %d collected, %d valid, %d duplicates removed, %d featured",
			summary.Duration, summary.Collected, summary.Valid, summary.Duplicates, summary.Featured)
	}

	if o.runs != nil {
		if recErr := o.runs.RecordRun(context.WithoutCancel(ctx), summary); recErr != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to record run summary: %v", recErr)
		}
	}
	if o.bus != nil {
		o.bus.Publish(events.RunCompletedTopic, events.RunCompleted{Summary: summary, Err: err})
	}

	return summary, err
}

func (o *Orchestrator) runStages(ctx context.Context, summary *models.RunSummary) error {

	jobs, err := o.collect(ctx, summary)
	if err != nil {
		return err
	}

	if err = o.advance(ctx, summary, models.StageValidating); err != nil {
		return err
	}
	start := time.Now()
	batch := o.validator.ValidateBatch(jobs)
	metrics.StageDuration.WithLabelValues(string(models.StageValidating)).Observe(time.Since(start).Seconds())
	summary.Valid = len(batch.Valid)
	summary.Invalid = len(batch.Invalid)
	summary.ValidationRate = batch.ValidationRate
	summary.AvgQualityScore = batch.AvgQuality
	summary.TopErrorTypes = batch.TopErrorTypes
	metrics.InvalidCounter.Add(float64(summary.Invalid))

	if err = o.advance(ctx, summary, models.StageDeduplicating); err != nil {
		return err
	}
	start = time.Now()
	unique, duplicates := o.dedup.Deduplicate(batch.Valid)
	metrics.StageDuration.WithLabelValues(string(models.StageDeduplicating)).Observe(time.Since(start).Seconds())
	summary.Duplicates = duplicates
	metrics.DuplicatesCounter.Add(float64(duplicates))

	if err = o.advance(ctx, summary, models.StageExtracting); err != nil {
		return err
	}
	start = time.Now()
	featured, failures := o.extractor.ExtractBatch(unique)
	metrics.StageDuration.WithLabelValues(string(models.StageExtracting)).Observe(time.Since(start).Seconds())
	summary.Featured = len(featured)
	summary.ExtractionFailures = failures
	metrics.FeaturedCounter.Add(float64(len(featured)))

	if len(featured) == 0 {
		return nil
	}

	if _, err = o.store.UpsertFeatured(ctx, featured); err != nil {
		return &StageError{Stage: models.StageExtracting, Err: err}
	}
	return nil
}

func (o *Orchestrator) collect(ctx context.Context, summary *models.RunSummary) ([]models.CanonicalJob, error) {

	start := time.Now()
	raws, err := o.source.Collect(ctx)
	metrics.StageDuration.WithLabelValues(string(models.StageCollecting)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &StageError{Stage: models.StageCollecting, Err: err}
	}

	summary.Collected = len(raws)

	jobs := make([]models.CanonicalJob, 0, len(raws))
	for _, raw := range raws {
		metrics.CollectedCounter.WithLabelValues(raw.Source).Inc()

		job, warnings, normErr := o.normalizer.Normalize(raw)
		if normErr != nil {
			summary.Dropped++
			metrics.DroppedCounter.Inc()
			log.Debugf("dropping record: %v", normErr)
			continue
		}
		for _, w := range warnings {
			log.Debugf("normalization warning for %s: %s", job.JobID, w)
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// advance moves the state machine to the next stage, honoring cancellation
// between stages so a budget overrun never corrupts completed statistics.
func (o *Orchestrator) advance(ctx context.Context, summary *models.RunSummary, next models.RunStage) error {
	select {
	case <-ctx.Done():
		return &StageError{Stage: summary.Stage, Err: ctx.Err()}
	default:
	}
	summary.Stage = next
	return nil
}
