package collectors

import (
	"context"
	"errors"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jobcompass/jobcompass/internal/domain/models"
)

// RetrySource retries transient source failures with exponential backoff
// and jitter before giving up.
type RetrySource struct {
	inner      Source
	maxRetries int
	baseDelay  time.Duration
}

func NewRetrySource(inner Source, maxRetries int, baseDelay time.Duration) *RetrySource {
	if maxRetries <= 0 {
		maxRetries = 2
	}
	if baseDelay <= 0 {
		baseDelay = 5 * time.Second
	}
	return &RetrySource{inner: inner, maxRetries: maxRetries, baseDelay: baseDelay}
}

func (s *RetrySource) Name() string {
	return s.inner.Name()
}

func (s *RetrySource) Collect(ctx context.Context, query SearchQuery) ([]models.RawRecord, error) {

	records, err := s.inner.Collect(ctx, query)
	if err == nil {
		return records, nil
	}

	for attempt := 1; attempt <= s.maxRetries; attempt++ {

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		delay := s.backoffDelay(attempt)
		log.WithField("source", s.inner.Name()).
			Warnf("retrying after transient error (attempt %d/%d, delay %v): %v",
				attempt, s.maxRetries, delay, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		records, err = s.inner.Collect(ctx, query)
		if err == nil {
			return records, nil
		}
	}

	return nil, err
}

// backoffDelay doubles the base delay per attempt and applies ±30% jitter.
func (s *RetrySource) backoffDelay(attempt int) time.Duration {
	delay := s.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}
