package collectors

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/jobcompass/jobcompass/internal/domain/models"
)

type flakySource struct {
	name     string
	failures int
	calls    int
	records  []models.RawRecord
	err      error
}

func (s *flakySource) Name() string { return s.name }

func (s *flakySource) Collect(ctx context.Context, query SearchQuery) ([]models.RawRecord, error) {
	s.calls++
	if s.calls <= s.failures {
		if s.err != nil {
			return nil, s.err
		}
		return nil, errors.New("transient failure")
	}
	return s.records, nil
}

func Test_RetrySource_ShouldSucceedAfterTransientFailures(t *testing.T) {

	assert := assert.New(t)

	inner := &flakySource{
		name:     "jobbank",
		failures: 2,
		records:  []models.RawRecord{{Source: "jobbank"}},
	}

	records, err := NewRetrySource(inner, 2, time.Millisecond).
		Collect(context.Background(), SearchQuery{Role: "developer", City: "Toronto"})

	assert.NoError(err)
	assert.Len(records, 1)
	assert.Equal(3, inner.calls)
}

func Test_RetrySource_ShouldGiveUpAfterMaxRetries(t *testing.T) {

	assert := assert.New(t)

	inner := &flakySource{name: "jobbank", failures: 10}

	_, err := NewRetrySource(inner, 2, time.Millisecond).
		Collect(context.Background(), SearchQuery{})

	assert.Error(err)
	assert.Equal(3, inner.calls)
}

func Test_RetrySource_ShouldNotRetryOnCancellation(t *testing.T) {

	assert := assert.New(t)

	inner := &flakySource{name: "jobbank", failures: 10, err: context.Canceled}

	_, err := NewRetrySource(inner, 2, time.Millisecond).
		Collect(context.Background(), SearchQuery{})

	assert.ErrorIs(err, context.Canceled)
	assert.Equal(1, inner.calls)
}
