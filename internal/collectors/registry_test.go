package collectors

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/jobcompass/jobcompass/internal/domain/models"
)

type stubSource struct {
	name    string
	queries []SearchQuery
	err     error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Collect(ctx context.Context, query SearchQuery) ([]models.RawRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.queries = append(s.queries, query)
	return []models.RawRecord{{Source: s.name, Fields: map[string]any{"role": query.Role, "city": query.City}}}, nil
}

func Test_Registry_ShouldPreserveSourceOrder(t *testing.T) {

	assert := assert.New(t)

	first := &stubSource{name: "jobbank"}
	second := &stubSource{name: "adzuna"}

	registry := NewRegistry([]Source{first, second},
		[]string{"developer"}, []string{"Toronto", "Ottawa"})

	records, err := registry.Collect(context.Background())

	assert.NoError(err)
	assert.Len(records, 4)
	assert.Equal("jobbank", records[0].Source)
	assert.Equal("jobbank", records[1].Source)
	assert.Equal("adzuna", records[2].Source)
	assert.Equal("adzuna", records[3].Source)

	assert.Equal([]SearchQuery{
		{Role: "developer", City: "Toronto"},
		{Role: "developer", City: "Ottawa"},
	}, first.queries)
}

func Test_Registry_ShouldSkipFailingSource(t *testing.T) {

	assert := assert.New(t)

	broken := &stubSource{name: "jobbank", err: errors.New("blocked")}
	working := &stubSource{name: "adzuna"}

	registry := NewRegistry([]Source{broken, working},
		[]string{"developer"}, []string{"Toronto"})

	records, err := registry.Collect(context.Background())

	assert.NoError(err)
	assert.Len(records, 1)
	assert.Equal("adzuna", records[0].Source)
}

func Test_Registry_ShouldFailWhenAllSourcesFail(t *testing.T) {

	assert := assert.New(t)

	registry := NewRegistry([]Source{
		&stubSource{name: "jobbank", err: errors.New("blocked")},
		&stubSource{name: "adzuna", err: errors.New("blocked")},
	}, []string{"developer"}, []string{"Toronto"})

	_, err := registry.Collect(context.Background())
	assert.Error(err)
}

func Test_Registry_ShouldStopOnCancelledContext(t *testing.T) {

	assert := assert.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	registry := NewRegistry([]Source{&stubSource{name: "jobbank"}},
		[]string{"developer"}, []string{"Toronto"})

	_, err := registry.Collect(ctx)
	assert.ErrorIs(err, context.Canceled)
}
