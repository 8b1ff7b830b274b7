package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jobcompass/jobcompass/internal/domain/models"
)

func Test_Runs_RecordRun_ShouldPersistSummary(t *testing.T) {

	assert := assert.New(t)
	repo := NewRunsRepository(newTestDb(t).DB)

	summary := models.RunSummary{
		Stage:           models.StageDone,
		Collected:       120,
		Dropped:         3,
		Valid:           100,
		Invalid:         17,
		Duplicates:      12,
		Featured:        88,
		ValidationRate:  0.855,
		AvgQualityScore: 84.2,
		TopErrorTypes: []models.ErrorTypeCount{
			{Rule: models.RuleMissingField + ":city", Count: 9},
			{Rule: models.RuleStaleDate, Count: 5},
		},
		StartedAt: time.Now().Add(-time.Minute),
		Duration:  42 * time.Second,
	}

	assert.NoError(repo.RecordRun(context.Background(), summary))

	runs, err := repo.GetRecent(context.Background(), 5)
	assert.NoError(err)
	assert.Len(runs, 1)
	assert.Equal(string(models.StageDone), runs[0].Stage)
	assert.Equal(120, runs[0].Collected)
	assert.Equal("missing_required_field:city:9,posted_date_too_old:5", runs[0].TopErrors)
	assert.EqualValues(42000, runs[0].DurationMs)
}

func Test_Runs_GetRecent_ShouldOrderNewestFirst(t *testing.T) {

	assert := assert.New(t)
	repo := NewRunsRepository(newTestDb(t).DB)

	for i := 0; i < 3; i++ {
		summary := models.RunSummary{
			Stage:     models.StageDone,
			Collected: i,
			StartedAt: time.Now().Add(time.Duration(i) * time.Hour),
		}
		assert.NoError(repo.RecordRun(context.Background(), summary))
	}

	runs, err := repo.GetRecent(context.Background(), 2)
	assert.NoError(err)
	assert.Len(runs, 2)
	assert.Equal(2, runs[0].Collected)
	assert.Equal(1, runs[1].Collected)
}
