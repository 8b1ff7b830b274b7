package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jobcompass/jobcompass/internal/domain/models"
)

func newTestDb(t *testing.T) *DbContext {
	dbContext, err := NewDbContext(":memory:")
	assert.NoError(t, err)
	assert.NoError(t, dbContext.Migrate())
	t.Cleanup(func() { _ = dbContext.Close() })
	return dbContext
}

func featuredJob(jobID, title string) models.FeaturedJob {
	salaryMin, salaryMax := 70000, 90000
	posted := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	return models.FeaturedJob{
		Job: models.CanonicalJob{
			Source:     "jobbank",
			JobID:      jobID,
			Title:      title,
			Company:    "Acme",
			City:       "Toronto",
			Province:   "ON",
			SalaryMin:  &salaryMin,
			SalaryMax:  &salaryMax,
			PostedDate: &posted,
			ScrapedAt:  time.Now(),
			URL:        "https://example.com/" + jobID,
		},
		Features: models.FeatureSet{
			JobID:      jobID,
			ExpLevel:   models.LevelMid,
			Skills:     []string{"python", "sql"},
			RemoteType: models.RemoteTypeOnsite,
		},
	}
}

func Test_Jobs_UpsertFeatured_ShouldInsertJobsWithFeatures(t *testing.T) {

	assert := assert.New(t)
	repo := NewJobsRepository(newTestDb(t).DB)

	count, err := repo.UpsertFeatured(context.Background(), []models.FeaturedJob{
		featuredJob("jobbank_1", "Software Developer"),
		featuredJob("jobbank_2", "Data Analyst"),
	})

	assert.NoError(err)
	assert.Equal(2, count)

	total, err := repo.Count(context.Background())
	assert.NoError(err)
	assert.EqualValues(2, total)

	record, err := repo.GetByJobID(context.Background(), "jobbank_1")
	assert.NoError(err)
	assert.Equal("Software Developer", record.Title)
	assert.Equal(80000, *record.SalaryMid)
}

func Test_Jobs_UpsertFeatured_ShouldUpdateExistingRow(t *testing.T) {

	assert := assert.New(t)
	repo := NewJobsRepository(newTestDb(t).DB)

	_, err := repo.UpsertFeatured(context.Background(),
		[]models.FeaturedJob{featuredJob("jobbank_1", "Software Developer")})
	assert.NoError(err)

	updated := featuredJob("jobbank_1", "Senior Software Developer")
	_, err = repo.UpsertFeatured(context.Background(), []models.FeaturedJob{updated})
	assert.NoError(err)

	total, err := repo.Count(context.Background())
	assert.NoError(err)
	assert.EqualValues(1, total)

	record, err := repo.GetByJobID(context.Background(), "jobbank_1")
	assert.NoError(err)
	assert.Equal("Senior Software Developer", record.Title)
}

func Test_Jobs_ExistingIDs_ShouldReportOnlyStoredIDs(t *testing.T) {

	assert := assert.New(t)
	repo := NewJobsRepository(newTestDb(t).DB)

	_, err := repo.UpsertFeatured(context.Background(),
		[]models.FeaturedJob{featuredJob("jobbank_1", "Software Developer")})
	assert.NoError(err)

	existing, err := repo.ExistingIDs(context.Background(), []string{"jobbank_1", "jobbank_2"})
	assert.NoError(err)
	assert.True(existing["jobbank_1"])
	assert.False(existing["jobbank_2"])
}

func Test_Jobs_RemoveOldJobs_ShouldDropJobAndFeatures(t *testing.T) {

	assert := assert.New(t)
	dbContext := newTestDb(t)
	repo := NewJobsRepository(dbContext.DB)

	old := featuredJob("jobbank_old", "Old Posting")
	old.Job.ScrapedAt = time.Now().AddDate(0, 0, -120)
	fresh := featuredJob("jobbank_new", "Fresh Posting")

	_, err := repo.UpsertFeatured(context.Background(), []models.FeaturedJob{old, fresh})
	assert.NoError(err)

	removed, err := repo.RemoveOldJobs(context.Background(), time.Now().AddDate(0, 0, -90))
	assert.NoError(err)
	assert.EqualValues(1, removed)

	total, err := repo.Count(context.Background())
	assert.NoError(err)
	assert.EqualValues(1, total)

	_, err = repo.GetByJobID(context.Background(), "jobbank_old")
	assert.Error(err)
}
