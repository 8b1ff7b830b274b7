package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jobcompass/jobcompass/internal/entities"
	"github.com/jobcompass/jobcompass/internal/domain/models"
)

type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

// UpsertFeatured writes jobs and their features in one transaction.
// Re-collected postings update the existing row keyed by job_id.
func (repo *Jobs) UpsertFeatured(ctx context.Context, jobs []models.FeaturedJob) (int, error) {

	if len(jobs) == 0 {
		return 0, nil
	}

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, job := range jobs {

			record := entities.NewJobRecord(job.Job)
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "job_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"title", "company", "city", "province", "description",
					"salary_min", "salary_max", "salary_mid", "remote_type",
					"posted_date", "scraped_at", "url", "updated_at",
				}),
			}).Create(&record).Error; err != nil {
				return err
			}

			features := entities.NewJobFeatures(job.Features)
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "job_id"}},
				UpdateAll: true,
			}).Create(&features).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(jobs), nil
}

func (repo *Jobs) ExistingIDs(ctx context.Context, jobIDs []string) (map[string]bool, error) {

	var found []string
	if err := repo.db.WithContext(ctx).Model(&entities.JobRecord{}).
		Where("job_id IN ?", jobIDs).
		Pluck("job_id", &found).Error; err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(found))
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}

func (repo *Jobs) GetByJobID(ctx context.Context, jobID string) (*entities.JobRecord, error) {

	var record entities.JobRecord
	err := repo.db.WithContext(ctx).Where("job_id = ?", jobID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (repo *Jobs) GetFeatures(ctx context.Context, jobID string) (*entities.JobFeatures, error) {

	var features entities.JobFeatures
	err := repo.db.WithContext(ctx).Where("job_id = ?", jobID).First(&features).Error
	if err != nil {
		return nil, err
	}
	return &features, nil
}

func (repo *Jobs) Count(ctx context.Context) (int64, error) {

	var count int64
	if err := repo.db.WithContext(ctx).Model(&entities.JobRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *Jobs) RemoveOldJobs(ctx context.Context, scrapedBefore time.Time) (int64, error) {

	var old []entities.JobRecord
	if err := repo.db.WithContext(ctx).
		Select("job_id").
		Find(&old, "scraped_at < ?", scrapedBefore).Error; err != nil {
		return 0, err
	}
	if len(old) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(old))
	for _, record := range old {
		ids = append(ids, record.JobID)
	}

	var removed int64
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entities.JobFeatures{}, "job_id IN ?", ids).Error; err != nil {
			return err
		}
		res := tx.Delete(&entities.JobRecord{}, "job_id IN ?", ids)
		removed = res.RowsAffected
		return res.Error
	})
	return removed, err
}
