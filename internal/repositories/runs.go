package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/jobcompass/jobcompass/internal/entities"
	"github.com/jobcompass/jobcompass/internal/domain/models"
)

type Runs struct {
	db *gorm.DB
}

func NewRunsRepository(db *gorm.DB) *Runs {
	return &Runs{db: db}
}

func (repo *Runs) RecordRun(ctx context.Context, summary models.RunSummary) error {
	run := entities.NewPipelineRun(summary)
	return repo.db.WithContext(ctx).Create(&run).Error
}

func (repo *Runs) GetRecent(ctx context.Context, limit int) ([]entities.PipelineRun, error) {

	var runs []entities.PipelineRun
	if err := repo.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
