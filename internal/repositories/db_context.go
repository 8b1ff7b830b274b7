package repositories

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jobcompass/jobcompass/internal/entities"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {

	if err := c.DB.AutoMigrate(entities.JobRecord{}); err != nil {
		return fmt.Errorf("failed to migrate JobRecord entity: %w", err)
	}

	if err := c.DB.AutoMigrate(entities.JobFeatures{}); err != nil {
		return fmt.Errorf("failed to migrate JobFeatures entity: %w", err)
	}

	if err := c.DB.AutoMigrate(entities.PipelineRun{}); err != nil {
		return fmt.Errorf("failed to migrate PipelineRun entity: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
