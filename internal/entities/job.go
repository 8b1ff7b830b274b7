package entities

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/jobcompass/jobcompass/internal/domain/models"
)

// JobRecord is the persisted form of a CanonicalJob. JobID is the upsert
// key: re-collecting the same posting updates the row instead of adding one.
type JobRecord struct {
	ID          int    `gorm:"primaryKey;autoIncrement"`
	Source      string `gorm:"size:50;not null"`
	JobID       string `gorm:"uniqueIndex;size:255;not null"`
	Title       string `gorm:"size:200;not null"`
	Company     string `gorm:"size:200"`
	City        string `gorm:"size:100;not null"`
	Province    string `gorm:"size:2"`
	Description string
	SalaryMin   *int
	SalaryMax   *int
	SalaryMid   *int
	RemoteType  string `gorm:"size:20"`
	PostedDate  *time.Time
	ScrapedAt   time.Time
	URL         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewJobRecord(job models.CanonicalJob) JobRecord {
	return JobRecord{
		Source:      job.Source,
		JobID:       job.JobID,
		Title:       job.Title,
		Company:     job.Company,
		City:        job.City,
		Province:    job.Province,
		Description: job.Description,
		SalaryMin:   job.SalaryMin,
		SalaryMax:   job.SalaryMax,
		SalaryMid:   job.SalaryMid(),
		RemoteType:  string(job.RemoteType),
		PostedDate:  job.PostedDate,
		ScrapedAt:   job.ScrapedAt,
		URL:         job.URL,
	}
}

// JobFeatures is the persisted feature set, one row per job, overwritten on
// re-processing.
type JobFeatures struct {
	JobID       string `gorm:"primaryKey;size:255"`
	ExpMin      *int
	ExpMax      *int
	ExpLevel    string `gorm:"size:20"`
	Skills      string
	IsRemote    bool
	RemoteType  string `gorm:"size:20"`
	ExtractedAt time.Time
}

func NewJobFeatures(features models.FeatureSet) JobFeatures {
	return JobFeatures{
		JobID:       features.JobID,
		ExpMin:      features.ExpMin,
		ExpMax:      features.ExpMax,
		ExpLevel:    string(features.ExpLevel),
		Skills:      strings.Join(features.Skills, ","),
		IsRemote:    features.IsRemote,
		RemoteType:  string(features.RemoteType),
		ExtractedAt: time.Now(),
	}
}

func (f JobFeatures) SkillsAsArray() []string {
	if f.Skills == "" {
		return []string{}
	}
	return lo.Map(strings.Split(f.Skills, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
}
