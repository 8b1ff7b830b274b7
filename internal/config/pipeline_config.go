package config

import (
	"github.com/go-playground/validator/v10"
)

// PipelineConfig is the recognized option surface of the processing core.
// Bounds are structural: a zero or inverted salary window would silently
// discard every posting.
type PipelineConfig struct {
	RecencyWindowDays  int      `mapstructure:"recency_window_days" validate:"gte=1"`
	MinSalary          int      `mapstructure:"min_salary" validate:"gte=0"`
	MaxSalary          int      `mapstructure:"max_salary" validate:"gtfield=MinSalary"`
	MaxExperienceYears int      `mapstructure:"max_experience_years" validate:"gte=1"`
	Skills             []string `mapstructure:"skills" validate:"required,min=1"`
	// RetentionDays bounds how long postings are kept before the cleaner
	// removes them.
	RetentionDays int `mapstructure:"retention_days" validate:"gte=1"`
	// Schedule is a cron expression for automatic runs; empty disables them.
	Schedule string `mapstructure:"schedule"`
}

func (config PipelineConfig) validate() error {
	return validator.New().Struct(config)
}
