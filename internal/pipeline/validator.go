package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/jobcompass/jobcompass/internal/domain/models"
)

const (
	minTitleLength       = 3
	maxTitleLength       = 200
	minDescriptionLength = 50
	qualityErrorPenalty  = 10
	qualityWarnPenalty   = 2
	qualityBonusMax      = 10
)

type ValidatorConfig struct {
	RecencyWindowDays int
	MinSalary         int
	MaxSalary         int
	TopErrorCount     int
}

// Validator classifies canonical jobs as valid or invalid and scores their
// quality. It never mutates a job; all findings go into the outcome.
type Validator struct {
	cfg ValidatorConfig
	now func() time.Time
}

func NewValidator(cfg ValidatorConfig) *Validator {
	if cfg.RecencyWindowDays == 0 {
		cfg.RecencyWindowDays = 30
	}
	if cfg.MinSalary == 0 {
		cfg.MinSalary = 30000
	}
	if cfg.MaxSalary == 0 {
		cfg.MaxSalary = 250000
	}
	if cfg.TopErrorCount == 0 {
		cfg.TopErrorCount = 5
	}
	return &Validator{cfg: cfg, now: time.Now}
}

// Validate applies every rule to one job. Each rule contributes at most one
// error or one warning; a job with zero errors is valid regardless of its
// advisory quality score.
func (v *Validator) Validate(job models.CanonicalJob) models.ValidationOutcome {

	var errs, warns []string

	for _, f := range missingRequiredFields(job) {
		errs = append(errs, models.RuleMissingField+":"+f)
	}

	if job.Title != "" {
		if len(job.Title) < minTitleLength {
			errs = append(errs, models.RuleTitleTooShort)
		} else if len(job.Title) > maxTitleLength {
			warns = append(warns, models.RuleTitleTooLong)
		}
	}

	if job.Description != "" && len(job.Description) < minDescriptionLength {
		warns = append(warns, models.RuleShortDescription)
	}

	if job.City != "" && !isPlausibleCity(job.City) {
		errs = append(errs, models.RuleInvalidCity)
	}

	if job.Province != "" && !models.ValidProvinces[job.Province] {
		errs = append(errs, models.RuleInvalidProvince)
	}

	if job.PostedDate != nil {
		today := v.now().Truncate(24 * time.Hour)
		switch {
		case job.PostedDate.After(today):
			errs = append(errs, models.RuleFutureDate)
		case job.PostedDate.Before(today.AddDate(0, 0, -v.cfg.RecencyWindowDays)):
			errs = append(errs, models.RuleStaleDate)
		}
	} else if job.PostedDateRaw != "" {
		errs = append(errs, models.RuleUnparseableDate)
	}

	if rule := v.salaryRule(job); rule != "" {
		errs = append(errs, rule)
	}

	if job.URL != "" && !strings.HasPrefix(job.URL, "http://") && !strings.HasPrefix(job.URL, "https://") {
		errs = append(errs, models.RuleInvalidURL)
	}

	switch job.RemoteType {
	case "", models.RemoteTypeRemote, models.RemoteTypeHybrid, models.RemoteTypeOnsite:
	default:
		warns = append(warns, models.RuleUnknownRemote)
	}

	return models.ValidationOutcome{
		JobID:        job.JobID,
		IsValid:      len(errs) == 0,
		Errors:       errs,
		Warnings:     warns,
		QualityScore: qualityScore(job, errs, warns),
	}
}

func missingRequiredFields(job models.CanonicalJob) []string {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"source", job.Source},
		{"job_id", job.JobID},
		{"title", job.Title},
		{"city", job.City},
		{"url", job.URL},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

func isPlausibleCity(city string) bool {
	if _, known := cityProvinces[strings.ToLower(city)]; known {
		return true
	}
	return len(city) > 2
}

func (v *Validator) salaryRule(job models.CanonicalJob) string {
	for _, bound := range []*int{job.SalaryMin, job.SalaryMax} {
		if bound != nil && (*bound < v.cfg.MinSalary || *bound > v.cfg.MaxSalary) {
			return models.RuleSalaryOutOfRange
		}
	}
	// Impossible after the normalizer's swap, checked anyway.
	if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
		return models.RuleSalaryInverted
	}
	return ""
}

// qualityScore starts at 100, subtracts per finding and adds back a bonus
// proportional to how many optional fields are populated. Advisory only.
func qualityScore(job models.CanonicalJob, errs, warns []string) int {

	score := 100 - qualityErrorPenalty*len(errs) - qualityWarnPenalty*len(warns)

	populated := 0
	optional := []bool{
		job.Company != "",
		job.Province != "",
		job.Description != "",
		job.SalaryMin != nil || job.SalaryMax != nil,
		job.PostedDate != nil,
	}
	for _, p := range optional {
		if p {
			populated++
		}
	}
	score += qualityBonusMax * populated / len(optional)

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// BatchValidation partitions a batch and aggregates its statistics.
type BatchValidation struct {
	Valid          []models.CanonicalJob
	Invalid        []models.CanonicalJob
	Outcomes       map[string]models.ValidationOutcome
	ValidationRate float64
	AvgQuality     float64
	TopErrorTypes  []models.ErrorTypeCount
}

func (v *Validator) ValidateBatch(jobs []models.CanonicalJob) BatchValidation {

	result := BatchValidation{Outcomes: make(map[string]models.ValidationOutcome, len(jobs))}
	errorCounts := map[string]int{}
	totalQuality := 0

	for _, job := range jobs {
		outcome := v.Validate(job)
		result.Outcomes[job.JobID] = outcome
		totalQuality += outcome.QualityScore

		if outcome.IsValid {
			result.Valid = append(result.Valid, job)
		} else {
			result.Invalid = append(result.Invalid, job)
			for _, rule := range outcome.Errors {
				errorCounts[rule]++
			}
		}
	}

	if len(jobs) > 0 {
		result.ValidationRate = float64(len(result.Valid)) / float64(len(jobs))
		result.AvgQuality = float64(totalQuality) / float64(len(jobs))
	}

	result.TopErrorTypes = lo.MapToSlice(errorCounts, func(rule string, count int) models.ErrorTypeCount {
		return models.ErrorTypeCount{Rule: rule, Count: count}
	})
	sort.Slice(result.TopErrorTypes, func(i, j int) bool {
		if result.TopErrorTypes[i].Count != result.TopErrorTypes[j].Count {
			return result.TopErrorTypes[i].Count > result.TopErrorTypes[j].Count
		}
		return result.TopErrorTypes[i].Rule < result.TopErrorTypes[j].Rule
	})
	if len(result.TopErrorTypes) > v.cfg.TopErrorCount {
		result.TopErrorTypes = result.TopErrorTypes[:v.cfg.TopErrorCount]
	}

	return result
}
