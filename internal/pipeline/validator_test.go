package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jobcompass/jobcompass/internal/domain/models"
)

func newTestValidator() *Validator {
	v := NewValidator(ValidatorConfig{})
	v.now = fixedTime
	return v
}

func validJob() models.CanonicalJob {
	posted := fixedTime().AddDate(0, 0, -2).Truncate(24 * time.Hour)
	salaryMin, salaryMax := 70000, 90000
	return models.CanonicalJob{
		Source:      "jobbank",
		JobID:       "jobbank_1",
		Title:       "Software Developer",
		Company:     "Acme",
		City:        "Toronto",
		Province:    "ON",
		Description: strings.Repeat("responsibilities and requirements ", 3),
		SalaryMin:   &salaryMin,
		SalaryMax:   &salaryMax,
		PostedDate:  &posted,
		URL:         "https://example.com/1",
	}
}

func Test_Validator_ShouldAcceptCompleteJob(t *testing.T) {

	assert := assert.New(t)

	outcome := newTestValidator().Validate(validJob())

	assert.True(outcome.IsValid)
	assert.Empty(outcome.Errors)
	assert.Equal(100, outcome.QualityScore)
}

func Test_Validator_ShouldReportExactlyOneErrorForMissingCity(t *testing.T) {

	assert := assert.New(t)

	job := validJob()
	job.City = ""
	outcome := newTestValidator().Validate(job)

	assert.False(outcome.IsValid)
	assert.Equal([]string{models.RuleMissingField + ":city"}, outcome.Errors)
	// 100 - 10 for the error, optional fields still all populated.
	assert.Equal(100, outcome.QualityScore)
}

func Test_Validator_ShouldRejectShortTitle(t *testing.T) {

	assert := assert.New(t)

	job := validJob()
	job.Title = "IT"
	outcome := newTestValidator().Validate(job)

	assert.False(outcome.IsValid)
	assert.Contains(outcome.Errors, models.RuleTitleTooShort)
}

func Test_Validator_ShouldWarnOnOverlongTitle(t *testing.T) {

	assert := assert.New(t)

	job := validJob()
	job.Title = strings.Repeat("x", 250)
	outcome := newTestValidator().Validate(job)

	assert.True(outcome.IsValid)
	assert.Contains(outcome.Warnings, models.RuleTitleTooLong)
}

func Test_Validator_ShouldRejectFutureDate(t *testing.T) {

	assert := assert.New(t)

	job := validJob()
	future := fixedTime().AddDate(0, 0, 2)
	job.PostedDate = &future
	outcome := newTestValidator().Validate(job)

	assert.False(outcome.IsValid)
	assert.Contains(outcome.Errors, models.RuleFutureDate)
}

func Test_Validator_ShouldRejectStaleDate(t *testing.T) {

	assert := assert.New(t)

	job := validJob()
	stale := fixedTime().AddDate(0, 0, -45)
	job.PostedDate = &stale
	outcome := newTestValidator().Validate(job)

	assert.False(outcome.IsValid)
	assert.Contains(outcome.Errors, models.RuleStaleDate)
}

func Test_Validator_ShouldAcceptMissingDate(t *testing.T) {

	assert := assert.New(t)

	job := validJob()
	job.PostedDate = nil
	outcome := newTestValidator().Validate(job)

	assert.True(outcome.IsValid)
}

func Test_Validator_ShouldRejectUnparseableDate(t *testing.T) {

	assert := assert.New(t)

	job := validJob()
	job.PostedDate = nil
	job.PostedDateRaw = "sometime soon"
	outcome := newTestValidator().Validate(job)

	assert.False(outcome.IsValid)
	assert.Contains(outcome.Errors, models.RuleUnparseableDate)
}

func Test_Validator_ShouldRejectOutOfRangeSalary(t *testing.T) {

	assert := assert.New(t)

	job := validJob()
	tooHigh := 400000
	job.SalaryMax = &tooHigh
	outcome := newTestValidator().Validate(job)

	assert.False(outcome.IsValid)
	assert.Contains(outcome.Errors, models.RuleSalaryOutOfRange)
}

func Test_Validator_ShouldRejectNonHTTPURL(t *testing.T) {

	assert := assert.New(t)

	job := validJob()
	job.URL = "ftp://example.com/1"
	outcome := newTestValidator().Validate(job)

	assert.False(outcome.IsValid)
	assert.Contains(outcome.Errors, models.RuleInvalidURL)
}

func Test_Validator_ShouldWarnOnUnknownRemoteType(t *testing.T) {

	assert := assert.New(t)

	job := validJob()
	job.RemoteType = "telecommute"
	outcome := newTestValidator().Validate(job)

	assert.True(outcome.IsValid)
	assert.Contains(outcome.Warnings, models.RuleUnknownRemote)
}

func Test_Validator_QualityScore_ShouldPenalizeWarnings(t *testing.T) {

	assert := assert.New(t)

	job := models.CanonicalJob{
		Source:      "jobbank",
		JobID:       "jobbank_2",
		Title:       strings.Repeat("x", 250),
		City:        "Toronto",
		Description: "too short",
		URL:         "https://example.com/2",
	}
	outcome := newTestValidator().Validate(job)

	assert.True(outcome.IsValid)
	assert.Contains(outcome.Warnings, models.RuleTitleTooLong)
	assert.Contains(outcome.Warnings, models.RuleShortDescription)
	// 100 - 2*2 warnings + 10*1/5 bonus for the one populated optional field.
	assert.Equal(98, outcome.QualityScore)
}

func Test_Validator_ValidateBatch_ShouldAggregateAndRankErrors(t *testing.T) {

	assert := assert.New(t)

	noCity1, noCity2, badURL := validJob(), validJob(), validJob()
	noCity1.City = ""
	noCity2.City = ""
	noCity2.JobID = "jobbank_2"
	badURL.JobID = "jobbank_3"
	badURL.URL = "example.com/3"

	batch := newTestValidator().ValidateBatch([]models.CanonicalJob{
		validJob(), noCity1, noCity2, badURL,
	})

	assert.Len(batch.Valid, 1)
	assert.Len(batch.Invalid, 3)
	assert.InDelta(0.25, batch.ValidationRate, 0.001)
	assert.Equal(models.RuleMissingField+":city", batch.TopErrorTypes[0].Rule)
	assert.Equal(2, batch.TopErrorTypes[0].Count)
}

func Test_Validator_ValidateBatch_ShouldBeDeterministic(t *testing.T) {

	assert := assert.New(t)
	v := newTestValidator()

	jobs := []models.CanonicalJob{validJob()}
	for i := 0; i < 5; i++ {
		job := validJob()
		job.JobID = "jobbank_x"
		job.City = ""
		job.URL = ""
		jobs = append(jobs, job)
	}

	first := v.ValidateBatch(jobs)
	second := v.ValidateBatch(jobs)
	assert.Equal(first.TopErrorTypes, second.TopErrorTypes)
}
