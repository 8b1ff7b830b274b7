package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jobcompass/jobcompass/internal/domain/models"
)

func newTestExtractor(t *testing.T) *FeatureExtractor {
	e, err := NewFeatureExtractor(ExtractorConfig{
		Skills: []string{"python", "go", "sql", "c++", "c#", "r", "react", "machine learning"},
	})
	assert.NoError(t, err)
	return e
}

func featureJob(title, description string) models.CanonicalJob {
	return models.CanonicalJob{JobID: "jobbank_1", Title: title, Description: description}
}

func Test_NewFeatureExtractor_ShouldRejectEmptyDictionary(t *testing.T) {
	_, err := NewFeatureExtractor(ExtractorConfig{})
	assert.Error(t, err)
}

func Test_Extractor_ShouldParseExperienceRange(t *testing.T) {

	assert := assert.New(t)

	features, ok := newTestExtractor(t).Extract(
		featureJob("Software Developer", "We require 3 to 5 years of experience with python."))

	assert.True(ok)
	assert.Equal(3, *features.ExpMin)
	assert.Equal(5, *features.ExpMax)
	assert.Equal(models.LevelMid, features.ExpLevel)
}

func Test_Extractor_ShouldParsePlusYears(t *testing.T) {

	assert := assert.New(t)

	features, _ := newTestExtractor(t).Extract(
		featureJob("Developer", "5+ years building backend services"))

	assert.Equal(5, *features.ExpMin)
	assert.Nil(features.ExpMax)
}

func Test_Extractor_ShouldParseMinimumYears(t *testing.T) {

	assert := assert.New(t)

	features, _ := newTestExtractor(t).Extract(
		featureJob("Developer", "minimum of 4 years in a similar role"))

	assert.Equal(4, *features.ExpMin)
	assert.Nil(features.ExpMax)
}

func Test_Extractor_ShouldIgnoreSalaryFiguresAsExperience(t *testing.T) {

	assert := assert.New(t)

	// A salary range must not be read as an experience range.
	features, ok := newTestExtractor(t).Extract(
		featureJob("Developer", "Compensation 100000 - 500000 depending on experience."))

	assert.True(ok)
	assert.Nil(features.ExpMin)
	assert.Nil(features.ExpMax)
	assert.Equal(models.LevelMid, features.ExpLevel)
}

func Test_Extractor_ShouldDiscardBothBoundsAboveMaximum(t *testing.T) {

	assert := assert.New(t)

	features, _ := newTestExtractor(t).Extract(
		featureJob("Developer", "10 to 50 years of experience"))

	assert.Nil(features.ExpMin)
	assert.Nil(features.ExpMax)
}

func Test_Extractor_ShouldKeepRoundYearsOutOfEntryCues(t *testing.T) {

	assert := assert.New(t)

	// "10 years" must not trip the zero-years cue via its "0 years" suffix.
	features, _ := newTestExtractor(t).Extract(
		featureJob("Developer", "We require 10 years of experience."))

	assert.Equal(10, *features.ExpMin)
	assert.Nil(features.ExpMax)
}

func Test_Extractor_ShouldMapStandaloneZeroYearsToZeroToOne(t *testing.T) {

	assert := assert.New(t)

	features, _ := newTestExtractor(t).Extract(
		featureJob("Developer", "0 years needed, we train you."))

	assert.Equal(0, *features.ExpMin)
	assert.Equal(1, *features.ExpMax)
}

func Test_Extractor_ShouldMapEntryCuesToZeroToOne(t *testing.T) {

	assert := assert.New(t)

	features, _ := newTestExtractor(t).Extract(
		featureJob("Developer", "This is an entry level position, new grads welcome."))

	assert.Equal(0, *features.ExpMin)
	assert.Equal(1, *features.ExpMax)
}

func Test_Extractor_SeniorTitle_ShouldOutrankMidpoint(t *testing.T) {

	assert := assert.New(t)

	features, _ := newTestExtractor(t).Extract(
		featureJob("Senior Software Engineer", "3-5 years of experience required"))

	assert.Equal(3, *features.ExpMin)
	assert.Equal(5, *features.ExpMax)
	assert.Equal(models.LevelSenior, features.ExpLevel)
}

func Test_Extractor_JuniorTitle_ShouldMapToEntry(t *testing.T) {

	assert := assert.New(t)

	features, _ := newTestExtractor(t).Extract(
		featureJob("Junior Developer", "2 years experience preferred"))

	assert.Equal(models.LevelEntry, features.ExpLevel)
}

func Test_Extractor_MidpointThresholds(t *testing.T) {

	assert := assert.New(t)
	e := newTestExtractor(t)

	cases := []struct {
		description string
		expected    models.ExperienceLevel
	}{
		{"0 to 0 years required", models.LevelEntry},
		{"1 to 3 years required", models.LevelJunior},
		{"3 to 5 years required", models.LevelMid},
		{"6 to 8 years required", models.LevelSenior},
		{"9 to 12 years required", models.LevelLead},
	}

	for _, c := range cases {
		features, _ := e.Extract(featureJob("Developer", c.description))
		assert.Equal(c.expected, features.ExpLevel, c.description)
	}
}

func Test_Extractor_ShouldDefaultToMidWithoutSignals(t *testing.T) {

	assert := assert.New(t)

	features, _ := newTestExtractor(t).Extract(
		featureJob("Developer", "Great opportunity to work with python."))

	assert.Nil(features.ExpMin)
	assert.Nil(features.ExpMax)
	assert.Equal(models.LevelMid, features.ExpLevel)
}

func Test_Extractor_ShouldMatchSkillsOnWordBoundaries(t *testing.T) {

	assert := assert.New(t)

	features, _ := newTestExtractor(t).Extract(
		featureJob("Developer", "Experienced python and sql developer. We use react."))

	assert.Contains(features.Skills, "python")
	assert.Contains(features.Skills, "sql")
	assert.Contains(features.Skills, "react")
	// "r" must not match inside "developer" or "experienced".
	assert.NotContains(features.Skills, "r")
	// "go" must not match inside words either.
	assert.NotContains(features.Skills, "go")
}

func Test_Extractor_ShouldMatchSymbolSkills(t *testing.T) {

	assert := assert.New(t)

	features, _ := newTestExtractor(t).Extract(
		featureJob("Developer", "Strong c++ and c# background required."))

	assert.Contains(features.Skills, "c++")
	assert.Contains(features.Skills, "c#")
}

func Test_Extractor_ShouldClassifyRemoteFromText(t *testing.T) {

	assert := assert.New(t)
	e := newTestExtractor(t)

	remote, _ := e.Extract(featureJob("Developer", "This is a fully remote position."))
	assert.Equal(models.RemoteTypeRemote, remote.RemoteType)
	assert.True(remote.IsRemote)

	hybrid, _ := e.Extract(featureJob("Developer", "We offer a hybrid schedule."))
	assert.Equal(models.RemoteTypeHybrid, hybrid.RemoteType)
	assert.True(hybrid.IsRemote)

	onsite, _ := e.Extract(featureJob("Developer", "Work at our Toronto office."))
	assert.Equal(models.RemoteTypeOnsite, onsite.RemoteType)
	assert.False(onsite.IsRemote)
}

func Test_Extractor_ShouldTrustExplicitRemoteType(t *testing.T) {

	assert := assert.New(t)

	job := featureJob("Developer", "Work at our Toronto office.")
	job.RemoteType = models.RemoteTypeRemote
	features, _ := newTestExtractor(t).Extract(job)

	assert.Equal(models.RemoteTypeRemote, features.RemoteType)
	assert.True(features.IsRemote)
}

func Test_ExtractBatch_ShouldFeatureEveryJob(t *testing.T) {

	assert := assert.New(t)

	jobs := []models.CanonicalJob{
		featureJob("Senior Developer", "8+ years with go and sql"),
		featureJob("Junior Analyst", "entry level, sql required"),
	}

	featured, failures := newTestExtractor(t).ExtractBatch(jobs)

	assert.Equal(0, failures)
	assert.Len(featured, 2)
	assert.Equal(models.LevelSenior, featured[0].Features.ExpLevel)
	assert.Equal(models.LevelEntry, featured[1].Features.ExpLevel)
}
