package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/jobcompass/jobcompass/internal/domain/models"
)

// Experience patterns, tried in order; the first match wins. Every numeric
// pattern requires a years/yrs anchor so dollar figures and dates cannot
// masquerade as experience.
var (
	expRangeRe   = regexp.MustCompile(`(\d+)\s*(?:to|-|–)\s*(\d+)\s*(?:years?|yrs?)`)
	expPlusRe    = regexp.MustCompile(`(\d+)\s*\+\s*(?:years?|yrs?)`)
	expMinimumRe = regexp.MustCompile(`(?:minimum(?:\s+of)?|at\s+least)\s*(\d+)\s*(?:years?|yrs?)`)
	expPlainRe   = regexp.MustCompile(`(\d+)\s*(?:years?|yrs?)(?:\s+of)?\s+experience`)
	// expZeroRe needs the boundary: a bare Contains on "0 years" would hit
	// inside "10 years" or "50 years".
	expZeroRe = regexp.MustCompile(`\b0\s*(?:years?|yrs?)\b`)
)

var entryCues = []string{"entry level", "entry-level", "junior", "graduate", "intern", "new grad"}

var seniorTitleCues = []string{"senior", "sr.", "sr ", "lead", "principal", "staff"}

var remoteCues = []string{"100% remote", "fully remote", "work from home", "remote"}

var hybridCues = []string{"hybrid", "flexible work", "flexible"}

type ExtractorConfig struct {
	// Skills is the controlled output vocabulary; matches are dictionary
	// entries, never raw text spans.
	Skills []string
	// MaxExperienceYears bounds every extracted value; anything above it is
	// a misfired match and discards the whole extraction.
	MaxExperienceYears int
}

type skillMatcher struct {
	name string
	re   *regexp.Regexp
}

// FeatureExtractor derives a FeatureSet from a job's free text. It is a
// pure function of its input and never fails a batch: a job it cannot
// handle gets the default feature set and a counted warning.
type FeatureExtractor struct {
	cfg    ExtractorConfig
	skills []skillMatcher
}

// NewFeatureExtractor builds an extractor around an immutable dictionary.
// An empty dictionary is a structural failure: the whole extraction stage
// is meaningless without one.
func NewFeatureExtractor(cfg ExtractorConfig) (*FeatureExtractor, error) {

	if len(cfg.Skills) == 0 {
		return nil, errors.New("skill dictionary is empty")
	}
	if cfg.MaxExperienceYears == 0 {
		cfg.MaxExperienceYears = 30
	}

	matchers := make([]skillMatcher, 0, len(cfg.Skills))
	for _, skill := range cfg.Skills {
		re, err := compileSkillPattern(skill)
		if err != nil {
			return nil, errors.Wrapf(err, "skill %q", skill)
		}
		matchers = append(matchers, skillMatcher{name: strings.ToLower(skill), re: re})
	}

	return &FeatureExtractor{cfg: cfg, skills: matchers}, nil
}

// compileSkillPattern anchors a dictionary entry on word boundaries so that
// short names never match inside longer words ("r" inside "developer").
// Entries ending in a symbol (c++, c#) get a lookahead-free right edge
// instead, since \b needs a word character to anchor on.
func compileSkillPattern(skill string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(strings.ToLower(skill))

	left := `\b`
	if !startsWithWordChar(skill) {
		left = `(?:^|[^a-z0-9])`
	}
	right := `\b`
	if !endsWithWordChar(skill) {
		right = `(?:$|[^a-z0-9+#])`
	}

	return regexp.Compile(left + quoted + right)
}

func startsWithWordChar(s string) bool {
	return s != "" && isWordChar(s[0])
}

func endsWithWordChar(s string) bool {
	return s != "" && isWordChar(s[len(s)-1])
}

func isWordChar(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') || c == '_'
}

// DefaultFeatures is what a job receives when extraction fails internally.
func DefaultFeatures(jobID string) models.FeatureSet {
	return models.FeatureSet{
		JobID:      jobID,
		ExpLevel:   models.LevelMid,
		Skills:     []string{},
		RemoteType: models.RemoteTypeOnsite,
	}
}

// Extract derives the feature set for one job. The second return value is
// false when extraction failed internally and the default set was
// substituted; the job is still usable.
func (e *FeatureExtractor) Extract(job models.CanonicalJob) (features models.FeatureSet, ok bool) {

	defer func() {
		if r := recover(); r != nil {
			log.WithField("job_id", job.JobID).Errorf("feature extraction panicked: %v", r)
			features, ok = DefaultFeatures(job.JobID), false
		}
	}()

	text := strings.ToLower(job.Title + " " + job.Description)

	expMin, expMax := e.extractExperience(text)

	remoteType := job.RemoteType
	if remoteType == "" || !knownRemoteType(remoteType) {
		remoteType = classifyRemote(text)
	}

	return models.FeatureSet{
		JobID:      job.JobID,
		ExpMin:     expMin,
		ExpMax:     expMax,
		ExpLevel:   inferLevel(strings.ToLower(job.Title), expMin, expMax),
		Skills:     e.matchSkills(text),
		IsRemote:   remoteType == models.RemoteTypeRemote || remoteType == models.RemoteTypeHybrid,
		RemoteType: remoteType,
	}, true
}

// extractExperience walks the ordered pattern list. Any value above the
// configured maximum is a false positive (salary, date, phone number) and
// poisons the whole extraction, not just the offending bound.
func (e *FeatureExtractor) extractExperience(text string) (*int, *int) {

	min, max := e.matchExperience(text)

	for _, v := range []*int{min, max} {
		if v != nil && *v > e.cfg.MaxExperienceYears {
			return nil, nil
		}
	}
	return min, max
}

func (e *FeatureExtractor) matchExperience(text string) (*int, *int) {

	for _, cue := range entryCues {
		if strings.Contains(text, cue) {
			return intPtr(0), intPtr(1)
		}
	}

	if m := expRangeRe.FindStringSubmatch(text); m != nil {
		lo, err1 := strconv.Atoi(m[1])
		hi, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			return &lo, &hi
		}
	}

	for _, re := range []*regexp.Regexp{expPlusRe, expMinimumRe, expPlainRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				return &v, nil
			}
		}
	}

	// A standalone "0 years" reads as an entry-level posting. Checked after
	// the numeric patterns so ranges keep their own bounds.
	if expZeroRe.MatchString(text) {
		return intPtr(0), intPtr(1)
	}

	return nil, nil
}

// inferLevel resolves seniority. Title cues outrank the numeric midpoint;
// no signal at all defaults to mid.
func inferLevel(titleLower string, expMin, expMax *int) models.ExperienceLevel {

	for _, cue := range seniorTitleCues {
		if strings.Contains(titleLower, cue) {
			return models.LevelSenior
		}
	}
	for _, cue := range entryCues {
		if strings.Contains(titleLower, cue) {
			return models.LevelEntry
		}
	}

	if expMin == nil && expMax == nil {
		return models.LevelMid
	}

	lo := 0
	if expMin != nil {
		lo = *expMin
	}
	hi := lo
	if expMax != nil {
		hi = *expMax
	}
	midpoint := (float64(lo) + (float64(hi))) / 2.0

	switch {
	case midpoint == 0:
		return models.LevelEntry
	case midpoint <= 2:
		return models.LevelJunior
	case midpoint <= 5:
		return models.LevelMid
	case midpoint <= 8:
		return models.LevelSenior
	default:
		return models.LevelLead
	}
}

func (e *FeatureExtractor) matchSkills(text string) []string {
	found := []string{}
	for _, matcher := range e.skills {
		if matcher.re.MatchString(text) {
			found = append(found, matcher.name)
		}
	}
	return found
}

func classifyRemote(text string) models.RemoteType {
	for _, cue := range remoteCues {
		if strings.Contains(text, cue) {
			return models.RemoteTypeRemote
		}
	}
	for _, cue := range hybridCues {
		if strings.Contains(text, cue) {
			return models.RemoteTypeHybrid
		}
	}
	return models.RemoteTypeOnsite
}

func knownRemoteType(rt models.RemoteType) bool {
	switch rt {
	case models.RemoteTypeRemote, models.RemoteTypeHybrid, models.RemoteTypeOnsite:
		return true
	}
	return false
}

// ExtractBatch features every job independently and reports how many fell
// back to the default set.
func (e *FeatureExtractor) ExtractBatch(jobs []models.CanonicalJob) ([]models.FeaturedJob, int) {

	featured := make([]models.FeaturedJob, 0, len(jobs))
	failures := 0

	for _, job := range jobs {
		features, ok := e.Extract(job)
		if !ok {
			failures++
		}
		featured = append(featured, models.FeaturedJob{Job: job, Features: features})
	}

	if failures > 0 {
		log.Warnf("feature extraction fell back to defaults for %d of %d jobs", failures, len(jobs))
	}
	return featured, failures
}

func intPtr(v int) *int { return &v }
