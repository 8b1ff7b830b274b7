package models

type ExperienceLevel string

const (
	LevelEntry  ExperienceLevel = "entry"
	LevelJunior ExperienceLevel = "junior"
	LevelMid    ExperienceLevel = "mid"
	LevelSenior ExperienceLevel = "senior"
	LevelLead   ExperienceLevel = "lead"
)

// FeatureSet holds the structured attributes derived from a job's title and
// description. One per job, keyed by JobID, overwritten on re-processing.
type FeatureSet struct {
	JobID      string
	ExpMin     *int
	ExpMax     *int
	ExpLevel   ExperienceLevel
	Skills     []string
	IsRemote   bool
	RemoteType RemoteType
}

// FeaturedJob pairs a job with its extracted features, ready for one
// idempotent upsert batch.
type FeaturedJob struct {
	Job      CanonicalJob
	Features FeatureSet
}
