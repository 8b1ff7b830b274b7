package models

import "time"

// RawRecord is what a collector hands to the pipeline: a source-tagged bag
// of loosely typed values whose shape varies per source. All stringly-typed
// handling stops at the normalizer boundary.
type RawRecord struct {
	Source string
	Fields map[string]any
}

func (r RawRecord) String(key string) string {
	if v, ok := r.Fields[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (r RawRecord) Int(key string) (int, bool) {
	switch v := r.Fields[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

type RemoteType string

const (
	RemoteTypeRemote RemoteType = "remote"
	RemoteTypeHybrid RemoteType = "hybrid"
	RemoteTypeOnsite RemoteType = "onsite"
)

// CanonicalJob is the normalized representation of one posting. Immutable
// after normalization; JobID is unique within a source and is the persisted
// upsert key.
type CanonicalJob struct {
	Source      string
	JobID       string
	Title       string
	Company     string
	City        string
	Province    string
	Description string
	SalaryMin   *int
	SalaryMax   *int
	RemoteType  RemoteType
	PostedDate  *time.Time
	// PostedDateRaw keeps the source's original date text so validation can
	// tell an absent date from one that failed to parse.
	PostedDateRaw string
	URL           string
	ScrapedAt     time.Time
}

// SalaryMid is the midpoint used by downstream analytics, or nil when no
// bound is known.
func (j CanonicalJob) SalaryMid() *int {
	if j.SalaryMin == nil && j.SalaryMax == nil {
		return nil
	}
	if j.SalaryMin == nil {
		return j.SalaryMax
	}
	if j.SalaryMax == nil {
		return j.SalaryMin
	}
	mid := (*j.SalaryMin + *j.SalaryMax) / 2
	return &mid
}

// ValidProvinces are the Canadian two-letter province and territory codes.
var ValidProvinces = map[string]bool{
	"ON": true, "BC": true, "AB": true, "SK": true, "MB": true, "QC": true,
	"NS": true, "NB": true, "NL": true, "PE": true, "NT": true, "NU": true,
	"YT": true,
}
