package models

// Rule identifiers reported in ValidationOutcome. Stable strings: they feed
// the run summary's top-error aggregation and the metrics label set.
const (
	RuleMissingField     = "missing_required_field"
	RuleTitleTooShort    = "title_too_short"
	RuleTitleTooLong     = "title_too_long"
	RuleShortDescription = "short_description"
	RuleInvalidCity      = "invalid_city"
	RuleInvalidProvince  = "invalid_province"
	RuleFutureDate       = "posted_date_in_future"
	RuleStaleDate        = "posted_date_too_old"
	RuleUnparseableDate  = "posted_date_unparseable"
	RuleSalaryOutOfRange = "salary_out_of_range"
	RuleSalaryInverted   = "salary_min_above_max"
	RuleInvalidURL       = "invalid_url"
	RuleUnknownRemote    = "unknown_remote_type"
)

// ValidationOutcome is attached to one CanonicalJob for the duration of a
// pipeline run. QualityScore is advisory only; validity is solely the
// absence of errors.
type ValidationOutcome struct {
	JobID        string
	IsValid      bool
	Errors       []string
	Warnings     []string
	QualityScore int
}
