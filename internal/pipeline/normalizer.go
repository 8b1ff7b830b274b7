package pipeline

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jobcompass/jobcompass/internal/domain/models"
)

// Normalization warnings. These ride along with the job instead of failing
// it; the validator and run summary surface them.
const (
	WarnSalaryBoundsSwapped = "salary_bounds_swapped"
	WarnSalaryDiscarded     = "salary_out_of_range_discarded"
	WarnHourlyConverted     = "hourly_rate_annualized"
	WarnDateUnparseable     = "posted_date_unparseable"
)

// hoursPerYear annualizes an hourly rate (40h x 52 weeks).
const hoursPerYear = 2080

// hourlyRateCeiling: a figure below this combined with hourly wording is an
// hourly rate, not an annual salary.
const hourlyRateCeiling = 100

// RecordError reports a RawRecord that cannot be normalized at all. It is
// returned as a value, never panicked; one bad record never stops a batch.
type RecordError struct {
	Source  string
	Missing []string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record from %q missing required fields: %s", e.Source, strings.Join(e.Missing, ", "))
}

type NormalizerConfig struct {
	MinSalary int
	MaxSalary int
}

// Normalizer maps one source-specific RawRecord into a CanonicalJob.
// Deterministic for a given input apart from the ScrapedAt timestamp.
type Normalizer struct {
	cfg NormalizerConfig
	now func() time.Time
}

func NewNormalizer(cfg NormalizerConfig) *Normalizer {
	if cfg.MinSalary == 0 {
		cfg.MinSalary = 30000
	}
	if cfg.MaxSalary == 0 {
		cfg.MaxSalary = 250000
	}
	return &Normalizer{cfg: cfg, now: time.Now}
}

var provinceNames = map[string]string{
	"ontario": "ON", "british columbia": "BC", "alberta": "AB",
	"saskatchewan": "SK", "manitoba": "MB", "quebec": "QC", "québec": "QC",
	"nova scotia": "NS", "new brunswick": "NB",
	"newfoundland and labrador": "NL", "prince edward island": "PE",
	"northwest territories": "NT", "nunavut": "NU", "yukon": "YT",
}

var cityProvinces = map[string]string{
	"toronto": "ON", "ottawa": "ON", "mississauga": "ON", "hamilton": "ON",
	"london": "ON", "markham": "ON", "kitchener": "ON", "waterloo": "ON",
	"calgary": "AB", "edmonton": "AB", "lethbridge": "AB",
	"vancouver": "BC", "victoria": "BC", "surrey": "BC", "burnaby": "BC",
	"richmond": "BC",
	"saskatoon": "SK", "regina": "SK",
	"winnipeg": "MB",
	"montreal": "QC", "montréal": "QC", "quebec city": "QC", "laval": "QC",
	"halifax": "NS", "fredericton": "NB", "charlottetown": "PE",
	"whitehorse": "YT", "yellowknife": "NT", "iqaluit": "NU",
}

// Normalize converts one RawRecord into a CanonicalJob, returning warnings
// for values it had to repair. It fails only when title, city, or url
// cannot be derived at all.
func (n *Normalizer) Normalize(rec models.RawRecord) (models.CanonicalJob, []string, error) {

	title := strings.TrimSpace(rec.String("title"))
	url := strings.TrimSpace(rec.String("url"))
	city, province := n.inferLocation(rec)

	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if city == "" {
		missing = append(missing, "city")
	}
	if url == "" {
		missing = append(missing, "url")
	}
	if len(missing) > 0 {
		return models.CanonicalJob{}, nil, &RecordError{Source: rec.Source, Missing: missing}
	}

	salaryMin, salaryMax, warnings := n.parseSalary(rec)

	postedDateRaw := strings.TrimSpace(rec.String("posted_date"))
	postedDate := parseDate(postedDateRaw, n.now())
	if postedDateRaw != "" && postedDate == nil {
		warnings = append(warnings, WarnDateUnparseable)
	}

	job := models.CanonicalJob{
		Source:        rec.Source,
		JobID:         n.buildJobID(rec, url),
		Title:         title,
		Company:       strings.TrimSpace(rec.String("company")),
		City:          city,
		Province:      province,
		Description:   strings.TrimSpace(rec.String("description")),
		SalaryMin:     salaryMin,
		SalaryMax:     salaryMax,
		RemoteType:    parseRemoteType(rec.String("remote_type")),
		PostedDate:    postedDate,
		PostedDateRaw: postedDateRaw,
		URL:           url,
		ScrapedAt:     n.now(),
	}
	return job, warnings, nil
}

func (n *Normalizer) buildJobID(rec models.RawRecord, url string) string {
	id := strings.TrimSpace(rec.String("job_id"))
	if id == "" {
		id = strings.TrimSpace(rec.String("id"))
	}
	if id == "" {
		sum := md5.Sum([]byte(url))
		id = hex.EncodeToString(sum[:])[:12]
	}
	if strings.HasPrefix(id, rec.Source+"_") {
		return id
	}
	return rec.Source + "_" + id
}

var parentheticalProvinceRe = regexp.MustCompile(`^(.*?)\s*\(([A-Za-z]{2})\)$`)

// inferLocation resolves (city, province). Priority: explicit province
// field, province name or code inside the location string, static
// city-to-province table, unset. Missing province never rejects a record.
func (n *Normalizer) inferLocation(rec models.RawRecord) (string, string) {

	city := strings.TrimSpace(rec.String("city"))
	location := strings.TrimSpace(rec.String("location"))

	parts := strings.Split(location, ",")
	if city == "" && len(parts) > 0 {
		city = strings.TrimSpace(parts[0])
	}

	// Job Bank writes locations as "Toronto (ON)".
	parenProvince := ""
	if m := parentheticalProvinceRe.FindStringSubmatch(city); m != nil {
		if prov := canonicalProvince(m[2]); prov != "" {
			city = strings.TrimSpace(m[1])
			parenProvince = prov
		}
	}

	if prov := canonicalProvince(rec.String("province")); prov != "" {
		return city, prov
	}
	if parenProvince != "" {
		return city, parenProvince
	}

	for _, part := range parts[1:] {
		if prov := canonicalProvince(part); prov != "" {
			return city, prov
		}
	}

	lowered := strings.ToLower(location)
	for name, code := range provinceNames {
		if strings.Contains(lowered, name) {
			return city, code
		}
	}

	if prov, ok := cityProvinces[strings.ToLower(city)]; ok {
		return city, prov
	}

	return city, ""
}

// canonicalProvince maps a raw province value to a valid two-letter code,
// or empty when it matches nothing.
func canonicalProvince(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if len(raw) == 2 {
		code := strings.ToUpper(raw)
		if models.ValidProvinces[code] {
			return code
		}
		return ""
	}
	return provinceNames[strings.ToLower(raw)]
}

var salaryRangeRe = regexp.MustCompile(`(\d+(?:\.\d+)?)(?:to|-|–)(\d+(?:\.\d+)?)`)
var salaryValueRe = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
var hourlyWordingRe = regexp.MustCompile(`(?i)/\s*h(ou)?r|hourly|per hour|an hour`)

func (n *Normalizer) parseSalary(rec models.RawRecord) (*int, *int, []string) {

	var warnings []string
	var min, max *int

	if v, ok := rec.Int("salary_min"); ok {
		min = &v
	}
	if v, ok := rec.Int("salary_max"); ok {
		max = &v
	}

	text := rec.String("salary")
	if min == nil && max == nil && text != "" {
		lo, hi, ok := extractSalaryBounds(text)
		if ok {
			if hourlyWordingRe.MatchString(text) && lo < hourlyRateCeiling {
				lo *= hoursPerYear
				hi *= hoursPerYear
				warnings = append(warnings, WarnHourlyConverted)
			}
			min, max = &lo, &hi
		}
	}

	if min != nil && max != nil && *min > *max {
		min, max = max, min
		warnings = append(warnings, WarnSalaryBoundsSwapped)
	}

	if min != nil && (*min < n.cfg.MinSalary || *min > n.cfg.MaxSalary) {
		min = nil
		warnings = append(warnings, WarnSalaryDiscarded)
	}
	if max != nil && (*max < n.cfg.MinSalary || *max > n.cfg.MaxSalary) {
		max = nil
		warnings = append(warnings, WarnSalaryDiscarded)
	}

	return min, max, warnings
}

func extractSalaryBounds(text string) (int, int, bool) {
	cleaned := strings.NewReplacer(",", "", "$", "", " ", "").Replace(text)
	if strings.Contains(strings.ToLower(cleaned), "not") {
		return 0, 0, false
	}

	if m := salaryRangeRe.FindStringSubmatch(cleaned); m != nil {
		lo, err1 := strconv.ParseFloat(m[1], 64)
		hi, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			return int(lo), int(hi), true
		}
	}

	if m := salaryValueRe.FindStringSubmatch(cleaned); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return int(v), int(v), true
		}
	}

	return 0, 0, false
}

func parseRemoteType(raw string) models.RemoteType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "remote":
		return models.RemoteTypeRemote
	case "hybrid":
		return models.RemoteTypeHybrid
	case "onsite", "on-site":
		return models.RemoteTypeOnsite
	case "":
		return ""
	}
	return models.RemoteType(strings.ToLower(strings.TrimSpace(raw)))
}

var isoDateRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
var daysAgoRe = regexp.MustCompile(`(?i)(\d+)\s+days?\s+ago`)

// parseDate understands ISO dates, "N days ago", "yesterday" and "today".
// Anything else leaves the date unset; the validator decides whether that
// matters.
func parseDate(text string, now time.Time) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse("2006-01-02", m[1]); err == nil {
			return &t
		}
	}

	if m := daysAgoRe.FindStringSubmatch(text); m != nil {
		days, _ := strconv.Atoi(m[1])
		t := now.AddDate(0, 0, -days).Truncate(24 * time.Hour)
		return &t
	}

	lowered := strings.ToLower(text)
	if strings.Contains(lowered, "yesterday") {
		t := now.AddDate(0, 0, -1).Truncate(24 * time.Hour)
		return &t
	}
	if strings.Contains(lowered, "today") {
		t := now.Truncate(24 * time.Hour)
		return &t
	}

	return nil
}
