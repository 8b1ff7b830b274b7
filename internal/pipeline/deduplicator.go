package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/jobcompass/jobcompass/internal/domain/models"
)

// Deduplicator collapses records describing the same real-world posting
// across sources. The seen-fingerprint set lives for one Deduplicate call;
// cross-run dedup is the storage layer's upsert-by-job_id, a separate
// guarantee.
type Deduplicator struct{}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Deduplicate keeps the first record of every fingerprint, preserving input
// order. First arrival wins: a different input ordering may keep a
// different representative of the same cluster.
func (d *Deduplicator) Deduplicate(jobs []models.CanonicalJob) ([]models.CanonicalJob, int) {

	seen := make(map[string]struct{}, len(jobs))
	unique := make([]models.CanonicalJob, 0, len(jobs))
	duplicates := 0

	for _, job := range jobs {
		fp := Fingerprint(job)
		if _, ok := seen[fp]; ok {
			duplicates++
			continue
		}
		seen[fp] = struct{}{}
		unique = append(unique, job)
	}

	return unique, duplicates
}

var titleSuffixes = []string{"- remote", "(remote)"}

var companySuffixes = []string{" inc.", " inc", " ltd.", " ltd", " corp.", " corp", " llc"}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)
var whitespaceRe = regexp.MustCompile(`\s+`)

// Fingerprint derives the duplicate key of a job: a stable hash of its
// normalized title, company and city.
func Fingerprint(job models.CanonicalJob) string {
	key := normalizeTitle(job.Title) + "::" + normalizeCompany(job.Company) + "::" + normalizeText(job.City)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func normalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	for _, suffix := range titleSuffixes {
		t = strings.TrimSuffix(strings.TrimSpace(t), suffix)
	}
	t = strings.ReplaceAll(t, "/", " ")
	return normalizeText(t)
}

func normalizeCompany(company string) string {
	c := strings.ToLower(strings.TrimSpace(company))
	for _, suffix := range companySuffixes {
		c = strings.TrimSuffix(c, suffix)
	}
	return normalizeText(c)
}

func normalizeText(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	t = nonAlnumRe.ReplaceAllString(t, "")
	t = whitespaceRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}
