package services

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const schemaPrompt = `You are a SQL expert. Convert the user's question into a SQLite query.

SQLite schema for job market data:

job_records (jr) - main table for job listings:
  jr.job_id, jr.source, jr.title, jr.company, jr.city, jr.province,
  jr.description, jr.salary_min, jr.salary_max, jr.salary_mid, jr.remote_type,
  jr.posted_date (use for recency filters), jr.url

job_features (jf) - optional JOIN on jr.job_id = jf.job_id:
  jf.exp_min, jf.exp_max, jf.exp_level, jf.skills (comma separated text),
  jf.is_remote, jf.remote_type

RULES:
- Output ONLY valid SQL, no markdown, no explanation.
- SELECT only. Never DROP, DELETE, UPDATE, INSERT, ALTER or PRAGMA.
- Title/role search: jr.title LIKE '%keyword%' COLLATE NOCASE
- City search: jr.city LIKE '%city%' COLLATE NOCASE
- Remote: jr.remote_type IN ('remote','hybrid') OR jf.is_remote = 1
- Recency "last N days": jr.posted_date >= date('now', '-N days')
- Skills: ',' || jf.skills || ',' LIKE '%,skill,%'
- Return columns: jr.title, jr.company, jr.city, jr.province, jr.source, jr.posted_date, jr.url
- Always add ORDER BY jr.posted_date DESC LIMIT 100`

// forbiddenSQLRe matches whole keywords only, so column names like
// created_at and updated_at pass.
var forbiddenSQLRe = regexp.MustCompile(
	`\b(insert|update|delete|drop|alter|create|attach|pragma|vacuum|replace)\b`)

type aiClient interface {
	GenerateResponse(ctx context.Context, request string) (string, error)
}

// Assistant answers natural language questions about collected jobs by
// asking the model for a read only SQL query and running it.
type Assistant struct {
	aiClient aiClient
	db       *sql.DB
}

func NewAssistant(aiClient aiClient, db *sql.DB) *Assistant {
	return &Assistant{aiClient: aiClient, db: db}
}

func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {

	request := schemaPrompt + "\n\nQuestion: " + question
	response, err := a.aiClient.GenerateResponse(ctx, request)
	if err != nil {
		return "", err
	}

	query := extractSQL(response)
	log.Infof("generated query for %q: %s", question, query)

	if err := checkReadOnly(query); err != nil {
		return "", err
	}

	return a.runQuery(ctx, query)
}

// extractSQL drops markdown fences the model sometimes wraps around the
// query despite the prompt.
func extractSQL(response string) string {

	var lines []string
	for _, line := range strings.Split(response, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		lines = append(lines, line)
	}

	query := strings.TrimSpace(strings.Join(lines, "\n"))
	return strings.TrimSuffix(query, ";")
}

func checkReadOnly(query string) error {

	lowered := strings.ToLower(query)
	if !strings.HasPrefix(lowered, "select") {
		return errors.Errorf("generated query is not a SELECT: %q", query)
	}

	if keyword := forbiddenSQLRe.FindString(lowered); keyword != "" {
		return errors.Errorf("generated query contains forbidden keyword %q", keyword)
	}
	if strings.Contains(lowered, ";") {
		return errors.Errorf("generated query contains a statement separator: %q", query)
	}
	return nil
}

func (a *Assistant) runQuery(ctx context.Context, query string) (string, error) {

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return "", errors.Wrap(err, "query execution failed")
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(strings.Join(columns, " | "))
	b.WriteString("\n")

	count := 0
	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return "", err
		}

		cells := make([]string, len(values))
		for i, v := range values {
			if v == nil {
				cells[i] = ""
				continue
			}
			cells[i] = fmt.Sprint(v)
		}
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString("\n")
		count++
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	if count == 0 {
		return "no matching jobs found", nil
	}
	return b.String(), nil
}
