package analytics

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
)

type CityCount struct {
	City  string
	Count int
}

type SalaryStats struct {
	JobsWithSalary int
	AvgSalaryMid   float64
	MinSalary      int
	MaxSalary      int
}

type SkillDemand struct {
	Skill string
	Count int
}

type RemoteShare struct {
	RemoteType string
	Count      int
}

type LevelCount struct {
	Level string
	Count int
}

// Service answers aggregate questions over collected jobs for the stats
// and analyze commands.
type Service struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

func NewService(db *sql.DB) *Service {
	return &Service{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

func (s *Service) TopCities(ctx context.Context, limit int) ([]CityCount, error) {

	rows, err := s.builder.
		Select("city", "COUNT(*) AS cnt").
		From("job_records").
		GroupBy("city").
		OrderBy("cnt DESC", "city ASC").
		Limit(uint64(limit)).
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []CityCount
	for rows.Next() {
		var c CityCount
		if err := rows.Scan(&c.City, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *Service) SalaryStats(ctx context.Context) (SalaryStats, error) {

	row := s.builder.
		Select(
			"COUNT(*)",
			"COALESCE(AVG(salary_mid), 0)",
			"COALESCE(MIN(salary_min), 0)",
			"COALESCE(MAX(salary_max), 0)",
		).
		From("job_records").
		Where(sq.NotEq{"salary_mid": nil}).
		RunWith(s.db).
		QueryRowContext(ctx)

	var stats SalaryStats
	err := row.Scan(&stats.JobsWithSalary, &stats.AvgSalaryMid, &stats.MinSalary, &stats.MaxSalary)
	return stats, err
}

// SkillDemand counts jobs mentioning each skill. Skills are stored as a
// comma joined list, so matching pads both sides with commas to avoid
// substring hits like "java" inside "javascript".
func (s *Service) SkillDemand(ctx context.Context, skills []string) ([]SkillDemand, error) {

	demand := make([]SkillDemand, 0, len(skills))
	for _, skill := range skills {

		row := s.builder.
			Select("COUNT(*)").
			From("job_features").
			Where(sq.Like{"',' || skills || ','": "%," + skill + ",%"}).
			RunWith(s.db).
			QueryRowContext(ctx)

		var count int
		if err := row.Scan(&count); err != nil {
			return nil, err
		}
		demand = append(demand, SkillDemand{Skill: skill, Count: count})
	}
	return demand, nil
}

func (s *Service) RemoteBreakdown(ctx context.Context) ([]RemoteShare, error) {

	rows, err := s.builder.
		Select("remote_type", "COUNT(*) AS cnt").
		From("job_features").
		GroupBy("remote_type").
		OrderBy("cnt DESC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []RemoteShare
	for rows.Next() {
		var share RemoteShare
		if err := rows.Scan(&share.RemoteType, &share.Count); err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	return shares, rows.Err()
}

func (s *Service) ExperienceLevels(ctx context.Context) ([]LevelCount, error) {

	rows, err := s.builder.
		Select("exp_level", "COUNT(*) AS cnt").
		From("job_features").
		GroupBy("exp_level").
		OrderBy("cnt DESC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []LevelCount
	for rows.Next() {
		var level LevelCount
		if err := rows.Scan(&level.Level, &level.Count); err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}
