package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/jeeace/jeeace/internal/evaluator"
)

// recentTestsLimit is how many results UserStats reports as recent.
const recentTestsLimit = 5

// resultRepo implements ResultRepo over the test_results table.
type resultRepo struct {
	drv *entsql.Driver
}

type resultRow struct {
	ID             string    `sql:"id"`
	UserID         string    `sql:"user_id"`
	UserEmail      string    `sql:"user_email"`
	TestID         string    `sql:"test_id"`
	TestName       string    `sql:"test_name"`
	TestType       string    `sql:"test_type"`
	Subjects       string    `sql:"subjects"`
	TotalQuestions int       `sql:"total_questions"`
	Score          float64   `sql:"score"`
	Percentage     float64   `sql:"percentage"`
	Results        string    `sql:"results"`
	TimeTaken      int       `sql:"time_taken"`
	TimeLimit      int       `sql:"time_limit"`
	CompletedAt    time.Time `sql:"completed_at"`
	CreatedAt      time.Time `sql:"created_at"`
}

func (row resultRow) record() (evaluator.ResultRecord, error) {
	rec := evaluator.ResultRecord{
		ID:             row.ID,
		UserID:         row.UserID,
		UserEmail:      row.UserEmail,
		TestID:         row.TestID,
		TestName:       row.TestName,
		TestType:       row.TestType,
		TotalQuestions: row.TotalQuestions,
		TimeTaken:      row.TimeTaken,
		TimeLimit:      row.TimeLimit,
		CompletedAt:    row.CompletedAt,
		CreatedAt:      row.CreatedAt,
	}
	if err := decodeJSON(row.Subjects, &rec.Subjects); err != nil {
		return rec, fmt.Errorf("decode subjects for %s: %w", row.ID, err)
	}
	if row.Results != "" {
		rec.Results = &evaluator.Result{}
		if err := json.Unmarshal([]byte(row.Results), rec.Results); err != nil {
			return rec, fmt.Errorf("decode results for %s: %w", row.ID, err)
		}
	}
	return rec, nil
}

func (r *resultRepo) Create(ctx context.Context, rec *evaluator.ResultRecord) (string, error) {
	if rec.Results == nil {
		return "", fmt.Errorf("save result: missing results")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = rec.CreatedAt
	}
	if rec.TestType == "" {
		rec.TestType = "custom"
	}
	if rec.TotalQuestions == 0 {
		rec.TotalQuestions = rec.Results.Total
	}

	subjects, err := json.Marshal(nonNil(rec.Subjects))
	if err != nil {
		return "", fmt.Errorf("encode subjects: %w", err)
	}
	results, err := json.Marshal(rec.Results)
	if err != nil {
		return "", fmt.Errorf("encode results: %w", err)
	}
	var pct float64
	if rec.Results.Percentage != nil {
		pct = rec.Results.Percentage.Float()
	}

	query, args := entsql.Dialect(r.drv.Dialect()).
		Insert(resultsTable).
		Columns(resultColumnNames()...).
		Values(rec.ID, rec.UserID, rec.UserEmail, rec.TestID, rec.TestName, rec.TestType,
			string(subjects), rec.TotalQuestions, rec.Results.Score, pct, string(results),
			rec.TimeTaken, rec.TimeLimit, rec.CompletedAt.UTC(), rec.CreatedAt.UTC()).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return "", fmt.Errorf("save result: %w", err)
	}
	return rec.ID, nil
}

func (r *resultRepo) Get(ctx context.Context, id string) (*evaluator.ResultRecord, error) {
	rows, err := r.selectRows(ctx, func(s *entsql.Selector) {
		s.Where(entsql.EQ("id", id))
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	rec, err := rows[0].record()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *resultRepo) ListByUser(ctx context.Context, userID string, page, limit int) (*evaluator.ResultPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := r.count(ctx, userID)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	rows, err := r.selectRows(ctx, func(s *entsql.Selector) {
		s.Where(entsql.EQ("user_id", userID)).
			OrderBy(entsql.Desc("completed_at")).
			Limit(limit).
			Offset(offset)
	})
	if err != nil {
		return nil, err
	}

	out := &evaluator.ResultPage{
		Results: make([]evaluator.ResultRecord, 0, len(rows)),
		Pagination: evaluator.Pagination{
			CurrentPage:  page,
			TotalPages:   (total + limit - 1) / limit,
			TotalResults: total,
			HasNext:      offset+limit < total,
			HasPrev:      page > 1,
		},
	}
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		out.Results = append(out.Results, rec)
	}
	return out, nil
}

func (r *resultRepo) Stats(ctx context.Context, userID string) (*evaluator.UserStats, error) {
	query, args := entsql.Dialect(r.drv.Dialect()).
		Select(
			entsql.As(entsql.Count("*"), "total_tests"),
			entsql.As(entsql.Avg("percentage"), "average_score"),
			entsql.As(entsql.Sum("total_questions"), "total_questions"),
			entsql.As(entsql.Sum("time_taken"), "total_time_taken"),
			entsql.As(entsql.Max("percentage"), "best_score"),
		).
		From(entsql.Table(resultsTable)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	var agg []struct {
		TotalTests     int     `sql:"total_tests"`
		AverageScore   float64 `sql:"average_score"`
		TotalQuestions int     `sql:"total_questions"`
		TotalTimeTaken int     `sql:"total_time_taken"`
		BestScore      float64 `sql:"best_score"`
	}
	err := entsql.ScanSlice(rows, &agg)
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("scan stats: %w", err)
	}

	stats := &evaluator.UserStats{
		RecentTests:        []evaluator.RecentTest{},
		SubjectPerformance: []evaluator.SubjectPerformance{},
	}
	if len(agg) == 0 || agg[0].TotalTests == 0 {
		return stats, nil
	}
	stats.TotalTests = agg[0].TotalTests
	stats.AverageScore = round2(agg[0].AverageScore)
	stats.TotalQuestions = agg[0].TotalQuestions
	stats.TotalTimeTaken = agg[0].TotalTimeTaken
	stats.BestScore = round2(agg[0].BestScore)

	all, err := r.selectRows(ctx, func(s *entsql.Selector) {
		s.Where(entsql.EQ("user_id", userID)).
			OrderBy(entsql.Desc("completed_at"))
	})
	if err != nil {
		return nil, err
	}

	type acc struct {
		sum   float64
		count int
	}
	bySubject := map[string]*acc{}
	for i, row := range all {
		var subjects []string
		if err := decodeJSON(row.Subjects, &subjects); err != nil {
			return nil, fmt.Errorf("decode subjects for %s: %w", row.ID, err)
		}
		if i < recentTestsLimit {
			stats.RecentTests = append(stats.RecentTests, evaluator.RecentTest{
				TestName:    row.TestName,
				Score:       row.Percentage,
				CompletedAt: row.CompletedAt,
				Subjects:    nonNil(subjects),
			})
		}
		for _, sub := range subjects {
			a, ok := bySubject[sub]
			if !ok {
				a = &acc{}
				bySubject[sub] = a
			}
			a.sum += row.Percentage
			a.count++
		}
	}
	for sub, a := range bySubject {
		stats.SubjectPerformance = append(stats.SubjectPerformance, evaluator.SubjectPerformance{
			Subject:      sub,
			AverageScore: round2(a.sum / float64(a.count)),
			TestCount:    a.count,
		})
	}
	sort.Slice(stats.SubjectPerformance, func(i, j int) bool {
		return stats.SubjectPerformance[i].Subject < stats.SubjectPerformance[j].Subject
	})
	return stats, nil
}

func (r *resultRepo) count(ctx context.Context, userID string) (int, error) {
	query, args := entsql.Dialect(r.drv.Dialect()).
		Select(entsql.Count("*")).
		From(entsql.Table(resultsTable)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	defer rows.Close()
	n, err := entsql.ScanInt(rows)
	if err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

func (r *resultRepo) selectRows(ctx context.Context, shape func(*entsql.Selector)) ([]resultRow, error) {
	sel := entsql.Dialect(r.drv.Dialect()).
		Select(resultColumnNames()...).
		From(entsql.Table(resultsTable))
	shape(sel)
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []resultRow
	if err := entsql.ScanSlice(rows, &out); err != nil {
		return nil, fmt.Errorf("scan results: %w", err)
	}
	return out, nil
}

func resultColumnNames() []string {
	names := make([]string, len(resultsColumns))
	for i, c := range resultsColumns {
		names[i] = c.Name
	}
	return names
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
