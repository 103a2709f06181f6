package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/jeeace/jeeace/internal/evaluator"
)

// testRepo implements TestRepo over the tests table.
type testRepo struct {
	drv *entsql.Driver
}

type testRow struct {
	ID             string    `sql:"id"`
	UserID         string    `sql:"user_id"`
	TestName       string    `sql:"test_name"`
	TestType       string    `sql:"test_type"`
	Subjects       string    `sql:"subjects"`
	TotalQuestions int       `sql:"total_questions"`
	TimeLimit      int       `sql:"time_limit"`
	Questions      string    `sql:"questions"`
	CreatedAt      time.Time `sql:"created_at"`
}

func (r *testRepo) Create(ctx context.Context, t *evaluator.SavedTest) (string, error) {
	if t.TestID == "" {
		t.TestID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if t.TestType == "" {
		t.TestType = "custom"
	}
	subjects, err := json.Marshal(nonNil(t.Subjects))
	if err != nil {
		return "", fmt.Errorf("encode subjects: %w", err)
	}
	questions, err := json.Marshal(t.Questions)
	if err != nil {
		return "", fmt.Errorf("encode questions: %w", err)
	}

	query, args := entsql.Dialect(r.drv.Dialect()).
		Insert(testsTable).
		Columns("id", "user_id", "test_name", "test_type", "subjects",
			"total_questions", "time_limit", "questions", "created_at").
		Values(t.TestID, t.UserID, t.TestName, t.TestType, string(subjects),
			t.TotalQuestions, t.TimeLimit, string(questions), t.CreatedAt.UTC()).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return "", fmt.Errorf("save test: %w", err)
	}
	return t.TestID, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]evaluator.SavedTest, error) {
	query, args := entsql.Dialect(r.drv.Dialect()).
		Select(testsColumnNames()...).
		From(entsql.Table(testsTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("created_at")).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query tests: %w", err)
	}
	defer rows.Close()

	var scanned []testRow
	if err := entsql.ScanSlice(rows, &scanned); err != nil {
		return nil, fmt.Errorf("scan tests: %w", err)
	}

	out := make([]evaluator.SavedTest, 0, len(scanned))
	for _, row := range scanned {
		t := evaluator.SavedTest{
			TestID:         row.ID,
			UserID:         row.UserID,
			TestName:       row.TestName,
			TestType:       row.TestType,
			TotalQuestions: row.TotalQuestions,
			TimeLimit:      row.TimeLimit,
			CreatedAt:      row.CreatedAt,
		}
		if err := decodeJSON(row.Subjects, &t.Subjects); err != nil {
			return nil, fmt.Errorf("decode subjects for %s: %w", row.ID, err)
		}
		if err := decodeJSON(row.Questions, &t.Questions); err != nil {
			return nil, fmt.Errorf("decode questions for %s: %w", row.ID, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func testsColumnNames() []string {
	names := make([]string, len(testsColumns))
	for i, c := range testsColumns {
		names[i] = c.Name
	}
	return names
}

func decodeJSON(raw string, v any) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
