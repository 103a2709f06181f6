package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names.
const (
	kvTable          = "kv"
	testsTable       = "tests"
	resultsTable     = "test_results"
	llmRequestsTable = "llm_requests"
)

var (
	kvColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeString, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeTime},
	}
	kvTableDef = &schema.Table{
		Name:       kvTable,
		Columns:    kvColumns,
		PrimaryKey: []*schema.Column{kvColumns[0]},
	}

	testsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "test_name", Type: field.TypeString, Default: ""},
		{Name: "test_type", Type: field.TypeString, Default: "custom"},
		{Name: "subjects", Type: field.TypeJSON},
		{Name: "total_questions", Type: field.TypeInt},
		{Name: "time_limit", Type: field.TypeInt},
		{Name: "questions", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
	}
	testsTableDef = &schema.Table{
		Name:       testsTable,
		Columns:    testsColumns,
		PrimaryKey: []*schema.Column{testsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "tests_user_id_created_at", Columns: []*schema.Column{testsColumns[1], testsColumns[8]}},
		},
	}

	resultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "user_email", Type: field.TypeString, Default: ""},
		{Name: "test_id", Type: field.TypeString},
		{Name: "test_name", Type: field.TypeString, Default: ""},
		{Name: "test_type", Type: field.TypeString, Default: "custom"},
		{Name: "subjects", Type: field.TypeJSON},
		{Name: "total_questions", Type: field.TypeInt},
		{Name: "score", Type: field.TypeFloat64},
		{Name: "percentage", Type: field.TypeFloat64},
		{Name: "results", Type: field.TypeJSON},
		{Name: "time_taken", Type: field.TypeInt},
		{Name: "time_limit", Type: field.TypeInt},
		{Name: "completed_at", Type: field.TypeTime},
		{Name: "created_at", Type: field.TypeTime},
	}
	resultsTableDef = &schema.Table{
		Name:       resultsTable,
		Columns:    resultsColumns,
		PrimaryKey: []*schema.Column{resultsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "test_results_user_id_completed_at", Columns: []*schema.Column{resultsColumns[1], resultsColumns[13]}},
		},
	}

	llmRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	llmRequestsTableDef = &schema.Table{
		Name:       llmRequestsTable,
		Columns:    llmRequestsColumns,
		PrimaryKey: []*schema.Column{llmRequestsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llm_requests_created_at", Columns: []*schema.Column{llmRequestsColumns[9]}},
		},
	}

	// tables is the full schema, in creation order.
	tables = []*schema.Table{
		kvTableDef,
		testsTableDef,
		resultsTableDef,
		llmRequestsTableDef,
	}
)
