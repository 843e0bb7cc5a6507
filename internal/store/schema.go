package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// textSize makes ent pick TEXT over VARCHAR on Postgres.
const textSize = 2147483647

// createdAt is the timestamp column every table carries.
func createdAt(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeTime}
}

var (
	// QuestionsColumns holds the columns for the "questions" table.
	QuestionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString},
		{Name: "board", Type: field.TypeString},
		{Name: "level", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString},
		{Name: "difficulty", Type: field.TypeString},
		{Name: "text", Type: field.TypeString, Size: textSize},
		{Name: "parts", Type: field.TypeString, Size: textSize, Default: "[]"},
		{Name: "mark_scheme", Type: field.TypeString, Size: textSize, Default: "[]"},
		{Name: "total_marks", Type: field.TypeInt},
		{Name: "computed_marks", Type: field.TypeInt, Default: 0},
		{Name: "marks_mismatch", Type: field.TypeBool, Default: false},
		{Name: "solution", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "model", Type: field.TypeString, Default: ""},
		{Name: "content_hash", Type: field.TypeString, Unique: true},
		{Name: "times_served", Type: field.TypeInt, Default: 0},
		createdAt("created_at"),
		{Name: "last_served_at", Type: field.TypeTime, Nullable: true},
	}
	// QuestionsTable holds the schema information for the "questions" table.
	QuestionsTable = &schema.Table{
		Name:       "questions",
		Columns:    QuestionsColumns,
		PrimaryKey: []*schema.Column{QuestionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "questions_criteria_idx",
				Unique:  false,
				Columns: []*schema.Column{QuestionsColumns[1], QuestionsColumns[2], QuestionsColumns[3], QuestionsColumns[4], QuestionsColumns[5]},
			},
		},
	}

	// QuestionViewsColumns holds the columns for the "question_views" table.
	QuestionViewsColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeString},
		createdAt("viewed_at"),
	}
	// QuestionViewsTable holds the schema information for the "question_views" table.
	QuestionViewsTable = &schema.Table{
		Name:       "question_views",
		Columns:    QuestionViewsColumns,
		PrimaryKey: []*schema.Column{QuestionViewsColumns[0], QuestionViewsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "question_views_questions_views",
				Columns:    []*schema.Column{QuestionViewsColumns[1]},
				RefColumns: []*schema.Column{QuestionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// UsageCountersColumns holds the columns for the "usage_counters" table.
	UsageCountersColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "day", Type: field.TypeString},
		{Name: "requests", Type: field.TypeInt, Default: 0},
	}
	// UsageCountersTable holds the schema information for the "usage_counters" table.
	UsageCountersTable = &schema.Table{
		Name:       "usage_counters",
		Columns:    UsageCountersColumns,
		PrimaryKey: []*schema.Column{UsageCountersColumns[0], UsageCountersColumns[1]},
	}

	// ProgressAttemptsColumns holds the columns for the "progress_attempts" table.
	ProgressAttemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString},
		{Name: "level", Type: field.TypeString},
		{Name: "answer", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "marks_awarded", Type: field.TypeInt},
		{Name: "marks_available", Type: field.TypeInt},
		{Name: "feedback", Type: field.TypeString, Size: textSize, Default: ""},
		createdAt("created_at"),
	}
	// ProgressAttemptsTable holds the schema information for the "progress_attempts" table.
	ProgressAttemptsTable = &schema.Table{
		Name:       "progress_attempts",
		Columns:    ProgressAttemptsColumns,
		PrimaryKey: []*schema.Column{ProgressAttemptsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "progress_attempts_user_idx",
				Unique:  false,
				Columns: []*schema.Column{ProgressAttemptsColumns[1], ProgressAttemptsColumns[10]},
			},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		createdAt("timestamp"),
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_kind", Type: field.TypeString, Default: ""},
		{Name: "error_message", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: textSize, Default: ""},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestEventsColumns[4]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		QuestionsTable,
		QuestionViewsTable,
		UsageCountersTable,
		ProgressAttemptsTable,
		LlmRequestEventsTable,
	}
)

func init() {
	QuestionViewsTable.ForeignKeys[0].RefTable = QuestionsTable
}

// migrate runs ent's auto-migration over a copy of Tables. It only adds
// tables, columns and indexes; nothing is dropped.
func (s *Store) migrate(ctx context.Context) error {
	tables, err := schema.CopyTables(Tables)
	if err != nil {
		return fmt.Errorf("copy schema: %w", err)
	}
	m, err := schema.NewMigrate(entsql.OpenDB(s.dialect, s.db))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
