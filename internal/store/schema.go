package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	phrasesTable  = "phrases"
	settingsTable = "settings"
	llmTable      = "llm_request_events"
)

var (
	// PhrasesColumns holds the columns for the "phrases" table.
	PhrasesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
		{Name: "text", Type: field.TypeString, Size: 2147483647},
		{Name: "note", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "last_score", Type: field.TypeInt, Nullable: true},
		{Name: "practice_count", Type: field.TypeInt, Default: 0},
	}
	// PhrasesTable holds the schema information for the "phrases" table.
	PhrasesTable = &schema.Table{
		Name:       phrasesTable,
		Columns:    PhrasesColumns,
		PrimaryKey: []*schema.Column{PhrasesColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "phrase_position",
				Unique:  false,
				Columns: []*schema.Column{PhrasesColumns[1]},
			},
		},
	}

	// SettingsColumns holds the columns for the "settings" table.
	SettingsColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeString, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	// SettingsTable holds the schema information for the "settings" table.
	SettingsTable = &schema.Table{
		Name:       settingsTable,
		Columns:    SettingsColumns,
		PrimaryKey: []*schema.Column{SettingsColumns[0]},
	}

	// LLMRequestEventsColumns holds the columns for the "llm_request_events" table.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LLMRequestEventsTable holds the schema information for the "llm_request_events" table.
	LLMRequestEventsTable = &schema.Table{
		Name:       llmTable,
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{LLMRequestEventsColumns[4]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		PhrasesTable,
		SettingsTable,
		LLMRequestEventsTable,
	}
)
