package models

import "time"

// Custom field types
const (
	FieldTypeText    = "text"
	FieldTypeNumber  = "number"
	FieldTypeDate    = "date"
	FieldTypeEnum    = "enum"
	FieldTypeBoolean = "boolean"
)

// Tag is an organization-scoped label; names are unique per organization.
type Tag struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Name           string    `json:"name"`
	Color          string    `json:"color"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TaskTag links a task to a tag from the same organization.
type TaskTag struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	TagID     int64     `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomFieldDefinition declares an org-level field. EnumOptions is a JSON
// array and is required iff FieldType is enum.
type CustomFieldDefinition struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Name           string    `json:"name"`
	FieldType      string    `json:"field_type"` // text, number, date, enum, boolean
	EnumOptions    string    `json:"enum_options,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CustomFieldValue attaches a typed value to a task. Exactly one of the
// Value* fields is non-nil and it matches the definition's FieldType.
type CustomFieldValue struct {
	ID           int64      `json:"id"`
	DefinitionID int64      `json:"custom_field_definition_id"`
	TaskID       int64      `json:"task_id"`
	ValueText    *string    `json:"value_text,omitempty"`
	ValueNumber  *float64   `json:"value_number,omitempty"`
	ValueDate    *time.Time `json:"value_date,omitempty"`
	ValueBoolean *bool      `json:"value_boolean,omitempty"`
	ValueEnum    *string    `json:"value_enum,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TimeRange bounds the simulation window all timestamps are drawn from.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
