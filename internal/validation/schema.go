package validation

import (
	"context"
	"fmt"
	"strings"
)

var expectedTables = []string{
	"organizations", "teams", "users", "team_memberships",
	"projects", "sections", "tasks", "subtasks", "comments",
	"tags", "task_tags", "custom_field_definitions", "custom_field_values",
}

var expectedViews = []string{"active_tasks", "project_overview"}

// Columns every check below depends on. Optional extensions such as
// projects.department are probed separately by the distribution checks.
var expectedColumns = map[string][]string{
	"organizations":            {"id", "name", "domain", "created_at", "updated_at"},
	"teams":                    {"id", "organization_id", "name", "created_at", "updated_at"},
	"users":                    {"id", "organization_id", "name", "email", "role", "created_at", "updated_at"},
	"team_memberships":         {"id", "team_id", "user_id", "role", "created_at"},
	"projects":                 {"id", "organization_id", "team_id", "name", "status", "start_date", "end_date", "created_at", "updated_at"},
	"sections":                 {"id", "project_id", "name", "position", "created_at", "updated_at"},
	"tasks":                    {"id", "project_id", "section_id", "assignee_id", "name", "due_date", "completed", "completed_at", "priority", "position", "created_at", "updated_at"},
	"subtasks":                 {"id", "task_id", "name", "completed", "completed_at", "position", "created_at", "updated_at"},
	"comments":                 {"id", "task_id", "author_id", "content", "created_at", "updated_at"},
	"tags":                     {"id", "organization_id", "name", "color", "created_at", "updated_at"},
	"task_tags":                {"id", "task_id", "tag_id", "created_at"},
	"custom_field_definitions": {"id", "organization_id", "name", "field_type", "enum_options", "created_at", "updated_at"},
	"custom_field_values":      {"id", "custom_field_definition_id", "task_id", "value_text", "value_number", "value_date", "value_boolean", "value_enum", "created_at", "updated_at"},
}

func schemaChecks() []check {
	return []check{
		{CategorySchema, "tables_present", objectsPresent("table", expectedTables)},
		{CategorySchema, "views_present", objectsPresent("view", expectedViews)},
		{CategorySchema, "columns_present", requiredColumnsPresent},
	}
}

func objectsPresent(kind string, names []string) func(context.Context, *Engine) (int64, bool, string, error) {
	return func(ctx context.Context, e *Engine) (int64, bool, string, error) {
		rows, err := e.db.QueryContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = ? AND name NOT LIKE 'sqlite_%'`, kind)
		if err != nil {
			return 0, false, "", err
		}
		defer rows.Close()

		present := make(map[string]bool)
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return 0, false, "", err
			}
			present[name] = true
		}
		if err := rows.Err(); err != nil {
			return 0, false, "", err
		}

		var missing []string
		for _, name := range names {
			if !present[name] {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return int64(len(missing)), false, "missing: " + strings.Join(missing, ", "), nil
		}
		return 0, false, "", nil
	}
}

func requiredColumnsPresent(ctx context.Context, e *Engine) (int64, bool, string, error) {
	var missing []string
	for _, table := range expectedTables {
		columns, err := e.db.TableColumns(table)
		if err != nil {
			return 0, false, "", err
		}
		have := make(map[string]bool, len(columns))
		for _, c := range columns {
			have[c] = true
		}
		for _, want := range expectedColumns[table] {
			if !have[want] {
				missing = append(missing, fmt.Sprintf("%s.%s", table, want))
			}
		}
	}
	if len(missing) > 0 {
		return int64(len(missing)), false, "missing: " + strings.Join(missing, ", "), nil
	}
	return 0, false, "", nil
}
