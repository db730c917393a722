package validation

func referentialChecks() []check {
	orphan := func(name, query string) check {
		return check{CategoryReferential, name, countCheck(query)}
	}

	return []check{
		orphan("teams_to_organizations", `
			SELECT COUNT(*) FROM teams t
			LEFT JOIN organizations o ON t.organization_id = o.id
			WHERE o.id IS NULL`),
		orphan("users_to_organizations", `
			SELECT COUNT(*) FROM users u
			LEFT JOIN organizations o ON u.organization_id = o.id
			WHERE o.id IS NULL`),
		orphan("memberships_to_teams", `
			SELECT COUNT(*) FROM team_memberships tm
			LEFT JOIN teams t ON tm.team_id = t.id
			WHERE t.id IS NULL`),
		orphan("memberships_to_users", `
			SELECT COUNT(*) FROM team_memberships tm
			LEFT JOIN users u ON tm.user_id = u.id
			WHERE u.id IS NULL`),
		orphan("projects_to_teams", `
			SELECT COUNT(*) FROM projects p
			LEFT JOIN teams t ON p.team_id = t.id
			WHERE t.id IS NULL`),
		orphan("sections_to_projects", `
			SELECT COUNT(*) FROM sections s
			LEFT JOIN projects p ON s.project_id = p.id
			WHERE p.id IS NULL`),
		orphan("tasks_to_projects", `
			SELECT COUNT(*) FROM tasks t
			LEFT JOIN projects p ON t.project_id = p.id
			WHERE p.id IS NULL`),
		orphan("tasks_to_sections", `
			SELECT COUNT(*) FROM tasks t
			LEFT JOIN sections s ON t.section_id = s.id
			WHERE s.id IS NULL`),
		orphan("tasks_to_assignees", `
			SELECT COUNT(*) FROM tasks t
			LEFT JOIN users u ON t.assignee_id = u.id
			WHERE t.assignee_id IS NOT NULL AND u.id IS NULL`),
		orphan("subtasks_to_tasks", `
			SELECT COUNT(*) FROM subtasks s
			LEFT JOIN tasks t ON s.task_id = t.id
			WHERE t.id IS NULL`),
		orphan("comments_to_tasks", `
			SELECT COUNT(*) FROM comments c
			LEFT JOIN tasks t ON c.task_id = t.id
			WHERE t.id IS NULL`),
		orphan("comments_to_authors", `
			SELECT COUNT(*) FROM comments c
			LEFT JOIN users u ON c.author_id = u.id
			WHERE u.id IS NULL`),
		orphan("task_tags_to_tasks_and_tags", `
			SELECT COUNT(*) FROM task_tags tt
			LEFT JOIN tasks t ON tt.task_id = t.id
			LEFT JOIN tags g ON tt.tag_id = g.id
			WHERE t.id IS NULL OR g.id IS NULL`),
		orphan("field_values_to_definitions_and_tasks", `
			SELECT COUNT(*) FROM custom_field_values v
			LEFT JOIN custom_field_definitions d ON v.custom_field_definition_id = d.id
			LEFT JOIN tasks t ON v.task_id = t.id
			WHERE d.id IS NULL OR t.id IS NULL`),

		// Cross-scope rules. These are not plain foreign keys but they make
		// the scoping invariants checkable against the persisted data alone.
		{CategoryReferential, "task_section_same_project", countCheck(`
			SELECT COUNT(*) FROM tasks t
			JOIN sections s ON t.section_id = s.id
			WHERE s.project_id != t.project_id`)},
		{CategoryReferential, "membership_same_organization", countCheck(`
			SELECT COUNT(*) FROM team_memberships tm
			JOIN teams t ON tm.team_id = t.id
			JOIN users u ON tm.user_id = u.id
			WHERE t.organization_id != u.organization_id`)},
		{CategoryReferential, "assignee_same_organization", countCheck(`
			SELECT COUNT(*) FROM tasks t
			JOIN projects p ON t.project_id = p.id
			JOIN users u ON t.assignee_id = u.id
			WHERE u.organization_id != p.organization_id`)},
		{CategoryReferential, "comment_author_same_organization", countCheck(`
			SELECT COUNT(*) FROM comments c
			JOIN tasks t ON c.task_id = t.id
			JOIN projects p ON t.project_id = p.id
			JOIN users u ON c.author_id = u.id
			WHERE u.organization_id != p.organization_id`)},
		{CategoryReferential, "task_tag_same_organization", countCheck(`
			SELECT COUNT(*) FROM task_tags tt
			JOIN tasks t ON tt.task_id = t.id
			JOIN projects p ON t.project_id = p.id
			JOIN tags g ON tt.tag_id = g.id
			WHERE g.organization_id != p.organization_id`)},
		{CategoryReferential, "field_value_exactly_one_column", countCheck(`
			SELECT COUNT(*) FROM custom_field_values
			WHERE (value_text IS NOT NULL) + (value_number IS NOT NULL) +
			      (value_date IS NOT NULL) + (value_boolean IS NOT NULL) +
			      (value_enum IS NOT NULL) != 1`)},
		{CategoryReferential, "field_value_matches_definition_type", countCheck(`
			SELECT COUNT(*) FROM custom_field_values v
			JOIN custom_field_definitions d ON v.custom_field_definition_id = d.id
			WHERE (d.field_type = 'text' AND v.value_text IS NULL)
			   OR (d.field_type = 'number' AND v.value_number IS NULL)
			   OR (d.field_type = 'date' AND v.value_date IS NULL)
			   OR (d.field_type = 'boolean' AND v.value_boolean IS NULL)
			   OR (d.field_type = 'enum' AND v.value_enum IS NULL)`)},
		{CategoryReferential, "enum_definitions_carry_options", countCheck(`
			SELECT COUNT(*) FROM custom_field_definitions
			WHERE (field_type = 'enum' AND (enum_options IS NULL OR enum_options = ''))
			   OR (field_type != 'enum' AND enum_options IS NOT NULL)`)},
	}
}
