package validation

import "context"

const timeLayout = "2006-01-02 15:04:05"

func temporalChecks() []check {
	simple := func(name, query string) check {
		return check{CategoryTemporal, name, countCheck(query)}
	}

	return []check{
		simple("task_completed_iff_completed_at", `
			SELECT COUNT(*) FROM tasks
			WHERE (completed = 1 AND completed_at IS NULL)
			   OR (completed = 0 AND completed_at IS NOT NULL)`),
		simple("subtask_completed_iff_completed_at", `
			SELECT COUNT(*) FROM subtasks
			WHERE (completed = 1 AND completed_at IS NULL)
			   OR (completed = 0 AND completed_at IS NOT NULL)`),
		simple("task_completed_at_after_created", `
			SELECT COUNT(*) FROM tasks
			WHERE completed_at IS NOT NULL AND completed_at < created_at`),
		simple("subtask_completed_at_after_created", `
			SELECT COUNT(*) FROM subtasks
			WHERE completed_at IS NOT NULL AND completed_at < created_at`),
		simple("updated_at_after_created_at", `
			SELECT (SELECT COUNT(*) FROM organizations WHERE updated_at < created_at)
			     + (SELECT COUNT(*) FROM teams WHERE updated_at < created_at)
			     + (SELECT COUNT(*) FROM users WHERE updated_at < created_at)
			     + (SELECT COUNT(*) FROM projects WHERE updated_at < created_at)
			     + (SELECT COUNT(*) FROM sections WHERE updated_at < created_at)
			     + (SELECT COUNT(*) FROM tasks WHERE updated_at < created_at)
			     + (SELECT COUNT(*) FROM subtasks WHERE updated_at < created_at)
			     + (SELECT COUNT(*) FROM comments WHERE updated_at < created_at)`),
		simple("project_dates_ordered", `
			SELECT COUNT(*) FROM projects
			WHERE end_date IS NOT NULL AND end_date < start_date`),
		simple("section_after_project", `
			SELECT COUNT(*) FROM sections s
			JOIN projects p ON s.project_id = p.id
			WHERE s.created_at < p.created_at`),
		simple("task_after_project", `
			SELECT COUNT(*) FROM tasks t
			JOIN projects p ON t.project_id = p.id
			WHERE t.created_at < p.created_at`),
		simple("subtask_after_parent_task", `
			SELECT COUNT(*) FROM subtasks s
			JOIN tasks t ON s.task_id = t.id
			WHERE s.created_at < t.created_at`),
		simple("comment_after_parent_task", `
			SELECT COUNT(*) FROM comments c
			JOIN tasks t ON c.task_id = t.id
			WHERE c.created_at < t.created_at`),
		{CategoryTemporal, "no_timestamps_past_reference", noFutureTimestamps},
	}
}

// noFutureTimestamps compares every created_at against the simulation
// reference instant rather than the wall clock, so a dataset generated for a
// historical window validates identically whenever the pass runs.
func noFutureTimestamps(ctx context.Context, e *Engine) (int64, bool, string, error) {
	ref := e.reference.Format(timeLayout)
	var n int64
	err := e.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM organizations WHERE created_at > ?)
		     + (SELECT COUNT(*) FROM teams WHERE created_at > ?)
		     + (SELECT COUNT(*) FROM users WHERE created_at > ?)
		     + (SELECT COUNT(*) FROM projects WHERE created_at > ?)
		     + (SELECT COUNT(*) FROM sections WHERE created_at > ?)
		     + (SELECT COUNT(*) FROM tasks WHERE created_at > ?)
		     + (SELECT COUNT(*) FROM subtasks WHERE created_at > ?)
		     + (SELECT COUNT(*) FROM comments WHERE created_at > ?)
		     + (SELECT COUNT(*) FROM projects WHERE updated_at > ?)
		     + (SELECT COUNT(*) FROM tasks WHERE completed_at IS NOT NULL AND completed_at > ?)
		     + (SELECT COUNT(*) FROM subtasks WHERE completed_at IS NOT NULL AND completed_at > ?)`,
		ref, ref, ref, ref, ref, ref, ref, ref, ref, ref, ref).Scan(&n)
	if err != nil {
		return 0, false, "", err
	}
	return n, false, "", nil
}
