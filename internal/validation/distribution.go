package validation

import (
	"context"
	"fmt"
)

const (
	businessDayFloor  = 0.85
	unassignedFloor   = 0.02
	unassignedCeiling = 0.40
)

func distributionChecks() []check {
	return []check{
		{CategoryDistribution, "due_dates_on_business_days", dueDateBusinessDays},
		{CategoryDistribution, "completion_rate_by_project_status", completionRateByStatus},
		{CategoryDistribution, "unassigned_rate_in_band", unassignedRateInBand},
		{CategoryDistribution, "priority_mode_is_medium", priorityModeIsMedium},
		{CategoryDistribution, "projects_have_department", projectsHaveDepartment},
		{CategoryDistribution, "completion_rate_by_project_type", completionRateByType},
	}
}

func dueDateBusinessDays(ctx context.Context, e *Engine) (int64, bool, string, error) {
	var total, weekend int64
	err := e.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       SUM(CASE WHEN strftime('%w', due_date) IN ('0', '6') THEN 1 ELSE 0 END)
		FROM tasks WHERE due_date IS NOT NULL`).Scan(&total, &weekend)
	if err != nil {
		return 0, false, "", err
	}
	if total == 0 {
		return 0, true, "no due dates generated", nil
	}

	fraction := float64(total-weekend) / float64(total)
	detail := fmt.Sprintf("%.1f%% of %d due dates on business days", fraction*100, total)
	if fraction < businessDayFloor {
		return weekend, false, detail, nil
	}
	return 0, false, detail, nil
}

// completionRateByStatus expects tasks in completed projects to close out
// more often than tasks in active projects.
func completionRateByStatus(ctx context.Context, e *Engine) (int64, bool, string, error) {
	rates := make(map[string]float64)
	counts := make(map[string]int64)

	rows, err := e.db.QueryContext(ctx, `
		SELECT p.status, COUNT(*), AVG(t.completed)
		FROM tasks t JOIN projects p ON t.project_id = p.id
		GROUP BY p.status ORDER BY p.status`)
	if err != nil {
		return 0, false, "", err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		var rate float64
		if err := rows.Scan(&status, &count, &rate); err != nil {
			return 0, false, "", err
		}
		rates[status] = rate
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return 0, false, "", err
	}

	if counts["active"] < 20 || counts["completed"] < 20 {
		return 0, true, "too few tasks per status for a rate comparison", nil
	}

	detail := fmt.Sprintf("completed %.2f vs active %.2f", rates["completed"], rates["active"])
	if rates["completed"] <= rates["active"] {
		return 1, false, detail, nil
	}
	return 0, false, detail, nil
}

func unassignedRateInBand(ctx context.Context, e *Engine) (int64, bool, string, error) {
	var total, unassigned int64
	err := e.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       SUM(CASE WHEN assignee_id IS NULL THEN 1 ELSE 0 END)
		FROM tasks`).Scan(&total, &unassigned)
	if err != nil {
		return 0, false, "", err
	}
	if total < 50 {
		return 0, true, "too few tasks for a rate check", nil
	}

	fraction := float64(unassigned) / float64(total)
	detail := fmt.Sprintf("%.1f%% of %d tasks unassigned", fraction*100, total)
	if fraction < unassignedFloor || fraction > unassignedCeiling {
		return unassigned, false, detail, nil
	}
	return 0, false, detail, nil
}

func priorityModeIsMedium(ctx context.Context, e *Engine) (int64, bool, string, error) {
	var total int64
	if err := e.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&total); err != nil {
		return 0, false, "", err
	}
	if total < 50 {
		return 0, true, "too few tasks for a mode check", nil
	}

	var mode string
	var count int64
	err := e.db.QueryRowContext(ctx, `
		SELECT priority, COUNT(*) AS n FROM tasks
		GROUP BY priority ORDER BY n DESC, priority LIMIT 1`).Scan(&mode, &count)
	if err != nil {
		return 0, false, "", err
	}

	detail := fmt.Sprintf("modal priority %q (%d of %d)", mode, count, total)
	if mode != "medium" {
		return 1, false, detail, nil
	}
	return 0, false, detail, nil
}

// projectsHaveDepartment probes for the optional department column and
// degrades to skipped when the schema does not carry it.
func projectsHaveDepartment(ctx context.Context, e *Engine) (int64, bool, string, error) {
	ok, err := e.hasProjectColumn("department")
	if err != nil {
		return 0, false, "", err
	}
	if !ok {
		return 0, true, "projects.department not present", nil
	}

	var missing int64
	err = e.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM projects
		WHERE department IS NULL OR department = ''`).Scan(&missing)
	if err != nil {
		return 0, false, "", err
	}
	return missing, false, "", nil
}

// completionRateByType flags a project type whose completion rate collapses
// to zero or saturates at one, which indicates the age-bucket lookup never
// fired for that type. Skipped when projects.project_type is absent.
func completionRateByType(ctx context.Context, e *Engine) (int64, bool, string, error) {
	ok, err := e.hasProjectColumn("project_type")
	if err != nil {
		return 0, false, "", err
	}
	if !ok {
		return 0, true, "projects.project_type not present", nil
	}

	rows, err := e.db.QueryContext(ctx, `
		SELECT p.project_type, COUNT(*), AVG(t.completed)
		FROM tasks t JOIN projects p ON t.project_id = p.id
		WHERE p.project_type IS NOT NULL
		GROUP BY p.project_type ORDER BY p.project_type`)
	if err != nil {
		return 0, false, "", err
	}
	defer rows.Close()

	var offending int64
	detail := ""
	for rows.Next() {
		var projectType string
		var count int64
		var rate float64
		if err := rows.Scan(&projectType, &count, &rate); err != nil {
			return 0, false, "", err
		}
		if detail != "" {
			detail += ", "
		}
		detail += fmt.Sprintf("%s %.2f", projectType, rate)
		if count >= 30 && (rate == 0 || rate == 1) {
			offending++
		}
	}
	if err := rows.Err(); err != nil {
		return 0, false, "", err
	}
	if detail == "" {
		return 0, true, "no typed projects generated", nil
	}
	return offending, false, detail, nil
}

func (e *Engine) hasProjectColumn(name string) (bool, error) {
	columns, err := e.db.TableColumns("projects")
	if err != nil {
		return false, err
	}
	for _, c := range columns {
		if c == name {
			return true, nil
		}
	}
	return false, nil
}
