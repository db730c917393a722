package validation

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"seedforge/internal/config"
	"seedforge/internal/content"
	"seedforge/internal/database"
	"seedforge/internal/distribution"
	"seedforge/internal/generators"
	"seedforge/internal/models"
	"seedforge/internal/temporal"
)

func generateDataset(t *testing.T) (*database.DB, time.Time) {
	t.Helper()

	cfg := &config.Config{
		DatabasePath: filepath.Join(t.TempDir(), "seed.sqlite"),
		Seed:         42,

		OrganizationCount:  1,
		TeamsPerOrgMin:     3,
		TeamsPerOrgMax:     4,
		UsersPerTeamMin:    4,
		UsersPerTeamMax:    6,
		ProjectsPerTeamMin: 2,
		ProjectsPerTeamMax: 3,
		TasksPerProjectMin: 15,
		TasksPerProjectMax: 30,

		SimulationStart: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		SimulationEnd:   time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC),

		LLMEnabled:      false,
		ParallelWorkers: 2,
	}

	dist, err := distribution.New(cfg.Seed, nil)
	if err != nil {
		t.Fatalf("distribution.New failed: %v", err)
	}
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		t.Fatalf("database.New failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.ApplySchema(); err != nil {
		t.Fatalf("ApplySchema failed: %v", err)
	}

	window := models.TimeRange{Start: cfg.SimulationStart, End: cfg.SimulationEnd}
	clock := temporal.New(window, window.End, dist)
	provider := content.NewProvider(content.Options{LLMEnabled: false, Seed: cfg.Seed}, nil)

	p := generators.NewPipeline(db, dist, clock, provider, cfg, nil)
	if _, err := generators.Run(context.Background(), p); err != nil {
		t.Fatalf("pipeline run failed: %v", err)
	}
	return db, clock.Now()
}

func TestGeneratedDatasetPassesFatalChecks(t *testing.T) {
	db, now := generateDataset(t)

	report, err := New(db, now).Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if report.Failed() {
		for _, f := range report.Findings {
			if f.Severity == SeverityFatal && f.Status == StatusFail {
				t.Errorf("fatal check %s/%s failed with %d offending rows (%s)",
					f.Category, f.Name, f.Offending, f.Detail)
			}
		}
	}

	for _, f := range report.Findings {
		if f.Category == CategoryTemporal && f.Status == StatusFail {
			t.Errorf("temporal check %s failed with %d offending rows", f.Name, f.Offending)
		}
	}
}

func TestValidationIsIdempotent(t *testing.T) {
	db, now := generateDataset(t)
	engine := New(db, now)

	first, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("first Validate failed: %v", err)
	}
	second, err := engine.Validate(context.Background())
	if err != nil {
		t.Fatalf("second Validate failed: %v", err)
	}

	if len(first.Findings) != len(second.Findings) {
		t.Fatalf("finding counts diverged: %d vs %d", len(first.Findings), len(second.Findings))
	}
	for i := range first.Findings {
		a, b := first.Findings[i], second.Findings[i]
		if a.Category != b.Category || a.Name != b.Name || a.Status != b.Status ||
			a.Offending != b.Offending || a.Detail != b.Detail {
			t.Errorf("finding %d diverged: %+v vs %+v", i, a, b)
		}
	}
}

func TestSeverityAssignment(t *testing.T) {
	if severityFor(CategorySchema) != SeverityFatal {
		t.Error("schema checks should be fatal")
	}
	if severityFor(CategoryReferential) != SeverityFatal {
		t.Error("referential checks should be fatal")
	}
	if severityFor(CategoryTemporal) != SeverityAdvisory {
		t.Error("temporal checks should be advisory")
	}
	if severityFor(CategoryDistribution) != SeverityAdvisory {
		t.Error("distribution checks should be advisory")
	}
}

func TestValidateFlagsCorruptedRows(t *testing.T) {
	db, now := generateDataset(t)

	// Break one task by hand: completed without a completion instant.
	if _, err := db.Exec(`
		UPDATE tasks SET completed = 1, completed_at = NULL
		WHERE id = (SELECT id FROM tasks WHERE completed = 0 LIMIT 1)`); err != nil {
		t.Fatalf("corrupting row failed: %v", err)
	}

	report, err := New(db, now).Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	found := false
	for _, f := range report.Findings {
		if f.Name == "task_completed_iff_completed_at" {
			found = true
			if f.Status != StatusFail || f.Offending != 1 {
				t.Errorf("expected one offending row, got status %s with %d", f.Status, f.Offending)
			}
		}
	}
	if !found {
		t.Error("task_completed_iff_completed_at check missing from report")
	}
	if report.Failed() {
		t.Error("temporal finding must not mark the dataset as failed")
	}
}

func TestValidateFlagsFutureSubtaskCompletion(t *testing.T) {
	db, now := generateDataset(t)

	var subtasks int
	if err := db.QueryRow(`SELECT COUNT(*) FROM subtasks`).Scan(&subtasks); err != nil || subtasks == 0 {
		t.Fatalf("dataset has no subtasks to corrupt (err=%v)", err)
	}

	// Push one subtask's completion past the reference instant.
	future := now.AddDate(0, 0, 1).Format("2006-01-02 15:04:05")
	if _, err := db.Exec(`
		UPDATE subtasks SET completed = 1, completed_at = ?
		WHERE id = (SELECT id FROM subtasks LIMIT 1)`, future); err != nil {
		t.Fatalf("corrupting row failed: %v", err)
	}

	report, err := New(db, now).Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	found := false
	for _, f := range report.Findings {
		if f.Name == "no_timestamps_past_reference" {
			found = true
			if f.Status != StatusFail || f.Offending != 1 {
				t.Errorf("expected one offending row, got status %s with %d", f.Status, f.Offending)
			}
		}
	}
	if !found {
		t.Error("no_timestamps_past_reference check missing from report")
	}
}

func TestOptionalColumnChecksSkipWhenAbsent(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "bare.sqlite"))
	if err != nil {
		t.Fatalf("database.New failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// A minimal projects table without the optional extension columns.
	if _, err := db.Exec(`
		CREATE TABLE projects (
			id INTEGER PRIMARY KEY,
			organization_id INTEGER NOT NULL,
			team_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`); err != nil {
		t.Fatalf("create table failed: %v", err)
	}

	e := New(db, time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, skipped, _, err := projectsHaveDepartment(ctx, e); err != nil || !skipped {
		t.Errorf("projectsHaveDepartment skipped=%v err=%v, want skipped without error", skipped, err)
	}
	if _, skipped, _, err := completionRateByType(ctx, e); err != nil || !skipped {
		t.Errorf("completionRateByType skipped=%v err=%v, want skipped without error", skipped, err)
	}
}
