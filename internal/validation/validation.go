// Package validation runs a categorized, read-only check pass over the
// generated dataset. Schema and referential findings are fatal, temporal and
// distribution findings are advisory. Running it twice over an unmodified
// database yields identical reports.
package validation

import (
	"context"
	"fmt"
	"time"

	"seedforge/internal/database"
)

// Check categories.
const (
	CategorySchema       = "schema"
	CategoryReferential  = "referential"
	CategoryTemporal     = "temporal"
	CategoryDistribution = "distribution"
)

// Severities.
const (
	SeverityFatal    = "fatal"
	SeverityAdvisory = "advisory"
)

// Statuses.
const (
	StatusPass    = "pass"
	StatusFail    = "fail"
	StatusSkipped = "skipped"
)

// Finding is the outcome of one named check.
type Finding struct {
	Category  string `json:"category"`
	Name      string `json:"name"`
	Severity  string `json:"severity"`
	Status    string `json:"status"`
	Offending int64  `json:"offending_rows"`
	Detail    string `json:"detail,omitempty"`
}

// Report enumerates every finding of a validation pass.
type Report struct {
	RanAt    time.Time `json:"ran_at"`
	Findings []Finding `json:"findings"`
}

// Failed reports whether any fatal-severity check failed.
func (r *Report) Failed() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityFatal && f.Status == StatusFail {
			return true
		}
	}
	return false
}

// Counts returns the number of passed, failed and skipped checks.
func (r *Report) Counts() (passed, failed, skipped int) {
	for _, f := range r.Findings {
		switch f.Status {
		case StatusPass:
			passed++
		case StatusFail:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return
}

// Engine runs checks against a finished dataset. Reference is the instant
// the dataset treats as "now": no generated timestamp may exceed it.
type Engine struct {
	db        *database.DB
	reference time.Time
}

func New(db *database.DB, reference time.Time) *Engine {
	return &Engine{db: db, reference: reference}
}

type check struct {
	category string
	name     string
	run      func(ctx context.Context, e *Engine) (offending int64, skipped bool, detail string, err error)
}

// countCheck wraps a query whose single result column counts offending rows.
func countCheck(query string, args ...any) func(context.Context, *Engine) (int64, bool, string, error) {
	return func(ctx context.Context, e *Engine) (int64, bool, string, error) {
		var n int64
		if err := e.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return 0, false, "", err
		}
		return n, false, "", nil
	}
}

// Validate runs every registered check in order. A query error is a
// structural failure and aborts the pass; check findings never do.
func (e *Engine) Validate(ctx context.Context) (*Report, error) {
	report := &Report{RanAt: time.Now().UTC()}

	for _, c := range checks() {
		offending, skipped, detail, err := c.run(ctx, e)
		if err != nil {
			return nil, fmt.Errorf("check %s/%s: %w", c.category, c.name, err)
		}

		f := Finding{
			Category:  c.category,
			Name:      c.name,
			Severity:  severityFor(c.category),
			Offending: offending,
			Detail:    detail,
		}
		switch {
		case skipped:
			f.Status = StatusSkipped
		case offending > 0:
			f.Status = StatusFail
		default:
			f.Status = StatusPass
		}
		report.Findings = append(report.Findings, f)
	}

	return report, nil
}

func severityFor(category string) string {
	switch category {
	case CategorySchema, CategoryReferential:
		return SeverityFatal
	}
	return SeverityAdvisory
}

func checks() []check {
	var out []check
	out = append(out, schemaChecks()...)
	out = append(out, referentialChecks()...)
	out = append(out, temporalChecks()...)
	out = append(out, distributionChecks()...)
	return out
}
