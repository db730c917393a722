// Package temporal computes every timestamp in the generated dataset. All
// instants come from a bounded simulation window, children never precede
// their parents, and due dates are projected onto business days.
package temporal

import (
	"time"

	"seedforge/internal/distribution"
	"seedforge/internal/models"
)

const (
	workStartHour = 9
	workEndHour   = 18

	// Completed work may land a little past the due date.
	completionGrace = 72 * time.Hour
)

// Engine derives timestamps from the simulation window using the shared
// seeded distribution controller.
type Engine struct {
	window models.TimeRange
	now    time.Time
	dist   *distribution.Controller
}

// New creates a temporal engine. now caps every generated instant; it is
// normally the window end so historical datasets stay self-contained.
func New(window models.TimeRange, now time.Time, dist *distribution.Controller) *Engine {
	if now.After(window.End) {
		now = window.End
	}
	return &Engine{window: window, now: now, dist: dist}
}

// Window returns the simulation window.
func (e *Engine) Window() models.TimeRange { return e.window }

// Now returns the simulated current instant.
func (e *Engine) Now() time.Time { return e.now }

// IsBusinessDay reports whether the date is a weekday and not a US holiday.
func (e *Engine) IsBusinessDay(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isUSHoliday(t)
}

// NextBusinessDay moves forward to the next business day, keeping the clock.
func (e *Engine) NextBusinessDay(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	for !e.IsBusinessDay(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Between samples a uniform instant in [start, end].
func (e *Engine) Between(start, end time.Time) time.Time {
	if !end.After(start) {
		return start
	}
	span := end.Sub(start)
	offset := time.Duration(e.dist.Float64() * float64(span))
	return start.Add(offset)
}

// ChildTimestamp samples a creation instant for a child entity: at or after
// the parent's creation, within the window, shaped to working hours.
func (e *Engine) ChildTimestamp(parent time.Time) time.Time {
	end := e.now
	if end.Before(parent) {
		return parent
	}
	shaped := e.WorkTime(e.Between(parent, end), parent)
	if shaped.After(end) {
		shaped = end
	}
	return shaped
}

// EarlyWindow samples an instant from the first fraction of the window,
// used for org/team/user onboarding so later stages have room to breathe.
func (e *Engine) EarlyWindow(fraction float64) time.Time {
	span := time.Duration(fraction * float64(e.window.End.Sub(e.window.Start)))
	return e.WorkTime(e.Between(e.window.Start, e.window.Start.Add(span)), e.window.Start)
}

// WorkTime reshapes an instant's clock toward business hours: 85% of draws
// land inside 9-18 with minutes snapped toward :00/:15/:30/:45. The result
// never drops below floor.
func (e *Engine) WorkTime(t, floor time.Time) time.Time {
	var hour int
	if e.dist.Boolean(0.85) {
		hour = workStartHour + e.dist.Intn(workEndHour-workStartHour)
	} else {
		hour = e.dist.Intn(24)
	}

	minute := e.snapMinute()
	shaped := time.Date(t.Year(), t.Month(), t.Day(), hour, minute, e.dist.Intn(60), 0, t.Location())
	if shaped.Before(floor) {
		return floor
	}
	return shaped
}

// snapMinute biases minutes toward quarter-hour marks, matching how humans
// schedule work.
func (e *Engine) snapMinute() int {
	if e.dist.Boolean(0.4) {
		return 15 * e.dist.Intn(4)
	}
	return e.dist.Intn(60)
}

// dueBuckets maps a project type to its due date offset distribution in days.
var dueBuckets = map[string]distribution.Weights{
	models.ProjectTypeSprint: {
		{Label: "0-1", Weight: 0.15}, {Label: "2-3", Weight: 0.25}, {Label: "4-7", Weight: 0.30}, {Label: "8-14", Weight: 0.20}, {Label: "15-30", Weight: 0.10},
	},
	models.ProjectTypeCampaign: {
		{Label: "0-1", Weight: 0.05}, {Label: "2-3", Weight: 0.10}, {Label: "4-7", Weight: 0.25}, {Label: "8-14", Weight: 0.35}, {Label: "15-30", Weight: 0.25},
	},
}

var defaultDueBuckets = distribution.Weights{
	{Label: "0-1", Weight: 0.10}, {Label: "2-3", Weight: 0.20}, {Label: "4-7", Weight: 0.30}, {Label: "8-14", Weight: 0.25}, {Label: "15-30", Weight: 0.15},
}

var bucketRanges = map[string][2]int{
	"0-1":   {0, 1},
	"2-3":   {2, 3},
	"4-7":   {4, 7},
	"8-14":  {8, 14},
	"15-30": {15, 30},
}

// DueDate samples a due date after createdAt using the project type's offset
// buckets, then projects weekend landings forward to the nearest business
// day. A small slice of dates skips the projection so the output keeps a
// trace of weekend deadlines.
func (e *Engine) DueDate(createdAt time.Time, projectType string) time.Time {
	buckets, ok := dueBuckets[projectType]
	if !ok {
		buckets = defaultDueBuckets
	}

	r := bucketRanges[e.dist.Sample(buckets)]
	days := e.dist.IntBetween(r[0], r[1])
	if days == 0 {
		days = 1
	}

	due := time.Date(createdAt.Year(), createdAt.Month(), createdAt.Day(), 0, 0, 0, 0, createdAt.Location()).
		AddDate(0, 0, days)

	if !e.IsBusinessDay(due) && e.dist.Boolean(0.90) {
		due = e.NextBusinessDay(due)
	}
	return due
}

// CompletionInstant samples completed_at uniformly between createdAt and
// min(due + grace, now). The result never precedes createdAt and never
// passes now, even when createdAt sits inside the final hour of the window.
func (e *Engine) CompletionInstant(createdAt time.Time, dueDate *time.Time) time.Time {
	cap := e.now
	if dueDate != nil {
		graced := dueDate.Add(completionGrace)
		if graced.Before(cap) {
			cap = graced
		}
	}
	if !cap.After(createdAt) {
		return createdAt
	}
	lo := createdAt.Add(30 * time.Minute)
	if !lo.Before(cap) {
		return cap
	}
	completed := e.Between(lo, cap)
	if completed.Before(lo) {
		completed = lo
	}
	if completed.After(cap) {
		completed = cap
	}
	return completed
}

// Age buckets for the completion probability lookup.
const (
	ageBucketFresh  = "lt_7d"
	ageBucketRecent = "lt_30d"
	ageBucketAging  = "lt_90d"
	ageBucketOld    = "gte_90d"
)

// completionTable maps {project status, task age bucket} to a completion
// probability. Older tasks and tasks in finished projects complete more often.
var completionTable = map[string]map[string]float64{
	models.ProjectStatusActive: {
		ageBucketFresh:  0.30,
		ageBucketRecent: 0.50,
		ageBucketAging:  0.68,
		ageBucketOld:    0.80,
	},
	models.ProjectStatusCompleted: {
		ageBucketFresh:  0.82,
		ageBucketRecent: 0.88,
		ageBucketAging:  0.93,
		ageBucketOld:    0.96,
	},
	models.ProjectStatusArchived: {
		ageBucketFresh:  0.70,
		ageBucketRecent: 0.80,
		ageBucketAging:  0.88,
		ageBucketOld:    0.92,
	},
}

// AgeBucket buckets a creation instant by its age relative to now.
func (e *Engine) AgeBucket(createdAt time.Time) string {
	age := e.now.Sub(createdAt)
	switch {
	case age < 7*24*time.Hour:
		return ageBucketFresh
	case age < 30*24*time.Hour:
		return ageBucketRecent
	case age < 90*24*time.Hour:
		return ageBucketAging
	default:
		return ageBucketOld
	}
}

// CompletionProbability looks up the completion propensity for a task given
// its project status and age, scaled by the configured base rate.
func (e *Engine) CompletionProbability(projectStatus string, createdAt time.Time) float64 {
	table, ok := completionTable[projectStatus]
	if !ok {
		table = completionTable[models.ProjectStatusActive]
	}
	p := table[e.AgeBucket(createdAt)]

	// Work created heading into a weekend tends to linger.
	switch createdAt.Weekday() {
	case time.Friday:
		p *= 0.9
	case time.Saturday, time.Sunday:
		p *= 0.85
	}

	// Scale around the configured base rate without leaving (0, 1).
	scale := e.dist.Rate(distribution.CompletionBaseRate) / 0.68
	p *= scale
	if p > 0.97 {
		p = 0.97
	}
	if p < 0.05 {
		p = 0.05
	}
	return p
}

// isUSHoliday covers the federal holidays the dataset simulates. Fixed-date
// holidays shift to the observed weekday when they land on a weekend.
func isUSHoliday(t time.Time) bool {
	y, m, d := t.Year(), t.Month(), t.Day()

	for _, fixed := range []struct {
		month time.Month
		day   int
	}{
		{time.January, 1},   // New Year's Day
		{time.June, 19},     // Juneteenth
		{time.July, 4},      // Independence Day
		{time.December, 25}, // Christmas Day
	} {
		obs := observedDay(y, fixed.month, fixed.day)
		if m == obs.Month() && d == obs.Day() {
			return true
		}
	}

	switch {
	case m == time.January && isNthWeekday(t, time.Monday, 3): // MLK Day
		return true
	case m == time.February && isNthWeekday(t, time.Monday, 3): // Presidents' Day
		return true
	case m == time.May && t.Weekday() == time.Monday && d > 24: // Memorial Day
		return true
	case m == time.September && isNthWeekday(t, time.Monday, 1): // Labor Day
		return true
	case m == time.November && isNthWeekday(t, time.Thursday, 4): // Thanksgiving
		return true
	}
	return false
}

func observedDay(year int, month time.Month, day int) time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, -1)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	}
	return t
}

func isNthWeekday(t time.Time, weekday time.Weekday, n int) bool {
	return t.Weekday() == weekday && (t.Day()-1)/7 == n-1
}
