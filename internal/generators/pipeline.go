// Package generators contains one entity generator per table plus the
// orchestrator that runs them in foreign-key dependency order. Each
// generator composes the registry, distribution, temporal, content and
// sampler services to produce fully-formed rows, inserts them to obtain
// durable identifiers, and registers those identifiers for later stages.
package generators

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"seedforge/internal/config"
	"seedforge/internal/content"
	"seedforge/internal/database"
	"seedforge/internal/distribution"
	"seedforge/internal/models"
	"seedforge/internal/registry"
	"seedforge/internal/sampler"
	"seedforge/internal/temporal"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

// Pipeline carries the services and row metadata shared across stages. The
// registry is the durable-identifier arena; the metadata maps cache row
// attributes later stages sample against (status, timestamps, departments)
// so nothing ever re-queries storage mid-run.
type Pipeline struct {
	DB      *database.DB
	Reg     *registry.Registry
	Dist    *distribution.Controller
	Clock   *temporal.Engine
	Content content.Provider
	Sampler *sampler.Sampler
	Cfg     *config.Config
	Log     *slog.Logger

	orgs     map[int64]*models.Organization
	teams    map[int64]*models.Team
	users    map[int64]*models.User
	projects map[int64]*models.Project
	sections map[int64]*models.Section
	tasks    map[int64]*models.Task
}

// NewPipeline wires the shared services into a pipeline ready to run.
func NewPipeline(db *database.DB, dist *distribution.Controller, clock *temporal.Engine,
	provider content.Provider, cfg *config.Config, logger *slog.Logger) *Pipeline {

	reg := registry.New()
	return &Pipeline{
		DB:      db,
		Reg:     reg,
		Dist:    dist,
		Clock:   clock,
		Content: provider,
		Sampler: sampler.New(reg, dist),
		Cfg:     cfg,
		Log:     logger,

		orgs:     make(map[int64]*models.Organization),
		teams:    make(map[int64]*models.Team),
		users:    make(map[int64]*models.User),
		projects: make(map[int64]*models.Project),
		sections: make(map[int64]*models.Section),
		tasks:    make(map[int64]*models.Task),
	}
}

// Stage is one step of the generation pipeline. Stages run strictly in the
// declared order; each receives the open transaction for its writes and a
// batch collecting identifier registrations to apply after commit.
type Stage interface {
	Name() string
	Run(ctx context.Context, p *Pipeline, tx *sql.Tx, b *Batch) error
}

// Batch buffers identifier registrations for a stage. Identifiers become
// visible to the registry only after the stage's transaction commits, which
// is what keeps partially-inserted state invisible to later stages.
type Batch struct {
	regs []pendingReg
}

type pendingReg struct {
	entity  registry.EntityType
	id      int64
	parents map[string]int64
}

// Register queues an identifier registration for post-commit application.
func (b *Batch) Register(entity registry.EntityType, id int64, parents map[string]int64) {
	b.regs = append(b.regs, pendingReg{entity: entity, id: id, parents: parents})
}

// Rows returns the number of rows the stage inserted.
func (b *Batch) Rows() int { return len(b.regs) }

func (b *Batch) apply(reg *registry.Registry) {
	for _, r := range b.regs {
		reg.Register(r.entity, r.id, r.parents)
	}
}

// insertRow executes an insert and returns the new row id.
func insertRow(tx *sql.Tx, query string, args ...any) (int64, error) {
	res, err := tx.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func fmtTime(t time.Time) string { return t.Format(timeLayout) }
func fmtDate(t time.Time) string { return t.Format(dateLayout) }

// contentWorkers bounds prefetch concurrency. Template-only runs stay on a
// single worker so the provider's draw order, and with it the seed
// guarantee, does not depend on goroutine scheduling.
func (p *Pipeline) contentWorkers() int {
	if p.Cfg.LLMEnabled {
		return p.Cfg.ParallelWorkers
	}
	return 1
}

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func fmtDatePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtDate(*t)
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// shortlyAfter samples a work-shaped instant within the given number of days
// after base, capped at the simulated now.
func (p *Pipeline) shortlyAfter(base time.Time, days int) time.Time {
	end := base.AddDate(0, 0, days)
	if end.After(p.Clock.Now()) {
		end = p.Clock.Now()
	}
	if !end.After(base) {
		return base
	}
	return p.Clock.WorkTime(p.Clock.Between(base, end), base)
}
