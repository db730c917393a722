package generators

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"seedforge/internal/logging"
)

// StageResult summarizes one completed pipeline stage.
type StageResult struct {
	Stage    string        `json:"stage"`
	Rows     int           `json:"rows"`
	Duration time.Duration `json:"duration"`
}

// GenerationReport is the outcome of a full pipeline run.
type GenerationReport struct {
	RunID      string        `json:"run_id"`
	Seed       int64         `json:"seed"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Stages     []StageResult `json:"stages"`
	TotalRows  int           `json:"total_rows"`
}

// stages returns the generator list in the single valid topological order
// imposed by the foreign-key graph. Changing this order is a correctness
// bug, not a preference.
func stages() []Stage {
	return []Stage{
		organizationStage{},
		teamStage{},
		userStage{},
		membershipStage{},
		projectStage{},
		sectionStage{},
		taskStage{},
		subtaskStage{},
		commentStage{},
		tagStage{},
		taskTagStage{},
		customFieldStage{},
	}
}

// Run executes every stage in dependency order. Each stage is wrapped in one
// transaction: a structural failure aborts the run (already-committed stages
// remain, per the no-rollback policy), and identifiers registered by a stage
// become visible only after its commit.
func Run(ctx context.Context, p *Pipeline) (*GenerationReport, error) {
	report := &GenerationReport{
		RunID:     uuid.New().String(),
		Seed:      p.Cfg.Seed,
		StartedAt: time.Now(),
	}

	runLog := logging.WithRun(report.RunID, p.Cfg.Seed)
	p.Log = runLog

	for _, stage := range stages() {
		stageLog := logging.WithStage(runLog, stage.Name())
		start := time.Now()

		tx, err := p.DB.Begin()
		if err != nil {
			return report, fmt.Errorf("stage %s: failed to begin transaction: %w", stage.Name(), err)
		}

		batch := &Batch{}
		if err := stage.Run(ctx, p, tx, batch); err != nil {
			tx.Rollback()
			return report, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}

		if err := tx.Commit(); err != nil {
			return report, fmt.Errorf("stage %s: failed to commit: %w", stage.Name(), err)
		}

		// Rows are durable now; publish their identifiers.
		batch.apply(p.Reg)

		result := StageResult{
			Stage:    stage.Name(),
			Rows:     batch.Rows(),
			Duration: time.Since(start),
		}
		report.Stages = append(report.Stages, result)
		report.TotalRows += result.Rows

		stageLog.Info("stage completed", "rows", result.Rows, "duration", result.Duration.String())
	}

	report.FinishedAt = time.Now()
	return report, nil
}
