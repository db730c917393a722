package generators

import (
	"context"
	"database/sql"
	"fmt"

	"seedforge/internal/content"
	"seedforge/internal/distribution"
	"seedforge/internal/registry"
)

type subtaskStage struct{}

func (subtaskStage) Name() string { return "subtasks" }

func (subtaskStage) Run(ctx context.Context, p *Pipeline, tx *sql.Tx, b *Batch) error {
	for _, taskID := range p.Reg.AllOf(registry.Tasks) {
		if !p.Dist.Boolean(p.Dist.Rate(distribution.SubtaskRate)) {
			continue
		}

		task := p.tasks[taskID]
		project := p.projects[task.ProjectID]
		count := p.Dist.IntBetween(1, 4)

		for i := 0; i < count; i++ {
			name, err := p.Content.Generate(ctx, content.SubtaskName, content.TextContext{
				Department:  project.Department,
				ProjectType: project.ProjectType,
				TaskName:    task.Name,
			})
			if err != nil || name == "" {
				name = fmt.Sprintf("Step %d", i+1)
			}

			createdAt := p.Clock.ChildTimestamp(task.CreatedAt)
			updatedAt := createdAt

			// Subtasks of a completed task mostly close out too, and never
			// after the parent's completion instant.
			completeRate := 0.3
			if task.Completed {
				completeRate = 0.8
			}
			completed := p.Dist.Boolean(completeRate)

			var completedAt any
			if completed {
				done := p.Clock.CompletionInstant(createdAt, nil)
				if task.CompletedAt != nil && done.After(*task.CompletedAt) {
					done = *task.CompletedAt
				}
				if done.Before(createdAt) {
					done = createdAt
				}
				completedAt = fmtTime(done)
				updatedAt = done
			}

			id, err := insertRow(tx, `
				INSERT INTO subtasks (task_id, name, completed, completed_at, position, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				taskID, name, boolToInt(completed), completedAt, i+1,
				fmtTime(createdAt), fmtTime(updatedAt))
			if err != nil {
				return fmt.Errorf("failed to insert subtask %q: %w", name, err)
			}

			b.Register(registry.Subtasks, id, map[string]int64{registry.ByTask: taskID})
		}
	}

	return nil
}
