package generators

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"seedforge/internal/content"
	"seedforge/internal/distribution"
	"seedforge/internal/models"
	"seedforge/internal/registry"
)

type taskStage struct{}

func (taskStage) Name() string { return "tasks" }

func (taskStage) Run(ctx context.Context, p *Pipeline, tx *sql.Tx, b *Batch) error {
	for _, projectID := range p.Reg.AllOf(registry.Projects) {
		project := p.projects[projectID]

		count := int(math.Round(p.Dist.Bounded(
			float64(p.Cfg.TasksPerProjectMin),
			float64(p.Cfg.TasksPerProjectMax),
			distribution.RightSkewed)))
		if count < p.Cfg.TasksPerProjectMin {
			count = p.Cfg.TasksPerProjectMin
		}

		// Resolve sections and everything the name prompt depends on first,
		// so task names can be prefetched in one concurrent batch while the
		// rest of the row derivation stays strictly sequential.
		sectionIDs := make([]int64, count)
		nameCtxs := make([]content.TextContext, count)
		for i := 0; i < count; i++ {
			sectionID, err := p.Sampler.PickSection(projectID)
			if err != nil {
				return err
			}
			sectionIDs[i] = sectionID
			nameCtxs[i] = content.TextContext{
				Department:  project.Department,
				ProjectType: project.ProjectType,
				SectionName: p.sections[sectionID].Name,
			}
		}
		names := content.Prefetch(ctx, p.Content, content.TaskName, nameCtxs, p.contentWorkers())

		positions := make(map[int64]int)
		for i := 0; i < count; i++ {
			sectionID := sectionIDs[i]
			section := p.sections[sectionID]

			createdAt := p.Clock.ChildTimestamp(project.CreatedAt)

			var due *time.Time
			if p.Dist.Boolean(p.Dist.Rate(distribution.DueDateRate)) {
				d := p.Clock.DueDate(createdAt, project.ProjectType)
				due = &d
			}

			priority := adjustPriority(p, p.Dist.Categorical(distribution.PriorityMix), section.Name)

			prob := p.Clock.CompletionProbability(project.Status, createdAt)
			if isTerminalSection(section.Name) {
				prob = math.Min(prob+0.25, 0.97)
			}
			completed := p.Dist.Boolean(prob)

			task := &models.Task{
				ProjectID: projectID,
				SectionID: sectionID,
				Name:      names[i],
				Priority:  priority,
				Completed: completed,
				CreatedAt: createdAt,
				UpdatedAt: createdAt,
			}
			task.DueDate = due
			if completed {
				completedAt := p.Clock.CompletionInstant(createdAt, task.DueDate)
				task.CompletedAt = &completedAt
				task.UpdatedAt = completedAt
			}

			if assigneeID, ok := p.Sampler.PickAssignee(project.OrganizationID); ok {
				task.AssigneeID = &assigneeID
			}

			if p.Dist.Boolean(p.Dist.Rate(distribution.SparsityDescription)) {
				description, err := p.Content.Generate(ctx, content.TaskDescription, content.TextContext{
					Department:  project.Department,
					ProjectType: project.ProjectType,
					SectionName: section.Name,
					TaskName:    task.Name,
				})
				if err == nil {
					task.Description = description
				}
			}

			positions[sectionID]++
			task.Position = positions[sectionID]

			id, err := insertRow(tx, `
				INSERT INTO tasks (project_id, section_id, assignee_id, name, description,
					due_date, completed, completed_at, priority, position, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				projectID, sectionID, nullableID(task.AssigneeID), task.Name,
				nullableText(task.Description), fmtDatePtr(task.DueDate),
				boolToInt(task.Completed), fmtTimePtr(task.CompletedAt),
				task.Priority, task.Position, fmtTime(task.CreatedAt), fmtTime(task.UpdatedAt))
			if err != nil {
				return fmt.Errorf("failed to insert task %q: %w", task.Name, err)
			}

			task.ID = id
			p.tasks[id] = task

			parents := map[string]int64{
				registry.ByProject:      projectID,
				registry.BySection:      sectionID,
				registry.ByOrganization: project.OrganizationID,
			}
			b.Register(registry.Tasks, id, parents)
		}
	}

	return nil
}

// adjustPriority nudges the sampled priority by board column: terminal
// columns drain urgency, active columns concentrate it.
func adjustPriority(p *Pipeline, base, sectionName string) string {
	switch sectionName {
	case "Done", "Resolved", "Verified", "Launch", "Readout":
		if base == models.TaskPriorityHigh && p.Dist.Boolean(0.4) {
			return models.TaskPriorityMedium
		}
		if p.Dist.Boolean(0.2) {
			return models.TaskPriorityNone
		}
	case "In Progress", "Development", "Content Creation":
		if base == models.TaskPriorityNone && p.Dist.Boolean(0.5) {
			return models.TaskPriorityMedium
		}
		if base == models.TaskPriorityLow && p.Dist.Boolean(0.3) {
			return models.TaskPriorityHigh
		}
	}
	return base
}

func isTerminalSection(name string) bool {
	switch name {
	case "Done", "Resolved", "Verified", "Launch", "Readout", "Analysis":
		return true
	}
	return false
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}
