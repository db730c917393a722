package generators

import (
	"context"
	"database/sql"
	"fmt"

	"seedforge/internal/models"
	"seedforge/internal/registry"
)

// sectionPatterns gives board columns per project type, in order.
var sectionPatterns = map[string][]string{
	models.ProjectTypeSprint:             {"Backlog", "Ready", "In Progress", "In Review", "Done"},
	models.ProjectTypeBugTracking:        {"New", "Triaged", "In Progress", "Resolved", "Verified"},
	models.ProjectTypeFeatureDevelopment: {"Planning", "Design", "Development", "Testing", "Launch"},
	models.ProjectTypeCampaign:           {"Planning", "Content Creation", "Review & Approval", "Launch", "Analysis"},
	models.ProjectTypeResearch:           {"Discovery", "Analysis", "Synthesis", "Review", "Readout"},
}

var defaultSections = []string{"To Do", "In Progress", "Done"}

type sectionStage struct{}

func (sectionStage) Name() string { return "sections" }

func (sectionStage) Run(_ context.Context, p *Pipeline, tx *sql.Tx, b *Batch) error {
	for _, projectID := range p.Reg.AllOf(registry.Projects) {
		project := p.projects[projectID]

		names, ok := sectionPatterns[project.ProjectType]
		if !ok {
			names = defaultSections
		}

		for i, name := range names {
			createdAt := p.shortlyAfter(project.CreatedAt, 1)

			id, err := insertRow(tx, `
				INSERT INTO sections (project_id, name, position, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?)`,
				projectID, name, i+1, fmtTime(createdAt), fmtTime(createdAt))
			if err != nil {
				return fmt.Errorf("failed to insert section %q for project %d: %w", name, projectID, err)
			}

			p.sections[id] = &models.Section{
				ID:        id,
				ProjectID: projectID,
				Name:      name,
				Position:  i + 1,
				CreatedAt: createdAt,
				UpdatedAt: createdAt,
			}
			b.Register(registry.Sections, id, map[string]int64{registry.ByProject: projectID})
		}
	}

	return nil
}
