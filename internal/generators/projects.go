package generators

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"seedforge/internal/content"
	"seedforge/internal/distribution"
	"seedforge/internal/models"
	"seedforge/internal/registry"
)

// projectTypeMixByDept biases project types toward what each department
// actually runs; departments without an entry use the global mix.
var projectTypeMixByDept = map[string]distribution.Weights{
	"engineering": {
		{Label: models.ProjectTypeSprint, Weight: 0.35}, {Label: models.ProjectTypeBugTracking, Weight: 0.30},
		{Label: models.ProjectTypeFeatureDevelopment, Weight: 0.30}, {Label: models.ProjectTypeResearch, Weight: 0.05},
	},
	"marketing": {
		{Label: models.ProjectTypeCampaign, Weight: 0.70}, {Label: models.ProjectTypeFeatureDevelopment, Weight: 0.15},
		{Label: models.ProjectTypeResearch, Weight: 0.15},
	},
	"product": {
		{Label: models.ProjectTypeSprint, Weight: 0.40}, {Label: models.ProjectTypeFeatureDevelopment, Weight: 0.30},
		{Label: models.ProjectTypeResearch, Weight: 0.30},
	},
}

// projectDurations gives min/max calendar days per project type.
var projectDurations = map[string][2]int{
	models.ProjectTypeSprint:             {14, 28},
	models.ProjectTypeBugTracking:        {60, 180},
	models.ProjectTypeFeatureDevelopment: {30, 90},
	models.ProjectTypeCampaign:           {30, 60},
	models.ProjectTypeResearch:           {45, 120},
}

type projectStage struct{}

func (projectStage) Name() string { return "projects" }

func (projectStage) Run(ctx context.Context, p *Pipeline, tx *sql.Tx, b *Batch) error {
	for _, teamID := range p.Reg.AllOf(registry.Teams) {
		team := p.teams[teamID]
		count := p.Dist.IntBetween(p.Cfg.ProjectsPerTeamMin, p.Cfg.ProjectsPerTeamMax)

		for i := 0; i < count; i++ {
			projectType := p.pickProjectType(team.Department)
			status := p.Dist.Categorical(distribution.ProjectStatusMix)
			start, end := p.projectTimeline(projectType, status, team.CreatedAt)

			createdAt := p.Clock.WorkTime(start, later(start, team.CreatedAt))

			name, err := p.Content.Generate(ctx, content.ProjectName, content.TextContext{
				Department:  team.Department,
				ProjectType: projectType,
				TeamName:    team.Name,
			})
			if err != nil || name == "" {
				name = fmt.Sprintf("%s Project %d", team.Name, i+1)
			}

			description, _ := p.Content.Generate(ctx, content.ProjectDescription, content.TextContext{
				Department:  team.Department,
				ProjectType: projectType,
				ProjectName: name,
			})

			id, err := insertRow(tx, `
				INSERT INTO projects (organization_id, team_id, name, description, status,
					department, project_type, start_date, end_date, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				team.OrganizationID, teamID, name, description, status, team.Department,
				projectType, fmtDate(start), fmtDatePtr(end), fmtTime(createdAt), fmtTime(createdAt))
			if err != nil {
				return fmt.Errorf("failed to insert project %q: %w", name, err)
			}

			p.projects[id] = &models.Project{
				ID:             id,
				OrganizationID: team.OrganizationID,
				TeamID:         teamID,
				Name:           name,
				Status:         status,
				Department:     team.Department,
				ProjectType:    projectType,
				StartDate:      &start,
				EndDate:        end,
				CreatedAt:      createdAt,
				UpdatedAt:      createdAt,
			}
			b.Register(registry.Projects, id, map[string]int64{
				registry.ByOrganization: team.OrganizationID,
				registry.ByTeam:         teamID,
			})
		}
	}

	return nil
}

func (p *Pipeline) pickProjectType(department string) string {
	if mix, ok := projectTypeMixByDept[department]; ok {
		return p.Dist.Sample(mix)
	}
	return p.Dist.Categorical(distribution.ProjectTypeMix)
}

// projectTimeline produces start/end dates consistent with the project's
// status: finished projects end before now, active projects are still open.
// end_date is always >= start_date.
func (p *Pipeline) projectTimeline(projectType, status string, floor time.Time) (time.Time, *time.Time) {
	window := p.Clock.Window()
	now := p.Clock.Now()
	dur := projectDurations[projectType]
	days := p.Dist.IntBetween(dur[0], dur[1])

	dayOf := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}

	switch status {
	case models.ProjectStatusCompleted, models.ProjectStatusArchived:
		earliestEnd := window.Start.AddDate(0, 0, days)
		if earliestEnd.After(now) {
			earliestEnd = now
		}
		end := dayOf(p.Clock.Between(earliestEnd, now))
		start := end.AddDate(0, 0, -days)
		if start.Before(window.Start) {
			start = dayOf(window.Start)
		}
		if start.Before(dayOf(floor)) {
			start = dayOf(floor)
		}
		if end.Before(start) {
			end = start
		}
		return start, &end
	default:
		start := dayOf(p.Clock.Between(later(window.Start, floor), now))
		// Roughly a third of active projects have no committed end date.
		if p.Dist.Boolean(0.35) {
			return start, nil
		}
		end := start.AddDate(0, 0, days)
		return start, &end
	}
}
