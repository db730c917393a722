package generators

import (
	"context"
	"database/sql"
	"fmt"

	"seedforge/internal/distribution"
	"seedforge/internal/models"
	"seedforge/internal/registry"
)

// teamNamePools keys candidate team names by department.
var teamNamePools = map[string][]string{
	"engineering": {"Platform", "Infrastructure", "API", "Frontend", "Mobile", "Data Platform", "Reliability", "Security"},
	"product":     {"Core Product", "Growth", "Activation", "Design Systems", "Research"},
	"marketing":   {"Demand Generation", "Content", "Brand", "Lifecycle", "Events"},
	"sales":       {"Enterprise Sales", "Mid-Market", "SMB", "Sales Engineering", "Customer Success"},
	"operations":  {"Business Operations", "People Ops", "Finance", "IT", "Facilities"},
}

type teamStage struct{}

func (teamStage) Name() string { return "teams" }

func (teamStage) Run(_ context.Context, p *Pipeline, tx *sql.Tx, b *Batch) error {
	for _, orgID := range p.Reg.AllOf(registry.Organizations) {
		count := p.Dist.IntBetween(p.Cfg.TeamsPerOrgMin, p.Cfg.TeamsPerOrgMax)
		used := make(map[string]int)

		for i := 0; i < count; i++ {
			department := p.Dist.Categorical(distribution.DepartmentMix)
			pool := teamNamePools[department]
			base := pool[p.Dist.Intn(len(pool))]
			used[base]++
			name := base
			if used[base] > 1 {
				name = fmt.Sprintf("%s %d", base, used[base])
			}

			createdAt := p.Clock.EarlyWindow(0.10)

			id, err := insertRow(tx, `
				INSERT INTO teams (organization_id, name, department, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?)`,
				orgID, name, department, fmtTime(createdAt), fmtTime(createdAt))
			if err != nil {
				return fmt.Errorf("failed to insert team %q: %w", name, err)
			}

			p.teams[id] = &models.Team{
				ID:             id,
				OrganizationID: orgID,
				Name:           name,
				Department:     department,
				CreatedAt:      createdAt,
				UpdatedAt:      createdAt,
			}
			b.Register(registry.Teams, id, map[string]int64{registry.ByOrganization: orgID})
		}
	}

	return nil
}
