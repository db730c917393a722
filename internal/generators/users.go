package generators

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"seedforge/internal/distribution"
	"seedforge/internal/models"
	"seedforge/internal/registry"
)

var firstNames = []string{
	"Alex", "Jordan", "Taylor", "Morgan", "Casey", "Riley", "Sam", "Jamie",
	"Dana", "Quinn", "Avery", "Cameron", "Elena", "Marcus", "Priya", "Wei",
	"Sofia", "Diego", "Amara", "Noah", "Maya", "Omar", "Ingrid", "Kenji",
	"Fatima", "Lucas", "Nadia", "Theo", "Zara", "Ivan",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Chen", "Garcia", "Patel", "Kim", "Nguyen",
	"Brown", "Davis", "Martinez", "Anderson", "Taylor", "Thomas", "Moore",
	"Jackson", "Lee", "Perez", "White", "Harris", "Clark", "Lewis", "Walker",
	"Hall", "Young", "King", "Wright", "Torres", "Hill", "Okafor",
}

type userStage struct{}

func (userStage) Name() string { return "users" }

// Users are generated per organization, sized by the per-team range so the
// membership stage always has enough people to fill every team.
func (userStage) Run(_ context.Context, p *Pipeline, tx *sql.Tx, b *Batch) error {
	for _, orgID := range p.Reg.AllOf(registry.Organizations) {
		org := p.orgs[orgID]
		teamCount := len(p.Reg.ChildrenOf(registry.Teams, registry.ByOrganization, orgID))
		if teamCount == 0 {
			return fmt.Errorf("organization %d has no teams to size users against", orgID)
		}

		total := 0
		for i := 0; i < teamCount; i++ {
			total += p.Dist.IntBetween(p.Cfg.UsersPerTeamMin, p.Cfg.UsersPerTeamMax)
		}

		emailsSeen := make(map[string]int)
		for i := 0; i < total; i++ {
			first := firstNames[p.Dist.Intn(len(firstNames))]
			last := lastNames[p.Dist.Intn(len(lastNames))]
			name := first + " " + last

			local := strings.ToLower(first + "." + last)
			emailsSeen[local]++
			if n := emailsSeen[local]; n > 1 {
				local = fmt.Sprintf("%s%d", local, n)
			}
			email := local + "@" + org.Domain

			role := p.Dist.Categorical(distribution.RoleMix)
			createdAt := p.Clock.EarlyWindow(0.15)

			id, err := insertRow(tx, `
				INSERT INTO users (organization_id, name, email, role, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				orgID, name, email, role, fmtTime(createdAt), fmtTime(createdAt))
			if err != nil {
				return fmt.Errorf("failed to insert user %q: %w", email, err)
			}

			p.users[id] = &models.User{
				ID:             id,
				OrganizationID: orgID,
				Name:           name,
				Email:          email,
				Role:           role,
				CreatedAt:      createdAt,
				UpdatedAt:      createdAt,
			}
			b.Register(registry.Users, id, map[string]int64{registry.ByOrganization: orgID})
		}
	}

	return nil
}
