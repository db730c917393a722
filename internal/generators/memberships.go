package generators

import (
	"context"
	"database/sql"
	"fmt"

	"seedforge/internal/distribution"
	"seedforge/internal/models"
	"seedforge/internal/registry"
)

type membershipStage struct{}

func (membershipStage) Name() string { return "team_memberships" }

// Memberships link each team to a distinct set of users from the same
// organization. The first member of every team is its owner so no team ends
// up ownerless; the rest draw from the membership role mix.
func (membershipStage) Run(_ context.Context, p *Pipeline, tx *sql.Tx, b *Batch) error {
	for _, teamID := range p.Reg.AllOf(registry.Teams) {
		team := p.teams[teamID]
		orgUsers := p.Reg.ChildrenOf(registry.Users, registry.ByOrganization, team.OrganizationID)
		if len(orgUsers) == 0 {
			return fmt.Errorf("organization %d has no users for team %d", team.OrganizationID, teamID)
		}

		size := p.Dist.IntBetween(p.Cfg.UsersPerTeamMin, p.Cfg.UsersPerTeamMax)
		if size > len(orgUsers) {
			size = len(orgUsers)
		}

		perm := p.Dist.Perm(len(orgUsers))
		for i := 0; i < size; i++ {
			userID := orgUsers[perm[i]]
			user := p.users[userID]

			role := models.MembershipRoleOwner
			if i > 0 {
				role = p.Dist.Categorical(distribution.MembershipRoleMix)
			}

			// Joining happens shortly after both sides exist.
			createdAt := p.shortlyAfter(later(team.CreatedAt, user.CreatedAt), 14)

			id, err := insertRow(tx, `
				INSERT INTO team_memberships (team_id, user_id, role, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?)`,
				teamID, userID, role, fmtTime(createdAt), fmtTime(createdAt))
			if err != nil {
				return fmt.Errorf("failed to insert membership team=%d user=%d: %w", teamID, userID, err)
			}

			b.Register(registry.Memberships, id, map[string]int64{
				registry.ByTeam:         teamID,
				registry.ByUser:         userID,
				registry.ByOrganization: team.OrganizationID,
			})
		}
	}

	return nil
}
