// Package sampler resolves valid parent, assignee and author references
// during generation. Scoping rules live here: an assignee must belong to the
// task's organization, and comment authors prefer people who already touched
// the task's project.
package sampler

import (
	"fmt"

	"seedforge/internal/distribution"
	"seedforge/internal/registry"
)

// Sampler draws relational references from the identifier registry using the
// shared seeded distribution controller.
type Sampler struct {
	reg  *registry.Registry
	dist *distribution.Controller
}

// New creates a sampler over the given registry.
func New(reg *registry.Registry, dist *distribution.Controller) *Sampler {
	return &Sampler{reg: reg, dist: dist}
}

// PickAssignee returns a user from the project's organization, or ok=false
// at the configured unassigned rate. Users holding a team membership in the
// organization are preferred; any organization member is the fallback.
func (s *Sampler) PickAssignee(orgID int64) (int64, bool) {
	if s.dist.Boolean(s.dist.Rate(distribution.UnassignedRate)) {
		return 0, false
	}

	memberships := s.reg.ChildrenOf(registry.Memberships, registry.ByOrganization, orgID)
	if len(memberships) > 0 {
		mid := memberships[s.dist.Intn(len(memberships))]
		if userID, ok := s.reg.ParentOf(registry.Memberships, mid, registry.ByUser); ok {
			return userID, true
		}
	}

	users := s.reg.ChildrenOf(registry.Users, registry.ByOrganization, orgID)
	if len(users) == 0 {
		return 0, false
	}
	return users[s.dist.Intn(len(users))], true
}

// PickCommentAuthor chooses who comments on a task. Preference order: the
// task's assignee, a prior commenter on the same task, a member of the
// project's team, then any member of the organization. Random cross-org
// authorship is impossible by construction.
func (s *Sampler) PickCommentAuthor(orgID, teamID, assigneeID int64, priorAuthors []int64) (int64, error) {
	if assigneeID != 0 && s.dist.Boolean(0.40) {
		return assigneeID, nil
	}
	if len(priorAuthors) > 0 && s.dist.Boolean(0.35) {
		return priorAuthors[s.dist.Intn(len(priorAuthors))], nil
	}

	if teamID != 0 {
		teamMemberships := s.reg.ChildrenOf(registry.Memberships, registry.ByTeam, teamID)
		if len(teamMemberships) > 0 {
			mid := teamMemberships[s.dist.Intn(len(teamMemberships))]
			if userID, ok := s.reg.ParentOf(registry.Memberships, mid, registry.ByUser); ok {
				return userID, nil
			}
		}
	}

	memberships := s.reg.ChildrenOf(registry.Memberships, registry.ByOrganization, orgID)
	if len(memberships) > 0 {
		mid := memberships[s.dist.Intn(len(memberships))]
		if userID, ok := s.reg.ParentOf(registry.Memberships, mid, registry.ByUser); ok {
			return userID, nil
		}
	}

	users := s.reg.ChildrenOf(registry.Users, registry.ByOrganization, orgID)
	if len(users) == 0 {
		return 0, fmt.Errorf("organization %d has no users to author comments", orgID)
	}
	return users[s.dist.Intn(len(users))], nil
}

// PickSection returns a section of the project for a new task.
func (s *Sampler) PickSection(projectID int64) (int64, error) {
	id, ok := s.reg.SampleChild(registry.Sections, registry.ByProject, projectID, s.dist.Intn)
	if !ok {
		return 0, fmt.Errorf("project %d has no sections", projectID)
	}
	return id, nil
}

// PickTags returns up to n distinct tags from the organization.
func (s *Sampler) PickTags(orgID int64, n int) []int64 {
	tags := s.reg.ChildrenOf(registry.Tags, registry.ByOrganization, orgID)
	if len(tags) == 0 || n <= 0 {
		return nil
	}
	if n > len(tags) {
		n = len(tags)
	}
	perm := s.dist.Perm(len(tags))
	picked := make([]int64, 0, n)
	for _, idx := range perm[:n] {
		picked = append(picked, tags[idx])
	}
	return picked
}
