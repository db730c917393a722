package sampler

import (
	"testing"

	"seedforge/internal/distribution"
	"seedforge/internal/registry"
)

func seededRegistry() *registry.Registry {
	r := registry.New()
	r.Register(registry.Organizations, 1, nil)
	for _, userID := range []int64{10, 11, 12, 13} {
		r.Register(registry.Users, userID, map[string]int64{registry.ByOrganization: 1})
	}
	// Only two users hold team memberships.
	r.Register(registry.Memberships, 100, map[string]int64{
		registry.ByTeam: 5, registry.ByUser: 10, registry.ByOrganization: 1,
	})
	r.Register(registry.Memberships, 101, map[string]int64{
		registry.ByTeam: 5, registry.ByUser: 11, registry.ByOrganization: 1,
	})
	r.Register(registry.Sections, 200, map[string]int64{registry.ByProject: 50})
	r.Register(registry.Sections, 201, map[string]int64{registry.ByProject: 50})
	for _, tagID := range []int64{300, 301, 302} {
		r.Register(registry.Tags, tagID, map[string]int64{registry.ByOrganization: 1})
	}
	return r
}

func newSampler(t *testing.T) *Sampler {
	t.Helper()
	dist, err := distribution.New(42, nil)
	if err != nil {
		t.Fatalf("distribution.New failed: %v", err)
	}
	return New(seededRegistry(), dist)
}

func TestPickAssigneePrefersMembersAndLeavesSomeUnassigned(t *testing.T) {
	s := newSampler(t)

	assigned, unassigned := 0, 0
	for i := 0; i < 2000; i++ {
		userID, ok := s.PickAssignee(1)
		if !ok {
			unassigned++
			continue
		}
		assigned++
		if userID != 10 && userID != 11 {
			t.Fatalf("assignee %d is not a team member of the organization", userID)
		}
	}

	if unassigned == 0 {
		t.Error("expected some tasks to stay unassigned")
	}
	rate := float64(unassigned) / float64(assigned+unassigned)
	if rate < 0.05 || rate > 0.30 {
		t.Errorf("unassigned rate %.2f outside the expected band around 0.15", rate)
	}
}

func TestPickAssigneeFallsBackToOrgUsers(t *testing.T) {
	r := registry.New()
	r.Register(registry.Organizations, 1, nil)
	r.Register(registry.Users, 10, map[string]int64{registry.ByOrganization: 1})
	dist, _ := distribution.New(1, nil)
	s := New(r, dist)

	seen := false
	for i := 0; i < 100; i++ {
		if userID, ok := s.PickAssignee(1); ok {
			seen = true
			if userID != 10 {
				t.Fatalf("assignee %d outside the organization", userID)
			}
		}
	}
	if !seen {
		t.Error("expected the membership-less organization to still yield assignees")
	}
}

func TestPickCommentAuthorStaysInOrganization(t *testing.T) {
	s := newSampler(t)

	valid := map[int64]bool{10: true, 11: true, 12: true, 13: true}
	var priors []int64
	for i := 0; i < 500; i++ {
		authorID, err := s.PickCommentAuthor(1, 5, 12, priors)
		if err != nil {
			t.Fatalf("PickCommentAuthor failed: %v", err)
		}
		if !valid[authorID] {
			t.Fatalf("author %d outside the organization", authorID)
		}
		priors = append(priors, authorID)
	}
}

func TestPickCommentAuthorFailsWithoutUsers(t *testing.T) {
	dist, _ := distribution.New(1, nil)
	s := New(registry.New(), dist)

	if _, err := s.PickCommentAuthor(99, 0, 0, nil); err == nil {
		t.Error("expected an error for an organization with no users")
	}
}

func TestPickCommentAuthorPrefersProjectTeam(t *testing.T) {
	r := registry.New()
	r.Register(registry.Organizations, 1, nil)
	for _, userID := range []int64{10, 11, 12} {
		r.Register(registry.Users, userID, map[string]int64{registry.ByOrganization: 1})
	}
	r.Register(registry.Memberships, 100, map[string]int64{
		registry.ByTeam: 5, registry.ByUser: 10, registry.ByOrganization: 1,
	})
	r.Register(registry.Memberships, 101, map[string]int64{
		registry.ByTeam: 6, registry.ByUser: 11, registry.ByOrganization: 1,
	})
	dist, _ := distribution.New(7, nil)
	s := New(r, dist)

	// No assignee and no prior commenters, so every draw lands on the
	// project team's only member.
	for i := 0; i < 200; i++ {
		authorID, err := s.PickCommentAuthor(1, 6, 0, nil)
		if err != nil {
			t.Fatalf("PickCommentAuthor failed: %v", err)
		}
		if authorID != 11 {
			t.Fatalf("author %d is not on the project's team", authorID)
		}
	}

	// An unknown team falls back to organization membership.
	for i := 0; i < 200; i++ {
		authorID, err := s.PickCommentAuthor(1, 999, 0, nil)
		if err != nil {
			t.Fatalf("PickCommentAuthor failed: %v", err)
		}
		if authorID != 10 && authorID != 11 {
			t.Fatalf("author %d outside the organization's memberships", authorID)
		}
	}
}

func TestPickSection(t *testing.T) {
	s := newSampler(t)

	for i := 0; i < 100; i++ {
		id, err := s.PickSection(50)
		if err != nil {
			t.Fatalf("PickSection failed: %v", err)
		}
		if id != 200 && id != 201 {
			t.Fatalf("section %d does not belong to project 50", id)
		}
	}

	if _, err := s.PickSection(999); err == nil {
		t.Error("expected an error for a project with no sections")
	}
}

func TestPickTagsDistinct(t *testing.T) {
	s := newSampler(t)

	for i := 0; i < 100; i++ {
		tags := s.PickTags(1, 2)
		if len(tags) != 2 {
			t.Fatalf("PickTags returned %d tags, want 2", len(tags))
		}
		if tags[0] == tags[1] {
			t.Fatal("PickTags returned a duplicate")
		}
	}

	if got := s.PickTags(1, 10); len(got) != 3 {
		t.Errorf("PickTags capped = %d tags, want all 3", len(got))
	}

	if got := s.PickTags(999, 2); got != nil {
		t.Errorf("expected no tags for an unknown organization, got %v", got)
	}
}
