package registry

import "testing"

func TestRegisterAndLookup(t *testing.T) {
	r := New()

	r.Register(Organizations, 1, nil)
	r.Register(Teams, 10, map[string]int64{ByOrganization: 1})
	r.Register(Teams, 11, map[string]int64{ByOrganization: 1})
	r.Register(Users, 100, map[string]int64{ByOrganization: 1})

	if got := r.Count(Teams); got != 2 {
		t.Errorf("Count(Teams) = %d, want 2", got)
	}

	teams := r.ChildrenOf(Teams, ByOrganization, 1)
	if len(teams) != 2 || teams[0] != 10 || teams[1] != 11 {
		t.Errorf("ChildrenOf returned %v, want [10 11]", teams)
	}

	orgID, ok := r.ParentOf(Teams, 10, ByOrganization)
	if !ok || orgID != 1 {
		t.Errorf("ParentOf(Teams, 10) = %d, %v; want 1, true", orgID, ok)
	}
}

func TestAllOfPreservesInsertionOrder(t *testing.T) {
	r := New()
	for _, id := range []int64{5, 3, 9, 1} {
		r.Register(Tasks, id, nil)
	}

	got := r.AllOf(Tasks)
	want := []int64{5, 3, 9, 1}
	if len(got) != len(want) {
		t.Fatalf("AllOf returned %d ids, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllOf[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSampleChild(t *testing.T) {
	r := New()
	r.Register(Sections, 20, map[string]int64{ByProject: 7})
	r.Register(Sections, 21, map[string]int64{ByProject: 7})

	id, ok := r.SampleChild(Sections, ByProject, 7, func(n int) int { return n - 1 })
	if !ok || id != 21 {
		t.Errorf("SampleChild = %d, %v; want 21, true", id, ok)
	}

	if _, ok := r.SampleChild(Sections, ByProject, 999, func(n int) int { return 0 }); ok {
		t.Error("expected SampleChild to miss for an unknown parent")
	}
}

func TestMustParentReportsMissing(t *testing.T) {
	r := New()
	r.Register(Tasks, 1, nil)

	if _, err := r.MustParent(Tasks, 1, ByProject); err == nil {
		t.Error("expected MustParent to fail for an unregistered parent reference")
	}
	if _, err := r.MustParent(Tasks, 2, ByProject); err == nil {
		t.Error("expected MustParent to fail for an unknown id")
	}
}
