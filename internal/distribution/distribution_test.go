package distribution

import "testing"

func TestSameSeedReproducesSamples(t *testing.T) {
	a, err := New(42, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b, err := New(42, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for i := 0; i < 500; i++ {
		if got, want := a.Categorical(RoleMix), b.Categorical(RoleMix); got != want {
			t.Fatalf("draw %d diverged: %q vs %q", i, got, want)
		}
		if got, want := a.IntBetween(1, 40), b.IntBetween(1, 40); got != want {
			t.Fatalf("draw %d diverged: %d vs %d", i, got, want)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a, _ := New(1, nil)
	b, _ := New(2, nil)

	same := true
	for i := 0; i < 50; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different seeds to produce different samples")
	}
}

func TestCategoricalCoversAllLabels(t *testing.T) {
	c, _ := New(7, nil)

	seen := make(map[string]int)
	for i := 0; i < 5000; i++ {
		seen[c.Categorical(PriorityMix)]++
	}

	for _, label := range []string{"high", "medium", "low", "none"} {
		if seen[label] == 0 {
			t.Errorf("priority %q never sampled", label)
		}
	}
	if seen["medium"] <= seen["high"] || seen["medium"] <= seen["none"] {
		t.Errorf("expected medium to dominate the priority mix, got %v", seen)
	}
}

func TestBoundedStaysInRange(t *testing.T) {
	c, _ := New(11, nil)

	for i := 0; i < 1000; i++ {
		v := c.Bounded(12, 40, RightSkewed)
		if v < 12 || v > 40 {
			t.Fatalf("Bounded produced %f outside [12, 40]", v)
		}
	}
}

func TestOverridesReplaceDefaults(t *testing.T) {
	overrides := &Overrides{
		Distributions: map[string]map[string]float64{
			RoleMix: {"admin": 1.0},
		},
		Rates: map[string]float64{SubtaskRate: 0.0},
	}

	c, err := New(3, overrides)
	if err != nil {
		t.Fatalf("New with overrides failed: %v", err)
	}

	for i := 0; i < 100; i++ {
		if got := c.Categorical(RoleMix); got != "admin" {
			t.Fatalf("expected overridden role mix to always yield admin, got %q", got)
		}
	}
	if got := c.Rate(SubtaskRate); got != 0.0 {
		t.Errorf("expected overridden subtask rate 0.0, got %f", got)
	}
}

func TestInvalidWeightsRejected(t *testing.T) {
	overrides := &Overrides{
		Distributions: map[string]map[string]float64{
			RoleMix: {"admin": -1.0},
		},
	}
	if _, err := New(1, overrides); err == nil {
		t.Error("expected negative weight to be rejected")
	}

	empty := &Overrides{
		Distributions: map[string]map[string]float64{RoleMix: {}},
	}
	if _, err := New(1, empty); err == nil {
		t.Error("expected empty distribution to be rejected")
	}
}

func TestFromMapIsOrderStable(t *testing.T) {
	a := FromMap(map[string]float64{"b": 0.5, "a": 0.3, "c": 0.2})
	b := FromMap(map[string]float64{"c": 0.2, "a": 0.3, "b": 0.5})

	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("entry %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}
