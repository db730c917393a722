// Package distribution supplies the weighted categorical, boolean and shaped
// numeric samples the entity generators draw from. All randomness in the
// pipeline flows through one seeded source so a fixed seed reproduces a run.
package distribution

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Shape selects the curve Bounded samples from.
type Shape int

const (
	Uniform Shape = iota
	// RightSkewed concentrates mass near min with a tail toward max,
	// matching task-count and comment-count patterns.
	RightSkewed
)

// Named distributions enumerated once at startup.
const (
	RoleMix           = "role_mix"
	MembershipRoleMix = "membership_role_mix"
	PriorityMix       = "priority_mix"
	ProjectStatusMix  = "project_status_mix"
	ProjectTypeMix    = "project_type_mix"
	DepartmentMix     = "department_mix"
)

// Named scalar rates.
const (
	CompletionBaseRate  = "completion_base_rate"
	SparsityDescription = "sparsity_description"
	SparsityComment     = "sparsity_comment"
	SparsityTag         = "sparsity_tag"
	UnassignedRate      = "unassigned_rate"
	SubtaskRate         = "subtask_rate"
	DueDateRate         = "due_date_rate"
)

// Weight pairs a label with its unnormalized weight.
type Weight struct {
	Label  string
	Weight float64
}

// Weights is an ordered weighted categorical distribution. Order matters for
// determinism, so maps are always sorted before they become Weights.
type Weights []Weight

// Overrides mirrors the optional YAML distributions file.
type Overrides struct {
	Distributions map[string]map[string]float64 `yaml:"distributions"`
	Rates         map[string]float64            `yaml:"rates"`
}

// Controller owns the seeded random source and the named distribution table.
type Controller struct {
	rng   *rand.Rand
	dists map[string]Weights
	rates map[string]float64
}

func defaultDistributions() map[string]Weights {
	return map[string]Weights{
		RoleMix: {
			{"member", 0.78}, {"admin", 0.12}, {"guest", 0.10},
		},
		MembershipRoleMix: {
			{"member", 0.85}, {"owner", 0.15},
		},
		PriorityMix: {
			{"medium", 0.47}, {"high", 0.25}, {"low", 0.18}, {"none", 0.10},
		},
		ProjectStatusMix: {
			{"active", 0.60}, {"completed", 0.30}, {"archived", 0.10},
		},
		ProjectTypeMix: {
			{"sprint", 0.30}, {"feature_development", 0.25}, {"bug_tracking", 0.20},
			{"campaign", 0.15}, {"research", 0.10},
		},
		DepartmentMix: {
			{"engineering", 0.35}, {"product", 0.20}, {"marketing", 0.15},
			{"sales", 0.20}, {"operations", 0.10},
		},
	}
}

func defaultRates() map[string]float64 {
	return map[string]float64{
		CompletionBaseRate:  0.68,
		SparsityDescription: 0.55,
		SparsityComment:     0.60,
		SparsityTag:         0.35,
		UnassignedRate:      0.15,
		SubtaskRate:         0.40,
		DueDateRate:         0.80,
	}
}

// New builds a controller from the compiled-in distribution table, the given
// seed and optional file overrides. Override maps are sorted by label so the
// resulting sample sequence stays seed-stable.
func New(seed int64, overrides *Overrides) (*Controller, error) {
	c := &Controller{
		rng:   rand.New(rand.NewSource(seed)),
		dists: defaultDistributions(),
		rates: defaultRates(),
	}

	if overrides != nil {
		for name, labels := range overrides.Distributions {
			if _, ok := c.dists[name]; !ok {
				return nil, fmt.Errorf("unknown distribution %q in overrides", name)
			}
			c.dists[name] = FromMap(labels)
		}
		for name, rate := range overrides.Rates {
			if _, ok := c.rates[name]; !ok {
				return nil, fmt.Errorf("unknown rate %q in overrides", name)
			}
			if rate < 0 || rate > 1 {
				return nil, fmt.Errorf("rate %q out of range: %f", name, rate)
			}
			c.rates[name] = rate
		}
	}

	for name, w := range c.dists {
		if err := validateWeights(w); err != nil {
			return nil, fmt.Errorf("distribution %q: %w", name, err)
		}
	}
	return c, nil
}

// FromMap converts a label->weight map into deterministic ordered Weights.
func FromMap(labels map[string]float64) Weights {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)

	w := make(Weights, 0, len(names))
	for _, name := range names {
		w = append(w, Weight{Label: name, Weight: labels[name]})
	}
	return w
}

func validateWeights(w Weights) error {
	if len(w) == 0 {
		return fmt.Errorf("no labels")
	}
	total := 0.0
	for _, entry := range w {
		if entry.Weight < 0 {
			return fmt.Errorf("negative weight for %q", entry.Label)
		}
		total += entry.Weight
	}
	if total <= 0 {
		return fmt.Errorf("weights sum to zero")
	}
	return nil
}

// Categorical samples a label from a named distribution.
func (c *Controller) Categorical(name string) string {
	w, ok := c.dists[name]
	if !ok {
		return ""
	}
	return c.Sample(w)
}

// Sample draws a label from an ad hoc weighted distribution.
func (c *Controller) Sample(w Weights) string {
	total := 0.0
	for _, entry := range w {
		total += entry.Weight
	}
	target := c.rng.Float64() * total
	for _, entry := range w {
		target -= entry.Weight
		if target < 0 {
			return entry.Label
		}
	}
	return w[len(w)-1].Label
}

// Rate returns a named scalar probability.
func (c *Controller) Rate(name string) float64 {
	return c.rates[name]
}

// Boolean is a Bernoulli draw with probability pTrue.
func (c *Controller) Boolean(pTrue float64) bool {
	return c.rng.Float64() < pTrue
}

// Bounded samples a number in [min, max] with the given shape.
func (c *Controller) Bounded(min, max float64, shape Shape) float64 {
	if max <= min {
		return min
	}
	u := c.rng.Float64()
	if shape == RightSkewed {
		u = math.Pow(u, 2.2)
	}
	return min + (max-min)*u
}

// IntBetween samples an integer in [min, max] inclusive.
func (c *Controller) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + c.rng.Intn(max-min+1)
}

// Intn mirrors rand.Intn over the controller's seeded source.
func (c *Controller) Intn(n int) int {
	return c.rng.Intn(n)
}

// Float64 exposes a raw uniform draw from the seeded source.
func (c *Controller) Float64() float64 {
	return c.rng.Float64()
}

// Perm returns a seed-stable permutation of [0, n).
func (c *Controller) Perm(n int) []int {
	return c.rng.Perm(n)
}
