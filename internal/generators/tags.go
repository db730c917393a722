package generators

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"seedforge/internal/distribution"
	"seedforge/internal/registry"
)

type tagStage struct{}

func (tagStage) Name() string { return "tags" }

// Label vocabulary by department and purpose. Orgs draw from the pools of
// the departments their teams actually belong to.
var tagPools = map[string]map[string][]string{
	"engineering": {
		"priority":  {"urgent", "high-priority", "asap", "critical-path", "blocker"},
		"status":    {"in-progress", "needs-review", "blocked", "ready-for-qa", "ready-for-release"},
		"category":  {"bug-fix", "feature", "tech-debt", "refactoring", "performance", "security", "documentation"},
		"component": {"frontend", "backend", "database", "api", "infrastructure", "devops", "testing"},
	},
	"product": {
		"priority": {"p0-critical", "p1-high", "p2-medium", "p3-low", "backlog"},
		"status":   {"researching", "designing", "in-development", "in-review", "waiting-feedback"},
		"category": {"user-research", "feature-request", "bug-report", "improvement", "analytics"},
		"impact":   {"high-impact", "medium-impact", "low-impact", "customer-request", "strategic"},
	},
	"marketing": {
		"priority": {"urgent-campaign", "high-priority", "time-sensitive", "asap-content"},
		"status":   {"in-creation", "in-review", "waiting-approval", "scheduled", "published"},
		"category": {"content", "campaign", "social-media", "email", "seo", "brand", "event", "video"},
		"audience": {"enterprise", "mid-market", "smb", "developers", "partners"},
	},
	"sales": {
		"priority": {"hot-lead", "high-value", "expansion-opportunity", "renewal-risk", "strategic-account"},
		"status":   {"prospecting", "qualified", "demo-scheduled", "proposal-sent", "negotiating"},
		"category": {"new-business", "expansion", "renewal", "cross-sell", "up-sell", "partner-deal"},
	},
	"operations": {
		"priority": {"critical-process", "high-impact", "cost-saving", "compliance-required"},
		"status":   {"planning", "implementing", "testing", "reviewing", "monitoring"},
		"category": {"process-improvement", "cost-reduction", "compliance", "vendor-management", "risk-mitigation"},
	},
}

var tagColors = map[string][]string{
	"priority":  {"#FF4444", "#FF6B6B", "#FF9E80", "#FFD166"},
	"status":    {"#4CAF50", "#2196F3", "#FF9800", "#9C27B0", "#F44336"},
	"category":  {"#3F51B5", "#2196F3", "#03A9F4", "#00BCD4", "#009688"},
	"component": {"#795548", "#607D8B", "#455A64", "#37474F", "#263238"},
	"audience":  {"#FF5722", "#FF9800", "#FFC107", "#FFEB3B", "#CDDC39"},
	"impact":    {"#D32F2F", "#C62828", "#B71C1C", "#F44336", "#E53935"},
}

var tagCategoryOrder = []string{"priority", "status", "category", "component", "audience", "impact"}

func (tagStage) Run(ctx context.Context, p *Pipeline, tx *sql.Tx, b *Batch) error {
	for _, orgID := range p.Reg.AllOf(registry.Organizations) {
		// Candidate labels come from the departments represented in the org,
		// assembled in stable order so identical seeds pick identical tags.
		type candidate struct {
			name     string
			category string
		}
		seen := make(map[string]bool)
		var candidates []candidate
		for _, teamID := range p.Reg.ChildrenOf(registry.Teams, registry.ByOrganization, orgID) {
			dept := p.teams[teamID].Department
			pools, ok := tagPools[dept]
			if !ok {
				continue
			}
			for _, cat := range tagCategoryOrder {
				for _, name := range pools[cat] {
					if seen[name] {
						continue
					}
					seen[name] = true
					candidates = append(candidates, candidate{name, cat})
				}
			}
		}
		if len(candidates) == 0 {
			continue
		}

		count := p.Dist.IntBetween(8, 14)
		if count > len(candidates) {
			count = len(candidates)
		}

		perm := p.Dist.Perm(len(candidates))
		orgCreated := p.orgs[orgID].CreatedAt
		for i := 0; i < count; i++ {
			c := candidates[perm[i]]
			createdAt := p.Clock.ChildTimestamp(orgCreated)

			id, err := insertRow(tx, `
				INSERT INTO tags (organization_id, name, color, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?)`,
				orgID, c.name, p.pickTagColor(c.name, c.category),
				fmtTime(createdAt), fmtTime(createdAt))
			if err != nil {
				return fmt.Errorf("failed to insert tag %q: %w", c.name, err)
			}

			b.Register(registry.Tags, id, map[string]int64{registry.ByOrganization: orgID})
		}
	}

	// Tags become visible to ChildrenOf only after this stage commits, so
	// the associations are written by a separate stage.
	return nil
}

// pickTagColor keys off the label first so urgency reads red and done reads
// green regardless of the pool the label came from.
func (p *Pipeline) pickTagColor(name, category string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "urgent"), strings.Contains(lower, "critical"), strings.Contains(lower, "high"):
		return "#FF4444"
	case strings.Contains(lower, "done"), strings.Contains(lower, "complete"):
		return "#4CAF50"
	case strings.Contains(lower, "progress"):
		return "#2196F3"
	case strings.Contains(lower, "blocked"), strings.Contains(lower, "waiting"):
		return "#FF9800"
	case strings.Contains(lower, "low"), strings.Contains(lower, "minor"):
		return "#9E9E9E"
	}
	if colors := tagColors[category]; len(colors) > 0 {
		return colors[p.Dist.Intn(len(colors))]
	}
	return "#3F51B5"
}

type taskTagStage struct{}

func (taskTagStage) Name() string { return "task_tags" }

func (taskTagStage) Run(ctx context.Context, p *Pipeline, tx *sql.Tx, b *Batch) error {
	for _, taskID := range p.Reg.AllOf(registry.Tasks) {
		if !p.Dist.Boolean(p.Dist.Rate(distribution.SparsityTag)) {
			continue
		}

		task := p.tasks[taskID]
		orgID := p.projects[task.ProjectID].OrganizationID
		tagIDs := p.Sampler.PickTags(orgID, p.Dist.IntBetween(1, 3))

		for _, tagID := range tagIDs {
			createdAt := p.Clock.ChildTimestamp(task.CreatedAt)

			id, err := insertRow(tx, `
				INSERT INTO task_tags (task_id, tag_id, created_at)
				VALUES (?, ?, ?)`,
				taskID, tagID, fmtTime(createdAt))
			if err != nil {
				return fmt.Errorf("failed to link task %d to tag %d: %w", taskID, tagID, err)
			}

			b.Register(registry.TaskTags, id, map[string]int64{registry.ByTask: taskID})
		}
	}

	return nil
}
