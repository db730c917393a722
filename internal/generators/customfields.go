package generators

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"seedforge/internal/models"
	"seedforge/internal/registry"
)

type customFieldStage struct{}

func (customFieldStage) Name() string { return "custom_fields" }

// fieldSpec declares one field an organization may adopt. Exactly the
// members relevant to its type are set: enum fields carry options, number
// fields a range, boolean fields a true-rate, date fields a forward window.
type fieldSpec struct {
	name     string
	kind     string
	options  []string
	min, max int
	trueRate float64
	dayMin   int
	dayMax   int
}

var fieldCatalog = map[string][]fieldSpec{
	"engineering": {
		{name: "Story Points", kind: models.FieldTypeNumber, min: 1, max: 13},
		{name: "Component", kind: models.FieldTypeEnum, options: []string{"Frontend", "Backend", "Database", "API", "Infrastructure", "Security"}},
		{name: "Bug Severity", kind: models.FieldTypeEnum, options: []string{"Blocker", "Critical", "Major", "Minor", "Trivial"}},
		{name: "Environment", kind: models.FieldTypeEnum, options: []string{"Production", "Staging", "Development", "QA"}},
		{name: "Security Review", kind: models.FieldTypeBoolean, trueRate: 0.2},
		{name: "Release Date", kind: models.FieldTypeDate, dayMin: 7, dayMax: 90},
		{name: "Tech Notes", kind: models.FieldTypeText},
	},
	"product": {
		{name: "Impact", kind: models.FieldTypeEnum, options: []string{"High", "Medium", "Low"}},
		{name: "Effort Level", kind: models.FieldTypeNumber, min: 1, max: 10},
		{name: "Strategic Theme", kind: models.FieldTypeEnum, options: []string{"Growth", "Engagement", "Retention", "Monetization", "Efficiency"}},
		{name: "Customer Request", kind: models.FieldTypeBoolean, trueRate: 0.6},
		{name: "Launch Date", kind: models.FieldTypeDate, dayMin: 30, dayMax: 180},
		{name: "Research Notes", kind: models.FieldTypeText},
	},
	"marketing": {
		{name: "Campaign Type", kind: models.FieldTypeEnum, options: []string{"Product Launch", "Brand Awareness", "Lead Generation", "Customer Retention", "Event Promotion"}},
		{name: "Target Audience", kind: models.FieldTypeEnum, options: []string{"Enterprise", "Mid-Market", "SMB", "Developers", "End Users"}},
		{name: "Creative Assets", kind: models.FieldTypeNumber, min: 1, max: 20},
		{name: "Requires Legal Review", kind: models.FieldTypeBoolean, trueRate: 0.2},
		{name: "Publish Date", kind: models.FieldTypeDate, dayMin: 1, dayMax: 30},
	},
	"sales": {
		{name: "Sales Stage", kind: models.FieldTypeEnum, options: []string{"Prospecting", "Qualification", "Proposal", "Negotiation", "Closed Won", "Closed Lost"}},
		{name: "Account Tier", kind: models.FieldTypeEnum, options: []string{"Enterprise", "Mid-Market", "SMB", "Strategic Partner"}},
		{name: "Win Probability", kind: models.FieldTypeNumber, min: 1, max: 100},
		{name: "Competitive Deal", kind: models.FieldTypeBoolean, trueRate: 0.35},
		{name: "Close Date", kind: models.FieldTypeDate, dayMin: 14, dayMax: 90},
	},
	"operations": {
		{name: "Risk Level", kind: models.FieldTypeEnum, options: []string{"High", "Medium", "Low"}},
		{name: "Budget Approved", kind: models.FieldTypeBoolean, trueRate: 0.6},
		{name: "Cost Estimate", kind: models.FieldTypeNumber, min: 500, max: 50000},
		{name: "Review Date", kind: models.FieldTypeDate, dayMin: 30, dayMax: 120},
		{name: "Process Notes", kind: models.FieldTypeText},
	},
}

var fieldTextPools = map[string][]string{
	"engineering": {"API endpoint", "database schema", "CI/CD pipeline", "test coverage", "performance metric", "security scan", "code review", "refactoring target"},
	"product":     {"user story", "acceptance criteria", "feature flag", "user feedback", "market research", "competitive analysis", "success metric"},
	"marketing":   {"campaign name", "target audience", "landing page", "email template", "SEO keyword", "conversion rate"},
	"sales":       {"deal size", "territory", "product line", "customer pain point", "ROI analysis", "stakeholder map"},
	"operations":  {"process step", "approval workflow", "budget category", "compliance requirement", "vendor contract", "SLA metric"},
}

const fieldValueRate = 0.25

func (customFieldStage) Run(ctx context.Context, p *Pipeline, tx *sql.Tx, b *Batch) error {
	for _, orgID := range p.Reg.AllOf(registry.Organizations) {
		specs := orgFieldSpecs(p, orgID)
		orgCreated := p.orgs[orgID].CreatedAt

		type def struct {
			id   int64
			spec fieldSpec
			dept string
		}
		var defs []def

		for _, s := range specs {
			var enumOptions any
			if s.spec.kind == models.FieldTypeEnum {
				raw, err := json.Marshal(s.spec.options)
				if err != nil {
					return fmt.Errorf("failed to encode enum options for %q: %w", s.spec.name, err)
				}
				enumOptions = string(raw)
			}

			createdAt := p.Clock.ChildTimestamp(orgCreated)
			id, err := insertRow(tx, `
				INSERT INTO custom_field_definitions (organization_id, name, field_type, enum_options, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				orgID, s.spec.name, s.spec.kind, enumOptions,
				fmtTime(createdAt), fmtTime(createdAt))
			if err != nil {
				return fmt.Errorf("failed to insert field definition %q: %w", s.spec.name, err)
			}

			b.Register(registry.FieldDefs, id, map[string]int64{registry.ByOrganization: orgID})
			defs = append(defs, def{id: id, spec: s.spec, dept: s.dept})
		}

		for _, taskID := range p.Reg.ChildrenOf(registry.Tasks, registry.ByOrganization, orgID) {
			task := p.tasks[taskID]
			for _, d := range defs {
				if !p.Dist.Boolean(fieldValueRate) {
					continue
				}

				var valueText, valueEnum, valueDate any
				var valueNumber, valueBoolean any
				switch d.spec.kind {
				case models.FieldTypeText:
					pool := fieldTextPools[d.dept]
					valueText = pool[p.Dist.Intn(len(pool))]
				case models.FieldTypeNumber:
					valueNumber = float64(p.Dist.IntBetween(d.spec.min, d.spec.max))
				case models.FieldTypeDate:
					days := p.Dist.IntBetween(d.spec.dayMin, d.spec.dayMax)
					valueDate = fmtDate(task.CreatedAt.AddDate(0, 0, days))
				case models.FieldTypeBoolean:
					valueBoolean = boolToInt(p.Dist.Boolean(d.spec.trueRate))
				case models.FieldTypeEnum:
					valueEnum = d.spec.options[p.Dist.Intn(len(d.spec.options))]
				}

				createdAt := p.Clock.ChildTimestamp(task.CreatedAt)
				id, err := insertRow(tx, `
					INSERT INTO custom_field_values (custom_field_definition_id, task_id,
						value_text, value_number, value_date, value_boolean, value_enum,
						created_at, updated_at)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					d.id, taskID, valueText, valueNumber, valueDate, valueBoolean, valueEnum,
					fmtTime(createdAt), fmtTime(createdAt))
				if err != nil {
					return fmt.Errorf("failed to insert value for field %q on task %d: %w", d.spec.name, taskID, err)
				}

				b.Register(registry.FieldValues, id, map[string]int64{registry.ByTask: taskID})
			}
		}
	}

	return nil
}

type orgFieldSpec struct {
	spec fieldSpec
	dept string
}

// orgFieldSpecs picks four to eight definitions from the catalogs of the
// departments the organization actually staffs, first occurrence wins on
// name collisions across departments.
func orgFieldSpecs(p *Pipeline, orgID int64) []orgFieldSpec {
	seen := make(map[string]bool)
	var candidates []orgFieldSpec
	for _, teamID := range p.Reg.ChildrenOf(registry.Teams, registry.ByOrganization, orgID) {
		dept := p.teams[teamID].Department
		for _, spec := range fieldCatalog[dept] {
			if seen[spec.name] {
				continue
			}
			seen[spec.name] = true
			candidates = append(candidates, orgFieldSpec{spec: spec, dept: dept})
		}
	}

	count := p.Dist.IntBetween(4, 8)
	if count > len(candidates) {
		count = len(candidates)
	}
	perm := p.Dist.Perm(len(candidates))
	picked := make([]orgFieldSpec, 0, count)
	for i := 0; i < count; i++ {
		picked = append(picked, candidates[perm[i]])
	}
	return picked
}
