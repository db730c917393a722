package generators

import (
	"context"
	"database/sql"
	"fmt"

	"seedforge/internal/models"
	"seedforge/internal/registry"
)

// companyPool seeds organization names and unique domains.
var companyPool = []struct {
	name   string
	domain string
}{
	{"Acme Corporation", "acme.corp"},
	{"Northwind Systems", "northwind.io"},
	{"Globex Analytics", "globex.dev"},
	{"Initech Solutions", "initech.com"},
	{"Meridian Labs", "meridianlabs.ai"},
	{"Vertex Dynamics", "vertexdyn.com"},
	{"Cascade Software", "cascadesw.io"},
	{"Summit Technologies", "summittech.co"},
}

type organizationStage struct{}

func (organizationStage) Name() string { return "organizations" }

func (organizationStage) Run(_ context.Context, p *Pipeline, tx *sql.Tx, b *Batch) error {
	createdAt := p.Clock.Window().Start

	for i := 0; i < p.Cfg.OrganizationCount; i++ {
		entry := companyPool[i%len(companyPool)]
		name, domain := entry.name, entry.domain
		if i >= len(companyPool) {
			// Domains are unique org-wide; disambiguate once the pool wraps.
			suffix := i/len(companyPool) + 1
			name = fmt.Sprintf("%s %d", name, suffix)
			domain = fmt.Sprintf("%d.%s", suffix, domain)
		}

		id, err := insertRow(tx, `
			INSERT INTO organizations (name, domain, created_at, updated_at)
			VALUES (?, ?, ?, ?)`,
			name, domain, fmtTime(createdAt), fmtTime(createdAt))
		if err != nil {
			return fmt.Errorf("failed to insert organization %q: %w", name, err)
		}

		p.orgs[id] = &models.Organization{
			ID:        id,
			Name:      name,
			Domain:    domain,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}
		b.Register(registry.Organizations, id, nil)
	}

	return nil
}
