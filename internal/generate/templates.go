package generate

import (
	"fmt"

	"github.com/pgpolicy/pgpolicy/internal/ir"
)

// JWT claim expressions shared by the tenant and admin templates.
const (
	tenantClaimExpr = "(((select auth.jwt()) -> 'app_metadata' ->> 'tenant_id')::uuid)"
	orgClaimExpr    = "(((select auth.jwt()) -> 'app_metadata' ->> 'organization_id')::uuid)"
	adminClaimExpr  = "(((select auth.jwt()) -> 'app_metadata' ->> 'role') = 'admin')"
)

// SmartTemplates inspects the column list and produces a catalog of
// candidate policy templates. The function is pure and total: columns
// that match no class simply suppress the corresponding templates.
func SmartTemplates(schema, table string, columns []*ir.Column) []ir.PolicyTemplate {
	classes := classifyColumns(columns)

	// Baseline templates are emitted regardless of column shape.
	templates := []ir.PolicyTemplate{
		{
			ID:           "read-all",
			TemplateName: "Read access for all users",
			Description:  "Allow every role to read all rows",
			Name:         "Enable read access for all users",
			Definition:   "true",
			Command:      ir.PolicyCommandSelect,
			Roles:        []string{"public"},
		},
		{
			ID:           "insert-authenticated",
			TemplateName: "Insert for authenticated users only",
			Description:  "Allow only signed-in users to insert rows",
			Name:         "Enable insert for authenticated users only",
			Check:        "true",
			Command:      ir.PolicyCommandInsert,
			Roles:        []string{"authenticated"},
		},
	}

	if classes.ownership != nil {
		templates = append(templates, ownershipTemplates(table, classes.ownership.Name)...)
	}

	if classes.tenant != nil {
		templates = append(templates, ir.PolicyTemplate{
			ID:           "tenant-select",
			TemplateName: "Tenant isolation",
			Description:  fmt.Sprintf("Restrict reads to rows whose %s matches the tenant claim of the JWT", classes.tenant.Name),
			Name:         "Tenant members can view tenant rows",
			Definition:   fmt.Sprintf("%s = %s", classes.tenant.Name, tenantClaimExpr),
			Command:      ir.PolicyCommandSelect,
			Roles:        []string{"authenticated"},
		})
	}

	if classes.createdAt != nil {
		templates = append(templates, ir.PolicyTemplate{
			ID:           "time-window-select",
			TemplateName: "Recent rows only",
			Description:  fmt.Sprintf("Restrict reads to rows created within the last 24 hours, keyed on %s", classes.createdAt.Name),
			Name:         "Users can view recent rows",
			Definition:   fmt.Sprintf("%s > (now() - interval '24 hours')", classes.createdAt.Name),
			Command:      ir.PolicyCommandSelect,
			Roles:        []string{"public"},
		})
	}

	if classes.organization != nil {
		templates = append(templates, ir.PolicyTemplate{
			ID:           "admin-role-all",
			TemplateName: "Admin role access",
			Description:  "Grant full access to users whose JWT app_metadata role is admin",
			Name:         "Admins have full access",
			Definition:   adminClaimExpr,
			Command:      ir.PolicyCommandAll,
			Roles:        []string{"authenticated"},
		})
	}

	if classes.ownership != nil && classes.tenant != nil {
		templates = append(templates, ir.PolicyTemplate{
			ID:           "tenant-ownership-select",
			TemplateName: "Multi-tenant ownership",
			Description:  fmt.Sprintf("Restrict reads to rows owned by the user within their tenant, keyed on %s and %s", classes.tenant.Name, classes.ownership.Name),
			Name:         "Tenant members can view their own rows",
			Definition: fmt.Sprintf("(%s = %s) and ((select auth.uid()) = %s)",
				classes.tenant.Name, tenantClaimExpr, classes.ownership.Name),
			Command: ir.PolicyCommandSelect,
			Roles:   []string{"authenticated"},
		})
	}

	for idx := range templates {
		t := &templates[idx]
		var definition, check *string
		if t.Definition != "" {
			definition = &t.Definition
		}
		if t.Check != "" {
			check = &t.Check
		}
		t.Statement = renderCreateStatement(t.Name, schema, table, t.Command, ir.PolicyActionPermissive, t.Roles, definition, check)
	}

	return templates
}

// ownershipTemplates produces the four CRUD templates keyed on the
// first ownership column.
func ownershipTemplates(table, column string) []ir.PolicyTemplate {
	expr := fmt.Sprintf("(select auth.uid()) = %s", column)

	templates := []ir.PolicyTemplate{
		{
			ID:           "ownership-select",
			TemplateName: "Owner read access",
			Name:         fmt.Sprintf("Users can view their own %s", table),
			Definition:   expr,
			Command:      ir.PolicyCommandSelect,
		},
		{
			ID:           "ownership-insert",
			TemplateName: "Owner insert access",
			Name:         fmt.Sprintf("Users can insert their own %s", table),
			Check:        expr,
			Command:      ir.PolicyCommandInsert,
		},
		{
			ID:           "ownership-update",
			TemplateName: "Owner update access",
			Name:         fmt.Sprintf("Users can update their own %s", table),
			Definition:   expr,
			Check:        expr,
			Command:      ir.PolicyCommandUpdate,
		},
		{
			ID:           "ownership-delete",
			TemplateName: "Owner delete access",
			Name:         fmt.Sprintf("Users can delete their own %s", table),
			Definition:   expr,
			Command:      ir.PolicyCommandDelete,
		},
	}

	for idx := range templates {
		templates[idx].Description = fmt.Sprintf("Restrict %s to rows owned by the current user via %s", templates[idx].Command, column)
		templates[idx].Roles = []string{"authenticated"}
	}

	return templates
}

// ContextualBaseQueries produces candidate boolean expressions (not
// full statements) for quick-pick suggestions. Expressions are emitted
// in column input order; duplicates are not removed.
func ContextualBaseQueries(schema, table string, columns []*ir.Column, operation ir.PolicyCommand) []string {
	var queries []string

	rowFilter := operation != ir.PolicyCommandInsert

	for _, col := range columns {
		if nameMatches(col, ownershipColumnNames) {
			queries = append(queries, fmt.Sprintf("(select auth.uid()) = %s", col.Name))
		}
		if nameMatches(col, tenantColumnNames) {
			queries = append(queries, fmt.Sprintf("%s = %s", col.Name, tenantClaimExpr))
		}
		if nameMatches(col, organizationColumnNames) {
			queries = append(queries, fmt.Sprintf("%s = %s", col.Name, orgClaimExpr))
		}
		if rowFilter && (nameMatches(col, createdAtColumnNames) || isTimestampType(col)) {
			queries = append(queries, fmt.Sprintf("%s > (now() - interval '24 hours')", col.Name))
		}
		if isStatusName(col) && !isBooleanType(col) {
			queries = append(queries, fmt.Sprintf("%s = 'active'", col.Name))
		}
		if isBooleanType(col) {
			queries = append(queries, fmt.Sprintf("%s = true", col.Name))
		}
	}

	return queries
}
