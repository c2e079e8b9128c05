package generate

import (
	"strings"

	"github.com/pgpolicy/pgpolicy/internal/ir"
)

// Synonym sets mapping column names to semantic roles. Kept as a
// single source of truth for both the template generator and the
// contextual base query builder.
var (
	ownershipColumnNames    = []string{"user_id", "created_by", "owner_id"}
	tenantColumnNames       = []string{"tenant_id", "workspace_id", "project_id"}
	organizationColumnNames = []string{"organization_id", "org_id", "company_id"}
	createdAtColumnNames    = []string{"created_at", "created"}
)

// columnClasses is the result of classifying a column list. Each
// single-column slot holds the first matching column in input order;
// the slices preserve input order.
type columnClasses struct {
	ownership    *ir.Column
	tenant       *ir.Column
	organization *ir.Column
	createdAt    *ir.Column

	uuidColumns    []*ir.Column
	booleanColumns []*ir.Column
	statusColumns  []*ir.Column
}

// classifyColumns evaluates the predicate table once over the column
// list. Name matching is case-insensitive; ties go to the first column
// in the input array.
func classifyColumns(columns []*ir.Column) columnClasses {
	var classes columnClasses

	for _, col := range columns {
		if classes.ownership == nil && nameMatches(col, ownershipColumnNames) {
			classes.ownership = col
		}
		if classes.tenant == nil && nameMatches(col, tenantColumnNames) {
			classes.tenant = col
		}
		if classes.organization == nil && nameMatches(col, organizationColumnNames) {
			classes.organization = col
		}
		if classes.createdAt == nil && (nameMatches(col, createdAtColumnNames) || isTimestampType(col)) {
			classes.createdAt = col
		}
		if isUUIDType(col) {
			classes.uuidColumns = append(classes.uuidColumns, col)
		}
		if isBooleanType(col) {
			classes.booleanColumns = append(classes.booleanColumns, col)
		}
		if isStatusName(col) {
			classes.statusColumns = append(classes.statusColumns, col)
		}
	}

	return classes
}

func nameMatches(col *ir.Column, synonyms []string) bool {
	name := strings.ToLower(col.Name)
	for _, synonym := range synonyms {
		if name == synonym {
			return true
		}
	}
	return false
}

func isUUIDType(col *ir.Column) bool {
	dataType := strings.ToLower(col.DataType)
	return strings.Contains(dataType, "uuid") || strings.Contains(dataType, "guid")
}

func isTimestampType(col *ir.Column) bool {
	dataType := strings.ToLower(col.DataType)
	return strings.Contains(dataType, "timestamp") || strings.Contains(dataType, "date")
}

func isBooleanType(col *ir.Column) bool {
	return strings.Contains(strings.ToLower(col.DataType), "bool")
}

func isStatusName(col *ir.Column) bool {
	name := strings.ToLower(col.Name)
	return strings.Contains(name, "status") || strings.Contains(name, "state") || strings.Contains(name, "active")
}
