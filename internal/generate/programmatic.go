// Package generate produces candidate RLS policies for a table: four
// CRUD ownership policies derived from a foreign key path to
// auth.users, a catalog of heuristic templates derived from column
// shape, and an AI-backed fallback when neither applies.
package generate

import (
	"fmt"
	"strings"

	"github.com/pgpolicy/pgpolicy/internal/fkpath"
	"github.com/pgpolicy/pgpolicy/internal/ir"
)

// commandVerbs maps each generated CRUD command to the verb used in
// the policy name.
var commandVerbs = []struct {
	command ir.PolicyCommand
	verb    string
}{
	{ir.PolicyCommandSelect, "view"},
	{ir.PolicyCommandInsert, "insert"},
	{ir.PolicyCommandUpdate, "update"},
	{ir.PolicyCommandDelete, "delete"},
}

// ProgrammaticPolicies derives four CRUD policies from a foreign key
// path between the table and auth.users. Returns an empty slice when
// no path of depth <= 2 exists; the caller falls through to templates
// or the AI generator.
func ProgrammaticPolicies(table *ir.Table, constraints []*ir.ForeignKeyConstraint) []ir.GeneratedPolicy {
	path := fkpath.Resolve(table, constraints)
	if path == nil {
		return nil
	}

	expression := ownershipExpression(table, path)

	policies := make([]ir.GeneratedPolicy, 0, len(commandVerbs))
	for _, cv := range commandVerbs {
		name := fmt.Sprintf("Users can %s their own %s", cv.verb, table.Name)
		policy := ir.GeneratedPolicy{
			Name:    name,
			Schema:  table.Schema,
			Table:   table.Name,
			Command: cv.command,
			Action:  ir.PolicyActionPermissive,
			Roles:   []string{"public"},
		}

		// SELECT and DELETE filter visible rows only; INSERT validates
		// new rows only; UPDATE needs both slots with the same
		// expression.
		switch cv.command {
		case ir.PolicyCommandInsert:
			policy.Check = ir.Ptr(expression)
		case ir.PolicyCommandUpdate:
			policy.Definition = ir.Ptr(expression)
			policy.Check = ir.Ptr(expression)
		default:
			policy.Definition = ir.Ptr(expression)
		}

		policy.SQL = renderCreate(&policy)
		policies = append(policies, policy)
	}

	return policies
}

// ownershipExpression builds the boolean ownership expression for a
// resolved path: a direct auth.uid() comparison for one hop, or an
// EXISTS correlation through the intermediate table for two hops.
func ownershipExpression(table *ir.Table, path *fkpath.Path) string {
	if path.Hops() == 1 {
		return fmt.Sprintf("auth.uid() = %s", path.Direct.SourceColumns[0])
	}

	intermediate := path.Intermediate
	return fmt.Sprintf(
		"exists (select 1 from %s.%s where %s.%s = %s.%s and auth.uid() = %s.%s)",
		intermediate.TargetSchema, intermediate.TargetTable,
		intermediate.TargetTable, intermediate.TargetColumns[0],
		table.Name, intermediate.SourceColumns[0],
		path.Direct.SourceTable, path.Direct.SourceColumns[0],
	)
}

// renderCreate renders the CREATE POLICY statement for a generated
// policy.
func renderCreate(p *ir.GeneratedPolicy) string {
	return renderCreateStatement(p.Name, p.Schema, p.Table, p.Command, p.Action, p.Roles, p.Definition, p.Check)
}

// renderCreateStatement assembles a CREATE POLICY statement. Table
// identifiers are quoted only when required so plain names render in
// the bare schema.table form.
func renderCreateStatement(name, schema, table string, command ir.PolicyCommand, action ir.PolicyAction, roles []string, definition, check *string) string {
	var stmt strings.Builder

	stmt.WriteString(fmt.Sprintf("CREATE POLICY %s ON %s\n", ir.QuoteIdentifier(name), ir.QualifyTableName(schema, table)))
	stmt.WriteString(fmt.Sprintf("AS %s FOR %s\n", action, command))
	stmt.WriteString("TO " + strings.Join(roles, ", "))

	if definition != nil {
		stmt.WriteString(fmt.Sprintf("\nUSING (%s)", *definition))
	}
	if check != nil {
		stmt.WriteString(fmt.Sprintf("\nWITH CHECK (%s)", *check))
	}

	stmt.WriteString(";")
	return stmt.String()
}
