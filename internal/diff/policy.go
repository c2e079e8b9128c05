// Package diff synthesizes policy DDL from an edited policy form.
// A new policy renders as a full CREATE POLICY statement; an edit
// renders as a minimal transaction of ALTER POLICY statements touching
// only the clauses that actually changed.
package diff

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"

	"github.com/pgpolicy/pgpolicy/internal/ir"
)

// ChangeKind tags the three possible outcomes of a policy edit.
type ChangeKind string

const (
	// ChangeNone means the normalized form is identical to the
	// original policy and no SQL needs to run.
	ChangeNone ChangeKind = "none"
	// ChangeCreate means a full CREATE POLICY statement.
	ChangeCreate ChangeKind = "create"
	// ChangeUpdate means a BEGIN/COMMIT block of ALTER POLICY
	// statements for the changed clauses.
	ChangeUpdate ChangeKind = "update"
)

// Change is the result of synthesizing a policy edit.
type Change struct {
	Kind        ChangeKind
	Description string
	Statement   string
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalizeExpr collapses whitespace runs to single spaces and trims.
// A nil pointer stays nil: a field never set is distinct from a field
// cleared to the empty string.
func normalizeExpr(expr *string) *string {
	if expr == nil {
		return nil
	}
	normalized := strings.TrimSpace(whitespaceRun.ReplaceAllString(*expr, " "))
	return &normalized
}

// Compute synthesizes the SQL for a policy form. With a nil original
// the form always renders as a CREATE POLICY statement. With an
// original present, the normalized form is diffed field by field
// (name, definition, check, roles, each compared independently) and
// only the changed clauses are emitted.
func Compute(form *ir.PolicyForm, original *ir.Policy) Change {
	if original == nil || original.Name == "" {
		return createChange(form)
	}
	return updateChange(form, original)
}

func createChange(form *ir.PolicyForm) Change {
	roles := form.Roles
	if len(roles) == 0 {
		roles = []string{"public"}
	}

	action := form.Action
	if action == "" {
		action = ir.PolicyActionPermissive
	}

	var stmt strings.Builder
	stmt.WriteString(fmt.Sprintf("CREATE POLICY %s ON %s\n", pq.QuoteIdentifier(form.Name), qualifiedTable(form.Schema, form.Table)))
	stmt.WriteString(fmt.Sprintf("AS %s FOR %s\n", action, form.Command))
	stmt.WriteString("TO " + strings.Join(roles, ", "))

	if definition := normalizeExpr(form.Definition); definition != nil && *definition != "" {
		stmt.WriteString(fmt.Sprintf("\nUSING (%s)", *definition))
	}
	if check := normalizeExpr(form.Check); check != nil && *check != "" {
		stmt.WriteString(fmt.Sprintf("\nWITH CHECK (%s)", *check))
	}
	stmt.WriteString(";")

	return Change{
		Kind:        ChangeCreate,
		Description: fmt.Sprintf("Create policy %s on %s", pq.QuoteIdentifier(form.Name), qualifiedTable(form.Schema, form.Table)),
		Statement:   stmt.String(),
	}
}

func updateChange(form *ir.PolicyForm, original *ir.Policy) Change {
	definition := normalizeExpr(form.Definition)
	check := normalizeExpr(form.Check)

	nameChanged := form.Name != original.Name

	// A field cleared to the empty string has no ALTER clause to run
	// (ALTER POLICY cannot drop a USING or WITH CHECK expression), so
	// clearing alone never counts as a change.
	definitionChanged := exprChanged(definition, normalizeExpr(original.Definition)) && *definition != ""
	checkChanged := exprChanged(check, normalizeExpr(original.Check)) && *check != ""

	formRoles := form.Roles
	if len(formRoles) == 0 {
		formRoles = []string{"public"}
	}
	rolesChanged := !slicesEqual(formRoles, original.Roles)

	if !nameChanged && !definitionChanged && !checkChanged && !rolesChanged {
		return Change{Kind: ChangeNone}
	}

	// ALTER statements run against the original name; the rename comes
	// last since it is presentational and independent of the semantic
	// clauses.
	target := fmt.Sprintf("ALTER POLICY %s ON %s", pq.QuoteIdentifier(original.Name), qualifiedTable(original.Schema, original.Table))

	var alterations []string
	var changedFields []string

	if definitionChanged {
		changedFields = append(changedFields, "definition")
		alterations = append(alterations, fmt.Sprintf("%s USING (%s);", target, *definition))
	}
	if checkChanged {
		changedFields = append(changedFields, "check")
		alterations = append(alterations, fmt.Sprintf("%s WITH CHECK (%s);", target, *check))
	}
	if rolesChanged {
		changedFields = append(changedFields, "roles")
		alterations = append(alterations, fmt.Sprintf("%s TO %s;", target, strings.Join(formRoles, ", ")))
	}
	if nameChanged {
		changedFields = append(changedFields, "name")
		alterations = append(alterations, fmt.Sprintf("%s RENAME TO %s;", target, pq.QuoteIdentifier(form.Name)))
	}

	var stmt strings.Builder
	stmt.WriteString("BEGIN;\n")
	for _, alteration := range alterations {
		stmt.WriteString("  " + alteration + "\n")
	}
	stmt.WriteString("COMMIT;")

	return Change{
		Kind:        ChangeUpdate,
		Description: fmt.Sprintf("Update policy %s", joinWithAnd(changedFields)),
		Statement:   stmt.String(),
	}
}

// exprChanged reports whether an edited expression differs from the
// original. A nil form value means the field was never touched in the
// editor and never counts as a change.
func exprChanged(formValue, originalValue *string) bool {
	if formValue == nil {
		return false
	}
	if originalValue == nil {
		return *formValue != ""
	}
	return *formValue != *originalValue
}

// qualifiedTable renders "schema"."table" with both parts always
// quoted.
func qualifiedTable(schema, table string) string {
	return pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier(table)
}

// joinWithAnd joins field names with commas and an "and" before the
// last one.
func joinWithAnd(fields []string) string {
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	default:
		return strings.Join(fields[:len(fields)-1], ", ") + " and " + fields[len(fields)-1]
	}
}

// slicesEqual compares two string slices for equality
func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if b[i] != v {
			return false
		}
	}
	return true
}
