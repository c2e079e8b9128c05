package pgpolicy

import (
	"github.com/pgpolicy/pgpolicy/internal/diff"
	"github.com/pgpolicy/pgpolicy/internal/ir"
)

// Re-export important types for external consumption

// Catalog represents everything known about one table: its columns,
// foreign keys and existing policies.
type Catalog = ir.Catalog

// Table represents a database table with its columns.
type Table = ir.Table

// Column represents a table column.
type Column = ir.Column

// ForeignKeyConstraint represents a foreign key relationship.
type ForeignKeyConstraint = ir.ForeignKeyConstraint

// Policy represents an existing row-level security policy.
type Policy = ir.Policy

// PolicyForm is the mutable draft of a policy used while editing.
type PolicyForm = ir.PolicyForm

// PolicyCommand is the command a policy applies to (ALL, SELECT, ...).
type PolicyCommand = ir.PolicyCommand

// PolicyAction is PERMISSIVE or RESTRICTIVE.
type PolicyAction = ir.PolicyAction

// GeneratedPolicy is a suggested policy plus its rendered SQL.
type GeneratedPolicy = ir.GeneratedPolicy

// PolicyTemplate is a ready-to-use policy template.
type PolicyTemplate = ir.PolicyTemplate

// Change is the result of rendering a policy edit.
type Change = diff.Change

// ChangeKind tags the outcome of a policy edit.
type ChangeKind = diff.ChangeKind

// Change kinds.
const (
	ChangeNone   = diff.ChangeNone
	ChangeCreate = diff.ChangeCreate
	ChangeUpdate = diff.ChangeUpdate
)

// Ptr returns a pointer to s. Shorthand for building Definition and
// Check fields on a PolicyForm.
func Ptr(s string) *string {
	return ir.Ptr(s)
}
