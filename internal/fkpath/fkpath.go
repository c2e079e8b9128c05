// Package fkpath resolves foreign key chains from a table to
// auth.users. The search is deliberately bounded at two hops so that
// the generated ownership expressions stay predictable: either a
// direct comparison or a single EXISTS subquery.
package fkpath

import (
	"github.com/pgpolicy/pgpolicy/internal/ir"
)

const (
	authSchema     = "auth"
	authUsersTable = "users"
)

// Path is an ordered chain of one or two constraints connecting a
// table to auth.users. Direct holds the final hop into auth.users;
// Intermediate is set only for two-hop paths and holds the first hop
// out of the source table.
type Path struct {
	Intermediate *ir.ForeignKeyConstraint
	Direct       *ir.ForeignKeyConstraint
}

// Hops returns the number of constraints in the path.
func (p *Path) Hops() int {
	if p.Intermediate != nil {
		return 2
	}
	return 1
}

// Resolve finds a chain of at most two foreign keys connecting the
// table to auth.users. When several candidates exist at the same
// depth, the first constraint in input order wins: the caller-supplied
// order is authoritative. Returns nil when no path of depth <= 2
// exists; absence of a path is an expected case, not an error.
func Resolve(table *ir.Table, constraints []*ir.ForeignKeyConstraint) *Path {
	// Direct hop first: a 1-hop path always beats a 2-hop one.
	for _, fk := range constraints {
		if fromTable(fk, table) && pointsToAuthUsers(fk) {
			return &Path{Direct: fk}
		}
	}

	for _, fk := range constraints {
		if !fromTable(fk, table) || pointsToAuthUsers(fk) {
			continue
		}
		for _, next := range constraints {
			if next.SourceSchema == fk.TargetSchema && next.SourceTable == fk.TargetTable && pointsToAuthUsers(next) {
				return &Path{Intermediate: fk, Direct: next}
			}
		}
	}

	return nil
}

func fromTable(fk *ir.ForeignKeyConstraint, table *ir.Table) bool {
	return fk.SourceSchema == table.Schema && fk.SourceTable == table.Name
}

func pointsToAuthUsers(fk *ir.ForeignKeyConstraint) bool {
	return fk.TargetSchema == authSchema && fk.TargetTable == authUsersTable
}
