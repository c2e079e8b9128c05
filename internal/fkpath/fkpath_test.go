package fkpath

import (
	"testing"

	"github.com/pgpolicy/pgpolicy/internal/ir"
)

func fk(id, sourceSchema, sourceTable, sourceCol, targetSchema, targetTable, targetCol string) *ir.ForeignKeyConstraint {
	return &ir.ForeignKeyConstraint{
		ID:            id,
		SourceSchema:  sourceSchema,
		SourceTable:   sourceTable,
		SourceColumns: []string{sourceCol},
		TargetSchema:  targetSchema,
		TargetTable:   targetTable,
		TargetColumns: []string{targetCol},
	}
}

func TestResolve(t *testing.T) {
	posts := &ir.Table{Schema: "public", Name: "posts"}

	tests := []struct {
		name        string
		constraints []*ir.ForeignKeyConstraint
		wantHops    int
		wantDirect  string // expected ID of the final hop, "" for nil path
	}{
		{
			name: "direct path",
			constraints: []*ir.ForeignKeyConstraint{
				fk("1", "public", "posts", "user_id", "auth", "users", "id"),
			},
			wantHops:   1,
			wantDirect: "1",
		},
		{
			name: "no path",
			constraints: []*ir.ForeignKeyConstraint{
				fk("1", "public", "posts", "category_id", "public", "categories", "id"),
			},
		},
		{
			name:        "no constraints at all",
			constraints: nil,
		},
		{
			name: "indirect path through profiles",
			constraints: []*ir.ForeignKeyConstraint{
				fk("1", "public", "posts", "profile_id", "public", "profiles", "id"),
				fk("2", "public", "profiles", "user_id", "auth", "users", "id"),
			},
			wantHops:   2,
			wantDirect: "2",
		},
		{
			name: "direct path preferred over indirect",
			constraints: []*ir.ForeignKeyConstraint{
				fk("1", "public", "posts", "profile_id", "public", "profiles", "id"),
				fk("2", "public", "profiles", "user_id", "auth", "users", "id"),
				fk("3", "public", "posts", "author_id", "auth", "users", "id"),
			},
			wantHops:   1,
			wantDirect: "3",
		},
		{
			name: "first direct constraint in input order wins",
			constraints: []*ir.ForeignKeyConstraint{
				fk("1", "public", "posts", "created_by", "auth", "users", "id"),
				fk("2", "public", "posts", "owner_id", "auth", "users", "id"),
			},
			wantHops:   1,
			wantDirect: "1",
		},
		{
			name: "three hop chain is not followed",
			constraints: []*ir.ForeignKeyConstraint{
				fk("1", "public", "posts", "thread_id", "public", "threads", "id"),
				fk("2", "public", "threads", "profile_id", "public", "profiles", "id"),
				fk("3", "public", "profiles", "user_id", "auth", "users", "id"),
			},
		},
		{
			name: "constraint from another table ignored",
			constraints: []*ir.ForeignKeyConstraint{
				fk("1", "public", "comments", "user_id", "auth", "users", "id"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := Resolve(posts, tt.constraints)
			if tt.wantDirect == "" {
				if path != nil {
					t.Fatalf("Resolve() = %+v, want nil", path)
				}
				return
			}
			if path == nil {
				t.Fatal("Resolve() = nil, want path")
			}
			if path.Hops() != tt.wantHops {
				t.Errorf("Hops() = %d, want %d", path.Hops(), tt.wantHops)
			}
			if path.Direct.ID != tt.wantDirect {
				t.Errorf("Direct.ID = %s, want %s", path.Direct.ID, tt.wantDirect)
			}
			if tt.wantHops == 2 && path.Intermediate == nil {
				t.Error("Intermediate = nil for a two hop path")
			}
		})
	}
}

func TestResolveDepthBound(t *testing.T) {
	// A long chain that eventually reaches auth.users must still
	// resolve to nil: the search never goes past two constraints.
	table := &ir.Table{Schema: "public", Name: "a"}
	constraints := []*ir.ForeignKeyConstraint{
		fk("1", "public", "a", "b_id", "public", "b", "id"),
		fk("2", "public", "b", "c_id", "public", "c", "id"),
		fk("3", "public", "c", "d_id", "public", "d", "id"),
		fk("4", "public", "d", "user_id", "auth", "users", "id"),
	}
	if path := Resolve(table, constraints); path != nil {
		t.Fatalf("Resolve() = %+v, want nil for chain longer than 2", path)
	}
}
