package ir_test

import (
	"context"
	"testing"

	"github.com/pgpolicy/pgpolicy/internal/ir"
	"github.com/pgpolicy/pgpolicy/testutil"
)

func TestInspectorBuildCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container := testutil.SetupPostgresContainer(ctx, t)
	defer container.Terminate(ctx, t)

	setupSQL := `
		CREATE SCHEMA auth;
		CREATE TABLE auth.users (
			id UUID PRIMARY KEY
		);
		CREATE TABLE posts (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES auth.users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT now()
		);
		ALTER TABLE posts ENABLE ROW LEVEL SECURITY;
		CREATE POLICY read_own ON posts FOR SELECT TO PUBLIC USING (user_id IS NOT NULL);
	`
	if _, err := container.Conn.ExecContext(ctx, setupSQL); err != nil {
		t.Fatalf("Failed to setup schema: %v", err)
	}

	inspector := ir.NewInspector(container.Conn)
	catalog, err := inspector.BuildCatalog(ctx, "public", "posts")
	if err != nil {
		t.Fatalf("BuildCatalog() error = %v", err)
	}

	if got := len(catalog.Table.Columns); got != 4 {
		t.Errorf("catalog has %d columns, want 4", got)
	}
	wantColumns := map[string]string{
		"id":         "uuid",
		"user_id":    "uuid",
		"title":      "text",
		"created_at": "timestamp with time zone",
	}
	for _, col := range catalog.Table.Columns {
		if want, ok := wantColumns[col.Name]; !ok || col.DataType != want {
			t.Errorf("column %s has type %q, want %q", col.Name, col.DataType, want)
		}
	}

	if len(catalog.Constraints) != 1 {
		t.Fatalf("catalog has %d foreign keys, want 1", len(catalog.Constraints))
	}
	fk := catalog.Constraints[0]
	if fk.SourceSchema != "public" || fk.SourceTable != "posts" || fk.TargetSchema != "auth" || fk.TargetTable != "users" {
		t.Errorf("foreign key = %+v, want posts -> auth.users", fk)
	}
	if len(fk.SourceColumns) != 1 || fk.SourceColumns[0] != "user_id" {
		t.Errorf("foreign key source columns = %v, want [user_id]", fk.SourceColumns)
	}
	if fk.DeleteRule != "CASCADE" {
		t.Errorf("foreign key delete rule = %q, want CASCADE", fk.DeleteRule)
	}

	if len(catalog.Policies) != 1 {
		t.Fatalf("catalog has %d policies, want 1", len(catalog.Policies))
	}
	policy := catalog.Policies[0]
	if policy.Name != "read_own" || policy.Command != ir.PolicyCommandSelect {
		t.Errorf("policy = %+v, want read_own for SELECT", policy)
	}
	if policy.Action != ir.PolicyActionPermissive {
		t.Errorf("policy action = %s, want PERMISSIVE", policy.Action)
	}
	if policy.Definition == nil {
		t.Error("policy definition is nil, want USING expression")
	}
	if policy.Check != nil {
		t.Errorf("policy check = %q, want nil for SELECT", *policy.Check)
	}
}

func TestInspectorMissingTable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container := testutil.SetupPostgresContainer(ctx, t)
	defer container.Terminate(ctx, t)

	inspector := ir.NewInspector(container.Conn)
	if _, err := inspector.BuildCatalog(ctx, "public", "missing"); err == nil {
		t.Fatal("BuildCatalog() error = nil, want error for missing table")
	}
}
