package pgpolicy

import (
	"context"
	"strings"
	"testing"
)

func TestNewClientDefaultsSchema(t *testing.T) {
	client := NewClient(DatabaseConfig{Database: "app", User: "postgres"})
	if client.defaultDB.Schema != "public" {
		t.Errorf("default schema = %q, want %q", client.defaultDB.Schema, "public")
	}

	client = NewClient(DatabaseConfig{Database: "app", User: "postgres", Schema: "tenant_a"})
	if client.defaultDB.Schema != "tenant_a" {
		t.Errorf("schema = %q, want %q", client.defaultDB.Schema, "tenant_a")
	}
}

func TestClientRenderWithoutDatabase(t *testing.T) {
	client := NewClient(DatabaseConfig{})

	form := &PolicyForm{
		Name:       "read_own",
		Schema:     "public",
		Table:      "posts",
		Command:    PolicyCommand("SELECT"),
		Definition: Ptr("(select auth.uid()) = user_id"),
	}

	change := client.Render(form, nil)
	if change.Kind != ChangeCreate {
		t.Fatalf("change kind = %q, want %q", change.Kind, ChangeCreate)
	}
	if !strings.Contains(change.Statement, "CREATE POLICY") {
		t.Errorf("statement missing CREATE POLICY:\n%s", change.Statement)
	}
}

func TestClientSuggestRequiresTable(t *testing.T) {
	client := NewClient(DatabaseConfig{Database: "app", User: "postgres"})
	if _, err := client.Suggest(context.Background(), SuggestOptions{}); err == nil {
		t.Fatal("Suggest() error = nil, want error for missing table")
	}
}

func TestClientTemplatesRequiresTable(t *testing.T) {
	client := NewClient(DatabaseConfig{Database: "app", User: "postgres"})
	if _, err := client.Templates(context.Background(), TemplateOptions{}); err == nil {
		t.Fatal("Templates() error = nil, want error for missing table")
	}
}
