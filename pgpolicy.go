// Package pgpolicy provides a programmatic API for PostgreSQL row-level
// security policy management: suggesting starting policies from a
// table's foreign keys, listing smart templates from its column shape,
// and rendering the DDL for policy edits.
package pgpolicy

import (
	"context"
	"fmt"

	"github.com/pgpolicy/pgpolicy/cmd/util"
	"github.com/pgpolicy/pgpolicy/internal/ai"
	"github.com/pgpolicy/pgpolicy/internal/diff"
	"github.com/pgpolicy/pgpolicy/internal/generate"
	"github.com/pgpolicy/pgpolicy/internal/ir"
)

// DatabaseConfig holds connection details for a PostgreSQL database.
type DatabaseConfig struct {
	Host     string // Database server host
	Port     int    // Database server port
	Database string // Database name
	User     string // Database user
	Password string // Database password (optional)
	Schema   string // Target schema name (default: "public")
}

// SuggestOptions configures policy suggestion.
type SuggestOptions struct {
	Table string // Table to suggest policies for (required)

	// AI fallback, consulted only when the table has no foreign key
	// path to auth.users.
	EnableAI   bool
	AIEndpoint string
	ProjectRef string
}

// TemplateOptions configures template listing.
type TemplateOptions struct {
	Table string // Table to list templates for (required)
}

// Client provides the main interface for pgpolicy operations.
type Client struct {
	defaultDB DatabaseConfig
}

// NewClient creates a new pgpolicy client with default database configuration.
func NewClient(dbConfig DatabaseConfig) *Client {
	if dbConfig.Schema == "" {
		dbConfig.Schema = "public"
	}
	return &Client{defaultDB: dbConfig}
}

// Suggest inspects the table and returns suggested starting policies.
// Tables with a foreign key path to auth.users (at most one
// intermediate table) get programmatically generated ownership
// policies; otherwise the AI endpoint is consulted when enabled.
func (c *Client) Suggest(ctx context.Context, opts SuggestOptions) ([]GeneratedPolicy, error) {
	if opts.Table == "" {
		return nil, fmt.Errorf("table name is required")
	}

	config := c.connectionConfig()
	conn, err := util.Connect(config)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	inspector := ir.NewInspector(conn)
	catalog, err := inspector.BuildCatalog(ctx, c.defaultDB.Schema, opts.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table: %w", err)
	}

	genOpts := generate.StartingPolicyOptions{
		Table:       catalog.Table,
		Constraints: catalog.Constraints,
		EnableAI:    opts.EnableAI,
		ProjectRef:  opts.ProjectRef,
	}
	if opts.EnableAI && opts.AIEndpoint != "" {
		genOpts.AI = ai.NewClient(opts.AIEndpoint, nil)
		genOpts.ConnectionString = util.BuildDSN(config)
	}

	return generate.StartingPolicies(ctx, genOpts), nil
}

// Templates inspects the table and returns the smart policy templates
// its column shape unlocks.
func (c *Client) Templates(ctx context.Context, opts TemplateOptions) ([]PolicyTemplate, error) {
	if opts.Table == "" {
		return nil, fmt.Errorf("table name is required")
	}

	conn, err := util.Connect(c.connectionConfig())
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	inspector := ir.NewInspector(conn)
	catalog, err := inspector.BuildCatalog(ctx, c.defaultDB.Schema, opts.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table: %w", err)
	}

	return generate.SmartTemplates(c.defaultDB.Schema, opts.Table, catalog.Table.Columns), nil
}

// Render synthesizes the DDL for a policy form. With a nil original the
// form renders as a CREATE POLICY statement; with an original present
// only the clauses that differ render, as ALTER POLICY statements
// inside a transaction. No database connection is used.
func (c *Client) Render(form *PolicyForm, original *Policy) Change {
	return diff.Compute(form, original)
}

func (c *Client) connectionConfig() *util.ConnectionConfig {
	return &util.ConnectionConfig{
		Host:     c.defaultDB.Host,
		Port:     c.defaultDB.Port,
		Database: c.defaultDB.Database,
		User:     c.defaultDB.User,
		Password: c.defaultDB.Password,
	}
}
