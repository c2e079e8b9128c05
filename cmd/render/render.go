package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgpolicy/pgpolicy/cmd/util"
	"github.com/pgpolicy/pgpolicy/internal/diff"
	"github.com/pgpolicy/pgpolicy/internal/ir"
	"github.com/spf13/cobra"
)

var (
	host     string
	port     int
	db       string
	user     string
	password string

	schema  string
	table   string
	name    string
	origin  string
	command string
	action  string
	roles   []string
	using   string
	check   string
)

var RenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the SQL for a policy edit",
	Long: `Render the DDL for creating or editing a row-level security policy.

Without --original the form renders as a CREATE POLICY statement and no
database connection is needed. With --original the named policy is read
from the database and only the clauses that differ are emitted as ALTER
POLICY statements inside a transaction.`,
	RunE: runRender,
}

func init() {
	RenderCmd.Flags().StringVar(&host, "host", "localhost", "Database server host")
	RenderCmd.Flags().IntVar(&port, "port", 5432, "Database server port")
	RenderCmd.Flags().StringVar(&db, "db", "", "Database name (required with --original)")
	RenderCmd.Flags().StringVar(&user, "user", "", "Database user name (required with --original)")
	RenderCmd.Flags().StringVar(&password, "password", "", "Database password (optional, can also use PGPASSWORD env var)")
	RenderCmd.Flags().StringVar(&schema, "schema", "public", "Schema containing the table")
	RenderCmd.Flags().StringVar(&table, "table", "", "Table the policy applies to (required)")
	RenderCmd.Flags().StringVar(&name, "name", "", "Policy name (required)")
	RenderCmd.Flags().StringVar(&origin, "original", "", "Name of the existing policy being edited")
	RenderCmd.Flags().StringVar(&command, "command", "ALL", "Policy command (ALL, SELECT, INSERT, UPDATE, DELETE)")
	RenderCmd.Flags().StringVar(&action, "action", "PERMISSIVE", "Policy action (PERMISSIVE or RESTRICTIVE)")
	RenderCmd.Flags().StringSliceVar(&roles, "roles", nil, "Roles the policy applies to (default public)")
	RenderCmd.Flags().StringVar(&using, "using", "", "USING expression")
	RenderCmd.Flags().StringVar(&check, "check", "", "WITH CHECK expression")
	RenderCmd.MarkFlagRequired("table")
	RenderCmd.MarkFlagRequired("name")
	RenderCmd.PreRunE = preRunRender
}

// preRunRender applies PG* environment fallbacks but only insists on
// connection parameters when an original policy has to be read.
func preRunRender(cmd *cobra.Command, args []string) error {
	if util.GetEnvWithDefault("PGDATABASE", "") != "" && !cmd.Flags().Changed("db") {
		db = util.GetEnvWithDefault("PGDATABASE", "")
	}
	if util.GetEnvWithDefault("PGUSER", "") != "" && !cmd.Flags().Changed("user") {
		user = util.GetEnvWithDefault("PGUSER", "")
	}
	if util.GetEnvWithDefault("PGHOST", "") != "" && !cmd.Flags().Changed("host") {
		host = util.GetEnvWithDefault("PGHOST", "")
	}
	if util.GetEnvIntWithDefault("PGPORT", 0) != 0 && !cmd.Flags().Changed("port") {
		port = util.GetEnvIntWithDefault("PGPORT", 0)
	}

	if origin != "" {
		if db == "" {
			return fmt.Errorf("database name is required with --original (use --db flag or PGDATABASE environment variable)")
		}
		if user == "" {
			return fmt.Errorf("database user is required with --original (use --user flag or PGUSER environment variable)")
		}
	}
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	form := &ir.PolicyForm{
		Name:    name,
		Schema:  schema,
		Table:   table,
		Command: ir.PolicyCommand(strings.ToUpper(command)),
		Action:  ir.PolicyAction(strings.ToUpper(action)),
		Roles:   roles,
	}
	if cmd.Flags().Changed("using") {
		form.Definition = ir.Ptr(using)
	}
	if cmd.Flags().Changed("check") {
		form.Check = ir.Ptr(check)
	}

	var original *ir.Policy
	if origin != "" {
		policy, err := lookupPolicy(origin)
		if err != nil {
			return err
		}
		original = policy
	}

	change := diff.Compute(form, original)
	if change.Kind == diff.ChangeNone {
		fmt.Println("-- No changes")
		return nil
	}

	fmt.Printf("-- %s\n", change.Description)
	fmt.Println(change.Statement)
	return nil
}

func lookupPolicy(policyName string) (*ir.Policy, error) {
	config := &util.ConnectionConfig{
		Host:     host,
		Port:     port,
		Database: db,
		User:     user,
		Password: util.ResolvePassword(password),
	}

	conn, err := util.Connect(config)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	ctx := context.Background()

	inspector := ir.NewInspector(conn)
	catalog, err := inspector.BuildCatalog(ctx, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table: %w", err)
	}

	for _, policy := range catalog.Policies {
		if policy.Name == policyName {
			return policy, nil
		}
	}
	return nil, fmt.Errorf("policy %q not found on %s.%s", policyName, schema, table)
}
