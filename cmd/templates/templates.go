package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pgpolicy/pgpolicy/cmd/util"
	"github.com/pgpolicy/pgpolicy/internal/generate"
	"github.com/pgpolicy/pgpolicy/internal/ir"
	"github.com/spf13/cobra"
)

var (
	host     string
	port     int
	db       string
	user     string
	password string
	schema   string
	table    string
	asJSON   bool
)

var TemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List smart policy templates for a table",
	Long: `List ready-to-use RLS policy templates tailored to a table's column
shape. Ownership, tenant, organization and timestamp columns each
unlock additional templates beyond the baseline read and insert pair.`,
	RunE: runTemplates,
}

func init() {
	TemplatesCmd.Flags().StringVar(&host, "host", "localhost", "Database server host")
	TemplatesCmd.Flags().IntVar(&port, "port", 5432, "Database server port")
	TemplatesCmd.Flags().StringVar(&db, "db", "", "Database name (required)")
	TemplatesCmd.Flags().StringVar(&user, "user", "", "Database user name (required)")
	TemplatesCmd.Flags().StringVar(&password, "password", "", "Database password (optional, can also use PGPASSWORD env var)")
	TemplatesCmd.Flags().StringVar(&schema, "schema", "public", "Schema containing the table")
	TemplatesCmd.Flags().StringVar(&table, "table", "", "Table to list templates for (required)")
	TemplatesCmd.Flags().BoolVar(&asJSON, "json", false, "Emit templates as JSON")
	TemplatesCmd.MarkFlagRequired("table")
	TemplatesCmd.PreRunE = util.PreRunEWithEnvVars(&db, &user, &host, &port)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	config := &util.ConnectionConfig{
		Host:     host,
		Port:     port,
		Database: db,
		User:     user,
		Password: util.ResolvePassword(password),
	}

	conn, err := util.Connect(config)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := context.Background()

	inspector := ir.NewInspector(conn)
	catalog, err := inspector.BuildCatalog(ctx, schema, table)
	if err != nil {
		return fmt.Errorf("failed to inspect table: %w", err)
	}

	list := generate.SmartTemplates(schema, table, catalog.Table.Columns)

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(list)
	}

	for i, tmpl := range list {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("-- %s: %s\n", tmpl.TemplateName, tmpl.Description)
		fmt.Println(tmpl.Statement)
	}
	return nil
}
