package suggest

import (
	"context"
	"fmt"

	"github.com/pgpolicy/pgpolicy/cmd/util"
	"github.com/pgpolicy/pgpolicy/internal/ai"
	"github.com/pgpolicy/pgpolicy/internal/generate"
	"github.com/pgpolicy/pgpolicy/internal/ir"
	"github.com/spf13/cobra"
)

var (
	host       string
	port       int
	db         string
	user       string
	password   string
	schema     string
	table      string
	enableAI   bool
	aiEndpoint string
	projectRef string
)

var SuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest starting RLS policies for a table",
	Long: `Suggest row-level security policies for a table by walking its foreign
keys to auth.users. When an ownership path exists the policies are
generated programmatically; otherwise an AI endpoint can be consulted
with --ai.`,
	RunE: runSuggest,
}

func init() {
	SuggestCmd.Flags().StringVar(&host, "host", "localhost", "Database server host")
	SuggestCmd.Flags().IntVar(&port, "port", 5432, "Database server port")
	SuggestCmd.Flags().StringVar(&db, "db", "", "Database name (required)")
	SuggestCmd.Flags().StringVar(&user, "user", "", "Database user name (required)")
	SuggestCmd.Flags().StringVar(&password, "password", "", "Database password (optional, can also use PGPASSWORD env var)")
	SuggestCmd.Flags().StringVar(&schema, "schema", "public", "Schema containing the table")
	SuggestCmd.Flags().StringVar(&table, "table", "", "Table to suggest policies for (required)")
	SuggestCmd.Flags().BoolVar(&enableAI, "ai", false, "Consult the AI endpoint when no ownership path exists")
	SuggestCmd.Flags().StringVar(&aiEndpoint, "ai-endpoint", "", "AI policy generation endpoint URL")
	SuggestCmd.Flags().StringVar(&projectRef, "project-ref", "", "Project reference forwarded to the AI endpoint")
	SuggestCmd.MarkFlagRequired("table")
	SuggestCmd.PreRunE = util.PreRunEWithEnvVars(&db, &user, &host, &port)
}

func runSuggest(cmd *cobra.Command, args []string) error {
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

	opts := generate.StartingPolicyOptions{
		Table:       catalog.Table,
		Constraints: catalog.Constraints,
		EnableAI:    enableAI,
		ProjectRef:  projectRef,
	}
	if enableAI && aiEndpoint != "" {
		opts.AI = ai.NewClient(aiEndpoint, nil)
		opts.ConnectionString = util.BuildDSN(config)
	}

	policies := generate.StartingPolicies(ctx, opts)
	if len(policies) == 0 {
		fmt.Printf("-- No policy suggestions for %s.%s\n", schema, table)
		return nil
	}

	for i, policy := range policies {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("-- %s\n", policy.Name)
		fmt.Println(policy.SQL)
	}
	return nil
}
