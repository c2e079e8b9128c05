package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pgpolicy/pgpolicy/cmd/render"
	"github.com/pgpolicy/pgpolicy/cmd/suggest"
	"github.com/pgpolicy/pgpolicy/cmd/templates"
	"github.com/pgpolicy/pgpolicy/internal/logger"
	"github.com/pgpolicy/pgpolicy/internal/version"
	"github.com/spf13/cobra"
)

var Debug bool

var RootCmd = &cobra.Command{
	Use:   "pgpolicy",
	Short: "PostgreSQL row-level security policy toolkit",
	Long: fmt.Sprintf(`pgpolicy is a CLI tool to suggest, template and render PostgreSQL
row-level security policies.

Version: %s@%s %s %s

Commands:
  suggest    Suggest starting policies for a table
  templates  List smart policy templates for a table
  render     Render the SQL for a policy edit

Use "pgpolicy [command] --help" for more information about a command.`,
		version.Version(), version.GetGitCommit(), version.Platform(), version.GetBuildDate()),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "Enable debug logging")
	RootCmd.AddCommand(suggest.SuggestCmd)
	RootCmd.AddCommand(templates.TemplatesCmd)
	RootCmd.AddCommand(render.RenderCmd)
	RootCmd.AddCommand(VersionCmd)
}

func setupLogger() {
	level := slog.LevelInfo
	if Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	logger.SetGlobal(slog.New(slog.NewTextHandler(os.Stderr, opts)))
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
