package cmd

import (
	"fmt"

	"github.com/pgpolicy/pgpolicy/internal/version"
	"github.com/spf13/cobra"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display the version number of pgpolicy",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pgpolicy v%s@%s %s %s\n", version.Version(), version.GetGitCommit(), version.Platform(), version.GetBuildDate())
	},
}
