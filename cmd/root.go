// Package cmd defines the spanalyzer CLI: authentication management,
// credential storage, site discovery, and the permissions analysis run
// itself.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spanalyzer/spanalyzer/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "spanalyzer",
	Short: "Analyze SharePoint sites for shared links and permissions",
	Long: `spanalyzer crawls the SharePoint sites you can access through Microsoft
Graph, walks every document library, and collects the shared links and
permission grants it finds. The result is rendered as a standalone HTML or
Markdown report.

Typical workflow:
  spanalyzer auth login     start a device code sign-in
  spanalyzer sites list     check which sites are visible
  spanalyzer analyze        crawl everything and write the report`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the CLI. The context carries signal cancellation from main.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// The pending-login message has already been shown where the error
		// was detected; avoid a duplicate generic line.
		if !errors.Is(err, app.ErrLoginPending) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
