package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spanalyzer/spanalyzer/internal/app"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Discover and inspect SharePoint sites",
}

var sitesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the SharePoint sites you can access",
	Long: `Discovers sites through a series of Graph queries, starting with a
tenant-wide search and falling back to the root site and followed drives.
An empty list means none of the strategies surfaced a site for this account.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd)
		if err != nil {
			return err
		}
		return sitesListLogic(a, cmd)
	},
}

func sitesListLogic(a *app.App, cmd *cobra.Command) error {
	sites, err := a.SDK.DiscoverSites(cmd.Context())
	if err != nil {
		return fmt.Errorf("discovering sites: %w", err)
	}
	a.Printer.Sites(sites)
	return nil
}

var sitesGetCmd = &cobra.Command{
	Use:   "get <site-id>",
	Short: "Show one site's metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd)
		if err != nil {
			return err
		}
		return sitesGetLogic(a, cmd, args[0])
	},
}

func sitesGetLogic(a *app.App, cmd *cobra.Command, siteID string) error {
	site, err := a.SDK.GetSite(cmd.Context(), siteID)
	if err != nil {
		return fmt.Errorf("fetching site %s: %w", siteID, err)
	}
	a.Printer.Site(site)
	return nil
}

var sitesLibrariesCmd = &cobra.Command{
	Use:   "libraries <site-id>",
	Short: "List a site's document libraries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd)
		if err != nil {
			return err
		}
		return sitesLibrariesLogic(a, cmd, args[0])
	},
}

func sitesLibrariesLogic(a *app.App, cmd *cobra.Command, siteID string) error {
	libraries, err := a.SDK.ListLibraries(cmd.Context(), siteID)
	if err != nil {
		return fmt.Errorf("listing libraries for site %s: %w", siteID, err)
	}
	a.Printer.Libraries(libraries)
	return nil
}

func init() {
	rootCmd.AddCommand(sitesCmd)
	sitesCmd.AddCommand(sitesListCmd)
	sitesCmd.AddCommand(sitesGetCmd)
	sitesCmd.AddCommand(sitesLibrariesCmd)
}
