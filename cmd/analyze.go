package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spanalyzer/spanalyzer/internal/app"
	"github.com/spanalyzer/spanalyzer/internal/report"
	"github.com/spanalyzer/spanalyzer/internal/ui"
	"github.com/spanalyzer/spanalyzer/pkg/graph"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Crawl sites and write a permissions report",
	Long: `Discovers your SharePoint sites (or uses the ones given with --site),
walks every document library for shared links and permission grants, and
writes the result to a report file.

A site that cannot be fetched is skipped with a warning; the report covers
the sites that succeeded. The command fails without writing a report when
no site can be analyzed at all.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd)
		if err != nil {
			if errors.Is(err, graph.ErrReauthRequired) {
				return errors.New("not logged in, run 'spanalyzer auth login' first")
			}
			return err
		}

		siteIDs, _ := cmd.Flags().GetStringSlice("site")
		output, _ := cmd.Flags().GetString("output")
		format, _ := cmd.Flags().GetString("format")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		return analyzeLogic(a, cmd, analyzeOptions{
			siteIDs:     siteIDs,
			output:      output,
			format:      format,
			concurrency: concurrency,
		})
	},
}

type analyzeOptions struct {
	siteIDs     []string
	output      string
	format      string
	concurrency int
}

func analyzeLogic(a *app.App, cmd *cobra.Command, opts analyzeOptions) error {
	ctx := cmd.Context()

	formatName := opts.format
	if formatName == "" {
		formatName = a.Config.Format
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = a.Config.Output
	}
	// Keep the extension honest when only the format was switched.
	if opts.format != "" && opts.output == "" && !strings.HasSuffix(output, format.Extension()) {
		output = strings.TrimSuffix(strings.TrimSuffix(output, ".html"), ".md") + format.Extension()
	}

	sites, err := resolveSites(a, cmd, opts.siteIDs)
	if err != nil {
		return err
	}
	if len(sites) == 0 {
		return errors.New("no accessible SharePoint sites found, nothing to analyze")
	}

	bar := ui.NewProgressBar(len(sites), "Analyzing sites")
	analyses := a.SDK.AnalyzeAll(ctx, sites, graph.AnalyzeOptions{
		Concurrency: opts.concurrency,
		Progress: func(done, total int, site graph.Site) {
			_ = bar.Add(1)
		},
	})
	_ = bar.Finish()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("analysis interrupted: %w", err)
	}
	if len(analyses) == 0 {
		return errors.New("no site could be analyzed, report not written")
	}
	skipped := len(sites) - len(analyses)

	results := make([]*graph.SiteAnalysis, len(analyses))
	for i := range analyses {
		results[i] = &analyses[i]
	}

	// Render fully in memory so a failed run never leaves a partial file.
	var buf bytes.Buffer
	writer, err := report.NewWriter(format, &buf)
	if err != nil {
		return err
	}
	if err := writer.Write(report.New(results, skipped)); err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}

	a.Printer.Summary(results, skipped)
	a.Printer.Success("Report written to %s", output)
	return nil
}

// resolveSites returns the sites to analyze: the explicit --site list when
// given, otherwise everything discovery can find.
func resolveSites(a *app.App, cmd *cobra.Command, siteIDs []string) ([]graph.Site, error) {
	if len(siteIDs) > 0 {
		sites := make([]graph.Site, 0, len(siteIDs))
		for _, id := range siteIDs {
			if id == "" {
				continue
			}
			// The analyzer fetches the full record itself; the ID is enough.
			sites = append(sites, graph.Site{ID: id, DisplayName: id})
		}
		return sites, nil
	}

	sites, err := a.SDK.DiscoverSites(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("discovering sites: %w", err)
	}
	return sites, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringSlice("site", nil, "Analyze only these site IDs (repeatable)")
	analyzeCmd.Flags().StringP("output", "o", "", "Report file path (default from configuration)")
	analyzeCmd.Flags().StringP("format", "f", "", "Report format: html or markdown (default from configuration)")
	analyzeCmd.Flags().IntP("concurrency", "c", 1, "Number of sites analyzed in parallel")
}
