package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spanalyzer/spanalyzer/pkg/graph"
)

func analysisFor(site graph.Site) graph.SiteAnalysis {
	return graph.SiteAnalysis{
		SiteInfo: site,
		Libraries: []graph.Library{
			{
				ID:          "lib-" + site.ID,
				Name:        "Documents",
				SharedLinks: []graph.SharedLink{{ID: "item-1", Name: "notes.docx"}},
				Permissions: []graph.Permission{{ID: "perm-1", Roles: []string{"read"}}},
			},
		},
		TotalLibraries:   1,
		TotalSharedLinks: 1,
		TotalPermissions: 1,
	}
}

func TestAnalyzeLogic_WritesHTMLReport(t *testing.T) {
	sites := []graph.Site{
		{ID: "s1", DisplayName: "Team Site"},
		{ID: "s2", DisplayName: "HR"},
	}
	sdk := &MockSDK{
		DiscoverSitesFunc: func(ctx context.Context) ([]graph.Site, error) {
			return sites, nil
		},
		AnalyzeAllFunc: func(ctx context.Context, got []graph.Site, opts graph.AnalyzeOptions) []graph.SiteAnalysis {
			assert.Equal(t, sites, got)
			return []graph.SiteAnalysis{analysisFor(sites[0]), analysisFor(sites[1])}
		},
	}
	a, out := newTestApp(t, sdk)

	output := filepath.Join(t.TempDir(), "report.html")
	err := analyzeLogic(a, newTestCommand(t), analyzeOptions{output: output})
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
	assert.Contains(t, string(data), "Team Site")
	assert.Contains(t, out.String(), "Report written to")
}

func TestAnalyzeLogic_MarkdownFormat(t *testing.T) {
	site := graph.Site{ID: "s1", DisplayName: "Team Site"}
	sdk := &MockSDK{
		DiscoverSitesFunc: func(ctx context.Context) ([]graph.Site, error) {
			return []graph.Site{site}, nil
		},
		AnalyzeAllFunc: func(ctx context.Context, got []graph.Site, opts graph.AnalyzeOptions) []graph.SiteAnalysis {
			return []graph.SiteAnalysis{analysisFor(site)}
		},
	}
	a, _ := newTestApp(t, sdk)

	output := filepath.Join(t.TempDir(), "report.md")
	err := analyzeLogic(a, newTestCommand(t), analyzeOptions{output: output, format: "markdown"})
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# SharePoint Permissions Analysis")
}

func TestAnalyzeLogic_ExplicitSitesSkipDiscovery(t *testing.T) {
	discoveryCalled := false
	sdk := &MockSDK{
		DiscoverSitesFunc: func(ctx context.Context) ([]graph.Site, error) {
			discoveryCalled = true
			return nil, nil
		},
		AnalyzeAllFunc: func(ctx context.Context, got []graph.Site, opts graph.AnalyzeOptions) []graph.SiteAnalysis {
			require.Len(t, got, 2)
			assert.Equal(t, "s1", got[0].ID)
			assert.Equal(t, "s2", got[1].ID)
			return []graph.SiteAnalysis{analysisFor(got[0])}
		},
	}
	a, _ := newTestApp(t, sdk)

	output := filepath.Join(t.TempDir(), "report.html")
	err := analyzeLogic(a, newTestCommand(t), analyzeOptions{
		siteIDs: []string{"s1", "s2"},
		output:  output,
	})
	require.NoError(t, err)
	assert.False(t, discoveryCalled)
}

func TestAnalyzeLogic_NoSitesIsFatal(t *testing.T) {
	a, _ := newTestApp(t, &MockSDK{})

	output := filepath.Join(t.TempDir(), "report.html")
	err := analyzeLogic(a, newTestCommand(t), analyzeOptions{output: output})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no accessible SharePoint sites")
	assert.NoFileExists(t, output)
}

func TestAnalyzeLogic_AllSitesFailedIsFatal(t *testing.T) {
	sdk := &MockSDK{
		DiscoverSitesFunc: func(ctx context.Context) ([]graph.Site, error) {
			return []graph.Site{{ID: "s1"}}, nil
		},
		AnalyzeAllFunc: func(ctx context.Context, got []graph.Site, opts graph.AnalyzeOptions) []graph.SiteAnalysis {
			return nil
		},
	}
	a, _ := newTestApp(t, sdk)

	output := filepath.Join(t.TempDir(), "report.html")
	err := analyzeLogic(a, newTestCommand(t), analyzeOptions{output: output})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report not written")
	assert.NoFileExists(t, output)
}

func TestAnalyzeLogic_SkippedSitesReported(t *testing.T) {
	sites := []graph.Site{{ID: "s1", DisplayName: "OK"}, {ID: "s2", DisplayName: "Broken"}}
	sdk := &MockSDK{
		DiscoverSitesFunc: func(ctx context.Context) ([]graph.Site, error) {
			return sites, nil
		},
		AnalyzeAllFunc: func(ctx context.Context, got []graph.Site, opts graph.AnalyzeOptions) []graph.SiteAnalysis {
			return []graph.SiteAnalysis{analysisFor(sites[0])}
		},
	}
	a, out := newTestApp(t, sdk)

	output := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, analyzeLogic(a, newTestCommand(t), analyzeOptions{output: output}))
	assert.Contains(t, out.String(), "Skipped 1 unavailable site(s).")
}

func TestAnalyzeLogic_RejectsUnknownFormat(t *testing.T) {
	a, _ := newTestApp(t, &MockSDK{})

	err := analyzeLogic(a, newTestCommand(t), analyzeOptions{format: "pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report format")
}

func TestAnalyzeLogic_ConcurrencyPassedThrough(t *testing.T) {
	site := graph.Site{ID: "s1", DisplayName: "Team Site"}
	var seen int
	sdk := &MockSDK{
		DiscoverSitesFunc: func(ctx context.Context) ([]graph.Site, error) {
			return []graph.Site{site}, nil
		},
		AnalyzeAllFunc: func(ctx context.Context, got []graph.Site, opts graph.AnalyzeOptions) []graph.SiteAnalysis {
			seen = opts.Concurrency
			return []graph.SiteAnalysis{analysisFor(site)}
		},
	}
	a, _ := newTestApp(t, sdk)

	output := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, analyzeLogic(a, newTestCommand(t), analyzeOptions{output: output, concurrency: 4}))
	assert.Equal(t, 4, seen)
}
