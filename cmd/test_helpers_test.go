package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/spanalyzer/spanalyzer/internal/app"
	"github.com/spanalyzer/spanalyzer/internal/config"
	"github.com/spanalyzer/spanalyzer/internal/logger"
	"github.com/spanalyzer/spanalyzer/internal/session"
	"github.com/spanalyzer/spanalyzer/internal/ui"
	"github.com/spanalyzer/spanalyzer/pkg/graph"
)

// MockSDK implements app.SDK for command tests. Unset function fields
// return zero values.
type MockSDK struct {
	GetMeFunc         func(ctx context.Context) (graph.User, error)
	DiscoverSitesFunc func(ctx context.Context) ([]graph.Site, error)
	GetSiteFunc       func(ctx context.Context, siteID string) (graph.Site, error)
	ListLibrariesFunc func(ctx context.Context, siteID string) ([]graph.Library, error)
	AnalyzeSiteFunc   func(ctx context.Context, siteID string) (graph.SiteAnalysis, error)
	AnalyzeAllFunc    func(ctx context.Context, sites []graph.Site, opts graph.AnalyzeOptions) []graph.SiteAnalysis
}

func (m *MockSDK) GetMe(ctx context.Context) (graph.User, error) {
	if m.GetMeFunc != nil {
		return m.GetMeFunc(ctx)
	}
	return graph.User{}, nil
}

func (m *MockSDK) DiscoverSites(ctx context.Context) ([]graph.Site, error) {
	if m.DiscoverSitesFunc != nil {
		return m.DiscoverSitesFunc(ctx)
	}
	return nil, nil
}

func (m *MockSDK) GetSite(ctx context.Context, siteID string) (graph.Site, error) {
	if m.GetSiteFunc != nil {
		return m.GetSiteFunc(ctx, siteID)
	}
	return graph.Site{}, nil
}

func (m *MockSDK) ListLibraries(ctx context.Context, siteID string) ([]graph.Library, error) {
	if m.ListLibrariesFunc != nil {
		return m.ListLibrariesFunc(ctx, siteID)
	}
	return nil, nil
}

func (m *MockSDK) AnalyzeSite(ctx context.Context, siteID string) (graph.SiteAnalysis, error) {
	if m.AnalyzeSiteFunc != nil {
		return m.AnalyzeSiteFunc(ctx, siteID)
	}
	return graph.SiteAnalysis{}, errors.New("not implemented")
}

func (m *MockSDK) AnalyzeAll(ctx context.Context, sites []graph.Site, opts graph.AnalyzeOptions) []graph.SiteAnalysis {
	if m.AnalyzeAllFunc != nil {
		return m.AnalyzeAllFunc(ctx, sites, opts)
	}
	return nil
}

// newTestApp builds an App around a mock SDK. Output is captured in the
// returned buffer; config lives in a temp dir.
func newTestApp(t *testing.T, sdk app.SDK) (*app.App, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	cfg, err := config.LoadOrCreateFrom(dir)
	require.NoError(t, err)

	var out bytes.Buffer
	return &app.App{
		Config:   cfg,
		Sessions: session.NewManager(dir),
		Logger:   logger.NoopLogger{},
		Printer:  ui.NewPrinter(&out),
		SDK:      sdk,
	}, &out
}

// newTestCommand returns a throwaway command carrying a background context,
// for logic functions that read cmd.Context().
func newTestCommand(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.SetContext(context.Background())
	return cmd
}
