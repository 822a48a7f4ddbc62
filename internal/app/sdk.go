package app

import (
	"context"

	"github.com/spanalyzer/spanalyzer/pkg/graph"
)

// SDK is the surface of the Graph client the commands depend on. Commands
// take this interface so tests can substitute a mock.
type SDK interface {
	GetMe(ctx context.Context) (graph.User, error)
	DiscoverSites(ctx context.Context) ([]graph.Site, error)
	GetSite(ctx context.Context, siteID string) (graph.Site, error)
	ListLibraries(ctx context.Context, siteID string) ([]graph.Library, error)
	AnalyzeSite(ctx context.Context, siteID string) (graph.SiteAnalysis, error)
	AnalyzeAll(ctx context.Context, sites []graph.Site, opts graph.AnalyzeOptions) []graph.SiteAnalysis
}

// LiveSDK implements SDK against the real Graph API.
type LiveSDK struct {
	client *graph.Client
}

// NewLiveSDK wraps a configured Graph client.
func NewLiveSDK(client *graph.Client) *LiveSDK {
	return &LiveSDK{client: client}
}

func (s *LiveSDK) GetMe(ctx context.Context) (graph.User, error) {
	return s.client.GetMe(ctx)
}

func (s *LiveSDK) DiscoverSites(ctx context.Context) ([]graph.Site, error) {
	return s.client.DiscoverSites(ctx)
}

func (s *LiveSDK) GetSite(ctx context.Context, siteID string) (graph.Site, error) {
	return s.client.GetSite(ctx, siteID)
}

func (s *LiveSDK) ListLibraries(ctx context.Context, siteID string) ([]graph.Library, error) {
	return s.client.ListLibraries(ctx, siteID)
}

func (s *LiveSDK) AnalyzeSite(ctx context.Context, siteID string) (graph.SiteAnalysis, error) {
	return s.client.AnalyzeSite(ctx, siteID)
}

func (s *LiveSDK) AnalyzeAll(ctx context.Context, sites []graph.Site, opts graph.AnalyzeOptions) []graph.SiteAnalysis {
	return s.client.AnalyzeAll(ctx, sites, opts)
}
