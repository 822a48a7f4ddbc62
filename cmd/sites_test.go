package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spanalyzer/spanalyzer/pkg/graph"
)

func TestSitesListLogic(t *testing.T) {
	sdk := &MockSDK{
		DiscoverSitesFunc: func(ctx context.Context) ([]graph.Site, error) {
			return []graph.Site{
				{ID: "s1", DisplayName: "Team Site", WebURL: "https://contoso.sharepoint.com/sites/team"},
			}, nil
		},
	}
	a, out := newTestApp(t, sdk)

	require.NoError(t, sitesListLogic(a, newTestCommand(t)))
	assert.Contains(t, out.String(), "Team Site")
}

func TestSitesListLogic_NoSites(t *testing.T) {
	a, out := newTestApp(t, &MockSDK{})

	require.NoError(t, sitesListLogic(a, newTestCommand(t)))
	assert.Contains(t, out.String(), "No accessible SharePoint sites found.")
}

func TestSitesListLogic_DiscoveryError(t *testing.T) {
	sdk := &MockSDK{
		DiscoverSitesFunc: func(ctx context.Context) ([]graph.Site, error) {
			return nil, errors.New("network down")
		},
	}
	a, _ := newTestApp(t, sdk)

	err := sitesListLogic(a, newTestCommand(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discovering sites")
}

func TestSitesGetLogic(t *testing.T) {
	sdk := &MockSDK{
		GetSiteFunc: func(ctx context.Context, siteID string) (graph.Site, error) {
			assert.Equal(t, "s1", siteID)
			return graph.Site{ID: "s1", DisplayName: "Team Site"}, nil
		},
	}
	a, out := newTestApp(t, sdk)

	require.NoError(t, sitesGetLogic(a, newTestCommand(t), "s1"))
	assert.Contains(t, out.String(), "Team Site")
}

func TestSitesLibrariesLogic(t *testing.T) {
	sdk := &MockSDK{
		ListLibrariesFunc: func(ctx context.Context, siteID string) ([]graph.Library, error) {
			assert.Equal(t, "s1", siteID)
			return []graph.Library{
				{ID: "lib1", Name: "Documents", DriveType: "documentLibrary"},
				{ID: "lib2", Name: "Archive", DriveType: "documentLibrary"},
			}, nil
		},
	}
	a, out := newTestApp(t, sdk)

	require.NoError(t, sitesLibrariesLogic(a, newTestCommand(t), "s1"))
	output := out.String()
	assert.Contains(t, output, "Found 2 document library(ies)")
	assert.Contains(t, output, "Documents")
	assert.Contains(t, output, "Archive")
}

func TestSitesLibrariesLogic_Empty(t *testing.T) {
	a, out := newTestApp(t, &MockSDK{})

	require.NoError(t, sitesLibrariesLogic(a, newTestCommand(t), "s1"))
	assert.Contains(t, out.String(), "No document libraries found.")
}

func TestSitesLibrariesLogic_Error(t *testing.T) {
	sdk := &MockSDK{
		ListLibrariesFunc: func(ctx context.Context, siteID string) ([]graph.Library, error) {
			return nil, graph.ErrAccessDenied
		},
	}
	a, _ := newTestApp(t, sdk)

	err := sitesLibrariesLogic(a, newTestCommand(t), "s1")
	assert.ErrorIs(t, err, graph.ErrAccessDenied)
}

func TestSitesGetLogic_NotFound(t *testing.T) {
	sdk := &MockSDK{
		GetSiteFunc: func(ctx context.Context, siteID string) (graph.Site, error) {
			return graph.Site{}, graph.ErrResourceNotFound
		},
	}
	a, _ := newTestApp(t, sdk)

	err := sitesGetLogic(a, newTestCommand(t), "missing")
	assert.ErrorIs(t, err, graph.ErrResourceNotFound)
}
