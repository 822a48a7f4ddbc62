package graph

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// AnalyzeOptions tunes a whole-tenant analysis run.
type AnalyzeOptions struct {
	// Concurrency is the number of sites analyzed in parallel. Values
	// below 2 run the crawl sequentially.
	Concurrency int
	// Progress, when set, is called after each site finishes (analyzed or
	// skipped). done counts finished sites out of total.
	Progress func(done, total int, site Site)
}

// AnalyzeSite crawls one site: its record, its libraries, and each library's
// shared links and permissions, then assembles the totals.
//
// If the site record itself cannot be fetched the whole site is skipped via
// ErrSiteUnavailable - the caller must not read that as "zero libraries".
// Failures below the site level degrade: a library whose links or
// permissions cannot be listed keeps empty collections, and never disturbs
// its siblings.
func (c *Client) AnalyzeSite(ctx context.Context, siteID string) (SiteAnalysis, error) {
	site, err := c.GetSite(ctx, siteID)
	if err != nil {
		return SiteAnalysis{}, fmt.Errorf("%w: %s: %v", ErrSiteUnavailable, siteID, err)
	}

	libraries, err := c.ListLibraries(ctx, siteID)
	if err != nil {
		c.logger.Warn("listing libraries failed", "site", siteID, "error", err)
		libraries = []Library{}
	}

	for i := range libraries {
		driveID := libraries[i].ID

		links, err := c.ListSharedLinks(ctx, siteID, driveID)
		if err != nil {
			c.logger.Warn("listing shared links failed", "site", siteID, "drive", driveID, "error", err)
			links = []SharedLink{}
		}
		libraries[i].SharedLinks = links

		permissions, err := c.ListPermissions(ctx, siteID, driveID)
		if err != nil {
			c.logger.Warn("listing permissions failed", "site", siteID, "drive", driveID, "error", err)
			permissions = []Permission{}
		}
		libraries[i].Permissions = permissions
	}

	analysis := newSiteAnalysis(site, libraries)
	c.logger.Info("site analysis complete",
		"site", site.DisplayName,
		"libraries", analysis.TotalLibraries,
		"shared_links", analysis.TotalSharedLinks,
		"permissions", analysis.TotalPermissions)
	return analysis, nil
}

// AnalyzeAll analyzes every given site. One bad site never aborts the
// batch: failures are logged and skipped, and the returned slice keeps the
// input order of the sites that succeeded.
//
// With Concurrency > 1 sites are crawled in parallel under an errgroup
// limit. Token refresh stays single-flight inside the client, and a 429 on
// any call pauses the whole batch rather than each worker retrying on its
// own.
func (c *Client) AnalyzeAll(ctx context.Context, sites []Site, opts AnalyzeOptions) []SiteAnalysis {
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	results := make([]*SiteAnalysis, len(sites))

	var mu sync.Mutex
	done := 0
	finished := func(site Site) {
		if opts.Progress == nil {
			return
		}
		mu.Lock()
		done++
		opts.Progress(done, len(sites), site)
		mu.Unlock()
	}

	g := new(errgroup.Group)
	g.SetLimit(limit)
	for i := range sites {
		site := sites[i]
		slot := i
		g.Go(func() error {
			defer finished(site)

			if site.ID == "" {
				c.logger.Warn("skipping site with no id", "site", site.DisplayName)
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}

			analysis, err := c.AnalyzeSite(ctx, site.ID)
			if err != nil {
				c.logger.Error("site analysis failed", "site", site.DisplayName, "error", err)
				return nil
			}
			results[slot] = &analysis
			return nil
		})
	}
	// Workers always return nil; Wait only synchronizes.
	_ = g.Wait()

	analyses := make([]SiteAnalysis, 0, len(sites))
	for _, r := range results {
		if r != nil {
			analyses = append(analyses, *r)
		}
	}
	c.logger.Info("analysis complete", "analyzed", len(analyses), "total", len(sites))
	return analyses
}

// newSiteAnalysis freezes the completed library list into an analysis
// record. The totals are computed here, from the final collections, so they
// can never go stale.
func newSiteAnalysis(site Site, libraries []Library) SiteAnalysis {
	analysis := SiteAnalysis{
		SiteInfo:       site,
		Libraries:      libraries,
		TotalLibraries: len(libraries),
	}
	for _, lib := range libraries {
		analysis.TotalSharedLinks += len(lib.SharedLinks)
		analysis.TotalPermissions += len(lib.Permissions)
	}
	return analysis
}
