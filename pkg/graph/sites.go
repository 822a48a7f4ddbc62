package graph

import (
	"context"
	"net/url"
)

// discoveryStrategy is one method of enumerating sites. Several exist
// because no single Graph call reliably lists every site under every
// permission configuration.
type discoveryStrategy struct {
	name string
	run  func(ctx context.Context) ([]Site, error)
}

// DiscoverSites finds the SharePoint sites the credential can see. The
// strategies run in a fixed order and the first one that yields a non-empty
// set wins; a strategy that errors or comes back empty is skipped, not
// fatal. The result is deduplicated by site id, first occurrence wins, and
// entries without an id are dropped.
//
// An empty result with a nil error means "no accessible sites" - a valid
// terminal state the caller reports upward, not an error.
func (c *Client) DiscoverSites(ctx context.Context) ([]Site, error) {
	strategies := []discoveryStrategy{
		{name: "search", run: c.searchSites},
		{name: "root-site", run: c.rootSite},
		{name: "drive-parents", run: c.sitesFromDrives},
	}

	var found []Site
	for _, strategy := range strategies {
		sites, err := strategy.run(ctx)
		if err != nil {
			c.logger.Warn("site discovery strategy failed", "strategy", strategy.name, "error", err)
			continue
		}
		if len(sites) == 0 {
			c.logger.Debug("site discovery strategy returned no sites", "strategy", strategy.name)
			continue
		}
		c.logger.Info("discovered sites", "strategy", strategy.name, "count", len(sites))
		found = sites
		break
	}

	return dedupeSites(found), nil
}

// GetSite fetches a single site by id.
func (c *Client) GetSite(ctx context.Context, siteID string) (Site, error) {
	var site Site
	if err := c.getJSON(ctx, c.baseURL+"sites/"+url.PathEscape(siteID), &site); err != nil {
		return site, err
	}
	return site, nil
}

// searchSites runs the tenant-wide wildcard search, following pagination
// links until exhausted.
func (c *Client) searchSites(ctx context.Context) ([]Site, error) {
	var sites []Site

	next := c.baseURL + "sites?search=*"
	for next != "" {
		var page SiteList
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, err
		}
		sites = append(sites, page.Value...)
		next = page.NextLink
		if next != "" {
			c.logger.Debug("fetching next page of sites", "url", next)
		}
	}

	return sites, nil
}

// rootSite looks up the tenant root site. A root site without an id counts
// as an empty result so the next strategy gets its turn.
func (c *Client) rootSite(ctx context.Context) ([]Site, error) {
	var site Site
	if err := c.getJSON(ctx, c.baseURL+"sites/root", &site); err != nil {
		return nil, err
	}
	if site.ID == "" {
		return nil, nil
	}
	return []Site{site}, nil
}

// sitesFromDrives enumerates the tenant's drives and derives sites from each
// drive's parent reference. Application-permission credentials sometimes see
// drives even when the site listings are closed to them.
func (c *Client) sitesFromDrives(ctx context.Context) ([]Site, error) {
	var drives LibraryList
	if err := c.getJSON(ctx, c.baseURL+"drives", &drives); err != nil {
		return nil, err
	}

	var sites []Site
	for _, drive := range drives.Value {
		if drive.ParentReference == nil || drive.ParentReference.SiteID == "" {
			continue
		}
		site, err := c.GetSite(ctx, drive.ParentReference.SiteID)
		if err != nil {
			c.logger.Warn("could not resolve site for drive", "drive", drive.ID, "site", drive.ParentReference.SiteID, "error", err)
			continue
		}
		sites = append(sites, site)
	}

	return sites, nil
}

// dedupeSites removes duplicate ids preserving first-occurrence order and
// silently drops entries with no id.
func dedupeSites(sites []Site) []Site {
	unique := make([]Site, 0, len(sites))
	seen := make(map[string]bool, len(sites))
	for _, site := range sites {
		if site.ID == "" || seen[site.ID] {
			continue
		}
		seen[site.ID] = true
		unique = append(unique, site)
	}
	return unique
}
