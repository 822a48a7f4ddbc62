package graph

import (
	"context"
	"net/url"
)

// ListLibraries fetches a site's document libraries (its drive collection).
// Each library comes back with empty, non-nil SharedLinks and Permissions
// slices; the analyzer fills them in.
func (c *Client) ListLibraries(ctx context.Context, siteID string) ([]Library, error) {
	var list LibraryList
	endpoint := c.baseURL + "sites/" + url.PathEscape(siteID) + "/drives"
	if err := c.getJSON(ctx, endpoint, &list); err != nil {
		return nil, err
	}

	libraries := list.Value
	for i := range libraries {
		libraries[i].SharedLinks = []SharedLink{}
		libraries[i].Permissions = []Permission{}
	}
	c.logger.Debug("listed libraries", "site", siteID, "count", len(libraries))
	return libraries, nil
}

// ListSharedLinks fetches the shared items of one library.
//
// Only the first page is read. Graph may paginate this collection on large
// libraries, so counts can be low there; see the known-limitations note in
// the README before changing this.
func (c *Client) ListSharedLinks(ctx context.Context, siteID, driveID string) ([]SharedLink, error) {
	var list SharedLinkList
	endpoint := c.baseURL + "sites/" + url.PathEscape(siteID) + "/drives/" + url.PathEscape(driveID) + "/shared"
	if err := c.getJSON(ctx, endpoint, &list); err != nil {
		return nil, err
	}
	c.logger.Debug("listed shared links", "drive", driveID, "count", len(list.Value))
	return list.Value, nil
}

// ListPermissions fetches the access grants attached to one library.
// First page only, same limitation as ListSharedLinks.
func (c *Client) ListPermissions(ctx context.Context, siteID, driveID string) ([]Permission, error) {
	var list PermissionList
	endpoint := c.baseURL + "sites/" + url.PathEscape(siteID) + "/drives/" + url.PathEscape(driveID) + "/permissions"
	if err := c.getJSON(ctx, endpoint, &list); err != nil {
		return nil, err
	}
	c.logger.Debug("listed permissions", "drive", driveID, "count", len(list.Value))
	return list.Value, nil
}
