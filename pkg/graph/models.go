package graph

import "time"

// Identity describes a single actor (user, group or application).
type Identity struct {
	DisplayName string `json:"displayName"`
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
}

// IdentitySet groups the identity facets Graph attaches to created-by,
// modified-by, owner and grantee fields. Unused facets stay zero.
type IdentitySet struct {
	User        Identity `json:"user,omitempty"`
	Group       Identity `json:"group,omitempty"`
	Application Identity `json:"application,omitempty"`
	SiteUser    Identity `json:"siteUser,omitempty"`
	SiteGroup   Identity `json:"siteGroup,omitempty"`
}

// ItemReference points at a parent resource (drive, item or site).
type ItemReference struct {
	DriveID   string `json:"driveId,omitempty"`
	DriveType string `json:"driveType,omitempty"`
	ID        string `json:"id,omitempty"`
	Path      string `json:"path,omitempty"`
	SiteID    string `json:"siteId,omitempty"`
}

// Site is a SharePoint site, the root unit of discovery.
type Site struct {
	ID                   string    `json:"id"`
	DisplayName          string    `json:"displayName"`
	Name                 string    `json:"name,omitempty"`
	Description          string    `json:"description,omitempty"`
	WebURL               string    `json:"webUrl"`
	CreatedDateTime      time.Time `json:"createdDateTime,omitempty"`
	LastModifiedDateTime time.Time `json:"lastModifiedDateTime,omitempty"`
}

// SiteList is the collection envelope for site listings.
type SiteList struct {
	Value    []Site `json:"value"`
	NextLink string `json:"@odata.nextLink,omitempty"`
}

// Quota holds a drive's storage quota facet.
type Quota struct {
	Deleted   int64  `json:"deleted"`
	Remaining int64  `json:"remaining"`
	Total     int64  `json:"total"`
	Used      int64  `json:"used"`
	State     string `json:"state,omitempty"`
}

// Library is a document library (a Graph drive) belonging to a site.
// SharedLinks and Permissions are not part of the drive payload; they start
// empty and are filled in by the analyzer.
type Library struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Description          string         `json:"description,omitempty"`
	WebURL               string         `json:"webUrl"`
	DriveType            string         `json:"driveType"`
	CreatedDateTime      time.Time      `json:"createdDateTime,omitempty"`
	LastModifiedDateTime time.Time      `json:"lastModifiedDateTime,omitempty"`
	Owner                IdentitySet    `json:"owner,omitempty"`
	Quota                Quota          `json:"quota,omitempty"`
	ParentReference      *ItemReference `json:"parentReference,omitempty"`

	SharedLinks []SharedLink `json:"shared_links"`
	Permissions []Permission `json:"permissions"`
}

// LibraryList is the collection envelope for drive listings.
type LibraryList struct {
	Value    []Library `json:"value"`
	NextLink string    `json:"@odata.nextLink,omitempty"`
}

// SharedFacet describes how an item has been shared.
type SharedFacet struct {
	Scope          string      `json:"scope,omitempty"`
	SharedDateTime time.Time   `json:"sharedDateTime,omitempty"`
	Owner          IdentitySet `json:"owner,omitempty"`
}

// SharedLink is an item in a library that has been shared.
type SharedLink struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	WebURL               string       `json:"webUrl"`
	DownloadURL          string       `json:"@microsoft.graph.downloadUrl,omitempty"`
	CreatedDateTime      time.Time    `json:"createdDateTime,omitempty"`
	LastModifiedDateTime time.Time    `json:"lastModifiedDateTime,omitempty"`
	Size                 int64        `json:"size"`
	CreatedBy            IdentitySet  `json:"createdBy,omitempty"`
	LastModifiedBy       IdentitySet  `json:"lastModifiedBy,omitempty"`
	Shared               *SharedFacet `json:"shared,omitempty"`
}

// SharedLinkList is the collection envelope for shared item listings.
type SharedLinkList struct {
	Value    []SharedLink `json:"value"`
	NextLink string       `json:"@odata.nextLink,omitempty"`
}

// SharingLinkFacet describes the link portion of a link-type permission.
type SharingLinkFacet struct {
	Type   string `json:"type,omitempty"`
	Scope  string `json:"scope,omitempty"`
	WebURL string `json:"webUrl,omitempty"`
}

// Permission is an access grant attached to a library.
type Permission struct {
	ID                  string            `json:"id"`
	Roles               []string          `json:"roles"`
	GrantedTo           *IdentitySet      `json:"grantedTo,omitempty"`
	GrantedToIdentities []IdentitySet     `json:"grantedToIdentities,omitempty"`
	Link                *SharingLinkFacet `json:"link,omitempty"`
	InheritedFrom       *ItemReference    `json:"inheritedFrom,omitempty"`
	ExpirationDateTime  time.Time         `json:"expirationDateTime,omitempty"`
}

// PermissionList is the collection envelope for permission listings.
type PermissionList struct {
	Value    []Permission `json:"value"`
	NextLink string       `json:"@odata.nextLink,omitempty"`
}

// User is the signed-in user's profile, used for the connectivity check.
type User struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	UserPrincipalName string `json:"userPrincipalName"`
	Mail              string `json:"mail,omitempty"`
}

// SiteAnalysis is the per-site unit of output. It is immutable once the
// analyzer returns it; the three totals are computed from the final library
// list, never cached.
type SiteAnalysis struct {
	SiteInfo         Site      `json:"site_info"`
	Libraries        []Library `json:"libraries"`
	TotalLibraries   int       `json:"total_libraries"`
	TotalSharedLinks int       `json:"total_shared_links"`
	TotalPermissions int       `json:"total_permissions"`
}
