package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spanalyzer/spanalyzer/pkg/graph"
)

func TestSites_RendersTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Sites([]graph.Site{
		{ID: "site-1", DisplayName: "Team Site", WebURL: "https://contoso.sharepoint.com/sites/team"},
		{ID: "site-2", DisplayName: "HR", WebURL: "https://contoso.sharepoint.com/sites/hr"},
	})

	out := buf.String()
	assert.Contains(t, out, "Found 2 site(s)")
	assert.Contains(t, out, "Team Site")
	assert.Contains(t, out, "https://contoso.sharepoint.com/sites/hr")
}

func TestSites_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Sites(nil)

	assert.Contains(t, buf.String(), "No accessible SharePoint sites found.")
}

func TestLibraries_RendersTable(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Libraries([]graph.Library{
		{ID: "lib-1", Name: "Documents", DriveType: "documentLibrary"},
		{ID: "lib-2", Name: "Archive", DriveType: "documentLibrary"},
	})

	out := buf.String()
	assert.Contains(t, out, "Found 2 document library(ies)")
	assert.Contains(t, out, "Documents")
	assert.Contains(t, out, "Archive")
}

func TestLibraries_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Libraries(nil)

	assert.Contains(t, buf.String(), "No document libraries found.")
}

func TestCheck(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Check("signed-in user", "Megan Bowen", nil)
	p.Check("token", "", nil)
	p.Check("root site", "", errors.New("access denied"))

	out := buf.String()
	assert.Contains(t, out, "ok   signed-in user: Megan Bowen")
	assert.Contains(t, out, "ok   token\n")
	assert.Contains(t, out, "FAIL root site: access denied")
}

func TestSummary_TotalsAndSkipped(t *testing.T) {
	var buf bytes.Buffer

	NewPrinter(&buf).Summary([]*graph.SiteAnalysis{
		{SiteInfo: graph.Site{DisplayName: "Team Site"}, TotalLibraries: 2, TotalSharedLinks: 5, TotalPermissions: 3},
		{SiteInfo: graph.Site{DisplayName: "HR"}, TotalLibraries: 1, TotalSharedLinks: 0, TotalPermissions: 7},
	}, 1)

	out := buf.String()
	assert.Contains(t, out, "Team Site")
	assert.Contains(t, out, "Total (2 sites)")
	assert.Contains(t, out, "10")
	assert.Contains(t, out, "Skipped 1 unavailable site(s).")
}

func TestSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Summary(nil, 0)

	assert.Contains(t, buf.String(), "No sites were analyzed.")
}

func TestPendingAuth(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PendingAuth("https://microsoft.com/devicelogin", "ABCD-1234")

	out := buf.String()
	assert.Contains(t, out, "https://microsoft.com/devicelogin")
	assert.Contains(t, out, "ABCD-1234")
}

func TestErrorAndSuccess(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Success("analyzed %d sites", 3)
	p.Error(errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "analyzed 3 sites")
	assert.Contains(t, out, "Error: boom")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "longst...", truncate("longstring", 9))
}
