// Package ui formats SharePoint sites, analysis summaries, and auth prompts
// for the terminal. It also provides the progress bar shown while sites are
// being analyzed.
package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"

	"github.com/spanalyzer/spanalyzer/pkg/graph"
)

// Printer writes formatted output to a configurable destination. The zero
// value is not usable; use NewPrinter.
type Printer struct {
	out io.Writer
}

// NewPrinter returns a Printer writing to w. Pass os.Stdout for normal use.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{out: w}
}

// Default returns a Printer on standard output.
func Default() *Printer {
	return NewPrinter(os.Stdout)
}

// Success prints a plain confirmation message.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Error prints an error message to the printer's destination.
func (p *Printer) Error(err error) {
	fmt.Fprintf(p.out, "Error: %v\n", err)
}

func (p *Printer) newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(p.out)
	table.SetHeader(headers)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

// Sites prints the discovered sites as a table.
func (p *Printer) Sites(sites []graph.Site) {
	if len(sites) == 0 {
		fmt.Fprintln(p.out, "No accessible SharePoint sites found.")
		return
	}

	fmt.Fprintf(p.out, "Found %d site(s):\n", len(sites))
	table := p.newTable([]string{"Name", "ID", "URL"})
	for _, site := range sites {
		table.Append([]string{site.DisplayName, truncate(site.ID, 40), site.WebURL})
	}
	table.Render()
}

// Site prints detailed metadata for a single site.
func (p *Printer) Site(site graph.Site) {
	fmt.Fprintln(p.out, "Site details:")
	fmt.Fprintf(p.out, "  Name: %s\n", site.DisplayName)
	fmt.Fprintf(p.out, "  ID:   %s\n", site.ID)
	fmt.Fprintf(p.out, "  URL:  %s\n", site.WebURL)
	if !site.CreatedDateTime.IsZero() {
		fmt.Fprintf(p.out, "  Created: %s\n", site.CreatedDateTime.Local().Format(time.RFC1123))
	}
}

// Libraries prints a site's document libraries as a table.
func (p *Printer) Libraries(libraries []graph.Library) {
	if len(libraries) == 0 {
		fmt.Fprintln(p.out, "No document libraries found.")
		return
	}

	fmt.Fprintf(p.out, "Found %d document library(ies):\n", len(libraries))
	table := p.newTable([]string{"Name", "ID", "Type"})
	for _, library := range libraries {
		table.Append([]string{library.Name, truncate(library.ID, 40), library.DriveType})
	}
	table.Render()
}

// User prints the authenticated account.
func (p *Printer) User(user graph.User) {
	fmt.Fprintf(p.out, "Logged in as: %s (%s)\n", user.DisplayName, user.UserPrincipalName)
}

// Summary prints one row per analyzed site plus grand totals.
func (p *Printer) Summary(analyses []*graph.SiteAnalysis, skipped int) {
	if len(analyses) == 0 {
		fmt.Fprintln(p.out, "No sites were analyzed.")
		return
	}

	var libraries, links, permissions int
	table := p.newTable([]string{"Site", "Libraries", "Shared Links", "Permissions"})
	for _, analysis := range analyses {
		table.Append([]string{
			truncate(analysis.SiteInfo.DisplayName, 40),
			strconv.Itoa(analysis.TotalLibraries),
			strconv.Itoa(analysis.TotalSharedLinks),
			strconv.Itoa(analysis.TotalPermissions),
		})
		libraries += analysis.TotalLibraries
		links += analysis.TotalSharedLinks
		permissions += analysis.TotalPermissions
	}
	table.SetFooter([]string{
		fmt.Sprintf("Total (%d sites)", len(analyses)),
		strconv.Itoa(libraries),
		strconv.Itoa(links),
		strconv.Itoa(permissions),
	})
	table.Render()

	if skipped > 0 {
		fmt.Fprintf(p.out, "Skipped %d unavailable site(s).\n", skipped)
	}
}

// Check prints one access check result. The detail is only shown on success.
func (p *Printer) Check(name, detail string, err error) {
	if err != nil {
		fmt.Fprintf(p.out, "  FAIL %s: %v\n", name, err)
		return
	}
	if detail != "" {
		fmt.Fprintf(p.out, "  ok   %s: %s\n", name, detail)
		return
	}
	fmt.Fprintf(p.out, "  ok   %s\n", name)
}

// PendingAuth prints the device code instructions for the user to complete
// sign-in in a browser.
func (p *Printer) PendingAuth(verificationURI, userCode string) {
	fmt.Fprintln(p.out, "To sign in, use a web browser to open the page below and enter the code.")
	fmt.Fprintf(p.out, "  URL:  %s\n", verificationURI)
	fmt.Fprintf(p.out, "  Code: %s\n", userCode)
}

// NewProgressBar returns a bar counting analyzed sites. It writes to stderr
// so report output on stdout stays clean.
func NewProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionClearOnFinish(),
	)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
