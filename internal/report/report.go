// Package report renders analysis results into shareable documents. HTML is
// the primary format; Markdown is available for wikis and pull requests.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spanalyzer/spanalyzer/pkg/graph"
)

// Format selects a report output format.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown report format %q (expected html or markdown)", name)
	}
}

// Extension returns the conventional file extension for the format.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return ".html"
}

// Report is the document-level model handed to writers.
type Report struct {
	GeneratedAt  time.Time
	Analyses     []*graph.SiteAnalysis
	SkippedSites int
}

// New builds a Report timestamped now.
func New(analyses []*graph.SiteAnalysis, skipped int) *Report {
	return &Report{
		GeneratedAt:  time.Now(),
		Analyses:     analyses,
		SkippedSites: skipped,
	}
}

// TotalSites returns the number of analyzed sites.
func (r *Report) TotalSites() int {
	return len(r.Analyses)
}

// TotalLibraries sums library counts across all sites.
func (r *Report) TotalLibraries() int {
	var n int
	for _, a := range r.Analyses {
		n += a.TotalLibraries
	}
	return n
}

// TotalSharedLinks sums shared link counts across all sites.
func (r *Report) TotalSharedLinks() int {
	var n int
	for _, a := range r.Analyses {
		n += a.TotalSharedLinks
	}
	return n
}

// TotalPermissions sums permission counts across all sites.
func (r *Report) TotalPermissions() int {
	var n int
	for _, a := range r.Analyses {
		n += a.TotalPermissions
	}
	return n
}

// Writer renders a Report to its destination.
type Writer interface {
	Write(report *Report) error
}

// NewWriter returns a Writer for the format, rendering to output.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch format {
	case FormatHTML:
		return NewHTMLWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// grantedToName resolves the display name a permission was granted to. Link
// permissions without a grantee describe their audience by scope.
func grantedToName(p graph.Permission) string {
	if p.GrantedTo != nil && p.GrantedTo.User.DisplayName != "" {
		return p.GrantedTo.User.DisplayName
	}
	for _, identity := range p.GrantedToIdentities {
		if identity.User.DisplayName != "" {
			return identity.User.DisplayName
		}
	}
	if p.Link != nil {
		switch p.Link.Scope {
		case "anonymous":
			return "Anyone with the link"
		case "organization":
			return "Anyone in the organization"
		}
	}
	return "Unknown"
}

// permissionType classifies a permission as inherited, link-based or direct.
func permissionType(p graph.Permission) string {
	switch {
	case p.InheritedFrom != nil:
		return "Inherited"
	case p.Link != nil:
		return "Link"
	default:
		return "Direct"
	}
}

// roleBadge buckets a role name into one of the four severity styles used by
// the HTML report.
func roleBadge(role string) string {
	r := strings.ToLower(role)
	switch {
	case strings.Contains(r, "owner") || strings.Contains(r, "full"):
		return "badge-owner"
	case strings.Contains(r, "admin") || strings.Contains(r, "manage"):
		return "badge-admin"
	case strings.Contains(r, "write") || strings.Contains(r, "edit"):
		return "badge-write"
	default:
		return "badge-read"
	}
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("2006-01-02 15:04")
}
