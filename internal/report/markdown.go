package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/spanalyzer/spanalyzer/pkg/graph"
)

// MarkdownWriter renders the report as GitHub-flavored Markdown, suitable
// for wikis and pull request attachments.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that renders to output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write renders the full report.
func (w *MarkdownWriter) Write(report *Report) error {
	md := markdown.NewMarkdown(w.output)

	w.writeSummary(md, report)
	for _, analysis := range report.Analyses {
		w.writeSite(md, analysis)
	}

	md.HorizontalRule()
	md.PlainTextf("*Report generated on %s by SharePoint Permissions Analyzer*",
		report.GeneratedAt.Format("2006-01-02 15:04:05"))

	if err := md.Build(); err != nil {
		return fmt.Errorf("rendering Markdown report: %w", err)
	}
	return nil
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *Report) {
	md.H1("SharePoint Permissions Analysis")
	md.PlainText("")

	md.H2("Executive Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Sites analyzed", strconv.Itoa(report.TotalSites())},
			{"Document libraries", strconv.Itoa(report.TotalLibraries())},
			{"Shared links", strconv.Itoa(report.TotalSharedLinks())},
			{"Permissions", strconv.Itoa(report.TotalPermissions())},
		},
	})
	md.PlainText("")

	if report.SkippedSites > 0 {
		md.Warningf("%d site(s) could not be analyzed and are not included.", report.SkippedSites)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeSite(md *markdown.Markdown, analysis *graph.SiteAnalysis) {
	site := analysis.SiteInfo
	md.H2(site.DisplayName)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", site.WebURL},
			{"ID", "`" + site.ID + "`"},
			{"Created", formatTime(site.CreatedDateTime)},
			{"Last modified", formatTime(site.LastModifiedDateTime)},
		},
	})
	md.PlainText("")

	if len(analysis.Libraries) == 0 {
		md.PlainText("No libraries found.")
		md.PlainText("")
		return
	}

	for _, library := range analysis.Libraries {
		w.writeLibrary(md, library)
	}
}

func (w *MarkdownWriter) writeLibrary(md *markdown.Markdown, library graph.Library) {
	md.H3(library.Name)
	md.PlainText("")

	if len(library.SharedLinks) == 0 {
		md.PlainText("No shared links found.")
		md.PlainText("")
	} else {
		rows := make([][]string, len(library.SharedLinks))
		for i, link := range library.SharedLinks {
			createdBy := link.CreatedBy.User.DisplayName
			if createdBy == "" {
				createdBy = "Unknown"
			}
			rows[i] = []string{
				link.Name,
				formatBytes(link.Size),
				createdBy,
				formatTime(link.LastModifiedDateTime),
			}
		}
		md.PlainTextf("Shared links (%d):", len(library.SharedLinks))
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Name", "Size", "Created By", "Last Modified"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(library.Permissions) == 0 {
		md.PlainText("No permissions found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(library.Permissions))
	for i, permission := range library.Permissions {
		expiration := "Never"
		if !permission.ExpirationDateTime.IsZero() {
			expiration = formatTime(permission.ExpirationDateTime)
		}
		rows[i] = []string{
			grantedToName(permission),
			joinOrDash(permission.Roles),
			permissionType(permission),
			expiration,
		}
	}
	md.PlainTextf("Permissions (%d):", len(library.Permissions))
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Granted To", "Roles", "Type", "Expiration"},
		Rows:   rows,
	})
	md.PlainText("")
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	out := values[0]
	for _, v := range values[1:] {
		out += ", " + v
	}
	return out
}
