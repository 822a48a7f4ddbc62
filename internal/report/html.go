package report

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

// HTMLWriter renders a self-contained HTML document with collapsible site
// and library sections. No external assets are referenced, so the file can
// be mailed or dropped on a share as-is.
type HTMLWriter struct {
	output io.Writer
	tmpl   *template.Template
}

// NewHTMLWriter creates an HTMLWriter that renders to output.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	return &HTMLWriter{
		output: output,
		tmpl:   htmlTemplate,
	}
}

// Write renders the full report.
func (w *HTMLWriter) Write(report *Report) error {
	if err := w.tmpl.Execute(w.output, report); err != nil {
		return fmt.Errorf("rendering HTML report: %w", err)
	}
	return nil
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"formatBytes": formatBytes,
	"formatTime":  formatTime,
	"grantedTo":   grantedToName,
	"permType":    permissionType,
	"roleBadge":   roleBadge,
	"joinRoles":   func(roles []string) string { return strings.Join(roles, ", ") },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>SharePoint Permissions Analysis Report</title>
<style>
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 20px; background-color: #f5f5f5; color: #333; }
.container { max-width: 1200px; margin: 0 auto; background-color: white; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); overflow: hidden; }
.header { background: linear-gradient(135deg, #0078d4 0%, #106ebe 100%); color: white; padding: 30px; text-align: center; }
.header h1 { margin: 0; font-size: 2.5em; font-weight: 300; }
.header p { margin: 10px 0 0 0; opacity: 0.9; font-size: 1.1em; }
.summary { padding: 30px; background-color: #f8f9fa; border-bottom: 1px solid #e9ecef; }
.summary-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 20px; margin-top: 20px; }
.summary-card { background: white; padding: 20px; border-radius: 6px; text-align: center; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
.summary-card h3 { margin: 0 0 10px 0; color: #0078d4; font-size: 2em; }
.summary-card p { margin: 0; color: #666; font-size: 0.9em; }
.content { padding: 30px; }
.site-section { margin-bottom: 40px; border: 1px solid #e9ecef; border-radius: 6px; overflow: hidden; }
.site-header { background-color: #0078d4; color: white; padding: 20px; cursor: pointer; display: flex; justify-content: space-between; align-items: center; }
.site-header:hover { background-color: #106ebe; }
.site-header h2 { margin: 0; font-size: 1.5em; }
.site-content { padding: 20px; display: none; }
.site-content.expanded { display: block; }
.library-section { margin-bottom: 30px; border: 1px solid #e9ecef; border-radius: 4px; overflow: hidden; }
.library-header { background-color: #f8f9fa; padding: 15px; border-bottom: 1px solid #e9ecef; cursor: pointer; display: flex; justify-content: space-between; align-items: center; }
.library-header h3 { margin: 0; color: #0078d4; font-size: 1.2em; }
.library-content { padding: 20px; display: none; }
.library-content.expanded { display: block; }
.section-title { color: #0078d4; font-size: 1.1em; margin: 20px 0 10px 0; padding-bottom: 5px; border-bottom: 2px solid #0078d4; }
table { width: 100%; border-collapse: collapse; margin: 15px 0; background-color: white; }
th, td { padding: 12px; text-align: left; border-bottom: 1px solid #e9ecef; }
th { background-color: #f8f9fa; font-weight: 600; color: #495057; }
tr:hover { background-color: #f8f9fa; }
.badge { display: inline-block; padding: 4px 8px; border-radius: 12px; font-size: 0.8em; font-weight: 500; text-transform: uppercase; }
.badge-read { background-color: #d4edda; color: #155724; }
.badge-write { background-color: #fff3cd; color: #856404; }
.badge-admin { background-color: #f8d7da; color: #721c24; }
.badge-owner { background-color: #cce5ff; color: #004085; }
.link { color: #0078d4; text-decoration: none; }
.link:hover { text-decoration: underline; }
.no-data { text-align: center; color: #6c757d; font-style: italic; padding: 20px; }
.footer { background-color: #f8f9fa; padding: 20px; text-align: center; color: #6c757d; border-top: 1px solid #e9ecef; }
</style>
</head>
<body>
<div class="container">
<div class="header">
<h1>SharePoint Permissions Analysis</h1>
<p>Comprehensive report of sites, libraries, shared links, and permissions</p>
</div>
<div class="summary">
<h2>Executive Summary</h2>
<div class="summary-grid">
<div class="summary-card"><h3>{{.TotalSites}}</h3><p>Total Sites</p></div>
<div class="summary-card"><h3>{{.TotalLibraries}}</h3><p>Total Libraries</p></div>
<div class="summary-card"><h3>{{.TotalSharedLinks}}</h3><p>Shared Links</p></div>
<div class="summary-card"><h3>{{.TotalPermissions}}</h3><p>Total Permissions</p></div>
</div>
{{if .SkippedSites}}<p>{{.SkippedSites}} site(s) could not be analyzed and are not included.</p>{{end}}
</div>
<div class="content">
{{range .Analyses}}
<div class="site-section">
<div class="site-header collapsed"><h2>{{.SiteInfo.DisplayName}}</h2><span class="toggle">&#9660;</span></div>
<div class="site-content">
<p><strong>Site URL:</strong> <a href="{{.SiteInfo.WebURL}}" target="_blank" class="link">{{.SiteInfo.WebURL}}</a></p>
<p><strong>Site ID:</strong> {{.SiteInfo.ID}}</p>
<p><strong>Created:</strong> {{formatTime .SiteInfo.CreatedDateTime}}</p>
<p><strong>Last Modified:</strong> {{formatTime .SiteInfo.LastModifiedDateTime}}</p>
<div class="section-title">Libraries ({{len .Libraries}})</div>
{{if not .Libraries}}<div class="no-data">No libraries found</div>{{end}}
{{range .Libraries}}
<div class="library-section">
<div class="library-header"><h3>{{.Name}}</h3><span class="toggle">&#9660;</span></div>
<div class="library-content">
<p><strong>Library URL:</strong> <a href="{{.WebURL}}" target="_blank" class="link">{{.WebURL}}</a></p>
{{if .Description}}<p><strong>Description:</strong> {{.Description}}</p>{{end}}
<p><strong>Created:</strong> {{formatTime .CreatedDateTime}}</p>
<p><strong>Last Modified:</strong> {{formatTime .LastModifiedDateTime}}</p>
<div class="section-title">Shared Links ({{len .SharedLinks}})</div>
{{if not .SharedLinks}}<div class="no-data">No shared links found</div>{{else}}
<table>
<thead><tr><th>Name</th><th>URL</th><th>Size</th><th>Created By</th><th>Created</th><th>Last Modified</th></tr></thead>
<tbody>
{{range .SharedLinks}}
<tr>
<td>{{.Name}}</td>
<td><a href="{{.WebURL}}" target="_blank" class="link">View File</a></td>
<td>{{formatBytes .Size}}</td>
<td>{{with .CreatedBy.User.DisplayName}}{{.}}{{else}}Unknown{{end}}</td>
<td>{{formatTime .CreatedDateTime}}</td>
<td>{{formatTime .LastModifiedDateTime}}</td>
</tr>
{{end}}
</tbody>
</table>
{{end}}
<div class="section-title">Permissions ({{len .Permissions}})</div>
{{if not .Permissions}}<div class="no-data">No permissions found</div>{{else}}
<table>
<thead><tr><th>Granted To</th><th>Roles</th><th>Type</th><th>Expiration</th></tr></thead>
<tbody>
{{range .Permissions}}
<tr>
<td>{{grantedTo .}}</td>
<td>{{range .Roles}}<span class="badge {{roleBadge .}}">{{.}}</span> {{end}}</td>
<td>{{permType .}}</td>
<td>{{if .ExpirationDateTime.IsZero}}Never{{else}}{{formatTime .ExpirationDateTime}}{{end}}</td>
</tr>
{{end}}
</tbody>
</table>
{{end}}
</div>
</div>
{{end}}
</div>
</div>
{{end}}
</div>
<div class="footer">
<p>Report generated on {{.GeneratedAt.Format "2006-01-02 15:04:05"}} | SharePoint Permissions Analyzer</p>
</div>
</div>
<script>
document.addEventListener('DOMContentLoaded', function() {
  document.addEventListener('click', function(e) {
    var siteHeader = e.target.closest('.site-header');
    if (siteHeader) {
      siteHeader.nextElementSibling.classList.toggle('expanded');
      siteHeader.classList.toggle('collapsed');
    }
    var libraryHeader = e.target.closest('.library-header');
    if (libraryHeader) {
      libraryHeader.nextElementSibling.classList.toggle('expanded');
    }
  });
});
</script>
</body>
</html>
`))
