package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"review_dashboard/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	"f1":  func(f float64) string { return fmt.Sprintf("%.1f", f) },
	"f2":  func(f float64) string { return fmt.Sprintf("%.2f", f) },
	"f3":  func(f float64) string { return fmt.Sprintf("%.3f", f) },
	"css": func(c domain.Category) string { return strings.ToLower(c.String()) },
	"stars": func(r *int) string {
		if r == nil {
			return ""
		}
		return strings.Repeat("★", *r) + strings.Repeat("☆", 5-*r)
	},
}

var pages = template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))

// RenderHTML writes the dashboard page.
func RenderHTML(w io.Writer, v View) error {
	return pages.ExecuteTemplate(w, "dashboard.html.tmpl", v)
}

// RenderNoData writes the page shown when no reviews could be loaded.
func RenderNoData(w io.Writer, info domain.DataInfo) error {
	return pages.ExecuteTemplate(w, "nodata.html.tmpl", info)
}
