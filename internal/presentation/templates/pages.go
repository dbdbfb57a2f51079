// Package templates provides the server-rendered pages of the dashboard
package templates

import (
	"embed"
	"html/template"

	"github.com/rewater/rewater-go/internal/domain/report"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed pages/*.html
var pageFiles embed.FS

var printer = message.NewPrinter(language.English)

// Funcs are available to every page.
var Funcs = template.FuncMap{
	"number":      FormatNumber,
	"statusLabel": report.StatusLabel,
	"statusClass": StatusClass,
}

// Pages holds login.html, register.html and dashboard.html.
var Pages = template.Must(template.New("pages").Funcs(Funcs).ParseFS(pageFiles, "pages/*.html"))

// FormatNumber renders n with thousands separators, e.g. 14720 as "14,720".
func FormatNumber(n int) string {
	return printer.Sprintf("%d", n)
}

// StatusClass is the badge style for a refill status.
func StatusClass(status string) string {
	switch status {
	case report.StatusSuccess, report.StatusPending:
		return status
	default:
		return report.StatusFailed
	}
}

// DashboardView is the data of dashboard.html.
type DashboardView struct {
	FullName string
	Payload  report.Payload
}

// AuthFormView is the data of login.html and register.html. Passwords are
// never echoed back.
type AuthFormView struct {
	Error      string
	Notice     string
	Username   string
	FullName   string
	EmailPhone string
}
