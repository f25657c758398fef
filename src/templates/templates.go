// Package templates holds the admin site HTML, embedded into the binary.
package templates

import (
	"embed"
	"html/template"
)

//go:embed admin/*.html
var files embed.FS

const (
	GoalDashboard = "admin/goal_dashboard.html"
	Index         = "admin/index.html"
	Login         = "admin/login.html"
)

// Load parses every admin template. The result is handed to gin.Engine.SetHTMLTemplate.
func Load() (*template.Template, error) {
	return template.New("admin").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(files, "admin/*.html")
}
