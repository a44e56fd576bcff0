package notify

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

// TemplateAnalysisNotification is the template used for analysis-complete
// notifications.
const TemplateAnalysisNotification = "analysis_notification.html"

// TemplateStatusUpdate is the template used for application status updates.
const TemplateStatusUpdate = "status_update.html"

//go:embed templates/*.html
var templateFS embed.FS

var emailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// RenderTemplate renders a named email template against the payload map. The
// subject is injected into the data under "subject" so templates can title
// the document with it.
func RenderTemplate(name, subject string, data map[string]any) (string, error) {
	tmpl := emailTemplates.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("unknown email template: %s", name)
	}

	merged := make(map[string]any, len(data)+1)
	for k, v := range data {
		merged[k] = v
	}
	merged["subject"] = subject

	var b strings.Builder
	if err := tmpl.Execute(&b, merged); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return b.String(), nil
}
