package notification

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

// TemplateData contains all the fields available for email template rendering
type TemplateData struct {
	Greeting      string // Dynamic greeting based on recipient count
	Title         string // e.g. "Holiday Remix"
	DateFormatted string // e.g. "12/28/2025"
	Duration      string // e.g. "2:30", empty when unknown
	ShareURL      string
	SenderName    string
}

// EmailTemplate contains the templates for rendering emails
type EmailTemplate struct {
	SubjectFormat string
	PlainText     string
	HTML          string
}

// DefaultTemplate is the standard email template for a shared remix
var DefaultTemplate = EmailTemplate{
	SubjectFormat: "New remix: {{.Title}}",
	PlainText: `{{.Greeting}}

Here is a new remix, {{.Title}}{{if .Duration}} ({{.Duration}}){{end}}, made on {{.DateFormatted}}.

Watch it here: {{.ShareURL}}

Enjoy!
{{- if .SenderName}}
~{{.SenderName}}{{end}}`,
	HTML: `<div dir="ltr">{{.Greeting}}<br><br>
Here is a new remix, <a href="{{.ShareURL}}">{{.Title}}</a>{{if .Duration}} ({{.Duration}}){{end}}, made on {{.DateFormatted}}.<br><br>
Enjoy!{{if .SenderName}}<br>
~{{.SenderName}}{{end}}</div>`,
}

// FormatGreeting creates an appropriate greeting based on number of recipients
// 1 recipient: "Dear John,"
// 2 recipients: "Dear John & Jane,"
// 3+ recipients: "Hey Everyone!"
func FormatGreeting(recipients []Recipient) string {
	switch len(recipients) {
	case 0:
		return "Hello,"
	case 1:
		return fmt.Sprintf("Dear %s,", getFirstName(recipients[0].Name))
	case 2:
		return fmt.Sprintf("Dear %s & %s,", getFirstName(recipients[0].Name), getFirstName(recipients[1].Name))
	default:
		return "Hey Everyone!"
	}
}

// getFirstName extracts the first name from a full name
func getFirstName(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "Friend"
	}
	return parts[0]
}

// FormatTitle turns a file name like "summer_trip_remix.mp4" into "Summer Trip Remix"
func FormatTitle(fileName string) string {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	words := strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	if len(words) == 0 {
		return "Remix"
	}
	return strings.Join(words, " ")
}

// FormatDuration renders a running time as m:ss, or h:mm:ss past an hour
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	total := int(d.Round(time.Second) / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// NewTemplateData builds the rendering data for a request
func NewTemplateData(req *EmailRequest) TemplateData {
	created := req.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return TemplateData{
		Greeting:      FormatGreeting(req.To),
		Title:         FormatTitle(req.RemixName),
		DateFormatted: created.Format("01/02/2006"),
		Duration:      FormatDuration(req.Duration),
		ShareURL:      req.ShareURL,
		SenderName:    req.SenderName,
	}
}

// RenderSubject renders the email subject using the template
func (t *EmailTemplate) RenderSubject(data TemplateData) (string, error) {
	return renderTemplate("subject", t.SubjectFormat, data)
}

// RenderPlainText renders the plain text email body
func (t *EmailTemplate) RenderPlainText(data TemplateData) (string, error) {
	return renderTemplate("plaintext", t.PlainText, data)
}

// RenderHTML renders the HTML email body
func (t *EmailTemplate) RenderHTML(data TemplateData) (string, error) {
	return renderTemplate("html", t.HTML, data)
}

func renderTemplate(name, tmplStr string, data TemplateData) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
