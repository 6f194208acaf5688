package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/resume"
)

// Themes maps a resume theme identifier to its stylesheet. Unknown themes render as classic.
var Themes = map[string]string{
	"classic": `body{font-family:Georgia,serif;color:#222;max-width:780px;margin:32px auto;line-height:1.45}
h1{margin-bottom:0}h2{border-bottom:1px solid #999;padding-bottom:2px;margin-top:24px}
.label{color:#555;font-style:italic}.meta{color:#666;font-size:.9em}`,
	"modern": `body{font-family:Helvetica,Arial,sans-serif;color:#1d2433;max-width:800px;margin:32px auto;line-height:1.5}
h1{color:#0b5cad;margin-bottom:0}h2{color:#0b5cad;text-transform:uppercase;font-size:1em;letter-spacing:.08em}
.label{color:#445}.meta{color:#778;font-size:.85em}`,
	"minimal": `body{font-family:system-ui,sans-serif;color:#111;max-width:720px;margin:24px auto;line-height:1.4}
h1{font-weight:600;margin-bottom:0}h2{font-size:1em;font-weight:600;margin-top:20px}
.label,.meta{color:#666}`,
}

const DefaultTheme = "classic"

var resumeTmpl = template.Must(template.New("resume").Funcs(template.FuncMap{
	"join": strings.Join,
	"dates": func(start, end string) string {
		if start == "" && end == "" {
			return ""
		}
		if end == "" {
			end = "Present"
		}
		return start + " - " + end
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{with .Doc.Basics}}{{.Name}}{{else}}Resume{{end}}</title>
<style>{{.CSS}}
@media print{body{margin:0}}</style>
</head>
<body>
{{with .Doc.Basics}}<header>
<h1>{{.Name}}</h1>
{{if .Label}}<div class="label">{{.Label}}</div>{{end}}
<div class="meta">{{.Email}}{{if .Phone}} | {{.Phone}}{{end}}{{if .URL}} | {{.URL}}{{end}}{{if $.Location}} | {{$.Location}}{{end}}</div>
{{if .Summary}}<p>{{.Summary}}</p>{{end}}
</header>{{end}}
{{if .Doc.Work}}<section><h2>Experience</h2>
{{range .Doc.Work}}<div class="item"><strong>{{.Position}}</strong>{{if .Name}}, {{.Name}}{{end}}
<div class="meta">{{dates .StartDate .EndDate}}</div>
{{if .Summary}}<p>{{.Summary}}</p>{{end}}
{{if .Highlights}}<ul>{{range .Highlights}}<li>{{.}}</li>{{end}}</ul>{{end}}
</div>
{{end}}</section>{{end}}
{{if .Doc.Projects}}<section><h2>Projects</h2>
{{range .Doc.Projects}}<div class="item"><strong>{{.Name}}</strong>{{if .Description}} - {{.Description}}{{end}}
{{if .Highlights}}<ul>{{range .Highlights}}<li>{{.}}</li>{{end}}</ul>{{end}}
</div>
{{end}}</section>{{end}}
{{if .Doc.Education}}<section><h2>Education</h2>
{{range .Doc.Education}}<div class="item"><strong>{{.Institution}}</strong>{{if .StudyType}}, {{.StudyType}}{{end}}{{if .Area}} in {{.Area}}{{end}}
<div class="meta">{{dates .StartDate .EndDate}}</div></div>
{{end}}</section>{{end}}
{{if .Doc.Skills}}<section><h2>Skills</h2><ul>
{{range .Doc.Skills}}<li><strong>{{.Name}}</strong>{{if .Keywords}}: {{join .Keywords ", "}}{{end}}</li>
{{end}}</ul></section>{{end}}
</body>
</html>
`))

// RenderHTML produces a printable page for the resume in the given theme.
func RenderHTML(doc *resume.Document, theme string) (string, error) {
	css, ok := Themes[theme]
	if !ok {
		css = Themes[DefaultTheme]
	}
	if doc == nil {
		doc = &resume.Document{}
	}

	var buf bytes.Buffer
	err := resumeTmpl.Execute(&buf, struct {
		Doc      *resume.Document
		CSS      template.CSS
		Location string
	}{Doc: doc, CSS: template.CSS(css), Location: doc.Location()})
	if err != nil {
		return "", fmt.Errorf("failed to render resume: %w", err)
	}
	return buf.String(), nil
}
