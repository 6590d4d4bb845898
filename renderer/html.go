package renderer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yclin/twreport"
)

// ReportHTML renders the report's markdown into a standalone styled page.
func ReportHTML(r *twreport.Report, markdown string) (string, error) {
	var body bytes.Buffer
	conv := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := conv.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("cannot convert report to html: %w", err)
	}

	var out strings.Builder
	data := struct {
		Date twreport.Date
		Body template.HTML
	}{r.Date, template.HTML(body.String())}
	if err := pageTemplate.Execute(&out, data); err != nil {
		return "", fmt.Errorf("cannot render report page: %w", err)
	}
	return out.String(), nil
}

var pageTemplate = template.Must(template.New("page").Parse(pageShell))

const pageShell = `<!doctype html>
<html lang="zh-Hant">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>台股每日投資報告 ({{.Date}})</title>
  <style>
    :root {
      --bg: #f6f1ea;
      --card: #fffaf3;
      --ink: #1d1a17;
      --accent: #2c5e4a;
      --muted: #6c5f55;
    }
    body {
      margin: 0;
      padding: 14px 18px 28px;
      font-family: "Noto Serif TC", "Source Han Serif", "PMingLiU", serif;
      color: var(--ink);
      background: radial-gradient(circle at top right, #f9e9d5 0%, #f6f1ea 40%, #efe6db 100%);
    }
    h1 { font-size: 22px; letter-spacing: 1px; }
    h2 { margin: 18px 0 10px; font-size: 16px; }
    h3 { margin: 12px 0 6px; font-size: 14px; color: var(--accent); }
    table {
      width: 100%;
      border-collapse: collapse;
      font-size: 12px;
      background: var(--card);
      border: 1px solid #e6d9c9;
      border-radius: 12px;
    }
    th, td {
      padding: 8px 6px;
      border-bottom: 1px solid #eadfd0;
      white-space: nowrap;
    }
    ul { padding-left: 18px; }
    li { margin-bottom: 6px; line-height: 1.4; }
    a { color: var(--accent); text-decoration: none; }
    a:hover { text-decoration: underline; }
  </style>
</head>
<body>
{{.Body}}
</body>
</html>
`
