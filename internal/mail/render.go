// Package mail renders the daily vocabulary email and delivers it over
// SMTP.
package mail

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/bmihaylov/wordmail/internal/generate"
)

const bodyTemplate = `<html>
<body style="font-family: sans-serif; max-width: 640px;">
<h2>Your words for {{.Date}}</h2>
{{range $item := .Items}}
<div style="margin-bottom: 24px;">
  <h3 style="margin-bottom: 4px;">{{$item.SourceText}}{{if $item.Phonetic}} <small style="color: #888; font-weight: normal;">{{$item.Phonetic}}</small>{{end}} <small style="color: #888;">({{$item.Category}})</small></h3>
  {{if $item.VerbForms}}
  <p style="margin: 4px 0;"><b>{{$item.VerbForms.Present}}</b>, {{$item.VerbForms.PastSimple}}, {{$item.VerbForms.PastParticiple}}</p>
  {{end}}
  {{if $item.Translations.General}}
  <p style="margin: 4px 0; color: #555;">{{join $item.Translations.General ", "}}</p>
  {{end}}
  {{if $item.ExamplesSource}}
  <ul style="margin: 8px 0;">
    {{range $i, $example := $item.ExamplesSource}}
    <li style="margin-bottom: 6px;">{{$example}}{{with translated $item $i}}<br><i style="color: #777;">{{.}}</i>{{end}}</li>
    {{end}}
  </ul>
  {{end}}
</div>
{{end}}
</body>
</html>
`

type bodyData struct {
	Date  string
	Items []generate.Item
}

var tmpl = template.Must(template.New("body").Funcs(template.FuncMap{
	"join": strings.Join,
	// translated returns the translation parallel to example index i, or ""
	// when the slot stayed blank.
	"translated": func(item generate.Item, i int) string {
		if i < len(item.ExamplesTranslated) {
			return item.ExamplesTranslated[i]
		}
		return ""
	},
}).Parse(bodyTemplate))

// Render produces the subject line and HTML body for one run's analysis.
func Render(date string, analysis *generate.Analysis) (subject, body string, err error) {
	n := len(analysis.Items)
	subject = fmt.Sprintf("Daily vocabulary: %d %s (%s)", n, plural(n), date)

	var buf strings.Builder
	if err := tmpl.Execute(&buf, bodyData{Date: date, Items: analysis.Items}); err != nil {
		return "", "", fmt.Errorf("failed to render email body: %w", err)
	}

	return subject, buf.String(), nil
}

func plural(n int) string {
	if n == 1 {
		return "word"
	}
	return "words"
}
