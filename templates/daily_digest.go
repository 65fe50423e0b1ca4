package templates

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/usecase"
)

const dailyDigestText = `Attendance for {{ day .Summary.Day }}

Headcount: {{ .Summary.Headcount }}
Arrived:   {{ .Summary.Arrived }}
On site:   {{ .Summary.OnSite }}
Departed:  {{ .Summary.Departed }}
Absent:    {{ .Summary.Absent }}
{{ if .Summary.Records }}
Records
{{ range .Summary.Records -}}
- {{ person .Personnel }}  in {{ clock .ArrivalTime }}  out {{ clock .DepartureTime }}  {{ .Status }}  {{ worked .Worked }}{{ if .Remarks }}  "{{ .Remarks }}"{{ end }}
{{ end -}}
{{ end -}}
{{ if .Summary.Absentees }}
Absent
{{ range .Summary.Absentees -}}
- {{ person . }}
{{ end -}}
{{ end }}
Generated {{ .Now.Format "2006-01-02 15:04" }}
`

// DailyDigest renders the plain-text daily attendance mail
type DailyDigest struct {
	tmpl *template.Template
}

var _ usecase.DigestRenderer = (*DailyDigest)(nil)

// NewDailyDigest parses the digest template
func NewDailyDigest() *DailyDigest {
	funcs := template.FuncMap{
		"day":    entity.FormatDay,
		"clock":  formatClock,
		"worked": formatWorked,
		"person": formatPerson,
	}
	return &DailyDigest{
		tmpl: template.Must(template.New("daily_digest").Funcs(funcs).Parse(dailyDigestText)),
	}
}

// Render implements usecase.DigestRenderer
func (d *DailyDigest) Render(summary *entity.DailySummary, now time.Time) (string, string, error) {
	var buf bytes.Buffer
	err := d.tmpl.Execute(&buf, struct {
		Summary *entity.DailySummary
		Now     time.Time
	}{summary, now.In(time.Local)})
	if err != nil {
		return "", "", fmt.Errorf("execute digest template: %w", err)
	}

	subject := fmt.Sprintf("Attendance digest %s: %d/%d arrived",
		entity.FormatDay(summary.Day), summary.Arrived, summary.Headcount)
	return subject, buf.String(), nil
}

func formatClock(t *time.Time) string {
	if t == nil {
		return "--:--"
	}
	return t.In(time.Local).Format("15:04")
}

func formatWorked(d *time.Duration) string {
	if d == nil {
		return "-"
	}
	minutes := int(d.Minutes())
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

func formatPerson(p *entity.PersonnelSummary) string {
	if p == nil {
		return "(unknown person)"
	}
	if p.Role == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Role)
}
