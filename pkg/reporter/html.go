package reporter

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/denizgursoy/describe/pkg/describe"
)

// suiteGroup holds the cases of one suite path inside a status section.
type suiteGroup struct {
	Path     string
	Count    int
	Duration time.Duration
	Cases    []describe.TestResult
}

// statusSection holds the failed, pending or passed cases.
type statusSection struct {
	Label    string
	CSSClass string
	Count    int
	Duration time.Duration
	Suites   []suiteGroup
}

// reportData is the view model passed to the HTML template.
type reportData struct {
	RunID         string
	Summary       describe.Summary
	TotalDuration time.Duration
	ExecutedAt    time.Time
	Sections      []statusSection
}

func sumDurations(results []describe.TestResult) time.Duration {
	var total time.Duration
	for _, r := range results {
		total += r.Duration
	}
	return total
}

// buildReportData splits the results into failed, pending and passed
// sections, in that order, skipping empty ones. Within a section the cases are
// grouped by suite path in first-seen order.
func buildReportData(result describe.RunResult) reportData {
	byStatus := map[describe.Status][]describe.TestResult{}
	for _, r := range result.Results {
		byStatus[r.Outcome.Status] = append(byStatus[r.Outcome.Status], r)
	}

	var sections []statusSection
	for _, s := range []struct {
		status describe.Status
		label  string
	}{
		{describe.StatusFailed, "Failed Cases"},
		{describe.StatusPending, "Pending Cases"},
		{describe.StatusPassed, "Passed Cases"},
	} {
		cases := byStatus[s.status]
		if len(cases) == 0 {
			continue
		}
		sections = append(sections, statusSection{
			Label:    s.label,
			CSSClass: s.status.String(),
			Count:    len(cases),
			Duration: sumDurations(cases),
			Suites:   groupBySuite(cases),
		})
	}

	return reportData{
		RunID:         result.RunID,
		Summary:       result.Summary,
		TotalDuration: result.Duration,
		ExecutedAt:    result.StartedAt,
		Sections:      sections,
	}
}

func groupBySuite(results []describe.TestResult) []suiteGroup {
	index := map[string]int{}
	var groups []suiteGroup
	for _, r := range results {
		key := r.Outcome.Path.String()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, suiteGroup{Path: key})
		}
		groups[i].Cases = append(groups[i].Cases, r)
		groups[i].Count++
		groups[i].Duration += r.Duration
	}
	return groups
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"summaryClass": func(failed int) string {
		if failed > 0 {
			return "has-failures"
		}
		return "all-passed"
	},
	"statusSymbol": func(s describe.Status) string {
		switch s {
		case describe.StatusPassed:
			return "✓"
		case describe.StatusFailed:
			return "✗"
		default:
			return "–"
		}
	},
	"formatDuration": formatDuration,
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04:05")
	},
}).Parse(htmlTemplate))

// WriteHTMLReport renders a self-contained HTML report of result to w.
func WriteHTMLReport(w io.Writer, result describe.RunResult) error {
	if err := reportTemplate.Execute(w, buildReportData(result)); err != nil {
		return fmt.Errorf("could not render HTML report: %w", err)
	}
	return nil
}

// GenerateHTMLReport writes the HTML report to path, creating parent
// directories as needed.
func GenerateHTMLReport(path string, result describe.RunResult) (err error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create report directory %q: %w", dir, err)
		}
	}

	f, err := createReportFile(path)
	if err != nil {
		return fmt.Errorf("could not create report file %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close report file %q: %w", path, closeErr)
		}
	}()

	return WriteHTMLReport(f, result)
}

var createReportFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Test Report</title>
<style>
  *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #f8f9fa; color: #212529; line-height: 1.6; padding: 2rem;
  }
  h1 { font-size: 1.5rem; margin-bottom: 0.25rem; font-weight: 700; }
  .meta { font-size: 0.8rem; color: #868e96; margin-bottom: 1.5rem; }
  .summary {
    display: flex; gap: 1rem; flex-wrap: wrap; margin-bottom: 2rem;
    padding: 1rem 1.25rem; background: #fff; border-radius: 10px;
  }
  .summary.all-passed { border: 2px solid #2b8a3e; background: #f6fef7; }
  .summary.has-failures { border: 2px solid #c92a2a; background: #fff5f5; }
  .summary-item { text-align: center; min-width: 90px; }
  .summary-item .number { font-size: 1.8rem; font-weight: 700; }
  .summary-item .label { font-size: 0.7rem; text-transform: uppercase; color: #868e96; }
  .number.green { color: #2b8a3e; }
  .number.red { color: #c92a2a; }
  .number.yellow { color: #e67700; }
  .number.blue { color: #1864ab; }
  .section { margin-bottom: 2rem; }
  .section-header {
    font-size: 1.1rem; font-weight: 700; margin-bottom: 0.75rem;
    padding-bottom: 0.4rem; border-bottom: 2px solid #dee2e6;
  }
  .section.failed .section-header { color: #c92a2a; }
  .section.pending .section-header { color: #e67700; }
  .section.passed .section-header { color: #2b8a3e; }
  .section-meta, .suite-meta { font-size: 0.8rem; font-weight: 400; color: #868e96; }
  .suite { margin: 0 0 1.25rem 0.25rem; }
  .suite-label { font-size: 0.85rem; font-weight: 600; color: #495057; margin-bottom: 0.4rem; }
  .case {
    margin-bottom: 0.5rem; background: #fff; border-radius: 8px;
    border: 1px solid #e9ecef; border-left: 4px solid #ced4da;
  }
  .case.passed { border-left-color: #69db7c; }
  .case.failed { border-left-color: #ff6b6b; }
  .case.pending { border-left-color: #ffd43b; }
  .case-header {
    display: flex; justify-content: space-between; padding: 0.6rem 1rem;
    cursor: pointer; user-select: none;
  }
  .case-name { font-weight: 600; font-size: 0.9rem; }
  .case-meta { font-size: 0.78rem; color: #868e96; }
  .details {
    display: none; padding: 0.5rem 1rem 0.75rem 1rem; background: #1e1f22;
    border-radius: 0 0 6px 6px; color: #BCBEC4;
    font-family: "JetBrains Mono", "Fira Code", "SF Mono", monospace; font-size: 0.82rem;
  }
  .case.open .details { display: block; }
  .log.debug { color: #6F737A; }
  .error {
    color: #ff4444; background: #2c1a1a; border-radius: 4px; margin-top: 0.3rem;
    padding: 0.3rem 0.5rem; white-space: pre-wrap; border: 1px solid #4a2020;
  }
  .empty-msg { color: #868e96; font-style: italic; padding: 1rem 0; text-align: center; }
</style>
</head>
<body>
<h1>Test Report</h1>
<div class="meta">{{if .RunID}}Run {{.RunID}}{{end}}{{if not .ExecutedAt.IsZero}} executed at {{formatTime .ExecutedAt}}{{end}}</div>

<div class="summary {{summaryClass .Summary.Failed}}">
  <div class="summary-item"><div class="number blue">{{.Summary.Total}}</div><div class="label">Cases</div></div>
  <div class="summary-item"><div class="number green">{{.Summary.Passed}}</div><div class="label">Passed</div></div>
  <div class="summary-item"><div class="number red">{{.Summary.Failed}}</div><div class="label">Failed</div></div>
  <div class="summary-item"><div class="number yellow">{{.Summary.Pending}}</div><div class="label">Pending</div></div>
  <div class="summary-item"><div class="number blue">{{formatDuration .TotalDuration}}</div><div class="label">Duration</div></div>
</div>

{{if not .Sections}}<div class="empty-msg">No test cases were executed.</div>{{end}}

{{range .Sections}}
<div class="section {{.CSSClass}}">
  <div class="section-header">{{.Label}} <span class="section-meta">{{.Count}} cases, {{formatDuration .Duration}}</span></div>
  {{range .Suites}}
  <div class="suite">
    <div class="suite-label">{{.Path}} <span class="suite-meta">({{.Count}} cases, {{formatDuration .Duration}})</span></div>
    {{range .Cases}}
    <div class="case {{.Outcome.Status}}">
      <div class="case-header" onclick="this.parentElement.classList.toggle('open')">
        <span class="case-name">{{statusSymbol .Outcome.Status}} {{.Outcome.Name}}</span>
        <span class="case-meta">{{formatDuration .Duration}}</span>
      </div>
      <div class="details">
        {{range .Logs}}<div class="log {{.Level}}">{{.Message}}</div>{{end}}
        {{if .Outcome.Err}}<div class="error">{{.Outcome.Message}}</div>{{end}}
      </div>
    </div>
    {{end}}
  </div>
  {{end}}
</div>
{{end}}

<script>
document.querySelectorAll('.case.failed').forEach(function(el) { el.classList.add('open'); });
</script>
</body>
</html>
`
