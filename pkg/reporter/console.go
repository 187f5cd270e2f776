// Package reporter provides describe.Reporter implementations: a colored
// console reporter, an event recorder, a fan-out multi reporter, a no-op
// reporter and an HTML report writer.
package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/denizgursoy/describe/pkg/describe"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"

	colorKeyword = "\033[38;2;207;142;109m" // #CF8E6D suite names
	colorText    = "\033[38;2;188;190;196m" // #BCBEC4 case names, info logs
	colorMuted   = "\033[38;2;111;115;122m" // #6F737A debug logs, pending cases
)

// Symbols for case status
const (
	symbolPass    = "✓"
	symbolFail    = "✗"
	symbolPending = "-"
)

// ConsoleReporter prints an indented tree of suites and cases, followed by a
// summary table.
type ConsoleReporter struct {
	out       io.Writer
	useColors bool
	showDebug bool
	disabled  bool
	startedAt time.Time

	mu      sync.Mutex
	summary describe.Summary
}

// ConsoleOption configures a ConsoleReporter.
type ConsoleOption func(*ConsoleReporter)

// WithOutput sets the destination. Default: os.Stdout.
func WithOutput(w io.Writer) ConsoleOption {
	return func(r *ConsoleReporter) {
		if w != nil {
			r.out = w
		}
	}
}

// WithColors toggles ANSI colors.
func WithColors(useColors bool) ConsoleOption {
	return func(r *ConsoleReporter) {
		r.useColors = useColors
	}
}

// WithDebug prints debug log messages too. They are hidden by default.
func WithDebug(show bool) ConsoleOption {
	return func(r *ConsoleReporter) {
		r.showDebug = show
	}
}

// NewConsoleReporter creates a reporter writing colored output to stdout.
func NewConsoleReporter(opts ...ConsoleOption) *ConsoleReporter {
	r := &ConsoleReporter{
		out:       os.Stdout,
		useColors: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewSilentConsoleReporter creates a ConsoleReporter that suppresses all output.
// Summary statistics are still tracked.
func NewSilentConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: io.Discard, disabled: true}
}

func (r *ConsoleReporter) writeln(s string) {
	if r.disabled {
		return
	}
	fmt.Fprintln(r.out, s)
}

func (r *ConsoleReporter) color(c, s string) string {
	if r.useColors {
		return c + s + colorReset
	}
	return s
}

// indent returns two spaces per nesting level below the root.
func indent(path describe.Path) string {
	if path.Depth() <= 1 {
		return ""
	}
	return strings.Repeat("  ", path.Depth()-1)
}

// Begin resets the summary and prints the number of cases.
func (r *ConsoleReporter) Begin(totalCount int) {
	r.mu.Lock()
	r.summary = describe.Summary{}
	r.startedAt = time.Now()
	r.mu.Unlock()

	r.writeln(r.color(colorMuted, fmt.Sprintf("Running %d test case(s)", totalCount)))
}

// BeginSuite prints the suite name at its nesting level.
func (r *ConsoleReporter) BeginSuite(name string, path describe.Path) {
	r.writeln("")
	r.writeln(indent(path) + r.color(colorKeyword, name))
}

// EndSuite prints nothing; indentation closes the suite.
func (r *ConsoleReporter) EndSuite(string, describe.Path) {}

// Info prints an info message under the suite.
func (r *ConsoleReporter) Info(message string, path describe.Path) {
	r.writeln(indent(path) + "  " + r.color(colorText, message))
}

// Debug prints a debug message when debug output is enabled.
func (r *ConsoleReporter) Debug(message string, path describe.Path) {
	if !r.showDebug {
		return
	}
	r.writeln(indent(path) + "  " + r.color(colorMuted, message))
}

// ReportResult prints the case with its status symbol, and the failure
// message indented below a failed case.
func (r *ConsoleReporter) ReportResult(result describe.TestResult, path describe.Path) {
	r.mu.Lock()
	r.summary.Total++
	switch result.Outcome.Status {
	case describe.StatusPassed:
		r.summary.Passed++
	case describe.StatusFailed:
		r.summary.Failed++
	case describe.StatusPending:
		r.summary.Pending++
	}
	r.mu.Unlock()

	line := indent(path) + "  "
	switch result.Outcome.Status {
	case describe.StatusPassed:
		r.writeln(fmt.Sprintf("%-60s %s", line+r.color(colorText, result.Outcome.Name), r.color(colorGreen, symbolPass)))
	case describe.StatusFailed:
		r.writeln(fmt.Sprintf("%-60s %s", line+r.color(colorText, result.Outcome.Name), r.color(colorRed, symbolFail)))
		for _, msg := range strings.Split(result.Outcome.Message(), "\n") {
			r.writeln(r.color(colorRed, line+"    "+msg))
		}
	case describe.StatusPending:
		r.writeln(fmt.Sprintf("%-60s %s", line+r.color(colorMuted, result.Outcome.Name), r.color(colorYellow, symbolPending)))
	}
}

// End prints the summary table and the list of failures.
func (r *ConsoleReporter) End(results []describe.TestResult) {
	if r.disabled {
		return
	}
	summary := describe.Summarize(results)

	r.mu.Lock()
	var elapsed time.Duration
	if !r.startedAt.IsZero() {
		elapsed = time.Since(r.startedAt)
	}
	r.mu.Unlock()

	r.writeln("")
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(fmt.Sprintf("Test Results (%s)", formatDuration(elapsed)))
	t.AppendHeader(table.Row{"Total", "Passed", "Failed", "Pending", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Total", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Pending", Align: text.AlignRight},
	})
	t.AppendRow(table.Row{summary.Total, summary.Passed, summary.Failed, summary.Pending, statusLabel(summary)})
	if r.useColors {
		switch {
		case summary.Failed > 0:
			t.SetStyle(table.StyleColoredBlackOnRedWhite)
		case summary.Pending > 0:
			t.SetStyle(table.StyleColoredBlackOnYellowWhite)
		default:
			t.SetStyle(table.StyleColoredBlackOnGreenWhite)
		}
	}
	t.Render()

	failures := 0
	for _, res := range results {
		if res.Outcome.Status != describe.StatusFailed {
			continue
		}
		if failures == 0 {
			r.writeln("")
			r.writeln(r.color(colorRed, "Failures:"))
		}
		failures++
		r.writeln(fmt.Sprintf("  %d) %s", failures, res.Outcome.FullName()))
		r.writeln(r.color(colorRed, "     "+res.Outcome.Message()))
	}
}

// Summary returns the counters accumulated from ReportResult calls.
func (r *ConsoleReporter) Summary() describe.Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

func statusLabel(s describe.Summary) string {
	switch {
	case s.Failed > 0:
		return "FAIL"
	case s.Pending > 0:
		return "PENDING"
	default:
		return "PASS"
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.0fµs", float64(d)/float64(time.Microsecond))
	}
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
