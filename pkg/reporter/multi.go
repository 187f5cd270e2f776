package reporter

import "github.com/denizgursoy/describe/pkg/describe"

// noopReporter discards all output
type noopReporter struct{}

// Noop returns a reporter that discards all output.
func Noop() describe.Reporter {
	return noopReporter{}
}

func (noopReporter) Begin(int)                                       {}
func (noopReporter) BeginSuite(string, describe.Path)                {}
func (noopReporter) EndSuite(string, describe.Path)                  {}
func (noopReporter) Info(string, describe.Path)                      {}
func (noopReporter) Debug(string, describe.Path)                     {}
func (noopReporter) ReportResult(describe.TestResult, describe.Path) {}
func (noopReporter) End([]describe.TestResult)                       {}

// multiReporter forwards every call to each reporter in order.
type multiReporter []describe.Reporter

// Multi returns a reporter that forwards every call to all of reporters, in
// the given order. Nil reporters are skipped.
func Multi(reporters ...describe.Reporter) describe.Reporter {
	m := make(multiReporter, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			m = append(m, r)
		}
	}
	return m
}

func (m multiReporter) Begin(totalCount int) {
	for _, r := range m {
		r.Begin(totalCount)
	}
}

func (m multiReporter) BeginSuite(name string, path describe.Path) {
	for _, r := range m {
		r.BeginSuite(name, path)
	}
}

func (m multiReporter) EndSuite(name string, path describe.Path) {
	for _, r := range m {
		r.EndSuite(name, path)
	}
}

func (m multiReporter) Info(message string, path describe.Path) {
	for _, r := range m {
		r.Info(message, path)
	}
}

func (m multiReporter) Debug(message string, path describe.Path) {
	for _, r := range m {
		r.Debug(message, path)
	}
}

func (m multiReporter) ReportResult(result describe.TestResult, path describe.Path) {
	for _, r := range m {
		r.ReportResult(result, path)
	}
}

func (m multiReporter) End(results []describe.TestResult) {
	for _, r := range m {
		r.End(results)
	}
}
