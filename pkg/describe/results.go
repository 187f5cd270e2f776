package describe

import "time"

// Status represents the execution outcome of a test case.
type Status int

const (
	// StatusPassed indicates the body completed without error.
	StatusPassed Status = iota
	// StatusFailed indicates the body or one of its hooks failed.
	StatusFailed
	// StatusPending indicates the case has no body.
	StatusPending
)

// String returns a human-readable label for the status.
func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusPending:
		return "pending"
	default:
		return "unknown"
	}
}

// Outcome is the result variant of a test case: Passed(path, name),
// Failed(path, name, err) or Pending(path, name).
type Outcome struct {
	Status Status

	// Path is the path of the group that declares the case.
	Path Path

	// Name is the test case name.
	Name string

	// Err is the failure cause. Nil unless Status is StatusFailed.
	Err error
}

// Passed builds a passed outcome.
func Passed(path Path, name string) Outcome {
	return Outcome{Status: StatusPassed, Path: path, Name: name}
}

// Failed builds a failed outcome.
func Failed(path Path, name string, err error) Outcome {
	return Outcome{Status: StatusFailed, Path: path, Name: name, Err: err}
}

// PendingOutcome builds a pending outcome.
func PendingOutcome(path Path, name string) Outcome {
	return Outcome{Status: StatusPending, Path: path, Name: name}
}

// Message returns the failure message verbatim, or "" when the case did not fail.
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// FullName is the group path joined with the case name, e.g. "G/t1".
func (o Outcome) FullName() string {
	return o.Path.Child(o.Name).String()
}

// TestResult holds the execution result of a single test case.
type TestResult struct {
	Outcome Outcome

	// Logs are the statements emitted through Info and Debug while the case's
	// hooks and body ran, in emission order.
	Logs []LogStatement

	// StartedAt is when the first before-hook started.
	StartedAt time.Time

	// Duration covers hooks and body.
	Duration time.Duration
}

// Summary holds aggregate counters of a set of results.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Pending int
}

// Summarize counts the outcomes in results.
func Summarize(results []TestResult) Summary {
	var s Summary
	for _, r := range results {
		s.Total++
		switch r.Outcome.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusPending:
			s.Pending++
		}
	}
	return s
}

// OK reports whether no case failed.
func (s Summary) OK() bool {
	return s.Failed == 0
}

// RunResult holds the complete results of a run.
type RunResult struct {
	// RunID identifies the run in logs and reports.
	RunID string

	// Results contains one entry per executed test case, in aggregation order.
	Results []TestResult

	// Summary holds aggregate pass/fail/pending counters.
	Summary Summary

	// StartedAt is when the run started.
	StartedAt time.Time

	// Duration is the total wall-clock time for the entire run.
	Duration time.Duration
}
