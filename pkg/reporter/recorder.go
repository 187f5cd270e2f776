package reporter

import (
	"fmt"
	"slices"
	"sync"

	"github.com/denizgursoy/describe/pkg/describe"
)

// EventKind names a Reporter method.
type EventKind string

const (
	EventBegin        EventKind = "Begin"
	EventBeginSuite   EventKind = "BeginSuite"
	EventEndSuite     EventKind = "EndSuite"
	EventInfo         EventKind = "Info"
	EventDebug        EventKind = "Debug"
	EventReportResult EventKind = "ReportResult"
	EventEnd          EventKind = "End"
)

// Event is one recorded Reporter call.
type Event struct {
	Kind EventKind

	// Name is the suite name, log message or case name, depending on Kind.
	Name string
	Path describe.Path

	// Count is the total passed to Begin or the number of results passed to End.
	Count int

	// Result is set for EventReportResult.
	Result describe.TestResult
}

// String renders the event compactly, e.g. "ReportResult(G/t1 passed)".
func (e Event) String() string {
	switch e.Kind {
	case EventBegin, EventEnd:
		return fmt.Sprintf("%s(%d)", e.Kind, e.Count)
	case EventReportResult:
		return fmt.Sprintf("%s(%s %s)", e.Kind, e.Result.Outcome.FullName(), e.Result.Outcome.Status)
	default:
		return fmt.Sprintf("%s(%s @ %s)", e.Kind, e.Name, e.Path)
	}
}

// Recorder is a Reporter that keeps every call in order. It is safe for
// concurrent use.
type Recorder struct {
	mu      sync.Mutex
	events  []Event
	results []describe.TestResult
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Begin(totalCount int) {
	r.record(Event{Kind: EventBegin, Count: totalCount})
}

func (r *Recorder) BeginSuite(name string, path describe.Path) {
	r.record(Event{Kind: EventBeginSuite, Name: name, Path: path})
}

func (r *Recorder) EndSuite(name string, path describe.Path) {
	r.record(Event{Kind: EventEndSuite, Name: name, Path: path})
}

func (r *Recorder) Info(message string, path describe.Path) {
	r.record(Event{Kind: EventInfo, Name: message, Path: path})
}

func (r *Recorder) Debug(message string, path describe.Path) {
	r.record(Event{Kind: EventDebug, Name: message, Path: path})
}

func (r *Recorder) ReportResult(result describe.TestResult, path describe.Path) {
	r.record(Event{Kind: EventReportResult, Name: result.Outcome.Name, Path: path, Result: result})
}

func (r *Recorder) End(results []describe.TestResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: EventEnd, Count: len(results)})
	r.results = slices.Clone(results)
}

// Events returns a copy of the recorded calls.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Trace returns the String form of every recorded call.
func (r *Recorder) Trace() []string {
	events := r.Events()
	trace := make([]string, 0, len(events))
	for _, e := range events {
		trace = append(trace, e.String())
	}
	return trace
}

// Results returns the results passed to End.
func (r *Recorder) Results() []describe.TestResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.results)
}
