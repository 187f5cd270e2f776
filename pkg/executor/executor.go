// Package executor runs a describe.Group tree: it collects the tree, applies
// an ordering policy, runs every test case with its hooks under per-case log
// capture and reports progress to a describe.Reporter in declaration order.
package executor

import (
	"context"
	"time"

	"github.com/denizgursoy/describe/pkg/collector"
	"github.com/denizgursoy/describe/pkg/describe"
	"github.com/denizgursoy/describe/pkg/reporter"
)

// Executor runs suite trees. It holds no per-run state and may run several
// trees, one after another or at the same time.
type Executor struct {
	reporter       describe.Reporter
	ordering       OrderingPolicy
	sequencer      Sequencer
	logger         describe.Logger
	collectOptions []collector.Option
	now            func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithOrdering sets the ordering policy. Default: DeclarationOrder.
func WithOrdering(policy OrderingPolicy) Option {
	return func(e *Executor) {
		if policy != nil {
			e.ordering = policy
		}
	}
}

// WithSequencer sets the strategy used for every sibling batch. Default: Sequential.
func WithSequencer(sequencer Sequencer) Option {
	return func(e *Executor) {
		if sequencer != nil {
			e.sequencer = sequencer
		}
	}
}

// WithLogger sets the logger for the executor's own lifecycle messages.
func WithLogger(logger describe.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCollectorOptions passes options, such as a tag filter, to the collector.
func WithCollectorOptions(opts ...collector.Option) Option {
	return func(e *Executor) {
		e.collectOptions = append(e.collectOptions, opts...)
	}
}

// WithClock overrides the time source used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an Executor reporting to r. A nil reporter discards all output.
func New(r describe.Reporter, opts ...Option) *Executor {
	if r == nil {
		r = reporter.Noop()
	}
	e := &Executor{
		reporter:  r,
		ordering:  DeclarationOrder(),
		sequencer: Sequential(),
		logger:    describe.NopLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes root and returns one result per executed test case: a group's
// own results first, then each child's, children in declaration order.
//
// Begin is reported before anything runs and End after everything finished.
// Test failures are data; Run itself never fails.
func (e *Executor) Run(ctx context.Context, root describe.Group) []describe.TestResult {
	collected := collector.Collect(root, e.collectOptions...)
	plan := collected.Reorder(e.ordering.Order(collected.Flatten()))

	total := plan.TotalCount()
	e.logger.Debug("starting run", "root", root.Name, "cases", total)
	e.reporter.Begin(total)

	out := newRelease(e.reporter)
	results := e.runGroup(ctx, plan, out)
	out.Close()

	summary := describe.Summarize(results)
	e.logger.Debug("run finished",
		"passed", summary.Passed,
		"failed", summary.Failed,
		"pending", summary.Pending,
	)
	e.reporter.End(results)
	return results
}

// runGroup reports and executes one collected group. Its own steps form one
// sequencer batch; its children form a second batch that starts only after
// the first completed.
func (e *Executor) runGroup(ctx context.Context, g *collector.CollectedGroup, out *slot) []describe.TestResult {
	out.Emit(func(r describe.Reporter) { r.BeginSuite(g.Name, g.Path) })

	own := make([]*describe.TestResult, len(g.Steps))
	stepTasks := make([]Task, 0, len(g.Steps))
	for i, step := range g.Steps {
		region := out.Open()
		stepTasks = append(stepTasks, func(ctx context.Context) {
			defer region.Close()
			own[i] = e.runStep(ctx, step, region)
		})
	}
	e.sequencer.Run(ctx, stepTasks)

	nested := make([][]describe.TestResult, len(g.Children))
	childTasks := make([]Task, 0, len(g.Children))
	for i, child := range g.Children {
		region := out.Open()
		childTasks = append(childTasks, func(ctx context.Context) {
			defer region.Close()
			nested[i] = e.runGroup(ctx, child, region)
		})
	}
	e.sequencer.Run(ctx, childTasks)

	out.Emit(func(r describe.Reporter) { r.EndSuite(g.Name, g.Path) })
	return aggregate(own, nested)
}

// runStep reports a log statement, or runs a test case and reports its logs
// followed by its result. It returns nil for log statements.
func (e *Executor) runStep(ctx context.Context, step collector.CollectedStep, out *slot) *describe.TestResult {
	if !step.IsCase() {
		statement := *step.Log
		out.Emit(func(r describe.Reporter) { describe.EmitLog(r, statement, step.Path) })
		return nil
	}

	result := e.RunTestCase(ctx, step.Path, step.Case, step.Before, step.After)
	for _, statement := range result.Logs {
		out.Emit(func(r describe.Reporter) { describe.EmitLog(r, statement, step.Path) })
	}
	out.Emit(func(r describe.Reporter) { r.ReportResult(result, step.Path) })
	return &result
}

// RunTestCase runs one test case: before-hooks in order, the body unless the
// case is pending, then after-hooks in order. Every Info and Debug call made
// under the context handed to the hooks and the body is captured into the
// result.
//
// A failing before-hook skips the body and the remaining before-hooks, but the
// after-hooks still run. A failing after-hook skips the remaining after-hooks.
// The first failure decides the outcome.
func (e *Executor) RunTestCase(
	ctx context.Context,
	path describe.Path,
	tc *describe.TestCase,
	before, after []describe.Action,
) describe.TestResult {
	capture := describe.NewLogCapture()
	caseCtx := describe.WithLogSink(ctx, capture)
	started := e.now()

	var failure error
	for i, hook := range before {
		if err := invoke(caseCtx, hook); err != nil {
			failure = &describe.HookError{Kind: describe.HookBefore, Index: i, Err: err}
			break
		}
	}

	if failure == nil && !tc.IsPending() {
		failure = invoke(caseCtx, tc.Body)
	}

	for i, hook := range after {
		if err := invoke(caseCtx, hook); err != nil {
			if failure == nil {
				failure = &describe.HookError{Kind: describe.HookAfter, Index: i, Err: err}
			}
			break
		}
	}

	var outcome describe.Outcome
	switch {
	case failure != nil:
		outcome = describe.Failed(path, tc.Name, failure)
		e.logger.Debug("test case failed", "case", outcome.FullName(), "error", failure)
	case tc.IsPending():
		outcome = describe.PendingOutcome(path, tc.Name)
	default:
		outcome = describe.Passed(path, tc.Name)
	}

	return describe.TestResult{
		Outcome:   outcome,
		Logs:      capture.Logs(),
		StartedAt: started,
		Duration:  e.now().Sub(started),
	}
}

// invoke runs action, turning a panic into an error. A nil action is a no-op.
func invoke(ctx context.Context, action describe.Action) error {
	if action == nil {
		return nil
	}
	return describe.Catch(func() error {
		return action(ctx)
	})
}

// aggregate concatenates a group's own results, in execution order, with each
// child's aggregated results, children in declaration order.
func aggregate(own []*describe.TestResult, nested [][]describe.TestResult) []describe.TestResult {
	size := len(own)
	for _, child := range nested {
		size += len(child)
	}
	results := make([]describe.TestResult, 0, size)
	for _, r := range own {
		if r != nil {
			results = append(results, *r)
		}
	}
	for _, child := range nested {
		results = append(results, child...)
	}
	return results
}
