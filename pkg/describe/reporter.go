//go:generate mockgen -source=reporter.go -destination=reporter_mock.go -package=describe
package describe

// Reporter receives progress notifications from the executor. Calls are made
// synchronously and never concurrently, in declaration order of the tree.
type Reporter interface {
	// Begin is called once, before any group runs.
	Begin(totalCount int)

	// BeginSuite and EndSuite bracket each group.
	BeginSuite(name string, path Path)
	EndSuite(name string, path Path)

	// Info and Debug are called once per log emission.
	Info(message string, path Path)
	Debug(message string, path Path)

	// ReportResult is called exactly once per executed test case, after the
	// case's captured logs.
	ReportResult(result TestResult, path Path)

	// End is called once, after the whole tree completes.
	End(results []TestResult)
}

// EmitLog forwards a log statement to the matching reporter method.
func EmitLog(r Reporter, statement LogStatement, path Path) {
	switch statement.Level {
	case LevelDebug:
		r.Debug(statement.Message, path)
	default:
		r.Info(statement.Message, path)
	}
}
