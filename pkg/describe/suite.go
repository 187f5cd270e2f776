// Package describe provides the declarative suite tree for behavior-driven tests:
// groups ("describe" blocks), test cases ("it" blocks), setup/teardown hooks and
// log statements, together with the result and reporter types shared by the
// collector and executor.
package describe

import (
	"context"
	"slices"
	"strings"
)

// Action is the shape of hook functions and test case bodies.
// A returned error or a panic marks the surrounding test case as failed.
type Action func(ctx context.Context) error

// LogLevel is the level of a LogStatement.
type LogLevel int

const (
	// LevelInfo is an informational log statement.
	LevelInfo LogLevel = iota
	// LevelDebug is a debug log statement.
	LevelDebug
)

// String returns a human-readable label for the level.
func (l LogLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// Step is an entry in a group's ordered step list: a *TestCase or a *LogStatement.
type Step interface {
	isStep()
}

// TestCase is a named unit of verification. A nil Body makes the case pending.
type TestCase struct {
	Name string
	Body Action
	Tags []string
}

func (*TestCase) isStep() {}

// IsPending reports whether the case has no body.
func (c *TestCase) IsPending() bool {
	return c.Body == nil
}

// LogStatement is a log message, either declared in the tree or emitted while a
// test case runs.
type LogStatement struct {
	Level   LogLevel
	Message string
}

func (*LogStatement) isStep() {}

// Group is a "describe" node. It exclusively owns its steps, hooks and children.
type Group struct {
	Name     string
	Tags     []string
	Steps    []Step
	Hooks    []HookEntry
	Children []Group
}

// Before returns the group's own before-hooks in declaration order.
func (g Group) Before() []Action {
	return g.hooksOf(HookBefore)
}

// After returns the group's own after-hooks in declaration order.
func (g Group) After() []Action {
	return g.hooksOf(HookAfter)
}

func (g Group) hooksOf(kind HookKind) []Action {
	hooks := make([]Action, 0, len(g.Hooks))
	for _, h := range g.Hooks {
		if h.Kind == kind {
			hooks = append(hooks, h.Fn)
		}
	}
	return hooks
}

// Cases returns the group's own test cases in declaration order. Nil cases
// are skipped, as the collector skips them.
func (g Group) Cases() []*TestCase {
	cases := make([]*TestCase, 0, len(g.Steps))
	for _, s := range g.Steps {
		if tc, ok := s.(*TestCase); ok && tc != nil {
			cases = append(cases, tc)
		}
	}
	return cases
}

// TotalCount returns the number of test cases in the whole subtree.
func (g Group) TotalCount() int {
	count := len(g.Cases())
	for i := range g.Children {
		count += g.Children[i].TotalCount()
	}
	return count
}

// Path identifies a group by the names from the root down to it.
type Path []string

// NewPath builds a path from names.
func NewPath(names ...string) Path {
	return slices.Clone(Path(names))
}

// Child returns a new path extended by name. The receiver is never modified.
func (p Path) Child(name string) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, name)
}

// Equal reports whether both paths hold the same names in the same order.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// Depth is the number of names in the path; the root has depth 1.
func (p Path) Depth() int {
	return len(p)
}

// Last returns the innermost name, or "" for an empty path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// String joins the names with "/".
func (p Path) String() string {
	return strings.Join(p, "/")
}
