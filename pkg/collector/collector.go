// Package collector flattens a describe.Group tree into collected steps: every
// test case and log statement annotated with its group path and the before and
// after hooks inherited from all of its ancestors.
package collector

import (
	"fmt"
	"slices"

	tagexpressions "github.com/cucumber/tag-expressions/go/v6"
	"github.com/denizgursoy/describe/pkg/describe"
)

// CollectedStep is a test case or log statement with its resolved path and hooks.
type CollectedStep struct {
	// Index is the step's position in pre-order declaration order. It is the
	// step's identity within one collection.
	Index int

	// Path is the path of the group declaring the step.
	Path describe.Path

	// Before holds every ancestor's before-hooks, outermost first.
	Before []describe.Action

	// After holds every ancestor's after-hooks, innermost first.
	After []describe.Action

	// Case is set for test case steps.
	Case *describe.TestCase

	// Log is set for declarative log statement steps.
	Log *describe.LogStatement

	// Tags are the case's own tags merged with every ancestor's, root first.
	Tags []string
}

// IsCase reports whether the step is a test case.
func (s CollectedStep) IsCase() bool {
	return s.Case != nil
}

// Name returns the test case name, or the log message for log steps.
func (s CollectedStep) Name() string {
	if s.Case != nil {
		return s.Case.Name
	}
	if s.Log != nil {
		return s.Log.Message
	}
	return ""
}

// CollectedGroup mirrors a describe.Group with resolved paths and hooks.
type CollectedGroup struct {
	Name     string
	Path     describe.Path
	Tags     []string
	Steps    []CollectedStep
	Children []*CollectedGroup
}

// TotalCount returns the number of test cases in the subtree.
func (g *CollectedGroup) TotalCount() int {
	if g == nil {
		return 0
	}
	count := 0
	for _, s := range g.Steps {
		if s.IsCase() {
			count++
		}
	}
	for _, child := range g.Children {
		count += child.TotalCount()
	}
	return count
}

// Flatten returns every step in pre-order: a group's own steps before its
// children, children in declaration order.
func (g *CollectedGroup) Flatten() []CollectedStep {
	if g == nil {
		return nil
	}
	steps := slices.Clone(g.Steps)
	for _, child := range g.Children {
		steps = append(steps, child.Flatten()...)
	}
	return steps
}

// Reorder returns a copy of the tree whose group step lists follow the order of
// ordered. Group structure and child order are kept. Steps missing from
// ordered are dropped; repeated steps keep their first position.
func (g *CollectedGroup) Reorder(ordered []CollectedStep) *CollectedGroup {
	rank := make(map[int]int, len(ordered))
	for i, s := range ordered {
		if _, seen := rank[s.Index]; !seen {
			rank[s.Index] = i
		}
	}
	return g.reorder(rank)
}

func (g *CollectedGroup) reorder(rank map[int]int) *CollectedGroup {
	if g == nil {
		return nil
	}
	out := &CollectedGroup{
		Name:     g.Name,
		Path:     g.Path,
		Tags:     g.Tags,
		Steps:    make([]CollectedStep, 0, len(g.Steps)),
		Children: make([]*CollectedGroup, 0, len(g.Children)),
	}
	for _, s := range g.Steps {
		if _, ok := rank[s.Index]; ok {
			out.Steps = append(out.Steps, s)
		}
	}
	slices.SortStableFunc(out.Steps, func(a, b CollectedStep) int {
		return rank[a.Index] - rank[b.Index]
	})
	for _, child := range g.Children {
		out.Children = append(out.Children, child.reorder(rank))
	}
	return out
}

// Option configures a collection.
type Option func(*collector)

// WithTagFilter keeps only the test cases whose tags satisfy evaluator.
// Groups left without test cases are dropped; the root is always kept.
func WithTagFilter(evaluator tagexpressions.Evaluatable) Option {
	return func(c *collector) {
		c.filter = evaluator
	}
}

// TagFilter parses a cucumber tag expression such as "@smoke and not @slow"
// into an Option. An empty expression selects every case.
func TagFilter(expression string) (Option, error) {
	if expression == "" {
		return func(*collector) {}, nil
	}
	evaluator, err := tagexpressions.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid tag expression %q: %w", expression, err)
	}
	return WithTagFilter(evaluator), nil
}

type collector struct {
	filter tagexpressions.Evaluatable
	next   int
}

// Collect walks root once and returns the collected tree. It does not modify
// root and identical input always yields identical output.
func Collect(root describe.Group, opts ...Option) *CollectedGroup {
	c := &collector{}
	for _, opt := range opts {
		opt(c)
	}

	collected := c.collectGroup(&root, nil, nil, nil, nil)
	if collected == nil {
		// Only the root can be pruned here; keep it, emptied.
		return &CollectedGroup{
			Name: root.Name,
			Path: describe.NewPath(root.Name),
			Tags: mergeTags(nil, root.Tags),
		}
	}
	return collected
}

func (c *collector) collectGroup(
	g *describe.Group,
	parentPath describe.Path,
	parentBefore, parentAfter []describe.Action,
	parentTags []string,
) *CollectedGroup {
	path := parentPath.Child(g.Name)
	before := slices.Concat(parentBefore, g.Before())
	after := slices.Concat(g.After(), parentAfter)
	tags := mergeTags(parentTags, g.Tags)

	collected := &CollectedGroup{
		Name: g.Name,
		Path: path,
		Tags: tags,
	}

	for _, step := range g.Steps {
		switch s := step.(type) {
		case *describe.TestCase:
			if s == nil {
				continue
			}
			caseTags := mergeTags(tags, s.Tags)
			if !c.selected(caseTags) {
				continue
			}
			collected.Steps = append(collected.Steps, CollectedStep{
				Index:  c.nextIndex(),
				Path:   path,
				Before: before,
				After:  after,
				Case:   s,
				Tags:   caseTags,
			})
		case *describe.LogStatement:
			if s == nil {
				continue
			}
			collected.Steps = append(collected.Steps, CollectedStep{
				Index:  c.nextIndex(),
				Path:   path,
				Before: before,
				After:  after,
				Log:    s,
			})
		}
	}

	for i := range g.Children {
		child := c.collectGroup(&g.Children[i], path, before, after, tags)
		if child != nil {
			collected.Children = append(collected.Children, child)
		}
	}

	if c.filter != nil && collected.TotalCount() == 0 {
		return nil
	}
	return collected
}

func (c *collector) nextIndex() int {
	i := c.next
	c.next++
	return i
}

func (c *collector) selected(tags []string) bool {
	if c.filter == nil {
		return true
	}
	return c.filter.Evaluate(tags)
}

// mergeTags appends child tags to parent tags, skipping duplicates.
func mergeTags(parent, child []string) []string {
	merged := make([]string, 0, len(parent)+len(child))
	for _, tag := range slices.Concat(parent, child) {
		if !slices.Contains(merged, tag) {
			merged = append(merged, tag)
		}
	}
	return merged
}
