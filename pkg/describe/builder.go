package describe

import (
	"fmt"
	"slices"
)

// Entry is anything that can be declared inside a Describe block.
// Group, *TestCase and *LogStatement are entries, as are the values returned by
// BeforeEach, AfterEach, Tags and ForEach.
type Entry interface {
	apply(g *Group)
}

type entryFunc func(g *Group)

func (f entryFunc) apply(g *Group) { f(g) }

// apply nests the group as a child.
func (g Group) apply(parent *Group) {
	parent.Children = append(parent.Children, g)
}

func (c *TestCase) apply(g *Group) {
	g.Steps = append(g.Steps, c)
}

func (l *LogStatement) apply(g *Group) {
	g.Steps = append(g.Steps, l)
}

// Describe builds a group from entries, in declaration order.
//
//	suite := describe.Describe("Arithmetic",
//		describe.BeforeEach(setup),
//		describe.It("adds", func(ctx context.Context) error { ... }),
//		describe.Describe("Nested", ...),
//	)
func Describe(name string, entries ...Entry) Group {
	g := Group{Name: name}
	for _, e := range entries {
		if e != nil {
			e.apply(&g)
		}
	}
	return g
}

// It declares a test case. A nil body declares a pending case.
func It(name string, body Action, tags ...string) *TestCase {
	return &TestCase{Name: name, Body: body, Tags: slices.Clone(tags)}
}

// Pending declares a test case without a body.
func Pending(name string, tags ...string) *TestCase {
	return It(name, nil, tags...)
}

// BeforeEach declares a hook that runs before every test case of the enclosing
// group and all of its descendants.
func BeforeEach(fn Action) Entry {
	return entryFunc(func(g *Group) {
		g.Hooks = append(g.Hooks, HookEntry{Kind: HookBefore, Fn: fn})
	})
}

// AfterEach declares a hook that runs after every test case of the enclosing
// group and all of its descendants.
func AfterEach(fn Action) Entry {
	return entryFunc(func(g *Group) {
		g.Hooks = append(g.Hooks, HookEntry{Kind: HookAfter, Fn: fn})
	})
}

// LogInfo declares an info log statement step.
func LogInfo(message string) *LogStatement {
	return &LogStatement{Level: LevelInfo, Message: message}
}

// LogDebug declares a debug log statement step.
func LogDebug(message string) *LogStatement {
	return &LogStatement{Level: LevelDebug, Message: message}
}

// Tags attaches tags to the enclosing group. They are inherited by every case
// below it.
func Tags(tags ...string) Entry {
	return entryFunc(func(g *Group) {
		g.Tags = append(g.Tags, tags...)
	})
}

// Entries bundles several entries into one.
func Entries(entries ...Entry) Entry {
	return entryFunc(func(g *Group) {
		for _, e := range entries {
			if e != nil {
				e.apply(g)
			}
		}
	})
}

// ForEach generates entries from items. For every item fn produces a group whose
// steps and children are merged into the enclosing group, in item order, and
// whose name and tags are ignored.
//
// A produced group that declares hooks is nested as a child instead, so its
// hooks only wrap that item's cases. An empty name is replaced by the item
// formatted with fmt.Sprint.
func ForEach[T any](items []T, fn func(item T) Group) Entry {
	return entryFunc(func(g *Group) {
		for _, item := range items {
			generated := fn(item)
			if len(generated.Hooks) > 0 {
				if generated.Name == "" {
					generated.Name = fmt.Sprint(item)
				}
				g.Children = append(g.Children, generated)
				continue
			}
			g.Steps = append(g.Steps, generated.Steps...)
			g.Children = append(g.Children, generated.Children...)
		}
	})
}
