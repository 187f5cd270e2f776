package describe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func noop(context.Context) error { return nil }

// =============================================================================
// Builder Tests
// =============================================================================

func TestDescribe(t *testing.T) {
	t.Run("keeps steps in declaration order", func(t *testing.T) {
		g := Describe("G",
			LogInfo("B"),
			It("t1", noop),
			LogDebug("A"),
			Pending("t2"),
		)

		require.Equal(t, "G", g.Name)
		require.Len(t, g.Steps, 4)
		require.Equal(t, &LogStatement{Level: LevelInfo, Message: "B"}, g.Steps[0])
		require.Equal(t, "t1", g.Steps[1].(*TestCase).Name)
		require.Equal(t, &LogStatement{Level: LevelDebug, Message: "A"}, g.Steps[2])
		require.True(t, g.Steps[3].(*TestCase).IsPending())
	})

	t.Run("nests groups as children", func(t *testing.T) {
		g := Describe("root",
			Describe("a", It("a1", noop)),
			It("r1", noop),
			Describe("b"),
		)

		require.Len(t, g.Children, 2)
		require.Equal(t, "a", g.Children[0].Name)
		require.Equal(t, "b", g.Children[1].Name)
		require.Len(t, g.Steps, 1)
	})

	t.Run("separates before and after hooks", func(t *testing.T) {
		var calls []string
		hook := func(name string) Action {
			return func(context.Context) error {
				calls = append(calls, name)
				return nil
			}
		}
		g := Describe("G",
			BeforeEach(hook("b1")),
			AfterEach(hook("a1")),
			BeforeEach(hook("b2")),
		)

		require.Len(t, g.Before(), 2)
		require.Len(t, g.After(), 1)
		for _, h := range g.Before() {
			require.NoError(t, h(context.Background()))
		}
		require.Equal(t, []string{"b1", "b2"}, calls)
	})

	t.Run("ignores nil entries", func(t *testing.T) {
		g := Describe("G", nil, It("t", noop), nil)
		require.Len(t, g.Steps, 1)
	})

	t.Run("collects tags", func(t *testing.T) {
		g := Describe("G", Tags("@a"), Tags("@b"), It("t", noop, "@c"))
		require.Equal(t, []string{"@a", "@b"}, g.Tags)
		require.Equal(t, []string{"@c"}, g.Cases()[0].Tags)
	})
}

func TestForEach(t *testing.T) {
	t.Run("generates a case per item", func(t *testing.T) {
		g := Describe("numbers",
			ForEach([]int{1, 2, 3}, func(n int) Group {
				return Describe("", It("case", noop), LogInfo("after case"))
			}),
		)

		require.Len(t, g.Steps, 6)
		require.Len(t, g.Cases(), 3)
	})

	t.Run("merges children", func(t *testing.T) {
		g := Describe("G",
			ForEach([]string{"x", "y"}, func(s string) Group {
				return Describe("", Describe(s))
			}),
		)

		require.Len(t, g.Children, 2)
		require.Equal(t, "x", g.Children[0].Name)
		require.Equal(t, "y", g.Children[1].Name)
	})

	t.Run("items with hooks become child groups", func(t *testing.T) {
		g := Describe("G",
			It("outer", noop),
			ForEach([]int{1, 2}, func(n int) Group {
				return Describe("", BeforeEach(noop), It("case", noop))
			}),
			ForEach([]string{"named"}, func(s string) Group {
				return Describe("item "+s, AfterEach(noop), It("case", noop))
			}),
		)

		require.Empty(t, g.Before())
		require.Empty(t, g.After())
		require.Len(t, g.Cases(), 1)
		require.Len(t, g.Children, 3)
		require.Equal(t, "1", g.Children[0].Name)
		require.Equal(t, "2", g.Children[1].Name)
		require.Equal(t, "item named", g.Children[2].Name)
		for _, child := range g.Children[:2] {
			require.Len(t, child.Before(), 1)
			require.Len(t, child.Cases(), 1)
		}
		require.Len(t, g.Children[2].After(), 1)
		require.Equal(t, 4, g.TotalCount())
	})

	t.Run("empty items generate nothing", func(t *testing.T) {
		g := Describe("G", ForEach([]int{}, func(int) Group { return Describe("x", It("t", noop)) }))
		require.Empty(t, g.Steps)
		require.Empty(t, g.Children)
	})
}

func TestEntries(t *testing.T) {
	common := Entries(BeforeEach(noop), LogInfo("shared"))
	g := Describe("G", common, It("t", noop))

	require.Len(t, g.Before(), 1)
	require.Len(t, g.Steps, 2)
}

// =============================================================================
// Group Tests
// =============================================================================

func TestGroup_TotalCount(t *testing.T) {
	g := Describe("root",
		It("r1", noop),
		LogInfo("not counted"),
		Describe("a",
			It("a1", noop),
			Pending("a2"),
			Describe("aa", It("aa1", noop)),
		),
		Describe("b"),
	)

	require.Equal(t, 4, g.TotalCount())
	require.Equal(t, 0, Describe("empty").TotalCount())
}

func TestGroup_NilCases(t *testing.T) {
	var missing *TestCase
	g := Group{Name: "G", Steps: []Step{missing, Pending("p")}}

	require.Len(t, g.Cases(), 1)
	require.Equal(t, "p", g.Cases()[0].Name)
	require.Equal(t, 1, g.TotalCount())
}

// =============================================================================
// Path Tests
// =============================================================================

func TestPath(t *testing.T) {
	t.Run("child does not modify parent", func(t *testing.T) {
		parent := make(Path, 1, 8)
		parent[0] = "root"

		a := parent.Child("a")
		b := parent.Child("b")

		require.Equal(t, Path{"root"}, parent)
		require.Equal(t, Path{"root", "a"}, a)
		require.Equal(t, Path{"root", "b"}, b)
	})

	t.Run("string and depth", func(t *testing.T) {
		p := NewPath("G", "H")
		require.Equal(t, "G/H", p.String())
		require.Equal(t, 2, p.Depth())
		require.Equal(t, "H", p.Last())
		require.Equal(t, "", Path(nil).Last())
	})

	t.Run("equality", func(t *testing.T) {
		require.True(t, NewPath("a", "b").Equal(Path{"a", "b"}))
		require.False(t, NewPath("a").Equal(Path{"a", "b"}))
	})
}

// =============================================================================
// Hook Error Tests
// =============================================================================

func TestHookError(t *testing.T) {
	cause := context.Canceled
	err := &HookError{Kind: HookAfter, Index: 0, Err: cause}

	require.Equal(t, "after hook #1 failed: context canceled", err.Error())
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, "before", HookBefore.String())
}
